package rules

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/treasuryops/recon/internal/model"
)

// evalContext carries the normalized views of one transaction plus the
// batch-level state a predicate may consult.
type evalContext struct {
	txn    model.Transaction
	desc   string // uppercased description
	acct   string // uppercased account name
	paired map[string]struct{}
	today  time.Time
}

func newEvalContext(txn model.Transaction, paired map[string]struct{}, now time.Time) *evalContext {
	return &evalContext{
		txn:    txn,
		desc:   txn.DescriptionUpper(),
		acct:   txn.AccountUpper(),
		paired: paired,
		today:  now,
	}
}

// rule is one row of the decision table. Rules are evaluated strictly in
// table order and the first match wins, so the order of buildTable IS the
// priority policy; do not reorder rows without treasury ops sign-off.
type rule struct {
	label         model.Label
	justification string
	match         func(c *evalContext) bool
	deferred      bool // matched but intentionally left unlabeled
}

var (
	oneDollar = decimal.NewFromInt(1)
	cscRe     = regexp.MustCompile(`CSC\d{6}`)
)

func buildTable(cfg Config) []rule {
	return []rule{
		// Zero balance transfers are informational sweeps and outrank
		// everything; ops never reconciles them.
		{
			label:         model.LabelZBT,
			justification: "Payment method is zero balance transfer",
			match: func(c *evalContext) bool {
				return c.txn.PaymentMethod == model.PaymentZeroBalance
			},
		},

		// 1TRV is the originating bank's definitive fraud/risk marker and
		// overrides every account-based default.
		{
			label:         model.LabelRisk,
			justification: "Description contains '1TRV' code",
			match:         descContains("1TRV"),
		},

		// Account-identity overrides.
		{
			label:         model.LabelRisk,
			justification: "Account is Chase Recovery but amount exceeds the large-wire threshold",
			match: func(c *evalContext) bool {
				return strings.Contains(c.acct, "CHASE RECOVERY") &&
					c.txn.AmountValid && c.txn.Amount.GreaterThan(cfg.LargeWireThreshold)
			},
		},
		{
			label:         model.LabelRecoveryWire,
			justification: "Account is Chase Recovery",
			match:         acctContains("CHASE RECOVERY"),
		},
		{
			// Same-day wires into this account are deliberately left
			// unlabeled until the next run; they resolve to Risk at T+1.
			deferred: true,
			match: func(c *evalContext) bool {
				return strings.Contains(c.acct, "CHASE PAYROLL INCOMING WIRES") &&
					sameCalendarDay(c.txn.Date, c.today)
			},
		},
		{
			label:         model.LabelRisk,
			justification: "Account is Chase Payroll Incoming Wires",
			match:         acctContains("CHASE PAYROLL INCOMING WIRES"),
		},
		{
			label:         model.LabelRecoveryWire,
			justification: "Amount is below the small-wire threshold for a wire-in account",
			match: func(c *evalContext) bool {
				if !strings.Contains(c.acct, "PNC WIRE IN") && !strings.Contains(c.acct, "CHASE WIRE IN") {
					return false
				}
				return c.txn.AmountValid && c.txn.Amount.IsPositive() &&
					c.txn.Amount.LessThan(cfg.SmallWireThreshold)
			},
		},
		{
			label:         model.LabelRisk,
			justification: "Account is PNC Wire In or Chase Wire In",
			match: func(c *evalContext) bool {
				return strings.Contains(c.acct, "PNC WIRE IN") || strings.Contains(c.acct, "CHASE WIRE IN")
			},
		},

		// Vendor and program specific description markers. Order matters
		// when multiple could match.
		{
			label:         model.LabelNiumPayment,
			justification: "Description contains 'NIUM'",
			match:         descContains("NIUM"),
		},
		{
			label:         model.LabelICPFunding,
			justification: "International contractor payment account with JPMorgan access transfer remark",
			match: func(c *evalContext) bool {
				return isICPAccount(c.acct) && hasICPFundingSignature(c.desc)
			},
		},
		{
			// Second pass of the batch-level pairing rule: the inbound leg
			// of an ICP funding pair matches by amount.
			label:         model.LabelICPFunding,
			justification: "Amount matches the paired ICP funding transfer for the day",
			match: func(c *evalContext) bool {
				if len(c.paired) == 0 || !c.txn.AmountValid {
					return false
				}
				if !strings.Contains(c.desc, "JPMORGAN ACCESS TRANSFER") {
					return false
				}
				_, ok := c.paired[c.txn.Amount.StringFixed(2)]
				return ok
			},
		},
		{
			label:         model.LabelNYWH,
			justification: "Description contains 'NYS DTF WT'",
			match:         descContains("NYS DTF WT", "NY DTF WT"),
		},
		{
			label:         model.LabelNYUI,
			justification: "Description contains 'NYS DOL UI'",
			match:         descContains("NYS DOL UI"),
		},
		{
			label:         model.LabelOHSDWH,
			justification: "Description contains 'OH SDWH'",
			match:         descContains("1HIOSDWH", "OHSDWHTX", "OH SDWH"),
		},
		{
			label:         model.LabelOHWH,
			justification: "Description contains 'OH WH TAX'",
			match:         descContains("OH WH TAX"),
		},
		{
			label:         model.LabelMTUI,
			justification: "Description contains 'STATE OF MONTANA'",
			match:         descContains("STATE OF MONTANA", "MT TAX"),
		},
		{
			label:         model.LabelILUI,
			justification: "Description contains 'IL DEPT EMPL SEC'",
			match:         descContains("IL DEPT EMPL SEC"),
		},
		{
			label:         model.LabelWAESD,
			justification: "Description contains 'STATE OF WA ESD'",
			match:         descContains("STATE OF WA ESD", "ESD WA UI-TAX"),
		},
		{
			label:         model.LabelNMUI,
			justification: "Description contains 'STATE OF NM DWS'",
			match:         descContains("STATE OF NM DWS"),
		},
		{
			label:         model.LabelVAUI,
			justification: "Description contains 'VA. EMPLOY COMM'",
			match:         descContains("VA. EMPLOY COMM", "VA EMPLOY COMM"),
		},
		{
			label:         model.LabelWALNI,
			justification: "Description contains 'L&I' or 'Labor & Industries'",
			match:         descContains("L&I", "LABOR&INDUSTRIES", "LABOR & INDUSTRIES"),
		},
		{
			label:         model.LabelYorkAdamsTax,
			justification: "Description contains 'YORK ADAMS TAX'",
			match:         descContains("YORK ADAMS TAX"),
		},
		{
			label:         model.LabelBerksTax,
			justification: "Description contains 'BERKS EIT'",
			match:         descContains("BERKS EIT"),
		},
		{
			label:         model.LabelBlueridgeInterest,
			justification: "Accrued interest on a Blueridge account",
			match: func(c *evalContext) bool {
				return strings.Contains(c.desc, "ACCRUED INT") && strings.Contains(c.acct, "BLUERIDGE")
			},
		},
		{
			label:         model.LabelACHReversal,
			justification: "Description contains 'ACH CREDIT SETTLEMENT'",
			match:         descContains("ACH CREDIT SETTLEMENT"),
		},
		{
			label:         model.LabelACH,
			justification: "Description contains 'EFT REVERSAL'",
			match:         descContains("EFT REVERSAL"),
		},
		{
			label:         model.LabelInterestAdjustment,
			justification: "Description contains 'INTEREST ADJUSTMENT'",
			match:         descContains("INTEREST ADJUSTMENT"),
		},
		{
			label:         model.LabelACHReturn,
			justification: "Description contains 'RTN OFFSET'",
			match:         descContains("RTN OFFSET"),
		},
		{
			label:         model.LabelICP,
			justification: "Description contains 'DLOCAL'",
			match:         descContains("DLOCAL", "DLOCL"),
		},

		// Payment-method rule.
		{
			label:         model.LabelCheck,
			justification: "Payment method is check",
			match: func(c *evalContext) bool {
				return c.txn.PaymentMethod == model.PaymentCheck
			},
		},

		// Generic financial-instrument markers, broad matches last.
		{
			label:         model.LabelMoneyMarketFund,
			justification: "Description contains 'MONEY MARKET'",
			match:         descContains("MONEY MARKET", "MONEY MKT"),
		},
		{
			label:         model.LabelTreasuryTransfer,
			justification: "Description contains 'TREASURY'",
			match:         descContains("US TREASURY", "TREASURY"),
		},
		{
			label:         model.LabelCSC,
			justification: "Description contains a CSC reference number",
			match: func(c *evalContext) bool {
				return cscRe.MatchString(c.desc)
			},
		},
		{
			label:         model.LabelLockbox,
			justification: "Description contains 'LOCKBOX'",
			match:         descContains("LOCKBOX"),
		},
		{
			label:         model.LabelLOI,
			justification: "Description indicates a letter of indemnity settlement",
			match:         descContains("ACH RETURN SETTLEMENT", "CREDIT MEMO"),
		},
		{
			label:         model.LabelBrex,
			justification: "Description contains 'BREX'",
			match:         descContains("BREX"),
		},

		// Amount catch-all, after every description rule that could claim a
		// sub-dollar transaction but before the default.
		{
			label:         model.LabelBadDebt,
			justification: "Amount less than $1.00",
			match: func(c *evalContext) bool {
				return c.txn.AmountValid && c.txn.Amount.IsPositive() &&
					c.txn.Amount.LessThan(oneDollar)
			},
		},
	}
}

func descContains(markers ...string) func(c *evalContext) bool {
	return func(c *evalContext) bool {
		return containsAny(c.desc, markers...)
	}
}

func acctContains(markers ...string) func(c *evalContext) bool {
	return func(c *evalContext) bool {
		return containsAny(c.acct, markers...)
	}
}

func containsAny(s string, markers ...string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func isICPAccount(acct string) bool {
	return strings.Contains(acct, "INTERNATIONAL CONTRACTOR PAYMENT") ||
		strings.Contains(acct, "CHASE ICP")
}

// hasICPFundingSignature identifies the outbound leg of an ICP funding pair.
// Real narratives carry "TRANSFER FROM ACCOUNT..." and "REMARK=JPMORGAN
// ACCESS TRANSFER" as separate fragments, so both markers are required
// rather than one contiguous phrase.
func hasICPFundingSignature(desc string) bool {
	return strings.Contains(desc, "JPMORGAN ACCESS TRANSFER") &&
		strings.Contains(desc, "TRANSFER FROM")
}

func sameCalendarDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
