package model

// Label is the operational category assigned to a transaction. The known set
// below is closed but extensible: the rule engine may emit a label before the
// SOP knowledge base documents it, and collaborator tiers may propose strings
// outside the set, which callers must check with Known before trusting.
type Label string

// Known labels.
const (
	LabelRisk               Label = "Risk"
	LabelRecoveryWire       Label = "Recovery Wire"
	LabelCheck              Label = "Check"
	LabelNYWH               Label = "NY WH"
	LabelNYUI               Label = "NY UI"
	LabelOHSDWH             Label = "OH SDWH"
	LabelOHWH               Label = "OH WH"
	LabelMTUI               Label = "MT UI"
	LabelILUI               Label = "IL UI"
	LabelWAESD              Label = "WA ESD"
	LabelNMUI               Label = "NM UI"
	LabelVAUI               Label = "VA UI"
	LabelWALNI              Label = "WA LNI"
	LabelYorkAdamsTax       Label = "York Adams Tax"
	LabelBerksTax           Label = "Berks Tax"
	LabelBlueridgeInterest  Label = "Blueridge Interest"
	LabelACH                Label = "ACH"
	LabelACHReversal        Label = "ACH Reversal"
	LabelACHReturn          Label = "ACH Return"
	LabelInterestAdjustment Label = "Interest Adjustment"
	LabelICP                Label = "ICP"
	LabelICPFunding         Label = "ICP Funding"
	LabelICPReturn          Label = "ICP Return"
	LabelICPRefund          Label = "ICP Refund"
	LabelNiumPayment        Label = "Nium Payment"
	LabelMoneyMarketFund    Label = "Money Market Fund"
	LabelTreasuryTransfer   Label = "Treasury Transfer"
	LabelCSC                Label = "CSC"
	LabelLockbox            Label = "Lockbox"
	LabelLOI                Label = "LOI"
	LabelBadDebt            Label = "Bad Debt"
	LabelBrex               Label = "Brex"
	LabelZBT                Label = "ZBT"
	LabelUnknown            Label = "Unknown"
)

// allLabels preserves a stable presentation order: operational labels first,
// Unknown last.
var allLabels = []Label{
	LabelRisk,
	LabelRecoveryWire,
	LabelCheck,
	LabelNYWH,
	LabelNYUI,
	LabelOHSDWH,
	LabelOHWH,
	LabelMTUI,
	LabelILUI,
	LabelWAESD,
	LabelNMUI,
	LabelVAUI,
	LabelWALNI,
	LabelYorkAdamsTax,
	LabelBerksTax,
	LabelBlueridgeInterest,
	LabelACH,
	LabelACHReversal,
	LabelACHReturn,
	LabelInterestAdjustment,
	LabelICP,
	LabelICPFunding,
	LabelICPReturn,
	LabelICPRefund,
	LabelNiumPayment,
	LabelMoneyMarketFund,
	LabelTreasuryTransfer,
	LabelCSC,
	LabelLockbox,
	LabelLOI,
	LabelBadDebt,
	LabelBrex,
	LabelZBT,
	LabelUnknown,
}

var knownLabels = func() map[Label]struct{} {
	m := make(map[Label]struct{}, len(allLabels))
	for _, l := range allLabels {
		m[l] = struct{}{}
	}
	return m
}()

// Known reports whether l is a member of the known label set.
func Known(l Label) bool {
	_, ok := knownLabels[l]
	return ok
}

// AllLabels returns the known label set in presentation order.
func AllLabels() []Label {
	out := make([]Label, len(allLabels))
	copy(out, allLabels)
	return out
}
