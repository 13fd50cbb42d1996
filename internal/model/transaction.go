// Package model defines the core domain models used throughout the application.
package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is the normalized payment rail for a transaction.
type PaymentMethod string

// Payment method constants. Upstream sources spell these many different
// ways; ParsePaymentMethod collapses all variants onto these values.
const (
	PaymentWireIn      PaymentMethod = "wire-in"
	PaymentWireOut     PaymentMethod = "wire-out"
	PaymentACH         PaymentMethod = "ach"
	PaymentACHExternal PaymentMethod = "ach-external"
	PaymentCheck       PaymentMethod = "check"
	PaymentCard        PaymentMethod = "card"
	PaymentZeroBalance PaymentMethod = "zero-balance-transfer"
	PaymentUnknown     PaymentMethod = "unknown"
)

// Transaction represents a single normalized bank transaction.
type Transaction struct {
	Date          time.Time
	ID            string
	Account       string // Origination account name, e.g. "Chase Wire In"
	Description   string // Raw bank narrative
	PaymentMethod PaymentMethod
	Amount        decimal.Decimal
	AmountValid   bool // False when the upstream amount was missing or unparseable
}

// RawTransaction is the wire shape accepted from upstream systems before
// normalization. All fields are free-form strings.
type RawTransaction struct {
	ID            string `json:"transaction_id"`
	Amount        string `json:"amount"`
	Date          string `json:"date"`
	PaymentMethod string `json:"payment_method"`
	Account       string `json:"origination_account_id"`
	Description   string `json:"description"`
}

// FromRaw builds a normalized Transaction from upstream input. It never
// fails: unparseable amounts are flagged invalid, unparseable dates are left
// zero, and unrecognized payment methods become PaymentUnknown.
func FromRaw(raw RawTransaction) Transaction {
	amount, ok := ParseAmount(raw.Amount)
	return Transaction{
		ID:            NormalizeID(raw.ID),
		Date:          parseDate(raw.Date),
		Account:       strings.TrimSpace(raw.Account),
		Description:   strings.TrimSpace(raw.Description),
		PaymentMethod: ParsePaymentMethod(raw.PaymentMethod),
		Amount:        amount,
		AmountValid:   ok,
	}
}

// NormalizeID strips the external system's removable claim prefix from a
// transaction identifier.
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(id, "claim_")
	id = strings.TrimPrefix(id, "claim")
	return strings.TrimSpace(id)
}

// ParseAmount parses a currency string such as "$3,998.49" into a decimal.
// The boolean reports whether the input carried a usable value; malformed
// amounts return a zero decimal and false rather than an error, so amount
// predicates simply fail to match.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, false
	}
	switch strings.ToLower(s) {
	case "unknown", "n/a", "na":
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParsePaymentMethod collapses free-form payment method strings onto the
// closed PaymentMethod enumeration. Case, spacing and separator variants all
// map to the same canonical value.
func ParsePaymentMethod(s string) PaymentMethod {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", " ")
	key = strings.ReplaceAll(key, "_", " ")
	key = strings.Join(strings.Fields(key), " ")

	switch key {
	case "wire in", "wirein", "wire":
		return PaymentWireIn
	case "wire out", "wireout":
		return PaymentWireOut
	case "ach", "ach transaction":
		return PaymentACH
	case "ach external", "achexternal":
		return PaymentACHExternal
	case "check", "check paid", "checkpaid":
		return PaymentCheck
	case "card", "debit card", "credit card":
		return PaymentCard
	case "zero balance transfer", "zbt":
		return PaymentZeroBalance
	default:
		return PaymentUnknown
	}
}

// DescriptionUpper returns the description uppercased for substring matching.
func (t Transaction) DescriptionUpper() string {
	return strings.ToUpper(t.Description)
}

// AccountUpper returns the account name uppercased for substring matching.
func (t Transaction) AccountUpper() string {
	return strings.ToUpper(t.Account)
}

// dateFormats accepted from upstream exports, most common first.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"01/02/2006 15:04:05",
	"01/02/2006 03:04:05pm",
	time.RFC3339,
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
