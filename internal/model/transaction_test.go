package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "plain", input: "14800.00", want: "14800", wantOK: true},
		{name: "dollar sign and commas", input: "$3,998.49", want: "3998.49", wantOK: true},
		{name: "sub-dollar", input: "$0.03", want: "0.03", wantOK: true},
		{name: "whitespace", input: "  620.00 ", want: "620", wantOK: true},
		{name: "empty", input: "", wantOK: false},
		{name: "non-numeric", input: "12x.40", wantOK: false},
		{name: "placeholder", input: "N/A", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
					"got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParsePaymentMethod(t *testing.T) {
	tests := []struct {
		input string
		want  PaymentMethod
	}{
		{"wire in", PaymentWireIn},
		{"Wire In", PaymentWireIn},
		{"WIRE_IN", PaymentWireIn},
		{"wire-in", PaymentWireIn},
		{"wire out", PaymentWireOut},
		{"ach", PaymentACH},
		{"ACH Transaction", PaymentACH},
		{"ach external", PaymentACHExternal},
		{"ACH-External", PaymentACHExternal},
		{"check", PaymentCheck},
		{"Check Paid", PaymentCheck},
		{"Zero Balance Transfer", PaymentZeroBalance},
		{"ZBT", PaymentZeroBalance},
		{"card", PaymentCard},
		{"", PaymentUnknown},
		{"carrier pigeon", PaymentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePaymentMethod(tt.input))
		})
	}
}

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "59321936", NormalizeID("claim_59321936"))
	assert.Equal(t, "59321936", NormalizeID("claim59321936"))
	assert.Equal(t, "59321936", NormalizeID(" 59321936 "))
	assert.Equal(t, "BT-1234", NormalizeID("BT-1234"))
}

func TestFromRaw(t *testing.T) {
	txn := FromRaw(RawTransaction{
		ID:            "claim_59317875",
		Amount:        "$14,800.00",
		Date:          "2025-10-14",
		PaymentMethod: "wire in",
		Account:       "PNC Wire In",
		Description:   "WIRE TRANSFER IN ISO 003YJK",
	})

	assert.Equal(t, "59317875", txn.ID)
	assert.True(t, txn.AmountValid)
	assert.True(t, txn.Amount.Equal(decimal.RequireFromString("14800.00")))
	assert.Equal(t, PaymentWireIn, txn.PaymentMethod)
	assert.Equal(t, time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC), txn.Date)
}

func TestFromRawMalformed(t *testing.T) {
	// Garbage input must still produce a usable record.
	txn := FromRaw(RawTransaction{
		ID:            "claim_x",
		Amount:        "not-a-number",
		Date:          "sometime",
		PaymentMethod: "telepathy",
	})

	assert.False(t, txn.AmountValid)
	assert.True(t, txn.Amount.IsZero())
	assert.True(t, txn.Date.IsZero())
	assert.Equal(t, PaymentUnknown, txn.PaymentMethod)
}

func TestLabelSet(t *testing.T) {
	require.True(t, Known(LabelRisk))
	require.True(t, Known(LabelUnknown))
	require.False(t, Known(Label("Space Lasers")))

	labels := AllLabels()
	assert.GreaterOrEqual(t, len(labels), 30)
	assert.Equal(t, LabelUnknown, labels[len(labels)-1])
}
