package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cartJSON = `[
	{"product": {"_id": "p1", "name": "Oversized Tee", "price": 1999}, "quantity": 2, "size": "M", "color": null},
	{"product": {"_id": "p2", "name": "Broken", "price": null}, "quantity": 1},
	{"product": null, "quantity": 3}
]`

type quoteOut struct {
	Subtotal        float64 `json:"subtotal"`
	PremiumDiscount float64 `json:"premiumDiscount"`
	Shipping        float64 `json:"shipping"`
	CODSurcharge    float64 `json:"codSurcharge"`
	Total           float64 `json:"total"`
	SkippedItems    int     `json:"skippedItems"`
}

func quote(t *testing.T, opts quoteOptions) quoteOut {
	t.Helper()
	opts.asJSON = true
	var out bytes.Buffer
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, runQuote(strings.NewReader(cartJSON), &out, opts, now))

	var got quoteOut
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	return got
}

func TestQuoteDefaultRazorpay(t *testing.T) {
	got := quote(t, quoteOptions{payment: "razorpay"})
	assert.Equal(t, 3998.0, got.Subtotal)
	assert.Equal(t, 100.0, got.Shipping)
	assert.Equal(t, 4098.0, got.Total)
	assert.Equal(t, 2, got.SkippedItems)
}

func TestQuotePremiumCOD(t *testing.T) {
	got := quote(t, quoteOptions{payment: "cod", premium: true, couponDiscount: 100})
	assert.Equal(t, 250.0, got.PremiumDiscount)
	assert.Equal(t, 50.0, got.CODSurcharge)
	assert.Equal(t, 3998.0-250-100+100+50, got.Total)
}

func TestQuoteExpiredPremium(t *testing.T) {
	got := quote(t, quoteOptions{payment: "razorpay", premium: true, premiumUntil: "2024-01-01T00:00:00Z"})
	assert.Zero(t, got.PremiumDiscount)
}

func TestQuoteRejectsUnknownPayment(t *testing.T) {
	err := runQuote(strings.NewReader("[]"), &bytes.Buffer{}, quoteOptions{payment: "upi"}, time.Now())
	assert.ErrorContains(t, err, "unsupported payment method")
}

func TestQuoteTable(t *testing.T) {
	var out bytes.Buffer
	err := runQuote(strings.NewReader(cartJSON), &out, quoteOptions{payment: "razorpay"}, time.Now())
	require.NoError(t, err)
	assert.Contains(t, out.String(), "₹4098.00")
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "quote"}, names)
}
