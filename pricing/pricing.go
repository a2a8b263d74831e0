// Package pricing computes checkout totals for a cart.
package pricing

import (
	"fmt"
	"os"
	"time"

	"github.com/Madhav-Gupta-28/storefront-go/models"
	"gopkg.in/yaml.v3"
)

// Rules holds the flat amounts used by Quote, in rupees.
type Rules struct {
	PremiumDiscount float64 `yaml:"premium_discount"`
	ShippingFee     float64 `yaml:"shipping_fee"`
	CODSurcharge    float64 `yaml:"cod_surcharge"`
}

func DefaultRules() Rules {
	return Rules{
		PremiumDiscount: 250,
		ShippingFee:     100,
		CODSurcharge:    50,
	}
}

// LoadRules reads rules from a YAML file. Keys missing from the file keep
// their default values.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read pricing rules: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("parse pricing rules: %w", err)
	}
	if rules.PremiumDiscount < 0 || rules.ShippingFee < 0 || rules.CODSurcharge < 0 {
		return rules, fmt.Errorf("pricing rules must not be negative")
	}
	return rules, nil
}

type Input struct {
	Items          []models.CartLineItem
	User           *models.User
	PaymentMethod  models.PaymentMethod
	CouponDiscount models.Money
	Now            time.Time
}

type Breakdown struct {
	Subtotal        models.Money `json:"subtotal"`
	PremiumDiscount models.Money `json:"premiumDiscount"`
	CouponDiscount  models.Money `json:"couponDiscount"`
	Shipping        models.Money `json:"shipping"`
	CODSurcharge    models.Money `json:"codSurcharge"`
	Total           models.Money `json:"total"`
	PricedItems     int          `json:"pricedItems"`
	SkippedItems    int          `json:"skippedItems"`
}

// Subtotal sums price times quantity over the lines with a product and a
// numeric price. Other lines are skipped and counted.
func Subtotal(items []models.CartLineItem) (sum models.Money, priced, skipped int) {
	for _, item := range items {
		if !item.Priced() {
			skipped++
			continue
		}
		sum += item.LineTotal()
		priced++
	}
	return sum, priced, skipped
}

// Quote computes
//
//	total = subtotal - premiumDiscount - couponDiscount + shipping + codSurcharge
//
// The total is not clamped at zero.
func (r Rules) Quote(in Input) Breakdown {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	var b Breakdown
	b.Subtotal, b.PricedItems, b.SkippedItems = Subtotal(in.Items)

	if in.User.PremiumActive(now) {
		b.PremiumDiscount = models.FromRupees(r.PremiumDiscount)
	}
	if b.Subtotal > 0 {
		b.Shipping = models.FromRupees(r.ShippingFee)
	}
	if in.PaymentMethod == models.PaymentCOD {
		b.CODSurcharge = models.FromRupees(r.CODSurcharge)
	}
	b.CouponDiscount = in.CouponDiscount

	b.Total = b.Subtotal - b.PremiumDiscount - b.CouponDiscount + b.Shipping + b.CODSurcharge
	return b
}

// Quote prices with the default rules.
func Quote(in Input) Breakdown {
	return DefaultRules().Quote(in)
}
