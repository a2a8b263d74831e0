package models

import "time"

// Coupon is a promotion code. Discount is a percentage; all rule checks
// happen upstream.
type Coupon struct {
	ID          string    `json:"_id,omitempty"`
	Code        string    `json:"code"`
	Discount    float64   `json:"discount"`
	MinPurchase Money     `json:"minPurchase"`
	ValidFrom   time.Time `json:"validFrom"`
	ValidUntil  time.Time `json:"validUntil"`
	UsageLimit  int       `json:"usageLimit"`
	UsedCount   int       `json:"usedCount"`
	IsPersonal  bool      `json:"isPersonal"`
	IsActive    bool      `json:"isActive"`
}

// CouponValidation is the upstream answer to /promotions/validate.
type CouponValidation struct {
	Valid          bool    `json:"valid"`
	DiscountAmount Money   `json:"discountAmount"`
	Message        string  `json:"message,omitempty"`
	Promotion      *Coupon `json:"promotion,omitempty"`
}
