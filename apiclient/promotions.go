package apiclient

import (
	"context"
	"net/http"

	"github.com/Madhav-Gupta-28/storefront-go/models"
)

type validateCouponRequest struct {
	Code        string       `json:"code"`
	OrderAmount models.Money `json:"orderAmount"`
}

// ValidateCoupon asks the upstream whether code applies to an order of
// subtotal. A rejected code comes back as an *APIError or Valid=false.
func (c *Client) ValidateCoupon(ctx context.Context, code string, subtotal models.Money) (models.CouponValidation, error) {
	var out models.CouponValidation
	err := c.doJSON(ctx, http.MethodPost, "/promotions/validate", validateCouponRequest{Code: code, OrderAmount: subtotal}, &out)
	return out, err
}

func (c *Client) AvailableCoupons(ctx context.Context) ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := c.getJSON(ctx, "/coupons/available", nil, unwrap("coupons", &coupons)); err != nil {
		return nil, err
	}
	return coupons, nil
}
