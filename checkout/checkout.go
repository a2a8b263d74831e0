// Package checkout holds the transient checkout state of a session (coupon,
// address, payment method) and places orders from the cart.
package checkout

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/Madhav-Gupta-28/storefront-go/apiclient"
	"github.com/Madhav-Gupta-28/storefront-go/models"
)

var (
	ErrCouponApplied      = errors.New("a coupon is already applied")
	ErrCouponCodeRequired = errors.New("please enter a coupon code")
	ErrInvalidPayment     = errors.New("unsupported payment method")
)

type CouponValidator interface {
	ValidateCoupon(ctx context.Context, code string, subtotal models.Money) (models.CouponValidation, error)
}

// AppliedCoupon remembers the subtotal the upstream validated; the discount
// only holds for that subtotal.
type AppliedCoupon struct {
	Code      string         `json:"code"`
	Discount  models.Money   `json:"discount"`
	Subtotal  models.Money   `json:"subtotal"`
	Promotion *models.Coupon `json:"promotion,omitempty"`
}

// Checkout lives as long as the session is cached. Only the pending gateway
// order outlives it, see Flow.Restore.
type Checkout struct {
	mu      sync.Mutex
	coupon  *AppliedCoupon
	address *models.Address
	payment models.PaymentMethod
	pending *models.GatewayOrder
}

func New() *Checkout {
	return &Checkout{payment: models.PaymentRazorpay}
}

// ApplyCoupon validates code upstream against subtotal and keeps the
// returned discount. Rule checks (percentage, expiry, usage limits) are the
// upstream's; a rejection carries its message unchanged.
func (c *Checkout) ApplyCoupon(ctx context.Context, v CouponValidator, code string, subtotal models.Money) (AppliedCoupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return AppliedCoupon{}, ErrCouponCodeRequired
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.coupon != nil {
		return AppliedCoupon{}, ErrCouponApplied
	}

	res, err := v.ValidateCoupon(ctx, code, subtotal)
	if err != nil {
		return AppliedCoupon{}, err
	}
	if !res.Valid {
		msg := res.Message
		if msg == "" {
			msg = "Invalid coupon code"
		}
		return AppliedCoupon{}, &apiclient.APIError{Status: http.StatusBadRequest, Message: msg}
	}

	c.coupon = &AppliedCoupon{Code: code, Discount: res.DiscountAmount, Subtotal: subtotal, Promotion: res.Promotion}
	return *c.coupon, nil
}

// RemoveCoupon drops the applied coupon; the discount returns to zero and
// ApplyCoupon is allowed again.
func (c *Checkout) RemoveCoupon() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.coupon = nil
}

func (c *Checkout) Coupon() (AppliedCoupon, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.coupon == nil {
		return AppliedCoupon{}, false
	}
	return *c.coupon, true
}

func (c *Checkout) CanApplyCoupon() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.coupon == nil
}

func (c *Checkout) CouponDiscount() models.Money {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.coupon == nil {
		return 0
	}
	return c.coupon.Discount
}

// DiscountFor returns the coupon discount for a cart worth subtotal. A
// coupon validated against another subtotal is dropped and dropped is true;
// the shopper has to apply it again.
func (c *Checkout) DiscountFor(subtotal models.Money) (discount models.Money, dropped bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.coupon == nil {
		return 0, false
	}
	if c.coupon.Subtotal != subtotal {
		c.coupon = nil
		return 0, true
	}
	return c.coupon.Discount, false
}

func (c *Checkout) SelectAddress(a models.Address) error {
	if err := a.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.address = &a
	return nil
}

func (c *Checkout) Address() (models.Address, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.address == nil {
		return models.Address{}, false
	}
	return *c.address, true
}

func (c *Checkout) SetPaymentMethod(m models.PaymentMethod) error {
	if !m.Valid() {
		return ErrInvalidPayment
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payment = m
	return nil
}

func (c *Checkout) PaymentMethod() models.PaymentMethod {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.payment
}

func (c *Checkout) setPending(g *models.GatewayOrder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = g
}

func (c *Checkout) Pending() *models.GatewayOrder {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Reset clears everything after an order completes.
func (c *Checkout) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.coupon = nil
	c.address = nil
	c.pending = nil
	c.payment = models.PaymentRazorpay
}
