package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Madhav-Gupta-28/storefront-go/apiclient"
	"github.com/Madhav-Gupta-28/storefront-go/cart"
	"github.com/Madhav-Gupta-28/storefront-go/database"
	"github.com/Madhav-Gupta-28/storefront-go/metrics"
	"github.com/Madhav-Gupta-28/storefront-go/models"
	"github.com/Madhav-Gupta-28/storefront-go/pricing"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart          = errors.New("your cart is empty")
	ErrNoAddress          = errors.New("please select a delivery address")
	ErrIncompletePayment  = errors.New("incomplete payment details")
	ErrNoPendingPayment   = errors.New("no payment is pending for this session")
	ErrPaymentOrderChange = errors.New("payment does not match the pending order")
	ErrCouponStale        = errors.New("your cart changed; please apply the coupon again")
)

// KeyPending holds the gateway order awaiting payment verification.
const KeyPending = "checkout"

type OrderAPI interface {
	CouponValidator
	CreateOrder(ctx context.Context, order models.Order) (apiclient.CreateOrderResponse, error)
	VerifyPayment(ctx context.Context, v models.PaymentVerification) (models.Order, error)
}

type UserSource interface {
	User() *models.User
}

// Placement is the result of PlaceOrder. Gateway is set for online
// payments; the client opens the gateway with Gateway.ID and RazorpayKey.
type Placement struct {
	Order       models.Order         `json:"order"`
	Gateway     *models.GatewayOrder `json:"razorpayOrder,omitempty"`
	RazorpayKey string               `json:"razorpayKey,omitempty"`
	Quote       pricing.Breakdown    `json:"quote"`
	SyncWarning string               `json:"warning,omitempty"`
}

type Flow struct {
	Checkout    *Checkout
	Cart        *cart.Cart
	Store       database.Store
	Users       UserSource
	API         OrderAPI
	Rules       pricing.Rules
	RazorpayKey string
	Now         func() time.Time
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
}

func (f *Flow) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

func (f *Flow) logger() *zap.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return zap.NewNop()
}

// Restore reloads a gateway order that was awaiting payment when the
// session left memory.
func (f *Flow) Restore(ctx context.Context) error {
	if f.Store == nil {
		return nil
	}
	raw, err := f.Store.Get(ctx, KeyPending)
	if errors.Is(err, database.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore pending payment: %w", err)
	}
	var pending models.GatewayOrder
	if err := json.Unmarshal(raw, &pending); err != nil {
		f.logger().Warn("discarding unreadable pending payment", zap.Error(err))
		return nil
	}
	f.Checkout.setPending(&pending)
	return nil
}

// Quote prices the current cart with the session's checkout state. A coupon
// validated for another subtotal no longer applies.
func (f *Flow) Quote() pricing.Breakdown {
	quote, _ := f.quote(f.Cart.Items())
	return quote
}

func (f *Flow) quote(items []models.CartLineItem) (pricing.Breakdown, bool) {
	subtotal, _, _ := pricing.Subtotal(items)
	discount, dropped := f.Checkout.DiscountFor(subtotal)
	return f.Rules.Quote(pricing.Input{
		Items:          items,
		User:           f.Users.User(),
		PaymentMethod:  f.Checkout.PaymentMethod(),
		CouponDiscount: discount,
		Now:            f.now(),
	}), dropped
}

// ApplyCoupon validates code against the current subtotal.
func (f *Flow) ApplyCoupon(ctx context.Context, code string) (AppliedCoupon, error) {
	subtotal, _, _ := pricing.Subtotal(f.Cart.Items())
	applied, err := f.Checkout.ApplyCoupon(ctx, f.API, code, subtotal)
	switch {
	case err == nil:
		f.Metrics.CouponResult("applied")
	case errors.Is(err, ErrCouponApplied), errors.Is(err, ErrCouponCodeRequired):
	default:
		f.Metrics.CouponResult("rejected")
	}
	return applied, err
}

// PlaceOrder creates the order upstream. Cash-on-delivery orders clear the
// cart right away; online orders keep it until VerifyPayment succeeds.
func (f *Flow) PlaceOrder(ctx context.Context) (Placement, error) {
	items := f.Cart.Items()
	quote, dropped := f.quote(items)
	if quote.PricedItems == 0 {
		return Placement{}, ErrEmptyCart
	}
	if dropped {
		return Placement{}, ErrCouponStale
	}
	address, ok := f.Checkout.Address()
	if !ok {
		return Placement{}, ErrNoAddress
	}

	method := f.Checkout.PaymentMethod()
	order := models.Order{
		Items:           orderItems(items),
		ShippingAddress: address,
		PaymentMethod:   method,
		Subtotal:        quote.Subtotal,
		PremiumDiscount: quote.PremiumDiscount,
		CouponDiscount:  quote.CouponDiscount,
		ShippingCharge:  quote.Shipping,
		CODCharge:       quote.CODSurcharge,
		TotalAmount:     quote.Total,
		Status:          models.OrderStatusPending,
	}
	if c, ok := f.Checkout.Coupon(); ok {
		order.CouponCode = c.Code
	}

	resp, err := f.API.CreateOrder(ctx, order)
	if err != nil {
		return Placement{}, err
	}
	f.Metrics.OrderPlaced(string(method))

	p := Placement{Order: resp.Order, Quote: quote}
	if method == models.PaymentRazorpay {
		if resp.RazorpayOrder == nil {
			return Placement{}, fmt.Errorf("upstream returned no payment order for %s", resp.Order.ID)
		}
		p.Gateway = resp.RazorpayOrder
		p.RazorpayKey = f.RazorpayKey
		f.Checkout.setPending(resp.RazorpayOrder)
		if err := f.persistPending(ctx, resp.RazorpayOrder); err != nil {
			return Placement{}, err
		}
		return p, nil
	}

	p.SyncWarning = f.complete(ctx)
	return p, nil
}

// VerifyPayment forwards the gateway callback upstream and completes the
// checkout on success.
func (f *Flow) VerifyPayment(ctx context.Context, v models.PaymentVerification) (models.Order, string, error) {
	if !v.Complete() {
		return models.Order{}, "", ErrIncompletePayment
	}
	pending := f.Checkout.Pending()
	if pending == nil {
		return models.Order{}, "", ErrNoPendingPayment
	}
	if pending.ID != v.RazorpayOrderID {
		return models.Order{}, "", ErrPaymentOrderChange
	}

	order, err := f.API.VerifyPayment(ctx, v)
	if err != nil {
		return models.Order{}, "", err
	}
	return order, f.complete(ctx), nil
}

func (f *Flow) persistPending(ctx context.Context, g *models.GatewayOrder) error {
	if f.Store == nil {
		return nil
	}
	raw, err := json.Marshal(g)
	if err != nil {
		return err
	}
	if err := f.Store.Set(ctx, KeyPending, raw); err != nil {
		return fmt.Errorf("persist pending payment: %w", err)
	}
	return nil
}

// complete empties the cart and resets checkout. A failed cart clear is
// reported as a warning; the order already exists.
func (f *Flow) complete(ctx context.Context) string {
	f.Checkout.Reset()
	if f.Store != nil {
		if err := f.Store.Clear(ctx, KeyPending); err != nil {
			f.logger().Warn("failed to clear pending payment", zap.Error(err))
		}
	}
	res, err := f.Cart.Clear(ctx)
	if err != nil {
		f.logger().Error("failed to clear cart after order", zap.Error(err))
		return "Order placed, but the cart could not be cleared"
	}
	if res.SyncErr != nil {
		return "Order placed, but the saved cart could not be updated"
	}
	return ""
}

func orderItems(items []models.CartLineItem) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if !item.Priced() {
			continue
		}
		key := item.Key()
		out = append(out, models.OrderItem{
			Product:  item.Product.ID,
			Name:     item.Product.Name,
			Image:    item.Product.Image,
			Price:    item.Product.Price.Amount,
			Quantity: item.Quantity,
			Size:     key.Size,
			Color:    key.Color,
		})
	}
	return out
}
