package handlers

import (
	"net/http"

	"github.com/Madhav-Gupta-28/storefront-go/models"
	"github.com/labstack/echo/v4"
)

// GetCheckout returns the priced cart together with the checkout choices
// made so far.
func (h *Handler) GetCheckout(c echo.Context) error {
	s := h.session(c)
	body := map[string]interface{}{
		"items":          s.Cart.Items(),
		"quote":          s.Checkout.Quote(),
		"paymentMethod":  s.Checkout.Checkout.PaymentMethod(),
		"canApplyCoupon": s.Checkout.Checkout.CanApplyCoupon(),
	}
	if coupon, ok := s.Checkout.Checkout.Coupon(); ok {
		body["coupon"] = coupon
	}
	if address, ok := s.Checkout.Checkout.Address(); ok {
		body["address"] = address
	}
	return c.JSON(http.StatusOK, body)
}

func (h *Handler) ApplyCoupon(c echo.Context) error {
	var req struct {
		Code string `json:"code"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	s := h.session(c)
	applied, err := s.Checkout.ApplyCoupon(c.Request().Context(), req.Code)
	if err != nil {
		return h.fail(c, err, "Invalid coupon code")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"coupon": applied,
		"quote":  s.Checkout.Quote(),
	})
}

func (h *Handler) RemoveCoupon(c echo.Context) error {
	s := h.session(c)
	s.Checkout.Checkout.RemoveCoupon()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"quote": s.Checkout.Quote(),
	})
}

func (h *Handler) AvailableCoupons(c echo.Context) error {
	coupons, err := h.session(c).API.AvailableCoupons(c.Request().Context())
	if err != nil {
		return h.fail(c, err, "Failed to fetch coupons")
	}
	return c.JSON(http.StatusOK, coupons)
}

// SelectAddress picks the address with the given id from the saved
// addresses. Without an id the default address is used, or the first one.
func (h *Handler) SelectAddress(c echo.Context) error {
	var req struct {
		AddressID string `json:"addressId"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	s := h.session(c)
	addresses, err := s.API.ListAddresses(c.Request().Context())
	if err != nil {
		return h.fail(c, err, "Failed to fetch addresses")
	}

	var (
		chosen models.Address
		found  bool
	)
	if req.AddressID == "" {
		chosen, found = models.DefaultAddress(addresses)
	} else {
		for _, a := range addresses {
			if a.ID == req.AddressID {
				chosen, found = a, true
				break
			}
		}
	}
	if !found {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Address not found"})
	}

	if err := s.Checkout.Checkout.SelectAddress(chosen); err != nil {
		return h.fail(c, err, "Invalid address")
	}
	return c.JSON(http.StatusOK, chosen)
}

func (h *Handler) SetPaymentMethod(c echo.Context) error {
	var req struct {
		PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	s := h.session(c)
	if err := s.Checkout.Checkout.SetPaymentMethod(req.PaymentMethod); err != nil {
		return h.fail(c, err, "Invalid payment method")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"paymentMethod": req.PaymentMethod,
		"quote":         s.Checkout.Quote(),
	})
}

// PlaceOrder creates the order. For online payments the response carries
// the gateway order and public key the client needs to open the gateway.
func (h *Handler) PlaceOrder(c echo.Context) error {
	placement, err := h.session(c).Checkout.PlaceOrder(c.Request().Context())
	if err != nil {
		return h.fail(c, err, "Failed to place order")
	}
	return c.JSON(http.StatusCreated, placement)
}

func (h *Handler) VerifyPayment(c echo.Context) error {
	var v models.PaymentVerification
	if err := c.Bind(&v); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	order, warning, err := h.session(c).Checkout.VerifyPayment(c.Request().Context(), v)
	if err != nil {
		return h.fail(c, err, "Payment verification failed")
	}
	return c.JSON(http.StatusOK, withWarning(map[string]interface{}{
		"order": order,
	}, warning))
}

func (h *Handler) GetOrders(c echo.Context) error {
	orders, err := h.session(c).API.ListOrders(c.Request().Context())
	if err != nil {
		return h.fail(c, err, "Failed to fetch orders")
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c echo.Context) error {
	order, err := h.session(c).API.GetOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err, "Failed to fetch order")
	}
	return c.JSON(http.StatusOK, order)
}
