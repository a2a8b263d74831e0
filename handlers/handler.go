// Package handlers serves the storefront and admin dashboard endpoints.
// Every handler works on the session resolved by the session middleware;
// nothing is held globally.
package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/Madhav-Gupta-28/storefront-go/admin"
	"github.com/Madhav-Gupta-28/storefront-go/apiclient"
	"github.com/Madhav-Gupta-28/storefront-go/auth"
	"github.com/Madhav-Gupta-28/storefront-go/cart"
	"github.com/Madhav-Gupta-28/storefront-go/catalog"
	"github.com/Madhav-Gupta-28/storefront-go/checkout"
	"github.com/Madhav-Gupta-28/storefront-go/middleware"
	"github.com/Madhav-Gupta-28/storefront-go/models"
	"github.com/Madhav-Gupta-28/storefront-go/session"
	"github.com/Madhav-Gupta-28/storefront-go/utils"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Handler struct {
	Sessions *session.Manager
	Catalog  *catalog.Catalog
	Tokens   *utils.Tokens
	Passcode utils.Passcode
	Logger   *zap.Logger
}

func New(sessions *session.Manager, cat *catalog.Catalog, tokens *utils.Tokens, passcode utils.Passcode, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Sessions: sessions,
		Catalog:  cat,
		Tokens:   tokens,
		Passcode: passcode,
		Logger:   logger,
	}
}

// badRequest lists the local validation errors answered with 400.
var badRequest = []error{
	auth.ErrMissingCredentials,
	auth.ErrMissingContact,
	auth.ErrMissingOTP,
	cart.ErrInvalidQuantity,
	cart.ErrInvalidProduct,
	checkout.ErrCouponApplied,
	checkout.ErrCouponCodeRequired,
	checkout.ErrInvalidPayment,
	checkout.ErrEmptyCart,
	checkout.ErrNoAddress,
	checkout.ErrIncompletePayment,
	checkout.ErrNoPendingPayment,
	checkout.ErrPaymentOrderChange,
	checkout.ErrCouponStale,
	models.ErrAddressIncomplete,
	models.ErrInvalidPhone,
	models.ErrInvalidPincode,
	admin.ErrNoIDs,
	admin.ErrInvalidProduct,
	admin.ErrInvalidPromotion,
	admin.ErrInvalidTransition,
	admin.ErrUnsupportedImage,
}

// fail writes err as {"error": message}. Upstream errors keep their status
// and message; a 401 also tells the client to go to the login page.
func (h *Handler) fail(c echo.Context, err error, fallback string) error {
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
	}
	switch {
	case errors.Is(err, auth.ErrNotAdmin):
		return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, cart.ErrItemNotFound), errors.Is(err, catalog.ErrUnknownSection):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}

	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		h.Logger.Error(fallback, zap.Error(err))
		status := http.StatusInternalServerError
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			status = apiclient.Status(err)
		}
		return c.JSON(status, map[string]string{"error": fallback})
	}
	body := map[string]string{"error": apiclient.Message(err, fallback)}
	if apiErr.Status == http.StatusUnauthorized {
		body["redirect"] = middleware.LoginPath
	}
	return c.JSON(apiErr.Status, body)
}

func (h *Handler) session(c echo.Context) *session.Session {
	return middleware.Session(c)
}

// withWarning adds a soft-failure warning to a response body.
func withWarning(body map[string]interface{}, warning string) map[string]interface{} {
	if warning != "" {
		body["warning"] = warning
	}
	return body
}
