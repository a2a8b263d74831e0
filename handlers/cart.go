package handlers

import (
	"net/http"

	"github.com/Madhav-Gupta-28/storefront-go/cart"
	"github.com/Madhav-Gupta-28/storefront-go/models"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const syncWarning = "Saved on this device, but your cart could not be synced to your account"

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

func (r cartItemRequest) key() models.LineKey {
	return models.LineKey{ProductID: r.ProductID, Size: r.Size, Color: r.Color}
}

func (h *Handler) cartResponse(c echo.Context, res cart.Result) error {
	warning := ""
	if res.SyncErr != nil {
		warning = syncWarning
	}
	return c.JSON(http.StatusOK, withWarning(map[string]interface{}{
		"items": res.Items,
		"count": countItems(res.Items),
	}, warning))
}

func countItems(items []models.CartLineItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}

func (h *Handler) GetCart(c echo.Context) error {
	s := h.session(c)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": s.Cart.Items(),
		"count": s.Cart.Count(),
		"quote": s.Checkout.Quote(),
	})
}

// AddToCart snapshots the product from the catalog and adds it. Adding an
// existing product/size/color line increases its quantity.
func (h *Handler) AddToCart(c echo.Context) error {
	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.ProductID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Product ID is required"})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	ctx := c.Request().Context()
	product, err := h.Catalog.Product(ctx, req.ProductID)
	if err != nil {
		return h.fail(c, err, "Failed to fetch product")
	}

	res, err := h.session(c).Cart.Add(ctx, product.Ref(), req.Quantity, req.Size, req.Color)
	if err != nil {
		return h.fail(c, err, "Failed to add to cart")
	}
	return h.cartResponse(c, res)
}

func (h *Handler) UpdateCartItemQuantity(c echo.Context) error {
	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	res, err := h.session(c).Cart.UpdateQuantity(c.Request().Context(), req.key(), req.Quantity)
	if err != nil {
		return h.fail(c, err, "Failed to update cart")
	}
	return h.cartResponse(c, res)
}

// RemoveFromCart takes the line's size and color from the query string.
func (h *Handler) RemoveFromCart(c echo.Context) error {
	key := models.LineKey{
		ProductID: c.Param("productId"),
		Size:      c.QueryParam("size"),
		Color:     c.QueryParam("color"),
	}

	res, err := h.session(c).Cart.Remove(c.Request().Context(), key)
	if err != nil {
		return h.fail(c, err, "Failed to remove from cart")
	}
	return h.cartResponse(c, res)
}

// RemoveCartLine removes the line whose key is in the body. An empty
// productId addresses a line whose product is missing.
func (h *Handler) RemoveCartLine(c echo.Context) error {
	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	res, err := h.session(c).Cart.Remove(c.Request().Context(), req.key())
	if err != nil {
		return h.fail(c, err, "Failed to remove from cart")
	}
	return h.cartResponse(c, res)
}

func (h *Handler) ClearCart(c echo.Context) error {
	res, err := h.session(c).Cart.Clear(c.Request().Context())
	if err != nil {
		return h.fail(c, err, "Failed to clear cart")
	}
	return h.cartResponse(c, res)
}

func (h *Handler) GetWishlist(c echo.Context) error {
	return c.JSON(http.StatusOK, h.session(c).Wishlist.Items())
}

// ToggleWishlist adds the product when absent and removes it otherwise.
func (h *Handler) ToggleWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	product, err := h.Catalog.Product(ctx, c.Param("productId"))
	if err != nil {
		return h.fail(c, err, "Failed to fetch product")
	}

	w := h.session(c).Wishlist
	added, err := w.Toggle(ctx, product.Ref())
	if err != nil {
		h.Logger.Error("failed to save wishlist", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update wishlist"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"inWishlist": added,
		"items":      w.Items(),
	})
}

func (h *Handler) RemoveFromWishlist(c echo.Context) error {
	w := h.session(c).Wishlist
	removed, err := w.Remove(c.Request().Context(), c.Param("productId"))
	if err != nil {
		h.Logger.Error("failed to save wishlist", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update wishlist"})
	}
	if !removed {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not in wishlist"})
	}
	return c.JSON(http.StatusOK, w.Items())
}

// MoveToCart moves a wishlist product into the cart with quantity one.
func (h *Handler) MoveToCart(c echo.Context) error {
	ctx := c.Request().Context()
	s := h.session(c)
	id := c.Param("productId")

	var ref *models.ProductRef
	for _, item := range s.Wishlist.Items() {
		if item.Product.ID == id {
			p := item.Product
			ref = &p
			break
		}
	}
	if ref == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not in wishlist"})
	}

	var req cartItemRequest
	_ = c.Bind(&req)
	res, err := s.Cart.Add(ctx, *ref, 1, req.Size, req.Color)
	if err != nil {
		return h.fail(c, err, "Failed to add to cart")
	}
	if _, err := s.Wishlist.Remove(ctx, id); err != nil {
		h.Logger.Error("failed to save wishlist", zap.Error(err))
	}
	return h.cartResponse(c, res)
}
