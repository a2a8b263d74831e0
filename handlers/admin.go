package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Madhav-Gupta-28/storefront-go/admin"
	"github.com/Madhav-Gupta-28/storefront-go/models"
	"github.com/labstack/echo/v4"
)

// adminService binds the dashboard operations to the admin session's
// upstream client.
func (h *Handler) adminService(c echo.Context) *admin.Service {
	api := h.session(c).API
	return admin.New(api, func(ctx context.Context) ([]models.Product, error) {
		return api.ListProducts(ctx, nil)
	})
}

func (h *Handler) AdminDashboard(c echo.Context) error {
	stats, err := h.adminService(c).Dashboard(c.Request().Context(), time.Now())
	if err != nil {
		return h.fail(c, err, "Failed to load dashboard")
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) AdminProducts(c echo.Context) error {
	products, err := h.adminService(c).Products(c.Request().Context())
	if err != nil {
		return h.fail(c, err, "Failed to fetch products")
	}
	return c.JSON(http.StatusOK, products)
}

func (h *Handler) AdminCreateProduct(c echo.Context) error {
	var product models.Product
	if err := c.Bind(&product); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	created, err := h.adminService(c).CreateProduct(c.Request().Context(), product)
	if err != nil {
		return h.fail(c, err, "Failed to create product")
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) AdminUpdateProduct(c echo.Context) error {
	var product models.Product
	if err := c.Bind(&product); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	updated, err := h.adminService(c).UpdateProduct(c.Request().Context(), c.Param("id"), product)
	if err != nil {
		return h.fail(c, err, "Failed to update product")
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) AdminDeleteProduct(c echo.Context) error {
	if err := h.adminService(c).DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err, "Failed to delete product")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Product deleted"})
}

func (h *Handler) AdminBulkDeleteProducts(c echo.Context) error {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	n, err := h.adminService(c).BulkDelete(c.Request().Context(), req.IDs)
	if err != nil {
		return h.fail(c, err, "Failed to delete products")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"deleted": n})
}

// AdminUploadImage forwards the multipart "image" field upstream and
// returns the hosted URL.
func (h *Handler) AdminUploadImage(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No image uploaded"})
	}
	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Failed to read image"})
	}
	defer src.Close()

	res, err := h.adminService(c).UploadImage(c.Request().Context(), file.Filename, src)
	if err != nil {
		return h.fail(c, err, "Failed to upload image")
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) AdminOrders(c echo.Context) error {
	orders, err := h.adminService(c).Orders(c.Request().Context())
	if err != nil {
		return h.fail(c, err, "Failed to fetch orders")
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *Handler) AdminOrder(c echo.Context) error {
	order, err := h.adminService(c).Order(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err, "Failed to fetch order")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *Handler) AdminUpdateOrderStatus(c echo.Context) error {
	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	order, err := h.adminService(c).UpdateOrderStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return h.fail(c, err, "Failed to update order status")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *Handler) AdminPromotions(c echo.Context) error {
	promotions, err := h.adminService(c).Promotions(c.Request().Context())
	if err != nil {
		return h.fail(c, err, "Failed to fetch promotions")
	}
	return c.JSON(http.StatusOK, promotions)
}

func (h *Handler) AdminCreatePromotion(c echo.Context) error {
	var promo models.Coupon
	if err := c.Bind(&promo); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	created, err := h.adminService(c).CreatePromotion(c.Request().Context(), promo)
	if err != nil {
		return h.fail(c, err, "Failed to create promotion")
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) AdminUpdatePromotion(c echo.Context) error {
	var promo models.Coupon
	if err := c.Bind(&promo); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	updated, err := h.adminService(c).UpdatePromotion(c.Request().Context(), c.Param("id"), promo)
	if err != nil {
		return h.fail(c, err, "Failed to update promotion")
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) AdminDeletePromotion(c echo.Context) error {
	if err := h.adminService(c).DeletePromotion(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err, "Failed to delete promotion")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Promotion deleted"})
}
