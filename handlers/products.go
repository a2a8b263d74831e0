package handlers

import (
	"net/http"

	"github.com/Madhav-Gupta-28/storefront-go/catalog"
	"github.com/labstack/echo/v4"
)

// GetProducts lists the catalog through the filter pipeline; the query
// string carries the filter.
func (h *Handler) GetProducts(c echo.Context) error {
	filter, err := catalog.ParseFilter(c.QueryParams())
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	products, err := h.Catalog.Browse(c.Request().Context(), filter)
	if err != nil {
		return h.fail(c, err, "Failed to fetch products")
	}
	return c.JSON(http.StatusOK, products)
}

func (h *Handler) GetProduct(c echo.Context) error {
	product, err := h.Catalog.Product(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err, "Failed to fetch product")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *Handler) GetSection(c echo.Context) error {
	filter, err := catalog.ParseFilter(c.QueryParams())
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	products, err := h.Catalog.Section(c.Request().Context(), c.Param("section"), filter)
	if err != nil {
		return h.fail(c, err, "Failed to fetch products")
	}
	return c.JSON(http.StatusOK, products)
}
