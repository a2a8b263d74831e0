package handlers

import (
	"net/http"

	"github.com/Madhav-Gupta-28/storefront-go/models"
	"github.com/labstack/echo/v4"
)

func (h *Handler) GetUserProfile(c echo.Context) error {
	user, err := h.session(c).API.GetProfile(c.Request().Context())
	if err != nil {
		return h.fail(c, err, "Failed to fetch profile")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) GetUserAddresses(c echo.Context) error {
	addresses, err := h.session(c).API.ListAddresses(c.Request().Context())
	if err != nil {
		return h.fail(c, err, "Failed to fetch addresses")
	}
	return c.JSON(http.StatusOK, addresses)
}

func (h *Handler) AddUserAddress(c echo.Context) error {
	var address models.Address
	if err := c.Bind(&address); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := address.Validate(); err != nil {
		return h.fail(c, err, "Invalid address")
	}

	saved, err := h.session(c).API.AddAddress(c.Request().Context(), address)
	if err != nil {
		return h.fail(c, err, "Failed to add address")
	}
	return c.JSON(http.StatusCreated, saved)
}

func (h *Handler) UpdateUserAddress(c echo.Context) error {
	var address models.Address
	if err := c.Bind(&address); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := address.Validate(); err != nil {
		return h.fail(c, err, "Invalid address")
	}

	saved, err := h.session(c).API.UpdateAddress(c.Request().Context(), c.Param("id"), address)
	if err != nil {
		return h.fail(c, err, "Failed to update address")
	}
	return c.JSON(http.StatusOK, saved)
}

func (h *Handler) DeleteUserAddress(c echo.Context) error {
	if err := h.session(c).API.DeleteAddress(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err, "Failed to delete address")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Address deleted"})
}
