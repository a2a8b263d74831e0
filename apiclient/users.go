package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Madhav-Gupta-28/storefront-go/models"
)

func (c *Client) GetProfile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.getJSON(ctx, "/user/me", nil, unwrap("user", &user)); err != nil {
		return nil, err
	}
	return &user, nil
}

// SaveCart replaces the saved cart of the signed-in user.
func (c *Client) SaveCart(ctx context.Context, items []models.CartLineItem) error {
	if items == nil {
		items = []models.CartLineItem{}
	}
	body := map[string]any{"savedCart": items}
	return c.doJSON(ctx, http.MethodPut, "/user/me", body, nil)
}

func (c *Client) ListAddresses(ctx context.Context) ([]models.Address, error) {
	var addresses []models.Address
	if err := c.getJSON(ctx, "/users/addresses", nil, unwrap("addresses", &addresses)); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (c *Client) AddAddress(ctx context.Context, a models.Address) (models.Address, error) {
	var out models.Address
	err := c.doJSON(ctx, http.MethodPost, "/users/addresses", a, unwrap("address", &out))
	return out, err
}

func (c *Client) UpdateAddress(ctx context.Context, id string, a models.Address) (models.Address, error) {
	var out models.Address
	err := c.doJSON(ctx, http.MethodPut, "/users/addresses/"+url.PathEscape(id), a, unwrap("address", &out))
	return out, err
}

func (c *Client) DeleteAddress(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/users/addresses/"+url.PathEscape(id), nil, nil)
}
