package apiclient

import (
	"context"
	"net/url"

	"github.com/Madhav-Gupta-28/storefront-go/models"
)

func (c *Client) ListProducts(ctx context.Context, query url.Values) ([]models.Product, error) {
	var products []models.Product
	if err := c.getJSON(ctx, "/products", query, unwrap("products", &products)); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (models.Product, error) {
	var product models.Product
	err := c.getJSON(ctx, "/products/"+url.PathEscape(id), nil, unwrap("product", &product))
	return product, err
}

// ProductSection fetches a curated listing such as "t-shirts" or
// "best-sellers".
func (c *Client) ProductSection(ctx context.Context, section string) ([]models.Product, error) {
	var products []models.Product
	if err := c.getJSON(ctx, "/products/"+url.PathEscape(section), nil, unwrap("products", &products)); err != nil {
		return nil, err
	}
	return products, nil
}
