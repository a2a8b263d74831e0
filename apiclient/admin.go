package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/Madhav-Gupta-28/storefront-go/models"
)

func (c *Client) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	var out models.Product
	err := c.doJSON(ctx, http.MethodPost, "/products", p, unwrap("product", &out))
	return out, err
}

func (c *Client) UpdateProduct(ctx context.Context, id string, p models.Product) (models.Product, error) {
	var out models.Product
	err := c.doJSON(ctx, http.MethodPut, "/products/"+url.PathEscape(id), p, unwrap("product", &out))
	return out, err
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil)
}

func (c *Client) BulkDeleteProducts(ctx context.Context, ids []string) error {
	return c.doJSON(ctx, http.MethodPost, "/products/bulk-delete", map[string][]string{"ids": ids}, nil)
}

type UploadResult struct {
	URL string `json:"url"`
}

// UploadImage sends one image as multipart form field "image".
func (c *Client) UploadImage(ctx context.Context, filename string, data io.Reader) (UploadResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return UploadResult{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return UploadResult{}, fmt.Errorf("copy image: %w", err)
	}
	if err := w.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("close multipart: %w", err)
	}

	var out UploadResult
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/upload/image",
		body:        &buf,
		contentType: w.FormDataContentType(),
	}, &out)
	return out, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error) {
	var out models.Order
	body := map[string]models.OrderStatus{"status": status}
	err := c.doJSON(ctx, http.MethodPut, "/orders/"+url.PathEscape(id)+"/status", body, unwrap("order", &out))
	return out, err
}

func (c *Client) ListPromotions(ctx context.Context) ([]models.Coupon, error) {
	var out []models.Coupon
	if err := c.getJSON(ctx, "/promotions", nil, unwrap("promotions", &out)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreatePromotion(ctx context.Context, p models.Coupon) (models.Coupon, error) {
	var out models.Coupon
	err := c.doJSON(ctx, http.MethodPost, "/promotions", p, unwrap("promotion", &out))
	return out, err
}

func (c *Client) UpdatePromotion(ctx context.Context, id string, p models.Coupon) (models.Coupon, error) {
	var out models.Coupon
	err := c.doJSON(ctx, http.MethodPut, "/promotions/"+url.PathEscape(id), p, unwrap("promotion", &out))
	return out, err
}

func (c *Client) DeletePromotion(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/promotions/"+url.PathEscape(id), nil, nil)
}
