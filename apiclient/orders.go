package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Madhav-Gupta-28/storefront-go/models"
)

type CreateOrderResponse struct {
	Order         models.Order         `json:"order"`
	RazorpayOrder *models.GatewayOrder `json:"razorpayOrder,omitempty"`
}

func (c *Client) CreateOrder(ctx context.Context, order models.Order) (CreateOrderResponse, error) {
	var out CreateOrderResponse
	err := c.doJSON(ctx, http.MethodPost, "/orders/create", order, &out)
	return out, err
}

func (c *Client) VerifyPayment(ctx context.Context, v models.PaymentVerification) (models.Order, error) {
	var out models.Order
	err := c.doJSON(ctx, http.MethodPost, "/orders/verify-payment", v, unwrap("order", &out))
	return out, err
}

func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.getJSON(ctx, "/orders", nil, unwrap("orders", &orders)); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (models.Order, error) {
	var out models.Order
	err := c.getJSON(ctx, "/orders/"+url.PathEscape(id), nil, unwrap("order", &out))
	return out, err
}
