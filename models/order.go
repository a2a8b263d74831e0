package models

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
}

// CanTransition reports whether an order may move from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentCOD      PaymentMethod = "cod"
	PaymentRazorpay PaymentMethod = "razorpay"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCOD || m == PaymentRazorpay
}

type OrderItem struct {
	Product  string `json:"product"`
	Name     string `json:"name"`
	Image    string `json:"image,omitempty"`
	Price    Money  `json:"price"`
	Quantity int    `json:"quantity"`
	Size     string `json:"size,omitempty"`
	Color    string `json:"color,omitempty"`
}

type Order struct {
	ID              string        `json:"_id,omitempty"`
	Items           []OrderItem   `json:"items"`
	ShippingAddress Address       `json:"shippingAddress"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	Subtotal        Money         `json:"subtotal"`
	PremiumDiscount Money         `json:"discount"`
	CouponCode      string        `json:"couponCode,omitempty"`
	CouponDiscount  Money         `json:"couponDiscount"`
	ShippingCharge  Money         `json:"shippingCharge"`
	CODCharge       Money         `json:"codCharge"`
	TotalAmount     Money         `json:"totalAmount"`
	Status          OrderStatus   `json:"status,omitempty"`
	PaymentStatus   string        `json:"paymentStatus,omitempty"`
	CreatedAt       time.Time     `json:"createdAt,omitempty"`
}
