package models

// GatewayOrder is the payment gateway order returned by /orders/create for
// online payments.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // paise
	Currency string `json:"currency"`
}

// PaymentVerification is the gateway callback payload forwarded to
// /orders/verify-payment.
type PaymentVerification struct {
	OrderID           string `json:"orderId,omitempty"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

func (v PaymentVerification) Complete() bool {
	return v.RazorpayOrderID != "" && v.RazorpayPaymentID != "" && v.RazorpaySignature != ""
}
