package apiclient

import (
	"context"
	"net/http"

	"github.com/Madhav-Gupta-28/storefront-go/models"
)

// AuthResponse is returned by every /auth endpoint. Token is empty for
// endpoints that only return the user.
type AuthResponse struct {
	Token   string       `json:"token,omitempty"`
	User    *models.User `json:"user,omitempty"`
	Message string       `json:"message,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

type OTPRequest struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type VerifyOTPRequest struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	OTP      string `json:"otp"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty"`
}

func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResponse, error) {
	var out AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", creds, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	var out AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/register", req, &out)
	return out, err
}

// SendOTP starts OTP-verified registration.
func (c *Client) SendOTP(ctx context.Context, req OTPRequest) (AuthResponse, error) {
	var out AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/send-otp", req, &out)
	return out, err
}

func (c *Client) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (AuthResponse, error) {
	var out AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/verify-otp", req, &out)
	return out, err
}

// SendLoginOTP starts passwordless login.
func (c *Client) SendLoginOTP(ctx context.Context, req OTPRequest) (AuthResponse, error) {
	var out AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/send-otp-login", req, &out)
	return out, err
}

func (c *Client) VerifyLoginOTP(ctx context.Context, req VerifyOTPRequest) (AuthResponse, error) {
	var out AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/verify-otp-login", req, &out)
	return out, err
}

// Me returns the user behind the current token.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out AuthResponse
	if err := c.getJSON(ctx, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}
