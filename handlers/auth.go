package handlers

import (
	"net/http"

	"github.com/Madhav-Gupta-28/storefront-go/apiclient"
	"github.com/Madhav-Gupta-28/storefront-go/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CreateSession starts a storefront session and returns its bearer token.
func (h *Handler) CreateSession(c echo.Context) error {
	return h.createSession(c, session.KindCustomer)
}

// CreateAdminSession starts a dashboard session. When a staff passcode is
// configured it must be sent along.
func (h *Handler) CreateAdminSession(c echo.Context) error {
	if h.Passcode.Enabled() {
		var req struct {
			Passcode string `json:"passcode"`
		}
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		}
		if !h.Passcode.Check(req.Passcode) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid passcode"})
		}
	}
	return h.createSession(c, session.KindAdmin)
}

func (h *Handler) createSession(c echo.Context, kind session.Kind) error {
	s, err := h.Sessions.Create(c.Request().Context(), kind)
	if err != nil {
		h.Logger.Error("failed to create session", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create session"})
	}

	token, err := h.Tokens.GenerateJWT(s.ID, string(kind))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate token"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"sessionId": s.ID,
		"token":     token,
	})
}

// EndSession drops the session and everything persisted for it.
func (h *Handler) EndSession(c echo.Context) error {
	s := h.session(c)
	if err := h.Sessions.Destroy(c.Request().Context(), s.ID); err != nil {
		h.Logger.Error("failed to destroy session", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to end session"})
	}
	return c.NoContent(http.StatusNoContent)
}

// signedIn answers an auth call. When the upstream issued a token the
// saved cart is pulled in.
func (h *Handler) signedIn(c echo.Context, s *session.Session, resp apiclient.AuthResponse) error {
	body := map[string]interface{}{
		"authenticated": s.Auth.State().Authenticated(),
	}
	if resp.User != nil {
		body["user"] = resp.User
	}
	if resp.Message != "" {
		body["message"] = resp.Message
	}
	warning := ""
	if resp.Token != "" {
		warning = s.AfterSignIn(c.Request().Context())
	}
	return c.JSON(http.StatusOK, withWarning(body, warning))
}

func (h *Handler) Login(c echo.Context) error {
	var creds apiclient.Credentials
	if err := c.Bind(&creds); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	s := h.session(c)
	resp, err := s.Auth.Login(c.Request().Context(), creds)
	if err != nil {
		return h.fail(c, err, "Login failed")
	}
	return h.signedIn(c, s, resp)
}

func (h *Handler) Register(c echo.Context) error {
	var req apiclient.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	s := h.session(c)
	resp, err := s.Auth.Register(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err, "Registration failed")
	}
	return h.signedIn(c, s, resp)
}

func (h *Handler) SendOTP(c echo.Context) error {
	var req apiclient.OTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	resp, err := h.session(c).Auth.SendOTP(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err, "Failed to send OTP")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": resp.Message})
}

func (h *Handler) VerifyOTP(c echo.Context) error {
	var req apiclient.VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	s := h.session(c)
	resp, err := s.Auth.VerifyOTP(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err, "OTP verification failed")
	}
	return h.signedIn(c, s, resp)
}

func (h *Handler) SendLoginOTP(c echo.Context) error {
	var req apiclient.OTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	resp, err := h.session(c).Auth.SendLoginOTP(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err, "Failed to send OTP")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": resp.Message})
}

func (h *Handler) VerifyLoginOTP(c echo.Context) error {
	var req apiclient.VerifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	s := h.session(c)
	resp, err := s.Auth.VerifyLoginOTP(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err, "OTP verification failed")
	}
	return h.signedIn(c, s, resp)
}

// Me refreshes the signed-in user from the upstream.
func (h *Handler) Me(c echo.Context) error {
	s := h.session(c)
	if !s.Auth.State().Authenticated() {
		return c.JSON(http.StatusOK, map[string]interface{}{"authenticated": false})
	}
	user, err := s.Auth.Refresh(c.Request().Context())
	if err != nil {
		return h.fail(c, err, "Failed to load profile")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"user":          user,
	})
}

func (h *Handler) Logout(c echo.Context) error {
	h.session(c).Auth.Logout(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

func (h *Handler) AdminLogin(c echo.Context) error {
	var creds apiclient.Credentials
	if err := c.Bind(&creds); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	resp, err := h.session(c).Auth.AdminLogin(c.Request().Context(), creds)
	if err != nil {
		return h.fail(c, err, "Login failed")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"user":          resp.User,
	})
}
