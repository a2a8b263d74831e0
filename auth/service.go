package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/Madhav-Gupta-28/storefront-go/apiclient"
	"github.com/Madhav-Gupta-28/storefront-go/models"
)

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrMissingContact     = errors.New("email or phone is required")
	ErrMissingOTP         = errors.New("otp is required")
	ErrNotAdmin           = errors.New("account is not an admin")
)

// API is the subset of the upstream client used by the auth flows.
type API interface {
	Login(ctx context.Context, creds apiclient.Credentials) (apiclient.AuthResponse, error)
	Register(ctx context.Context, req apiclient.RegisterRequest) (apiclient.AuthResponse, error)
	SendOTP(ctx context.Context, req apiclient.OTPRequest) (apiclient.AuthResponse, error)
	VerifyOTP(ctx context.Context, req apiclient.VerifyOTPRequest) (apiclient.AuthResponse, error)
	SendLoginOTP(ctx context.Context, req apiclient.OTPRequest) (apiclient.AuthResponse, error)
	VerifyLoginOTP(ctx context.Context, req apiclient.VerifyOTPRequest) (apiclient.AuthResponse, error)
	Me(ctx context.Context) (*models.User, error)
}

type Service struct {
	state *State
	api   API
}

func NewService(state *State, api API) *Service {
	return &Service{state: state, api: api}
}

func (s *Service) State() *State {
	return s.state
}

// accept signs in when the upstream returned a token. Registration that
// still needs OTP verification returns only a message.
func (s *Service) accept(ctx context.Context, resp apiclient.AuthResponse, err error) (apiclient.AuthResponse, error) {
	if err != nil {
		return resp, err
	}
	if resp.Token != "" {
		if err := s.state.SignIn(ctx, resp.Token, resp.User); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

func (s *Service) Login(ctx context.Context, creds apiclient.Credentials) (apiclient.AuthResponse, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return apiclient.AuthResponse{}, ErrMissingCredentials
	}
	resp, err := s.api.Login(ctx, creds)
	return s.accept(ctx, resp, err)
}

// AdminLogin is Login restricted to accounts holding the admin role.
func (s *Service) AdminLogin(ctx context.Context, creds apiclient.Credentials) (apiclient.AuthResponse, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return apiclient.AuthResponse{}, ErrMissingCredentials
	}
	resp, err := s.api.Login(ctx, creds)
	if err != nil {
		return resp, err
	}
	if !resp.User.IsAdmin() {
		return apiclient.AuthResponse{}, ErrNotAdmin
	}
	return s.accept(ctx, resp, nil)
}

func (s *Service) Register(ctx context.Context, req apiclient.RegisterRequest) (apiclient.AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return apiclient.AuthResponse{}, ErrMissingCredentials
	}
	resp, err := s.api.Register(ctx, req)
	return s.accept(ctx, resp, err)
}

func (s *Service) SendOTP(ctx context.Context, req apiclient.OTPRequest) (apiclient.AuthResponse, error) {
	if req.Email == "" && req.Phone == "" {
		return apiclient.AuthResponse{}, ErrMissingContact
	}
	return s.api.SendOTP(ctx, req)
}

func (s *Service) VerifyOTP(ctx context.Context, req apiclient.VerifyOTPRequest) (apiclient.AuthResponse, error) {
	if err := checkOTP(req); err != nil {
		return apiclient.AuthResponse{}, err
	}
	resp, err := s.api.VerifyOTP(ctx, req)
	return s.accept(ctx, resp, err)
}

func (s *Service) SendLoginOTP(ctx context.Context, req apiclient.OTPRequest) (apiclient.AuthResponse, error) {
	if req.Email == "" && req.Phone == "" {
		return apiclient.AuthResponse{}, ErrMissingContact
	}
	return s.api.SendLoginOTP(ctx, req)
}

func (s *Service) VerifyLoginOTP(ctx context.Context, req apiclient.VerifyOTPRequest) (apiclient.AuthResponse, error) {
	if err := checkOTP(req); err != nil {
		return apiclient.AuthResponse{}, err
	}
	resp, err := s.api.VerifyLoginOTP(ctx, req)
	return s.accept(ctx, resp, err)
}

func checkOTP(req apiclient.VerifyOTPRequest) error {
	if req.Email == "" && req.Phone == "" {
		return ErrMissingContact
	}
	if strings.TrimSpace(req.OTP) == "" {
		return ErrMissingOTP
	}
	return nil
}

// Refresh reloads the user from /auth/me. A 401 has already torn the
// session down through the client hook by the time it returns.
func (s *Service) Refresh(ctx context.Context) (*models.User, error) {
	user, err := s.api.Me(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.state.SetUser(ctx, user); err != nil {
		return user, err
	}
	return user, nil
}

func (s *Service) Logout(ctx context.Context) {
	s.state.Teardown(ctx)
}
