package auth

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/PC-931/task-manager/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort defines the interface other modules use to access auth
// functionality.
type AuthPort interface {
	Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (RefreshResponse, error)
	VerifyToken(ctx context.Context, token string) (*domain.Claims, error)
	GetUser(ctx context.Context, userID string) (GetUserResponse, error)
}

// AuthAdapter implements AuthPort over the module's service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

func (a *AuthAdapter) call(ctx context.Context, service string, req, resp any) error {
	if err := helper.CallRequestReplyService[any, any](
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}

// Register creates a new account.
func (a *AuthAdapter) Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	var resp RegisterResponse
	err := a.call(ctx, "register", &req, &resp)
	return resp, err
}

// Login authenticates an account and returns tokens.
func (a *AuthAdapter) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	var resp LoginResponse
	err := a.call(ctx, "login", &req, &resp)
	return resp, err
}

// Refresh exchanges a refresh token for a new pair.
func (a *AuthAdapter) Refresh(ctx context.Context, refreshToken string) (RefreshResponse, error) {
	req := RefreshRequest{RefreshToken: refreshToken}
	var resp RefreshResponse
	err := a.call(ctx, "refresh-token", &req, &resp)
	return resp, err
}

// VerifyToken resolves an access token to an identity or rejects it.
func (a *AuthAdapter) VerifyToken(ctx context.Context, token string) (*domain.Claims, error) {
	req := VerifyTokenRequest{Token: token}
	var resp VerifyTokenResponse
	if err := a.call(ctx, "verify-token", &req, &resp); err != nil {
		return nil, err
	}
	if !resp.Valid {
		return nil, fmt.Errorf("token verification failed: %s", resp.Error)
	}
	return &domain.Claims{
		UserID:   resp.UserID,
		Username: resp.Username,
		Email:    resp.Email,
	}, nil
}

// GetUser retrieves an account by id.
func (a *AuthAdapter) GetUser(ctx context.Context, userID string) (GetUserResponse, error) {
	req := GetUserRequest{UserID: userID}
	var resp GetUserResponse
	err := a.call(ctx, "get-user", &req, &resp)
	return resp, err
}
