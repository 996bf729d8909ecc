package authclient

import (
	"context"
	"fmt"
	"net/url"
)

// API exposes the typed endpoint bindings the orchestrator consumes. Every
// call goes through the Client pipeline, so all failures come back
// classified.
type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

func (a *API) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := a.client.Post(ctx, "/register/step1/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *API) VerifyEmail(ctx context.Context, req VerifyEmailRequest) (*VerifyEmailResponse, error) {
	var resp VerifyEmailResponse
	if err := a.client.Post(ctx, "/register/step2/verify-email/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *API) ResendCode(ctx context.Context, req ResendCodeRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := a.client.Post(ctx, "/register/step2/resend-code/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *API) CompleteProfile(ctx context.Context, req CompleteProfileRequest) (*CompleteProfileResponse, error) {
	var resp CompleteProfileResponse
	if err := a.client.Post(ctx, "/register/step3/complete-profile/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *API) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := a.client.Post(ctx, "/auth/login/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *API) Logout(ctx context.Context) error {
	return a.client.Post(ctx, "/auth/logout/", nil, nil)
}

func (a *API) ChangePassword(ctx context.Context, req ChangePasswordRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := a.client.Post(ctx, "/auth/change-password/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *API) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*ResetPasswordResponse, error) {
	var resp ResetPasswordResponse
	if err := a.client.Post(ctx, "/auth/reset-password/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *API) ConfirmResetPassword(ctx context.Context, req ConfirmResetPasswordRequest) (*MessageResponse, error) {
	var resp MessageResponse
	path := fmt.Sprintf("/auth/reset-password/%s/confirm/", url.PathEscape(req.Token))
	if err := a.client.Post(ctx, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GoogleLoginURL asks the backend for the provider consent screen URL.
func (a *API) GoogleLoginURL(ctx context.Context) (*GoogleLoginResponse, error) {
	var resp GoogleLoginResponse
	if err := a.client.Get(ctx, "/auth/google/login/", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GoogleCallback exchanges the OAuth authorization code for a session.
func (a *API) GoogleCallback(ctx context.Context, code, state string) (*GoogleCallbackResponse, error) {
	params := url.Values{}
	params.Set("code", code)
	if state != "" {
		params.Set("state", state)
	}

	var resp GoogleCallbackResponse
	if err := a.client.Get(ctx, "/auth/google/callback?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CurrentUser fetches the authenticated profile. It is the validation call
// session restoration relies on.
func (a *API) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := a.client.Get(ctx, "/users/me/", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteAccount removes the authenticated account.
func (a *API) DeleteAccount(ctx context.Context) (*MessageResponse, error) {
	var resp MessageResponse
	if err := a.client.Delete(ctx, "/users/me/", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
