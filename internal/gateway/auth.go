package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"storefront-client/internal/model"
)

// Credentials are the login inputs.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up payload.
type Registration struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Phone                string `json:"phone,omitempty"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// tokenResponse tolerates the token living at several places in the body.
type tokenResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
	Data        struct {
		Token       string `json:"token"`
		AccessToken string `json:"access_token"`
	} `json:"data"`
}

func (r tokenResponse) bearer() string {
	for _, t := range []string{r.Token, r.AccessToken, r.Data.Token, r.Data.AccessToken} {
		if t != "" {
			return t
		}
	}
	return ""
}

// Login exchanges credentials for a bearer session.
func (c *Client) Login(ctx context.Context, creds Credentials) (model.Session, error) {
	var raw json.RawMessage
	err := c.do(ctx, model.Session{}, http.MethodPost, "/auth/login", nil, creds, &raw)
	if err != nil {
		return model.Session{}, err
	}
	return sessionFrom(raw)
}

// Register creates an account and returns the new session. Callers are
// expected to run cart and wishlist reconciliation with it, same as after
// a login.
func (c *Client) Register(ctx context.Context, reg Registration) (model.Session, error) {
	var raw json.RawMessage
	err := c.do(ctx, model.Session{}, http.MethodPost, "/auth/register", nil, reg, &raw)
	if err != nil {
		return model.Session{}, err
	}
	return sessionFrom(raw)
}

// Logout invalidates the session server-side. A failed logout is still a
// logout for the caller; the credential should be discarded regardless.
func (c *Client) Logout(ctx context.Context, session model.Session) error {
	return c.do(ctx, session, http.MethodPost, "/auth/logout", nil, nil, nil)
}

// Profile is the authenticated account as the upstream reports it.
type Profile struct {
	ID    model.Ident `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Phone string      `json:"phone"`
}

// Profile fetches the authenticated account.
func (c *Client) Profile(ctx context.Context, session model.Session) (*Profile, error) {
	var raw json.RawMessage
	if err := c.do(ctx, session, http.MethodGet, "/auth/profile", nil, nil, &raw); err != nil {
		return nil, err
	}
	var p Profile
	if err := decodeObject(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// PasswordChange updates the account password in place.
type PasswordChange struct {
	CurrentPassword      string `json:"current_password"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// ChangePassword rotates the account password for a live session.
func (c *Client) ChangePassword(ctx context.Context, session model.Session, change PasswordChange) error {
	return c.do(ctx, session, http.MethodPost, "/auth/change-password", nil, change, nil)
}

// SendResetOTP starts the password reset flow by mailing a one-time code.
func (c *Client) SendResetOTP(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, model.Session{}, http.MethodPost, "/auth/reset-password/send-otp", nil, body, nil)
}

// resetResponse tolerates the reset token living at several places, falling
// back to the token aliases some deployments reuse.
type resetResponse struct {
	ResetToken string `json:"reset_token"`
	Token      string `json:"token"`
	Data       struct {
		ResetToken string `json:"reset_token"`
		Token      string `json:"token"`
	} `json:"data"`
}

// VerifyResetOTP exchanges the mailed code for a reset token.
func (c *Client) VerifyResetOTP(ctx context.Context, email, code string) (string, error) {
	var raw json.RawMessage
	body := map[string]string{"email": email, "code": code}
	err := c.do(ctx, model.Session{}, http.MethodPost, "/auth/reset-password/verify-otp", nil, body, &raw)
	if err != nil {
		return "", err
	}
	var rr resetResponse
	if err := json.Unmarshal(raw, &rr); err != nil {
		return "", model.NewUpstreamError("storefront", err)
	}
	for _, t := range []string{rr.ResetToken, rr.Data.ResetToken, rr.Token, rr.Data.Token} {
		if t != "" {
			return t, nil
		}
	}
	return "", model.NewUnauthorizedError("no reset token in verify response")
}

// CompletePasswordReset sets the new password using a verified reset token.
func (c *Client) CompletePasswordReset(ctx context.Context, resetToken, password, confirmation string) error {
	body := map[string]string{
		"reset_token":           resetToken,
		"password":              password,
		"password_confirmation": confirmation,
	}
	return c.do(ctx, model.Session{}, http.MethodPost, "/auth/reset-password/set-new-password", nil, body, nil)
}

func sessionFrom(raw json.RawMessage) (model.Session, error) {
	var tr tokenResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return model.Session{}, model.NewUpstreamError("storefront", err)
	}
	token := tr.bearer()
	if token == "" {
		return model.Session{}, model.NewUnauthorizedError("no credential in auth response")
	}
	return model.Session{Token: token}, nil
}
