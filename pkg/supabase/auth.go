package supabase

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
}

// AuthSession is the token grant returned by GoTrue.
type AuthSession struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Expiry resolves the absolute expiry, preferring expires_at over expires_in.
func (s *AuthSession) Expiry(now time.Time) time.Time {
	if s.ExpiresAt > 0 {
		return time.Unix(s.ExpiresAt, 0).UTC()
	}
	if s.ExpiresIn > 0 {
		return now.Add(time.Duration(s.ExpiresIn) * time.Second).UTC()
	}
	return time.Time{}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func tokenGrant(grant string) url.Values {
	return url.Values{"grant_type": []string{grant}}
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*AuthSession, error) {
	req, err := jsonRequest(http.MethodPost, "/auth/v1/token", credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	req.query = tokenGrant("password")
	var out AuthSession
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*AuthSession, error) {
	req, err := jsonRequest(http.MethodPost, "/auth/v1/token", map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return nil, err
	}
	req.query = tokenGrant("refresh_token")
	var out AuthSession
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignUpResult carries the created user. Session is only set when the project
// auto-confirms emails.
type SignUpResult struct {
	User    User
	Session *AuthSession
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*SignUpResult, error) {
	req, err := jsonRequest(http.MethodPost, "/auth/v1/signup", credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	// GoTrue answers with either a bare user or a full session.
	var raw struct {
		AuthSession
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := c.do(ctx, req, &raw); err != nil {
		return nil, err
	}
	result := &SignUpResult{User: raw.User}
	if raw.AccessToken != "" {
		session := raw.AuthSession
		result.Session = &session
	} else {
		result.User = User{ID: raw.ID, Email: raw.Email}
	}
	return result, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	req := request{method: http.MethodPost, path: "/auth/v1/logout", token: accessToken}
	return c.do(ctx, req, nil)
}

func (c *Client) User(ctx context.Context, accessToken string) (*User, error) {
	req := request{method: http.MethodGet, path: "/auth/v1/user", token: accessToken}
	var out User
	if err := c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
