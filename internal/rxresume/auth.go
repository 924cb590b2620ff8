package rxresume

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const (
	apiLoginPath   = "/api/auth/login"
	apiRefreshPath = "/api/auth/refresh"
	apiMePath      = "/api/user/me"

	refreshCookieName = "Refresh"
)

type authResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Login authenticates with the legacy email/password flow and stores the
// resulting token pair plus any session cookies in memory.
func (c *Client) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}
	if password == "" {
		return errors.New("password is required")
	}

	payload, err := json.Marshal(map[string]string{
		"identifier": email,
		"password":   password,
	})
	if err != nil {
		return err
	}

	resp, err := c.roundTrip(ctx, http.MethodPost, apiLoginPath, nil, payload)
	if err != nil {
		return err
	}

	var auth authResponse
	cookies := resp.Cookies()
	if err := decodeResponse(resp, &auth); err != nil {
		return err
	}

	if auth.AccessToken == "" {
		return errors.New("upstream returned no access token")
	}

	c.apiKey = ""
	c.session = session{
		token:        auth.AccessToken,
		refreshToken: auth.RefreshToken,
	}
	for _, cookie := range cookies {
		c.session.cookies = append(c.session.cookies, fmt.Sprintf("%s=%s", cookie.Name, cookie.Value))
	}

	c.logger.Debug("authenticated with legacy session", zap.String("email", email))

	return nil
}

// Refresh exchanges the held refresh token for a new access token. It is
// called at most once per failed request, from the 401 path in do.
func (c *Client) Refresh(ctx context.Context) error {
	if c.session.refreshToken == "" {
		return errors.New("no refresh token held")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiRefreshPath, nil)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.UserAgent)
	// The refresh token travels as a cookie, matching the upstream contract.
	req.Header.Set("Cookie", fmt.Sprintf("%s=%s", refreshCookieName, c.session.refreshToken))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	var auth authResponse
	if err := decodeResponse(resp, &auth); err != nil {
		return err
	}

	if auth.AccessToken == "" {
		return errors.New("refresh returned no access token")
	}

	c.session.token = auth.AccessToken
	if auth.RefreshToken != "" {
		c.session.refreshToken = auth.RefreshToken
	}

	return nil
}

// Me returns the account the current credentials belong to.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, apiMePath, nil, nil, &user); err != nil {
		return nil, err
	}

	return &user, nil
}
