package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshPayload struct {
	Refresh string `json:"refresh"`
}

// Login exchanges staff credentials for a token pair. A 400 or 401 from
// the remote API comes back as *APIError.
func (c *Client) Login(ctx context.Context, email, password string) (Tokens, error) {
	return c.tokenCall(ctx, "/auth/login", loginPayload{Email: email, Password: password})
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	return c.tokenCall(ctx, "/auth/refresh", refreshPayload{Refresh: refreshToken})
}

func (c *Client) tokenCall(ctx context.Context, path string, body any) (Tokens, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return Tokens{}, fmt.Errorf("encode %s: %w", path, err)
	}

	status, respBody, err := c.send(ctx, http.MethodPost, path, nil, payload, "")
	if err != nil {
		return Tokens{}, err
	}

	var tokens Tokens
	if err := decode(http.MethodPost, path, status, respBody, &tokens); err != nil {
		return Tokens{}, err
	}
	if tokens.Access == "" {
		return Tokens{}, fmt.Errorf("%s: empty access token", path)
	}

	return tokens, nil
}
