package directline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultEndpoint is the public Direct Line service endpoint.
const DefaultEndpoint = "https://directline.botframework.com"

// HTTPClient abstracts the HTTP transport so tests can substitute one.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ChatConfig carries the ephemeral credentials a web chat client needs to
// open a conversation: a scoped token and the user identity the token was
// minted for.
type ChatConfig struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// Options configures a Client.
type Options struct {
	// Endpoint is the Direct Line service base URL. Defaults to DefaultEndpoint.
	Endpoint string

	// HTTPClient performs the token exchange. Defaults to an http.Client
	// with a 10 second timeout.
	HTTPClient HTTPClient
}

// WithEndpoint overrides the Direct Line service base URL.
func WithEndpoint(endpoint string) func(o *Options) {
	return func(o *Options) { o.Endpoint = endpoint }
}

// WithHTTPClient overrides the HTTP transport.
func WithHTTPClient(client HTTPClient) func(o *Options) {
	return func(o *Options) { o.HTTPClient = client }
}

// Client exchanges a Direct Line channel secret for short-lived chat tokens,
// keeping the secret on the server side. Each token is scoped to a freshly
// generated user identity.
type Client struct {
	endpoint   string
	secret     string
	httpClient HTTPClient
}

// New creates a token relay client for the given channel secret.
func New(secret string, optFns ...func(o *Options)) (*Client, error) {
	if secret == "" {
		return nil, errors.New("directline: channel secret must not be empty")
	}

	opts := Options{
		Endpoint:   DefaultEndpoint,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Client{
		endpoint:   opts.Endpoint,
		secret:     secret,
		httpClient: opts.HTTPClient,
	}, nil
}

type tokenRequest struct {
	User tokenUser `json:"User"`
}

type tokenUser struct {
	ID string `json:"Id"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// GenerateToken mints a chat token for a new random user identity. The
// identity uses the Direct Line "dl_" prefix so the service accepts it as a
// token-bound user.
//
// A failed exchange (transport error aside) yields a ChatConfig with an
// empty token and the generated user id, so callers can distinguish service
// rejection from transport failure.
func (c *Client) GenerateToken(ctx context.Context) (ChatConfig, error) {
	userID := "dl_" + uuid.NewString()
	cfg := ChatConfig{UserID: userID}

	body, err := json.Marshal(tokenRequest{User: tokenUser{ID: userID}})
	if err != nil {
		return cfg, fmt.Errorf("directline: encode token request: %w", err)
	}

	url := c.endpoint + "/v3/directline/tokens/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return cfg, fmt.Errorf("directline: build token request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return cfg, fmt.Errorf("directline: token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Service rejected the exchange; hand back the config without a
		// token rather than failing the caller's page load.
		return cfg, nil
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return cfg, fmt.Errorf("directline: decode token response: %w", err)
	}

	cfg.Token = tr.Token
	return cfg, nil
}
