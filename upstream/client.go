package upstream

import (
	"context"
	"io"
	"net/http"
	"strings"

	gateerr "github.com/meridianlab/marketgate/errors"
)

// Client performs single HTTP round trips against one provider.
type Client struct {
	httpClient *http.Client
	config     Config
}

// New creates a provider client with the given configuration.
func New(config Config) (*Client, error) {
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		httpClient: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
		config: config,
	}, nil
}

// Call performs one GET against the provider and returns the raw body.
// Errors are classified into the gate's taxonomy so retry and breaker
// decisions work without inspecting HTTP details. Call satisfies
// gate.CallFunc.
func (c *Client) Call(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := c.buildRequest(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, gateerr.Timeout(c.config.Name, endpoint, err)
		}
		return nil, gateerr.Upstream(c.config.Name, endpoint, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, gateerr.Upstream(c.config.Name, endpoint, resp.StatusCode, err)
	}

	if cerr := gateerr.ClassifyStatus(c.config.Name, endpoint, resp.StatusCode); cerr != nil {
		return nil, cerr
	}
	return body, nil
}

// buildRequest constructs the GET request with credentials and headers.
func (c *Client) buildRequest(ctx context.Context, endpoint string, params map[string]string) (*http.Request, error) {
	url := strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, gateerr.Upstream(c.config.Name, endpoint, 0, err)
	}

	if len(params) > 0 {
		q := req.URL.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		req.URL.RawQuery = q.Encode()
	}

	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}
	if c.config.APIKey != "" {
		req.Header.Set(c.config.APIKeyHeader, c.config.APIKey)
	}
	req.Header.Set("Accept", "application/json")

	return req, nil
}
