package fetcher

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"resty.dev/v3"
)

// NewHTTPClient creates the resty client shared by listing and image requests.
// Requests are not retried; a zero timeout leaves the transport defaults in place.
func NewHTTPClient(userAgent string, timeout time.Duration) *resty.Client {
	client := resty.New().
		SetHeader("User-Agent", userAgent).
		SetRetryCount(0)

	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return client
}

// Client performs the GET requests needed by the icon sources
type Client struct {
	http *resty.Client
}

// NewClient wraps a resty client
func NewClient(c *resty.Client) *Client {
	return &Client{http: c}
}

// GetBytes fetches url and returns the raw response body.
// Any non-2xx status is returned as a *FetchError.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(url)

	if err != nil {
		return nil, ClassifyTransportError(url, err)
	}

	if !resp.IsSuccess() {
		fe := ClassifyHTTPError(resp.StatusCode())
		fe.URL = url
		return nil, fe
	}

	body := resp.Bytes()
	slog.Debug("fetched",
		"url", url,
		"status_code", resp.StatusCode(),
		"bytes", len(body))

	return body, nil
}

// GetJSON fetches url and decodes the JSON body into v
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.GetBytes(ctx, url)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return NewDecodeError(url, "malformed JSON body", err)
	}

	return nil
}
