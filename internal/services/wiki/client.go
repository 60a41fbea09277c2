package wiki

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"otadocs/internal/services"
)

const (
	defaultUserAgent = "otadocs"
	imageExtension   = ".png"
)

// Client reads device images from a static image feed laid out as
// <base>/<device>.png.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if agent = strings.TrimSpace(agent); agent != "" {
			c.userAgent = agent
		}
	}
}

// New creates an image feed client rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, services.Wrap(services.ErrUsage, "wiki", "", "image base url required", nil)
	}
	client := &Client{
		baseURL:    baseURL,
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ImageURL returns the feed location of device's image.
func (c *Client) ImageURL(device string) string {
	return c.baseURL + "/" + url.PathEscape(device+imageExtension)
}

// Exists probes the feed with a HEAD request. Any status other than 200 means
// the image is not available; only transport failures return an error.
func (c *Client) Exists(ctx context.Context, device string) (bool, error) {
	resp, _, err := c.do(ctx, http.MethodHead, device)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK, nil
}

// Fetch streams device's image into w and returns the number of bytes written.
func (c *Client) Fetch(ctx context.Context, device string, w io.Writer) (int64, error) {
	resp, latency, err := c.do(ctx, http.MethodGet, device)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, services.Wrap(services.ErrTransport, "wiki", "fetch image",
			fmt.Sprintf("%s returned %d (latency=%v)", c.ImageURL(device), resp.StatusCode, latency), nil)
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, services.Wrap(services.ErrTransport, "wiki", "fetch image", "read body", err)
	}
	return n, nil
}

func (c *Client) do(ctx context.Context, method, device string) (*http.Response, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.ImageURL(device), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, latency, services.Wrap(services.ErrTransport, "wiki", strings.ToLower(method)+" image",
			fmt.Sprintf("latency=%v", latency), err)
	}
	return resp, latency, nil
}
