package ota

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"otadocs/internal/services"
)

const (
	defaultAPIBaseURL        = "https://api.github.com"
	defaultRawBaseURL        = "https://raw.githubusercontent.com"
	defaultOwner             = "Evolution-X"
	defaultRepo              = "OTA"
	defaultBuildsPath        = "builds"
	defaultMetadataExtension = ".json"
	defaultUserAgent         = "otadocs"

	// maxErrorBody caps how much of a failed response is kept for diagnostics.
	maxErrorBody = 4 << 10
	// branchPageSize is the largest page the branches endpoint accepts.
	branchPageSize = 100
)

var _ Source = (*Client)(nil)

// Client provides access to the OTA repository through the GitHub API (branch
// and directory listings) and raw content host (device documents).
type Client struct {
	token      string
	apiBaseURL string
	rawBaseURL string
	owner      string
	repo       string
	buildsPath string
	extension  string
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

// WithAPIBaseURL points branch and directory listings at another API host.
func WithAPIBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.apiBaseURL = trimmed
		}
	}
}

// WithRawBaseURL points descriptor fetches at another raw content host.
func WithRawBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.rawBaseURL = trimmed
		}
	}
}

// WithRepository selects the owner/repo pair holding build metadata.
func WithRepository(owner, repo string) Option {
	return func(c *Client) {
		if owner = strings.TrimSpace(owner); owner != "" {
			c.owner = owner
		}
		if repo = strings.TrimSpace(repo); repo != "" {
			c.repo = repo
		}
	}
}

// WithBuildsPath sets the directory holding one document per device.
func WithBuildsPath(path string) Option {
	return func(c *Client) {
		if trimmed := strings.Trim(strings.TrimSpace(path), "/"); trimmed != "" {
			c.buildsPath = trimmed
		}
	}
}

// WithMetadataExtension sets the file extension that marks device documents.
func WithMetadataExtension(ext string) Option {
	return func(c *Client) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.extension = ext
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

// New creates an OTA metadata client authenticated with a GitHub token.
func New(token string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, services.Wrap(services.ErrUsage, "ota", "", "github token required", nil)
	}
	client := &Client{
		token:      token,
		apiBaseURL: defaultAPIBaseURL,
		rawBaseURL: defaultRawBaseURL,
		owner:      defaultOwner,
		repo:       defaultRepo,
		buildsPath: defaultBuildsPath,
		extension:  defaultMetadataExtension,
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ListBranches returns the repository's branch names in upstream order. A
// non-success status, an undecodable body, or an empty list are all failures.
func (c *Client) ListBranches(ctx context.Context) ([]string, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/branches?per_page=%d",
		c.apiBaseURL, url.PathEscape(c.owner), url.PathEscape(c.repo), branchPageSize)
	const op = "list branches"

	body, status, err := c.get(ctx, endpoint, true)
	if err != nil {
		return nil, c.fail(op, "", "", endpoint, status, body, services.ErrTransport, err)
	}

	var entries []branchEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, c.fail(op, "", "", endpoint, status, body, services.ErrParse, fmt.Errorf("decode branches: %w", err))
	}
	branches := make([]string, 0, len(entries))
	for _, entry := range entries {
		if name := strings.TrimSpace(entry.Name); name != "" {
			branches = append(branches, name)
		}
	}
	if len(branches) == 0 {
		return nil, c.fail(op, "", "", endpoint, status, body, services.ErrEmpty, errors.New("no branches found"))
	}
	return branches, nil
}

// ListDevices returns the device keys published on branch, in directory
// listing order. Entries without the metadata extension are ignored. An empty
// directory yields an empty slice and no error.
func (c *Client) ListDevices(ctx context.Context, branch string) ([]string, error) {
	params := url.Values{}
	params.Set("ref", branch)
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s?%s",
		c.apiBaseURL, url.PathEscape(c.owner), url.PathEscape(c.repo), escapeSegments(c.buildsPath), params.Encode())
	const op = "list devices"

	body, status, err := c.get(ctx, endpoint, true)
	if err != nil {
		return nil, c.fail(op, branch, "", endpoint, status, body, services.ErrTransport, err)
	}

	var entries []contentEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, c.fail(op, branch, "", endpoint, status, body, services.ErrParse, fmt.Errorf("decode directory listing: %w", err))
	}
	devices := make([]string, 0, len(entries))
	for _, entry := range entries {
		if key, ok := c.deviceKey(entry.Name); ok {
			devices = append(devices, key)
		}
	}
	return devices, nil
}

// GetDescriptor fetches and decodes the device document on branch. Failures
// are classified as transport (non-success status), parse (malformed JSON),
// or empty (no response entries).
func (c *Client) GetDescriptor(ctx context.Context, device, branch string) (*Descriptor, error) {
	endpoint := c.DescriptorURL(device, branch)
	const op = "get descriptor"

	body, status, err := c.get(ctx, endpoint, false)
	if err != nil {
		return nil, c.fail(op, branch, device, endpoint, status, body, services.ErrTransport, err)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, c.fail(op, branch, device, endpoint, status, body, services.ErrEmpty, errors.New("empty document"))
	}
	var payload envelope
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, c.fail(op, branch, device, endpoint, status, body, services.ErrParse, fmt.Errorf("decode descriptor: %w", err))
	}
	if len(payload.Response) == 0 {
		return nil, c.fail(op, branch, device, endpoint, status, body, services.ErrEmpty, errors.New("response has no entries"))
	}
	descriptor := payload.Response[0]
	return &descriptor, nil
}

// DescriptorURL returns the raw document location for device on branch.
func (c *Client) DescriptorURL(device, branch string) string {
	return fmt.Sprintf("%s/%s/%s/refs/heads/%s/%s/%s",
		c.rawBaseURL,
		url.PathEscape(c.owner),
		url.PathEscape(c.repo),
		escapeSegments(branch),
		escapeSegments(c.buildsPath),
		url.PathEscape(device+c.extension),
	)
}

func (c *Client) deviceKey(name string) (string, bool) {
	if !strings.HasSuffix(name, c.extension) {
		return "", false
	}
	key := strings.TrimSuffix(name, c.extension)
	if key == "" {
		return "", false
	}
	return key, true
}

// get performs one GET. On a non-200 status it returns the (capped) body
// alongside an error so the caller can report it.
func (c *Client) get(ctx context.Context, endpoint string, api bool) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("User-Agent", c.userAgent)
	if api {
		req.Header.Set("Accept", "application/vnd.github+json")
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, 0, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return body, resp.StatusCode, fmt.Errorf("returned %d (latency=%v)", resp.StatusCode, latency)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body (latency=%v): %w", latency, err)
	}
	return body, resp.StatusCode, nil
}

func (c *Client) fail(op, branch, device, endpoint string, status int, body []byte, marker error, cause error) error {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &FetchError{
		Op:     op,
		Branch: branch,
		Device: device,
		URL:    endpoint,
		Status: status,
		Body:   string(body),
		Err:    fmt.Errorf("%w: %w", marker, cause),
	}
}

func escapeSegments(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
