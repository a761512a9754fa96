package farmapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"agri_advisor/internal/content"
	"agri_advisor/internal/domain"
)

const (
	DefaultUserAgent = "AgriAdvisorClient/1.0"

	RecommendPath = "/api/recommend/"
	mePath        = "/api/me"
	loginPath     = "/api/auth/login"
	registerPath  = "/api/auth/register"
	contactPath   = "/api/contact"
)

// Config holds farm API client configuration.
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	UserAgent      string
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Client talks to the AgriAdvisor HTTP API. GET requests are retried with
// exponential backoff; every other method is sent exactly once.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	userAgent      string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

// New creates a new farm API client.
func New(cfg Config, logger *slog.Logger) *Client {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:      userAgent,
		maxAttempts:    maxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("component", "farmapi"),
	}
}

// ListContent fetches a content list and normalizes whatever shape the server
// returned.
func (c *Client) ListContent(ctx context.Context, kind domain.ContentKind, opts domain.ListOptions) ([]domain.ContentRecord, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown content kind %q", kind)
	}

	q := url.Values{}
	if opts.Section != "" {
		q.Set("section", opts.Section)
	}
	if opts.Category != "" {
		q.Set("category", opts.Category)
	}
	if opts.Tag != "" {
		q.Set("tag", opts.Tag)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	path := "/api/" + string(kind)
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	resp, err := c.get(ctx, path, "")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, domain.NewRequestFailed(resp.StatusCode,
			DetailMessage(resp, fmt.Sprintf("list %s failed (status %d)", kind, resp.StatusCode)))
	}

	payload := content.Decode(resp.Body)
	if payload.Shape == content.ShapeUnrecognized {
		c.logger.Debug("unrecognized list payload", "kind", kind, "bytes", len(resp.Body))
	}

	records := make([]domain.ContentRecord, 0, len(payload.Items))
	for _, item := range payload.Items {
		records = append(records, content.MapRecord(item))
	}

	c.logger.Debug("fetched content",
		"kind", kind,
		"shape", payload.Shape,
		"count", len(records),
	)

	return records, nil
}

// GetContent fetches a single article or technique.
func (c *Client) GetContent(ctx context.Context, kind domain.ContentKind, id string) (*domain.ContentRecord, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown content kind %q", kind)
	}
	if id == "" {
		return nil, domain.NewNotFound(string(kind))
	}

	resp, err := c.get(ctx, "/api/"+string(kind)+"/"+url.PathEscape(id), "")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.NewNotFound(string(kind) + "/" + id)
	}
	if !resp.OK() {
		return nil, domain.NewRequestFailed(resp.StatusCode,
			DetailMessage(resp, fmt.Sprintf("get %s failed (status %d)", kind, resp.StatusCode)))
	}

	var raw any
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		return nil, domain.NewRequestFailed(resp.StatusCode, "unexpected response from content service")
	}
	if raw == nil {
		return nil, domain.NewNotFound(string(kind) + "/" + id)
	}

	record := content.MapRecord(raw)
	return &record, nil
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (string, error) {
	return c.token(ctx, loginPath, req, "Invalid email or password")
}

// Register creates an account and returns its access token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	return c.token(ctx, registerPath, req, "Registration failed")
}

func (c *Client) token(ctx context.Context, path string, body any, fallback string) (string, error) {
	resp, err := c.Do(ctx, http.MethodPost, path, "", body)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", domain.NewRequestFailed(resp.StatusCode, DetailMessage(resp, fallback))
	}

	var tok TokenResponse
	if err := json.Unmarshal(resp.Body, &tok); err != nil || tok.AccessToken == "" {
		return "", domain.NewRequestFailed(resp.StatusCode, fallback)
	}
	return tok.AccessToken, nil
}

// Me resolves the identity behind a token.
func (c *Client) Me(ctx context.Context, token string) (*domain.Identity, error) {
	resp, err := c.get(ctx, mePath, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, domain.NewUnauthorized(DetailMessage(resp, "Invalid token"))
	}
	if !resp.OK() {
		return nil, domain.NewRequestFailed(resp.StatusCode,
			DetailMessage(resp, fmt.Sprintf("identity lookup failed (status %d)", resp.StatusCode)))
	}

	var identity domain.Identity
	if err := json.Unmarshal(resp.Body, &identity); err != nil {
		return nil, domain.NewRequestFailed(resp.StatusCode, "unexpected response from identity service")
	}
	return &identity, nil
}

// Contact submits a contact-form message.
func (c *Client) Contact(ctx context.Context, req ContactRequest) (*ContactResponse, error) {
	resp, err := c.Do(ctx, http.MethodPost, contactPath, "", req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, domain.NewRequestFailed(resp.StatusCode, DetailMessage(resp, "Failed to submit"))
	}

	var out ContactResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		c.logger.Debug("contact response not decodable", "error", err)
	}
	return &out, nil
}

// Do sends exactly one request and reads the whole response. A non-empty
// token is sent as a bearer credential. Transport failures are returned as
// domain network errors; any HTTP status is returned as a Response.
func (c *Client) Do(ctx context.Context, method, path, token string, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewNetworkError(fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewNetworkError(fmt.Errorf("read response: %w", err))
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}

func (c *Client) get(ctx context.Context, path, token string) (*Response, error) {
	var resp *Response
	var err error

	for attempt := 1; ; attempt++ {
		resp, err = c.Do(ctx, http.MethodGet, path, token, nil)
		if !retryable(resp, err) || ctx.Err() != nil || attempt >= c.maxAttempts {
			return resp, err
		}

		backoff := c.calculateBackoff(attempt)
		c.logger.Warn("request failed, retrying",
			"path", path,
			"attempt", attempt,
			"backoff", backoff,
			"status", statusOf(resp),
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, domain.NewNetworkError(ctx.Err())
		case <-time.After(backoff):
		}
	}
}

func retryable(resp *Response, err error) bool {
	if err != nil {
		return domain.IsKind(err, domain.KindNetwork)
	}
	return resp.StatusCode >= http.StatusInternalServerError
}

func statusOf(resp *Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if c.maxBackoff > 0 && backoff > c.maxBackoff {
		backoff = c.maxBackoff
	}
	return backoff
}
