package strict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	headerAPIKey    = "X-API-Key"
	headerRequestID = "X-Request-ID"

	defaultTimeout = 30 * time.Second
)

// Client performs authenticated, typed exchanges with the processing
// service. Its configuration is read-only after construction, so a single
// Client is safe for concurrent use; calls share only the underlying
// http.Client's connection pool.
type Client struct {
	baseURL   string
	apiKey    string
	bearer    string
	userAgent string

	httpClient   *http.Client
	logger       *slog.Logger
	validate     *validator.Validate
	newRequestID func() string
}

// Option configures a Client during construction.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client, replacing the default
// 30s-timeout client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a structured logger for request lifecycle debug logs.
// The default logger discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithBearerToken configures Authorization: Bearer authentication. When an
// API key is also configured, the API key takes precedence, matching the
// service's own auth resolution order.
func WithBearerToken(token string) Option {
	return func(c *Client) {
		c.bearer = token
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRequestID sets the generator for per-call X-Request-ID values.
// Setting nil disables the header.
func WithRequestID(generate func() string) Option {
	return func(c *Client) {
		c.newRequestID = generate
	}
}

// withTimeoutSeconds sets the overall timeout on the default HTTP client.
func withTimeoutSeconds(seconds float64) Option {
	return func(c *Client) {
		c.httpClient.Timeout = time.Duration(seconds * float64(time.Second))
	}
}

// New creates a Client for the service at baseURL. apiKey may be empty when
// the service is unauthenticated or a bearer token is used instead.
// Construction performs no I/O and cannot fail; credentials are checked
// per call, before any request is dispatched.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		userAgent:    "strict-go/" + Version,
		httpClient:   &http.Client{Timeout: defaultTimeout},
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		validate:     newValidator(),
		newRequestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithToken returns a copy of c that authenticates with tok. The receiver
// is not modified.
func (c *Client) WithToken(tok Token) *Client {
	clone := *c
	clone.bearer = tok.AccessToken
	return &clone
}

// ProcessRequest submits req to POST /process/request and decodes the
// validated result. When req.TimeoutSeconds is set it is both sent to the
// service as the requested processing budget and mirrored as a client-side
// deadline; expiry surfaces as a TransportError with Timeout set.
func (c *Client) ProcessRequest(ctx context.Context, req ProcessingRequest) (*OutputSchema, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid processing request", fieldErrors(err))
	}

	if req.TimeoutSeconds != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(*req.TimeoutSeconds*float64(time.Second)))
		defer cancel()
	}

	var out OutputSchema
	if err := c.postJSON(ctx, "/process/request", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateSignal submits cfg to POST /validate/signal. Constraints the
// client can check itself, including the Nyquist criterion for analog
// signals, are enforced before any request is dispatched.
func (c *Client) ValidateSignal(ctx context.Context, cfg SignalConfig) (*ValidationResponse, error) {
	if err := c.validate.Struct(cfg); err != nil {
		return nil, NewValidationError("invalid signal config", fieldErrors(err))
	}

	var out ValidationResponse
	if err := c.postJSON(ctx, "/validate/signal", cfg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health checks GET /health. No authentication is required.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var out HealthResponse
	if err := c.decode(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges a username and password for a bearer Token via
// POST /token. The client itself is not mutated; pass the token to
// WithToken or WithBearerToken.
func (c *Client) Login(ctx context.Context, username, password string) (*Token, error) {
	form := url.Values{
		"username": {username},
		"password": {password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var tok Token
	if err := c.decode(body, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// postJSON runs one authenticated JSON exchange against path.
func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return NewValidationError("encode request: "+err.Error(), nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.setAuthHeaders(req.Header); err != nil {
		return err
	}

	body, err := c.do(req)
	if err != nil {
		return err
	}
	return c.decode(body, out)
}

// setAuthHeaders injects the configured credential. Values are checked for
// characters illegal in a header before any I/O happens.
func (c *Client) setAuthHeaders(h http.Header) error {
	switch {
	case c.apiKey != "":
		if !validHeaderValue(c.apiKey) {
			return NewInvalidCredentialError(headerAPIKey)
		}
		h.Set(headerAPIKey, c.apiKey)
	case c.bearer != "":
		if !validHeaderValue(c.bearer) {
			return NewInvalidCredentialError("Authorization")
		}
		h.Set("Authorization", "Bearer "+c.bearer)
	}
	return nil
}

// do dispatches req and returns the raw response body on a 2xx status.
// Non-2xx responses become APIErrors carrying the best-effort body text.
func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("User-Agent", c.userAgent)
	if c.newRequestID != nil {
		req.Header.Set(headerRequestID, c.newRequestID())
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err, Timeout: timedOut(req.Context(), err)}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// Error bodies are opaque text; a failed read degrades to "".
		text := ""
		if readErr == nil {
			text = string(body)
		}
		return nil, NewAPIError(resp.StatusCode, text)
	}

	if readErr != nil {
		return nil, &TransportError{Err: readErr, Timeout: timedOut(req.Context(), readErr)}
	}

	c.logger.DebugContext(req.Context(), "request completed",
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)
	return body, nil
}

// decode unmarshals a 2xx body into out and validates the result shape.
func (c *Client) decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &SchemaError{Field: typeErr.Field, Err: err}
		}
		return &SchemaError{Err: err}
	}

	if err := c.validate.Struct(out); err != nil {
		fields := fieldErrors(err)
		for field := range fields {
			return &SchemaError{Field: field, Err: err}
		}
		return &SchemaError{Err: err}
	}
	return nil
}

// timedOut reports whether a transport failure was caused by a deadline.
func timedOut(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(ctx.Err(), context.DeadlineExceeded)
}

// validHeaderValue reports whether s is a legal HTTP header value per
// RFC 7230 field-content: no control characters other than horizontal tab.
func validHeaderValue(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if (b < 0x20 && b != '\t') || b == 0x7f {
			return false
		}
	}
	return true
}
