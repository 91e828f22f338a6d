package backend

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

	"github.com/jonwraymond/vaultvars/document"
	"github.com/jonwraymond/vaultvars/health"
	"github.com/jonwraymond/vaultvars/observe"
	"github.com/jonwraymond/vaultvars/resilience"
)

const (
	// APIPrefix is appended to the address to form the base URL.
	APIPrefix = "/v1"

	// DataSegment is inserted after the mount in every read path.
	DataSegment = "data"

	// HealthPath is probed by Ping.
	HealthPath = "sys/health"

	maxBodySize = 4 << 20
)

// Config configures a Client.
type Config struct {
	// Address is the backend address, for example "https://vault:8200".
	// A trailing "/" is ignored.
	Address string

	// Token is sent as X-Vault-Token. Empty sends no header.
	Token string

	// Timeout bounds each request.
	// Default: 1 second
	Timeout time.Duration

	// MaxConcurrent caps requests in flight. Zero means unlimited.
	MaxConcurrent int

	// HTTPClient is used for requests. Its Transport is wrapped, not
	// replaced. Nil uses http.DefaultTransport.
	HTTPClient *http.Client

	// Logger receives debug output. The token is never logged.
	Logger observe.Logger
}

// Client reads secret documents from the backend.
type Client struct {
	address  string
	baseURL  string
	timeout  time.Duration
	http     *http.Client
	executor *resilience.Executor
	bulkhead *resilience.Bulkhead
	logger   observe.Logger
}

// NewClient creates a client. It performs no I/O.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = resilience.DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}

	address := strings.TrimRight(cfg.Address, "/")

	c := &Client{
		address: address,
		baseURL: address + APIPrefix,
		timeout: cfg.Timeout,
		http:    withToken(cfg.HTTPClient, cfg.Token),
		logger:  cfg.Logger,
	}

	opts := []resilience.ExecutorOption{resilience.WithTimeout(cfg.Timeout)}
	if cfg.MaxConcurrent > 0 {
		c.bulkhead = resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: cfg.MaxConcurrent})
		opts = append(opts, resilience.WithBulkhead(c.bulkhead))
	}
	c.executor = resilience.NewExecutor(opts...)
	return c
}

// Address returns the normalized backend address.
func (c *Client) Address() string {
	return c.address
}

// RequestPath maps a document path to its API path, inserting DataSegment
// after the mount. Segments are path-escaped.
func RequestPath(documentPath []string) string {
	if len(documentPath) == 0 {
		return ""
	}
	parts := make([]string, 0, len(documentPath)+1)
	parts = append(parts, url.PathEscape(documentPath[0]), DataSegment)
	for _, seg := range documentPath[1:] {
		parts = append(parts, url.PathEscape(seg))
	}
	return strings.Join(parts, "/")
}

// Fetch reads the document at documentPath with a single request.
func (c *Client) Fetch(ctx context.Context, documentPath []string) (document.Document, error) {
	path := RequestPath(documentPath)
	c.logger.Debug(ctx, "fetching secret document",
		observe.F("path", strings.Join(documentPath, "/")),
		observe.F("address", c.address),
	)

	var doc document.Document
	err := c.executor.Execute(ctx, func(ctx context.Context) error {
		d, err := c.read(ctx, path)
		if err != nil {
			return err
		}
		doc = d
		return nil
	})
	if err != nil {
		return nil, c.wrap(err)
	}
	return doc, nil
}

// secretResponse is the subset of a KV v2 read response that is used.
type secretResponse struct {
	Data *struct {
		Data json.RawMessage `json:"data"`
	} `json:"data"`
}

type errorResponse struct {
	Errors []string `json:"errors"`
}

func (c *Client) read(ctx context.Context, path string) (document.Document, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var resp secretResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &Error{Message: "response is not valid JSON", Address: c.address, StatusCode: http.StatusOK, Err: err}
	}
	if resp.Data == nil || len(resp.Data.Data) == 0 {
		return nil, &Error{Message: "response has no data.data object", Address: c.address, StatusCode: http.StatusOK}
	}
	doc, err := document.Decode(bytes.NewReader(resp.Data.Data))
	if err != nil {
		return nil, &Error{Message: "response has no data.data object", Address: c.address, StatusCode: http.StatusOK, Err: err}
	}
	return doc, nil
}

// get performs one GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er errorResponse
		_ = json.Unmarshal(body, &er)
		return nil, &Error{
			Message:    statusMessage(resp.StatusCode, er.Errors),
			Address:    c.address,
			StatusCode: resp.StatusCode,
		}
	}
	return body, nil
}

func (c *Client) wrap(err error) error {
	var be *Error
	if errors.As(err, &be) {
		return be
	}
	msg := err.Error()
	if errors.Is(err, resilience.ErrTimeout) {
		msg = fmt.Sprintf("timeout of %s exceeded", c.timeout)
	}
	return &Error{Message: msg, Address: c.address, Err: err}
}

// Ping checks that the backend answers its health endpoint. Standby and
// performance-standby answers count as reachable.
func (c *Client) Ping(ctx context.Context) error {
	err := c.executor.Execute(ctx, func(ctx context.Context) error {
		_, err := c.get(ctx, HealthPath)
		var be *Error
		if errors.As(err, &be) && reachableStatus(be.StatusCode) {
			return nil
		}
		return err
	})
	if err != nil {
		return c.wrap(err)
	}
	return nil
}

func reachableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, 472, 473:
		return true
	default:
		return false
	}
}

// Checker reports backend reachability as a health check named "vault".
// Details carry the address and, when requests are capped, the number in
// flight.
func (c *Client) Checker() health.Checker {
	ping := health.NewPingChecker("vault", c.Ping, nil)
	return health.NewCheckerFunc("vault", func(ctx context.Context) health.Result {
		return ping.Check(ctx).WithDetails(c.details())
	})
}

func (c *Client) details() map[string]any {
	details := map[string]any{"address": c.address}
	if c.bulkhead != nil {
		m := c.bulkhead.Metrics()
		details["in_flight"] = m.Active
		details["max_concurrent"] = m.MaxConcurrent
		details["rejected"] = m.Rejected
	}
	return details
}
