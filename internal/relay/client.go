// Package relay posts JSON payloads to third-party APIs and hands back the
// parsed response so callers can decide how to map upstream status codes.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/inis-relay/internal/observability/metrics"
	"github.com/wolfman30/inis-relay/pkg/logging"
)

const (
	defaultUserAgent = "inis-relay/1.0"
	maxResponseBytes = 1 << 20
)

var relayTracer = otel.Tracer("inis.internal.relay")

// Config controls how the Client behaves.
type Config struct {
	// Timeout bounds a single POST. Zero leaves the transport default (none).
	Timeout    time.Duration
	HTTPClient *http.Client
	Metrics    *metrics.RelayMetrics
	Logger     *logging.Logger
	UserAgent  string
}

// Client sends one JSON POST per call. It never retries.
type Client struct {
	httpClient *http.Client
	metrics    *metrics.RelayMetrics
	logger     *logging.Logger
	userAgent  string
}

// New creates a Client with sane defaults.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		httpClient: httpClient,
		metrics:    cfg.Metrics,
		logger:     logger,
		userAgent:  userAgent,
	}
}

// Option tweaks a single request.
type Option func(*http.Request)

// WithBearerToken sets the Authorization header.
func WithBearerToken(token string) Option {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// Response is an upstream reply that made it back over the wire, whatever
// its status.
type Response struct {
	StatusCode int
	// Body is the decoded JSON body, or an empty object when the body was
	// empty or not JSON.
	Body any
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Err returns a *StatusError for non-2xx responses and nil otherwise.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}
	return &StatusError{StatusCode: r.StatusCode, Body: r.Body}
}

// StatusError is a non-2xx upstream reply.
type StatusError struct {
	StatusCode int
	Body       any
}

// Error uses the upstream "error" field when it is a string.
func (e *StatusError) Error() string {
	if obj, ok := e.Body.(map[string]any); ok {
		if msg, ok := obj["error"].(string); ok && msg != "" {
			return msg
		}
	}
	return "Request failed"
}

// ErrTransport marks failures where no HTTP response was received.
var ErrTransport = errors.New("relay: transport failure")

// PostJSON marshals payload, POSTs it to url and decodes the reply. target
// names the upstream in logs, spans and metrics. A non-nil error means no
// response was obtained; status handling is left to the caller.
func (c *Client) PostJSON(ctx context.Context, target, url string, payload any, opts ...Option) (*Response, error) {
	ctx, span := relayTracer.Start(ctx, "relay.post_json", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("inis.relay.target", target),
		attribute.String("http.request.method", http.MethodPost),
	)

	body, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "marshal")
		return nil, fmt.Errorf("relay: marshal %s payload: %w", target, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return nil, fmt.Errorf("relay: build %s request: %w", target, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	for _, opt := range opts {
		opt(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveForward(target, "transport_error", time.Since(start).Seconds())
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		c.logger.Error("relay post failed", "target", target, "error", err)
		return nil, fmt.Errorf("%w: %s: %w", ErrTransport, target, err)
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	elapsed := time.Since(start)
	if readErr != nil {
		c.metrics.ObserveForward(target, "transport_error", elapsed.Seconds())
		span.RecordError(readErr)
		span.SetStatus(codes.Error, "read body")
		return nil, fmt.Errorf("%w: %s: read response: %w", ErrTransport, target, readErr)
	}

	out := &Response{StatusCode: resp.StatusCode, Body: decodeBody(data)}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if out.OK() {
		c.metrics.ObserveForward(target, "ok", elapsed.Seconds())
		c.logger.Debug("relay post succeeded", "target", target, "status", resp.StatusCode, "duration_ms", elapsed.Milliseconds())
	} else {
		c.metrics.ObserveForward(target, "upstream_error", elapsed.Seconds())
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		c.logger.Warn("relay upstream rejected request", "target", target, "status", resp.StatusCode)
	}
	return out, nil
}

func decodeBody(data []byte) any {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return map[string]any{}
	}
	return parsed
}
