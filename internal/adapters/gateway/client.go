// Package gateway is the HTTP client of the party service. Every call goes
// through Request, which attaches credentials, encodes bodies and turns
// failed responses into typed errors.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"voteparty/internal/ports/output"
)

const maxErrorBody = 1 << 20

// RequestOptions describes one call. The zero value is an anonymous GET.
type RequestOptions struct {
	Method string
	// Body is JSON-encoded when non-nil.
	Body any
	// Authenticated requires an active credential subject and sends a fresh
	// bearer token.
	Authenticated bool
	Query         url.Values
}

type Client struct {
	baseURL string
	http    *http.Client
	creds   output.CredentialSource
	log     zerolog.Logger
	tracer  trace.Tracer
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l.With().Str("component", "gateway").Logger() }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tracer = tp.Tracer("voteparty/gateway") }
}

// New builds a client for baseURL. An empty baseURL keeps paths relative.
// creds may be nil, in which case authenticated calls fail locally.
func New(baseURL string, creds output.CredentialSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		creds:   creds,
		log:     zerolog.Nop(),
		tracer:  otel.Tracer("voteparty/gateway"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request performs one call and decodes a successful JSON body into T.
// A 204 response yields (nil, nil).
func Request[T any](ctx context.Context, c *Client, path string, opts RequestOptions) (*T, error) {
	var out *T
	err := c.do(ctx, path, opts, func(body io.Reader) error {
		out = new(T)
		return json.NewDecoder(body).Decode(out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// send performs a call whose response body is not needed.
func (c *Client) send(ctx context.Context, path string, opts RequestOptions) error {
	return c.do(ctx, path, opts, func(body io.Reader) error {
		_, err := io.Copy(io.Discard, body)
		return err
	})
}

func (c *Client) do(ctx context.Context, path string, opts RequestOptions, decode func(io.Reader) error) (err error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var token string
	if opts.Authenticated {
		if c.creds == nil {
			return unauthenticated()
		}
		if _, ok := c.creds.Subject(); !ok {
			return unauthenticated()
		}
		token, err = c.creds.Token(ctx)
		if err != nil {
			return fmt.Errorf("gateway: credential token: %w", err)
		}
	}

	ctx, span := c.tracer.Start(ctx, "gateway.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
			attribute.Bool("voteparty.authenticated", opts.Authenticated),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		}
		span.End()
	}()

	target := c.baseURL + path
	if len(opts.Query) > 0 {
		target += "?" + opts.Query.Encode()
	}

	var body io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("gateway: encode body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		payload := decodeErrorBody(raw)
		text := statusPhrase(resp)
		return &APIError{
			Status:     resp.StatusCode,
			StatusText: text,
			Message:    payloadMessage(payload, text),
			Payload:    payload,
		}
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := decode(resp.Body); err != nil {
		return fmt.Errorf("gateway: decode %s %s: %w", method, path, err)
	}
	return nil
}

func seg(s string) string {
	return url.PathEscape(s)
}
