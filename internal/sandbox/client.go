// Package sandbox is a client for the HR sandbox aggregation API: it
// provisions sandbox sessions and reads directory and employment records.
package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/steveyegge/hrs/internal/directory"
	"github.com/steveyegge/hrs/internal/observability"
)

const defaultBaseURL = "https://finch-sandbox-se-interview.vercel.app"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 10 << 20

// Client talks to the sandbox API. It holds no session state; the access
// token is passed to each authenticated call.
type Client struct {
	baseURL  string
	proxyURL string
	timeout  time.Duration
	client   *http.Client
	logger   zerolog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL sets the API host (for testing or alternate sandboxes).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithProxyURL sets a prefix prepended verbatim to every absolute URL.
func WithProxyURL(prefix string) Option {
	return func(c *Client) {
		c.proxyURL = prefix
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithTimeout bounds each call. Zero leaves calls unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger for per-call traces.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a sandbox client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		client:  &http.Client{},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the absolute URL of an endpoint, proxy prefix included.
func (c *Client) URL(e Endpoint) string {
	return c.proxyURL + c.baseURL + e.Path()
}

type provisionRequest struct {
	Provider string   `json:"provider"`
	Products []string `json:"products"`
}

type provisionResponse struct {
	AccessToken any `json:"access_token"`
}

type directoryResponse struct {
	Individuals *[]directory.Record `json:"individuals"`
}

type batchItem struct {
	IndividualID string `json:"individual_id"`
}

type batchRequest struct {
	Requests []batchItem `json:"requests"`
}

type batchResponse struct {
	Responses []struct {
		Body directory.Record `json:"body"`
	} `json:"responses"`
}

// Provision creates a sandbox session for the provider and returns its
// access token.
func (c *Client) Provision(ctx context.Context, providerID string) (string, error) {
	reqBody := provisionRequest{
		Provider: providerID,
		Products: Products,
	}

	var resp provisionResponse
	if err := c.do(ctx, EndpointProvision, http.MethodPost, "", reqBody, &resp); err != nil {
		return "", err
	}

	var token string
	switch v := resp.AccessToken.(type) {
	case string:
		token = v
	case float64:
		token = strconv.FormatFloat(v, 'f', -1, 64)
	}
	if token == "" {
		return "", &Error{Endpoint: EndpointProvision, Err: fmt.Errorf("%w: missing access_token", ErrUnexpectedShape)}
	}
	return token, nil
}

// Directory lists the employer's individuals in API order.
func (c *Client) Directory(ctx context.Context, token string) ([]directory.Record, error) {
	var resp directoryResponse
	if err := c.do(ctx, EndpointDirectory, http.MethodGet, token, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Individuals == nil {
		return nil, &Error{Endpoint: EndpointDirectory, Err: fmt.Errorf("%w: missing individuals", ErrUnexpectedShape)}
	}
	return *resp.Individuals, nil
}

// Individual fetches the personal profile of one individual.
func (c *Client) Individual(ctx context.Context, token, id string) (directory.Record, error) {
	return c.batchOne(ctx, EndpointIndividual, token, id)
}

// Employment fetches the employment detail of one individual.
func (c *Client) Employment(ctx context.Context, token, id string) (directory.Record, error) {
	return c.batchOne(ctx, EndpointEmployment, token, id)
}

// batchOne issues a single-element batch request and returns the first body.
func (c *Client) batchOne(ctx context.Context, e Endpoint, token, id string) (directory.Record, error) {
	reqBody := batchRequest{
		Requests: []batchItem{{IndividualID: id}},
	}

	var resp batchResponse
	if err := c.do(ctx, e, http.MethodPost, token, reqBody, &resp); err != nil {
		return nil, err
	}
	if len(resp.Responses) == 0 || resp.Responses[0].Body == nil {
		return nil, &Error{Endpoint: e, Err: fmt.Errorf("%w: missing responses[0].body", ErrUnexpectedShape)}
	}
	return resp.Responses[0].Body, nil
}

// do performs one call and decodes the JSON response into out. Every
// failure is returned as *Error.
func (c *Client) do(ctx context.Context, e Endpoint, method, token string, body, out any) (err error) {
	start := time.Now()
	requestID := uuid.NewString()
	defer func() {
		observability.RecordSandboxCall(e.String(), time.Since(start), err == nil)
		event := c.logger.Debug()
		if err != nil {
			event = c.logger.Warn().Err(err)
		}
		event.
			Str("endpoint", e.String()).
			Str("request_id", requestID).
			Dur("duration", time.Since(start)).
			Msg("sandbox_call")
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Endpoint: e, Err: fmt.Errorf("marshaling request: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(e), reader)
	if err != nil {
		return &Error{Endpoint: e, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient(token).Do(req)
	if err != nil {
		return &Error{Endpoint: e, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &Error{Endpoint: e, Status: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Endpoint: e, Status: resp.StatusCode}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Endpoint: e, Status: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrUnexpectedShape, err)}
	}
	return nil
}

// httpClient returns the client for one call. Authenticated calls go through
// an oauth2 transport that sets "Authorization: Bearer <token>". The copy
// keeps the configured client's timeout, jar and redirect policy.
func (c *Client) httpClient(token string) *http.Client {
	if token == "" {
		return c.client
	}
	hc := *c.client
	hc.Transport = &oauth2.Transport{
		Base:   c.client.Transport,
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
	}
	return &hc
}
