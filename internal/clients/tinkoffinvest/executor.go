package tinkoffinvest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTimeout = 11 * time.Second

	statusOK = "Ok"
)

type ExecutorOptions struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration // DefaultTimeout if zero.
	HTTPClient *http.Client  // Optional.
}

// Executor performs single authenticated round trips and normalizes every
// failure into *TransportError or *BrokerError. It never retries.
type Executor struct {
	client  *resty.Client
	timeout time.Duration
	logger  zerolog.Logger

	mu   sync.Mutex
	last *RawResponse
}

type Request struct {
	Method  string // POST if Body is set, GET otherwise.
	Path    string
	Query   url.Values
	Body    any
	Timeout time.Duration // Overrides executor timeout.
}

func (r Request) method() string {
	if r.Method != "" {
		return strings.ToUpper(r.Method)
	}
	if r.Body != nil {
		return http.MethodPost
	}
	return http.MethodGet
}

// Envelope is the common shape of every api response.
type Envelope struct {
	TrackingID string          `json:"trackingId"`
	Status     string          `json:"status"`
	Payload    json.RawMessage `json:"payload"`
}

func (e *Envelope) Decode(v any) error {
	if len(e.Payload) == 0 {
		return errors.New("empty payload")
	}
	return json.Unmarshal(e.Payload, v)
}

type errorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// RawResponse is kept for diagnostics only.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	URL        string
}

func NewExecutor(opts ExecutorOptions) (*Executor, error) {
	if opts.Token == "" {
		return nil, ErrTokenRequired
	}
	if _, err := url.ParseRequestURI(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %v", opts.BaseURL, err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	logger := log.With().Str("client", "tinkoffinvest").Logger()

	var rc *resty.Client
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(strings.TrimSuffix(opts.BaseURL, "/")).
		SetAuthToken(opts.Token).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(0).
		SetLogger(restyLogger{logger})

	return &Executor{
		client:  rc,
		timeout: opts.Timeout,
		logger:  logger,
	}, nil
}

func (e *Executor) Execute(ctx context.Context, req Request) (*Envelope, error) {
	method := req.method()

	timeout := e.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	requestID := uuid.NewString()
	logger := e.logger.With().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", req.Path).
		Logger()

	r := e.client.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", requestID)
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, e.transportError(method, req.Path, fmt.Errorf("marshal request body: %w", err))
		}
		r.SetBody(b)
	}

	start := time.Now()
	resp, err := r.Execute(method, req.Path)
	requestDuration.WithLabelValues(method, req.Path).Observe(time.Since(start).Seconds())
	if resp != nil {
		e.remember(resp)
	}
	if err != nil {
		logger.Debug().Err(err).Msg("request failed")
		return nil, e.transportError(method, req.Path, err)
	}

	var env Envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		logger.Debug().Int("status", resp.StatusCode()).Msg("malformed response body")
		return nil, e.transportError(method, req.Path,
			fmt.Errorf("status %d: malformed response body: %w", resp.StatusCode(), err))
	}

	logger.Debug().
		Int("status", resp.StatusCode()).
		Str("tracking_id", env.TrackingID).
		Dur("took", time.Since(start)).
		Msg("request done")

	if !resp.IsSuccess() || env.Status != statusOK {
		var p errorPayload
		_ = json.Unmarshal(env.Payload, &p)

		requestsTotal.WithLabelValues(method, req.Path, string(outcomeBroker)).Inc()
		return nil, &BrokerError{
			Method:     method,
			Path:       req.Path,
			StatusCode: resp.StatusCode(),
			Code:       p.Code,
			Message:    p.Message,
			TrackingID: env.TrackingID,
		}
	}

	requestsTotal.WithLabelValues(method, req.Path, string(outcomeOK)).Inc()
	return &env, nil
}

// LastResponse returns the most recent raw response or nil.
func (e *Executor) LastResponse() *RawResponse {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

func (e *Executor) transportError(method, path string, err error) error {
	requestsTotal.WithLabelValues(method, path, string(outcomeTransport)).Inc()
	return &TransportError{Method: method, Path: path, Err: err}
}

func (e *Executor) remember(resp *resty.Response) {
	raw := &RawResponse{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header().Clone(),
		Body:       append([]byte(nil), resp.Body()...),
	}

	switch {
	case resp.RawResponse != nil && resp.RawResponse.Request != nil:
		raw.URL = resp.RawResponse.Request.URL.String()
	case resp.Request != nil && resp.Request.RawRequest != nil:
		raw.URL = resp.Request.RawRequest.URL.String()
	case resp.Request != nil:
		raw.URL = resp.Request.URL
	}

	e.mu.Lock()
	e.last = raw
	e.mu.Unlock()
}

type restyLogger struct {
	l zerolog.Logger
}

func (r restyLogger) Errorf(format string, v ...interface{}) { r.l.Error().Msgf(format, v...) }
func (r restyLogger) Warnf(format string, v ...interface{})  { r.l.Warn().Msgf(format, v...) }
func (r restyLogger) Debugf(format string, v ...interface{}) { r.l.Debug().Msgf(format, v...) }
