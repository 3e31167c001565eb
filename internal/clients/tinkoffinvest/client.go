package tinkoffinvest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Antonboom/tinkoff-invest-openapi-client/internal/credstore"
)

//go:generate mockgen -source=$GOFILE -destination=mocks/client_generated.go -package tinkoffinvestmocks CredentialStore

const brokerAccountTypeTinkoff = "Tinkoff"

// CredentialStore resolves a credential: a non-empty value is persisted
// and returned, an empty one yields the last persisted value.
type CredentialStore interface {
	Save(key credstore.Key, value string) (string, error)
}

type Options struct {
	// Address is the api root, e.g. https://api-invest.tinkoff.ru/openapi.
	Address   string
	Token     string
	AccountID AccountID
	Sandbox   bool
	Timeout   time.Duration
	// Retry applies to read-only requests. DefaultRetryPolicy if zero.
	Retry RetryPolicy
	// EnrichConcurrency bounds in-flight per-instrument requests. 1 if zero.
	EnrichConcurrency int

	HTTPClient *http.Client
	Now        func() time.Time
}

// Client is a ready session. Market data, account activity and orders are
// exposed through capability-scoped sub-clients sharing one executor.
type Client struct {
	s       *session
	sandbox bool

	catalog  *Catalog
	activity *Activity
	orders   *OrderManager
}

type session struct {
	exec        *Executor
	retry       RetryPolicy
	accountID   AccountID
	concurrency int
	now         func() time.Time
	logger      zerolog.Logger
}

func NewClient(ctx context.Context, opts Options, store CredentialStore) (*Client, error) {
	if store == nil {
		return nil, errors.New("uninitialized credentials store")
	}

	token, err := store.Save(credstore.KeyToken, opts.Token)
	if err != nil {
		return nil, fmt.Errorf("resolve token: %w", err)
	}
	if token == "" {
		return nil, &AuthError{Reason: "resolve token", Err: ErrTokenRequired}
	}

	accountID, err := store.Save(credstore.KeyAccountID, opts.AccountID.S())
	if err != nil {
		return nil, fmt.Errorf("resolve account id: %w", err)
	}

	baseURL := strings.TrimSuffix(opts.Address, "/")
	if opts.Sandbox {
		baseURL += "/sandbox"
	}

	exec, err := NewExecutor(ExecutorOptions{
		BaseURL:    baseURL,
		Token:      token,
		Timeout:    opts.Timeout,
		HTTPClient: opts.HTTPClient,
	})
	if err != nil {
		return nil, fmt.Errorf("new executor: %w", err)
	}

	retry := opts.Retry
	if retry.MaxAttempts == 0 {
		retry = DefaultRetryPolicy()
	}
	concurrency := opts.EnrichConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &session{
		exec:        exec,
		retry:       retry,
		accountID:   AccountID(accountID),
		concurrency: concurrency,
		now:         now,
		logger:      log.With().Str("client", "tinkoffinvest").Bool("sandbox", opts.Sandbox).Logger(),
	}

	if opts.Sandbox {
		id, err := s.registerSandbox(ctx)
		if err != nil {
			return nil, &AuthError{Reason: "sandbox registration", Err: err}
		}
		s.accountID = id
		s.logger.Info().Str("account", id.S()).Msg("new sandbox client is created")
	}

	s.logger.Info().Str("account", s.accountID.S()).Msg("session is ready")

	return &Client{
		s:        s,
		sandbox:  opts.Sandbox,
		catalog:  &Catalog{s: s},
		activity: &Activity{s: s},
		orders:   &OrderManager{s: s},
	}, nil
}

func (c *Client) AccountID() AccountID { return c.s.accountID }
func (c *Client) Sandbox() bool { return c.sandbox }
func (c *Client) LastResponse() *RawResponse { return c.s.exec.LastResponse() }
func (c *Client) Catalog() *Catalog { return c.catalog }
func (c *Client) Activity() *Activity { return c.activity }
func (c *Client) Orders() *OrderManager { return c.orders }

type sandboxRegisterRequest struct {
	BrokerAccountType string `json:"brokerAccountType"`
}

type Account struct {
	BrokerAccountType string    `json:"brokerAccountType"`
	BrokerAccountID   AccountID `json:"brokerAccountId"`
}

func (s *session) registerSandbox(ctx context.Context) (AccountID, error) {
	var acc Account
	if err := s.do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/sandbox/register",
		Body:   sandboxRegisterRequest{BrokerAccountType: brokerAccountTypeTinkoff},
	}, &acc); err != nil {
		return "", err
	}
	if acc.BrokerAccountID == "" {
		return "", errors.New("no broker account id in response")
	}
	return acc.BrokerAccountID, nil
}

// do executes req and decodes the payload into out (if not nil).
// Only read-only requests are retried.
func (s *session) do(ctx context.Context, req Request, out any) error {
	policy := s.retry
	if req.method() != http.MethodGet {
		policy = NoRetry
	}

	var env *Envelope
	err := policy.Do(ctx, func(attempt int) error {
		if attempt > 1 {
			retriesTotal.WithLabelValues(req.Path).Inc()
			s.logger.Warn().Str("path", req.Path).Int("attempt", attempt).Msg("retry request")
		}

		var err error
		env, err = s.exec.Execute(ctx, req)
		return err
	})
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := env.Decode(out); err != nil {
		return &TransportError{
			Method: req.method(),
			Path:   req.Path,
			Err:    fmt.Errorf("decode payload: %w", err),
		}
	}
	return nil
}

// account falls back to the session account if id is empty.
func (s *session) account(id AccountID) AccountID {
	if id != "" {
		return id
	}
	return s.accountID
}

func (s *session) accountQuery(id AccountID) url.Values {
	q := url.Values{}
	if acc := s.account(id); acc != "" {
		q.Set("brokerAccountId", acc.S())
	}
	return q
}

// window returns [now - depthDays, now] in UTC formatted for query params.
func (s *session) window(depthDays int) (from, to string) {
	now := s.now().UTC()
	return now.AddDate(0, 0, -depthDays).Format(time.RFC3339Nano), now.Format(time.RFC3339Nano)
}
