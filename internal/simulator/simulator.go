// Package simulator implements an in-memory broker speaking the REST
// OpenAPI envelope. Both live and sandbox routes are served.
package simulator

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultAccountID = "2000000001"

	errCodeValidation      = "VALIDATION_ERROR"
	errCodeUnauthorized    = "UNAUTHORIZED"
	errCodeOrder           = "ORDER_ERROR"
	errCodeAccountNotFound = "BROKER_ACCOUNT_NOT_FOUND"
	errCodeInternal        = "INTERNAL_ERROR"
)

type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
}

type Simulator struct {
	token  string
	now    func() time.Time
	router chi.Router
	logger zerolog.Logger

	mu             sync.Mutex
	accounts       map[string]struct{}
	catalog        map[string][]instrument
	activeOrders   map[string]*order
	operations     []operation
	positions      map[string]*position
	balances       map[string]float64
	failCandles    map[string]bool
	failOperations map[string]bool
	latency        time.Duration
	requests       []RecordedRequest
}

type Option func(s *Simulator)

func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

func New(token string, opts ...Option) *Simulator {
	s := &Simulator{
		token:          token,
		now:            time.Now,
		logger:         log.With().Str("service", "simulator").Logger(),
		accounts:       map[string]struct{}{DefaultAccountID: {}},
		catalog:        seedCatalog(),
		activeOrders:   make(map[string]*order),
		positions:      make(map[string]*position),
		balances:       map[string]float64{"RUB": 100000},
		failCandles:    make(map[string]bool),
		failOperations: make(map[string]bool),
	}
	for _, o := range opts {
		o(s)
	}
	s.operations = seedOperations(s.now())
	s.seedPositions()
	s.router = s.routes()
	return s
}

func (s *Simulator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// FailCandles makes candles requests for the figi fail with an internal error.
func (s *Simulator) FailCandles(figi string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCandles[figi] = true
}

// FailOperations makes figi-scoped operations requests fail.
func (s *Simulator) FailOperations(figi string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOperations[figi] = true
}

// SetLatency delays every response.
func (s *Simulator) SetLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = d
}

// Requests returns all received requests in arrival order.
func (s *Simulator) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

func (s *Simulator) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.record, s.auth)

	api := func(r chi.Router) {
		r.Get("/user/accounts", s.handleUserAccounts)
		r.Get("/market/candles", s.handleCandles)
		r.Get("/market/{class}", s.handleCatalog)
		r.Get("/operations", s.handleOperations)
		r.Get("/portfolio", s.handlePortfolio)
		r.Get("/portfolio/currencies", s.handleCurrencies)
		r.Get("/orders", s.handleOrders)
		r.Post("/orders/limit-order", s.handleLimitOrder)
		r.Post("/orders/market-order", s.handleMarketOrder)
		r.Post("/orders/cancel", s.handleCancelOrder)
	}

	r.Group(api)
	r.Route("/sandbox", func(r chi.Router) {
		api(r)
		r.Post("/sandbox/register", s.handleRegister)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.fail(w, http.StatusNotFound, errCodeValidation, "unknown method "+r.URL.Path)
	})
	return r
}

func (s *Simulator) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
		})
		latency := s.latency
		s.mu.Unlock()

		if latency > 0 {
			select {
			case <-r.Context().Done():
				return
			case <-time.After(latency):
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Simulator) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+s.token {
			s.fail(w, http.StatusUnauthorized, errCodeUnauthorized, "Authorization token is invalid")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkAccount validates an optional brokerAccountId query param.
func (s *Simulator) checkAccount(w http.ResponseWriter, r *http.Request) bool {
	id := r.URL.Query().Get("brokerAccountId")
	if id == "" {
		return true
	}

	s.mu.Lock()
	_, ok := s.accounts[id]
	s.mu.Unlock()

	if !ok {
		s.fail(w, http.StatusInternalServerError, errCodeAccountNotFound, "Broker account "+id+" not found")
	}
	return ok
}

type envelope struct {
	TrackingID string `json:"trackingId"`
	Status     string `json:"status"`
	Payload    any    `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (s *Simulator) ok(w http.ResponseWriter, payload any) {
	s.writeJSON(w, http.StatusOK, envelope{
		TrackingID: newTrackingID(),
		Status:     "Ok",
		Payload:    payload,
	})
}

func (s *Simulator) fail(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, envelope{
		TrackingID: newTrackingID(),
		Status:     "Error",
		Payload:    errorPayload{Message: message, Code: code},
	})
}

func (s *Simulator) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Err(err).Msg("write response")
	}
}

func newTrackingID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}
