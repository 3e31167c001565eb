package simulator

import (
	"fmt"
	"net/http"
	"sort"
	"time"
)

type account struct {
	BrokerAccountType string `json:"brokerAccountType"`
	BrokerAccountID   string `json:"brokerAccountId"`
}

type moneyAmount struct {
	Currency string  `json:"currency"`
	Value    float64 `json:"value"`
}

type position struct {
	FIGI                 string       `json:"figi"`
	Ticker               string       `json:"ticker"`
	ISIN                 string       `json:"isin,omitempty"`
	Name                 string       `json:"name"`
	InstrumentType       string       `json:"instrumentType"`
	Balance              float64      `json:"balance"`
	Blocked              float64      `json:"blocked"`
	Lots                 int          `json:"lots"`
	AveragePositionPrice *moneyAmount `json:"averagePositionPrice,omitempty"`
}

func (s *Simulator) handleUserAccounts(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.accounts))
	for id := range s.accounts {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	sort.Strings(ids)

	accounts := make([]account, len(ids))
	for i, id := range ids {
		accounts[i] = account{BrokerAccountType: "Tinkoff", BrokerAccountID: id}
	}
	s.ok(w, map[string]any{"accounts": accounts})
}

func (s *Simulator) handleRegister(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	id := fmt.Sprintf("SB%07d", len(s.accounts))
	s.accounts[id] = struct{}{}
	s.mu.Unlock()

	s.logger.Info().Str("account", id).Msg("sandbox account registered")
	s.ok(w, account{BrokerAccountType: "Tinkoff", BrokerAccountID: id})
}

func (s *Simulator) handleOperations(w http.ResponseWriter, r *http.Request) {
	if !s.checkAccount(w, r) {
		return
	}

	q := r.URL.Query()
	from, errFrom := time.Parse(time.RFC3339Nano, q.Get("from"))
	to, errTo := time.Parse(time.RFC3339Nano, q.Get("to"))
	if errFrom != nil || errTo != nil {
		s.fail(w, http.StatusBadRequest, errCodeValidation, "[from, to]: invalid time window")
		return
	}
	figi := q.Get("figi")

	s.mu.Lock()
	defer s.mu.Unlock()

	if figi != "" && s.failOperations[figi] {
		s.fail(w, http.StatusInternalServerError, errCodeInternal, "Operations are temporarily unavailable")
		return
	}

	ops := make([]operation, 0)
	for _, op := range s.operations {
		if figi != "" && op.FIGI != figi {
			continue
		}
		at, err := time.Parse(time.RFC3339, op.Date)
		if err != nil || at.Before(from) || at.After(to) {
			continue
		}
		ops = append(ops, op)
	}
	s.ok(w, map[string]any{"operations": ops})
}

func (s *Simulator) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !s.checkAccount(w, r) {
		return
	}

	s.mu.Lock()
	positions := make([]position, 0, len(s.positions))
	for _, p := range s.positions {
		positions = append(positions, *p)
	}
	s.mu.Unlock()

	sort.Slice(positions, func(i, j int) bool { return positions[i].Ticker < positions[j].Ticker })
	s.ok(w, map[string]any{"positions": positions})
}

type currencyPosition struct {
	Currency string  `json:"currency"`
	Balance  float64 `json:"balance"`
	Blocked  float64 `json:"blocked,omitempty"`
}

func (s *Simulator) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	if !s.checkAccount(w, r) {
		return
	}

	s.mu.Lock()
	currencies := make([]currencyPosition, 0, len(s.balances))
	for c, b := range s.balances {
		currencies = append(currencies, currencyPosition{Currency: c, Balance: b})
	}
	s.mu.Unlock()

	sort.Slice(currencies, func(i, j int) bool { return currencies[i].Currency < currencies[j].Currency })
	s.ok(w, map[string]any{"currencies": currencies})
}
