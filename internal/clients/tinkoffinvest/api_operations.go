package tinkoffinvest

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type MoneyAmount struct {
	Currency string          `json:"currency"`
	Value    decimal.Decimal `json:"value"`
}

type Trade struct {
	TradeID  string          `json:"tradeId"`
	Date     time.Time       `json:"date"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Operation is a broker-reported trade or cash event.
type Operation struct {
	ID               string          `json:"id"`
	Status           string          `json:"status"`
	Trades           []Trade         `json:"trades,omitempty"`
	Commission       *MoneyAmount    `json:"commission,omitempty"`
	Currency         string          `json:"currency"`
	Payment          decimal.Decimal `json:"payment"`
	Price            decimal.Decimal `json:"price"`
	Quantity         int             `json:"quantity"`
	QuantityExecuted int             `json:"quantityExecuted"`
	FIGI             FIGI            `json:"figi,omitempty"`
	InstrumentType   string          `json:"instrumentType,omitempty"`
	IsMarginCall     bool            `json:"isMarginCall"`
	Date             time.Time       `json:"date"`
	OperationType    string          `json:"operationType"`
}

type operationsPayload struct {
	Operations []Operation `json:"operations"`
}

// Activity is the account history and holdings part of the session.
type Activity struct {
	s *session
}

// GetOperations returns all account operations of the last depthDays.
func (a *Activity) GetOperations(ctx context.Context, depthDays int, accountID AccountID) ([]Operation, error) {
	if err := validateDepth(depthDays); err != nil {
		return nil, err
	}

	from, to := a.s.window(depthDays)
	ops, err := a.getOperations(ctx, "", from, to, accountID)
	if err != nil {
		return nil, err
	}
	return ops, nil
}

// AttachOperations returns a copy of instruments with their own operations
// of the last depthDays attached. Failures are isolated per instrument
// the same way as in Catalog.AttachBars.
func (a *Activity) AttachOperations(
	ctx context.Context,
	instruments []Instrument,
	depthDays int,
	accountID AccountID,
) ([]Instrument, error) {
	if err := validateDepth(depthDays); err != nil {
		return nil, err
	}

	from, to := a.s.window(depthDays)
	result := cloneInstruments(instruments)

	a.s.forEach(ctx, len(result), func(ctx context.Context, i int) {
		ops, err := a.getOperations(ctx, result[i].FIGI, from, to, accountID)
		if err != nil {
			a.s.enrichmentFailed("operations", result[i].FIGI, err)
			result[i].Operations, result[i].Errs.Operations = nil, err
			return
		}
		result[i].Operations, result[i].Errs.Operations = ops, nil
	})
	return result, nil
}

func (a *Activity) getOperations(ctx context.Context, figi FIGI, from, to string, accountID AccountID) ([]Operation, error) {
	q := a.s.accountQuery(accountID)
	q.Set("from", from)
	q.Set("to", to)
	if figi != "" {
		q.Set("figi", figi.S())
	}

	var p operationsPayload
	if err := a.s.do(ctx, Request{Path: "/operations", Query: q}, &p); err != nil {
		return nil, fmt.Errorf("get operations: %w", err)
	}
	return p.Operations, nil
}

func validateDepth(depthDays int) error {
	if depthDays < 1 {
		return &ConfigurationError{Param: "depth days", Value: strconv.Itoa(depthDays)}
	}
	return nil
}
