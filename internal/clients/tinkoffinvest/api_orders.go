package tinkoffinvest

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Order is an active (not yet terminal) order.
type Order struct {
	OrderID       OrderID         `json:"orderId"`
	FIGI          FIGI            `json:"figi"`
	Operation     OperationType   `json:"operation"`
	Status        string          `json:"status"`
	RequestedLots int             `json:"requestedLots"`
	ExecutedLots  int             `json:"executedLots"`
	Type          string          `json:"type"`
	Price         decimal.Decimal `json:"price"`
}

// OrderManager is the trading part of the session.
type OrderManager struct {
	s *session
}

// GetOrders returns active orders of the account.
func (m *OrderManager) GetOrders(ctx context.Context, accountID AccountID) ([]Order, error) {
	var orders []Order
	if err := m.s.do(ctx, Request{Path: "/orders", Query: m.s.accountQuery(accountID)}, &orders); err != nil {
		return nil, fmt.Errorf("get orders: %w", err)
	}
	return orders, nil
}

// AttachOrders returns a copy of instruments with matching active orders
// attached. An instrument without orders gets an empty non-nil slice.
// The listing is a single request: its failure is recorded in Errs.Orders
// of every instrument.
func (m *OrderManager) AttachOrders(ctx context.Context, instruments []Instrument, accountID AccountID) []Instrument {
	result := cloneInstruments(instruments)

	orders, err := m.GetOrders(ctx, accountID)
	if err != nil {
		for i := range result {
			m.s.enrichmentFailed("orders", result[i].FIGI, err)
			result[i].Orders, result[i].Errs.Orders = nil, err
		}
		return result
	}

	byFIGI := make(map[FIGI][]Order)
	for _, o := range orders {
		byFIGI[o.FIGI] = append(byFIGI[o.FIGI], o)
	}

	for i := range result {
		matched := byFIGI[result[i].FIGI]
		if matched == nil {
			matched = []Order{}
		}
		result[i].Orders, result[i].Errs.Orders = matched, nil
	}
	return result
}
