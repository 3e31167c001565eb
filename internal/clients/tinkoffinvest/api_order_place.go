package tinkoffinvest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	pathMarketOrder = "/orders/market-order"
	pathLimitOrder  = "/orders/limit-order"
)

type PlaceOrderRequest struct {
	AccountID AccountID // Session account if empty.
	FIGI      FIGI
	Lots      int
	Operation OperationType
	Price     *decimal.Decimal // For limit orders only.
}

func (r PlaceOrderRequest) validate() error {
	if err := r.Operation.Validate(); err != nil {
		return err
	}
	if r.FIGI == "" {
		return &ConfigurationError{Param: "figi", Value: ""}
	}
	if r.Lots < 1 {
		return &ConfigurationError{Param: "lots", Value: strconv.Itoa(r.Lots)}
	}
	if r.Price != nil && !r.Price.IsPositive() {
		return &ConfigurationError{Param: "limit price", Value: r.Price.String()}
	}
	return nil
}

// PlacedOrder is the broker acknowledgment.
type PlacedOrder struct {
	OrderID       OrderID       `json:"orderId"`
	Operation     OperationType `json:"operation"`
	Status        string        `json:"status"`
	RejectReason  string        `json:"rejectReason,omitempty"`
	Message       string        `json:"message,omitempty"`
	RequestedLots int           `json:"requestedLots"`
	ExecutedLots  int           `json:"executedLots"`
	Commission    *MoneyAmount  `json:"commission,omitempty"`
}

type placeOrderBody struct {
	Lots      int           `json:"lots"`
	Operation OperationType `json:"operation"`
	Price     json.Number   `json:"price,omitempty"`
}

// PlaceOrder validates the request before any network call, then places
// a limit order if the price is defined and a market order otherwise.
// Placement is never retried.
func (m *OrderManager) PlaceOrder(ctx context.Context, request PlaceOrderRequest) (*PlacedOrder, error) {
	if err := request.validate(); err != nil {
		return nil, err
	}

	path, body := pathMarketOrder, placeOrderBody{Lots: request.Lots, Operation: request.Operation}
	if request.Price != nil {
		path, body.Price = pathLimitOrder, json.Number(request.Price.String())
	}

	q := m.s.accountQuery(request.AccountID)
	q.Set("figi", request.FIGI.S())

	var placed PlacedOrder
	if err := m.s.do(ctx, Request{
		Method: http.MethodPost,
		Path:   path,
		Query:  q,
		Body:   body,
	}, &placed); err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	m.s.logger.Info().
		Str("figi", request.FIGI.S()).
		Str("operation", string(request.Operation)).
		Int("lots", request.Lots).
		Str("order_id", placed.OrderID.S()).
		Str("status", placed.Status).
		Msg("order placed")

	return &placed, nil
}
