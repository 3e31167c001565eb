package tinkoffinvest

import (
	"context"
	"fmt"
	"net/http"
)

// CancelOrder cancels an order obtained from PlaceOrder or GetOrders.
// Unknown and already terminal orders are reported as *BrokerError.
func (m *OrderManager) CancelOrder(ctx context.Context, orderID OrderID, accountID AccountID) error {
	if orderID == "" {
		return &ConfigurationError{Param: "order id", Value: ""}
	}

	q := m.s.accountQuery(accountID)
	q.Set("orderId", orderID.S())

	if err := m.s.do(ctx, Request{Method: http.MethodPost, Path: "/orders/cancel", Query: q}, nil); err != nil {
		return fmt.Errorf("cancel order: %w", err)
	}
	return nil
}
