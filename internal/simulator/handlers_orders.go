package simulator

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
)

const commissionRate = 0.003

type order struct {
	OrderID       string  `json:"orderId"`
	FIGI          string  `json:"figi"`
	Operation     string  `json:"operation"`
	Status        string  `json:"status"`
	RequestedLots int     `json:"requestedLots"`
	ExecutedLots  int     `json:"executedLots"`
	Type          string  `json:"type"`
	Price         float64 `json:"price"`
}

type placeOrderBody struct {
	Lots      int     `json:"lots"`
	Operation string  `json:"operation"`
	Price     float64 `json:"price"`
}

type placedOrder struct {
	OrderID       string       `json:"orderId"`
	Operation     string       `json:"operation"`
	Status        string       `json:"status"`
	RequestedLots int          `json:"requestedLots"`
	ExecutedLots  int          `json:"executedLots"`
	Commission    *moneyAmount `json:"commission,omitempty"`
}

func (s *Simulator) handleOrders(w http.ResponseWriter, r *http.Request) {
	if !s.checkAccount(w, r) {
		return
	}

	s.mu.Lock()
	orders := make([]order, 0, len(s.activeOrders))
	for _, o := range s.activeOrders {
		orders = append(orders, *o)
	}
	s.mu.Unlock()

	sort.Slice(orders, func(i, j int) bool { return orders[i].OrderID < orders[j].OrderID })
	s.ok(w, orders)
}

func (s *Simulator) handleLimitOrder(w http.ResponseWriter, r *http.Request) {
	inst, body, ok := s.parsePlaceOrder(w, r)
	if !ok {
		return
	}
	if body.Price <= 0 {
		s.fail(w, http.StatusBadRequest, errCodeValidation, "[price]: must be positive")
		return
	}

	o := &order{
		OrderID:       uuid.NewString(),
		FIGI:          inst.FIGI,
		Operation:     body.Operation,
		Status:        "New",
		RequestedLots: body.Lots,
		Type:          "Limit",
		Price:         body.Price,
	}

	s.mu.Lock()
	s.activeOrders[o.OrderID] = o
	s.mu.Unlock()

	s.ok(w, placedOrder{
		OrderID:       o.OrderID,
		Operation:     o.Operation,
		Status:        o.Status,
		RequestedLots: o.RequestedLots,
	})
}

func (s *Simulator) handleMarketOrder(w http.ResponseWriter, r *http.Request) {
	inst, body, ok := s.parsePlaceOrder(w, r)
	if !ok {
		return
	}

	price := round(basePrice(inst.FIGI), inst.MinPriceIncrement)
	quantity := body.Lots * inst.Lot
	amount := price * float64(quantity)
	commission := moneyAmount{Currency: inst.Currency, Value: amount * commissionRate}
	id := uuid.NewString()

	payment, sign := -amount, 1
	if body.Operation == "Sell" {
		payment, sign = amount, -1
	}

	s.mu.Lock()
	s.operations = append(s.operations, operation{
		ID:               id,
		Status:           "Done",
		Currency:         inst.Currency,
		Payment:          payment,
		Price:            price,
		Quantity:         quantity,
		QuantityExecuted: quantity,
		FIGI:             inst.FIGI,
		InstrumentType:   inst.Type,
		Date:             s.now().UTC().Format(time.RFC3339),
		OperationType:    body.Operation,
	})
	s.applyFill(inst, sign*body.Lots, price)
	s.balances[inst.Currency] += payment - commission.Value
	s.mu.Unlock()

	s.ok(w, placedOrder{
		OrderID:       id,
		Operation:     body.Operation,
		Status:        "Fill",
		RequestedLots: body.Lots,
		ExecutedLots:  body.Lots,
		Commission:    &commission,
	})
}

// applyFill updates the position of inst. Must be called under s.mu.
func (s *Simulator) applyFill(inst instrument, lots int, price float64) {
	p, ok := s.positions[inst.FIGI]
	if !ok {
		p = &position{
			FIGI:           inst.FIGI,
			Ticker:         inst.Ticker,
			ISIN:           inst.ISIN,
			Name:           inst.Name,
			InstrumentType: inst.Type,
		}
		s.positions[inst.FIGI] = p
	}

	switch {
	case lots > 0 && p.Lots == 0:
		p.AveragePositionPrice = &moneyAmount{Currency: inst.Currency, Value: price}
	case lots > 0:
		total := float64(p.Lots)*avgPrice(p) + float64(lots)*price
		p.AveragePositionPrice = &moneyAmount{Currency: inst.Currency, Value: total / float64(p.Lots+lots)}
	}
	p.Lots += lots
	p.Balance = float64(p.Lots * inst.Lot)

	if p.Lots == 0 {
		delete(s.positions, inst.FIGI)
	}
}

func avgPrice(p *position) float64 {
	if p.AveragePositionPrice == nil {
		return 0
	}
	return p.AveragePositionPrice.Value
}

func (s *Simulator) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	if !s.checkAccount(w, r) {
		return
	}

	id := r.URL.Query().Get("orderId")

	s.mu.Lock()
	_, ok := s.activeOrders[id]
	delete(s.activeOrders, id)
	s.mu.Unlock()

	if !ok {
		s.fail(w, http.StatusInternalServerError, errCodeOrder, "Cannot find order by id "+id)
		return
	}
	s.ok(w, map[string]any{})
}

func (s *Simulator) parsePlaceOrder(w http.ResponseWriter, r *http.Request) (instrument, placeOrderBody, bool) {
	var body placeOrderBody

	if !s.checkAccount(w, r) {
		return instrument{}, body, false
	}

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.fail(w, http.StatusBadRequest, errCodeValidation, "invalid request body: "+err.Error())
		return instrument{}, body, false
	}
	if body.Operation != "Buy" && body.Operation != "Sell" {
		s.fail(w, http.StatusBadRequest, errCodeValidation, "[operation]: invalid value "+body.Operation)
		return instrument{}, body, false
	}
	if body.Lots < 1 {
		s.fail(w, http.StatusBadRequest, errCodeValidation, "[lots]: must be positive")
		return instrument{}, body, false
	}

	figi := r.URL.Query().Get("figi")
	inst, ok := s.findInstrument(figi)
	if !ok {
		s.fail(w, http.StatusInternalServerError, errCodeOrder, "Instrument not found by figi="+figi)
		return instrument{}, body, false
	}
	return inst, body, true
}
