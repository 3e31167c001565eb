package simulator

import (
	"hash/fnv"
	"math"
	"time"
)

type instrument struct {
	FIGI              string  `json:"figi"`
	Ticker            string  `json:"ticker"`
	ISIN              string  `json:"isin,omitempty"`
	MinPriceIncrement float64 `json:"minPriceIncrement,omitempty"`
	Lot               int     `json:"lot"`
	Currency          string  `json:"currency,omitempty"`
	Name              string  `json:"name"`
	Type              string  `json:"type"`
}

func seedCatalog() map[string][]instrument {
	return map[string][]instrument{
		"stocks": {
			{FIGI: "BBG000HLJ7M4", Ticker: "IDCC", ISIN: "US45867G1013", MinPriceIncrement: 0.01, Lot: 1, Currency: "USD", Name: "InterDigItal Inc", Type: "Stock"},
			{FIGI: "BBG000R1X6D9", Ticker: "NOK", ISIN: "US6549022043", MinPriceIncrement: 0.01, Lot: 1, Currency: "USD", Name: "Nokia", Type: "Stock"},
			{FIGI: "BBG000QCW561", Ticker: "VEON", ISIN: "US91822M1062", MinPriceIncrement: 0.01, Lot: 1, Currency: "USD", Name: "VEON", Type: "Stock"},
			{FIGI: "BBG007BBS8B7", Ticker: "ZYNE", ISIN: "US98986X1090", MinPriceIncrement: 0.01, Lot: 1, Currency: "USD", Name: "Zynerba Pharmaceuticals", Type: "Stock"},
			{FIGI: "BBG000B9XRY4", Ticker: "AAPL", ISIN: "US0378331005", MinPriceIncrement: 0.01, Lot: 1, Currency: "USD", Name: "Apple", Type: "Stock"},
			{FIGI: "BBG004730N88", Ticker: "SBER", ISIN: "RU0009029540", MinPriceIncrement: 0.01, Lot: 10, Currency: "RUB", Name: "Сбербанк России", Type: "Stock"},
		},
		"etfs": {
			{FIGI: "BBG005HLSZ23", Ticker: "FXUS", ISIN: "IE00BD3QHZ91", MinPriceIncrement: 1, Lot: 1, Currency: "RUB", Name: "FinEx Акции американских компаний", Type: "Etf"},
			{FIGI: "BBG00Y6D0N55", Ticker: "TMOS", ISIN: "RU000A101X76", MinPriceIncrement: 0.002, Lot: 1, Currency: "RUB", Name: "Тинькофф iMOEX", Type: "Etf"},
		},
		"bonds": {
			{FIGI: "BBG00T22WKV5", Ticker: "SU29013RMFS8", ISIN: "RU000A101EJ5", MinPriceIncrement: 0.01, Lot: 1, Currency: "RUB", Name: "ОФЗ 29013", Type: "Bond"},
		},
		"currencies": {
			{FIGI: "BBG0013HGFT4", Ticker: "USD000UTSTOM", MinPriceIncrement: 0.0025, Lot: 1000, Currency: "RUB", Name: "Доллар США", Type: "Currency"},
			{FIGI: "BBG0013HJJ31", Ticker: "EUR_RUB__TOM", MinPriceIncrement: 0.0025, Lot: 1000, Currency: "RUB", Name: "Евро", Type: "Currency"},
		},
	}
}

type operation struct {
	ID               string  `json:"id"`
	Status           string  `json:"status"`
	Currency         string  `json:"currency"`
	Payment          float64 `json:"payment"`
	Price            float64 `json:"price,omitempty"`
	Quantity         int     `json:"quantity,omitempty"`
	QuantityExecuted int     `json:"quantityExecuted,omitempty"`
	FIGI             string  `json:"figi,omitempty"`
	InstrumentType   string  `json:"instrumentType,omitempty"`
	IsMarginCall     bool    `json:"isMarginCall"`
	Date             string  `json:"date"`
	OperationType    string  `json:"operationType"`
}

func seedOperations(now time.Time) []operation {
	at := func(daysAgo int) string {
		return now.UTC().AddDate(0, 0, -daysAgo).Format(time.RFC3339)
	}
	return []operation{
		{ID: "op-pay-in", Status: "Done", Currency: "USD", Payment: 10000, Date: at(40), OperationType: "PayIn"},
		{ID: "op-nok-buy", Status: "Done", Currency: "USD", Payment: -40.2, Price: 4.02, Quantity: 10, QuantityExecuted: 10, FIGI: "BBG000R1X6D9", InstrumentType: "Stock", Date: at(20), OperationType: "Buy"},
		{ID: "op-nok-fee", Status: "Done", Currency: "USD", Payment: -0.2, FIGI: "BBG000R1X6D9", InstrumentType: "Stock", Date: at(20), OperationType: "BrokerCommission"},
		{ID: "op-veon-buy", Status: "Done", Currency: "USD", Payment: -17.1, Price: 1.71, Quantity: 10, QuantityExecuted: 10, FIGI: "BBG000QCW561", InstrumentType: "Stock", Date: at(5), OperationType: "Buy"},
		{ID: "op-veon-old", Status: "Done", Currency: "USD", Payment: 16.5, Price: 1.65, Quantity: 10, QuantityExecuted: 10, FIGI: "BBG000QCW561", InstrumentType: "Stock", Date: at(400), OperationType: "Sell"},
	}
}

// seedPositions replays the done seed operations into positions and balances.
func (s *Simulator) seedPositions() {
	for _, op := range s.operations {
		if op.Status == "Done" {
			s.balances[op.Currency] += op.Payment
		}
		if op.OperationType != "Buy" || op.Status != "Done" {
			continue
		}
		inst, ok := s.findInstrument(op.FIGI)
		if !ok {
			continue
		}
		s.applyFill(inst, op.QuantityExecuted/inst.Lot, op.Price)
	}
}

// basePrice is a stable pseudo price of the instrument.
func basePrice(figi string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(figi))
	return 1 + float64(h.Sum32()%20000)/100
}

func round(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}
