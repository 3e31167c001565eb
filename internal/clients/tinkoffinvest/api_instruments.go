package tinkoffinvest

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

type Instrument struct {
	FIGI              FIGI            `json:"figi"`
	Ticker            string          `json:"ticker"`
	ISIN              string          `json:"isin"`
	Name              string          `json:"name"`
	Currency          string          `json:"currency"`
	Lot               int             `json:"lot"`
	MinPriceIncrement decimal.Decimal `json:"minPriceIncrement"`
	Type              string          `json:"type"`

	// Attached by enrichment, identity fields above stay untouched.

	Candles    []Candle    `json:"candles,omitempty"`
	Operations []Operation `json:"operations,omitempty"`
	Orders     []Order     `json:"orders,omitempty"`

	Errs EnrichmentErrors `json:"-"`
}

// EnrichmentErrors keeps per-instrument failures of the last enrichment
// of each kind. The corresponding data field is nil when set.
type EnrichmentErrors struct {
	Candles    error
	Operations error
	Orders     error
}

// Catalog is the market data part of the session.
type Catalog struct {
	s *session
}

type instrumentsPayload struct {
	Total       int          `json:"total"`
	Instruments []Instrument `json:"instruments"`
}

// GetCatalog returns all instruments of the asset class.
func (c *Catalog) GetCatalog(ctx context.Context, class AssetClass) ([]Instrument, error) {
	if err := class.Validate(); err != nil {
		return nil, err
	}

	var p instrumentsPayload
	if err := c.s.do(ctx, Request{Path: "/market/" + string(class)}, &p); err != nil {
		return nil, fmt.Errorf("get %s catalog: %w", class, err)
	}
	return p.Instruments, nil
}

// FilterByTickers picks the first instrument for every requested ticker in
// the tickers order. Unknown tickers are silently skipped.
func FilterByTickers(tickers []string, instruments []Instrument) []Instrument {
	byTicker := make(map[string]int, len(instruments))
	for i := len(instruments) - 1; i >= 0; i-- {
		byTicker[instruments[i].Ticker] = i
	}

	result := make([]Instrument, 0, len(tickers))
	seen := make(map[string]struct{}, len(tickers))
	for _, t := range tickers {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}

		if i, ok := byTicker[t]; ok {
			result = append(result, instruments[i])
		}
	}
	return result
}

func cloneInstruments(in []Instrument) []Instrument {
	out := make([]Instrument, len(in))
	copy(out, in)
	return out
}
