package tinkoffinvest

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

type Candle struct {
	FIGI     FIGI            `json:"figi"`
	Interval CandleInterval  `json:"interval"`
	Open     decimal.Decimal `json:"o"`
	High     decimal.Decimal `json:"h"`
	Low      decimal.Decimal `json:"l"`
	Close    decimal.Decimal `json:"c"`
	Volume   int64           `json:"v"`
	Time     time.Time       `json:"time"`
}

type candlesPayload struct {
	FIGI     FIGI           `json:"figi"`
	Interval CandleInterval `json:"interval"`
	Candles  []Candle       `json:"candles"`
}

// GetCandles returns historical bars of one instrument in [from, to].
func (c *Catalog) GetCandles(ctx context.Context, figi FIGI, from, to time.Time, interval CandleInterval) ([]Candle, error) {
	if err := interval.Validate(); err != nil {
		return nil, err
	}
	return c.getCandles(ctx, figi,
		from.UTC().Format(time.RFC3339Nano), to.UTC().Format(time.RFC3339Nano), interval)
}

// AttachBars returns a copy of instruments with bars of the last depthDays
// attached. A failed fetch leaves Candles nil and sets Errs.Candles for that
// instrument only; the error is returned for invalid arguments only.
func (c *Catalog) AttachBars(
	ctx context.Context,
	instruments []Instrument,
	depthDays int,
	interval CandleInterval,
) ([]Instrument, error) {
	if err := interval.Validate(); err != nil {
		return nil, err
	}
	if err := validateDepth(depthDays); err != nil {
		return nil, err
	}

	from, to := c.s.window(depthDays)
	result := cloneInstruments(instruments)

	c.s.forEach(ctx, len(result), func(ctx context.Context, i int) {
		candles, err := c.getCandles(ctx, result[i].FIGI, from, to, interval)
		if err != nil {
			c.s.enrichmentFailed("candles", result[i].FIGI, err)
			result[i].Candles, result[i].Errs.Candles = nil, err
			return
		}
		result[i].Candles, result[i].Errs.Candles = candles, nil
	})
	return result, nil
}

func (c *Catalog) getCandles(ctx context.Context, figi FIGI, from, to string, interval CandleInterval) ([]Candle, error) {
	q := url.Values{}
	q.Set("figi", figi.S())
	q.Set("from", from)
	q.Set("to", to)
	q.Set("interval", string(interval))

	var p candlesPayload
	if err := c.s.do(ctx, Request{Path: "/market/candles", Query: q}, &p); err != nil {
		return nil, fmt.Errorf("get candles: %w", err)
	}
	return p.Candles, nil
}
