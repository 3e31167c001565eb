package simulator

import (
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type candle struct {
	FIGI     string  `json:"figi"`
	Interval string  `json:"interval"`
	O        float64 `json:"o"`
	C        float64 `json:"c"`
	H        float64 `json:"h"`
	L        float64 `json:"l"`
	V        int64   `json:"v"`
	Time     string  `json:"time"`
}

const maxCandles = 500

var intervalSteps = map[string]time.Duration{
	"1min":  time.Minute,
	"2min":  2 * time.Minute,
	"3min":  3 * time.Minute,
	"5min":  5 * time.Minute,
	"10min": 10 * time.Minute,
	"15min": 15 * time.Minute,
	"30min": 30 * time.Minute,
	"hour":  time.Hour,
	"day":   24 * time.Hour,
	"week":  7 * 24 * time.Hour,
	"month": 30 * 24 * time.Hour,
}

func (s *Simulator) handleCatalog(w http.ResponseWriter, r *http.Request) {
	class := chi.URLParam(r, "class")

	instruments, ok := s.catalog[class]
	if !ok {
		s.fail(w, http.StatusNotFound, errCodeValidation, "unknown market "+class)
		return
	}

	s.ok(w, map[string]any{
		"total":       len(instruments),
		"instruments": instruments,
	})
}

func (s *Simulator) handleCandles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	figi, interval := q.Get("figi"), q.Get("interval")

	step, ok := intervalSteps[interval]
	if !ok {
		s.fail(w, http.StatusBadRequest, errCodeValidation, "[interval]: invalid value "+interval)
		return
	}
	from, errFrom := time.Parse(time.RFC3339Nano, q.Get("from"))
	to, errTo := time.Parse(time.RFC3339Nano, q.Get("to"))
	if errFrom != nil || errTo != nil || !from.Before(to) {
		s.fail(w, http.StatusBadRequest, errCodeValidation, "[from, to]: invalid time window")
		return
	}

	inst, ok := s.findInstrument(figi)
	if !ok {
		s.fail(w, http.StatusInternalServerError, errCodeValidation, "Instrument not found by figi="+figi)
		return
	}

	s.mu.Lock()
	failing := s.failCandles[figi]
	s.mu.Unlock()
	if failing {
		s.fail(w, http.StatusInternalServerError, errCodeInternal, "Candles are temporarily unavailable")
		return
	}

	candles := make([]candle, 0)
	base := basePrice(figi)
	spread := math.Max(round(base*0.005, inst.MinPriceIncrement), inst.MinPriceIncrement)
	for t, i := from.Truncate(step), 0; !t.After(to) && i < maxCandles; t, i = t.Add(step), i+1 {
		if t.Before(from) {
			continue
		}
		wave := math.Sin(float64(t.Unix()) / float64(step/time.Second))
		o := round(base*(1+0.01*wave), inst.MinPriceIncrement)
		c := round(base*(1+0.01*math.Cos(float64(t.Unix())/float64(step/time.Second))), inst.MinPriceIncrement)
		candles = append(candles, candle{
			FIGI:     figi,
			Interval: interval,
			O:        o,
			C:        c,
			H:        math.Max(o, c) + spread,
			L:        math.Min(o, c) - spread,
			V:        int64(1000 + t.Unix()%1000),
			Time:     t.UTC().Format(time.RFC3339),
		})
	}

	s.ok(w, map[string]any{
		"figi":     figi,
		"interval": interval,
		"candles":  candles,
	})
}

func (s *Simulator) findInstrument(figi string) (instrument, bool) {
	for _, instruments := range s.catalog {
		for _, inst := range instruments {
			if inst.FIGI == figi {
				return inst, true
			}
		}
	}
	return instrument{}, false
}
