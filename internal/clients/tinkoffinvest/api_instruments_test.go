package tinkoffinvest_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Antonboom/tinkoff-invest-openapi-client/internal/clients/tinkoffinvest"
)

func TestCatalog_GetCatalog(t *testing.T) {
	env := newTestEnv(t)
	c := env.newClient(t)

	instruments, err := c.Catalog().GetCatalog(context.Background(), tinkoffinvest.AssetClassStocks)
	require.NoError(t, err)
	require.NotEmpty(t, instruments)

	idcc := instruments[0]
	assert.Equal(t, tinkoffinvest.FIGI("BBG000HLJ7M4"), idcc.FIGI)
	assert.Equal(t, "IDCC", idcc.Ticker)
	assert.Equal(t, "US45867G1013", idcc.ISIN)
	assert.Equal(t, "USD", idcc.Currency)
	assert.Equal(t, 1, idcc.Lot)
	assert.Equal(t, "Stock", idcc.Type)
	assert.True(t, decimal.RequireFromString("0.01").Equal(idcc.MinPriceIncrement))
	assert.Nil(t, idcc.Candles)

	for _, class := range []tinkoffinvest.AssetClass{
		tinkoffinvest.AssetClassETFs,
		tinkoffinvest.AssetClassBonds,
		tinkoffinvest.AssetClassCurrencies,
	} {
		instruments, err := c.Catalog().GetCatalog(context.Background(), class)
		require.NoError(t, err, class)
		assert.NotEmpty(t, instruments, class)

		figis := make(map[tinkoffinvest.FIGI]struct{}, len(instruments))
		for _, i := range instruments {
			figis[i.FIGI] = struct{}{}
		}
		assert.Len(t, figis, len(instruments), "figi must be unique")
	}
}

func TestCatalog_GetCatalog_InvalidClass(t *testing.T) {
	env := newTestEnv(t)
	c := env.newClient(t)

	_, err := c.Catalog().GetCatalog(context.Background(), "futures")
	require.Error(t, err)

	var cfgErr *tinkoffinvest.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "futures", cfgErr.Value)
	assert.Equal(t, []string{"stocks", "etfs", "bonds", "currencies"}, cfgErr.Allowed)
	assert.Empty(t, env.sim.Requests())
}

func TestFilterByTickers(t *testing.T) {
	instruments := []tinkoffinvest.Instrument{
		{FIGI: "1", Ticker: "NOK"},
		{FIGI: "2", Ticker: "VEON"},
		{FIGI: "3", Ticker: "ZYNE"},
		{FIGI: "4", Ticker: "NOK"},
	}

	cases := []struct {
		name    string
		tickers []string
		expFIGI []tinkoffinvest.FIGI
	}{
		{
			name:    "no tickers",
			tickers: nil,
			expFIGI: []tinkoffinvest.FIGI{},
		},
		{
			name:    "tickers order is kept",
			tickers: []string{"ZYNE", "NOK"},
			expFIGI: []tinkoffinvest.FIGI{"3", "1"},
		},
		{
			name:    "unknown tickers are skipped",
			tickers: []string{"AAPL", "VEON", "TSLA"},
			expFIGI: []tinkoffinvest.FIGI{"2"},
		},
		{
			name:    "duplicated tickers are collapsed",
			tickers: []string{"VEON", "VEON", "NOK"},
			expFIGI: []tinkoffinvest.FIGI{"2", "1"},
		},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			filtered := tinkoffinvest.FilterByTickers(tt.tickers, instruments)

			figis := make([]tinkoffinvest.FIGI, 0, len(filtered))
			for _, i := range filtered {
				figis = append(figis, i.FIGI)
			}
			assert.Equal(t, tt.expFIGI, figis)
		})
	}
}

func loadStocks(t *testing.T, c *tinkoffinvest.Client, tickers ...string) []tinkoffinvest.Instrument {
	t.Helper()

	instruments, err := c.Catalog().GetCatalog(context.Background(), tinkoffinvest.AssetClassStocks)
	require.NoError(t, err)

	filtered := tinkoffinvest.FilterByTickers(tickers, instruments)
	require.Len(t, filtered, len(tickers))
	return filtered
}
