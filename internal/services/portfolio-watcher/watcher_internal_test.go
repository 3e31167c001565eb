package portfoliowatcher //nolint:testpackage

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Antonboom/tinkoff-invest-openapi-client/internal/clients/tinkoffinvest"
)

type stubProvider struct {
	portfolios []*tinkoffinvest.Portfolio
	calls      int
}

func (s *stubProvider) GetPortfolio(context.Context, tinkoffinvest.AccountID) (*tinkoffinvest.Portfolio, error) {
	p := s.portfolios[s.calls]
	s.calls++
	return p, nil
}

func (s *stubProvider) GetBalance(context.Context, tinkoffinvest.AccountID) (decimal.Decimal, error) {
	return decimal.RequireFromString("1234.5"), nil
}

func TestWatcher_fetchAndSetAccountInfo(t *testing.T) {
	const account = "account-gauges"

	provider := &stubProvider{portfolios: []*tinkoffinvest.Portfolio{
		{Positions: []tinkoffinvest.PortfolioPosition{
			{FIGI: "BBG000R1X6D9", Lots: 10, Balance: decimal.NewFromInt(10)},
			{FIGI: "BBG000QCW561", Lots: 5, Balance: decimal.NewFromInt(5)},
		}},
		{Positions: []tinkoffinvest.PortfolioPosition{
			{FIGI: "BBG000R1X6D9", Lots: 7, Balance: decimal.NewFromInt(7)},
		}},
	}}
	w := New(0, account, provider)
	assert.Equal(t, defaultInterval, w.interval)

	require.NoError(t, w.fetchAndSetAccountInfo(context.Background()))
	assert.Equal(t, 2.0, testutil.ToFloat64(positionsTotal.With(l{"account_number": account})))
	assert.Equal(t, 5.0, testutil.ToFloat64(positionLots.With(l{"account_number": account, "figi": "BBG000QCW561"})))
	assert.Equal(t, 1234.5, testutil.ToFloat64(currentBalance.With(l{"account_number": account})))
	assert.True(t, decimal.RequireFromString("1234.5").Equal(w.prevBalance))

	require.NoError(t, w.fetchAndSetAccountInfo(context.Background()))
	assert.Equal(t, 1.0, testutil.ToFloat64(positionsTotal.With(l{"account_number": account})))
	assert.Equal(t, 7.0, testutil.ToFloat64(positionLots.With(l{"account_number": account, "figi": "BBG000R1X6D9"})))
	assert.Equal(t, map[tinkoffinvest.FIGI]int{"BBG000R1X6D9": 7}, w.prevLots)
}
