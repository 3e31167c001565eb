package portfoliowatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Antonboom/tinkoff-invest-openapi-client/internal/clients/tinkoffinvest"
)

//go:generate mockgen -source=$GOFILE -destination=mocks/watcher_generated.go -package portfoliowatchermocks PortfolioDataProvider

const defaultInterval = 5 * time.Second

type l = prometheus.Labels

type PortfolioDataProvider interface {
	GetBalance(ctx context.Context, accountID tinkoffinvest.AccountID) (decimal.Decimal, error)
	GetPortfolio(ctx context.Context, accountID tinkoffinvest.AccountID) (*tinkoffinvest.Portfolio, error)
}

type Watcher struct {
	interval    time.Duration
	account     tinkoffinvest.AccountID
	prevBalance decimal.Decimal
	prevLots    map[tinkoffinvest.FIGI]int
	provider    PortfolioDataProvider
}

func New(interval time.Duration, accountID tinkoffinvest.AccountID, provider PortfolioDataProvider) *Watcher {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Watcher{
		interval:    interval,
		account:     accountID,
		prevBalance: decimal.Zero,
		prevLots:    make(map[tinkoffinvest.FIGI]int),
		provider:    provider,
	}
}

func (w *Watcher) Run(ctx context.Context) error {
	if err := w.fetchAndSetAccountInfo(ctx); err != nil {
		log.Err(err).Msg("initial account info fetch")
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-time.After(w.interval):
			if err := w.fetchAndSetAccountInfo(ctx); err != nil {
				log.Err(err).Msg("periodic account info fetch")
			}
		}
	}
}

func (w *Watcher) fetchAndSetAccountInfo(ctx context.Context) error {
	balance, err := w.provider.GetBalance(ctx, w.account)
	if err != nil {
		return fmt.Errorf("get balance: %v", err)
	}

	portfolio, err := w.provider.GetPortfolio(ctx, w.account)
	if err != nil {
		return fmt.Errorf("get portfolio: %v", err)
	}

	account := w.account.S()

	if !balance.Equal(w.prevBalance) {
		w.prevBalance = balance

		log.Info().
			Str("service", "portfolio-watcher").
			Str("account", account).
			Float64("balance", balance.InexactFloat64()).
			Msg("new account balance")
	}
	currentBalance.With(l{"account_number": account}).Set(balance.InexactFloat64())

	current := make(map[tinkoffinvest.FIGI]int, len(portfolio.Positions))

	for _, p := range portfolio.Positions {
		current[p.FIGI] = p.Lots
		if prev, ok := w.prevLots[p.FIGI]; !ok || prev != p.Lots {
			log.Info().
				Str("service", "portfolio-watcher").
				Str("account", account).
				Str("figi", p.FIGI.S()).
				Str("ticker", p.Ticker).
				Int("lots", p.Lots).
				Msg("position changed")
		}

		positionLots.With(l{"account_number": account, "figi": p.FIGI.S()}).Set(float64(p.Lots))
		positionBalance.With(l{"account_number": account, "figi": p.FIGI.S()}).Set(p.Balance.InexactFloat64())
		if p.AveragePositionPrice != nil {
			positionAvgPrice.With(l{"account_number": account, "figi": p.FIGI.S()}).
				Set(p.AveragePositionPrice.Value.InexactFloat64())
		}
		if p.ExpectedYield != nil {
			positionExpectedYield.With(l{"account_number": account, "figi": p.FIGI.S()}).
				Set(p.ExpectedYield.Value.InexactFloat64())
		}
	}

	for figi := range w.prevLots {
		if _, ok := current[figi]; ok {
			continue
		}
		log.Info().
			Str("service", "portfolio-watcher").
			Str("account", account).
			Str("figi", figi.S()).
			Msg("position closed")

		positionLots.Delete(l{"account_number": account, "figi": figi.S()})
		positionBalance.Delete(l{"account_number": account, "figi": figi.S()})
		positionAvgPrice.Delete(l{"account_number": account, "figi": figi.S()})
		positionExpectedYield.Delete(l{"account_number": account, "figi": figi.S()})
	}
	w.prevLots = current

	positionsTotal.With(l{"account_number": account}).Set(float64(len(portfolio.Positions)))

	return nil
}
