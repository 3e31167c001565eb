package tinkoffinvest

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const CurrencyRUB = "RUB"

type CurrencyPosition struct {
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
	Blocked  decimal.Decimal `json:"blocked"`
}

type currenciesPayload struct {
	Currencies []CurrencyPosition `json:"currencies"`
}

// GetCurrencies returns money positions of the account.
func (a *Activity) GetCurrencies(ctx context.Context, accountID AccountID) ([]CurrencyPosition, error) {
	var p currenciesPayload
	if err := a.s.do(ctx, Request{Path: "/portfolio/currencies", Query: a.s.accountQuery(accountID)}, &p); err != nil {
		return nil, fmt.Errorf("get currencies: %w", err)
	}
	return p.Currencies, nil
}

// GetBalance returns the free rouble balance. Zero if the account holds no roubles.
func (a *Activity) GetBalance(ctx context.Context, accountID AccountID) (decimal.Decimal, error) {
	currencies, err := a.GetCurrencies(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	for _, c := range currencies {
		if strings.EqualFold(c.Currency, CurrencyRUB) {
			return c.Balance.Sub(c.Blocked), nil
		}
	}
	return decimal.Zero, nil
}
