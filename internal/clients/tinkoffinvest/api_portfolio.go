package tinkoffinvest

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

type Portfolio struct {
	Positions []PortfolioPosition `json:"positions"`
}

type PortfolioPosition struct {
	FIGI                      FIGI            `json:"figi"`
	Ticker                    string          `json:"ticker"`
	ISIN                      string          `json:"isin"`
	Name                      string          `json:"name"`
	InstrumentType            string          `json:"instrumentType"`
	Balance                   decimal.Decimal `json:"balance"`
	Blocked                   decimal.Decimal `json:"blocked"`
	Lots                      int             `json:"lots"`
	ExpectedYield             *MoneyAmount    `json:"expectedYield,omitempty"`
	AveragePositionPrice      *MoneyAmount    `json:"averagePositionPrice,omitempty"`
	AveragePositionPriceNoNkd *MoneyAmount    `json:"averagePositionPriceNoNkd,omitempty"`
}

// GetPortfolio returns the current positions snapshot. Any failure aborts.
func (a *Activity) GetPortfolio(ctx context.Context, accountID AccountID) (*Portfolio, error) {
	var p Portfolio
	if err := a.s.do(ctx, Request{Path: "/portfolio", Query: a.s.accountQuery(accountID)}, &p); err != nil {
		return nil, fmt.Errorf("get portfolio: %w", err)
	}
	return &p, nil
}
