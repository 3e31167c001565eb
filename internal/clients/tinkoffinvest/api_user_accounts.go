package tinkoffinvest

import (
	"context"
	"fmt"
)

type accountsPayload struct {
	Accounts []Account `json:"accounts"`
}

// UserAccounts lists broker accounts available for the token.
func (c *Client) UserAccounts(ctx context.Context) ([]Account, error) {
	var p accountsPayload
	if err := c.s.do(ctx, Request{Path: "/user/accounts"}, &p); err != nil {
		return nil, fmt.Errorf("get user accounts: %w", err)
	}
	return p.Accounts, nil
}
