package tinkoffinvest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Antonboom/tinkoff-invest-openapi-client/internal/clients/tinkoffinvest"
)

func TestActivity_GetBalance(t *testing.T) {
	env := newTestEnv(t)
	c := env.newClient(t)

	balance, err := c.Activity().GetBalance(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "100000", balance.String())

	currencies, err := c.Activity().GetCurrencies(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, currencies, 2)
	assert.Equal(t, "RUB", currencies[0].Currency)
	assert.Equal(t, "USD", currencies[1].Currency)

	_, err = c.Orders().PlaceOrder(context.Background(), tinkoffinvest.PlaceOrderRequest{
		FIGI:      "BBG004730N88", // SBER
		Lots:      1,
		Operation: tinkoffinvest.OperationBuy,
	})
	require.NoError(t, err)

	after, err := c.Activity().GetBalance(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, after.LessThan(balance), after.String())
}
