package tinkoffinvest_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Antonboom/tinkoff-invest-openapi-client/internal/clients/tinkoffinvest"
	tinkoffinvestmocks "github.com/Antonboom/tinkoff-invest-openapi-client/internal/clients/tinkoffinvest/mocks"
	"github.com/Antonboom/tinkoff-invest-openapi-client/internal/credstore"
	"github.com/Antonboom/tinkoff-invest-openapi-client/internal/simulator"
)

func TestNewClient_Live(t *testing.T) {
	env := newTestEnv(t)

	c := env.newClient(t)
	assert.False(t, c.Sandbox())
	assert.Equal(t, tinkoffinvest.AccountID(simulator.DefaultAccountID), c.AccountID())
	assert.Empty(t, env.sim.Requests(), "live session must not call the api on creation")
}

func TestNewClient_Sandbox(t *testing.T) {
	env := newTestEnv(t)

	c := env.newClient(t, func(o *tinkoffinvest.Options) { o.Sandbox = true })
	assert.True(t, c.Sandbox())
	assert.True(t, strings.HasPrefix(c.AccountID().S(), "SB"), c.AccountID())

	reqs := env.sim.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/sandbox/sandbox/register", reqs[0].Path)

	// The sandbox account is used by default.
	_, err := c.Activity().GetPortfolio(context.Background(), "")
	require.NoError(t, err)
	reqs = env.sim.Requests()
	assert.Equal(t, "/sandbox/portfolio", reqs[1].Path)
	assert.Equal(t, c.AccountID().S(), reqs[1].Query.Get("brokerAccountId"))
}

func TestNewClient_SandboxRegistrationFailed(t *testing.T) {
	env := newTestEnv(t)

	ctrl := gomock.NewController(t)
	store := tinkoffinvestmocks.NewMockCredentialStore(ctrl)
	store.EXPECT().Save(credstore.KeyToken, "").Return("t.expired", nil)
	store.EXPECT().Save(credstore.KeyAccountID, "").Return("", nil)

	opts := env.options()
	opts.AccountID = ""
	opts.Sandbox = true

	_, err := tinkoffinvest.NewClient(context.Background(), opts, store)
	require.Error(t, err)

	var authErr *tinkoffinvest.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "sandbox registration", authErr.Reason)

	var brokerErr *tinkoffinvest.BrokerError
	require.ErrorAs(t, err, &brokerErr)
	assert.Equal(t, 401, brokerErr.StatusCode)
}

func TestNewClient_TokenRequired(t *testing.T) {
	env := newTestEnv(t)

	ctrl := gomock.NewController(t)
	store := tinkoffinvestmocks.NewMockCredentialStore(ctrl)
	store.EXPECT().Save(credstore.KeyToken, "").Return("", nil)

	opts := env.options()
	_, err := tinkoffinvest.NewClient(context.Background(), opts, store)

	var authErr *tinkoffinvest.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.ErrorIs(t, err, tinkoffinvest.ErrTokenRequired)
	assert.Empty(t, env.sim.Requests())
}

func TestNewClient_StoreFailure(t *testing.T) {
	env := newTestEnv(t)

	ctrl := gomock.NewController(t)
	store := tinkoffinvestmocks.NewMockCredentialStore(ctrl)
	store.EXPECT().Save(credstore.KeyToken, token).Return("", errors.New("disk is full"))

	opts := env.options()
	opts.Token = token
	_, err := tinkoffinvest.NewClient(context.Background(), opts, store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk is full")
}

func TestNewClient_NilStore(t *testing.T) {
	env := newTestEnv(t)

	_, err := tinkoffinvest.NewClient(context.Background(), env.options(), nil)
	require.Error(t, err)
}

func TestClient_UserAccounts(t *testing.T) {
	env := newTestEnv(t)
	c := env.newClient(t)

	accounts, err := c.UserAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, tinkoffinvest.AccountID(simulator.DefaultAccountID), accounts[0].BrokerAccountID)
	assert.Equal(t, "Tinkoff", accounts[0].BrokerAccountType)
}
