package tinkoffinvest_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/Antonboom/tinkoff-invest-openapi-client/internal/clients/tinkoffinvest"
	tinkoffinvestmocks "github.com/Antonboom/tinkoff-invest-openapi-client/internal/clients/tinkoffinvest/mocks"
	"github.com/Antonboom/tinkoff-invest-openapi-client/internal/credstore"
	"github.com/Antonboom/tinkoff-invest-openapi-client/internal/simulator"
)

const token = "t.test-token"

var now = time.Date(2022, 5, 20, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

type testEnv struct {
	sim    *simulator.Simulator
	server *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	sim := simulator.New(token, simulator.WithClock(clock))
	server := httptest.NewServer(sim)
	t.Cleanup(server.Close)

	return &testEnv{sim: sim, server: server}
}

func (e *testEnv) options() tinkoffinvest.Options {
	return tinkoffinvest.Options{
		Address:   e.server.URL,
		AccountID: simulator.DefaultAccountID,
		Timeout:   time.Second,
		Retry:     tinkoffinvest.NoRetry,
		Now:       clock,
	}
}

func newStore(t *testing.T, accountID string) *tinkoffinvestmocks.MockCredentialStore {
	t.Helper()

	ctrl := gomock.NewController(t)
	store := tinkoffinvestmocks.NewMockCredentialStore(ctrl)
	store.EXPECT().Save(credstore.KeyToken, gomock.Any()).Return(token, nil).AnyTimes()
	store.EXPECT().Save(credstore.KeyAccountID, gomock.Any()).Return(accountID, nil).AnyTimes()
	return store
}

func (e *testEnv) newClient(t *testing.T, modify ...func(o *tinkoffinvest.Options)) *tinkoffinvest.Client {
	t.Helper()

	opts := e.options()
	for _, m := range modify {
		m(&opts)
	}

	c, err := tinkoffinvest.NewClient(context.Background(), opts, newStore(t, opts.AccountID.S()))
	require.NoError(t, err)
	return c
}
