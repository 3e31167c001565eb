package tinkoffinvest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Antonboom/tinkoff-invest-openapi-client/internal/clients/tinkoffinvest"
)

func TestNewExecutor_Validation(t *testing.T) {
	_, err := tinkoffinvest.NewExecutor(tinkoffinvest.ExecutorOptions{BaseURL: "http://localhost"})
	require.ErrorIs(t, err, tinkoffinvest.ErrTokenRequired)

	_, err = tinkoffinvest.NewExecutor(tinkoffinvest.ExecutorOptions{BaseURL: "::invalid", Token: token})
	require.Error(t, err)
}

func TestExecutor_Execute(t *testing.T) {
	env := newTestEnv(t)

	exec, err := tinkoffinvest.NewExecutor(tinkoffinvest.ExecutorOptions{BaseURL: env.server.URL, Token: token})
	require.NoError(t, err)

	envelope, err := exec.Execute(context.Background(), tinkoffinvest.Request{Path: "/market/etfs"})
	require.NoError(t, err)
	assert.Equal(t, "Ok", envelope.Status)
	assert.NotEmpty(t, envelope.TrackingID)

	var p struct {
		Total int `json:"total"`
	}
	require.NoError(t, envelope.Decode(&p))
	assert.Equal(t, 2, p.Total)

	last := exec.LastResponse()
	require.NotNil(t, last)
	assert.Equal(t, http.StatusOK, last.StatusCode)
	assert.Contains(t, last.URL, "/market/etfs")
	assert.NotEmpty(t, last.Body)
}

func TestExecutor_BrokerError(t *testing.T) {
	env := newTestEnv(t)

	exec, err := tinkoffinvest.NewExecutor(tinkoffinvest.ExecutorOptions{BaseURL: env.server.URL, Token: token})
	require.NoError(t, err)

	_, err = exec.Execute(context.Background(), tinkoffinvest.Request{
		Method: http.MethodPost,
		Path:   "/orders/cancel",
		Query:  url.Values{"orderId": []string{"unknown"}},
	})
	require.Error(t, err)

	var brokerErr *tinkoffinvest.BrokerError
	require.ErrorAs(t, err, &brokerErr)
	assert.Equal(t, http.StatusInternalServerError, brokerErr.StatusCode)
	assert.Equal(t, "ORDER_ERROR", brokerErr.Code)
	assert.Contains(t, brokerErr.Message, "unknown")
	assert.NotEmpty(t, brokerErr.TrackingID)
	assert.False(t, tinkoffinvest.IsTransportError(err))

	last := exec.LastResponse()
	require.NotNil(t, last)
	assert.Equal(t, http.StatusInternalServerError, last.StatusCode)
	assert.Contains(t, last.URL, "orderId=unknown")
}

func TestExecutor_MalformedBody(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusBadGateway} {
		status := status
		t.Run(http.StatusText(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				_, _ = w.Write([]byte("<html>Bad Gateway</html>"))
			}))
			defer server.Close()

			exec, err := tinkoffinvest.NewExecutor(tinkoffinvest.ExecutorOptions{BaseURL: server.URL, Token: token})
			require.NoError(t, err)

			_, err = exec.Execute(context.Background(), tinkoffinvest.Request{Path: "/portfolio"})
			require.Error(t, err)
			assert.True(t, tinkoffinvest.IsTransportError(err), err)
			assert.False(t, tinkoffinvest.IsBrokerError(err))
		})
	}
}

func TestExecutor_Timeout(t *testing.T) {
	env := newTestEnv(t)
	env.sim.SetLatency(500 * time.Millisecond)

	exec, err := tinkoffinvest.NewExecutor(tinkoffinvest.ExecutorOptions{
		BaseURL: env.server.URL,
		Token:   token,
		Timeout: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	_, err = exec.Execute(context.Background(), tinkoffinvest.Request{Path: "/market/stocks"})
	require.Error(t, err)
	assert.True(t, tinkoffinvest.IsTransportError(err), err)
}

func TestSession_RetriesReadOnlyRequests(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"trackingId":"x","status":"Ok","payload":{"total":0,"instruments":[]}}`))
	}))
	defer server.Close()

	opts := tinkoffinvest.Options{
		Address: server.URL,
		Now:     clock,
		Retry: tinkoffinvest.RetryPolicy{
			MaxAttempts: 3,
			BaseDelay:   time.Millisecond,
			MaxDelay:    5 * time.Millisecond,
		},
	}
	c, err := tinkoffinvest.NewClient(context.Background(), opts, newStore(t, "acc"))
	require.NoError(t, err)

	instruments, err := c.Catalog().GetCatalog(context.Background(), tinkoffinvest.AssetClassStocks)
	require.NoError(t, err)
	assert.Empty(t, instruments)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestSession_DoesNotRetryOrders(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	opts := tinkoffinvest.Options{
		Address: server.URL,
		Now:     clock,
		Retry: tinkoffinvest.RetryPolicy{
			MaxAttempts: 5,
			BaseDelay:   time.Millisecond,
		},
	}
	c, err := tinkoffinvest.NewClient(context.Background(), opts, newStore(t, "acc"))
	require.NoError(t, err)

	_, err = c.Orders().PlaceOrder(context.Background(), tinkoffinvest.PlaceOrderRequest{
		FIGI:      "BBG000HLJ7M4",
		Lots:      1,
		Operation: tinkoffinvest.OperationBuy,
	})
	require.Error(t, err)
	assert.True(t, tinkoffinvest.IsTransportError(err))

	err = c.Orders().CancelOrder(context.Background(), "order-1", "")
	require.Error(t, err)

	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}
