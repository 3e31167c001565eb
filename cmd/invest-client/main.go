package main

import (
	"context"
	"encoding/json"
	"flag"
	stdlog "log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Antonboom/tinkoff-invest-openapi-client/internal/clients/tinkoffinvest"
	"github.com/Antonboom/tinkoff-invest-openapi-client/internal/config"
	"github.com/Antonboom/tinkoff-invest-openapi-client/internal/credstore"
	portfoliowatcher "github.com/Antonboom/tinkoff-invest-openapi-client/internal/services/portfolio-watcher"
)

var (
	configPath = flag.String("config", "configs/config.toml", "Path to config file")
	envPath    = flag.String("env", ".env", "Path to optional .env file")
)

func init() {
	flag.Parse()
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	mustNil(config.LoadDotEnv(*envPath))

	cfg, err := config.Parse(*configPath)
	mustNil(err)
	mustNil(validator.New().Struct(cfg))

	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level))
	mustNil(err)
	zerolog.SetGlobalLevel(lvl)

	encKey, err := credstore.ParseKey(cfg.Store.EncryptionKey)
	mustNil(err)
	store, err := credstore.Open(credstore.OpenOptions{Path: cfg.Store.Path, EncryptionKey: encKey})
	mustNil(err)

	clientCfg := cfg.Clients.TinkoffInvest
	log.Info().Bool("sandbox", clientCfg.UseSandbox).Msg("connect to tinkoff invest api")

	client, err := tinkoffinvest.NewClient(ctx, tinkoffinvest.Options{
		Address:   clientCfg.Address,
		Token:     clientCfg.Token,
		AccountID: tinkoffinvest.AccountID(clientCfg.AccountID),
		Sandbox:   clientCfg.UseSandbox,
		Timeout:   clientCfg.Timeout.D(),
		Retry: tinkoffinvest.RetryPolicy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   cfg.Retry.BaseDelay.D(),
			MaxDelay:    cfg.Retry.MaxDelay.D(),
			Retryable:   tinkoffinvest.IsTransportError,
		},
		EnrichConcurrency: cfg.Enrichment.Concurrency,
	}, store)
	mustNil(err)

	var wg Waiter
	errCh := make(chan error, 2)

	if cfg.Metrics.Enabled {
		wg.Go(func() { errCh <- runMetrics(ctx, cfg.Metrics.Addr) })
	}
	if cfg.PortfolioWatcher.Enabled {
		w := portfoliowatcher.New(cfg.PortfolioWatcher.Interval.D(), client.AccountID(), client.Activity())
		wg.Go(func() { errCh <- w.Run(ctx) })
	}

	if err := run(ctx, client, cfg.Market); err != nil {
		log.Err(err).Msg("run")
		cancel()
	}

	if !cfg.Metrics.Enabled && !cfg.PortfolioWatcher.Enabled {
		cancel()
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			log.Err(err).Msg("error on startup")
			cancel()
		}
	}

	log.Info().Msg("shutdown")
	wg.Wait()
}

func run(ctx context.Context, client *tinkoffinvest.Client, cfg config.MarketConfig) error {
	catalog, err := client.Catalog().GetCatalog(ctx, tinkoffinvest.AssetClass(cfg.AssetClass))
	if err != nil {
		return err
	}
	log.Info().Int("total", len(catalog)).Str("class", cfg.AssetClass).Msg("catalog loaded")

	instruments := tinkoffinvest.FilterByTickers(cfg.Tickers, catalog)
	if len(instruments) == 0 {
		log.Warn().Strs("tickers", cfg.Tickers).Msg("no instruments found")
		return nil
	}

	instruments, err = client.Catalog().AttachBars(ctx, instruments, cfg.CandlesDepthDays,
		tinkoffinvest.CandleInterval(cfg.CandlesInterval))
	if err != nil {
		return err
	}
	instruments, err = client.Activity().AttachOperations(ctx, instruments, cfg.OperationsDepthDays, "")
	if err != nil {
		return err
	}

	if cfg.OrderRoundTrip {
		if err := orderRoundTrip(ctx, client, instruments[0]); err != nil {
			log.Err(err).Str("figi", instruments[0].FIGI.S()).Msg("order round trip")
		}
	}

	instruments = client.Orders().AttachOrders(ctx, instruments, "")

	for _, ins := range instruments {
		log.Info().
			Str("ticker", ins.Ticker).
			Str("figi", ins.FIGI.S()).
			Int("candles", len(ins.Candles)).
			Int("operations", len(ins.Operations)).
			Int("orders", len(ins.Orders)).
			Int("pending_lots", tinkoffinvest.CountLots(ins.Orders)).
			AnErr("candles_err", ins.Errs.Candles).
			AnErr("operations_err", ins.Errs.Operations).
			AnErr("orders_err", ins.Errs.Orders).
			Msg("instrument")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(instruments)
}

// orderRoundTrip places a buy limit order at the half of the last close and cancels it.
func orderRoundTrip(ctx context.Context, client *tinkoffinvest.Client, ins tinkoffinvest.Instrument) error {
	if len(ins.Candles) == 0 {
		log.Warn().Str("figi", ins.FIGI.S()).Msg("no candles to price the order, skip round trip")
		return nil
	}

	last := ins.Candles[len(ins.Candles)-1].Close
	price := tinkoffinvest.RoundToMinPriceIncrement(last.Div(decimal.NewFromInt(2)), ins.MinPriceIncrement)

	placed, err := client.Orders().PlaceOrder(ctx, tinkoffinvest.PlaceOrderRequest{
		FIGI:      ins.FIGI,
		Lots:      1,
		Operation: tinkoffinvest.OperationBuy,
		Price:     &price,
	})
	if err != nil {
		return err
	}
	return client.Orders().CancelOrder(ctx, placed.OrderID, "")
}

func mustNil(err error) {
	if err != nil {
		stdlog.Panic(err)
	}
}
