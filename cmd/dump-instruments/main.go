package main

import (
	"context"
	"encoding/json"
	"flag"
	stdlog "log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/go-playground/validator/v10"

	"github.com/Antonboom/tinkoff-invest-openapi-client/internal/clients/tinkoffinvest"
	"github.com/Antonboom/tinkoff-invest-openapi-client/internal/config"
	"github.com/Antonboom/tinkoff-invest-openapi-client/internal/credstore"
)

var (
	configPath = flag.String("config", "configs/config.toml", "Path to config file")
	assetClass = flag.String("class", string(tinkoffinvest.AssetClassStocks), "Asset class: stocks, etfs, bonds or currencies")
)

func init() {
	flag.Parse()
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	mustNil(config.LoadDotEnv(".env"))

	cfg, err := config.Parse(*configPath)
	mustNil(err)
	mustNil(validator.New().Struct(cfg))

	encKey, err := credstore.ParseKey(cfg.Store.EncryptionKey)
	mustNil(err)
	store, err := credstore.Open(credstore.OpenOptions{Path: cfg.Store.Path, EncryptionKey: encKey})
	mustNil(err)

	tInvest, err := tinkoffinvest.NewClient(ctx, tinkoffinvest.Options{
		Address:   cfg.Clients.TinkoffInvest.Address,
		Token:     cfg.Clients.TinkoffInvest.Token,
		AccountID: tinkoffinvest.AccountID(cfg.Clients.TinkoffInvest.AccountID),
		Sandbox:   true,
		Timeout:   cfg.Clients.TinkoffInvest.Timeout.D(),
	}, store)
	mustNil(err)

	instruments, err := tInvest.Catalog().GetCatalog(ctx, tinkoffinvest.AssetClass(*assetClass))
	mustNil(err)

	sort.Slice(instruments, func(i, j int) bool {
		return instruments[i].Name < instruments[j].Name
	})
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	mustNil(enc.Encode(instruments))
}

func mustNil(err error) {
	if err != nil {
		stdlog.Panic(err)
	}
}
