package main

import (
	"context"
	"errors"
	"flag"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Antonboom/tinkoff-invest-openapi-client/internal/config"
	"github.com/Antonboom/tinkoff-invest-openapi-client/internal/simulator"
)

var addr = flag.String("addr", ":7171", "Listen address")

func init() {
	flag.Parse()
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	mustNil(config.LoadDotEnv(".env"))

	token := os.Getenv(config.EnvToken)
	if token == "" {
		stdlog.Panicf("%s must be set", config.EnvToken)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           simulator.New(token),
		ReadHeaderTimeout: time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", *addr).Msg("start simulator http server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		mustNil(err)
	}
}

func mustNil(err error) {
	if err != nil {
		stdlog.Panic(err)
	}
}
