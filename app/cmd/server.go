// Package cmd contains commands for the application.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Semior001/cryptonews/app/provider"
	"github.com/Semior001/cryptonews/app/rest"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Server is a command to run the news aggregation server.
type Server struct {
	Addr string `long:"addr" env:"ADDR" default:"127.0.0.1:3000" description:"address to listen on"`

	NewsData struct {
		Token   string        `long:"token" env:"NEWSAPI_KEY" description:"newsdata.io api key"`
		BaseURL string        `long:"base-url" env:"NEWSDATA_BASE_URL" default:"https://newsdata.io/api/1" description:"newsdata.io api base url"`
		Timeout time.Duration `long:"timeout" env:"NEWSDATA_TIMEOUT" default:"10s" description:"timeout for newsdata.io requests"`
	} `group:"newsdata" namespace:"newsdata"`

	CoinMarketCap struct {
		Token   string        `long:"token" env:"COINMARKETCAP_API_KEY" description:"coinmarketcap api key"`
		BaseURL string        `long:"base-url" env:"COINMARKETCAP_BASE_URL" default:"https://pro-api.coinmarketcap.com" description:"coinmarketcap api base url"`
		Timeout time.Duration `long:"timeout" env:"COINMARKETCAP_TIMEOUT" default:"10s" description:"timeout for coinmarketcap requests"`
	} `group:"cmc" namespace:"cmc"`
}

// Execute runs the command.
func (s Server) Execute(_ []string) error {
	if err := s.validate(); err != nil {
		return fmt.Errorf("validate options: %w", err)
	}

	lg := slog.Default()

	svc := provider.NewService(
		lg.With(slog.String("prefix", "aggregator")),
		provider.NewNewsData(lg.With(slog.String("prefix", "newsdata")), provider.ClientOpts{
			Token:   s.NewsData.Token,
			BaseURL: s.NewsData.BaseURL,
			Timeout: s.NewsData.Timeout,
		}),
		provider.NewCoinMarketCap(lg.With(slog.String("prefix", "coinmarketcap")), provider.ClientOpts{
			Token:   s.CoinMarketCap.Token,
			BaseURL: s.CoinMarketCap.BaseURL,
			Timeout: s.CoinMarketCap.Timeout,
		}),
	)

	gin.SetMode(gin.ReleaseMode)

	srv := &rest.Server{
		Addr:       s.Addr,
		Logger:     lg.With(slog.String("prefix", "rest")),
		Aggregator: svc,
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	ewg, ctx := errgroup.WithContext(ctx)
	ewg.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sig)

		select {
		case sig := <-sig:
			lg.Warn("caught signal, stopping", slog.String("signal", sig.String()))
			stop()
			return ctx.Err()
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	ewg.Go(func() error {
		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("run http server: %w", err)
		}
		return nil
	})

	if err := ewg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

func (s Server) validate() error {
	var errs []error
	if s.NewsData.Token == "" {
		errs = append(errs, errors.New("newsdata token (NEWSAPI_KEY) is required"))
	}
	if s.CoinMarketCap.Token == "" {
		errs = append(errs, errors.New("coinmarketcap token (COINMARKETCAP_API_KEY) is required"))
	}
	return errors.Join(errs...)
}
