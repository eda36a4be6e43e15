// Package provider contains clients for third-party news and market data
// providers and the service that aggregates them.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Semior001/cryptonews/app/news"
	"github.com/Semior001/cryptonews/pkg/logx"
	"github.com/go-pkgz/requester"
	"github.com/go-pkgz/requester/middleware"
)

//go:generate moq -out mock_provider.go . Provider

// Provider fetches articles for the given query from a single source.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, query string) ([]news.Article, error)
}

var (
	// ErrNoResults is returned when the provider's response holds no results for the query.
	ErrNoResults = errors.New("no results")
	// ErrNoWebsite is returned when the coin info holds no website link.
	ErrNoWebsite = errors.New("no website")
)

// ClientOpts defines parameters for provider clients.
type ClientOpts struct {
	Token   string
	BaseURL string
	Timeout time.Duration
}

// newRequester makes an http requester with the logging middleware
// and the given extra middlewares.
func newRequester(lg *slog.Logger, opts ClientOpts, secrets logx.RoundTripperOpts,
	mws ...middleware.RoundTripperHandler) *requester.Requester {
	secrets.Level = slog.LevelDebug

	mws = append([]middleware.RoundTripperHandler{
		middleware.Header("Accept", "application/json"),
		logx.LoggingRoundTripper(lg, secrets),
	}, mws...)

	return requester.New(http.Client{Timeout: opts.Timeout}, mws...)
}

// getJSON makes a GET request to the given url and decodes a successful response into dst.
func getJSON(ctx context.Context, lg *slog.Logger, rq *requester.Requester, u string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := rq.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			lg.WarnContext(ctx, "failed to close response body", slog.Any("err", err))
		}
	}()

	ok := resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices
	if !ok {
		return fmt.Errorf("bad status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
