package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/Semior001/cryptonews/app/news"
	"github.com/Semior001/cryptonews/pkg/logx"
	"github.com/go-pkgz/requester"
	"github.com/go-pkgz/requester/middleware"
)

const cmcKeyHeader = "X-CMC_PRO_API_KEY"

// CoinMarketCap is a client for the CoinMarketCap coin info API.
type CoinMarketCap struct {
	log     *slog.Logger
	rq      *requester.Requester
	baseURL string
	now     func() time.Time
}

// NewCoinMarketCap makes a new CoinMarketCap client.
func NewCoinMarketCap(lg *slog.Logger, opts ClientOpts) *CoinMarketCap {
	return &CoinMarketCap{
		log: lg,
		rq: newRequester(lg, opts,
			logx.RoundTripperOpts{SecretHeaders: []string{cmcKeyHeader}},
			middleware.Header(cmcKeyHeader, opts.Token),
		),
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
		now:     time.Now,
	}
}

// Name returns the name of the provider.
func (c *CoinMarketCap) Name() string { return "CoinMarketCap" }

type cmcResponse struct {
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
	Data map[string]cmcCoinInfo `json:"data"`
}

type cmcCoinInfo struct {
	Description string `json:"description"`
	URLs        struct {
		Website []string `json:"website"`
	} `json:"urls"`
}

// Fetch returns a single overview article for the symbol, linking to the coin's website.
func (c *CoinMarketCap) Fetch(ctx context.Context, symbol string) ([]news.Article, error) {
	q := url.Values{}
	q.Set("symbol", symbol)

	var body cmcResponse
	if err := getJSON(ctx, c.log, c.rq, c.baseURL+"/v1/cryptocurrency/info?"+q.Encode(), &body); err != nil {
		return nil, err
	}

	if body.Status.ErrorCode != 0 {
		return nil, fmt.Errorf("coinmarketcap: %s (code %d)", body.Status.ErrorMessage, body.Status.ErrorCode)
	}

	info, ok := body.Data[symbol]
	if !ok {
		if info, ok = body.Data[strings.ToUpper(symbol)]; !ok {
			return nil, fmt.Errorf("coin info for %q: %w", symbol, ErrNoResults)
		}
	}

	if len(info.URLs.Website) == 0 || info.URLs.Website[0] == "" {
		return nil, fmt.Errorf("coin info for %q: %w", symbol, ErrNoWebsite)
	}

	c.log.DebugContext(ctx, "coin info received",
		slog.String("symbol", symbol),
		slog.String("description", info.Description))

	return []news.Article{{
		Title:  fmt.Sprintf("Overview of %s", symbol),
		URL:    info.URLs.Website[0],
		Source: c.Name(),
		Date:   c.now().UTC().Format(time.RFC3339),
	}}, nil
}
