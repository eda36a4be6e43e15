package provider

import (
	"context"
	"log/slog"
	"time"

	"github.com/Semior001/cryptonews/app/news"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Service aggregates articles from several providers.
type Service struct {
	log       *slog.Logger
	providers []Provider
}

// NewService makes a new Service. Articles of the aggregate are ordered
// the same way as the providers are given.
func NewService(lg *slog.Logger, providers ...Provider) *Service {
	return &Service{log: lg, providers: providers}
}

// Aggregate queries all providers concurrently, waits for every one of them
// and returns their articles concatenated in the order of providers.
// A failed provider contributes no articles.
func (s *Service) Aggregate(ctx context.Context, query string) []news.Article {
	results := make([][]news.Article, len(s.providers))

	ewg := &errgroup.Group{}
	for i, p := range s.providers {
		ewg.Go(func() error {
			results[i] = s.fetch(ctx, p, query)
			return nil
		})
	}
	_ = ewg.Wait() // branches never fail, errors are flattened in fetch

	return lo.Flatten(results)
}

func (s *Service) fetch(ctx context.Context, p Provider, query string) []news.Article {
	start := time.Now()
	articles, err := p.Fetch(ctx, query)
	elapsed := time.Since(start)

	if err != nil {
		recordFetch(p.Name(), statusError, elapsed.Seconds())
		s.log.WarnContext(ctx, "provider failed, skipping its articles",
			slog.String("provider", p.Name()),
			slog.String("query", query),
			slog.Duration("elapsed", elapsed),
			slog.Any("err", err))
		return nil
	}

	status := statusOK
	if len(articles) == 0 {
		status = statusEmpty
	}
	recordFetch(p.Name(), status, elapsed.Seconds())

	s.log.DebugContext(ctx, "provider fetched",
		slog.String("provider", p.Name()),
		slog.Int("articles", len(articles)),
		slog.Duration("elapsed", elapsed))

	return articles
}
