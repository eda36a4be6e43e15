// Package rest provides the http server with the news aggregation endpoint
// and the static front-end.
package rest

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Semior001/cryptonews/app/news"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	//go:embed static/index.html
	indexHTML []byte
	//go:embed static/style.css
	styleCSS []byte
	//go:embed static/script.js
	scriptJS []byte
)

// Aggregator collects articles for the query from all providers.
type Aggregator interface {
	Aggregate(ctx context.Context, query string) []news.Article
}

// Server serves the news endpoint and static assets.
type Server struct {
	Addr            string
	Logger          *slog.Logger
	Aggregator      Aggregator
	ShutdownTimeout time.Duration
}

// Run starts the server and blocks until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	shutdownTimeout := s.ShutdownTimeout
	if shutdownTimeout == 0 {
		shutdownTimeout = 5 * time.Second
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.Logger.Warn("failed to shutdown http server", slog.Any("err", err))
		}
	}()

	s.Logger.Info("starting http server", slog.String("addr", s.Addr))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}

	<-stopped
	s.Logger.Info("http server stopped")
	return nil
}

func (s *Server) routes() http.Handler {
	r := gin.New()
	r.Use(requestID(), accessLog(s.Logger), recoverer(s.Logger))

	r.GET("/news", s.news)
	r.GET("/", static("text/html; charset=utf-8", indexHTML))
	r.GET("/style.css", static("text/css; charset=utf-8", styleCSS))
	r.GET("/script.js", static("application/javascript; charset=utf-8", scriptJS))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func (s *Server) news(c *gin.Context) {
	query, ok := c.GetQuery("query")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})
		return
	}

	articles := s.Aggregator.Aggregate(c.Request.Context(), query)
	if articles == nil {
		articles = []news.Article{}
	}

	c.JSON(http.StatusOK, articles)
}

func static(contentType string, content []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, contentType, content)
	}
}
