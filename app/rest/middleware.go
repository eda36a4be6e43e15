package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Semior001/cryptonews/pkg/logx"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// requestID adds a fresh request id to the request context and the response headers.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		c.Request = c.Request.WithContext(logx.ContextWithRequestID(c.Request.Context(), id))
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// recoverer recovers from panics in handlers and responds with 500.
func recoverer(lg *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				lg.ErrorContext(c.Request.Context(), "panic recovered", slog.Any("panic", r))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
		}()

		c.Next()
	}
}

// accessLog logs every processed request.
func accessLog(lg *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)),
		}

		if lg.Enabled(c.Request.Context(), slog.LevelDebug) {
			args = append(args, slog.String("query", c.Request.URL.RawQuery))
		}

		lg.InfoContext(c.Request.Context(), "request processed", args...)
	}
}
