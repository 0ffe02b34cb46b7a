package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kikibeach/kiki-pos/internal/domain/entity"
	"github.com/kikibeach/kiki-pos/internal/domain/repository"
	"github.com/kikibeach/kiki-pos/internal/presentation/http/dto/response"
	"github.com/kikibeach/kiki-pos/pkg/logger"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long completed keys are replayed
	IdempotencyKeyTTL = 24 * time.Hour
	// IdempotencyPendingTTL bounds how long a reservation survives a crashed request
	IdempotencyPendingTTL = time.Minute
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo   repository.IdempotencyRepository
	Logger *logger.Logger
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a request repeats an
// Idempotency-Key within the same caller scope. The key is reserved before the
// handler runs, so a duplicate arriving mid-flight gets 409. Only successful
// responses are kept; any other outcome releases the key for a retry.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	log := config.Logger
	if log == nil {
		log = logger.Nop()
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		scope := clientKey(c)
		requestID := response.RequestID(c)

		existing, err := config.Repo.GetByKey(c.Request.Context(), key, scope)
		if err != nil {
			log.Warn("idempotency_lookup", requestID, "idempotency lookup failed", slog.String("error", err.Error()))
			c.Next()
			return
		}

		if existing != nil && !existing.IsExpired() {
			if existing.IsPending() {
				inProgress(c)
				return
			}
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		ikey := &entity.IdempotencyKey{
			Key:          key,
			Scope:        scope,
			Endpoint:     c.Request.Method + " " + c.FullPath(),
			ResponseCode: entity.IdempotencyPending,
			ExpiresAt:    time.Now().Add(IdempotencyPendingTTL),
		}
		reserved, err := config.Repo.Reserve(c.Request.Context(), ikey)
		if err != nil {
			log.Warn("idempotency_reserve", requestID, "failed to reserve idempotency key", slog.String("error", err.Error()))
			c.Next()
			return
		}
		if !reserved {
			inProgress(c)
			return
		}

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// the client may have gone away; the key must still be settled
		ctx := context.WithoutCancel(c.Request.Context())

		status := c.Writer.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			if err := config.Repo.Release(ctx, key, scope); err != nil {
				log.Warn("idempotency_release", requestID, "failed to release idempotency key", slog.String("error", err.Error()))
			}
			return
		}

		ikey.ResponseCode = status
		ikey.ResponseBody = blw.body.String()
		ikey.ExpiresAt = time.Now().Add(IdempotencyKeyTTL)
		if err := config.Repo.Complete(ctx, ikey); err != nil {
			log.Warn("idempotency_store", requestID, "failed to store idempotency key", slog.String("error", err.Error()))
		}
	}
}

func inProgress(c *gin.Context) {
	response.ErrorWithCode(c, http.StatusConflict, "A request with this Idempotency-Key is already in progress")
	c.Abort()
}
