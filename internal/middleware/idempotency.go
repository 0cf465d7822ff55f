package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"markethub_backend/internal/logger"
	"markethub_backend/internal/repositories"
	"markethub_backend/pkg/apperrors"
)

// IdempotencyHeader is the caller-supplied key scoping a mutating request.
const IdempotencyHeader = "Idempotency-Key"

// bodyCapture tees the response body so it can be stored for replay.
type bodyCapture struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCapture) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency deduplicates mutating requests carrying an Idempotency-Key
// header. A replay returns the stored response verbatim without re-executing
// the handler; the same key with a different body hash is a 409 conflict, as
// is a duplicate arriving while the first request is still in flight.
func Idempotency(repo repositories.IdempotencyRepository, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			apperrors.HandleError(c, apperrors.InternalError(err))
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		sum := sha256.Sum256(body)
		requestHash := hex.EncodeToString(sum[:])

		record, state, err := repo.Begin(db, c.Request.Method, c.FullPath(), key, requestHash)
		if err != nil {
			switch {
			case apperrors.Is(err, repositories.ErrIdempotencyConflict):
				apperrors.HandleError(c, apperrors.ErrIdempotencyConflict(err))
			case apperrors.Is(err, repositories.ErrIdempotencyInFlight):
				apperrors.HandleError(c, apperrors.ErrIdempotencyInFlight(err))
			default:
				apperrors.HandleError(c, apperrors.InternalError(err))
			}
			c.Abort()
			return
		}

		if state == repositories.BeginReplayed {
			c.Data(record.ResponseStatus, "application/json", record.ResponseBody)
			c.Abort()
			return
		}

		capture := &bodyCapture{ResponseWriter: c.Writer}
		c.Writer = capture

		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			// Server-side failure: free the key so the client can retry.
			if err := repo.Abort(db, record.ID); err != nil {
				logger.WithError(err).Warn("failed to release idempotency key")
			}
			return
		}

		if err := repo.Complete(db, record.ID, status, capture.buf.Bytes()); err != nil {
			logger.WithError(err).Warn("failed to store idempotent response")
		}
	}
}
