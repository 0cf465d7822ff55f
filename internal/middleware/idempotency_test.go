package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"markethub_backend/internal/middleware"
	"markethub_backend/internal/repositories"
	"markethub_backend/internal/testutil"
)

func newTestRouter(t *testing.T, db *gorm.DB, handler gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Idempotency(repositories.NewIdempotencyRepository(), db))
	router.POST("/api/things", handler)
	return router
}

func doPost(router *gin.Engine, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/things", strings.NewReader(body))
	if key != "" {
		req.Header.Set(middleware.IdempotencyHeader, key)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestIdempotencyReplayDoesNotReexecute(t *testing.T) {
	db := testutil.OpenTestDB(t)

	var calls int
	router := newTestRouter(t, db, func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"seq": calls})
	})

	first := doPost(router, "key-1", `{"name":"a"}`)
	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, 1, calls)

	second := doPost(router, "key-1", `{"name":"a"}`)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls, "replay must not re-run the handler")
}

func TestIdempotencyKeyReuseConflicts(t *testing.T) {
	db := testutil.OpenTestDB(t)

	router := newTestRouter(t, db, func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	require.Equal(t, http.StatusCreated, doPost(router, "key-1", `{"name":"a"}`).Code)

	// Same key, different body.
	conflict := doPost(router, "key-1", `{"name":"b"}`)
	assert.Equal(t, http.StatusConflict, conflict.Code)
}

func TestIdempotencyMissingHeaderPassesThrough(t *testing.T) {
	db := testutil.OpenTestDB(t)

	var calls int
	router := newTestRouter(t, db, func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"seq": calls})
	})

	doPost(router, "", `{"name":"a"}`)
	doPost(router, "", `{"name":"a"}`)
	assert.Equal(t, 2, calls, "requests without a key are never deduplicated")
}

func TestIdempotencyServerErrorFreesKey(t *testing.T) {
	db := testutil.OpenTestDB(t)

	var calls int
	router := newTestRouter(t, db, func(c *gin.Context) {
		calls++
		if calls == 1 {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "transient"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"seq": calls})
	})

	failed := doPost(router, "key-1", `{"name":"a"}`)
	assert.Equal(t, http.StatusInternalServerError, failed.Code)

	// The failed attempt released the key, so the retry executes.
	retry := doPost(router, "key-1", `{"name":"a"}`)
	assert.Equal(t, http.StatusCreated, retry.Code)
	assert.Equal(t, 2, calls)
}

func TestIdempotencyGetRequestsBypass(t *testing.T) {
	db := testutil.OpenTestDB(t)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Idempotency(repositories.NewIdempotencyRepository(), db))

	var calls int
	router.GET("/api/things", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"seq": calls})
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/things", nil)
		req.Header.Set(middleware.IdempotencyHeader, "key-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 2, calls, "safe methods are never deduplicated")
}

func TestIdempotencyStoredFailureIsReplayed(t *testing.T) {
	db := testutil.OpenTestDB(t)

	var calls int
	router := newTestRouter(t, db, func(c *gin.Context) {
		calls++
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "bad amount"})
	})

	// Client errors are stored like successes: the outcome is final.
	first := doPost(router, "key-1", `{"amount":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, first.Code)

	second := doPost(router, "key-1", `{"amount":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, second.Code)
	assert.Equal(t, 1, calls)
}
