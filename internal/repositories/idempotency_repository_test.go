package repositories_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markethub_backend/internal/repositories"
	"markethub_backend/internal/testutil"
)

func TestIdempotencyBeginCompleteReplay(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repositories.NewIdempotencyRepository()

	record, state, err := repo.Begin(db, "POST", "/api/refunds", "key-1", "hash-a")
	require.NoError(t, err)
	require.Equal(t, repositories.BeginStarted, state)
	require.NotNil(t, record.LockedAt)
	assert.False(t, record.Completed())

	require.NoError(t, repo.Complete(db, record.ID, 201, []byte(`{"id":"r1"}`)))

	replayed, state, err := repo.Begin(db, "POST", "/api/refunds", "key-1", "hash-a")
	require.NoError(t, err)
	assert.Equal(t, repositories.BeginReplayed, state)
	assert.True(t, replayed.Completed())
	assert.Equal(t, 201, replayed.ResponseStatus)
	assert.Equal(t, []byte(`{"id":"r1"}`), replayed.ResponseBody)
	assert.Nil(t, replayed.LockedAt)
}

func TestIdempotencyKeyReuseWithDifferentHash(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repositories.NewIdempotencyRepository()

	record, _, err := repo.Begin(db, "POST", "/api/refunds", "key-1", "hash-a")
	require.NoError(t, err)
	require.NoError(t, repo.Complete(db, record.ID, 200, nil))

	_, _, err = repo.Begin(db, "POST", "/api/refunds", "key-1", "hash-b")
	assert.ErrorIs(t, err, repositories.ErrIdempotencyConflict)
}

func TestIdempotencyInFlightRejected(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repositories.NewIdempotencyRepository()

	_, _, err := repo.Begin(db, "POST", "/api/refunds", "key-1", "hash-a")
	require.NoError(t, err)

	// Same request again before the first stored its response.
	_, _, err = repo.Begin(db, "POST", "/api/refunds", "key-1", "hash-a")
	assert.ErrorIs(t, err, repositories.ErrIdempotencyInFlight)
}

func TestIdempotencyScopeIsMethodPathKey(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repositories.NewIdempotencyRepository()

	_, state, err := repo.Begin(db, "POST", "/api/refunds", "key-1", "hash-a")
	require.NoError(t, err)
	require.Equal(t, repositories.BeginStarted, state)

	// The same key under a different path or method is a fresh claim.
	_, state, err = repo.Begin(db, "POST", "/api/payouts", "key-1", "hash-a")
	require.NoError(t, err)
	assert.Equal(t, repositories.BeginStarted, state)

	_, state, err = repo.Begin(db, "PUT", "/api/refunds", "key-1", "hash-a")
	require.NoError(t, err)
	assert.Equal(t, repositories.BeginStarted, state)
}

func TestIdempotencyAbortFreesKey(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repositories.NewIdempotencyRepository()

	record, _, err := repo.Begin(db, "POST", "/api/refunds", "key-1", "hash-a")
	require.NoError(t, err)
	require.NoError(t, repo.Abort(db, record.ID))

	_, state, err := repo.Begin(db, "POST", "/api/refunds", "key-1", "hash-a")
	require.NoError(t, err)
	assert.Equal(t, repositories.BeginStarted, state)

	assert.ErrorIs(t, repo.Abort(db, record.ID), repositories.ErrIdempotencyNotFound)
}

func TestCleanCompletedBefore(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repositories.NewIdempotencyRepository()

	old, _, err := repo.Begin(db, "POST", "/api/refunds", "key-old", "hash-a")
	require.NoError(t, err)
	require.NoError(t, repo.Complete(db, old.ID, 200, nil))

	inflight, _, err := repo.Begin(db, "POST", "/api/refunds", "key-live", "hash-a")
	require.NoError(t, err)

	removed, err := repo.CleanCompletedBefore(db, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	// The in-flight claim survives the sweep.
	_, err = repo.FindByKey(db, "POST", "/api/refunds", "key-live")
	require.NoError(t, err)
	_ = inflight

	_, err = repo.FindByKey(db, "POST", "/api/refunds", "key-old")
	assert.ErrorIs(t, err, repositories.ErrIdempotencyNotFound)
}
