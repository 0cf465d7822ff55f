package repositories_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markethub_backend/internal/models"
	"markethub_backend/internal/repositories"
	"markethub_backend/internal/testutil"
)

const escrowID = "eeeeeeee-0000-0000-0000-000000000001"

func TestCreateRefundDefaultsAndDuplicateKey(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repositories.NewRefundRepository()

	refund := &models.Refund{
		EscrowID:       escrowID,
		Amount:         decimal.NewFromFloat(49.99),
		IdempotencyKey: "refund-key-1",
	}
	require.NoError(t, repo.CreateRefund(db, refund))
	assert.Equal(t, models.RefundStatusPending, refund.Status)

	err := repo.CreateRefund(db, &models.Refund{
		EscrowID:       escrowID,
		Amount:         decimal.NewFromInt(10),
		IdempotencyKey: "refund-key-1",
	})
	assert.ErrorIs(t, err, repositories.ErrDuplicateRefund)

	found, err := repo.FindRefundByIdempotencyKey(db, "refund-key-1")
	require.NoError(t, err)
	assert.Equal(t, refund.ID, found.ID)
	assert.True(t, found.Amount.Equal(decimal.NewFromFloat(49.99)))
}

func TestCreateRefundRejectsNonPositiveAmount(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repositories.NewRefundRepository()

	err := repo.CreateRefund(db, &models.Refund{
		EscrowID: escrowID, Amount: decimal.Zero, IdempotencyKey: "refund-key-zero",
	})
	assert.ErrorIs(t, err, repositories.ErrNonPositiveAmount)

	err = repo.CreateRefund(db, &models.Refund{
		EscrowID: escrowID, Amount: decimal.NewFromInt(-5), IdempotencyKey: "refund-key-neg",
	})
	assert.ErrorIs(t, err, repositories.ErrNonPositiveAmount)
}

func TestMarkProcessedStampsTimestamp(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repositories.NewRefundRepository()

	refund := &models.Refund{
		EscrowID: escrowID, Amount: decimal.NewFromInt(100), IdempotencyKey: "refund-key-2",
	}
	require.NoError(t, repo.CreateRefund(db, refund))
	require.NoError(t, repo.MarkProcessed(db, refund.ID))

	found, err := repo.FindRefundByID(db, refund.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RefundStatusProcessed, found.Status)
	assert.NotNil(t, found.ProcessedAt)

	// Terminal states are final.
	assert.ErrorIs(t, repo.MarkFailed(db, refund.ID, "late"), repositories.ErrRefundNotPending)
	assert.ErrorIs(t, repo.MarkProcessed(db, refund.ID), repositories.ErrRefundNotPending)
}

func TestMarkFailedStoresReason(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repositories.NewRefundRepository()

	refund := &models.Refund{
		EscrowID: escrowID, Amount: decimal.NewFromInt(25), IdempotencyKey: "refund-key-3",
	}
	require.NoError(t, repo.CreateRefund(db, refund))
	require.NoError(t, repo.MarkFailed(db, refund.ID, "gateway declined"))

	found, err := repo.FindRefundByID(db, refund.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RefundStatusFailed, found.Status)
	require.NotNil(t, found.FailureReason)
	assert.Equal(t, "gateway declined", *found.FailureReason)

	assert.ErrorIs(t, repo.MarkProcessed(db, "eeeeeeee-0000-0000-0000-0000000000ff"), repositories.ErrRefundNotFound)
}

func TestListRefundsByEscrow(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repositories.NewRefundRepository()

	for i, key := range []string{"k-1", "k-2"} {
		require.NoError(t, repo.CreateRefund(db, &models.Refund{
			EscrowID:       escrowID,
			Amount:         decimal.NewFromInt(int64(10 + i)),
			IdempotencyKey: key,
		}))
	}
	require.NoError(t, repo.CreateRefund(db, &models.Refund{
		EscrowID:       "eeeeeeee-0000-0000-0000-000000000002",
		Amount:         decimal.NewFromInt(5),
		IdempotencyKey: "k-3",
	}))

	refunds, err := repo.ListRefundsByEscrow(db, escrowID)
	require.NoError(t, err)
	assert.Len(t, refunds, 2)
}

func TestPayoutRequestLifecycle(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repositories.NewRefundRepository()

	payout := &models.PayoutRequest{
		UserID:      "eeeeeeee-0000-0000-0000-000000000003",
		Amount:      decimal.NewFromInt(300),
		Destination: "acct_9f2",
	}
	require.NoError(t, repo.CreatePayoutRequest(db, payout))
	assert.Equal(t, "pending", payout.Status)

	require.NoError(t, repo.UpdatePayoutStatus(db, payout.ID, "paid"))
	assert.ErrorIs(t, repo.UpdatePayoutStatus(db, "eeeeeeee-0000-0000-0000-0000000000fe", "paid"), repositories.ErrPayoutNotFound)

	err := repo.CreatePayoutRequest(db, &models.PayoutRequest{
		UserID: payout.UserID, Amount: decimal.Zero,
	})
	assert.ErrorIs(t, err, repositories.ErrNonPositiveAmount)
}
