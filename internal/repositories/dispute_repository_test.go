package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"markethub_backend/internal/models"
	"markethub_backend/internal/repositories"
	"markethub_backend/internal/testutil"
)

const (
	claimantID   = "aaaaaaaa-0000-0000-0000-000000000001"
	respondentID = "aaaaaaaa-0000-0000-0000-000000000002"
	staffID      = "aaaaaaaa-0000-0000-0000-000000000099"
)

func seedDispute(t *testing.T, db *gorm.DB, repo repositories.DisputeRepository) *models.Dispute {
	t.Helper()
	project := models.Project{ClientID: claimantID, Title: "site rebuild"}
	require.NoError(t, db.Create(&project).Error)

	dispute := &models.Dispute{
		ClaimantID:    claimantID,
		RespondentID:  respondentID,
		ReferenceType: models.ReferenceKindProject,
		ReferenceID:   project.ID,
		Reason:        "deliverable rejected twice",
	}
	require.NoError(t, repo.CreateDispute(db, dispute))
	return dispute
}

func TestDisputeLifecycle(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repositories.NewDisputeRepository()

	dispute := seedDispute(t, db, repo)
	assert.Equal(t, models.DisputeStatusOpen, dispute.Status)

	require.NoError(t, repo.AddMessage(db, &models.DisputeMessage{
		DisputeID: dispute.ID,
		SenderID:  claimantID,
		Body:      "the final files were never delivered",
	}))
	require.NoError(t, repo.AddMessage(db, &models.DisputeMessage{
		DisputeID:  dispute.ID,
		SenderID:   staffID,
		Body:       "claimant has two prior strikes, verify before ruling",
		Visibility: models.MessageVisibilityInternal,
	}))

	// A party sees only its own channel; staff sees everything.
	partyView, err := repo.FindMessages(db, dispute.ID, true)
	require.NoError(t, err)
	require.Len(t, partyView, 1)
	assert.Equal(t, models.MessageVisibilityParty, partyView[0].Visibility)

	staffView, err := repo.FindMessages(db, dispute.ID, false)
	require.NoError(t, err)
	assert.Len(t, staffView, 2)

	resolved, err := repo.Resolve(db, dispute.ID, "refund issued in full", staffID)
	require.NoError(t, err)
	assert.Equal(t, models.DisputeStatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)
	require.NotNil(t, resolved.Resolution)
	assert.Equal(t, "refund issued in full", *resolved.Resolution)

	// The terminal state is reached exactly once.
	_, err = repo.Resolve(db, dispute.ID, "second ruling", staffID)
	assert.ErrorIs(t, err, repositories.ErrDisputeAlreadyResolved)

	// A resolved dispute accepts no further evidence.
	err = repo.AddEvidence(db, &models.DisputeEvidence{
		DisputeID:   dispute.ID,
		SubmittedBy: claimantID,
		Title:       "late screenshot",
	})
	assert.ErrorIs(t, err, repositories.ErrDisputeAlreadyResolved)
}

func TestCreateDisputeRejectsSelfAndUnknownKind(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repositories.NewDisputeRepository()

	err := repo.CreateDispute(db, &models.Dispute{
		ClaimantID:    claimantID,
		RespondentID:  claimantID,
		ReferenceType: models.ReferenceKindGig,
		ReferenceID:   "aaaaaaaa-0000-0000-0000-000000000003",
		Reason:        "x",
	})
	assert.ErrorIs(t, err, repositories.ErrSelfDisputeNotAllowed)

	err = repo.CreateDispute(db, &models.Dispute{
		ClaimantID:    claimantID,
		RespondentID:  respondentID,
		ReferenceType: models.ReferenceKind("invoice"),
		ReferenceID:   "aaaaaaaa-0000-0000-0000-000000000003",
		Reason:        "x",
	})
	assert.ErrorIs(t, err, repositories.ErrUnknownReferenceKind)
}

func TestAddMessageValidation(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repositories.NewDisputeRepository()
	dispute := seedDispute(t, db, repo)

	err := repo.AddMessage(db, &models.DisputeMessage{
		DisputeID:  dispute.ID,
		SenderID:   claimantID,
		Body:       "hello",
		Visibility: models.MessageVisibility("public"),
	})
	assert.ErrorIs(t, err, repositories.ErrInvalidVisibility)

	err = repo.AddMessage(db, &models.DisputeMessage{
		DisputeID: "aaaaaaaa-0000-0000-0000-0000000000ff",
		SenderID:  claimantID,
		Body:      "hello",
	})
	assert.ErrorIs(t, err, repositories.ErrDisputeNotFound)

	// Empty visibility is filled in, not rejected.
	msg := &models.DisputeMessage{DisputeID: dispute.ID, SenderID: claimantID, Body: "hello"}
	require.NoError(t, repo.AddMessage(db, msg))
	assert.Equal(t, models.MessageVisibilityParty, msg.Visibility)
}

func TestMessageDeleteAndRestore(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repositories.NewDisputeRepository()
	dispute := seedDispute(t, db, repo)

	msg := &models.DisputeMessage{DisputeID: dispute.ID, SenderID: respondentID, Body: "retracted"}
	require.NoError(t, repo.AddMessage(db, msg))

	require.NoError(t, repo.DeleteMessage(db, msg.ID))
	visible, err := repo.FindMessages(db, dispute.ID, false)
	require.NoError(t, err)
	assert.Empty(t, visible)

	require.NoError(t, repo.RestoreMessage(db, msg.ID))
	visible, err = repo.FindMessages(db, dispute.ID, false)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	assert.ErrorIs(t, repo.DeleteMessage(db, "aaaaaaaa-0000-0000-0000-0000000000fe"), repositories.ErrMessageNotFound)
}

func TestListDisputes(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repositories.NewDisputeRepository()
	dispute := seedDispute(t, db, repo)

	open, err := repo.ListOpenDisputes(db, 10, 0)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, dispute.ID, open[0].ID)

	byParty, err := repo.ListDisputesByParty(db, respondentID)
	require.NoError(t, err)
	assert.Len(t, byParty, 1)

	byStranger, err := repo.ListDisputesByParty(db, staffID)
	require.NoError(t, err)
	assert.Empty(t, byStranger)

	_, err = repo.Resolve(db, dispute.ID, "dismissed", staffID)
	require.NoError(t, err)

	open, err = repo.ListOpenDisputes(db, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestResolveUnknownDispute(t *testing.T) {
	db := testutil.OpenTestDB(t)
	repo := repositories.NewDisputeRepository()

	_, err := repo.Resolve(db, "aaaaaaaa-0000-0000-0000-0000000000fd", "n/a", staffID)
	assert.ErrorIs(t, err, repositories.ErrDisputeNotFound)
}
