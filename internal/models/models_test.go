package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markethub_backend/internal/models"
	"markethub_backend/internal/testutil"
)

func TestCompositeKeyJoinRejectsDuplicatePair(t *testing.T) {
	db := testutil.OpenTestDB(t)

	group := models.Group{OwnerID: "11111111-1111-1111-1111-111111111111", Name: "designers"}
	require.NoError(t, db.Create(&group).Error)
	tag := models.Tag{Name: "remote"}
	require.NoError(t, db.Create(&tag).Error)

	require.NoError(t, db.Create(&models.GroupTag{GroupID: group.ID, TagID: tag.ID}).Error)

	// The FK pair is the sole identity; a second identical link must fail.
	err := db.Create(&models.GroupTag{GroupID: group.ID, TagID: tag.ID}).Error
	require.Error(t, err)

	// Same left id with a different right id is a new link.
	other := models.Tag{Name: "senior"}
	require.NoError(t, db.Create(&other).Error)
	require.NoError(t, db.Create(&models.GroupTag{GroupID: group.ID, TagID: other.ID}).Error)
}

func TestProfileSkillCompositeKey(t *testing.T) {
	db := testutil.OpenTestDB(t)

	profileID := "22222222-2222-2222-2222-222222222222"
	skill := models.Skill{Name: "golang"}
	require.NoError(t, db.Create(&skill).Error)

	require.NoError(t, db.Create(&models.ProfileSkill{ProfileID: profileID, SkillID: skill.ID, Level: 3}).Error)
	err := db.Create(&models.ProfileSkill{ProfileID: profileID, SkillID: skill.ID, Level: 5}).Error
	require.Error(t, err)
}

func TestSoftDeleteExcludedFromDefaultScope(t *testing.T) {
	db := testutil.OpenTestDB(t)

	gig := models.Gig{OwnerID: "33333333-3333-3333-3333-333333333333", Title: "logo design"}
	require.NoError(t, db.Create(&gig).Error)
	require.NoError(t, db.Delete(&gig).Error)

	var found models.Gig
	err := db.First(&found, "id = ?", gig.ID).Error
	assert.Error(t, err, "soft-deleted row must be hidden from default reads")

	err = db.Unscoped().First(&found, "id = ?", gig.ID).Error
	assert.NoError(t, err, "soft-deleted row must be reachable with the explicit override")
	assert.True(t, found.DeletedAt.Valid)
}

func TestTokenValidityPredicate(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	session := models.Session{ExpiresAt: future}
	assert.True(t, session.Valid(now))

	expired := models.Session{ExpiresAt: past}
	assert.False(t, expired.Valid(now))

	revoked := models.Session{ExpiresAt: future, RevokedAt: &past}
	assert.False(t, revoked.Valid(now))

	reset := models.PasswordReset{ExpiresAt: future}
	assert.True(t, reset.Valid(now))
	reset.ConsumedAt = &past
	assert.False(t, reset.Valid(now))

	ics := models.CalendarIcsToken{}
	assert.True(t, ics.Valid(now))
	ics.RevokedAt = &past
	assert.False(t, ics.Valid(now))
}

func TestReferenceKindKnown(t *testing.T) {
	assert.True(t, models.ReferenceKindGig.Known())
	assert.True(t, models.ReferenceKindConnection.Known())
	assert.False(t, models.ReferenceKind("escrow").Known())
	assert.False(t, models.ReferenceKind("").Known())
}
