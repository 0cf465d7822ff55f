package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"markethub_backend/internal/models"
)

var (
	ErrDisputeNotFound        = errors.New("dispute not found")
	ErrDisputeAlreadyResolved = errors.New("dispute is already resolved")
	ErrSelfDisputeNotAllowed  = errors.New("claimant and respondent must differ")
	ErrInvalidVisibility      = errors.New("visibility must be 'party' or 'internal'")
	ErrMessageNotFound        = errors.New("dispute message not found")
)

// DisputeRepository covers the dispute aggregate: the dispute row, its
// evidence and its messages.
type DisputeRepository interface {
	CreateDispute(db *gorm.DB, dispute *models.Dispute) error
	FindDisputeByID(db *gorm.DB, id string) (*models.Dispute, error)
	ListOpenDisputes(db *gorm.DB, limit, offset int) ([]models.Dispute, error)
	ListDisputesByParty(db *gorm.DB, userID string) ([]models.Dispute, error)

	// Resolve moves the dispute to its terminal status and stamps
	// resolved_at in the same write.
	Resolve(db *gorm.DB, id, resolution, resolvedBy string) (*models.Dispute, error)

	AddEvidence(db *gorm.DB, evidence *models.DisputeEvidence) error
	AddMessage(db *gorm.DB, message *models.DisputeMessage) error

	// FindMessages returns party-visible messages only when partyOnly is
	// set; otherwise every active message.
	FindMessages(db *gorm.DB, disputeID string, partyOnly bool) ([]models.DisputeMessage, error)

	DeleteMessage(db *gorm.DB, id string) error
	RestoreMessage(db *gorm.DB, id string) error
}

type disputeRepository struct{}

func NewDisputeRepository() DisputeRepository {
	return &disputeRepository{}
}

func (r *disputeRepository) CreateDispute(db *gorm.DB, dispute *models.Dispute) error {
	if dispute.ClaimantID == dispute.RespondentID {
		return ErrSelfDisputeNotAllowed
	}
	if !dispute.ReferenceType.Known() {
		return ErrUnknownReferenceKind
	}
	if dispute.Status == "" {
		dispute.Status = models.DisputeStatusOpen
	}
	return db.Create(dispute).Error
}

func (r *disputeRepository) FindDisputeByID(db *gorm.DB, id string) (*models.Dispute, error) {
	var dispute models.Dispute
	err := db.Preload("Evidence").Preload("Messages").
		First(&dispute, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDisputeNotFound
		}
		return nil, err
	}
	return &dispute, nil
}

func (r *disputeRepository) ListOpenDisputes(db *gorm.DB, limit, offset int) ([]models.Dispute, error) {
	var disputes []models.Dispute
	err := db.Where("status = ?", models.DisputeStatusOpen).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&disputes).Error
	return disputes, err
}

func (r *disputeRepository) ListDisputesByParty(db *gorm.DB, userID string) ([]models.Dispute, error) {
	var disputes []models.Dispute
	err := db.Where("claimant_id = ? OR respondent_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&disputes).Error
	return disputes, err
}

func (r *disputeRepository) Resolve(db *gorm.DB, id, resolution, resolvedBy string) (*models.Dispute, error) {
	var dispute models.Dispute
	if err := db.First(&dispute, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDisputeNotFound
		}
		return nil, err
	}

	if dispute.IsResolved() {
		return nil, ErrDisputeAlreadyResolved
	}

	now := time.Now()
	result := db.Model(&dispute).
		Where("status = ?", models.DisputeStatusOpen).
		Updates(map[string]interface{}{
			"status":      models.DisputeStatusResolved,
			"resolution":  resolution,
			"resolved_by": resolvedBy,
			"resolved_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	// Lost the race against a concurrent resolve.
	if result.RowsAffected == 0 {
		return nil, ErrDisputeAlreadyResolved
	}

	dispute.Status = models.DisputeStatusResolved
	dispute.Resolution = &resolution
	dispute.ResolvedBy = &resolvedBy
	dispute.ResolvedAt = &now
	return &dispute, nil
}

func (r *disputeRepository) AddEvidence(db *gorm.DB, evidence *models.DisputeEvidence) error {
	if err := r.ensureOpen(db, evidence.DisputeID); err != nil {
		return err
	}
	return db.Create(evidence).Error
}

func (r *disputeRepository) AddMessage(db *gorm.DB, message *models.DisputeMessage) error {
	switch message.Visibility {
	case "":
		message.Visibility = models.MessageVisibilityParty
	case models.MessageVisibilityParty, models.MessageVisibilityInternal:
	default:
		return ErrInvalidVisibility
	}

	var count int64
	if err := db.Model(&models.Dispute{}).Where("id = ?", message.DisputeID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrDisputeNotFound
	}

	return db.Create(message).Error
}

func (r *disputeRepository) FindMessages(db *gorm.DB, disputeID string, partyOnly bool) ([]models.DisputeMessage, error) {
	var messages []models.DisputeMessage
	query := db.Where("dispute_id = ?", disputeID).Order("created_at ASC")
	if partyOnly {
		query = query.Scopes(models.PartyVisible)
	}
	err := query.Find(&messages).Error
	return messages, err
}

func (r *disputeRepository) DeleteMessage(db *gorm.DB, id string) error {
	result := db.Delete(&models.DisputeMessage{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *disputeRepository) RestoreMessage(db *gorm.DB, id string) error {
	result := db.Unscoped().Model(&models.DisputeMessage{}).
		Where("id = ?", id).
		Update("deleted_at", nil)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// ensureOpen rejects writes against a resolved or missing dispute.
func (r *disputeRepository) ensureOpen(db *gorm.DB, disputeID string) error {
	var dispute models.Dispute
	if err := db.Select("id", "status").First(&dispute, "id = ?", disputeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDisputeNotFound
		}
		return err
	}
	if dispute.IsResolved() {
		return ErrDisputeAlreadyResolved
	}
	return nil
}
