package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"markethub_backend/internal/models"
	"markethub_backend/pkg/apperrors"
)

var (
	ErrRefundNotFound    = errors.New("refund not found")
	ErrDuplicateRefund   = errors.New("refund with this idempotency key already exists")
	ErrRefundNotPending  = errors.New("refund is not pending")
	ErrPayoutNotFound    = errors.New("payout request not found")
	ErrNonPositiveAmount = errors.New("amount must be positive")
)

type RefundRepository interface {
	// CreateRefund inserts a pending refund. A duplicate idempotency key is
	// rejected atomically by the unique index.
	CreateRefund(db *gorm.DB, refund *models.Refund) error
	FindRefundByID(db *gorm.DB, id string) (*models.Refund, error)
	FindRefundByIdempotencyKey(db *gorm.DB, key string) (*models.Refund, error)
	ListRefundsByEscrow(db *gorm.DB, escrowID string) ([]models.Refund, error)

	// MarkProcessed / MarkFailed move a pending refund to its terminal
	// status and stamp processed_at.
	MarkProcessed(db *gorm.DB, id string) error
	MarkFailed(db *gorm.DB, id, reason string) error

	CreateRefundRequest(db *gorm.DB, request *models.RefundRequest) error
	CreatePayoutRequest(db *gorm.DB, request *models.PayoutRequest) error
	UpdatePayoutStatus(db *gorm.DB, id, status string) error
}

type refundRepository struct{}

func NewRefundRepository() RefundRepository {
	return &refundRepository{}
}

func (r *refundRepository) CreateRefund(db *gorm.DB, refund *models.Refund) error {
	if !refund.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if refund.Status == "" {
		refund.Status = models.RefundStatusPending
	}

	if err := db.Create(refund).Error; err != nil {
		if apperrors.IsUniqueViolation(err) {
			return ErrDuplicateRefund
		}
		return err
	}
	return nil
}

func (r *refundRepository) FindRefundByID(db *gorm.DB, id string) (*models.Refund, error) {
	var refund models.Refund
	if err := db.First(&refund, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefundNotFound
		}
		return nil, err
	}
	return &refund, nil
}

func (r *refundRepository) FindRefundByIdempotencyKey(db *gorm.DB, key string) (*models.Refund, error) {
	var refund models.Refund
	if err := db.Where("idempotency_key = ?", key).First(&refund).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefundNotFound
		}
		return nil, err
	}
	return &refund, nil
}

func (r *refundRepository) ListRefundsByEscrow(db *gorm.DB, escrowID string) ([]models.Refund, error) {
	var refunds []models.Refund
	err := db.Where("escrow_id = ?", escrowID).
		Order("created_at DESC").
		Find(&refunds).Error
	return refunds, err
}

func (r *refundRepository) MarkProcessed(db *gorm.DB, id string) error {
	return r.finalize(db, id, models.RefundStatusProcessed, nil)
}

func (r *refundRepository) MarkFailed(db *gorm.DB, id, reason string) error {
	return r.finalize(db, id, models.RefundStatusFailed, &reason)
}

// finalize guards the pending → terminal transition with a conditional
// update so two concurrent finalizers cannot both win.
func (r *refundRepository) finalize(db *gorm.DB, id string, status models.RefundStatus, reason *string) error {
	updates := map[string]interface{}{
		"status":       status,
		"processed_at": time.Now(),
	}
	if reason != nil {
		updates["failure_reason"] = *reason
	}

	result := db.Model(&models.Refund{}).
		Where("id = ? AND status = ?", id, models.RefundStatusPending).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&models.Refund{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrRefundNotFound
		}
		return ErrRefundNotPending
	}
	return nil
}

func (r *refundRepository) CreateRefundRequest(db *gorm.DB, request *models.RefundRequest) error {
	if !request.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	return db.Create(request).Error
}

func (r *refundRepository) CreatePayoutRequest(db *gorm.DB, request *models.PayoutRequest) error {
	if !request.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	return db.Create(request).Error
}

func (r *refundRepository) UpdatePayoutStatus(db *gorm.DB, id, status string) error {
	result := db.Model(&models.PayoutRequest{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPayoutNotFound
	}
	return nil
}
