package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"markethub_backend/internal/models"
	"markethub_backend/pkg/apperrors"
)

var (
	ErrConnectionNotFound   = errors.New("connection not found")
	ErrConnectionExists     = errors.New("connection between these users already exists")
	ErrSelfConnection       = errors.New("cannot connect to yourself")
	ErrConnectionNotPending = errors.New("connection is not pending")
)

type ConnectionRepository interface {
	// Request inserts a pending connection. The connections_unique_pair
	// index rejects a duplicate active pair atomically.
	Request(db *gorm.DB, conn *models.Connection) error
	FindByID(db *gorm.DB, id string) (*models.Connection, error)
	FindPair(db *gorm.DB, requesterID, addresseeID string) (*models.Connection, error)

	Accept(db *gorm.DB, id string) error
	Decline(db *gorm.DB, id string) error
	Block(db *gorm.DB, id string) error

	// Remove soft-deletes, freeing the pair for a future request.
	Remove(db *gorm.DB, id string) error

	ListForUser(db *gorm.DB, userID string, status models.ConnectionStatus) ([]models.Connection, error)
}

type connectionRepository struct{}

func NewConnectionRepository() ConnectionRepository {
	return &connectionRepository{}
}

func (r *connectionRepository) Request(db *gorm.DB, conn *models.Connection) error {
	if conn.RequesterID == conn.AddresseeID {
		return ErrSelfConnection
	}
	if conn.Status == "" {
		conn.Status = models.ConnectionStatusPending
	}

	// The unique pair index treats NULL deleted_at values as distinct, so an
	// active duplicate must also be rejected here.
	var count int64
	err := db.Model(&models.Connection{}).
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
			conn.RequesterID, conn.AddresseeID, conn.AddresseeID, conn.RequesterID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrConnectionExists
	}

	if err := db.Create(conn).Error; err != nil {
		if apperrors.IsUniqueViolation(err) {
			return ErrConnectionExists
		}
		return err
	}
	return nil
}

func (r *connectionRepository) FindByID(db *gorm.DB, id string) (*models.Connection, error) {
	var conn models.Connection
	if err := db.First(&conn, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConnectionNotFound
		}
		return nil, err
	}
	return &conn, nil
}

func (r *connectionRepository) FindPair(db *gorm.DB, requesterID, addresseeID string) (*models.Connection, error) {
	var conn models.Connection
	err := db.Where("requester_id = ? AND addressee_id = ?", requesterID, addresseeID).
		First(&conn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConnectionNotFound
		}
		return nil, err
	}
	return &conn, nil
}

func (r *connectionRepository) Accept(db *gorm.DB, id string) error {
	return r.respond(db, id, models.ConnectionStatusAccepted)
}

func (r *connectionRepository) Decline(db *gorm.DB, id string) error {
	return r.respond(db, id, models.ConnectionStatusDeclined)
}

// Block is allowed from any non-deleted state.
func (r *connectionRepository) Block(db *gorm.DB, id string) error {
	result := db.Model(&models.Connection{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.ConnectionStatusBlocked,
			"responded_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConnectionNotFound
	}
	return nil
}

func (r *connectionRepository) Remove(db *gorm.DB, id string) error {
	result := db.Delete(&models.Connection{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConnectionNotFound
	}
	return nil
}

func (r *connectionRepository) ListForUser(db *gorm.DB, userID string, status models.ConnectionStatus) ([]models.Connection, error) {
	var conns []models.Connection
	query := db.Where("requester_id = ? OR addressee_id = ?", userID, userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").Find(&conns).Error
	return conns, err
}

func (r *connectionRepository) respond(db *gorm.DB, id string, status models.ConnectionStatus) error {
	result := db.Model(&models.Connection{}).
		Where("id = ? AND status = ?", id, models.ConnectionStatusPending).
		Updates(map[string]interface{}{
			"status":       status,
			"responded_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&models.Connection{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrConnectionNotFound
		}
		return ErrConnectionNotPending
	}
	return nil
}
