package repositories

import (
	"errors"

	"gorm.io/gorm"

	"markethub_backend/internal/models"
)

var (
	ErrUnknownReferenceKind = errors.New("unknown reference kind")
	ErrReferenceNotFound    = errors.New("referenced entity not found")
)

// ResolveReference looks up the row a polymorphic (kind, id) pair points at.
// The store declares no FK for these pairs, so this lookup is the only
// integrity check; a dangling reference surfaces as ErrReferenceNotFound.
func ResolveReference(db *gorm.DB, ref models.Reference) (interface{}, error) {
	if !ref.Kind.Known() {
		return nil, ErrUnknownReferenceKind
	}

	var dest interface{}
	switch ref.Kind {
	case models.ReferenceKindGig:
		dest = &models.Gig{}
	case models.ReferenceKindJob:
		dest = &models.Job{}
	case models.ReferenceKindProject:
		dest = &models.Project{}
	case models.ReferenceKindApplication:
		dest = &models.Application{}
	case models.ReferenceKindConnection:
		dest = &models.Connection{}
	}

	if err := db.First(dest, "id = ?", ref.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReferenceNotFound
		}
		return nil, err
	}
	return dest, nil
}
