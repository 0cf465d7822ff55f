package validator

import (
	"github.com/go-playground/validator/v10"

	"markethub_backend/internal/models"
)

// Domain rules shared by everything that validates before persistence.

func registerCustomRules(v *validator.Validate) {
	// refkind: value is a resolvable polymorphic reference kind.
	_ = v.RegisterValidation("refkind", func(fl validator.FieldLevel) bool {
		return models.ReferenceKind(fl.Field().String()).Known()
	})

	// visibility: dispute message visibility flag.
	_ = v.RegisterValidation("visibility", func(fl validator.FieldLevel) bool {
		switch models.MessageVisibility(fl.Field().String()) {
		case models.MessageVisibilityParty, models.MessageVisibilityInternal:
			return true
		}
		return false
	})
}
