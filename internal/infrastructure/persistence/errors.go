package persistence

import (
	"errors"

	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps gorm errors onto domain errors.
// Domain errors pass through unchanged so readiness failures keep their code.
func translateError(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	var domainErr *shared.DomainError
	switch {
	case errors.As(err, &domainErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NewNotFoundError(notFoundMsg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	default:
		return shared.NewStoreError(err)
	}
}
