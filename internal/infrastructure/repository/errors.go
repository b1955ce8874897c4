package repository

import (
	"errors"
	"fmt"

	"zenmindful/internal/domain"

	"gorm.io/gorm"
)

// storageErr classifies a driver failure. Missing rows are reported with
// notFound so callers never read an outage as "user does not exist".
func storageErr(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrIdentifierTaken
	default:
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
}
