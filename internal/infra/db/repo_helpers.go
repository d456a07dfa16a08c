package db

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/TheWildEye/Evidential/internal/domain/custody"
)

var errDBUnavailable = errors.New("db not configured")

// wrapStorage folds gorm errors into the domain taxonomy so no storage error
// reaches a caller opaquely.
func wrapStorage(err error, context string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, custody.ErrNotFound) || errors.Is(err, custody.ErrSealed) ||
		errors.Is(err, custody.ErrInvalidArgument) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", context, custody.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", context, errors.Join(custody.ErrStorage, err))
}

func stringPtrIfNotEmpty(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
