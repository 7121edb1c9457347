package service

import (
	"errors"
	"fmt"

	"github.com/statusquo/feed-service/internal/core/domain"
)

// storeFailure classifies a repository error. Domain sentinels keep their
// identity; any other error is an infrastructure failure and gains the
// retriable ErrStoreUnavailable identity.
func storeFailure(op string, err error) error {
	if errors.Is(err, domain.ErrUserNotFound) ||
		errors.Is(err, domain.ErrPostNotFound) ||
		errors.Is(err, domain.ErrStoreUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
}
