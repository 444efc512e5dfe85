package impl

import (
	"errors"

	"userbase/internal/domain"
	"userbase/internal/store"
)

var (
	ErrEmptyPassword = errors.New("empty password")
	ErrNilStore      = errors.New("store not configured")
)

func translateStoreErr(err error) error {
	if errors.Is(err, store.ErrRecordNotFound) {
		return domain.NotFound("User does not exist.")
	}
	return err
}
