package services

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a row does not exist or belongs to another user.
	ErrNotFound = errors.New("not found")
	// ErrWalletNotOwned is returned when a write references a wallet the caller has not linked.
	ErrWalletNotOwned = errors.New("wallet not found or not owned by you")
)

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
