package service

import "context"

type PhoneService interface {
	// RegisterCellphone stores the number, generates a fresh validation code
	// and sends it by SMS. Resending is always allowed except when the user
	// is already verified with the identical number+cc pair.
	RegisterCellphone(ctx context.Context, userID int, number, cc string) error
	VerifyCellphone(ctx context.Context, userID int, code string) error
}
