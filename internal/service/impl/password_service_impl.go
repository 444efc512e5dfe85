package impl

import (
	"userbase/internal/service"

	"golang.org/x/crypto/bcrypt"
)

type PasswordServiceImpl struct {
	cost int
}

var _ service.PasswordService = (*PasswordServiceImpl)(nil)

// NewPasswordServiceBcrypt builds a bcrypt hasher with a tunable work
// factor. Production uses a high cost; tests pass bcrypt.MinCost.
func NewPasswordServiceBcrypt(cost int) *PasswordServiceImpl {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordServiceImpl{cost: cost}
}

func (p *PasswordServiceImpl) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (p *PasswordServiceImpl) Compare(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
