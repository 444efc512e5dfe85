package impl

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"userbase/internal/domain"
	"userbase/internal/service"
	"userbase/internal/store"
)

var _ service.PhoneService = (*PhoneServiceImpl)(nil)

type PhoneServiceImpl struct {
	Store      dataStore
	sms        service.SMSSender
	codeExpiry time.Duration
	now        func() time.Time
	randInt    func(max int64) (int64, error)
}

func NewPhoneServiceImpl(st *store.Store, sms service.SMSSender, codeExpirySeconds int) *PhoneServiceImpl {
	return &PhoneServiceImpl{
		Store:      newStoreAdapter(st),
		sms:        sms,
		codeExpiry: time.Duration(codeExpirySeconds) * time.Second,
		now:        func() time.Time { return time.Now().UTC() },
		randInt: func(max int64) (int64, error) {
			n, err := rand.Int(rand.Reader, big.NewInt(max))
			if err != nil {
				return 0, err
			}
			return n.Int64(), nil
		},
	}
}

// GenerateValidationCode returns a uniform 4-digit code in [1000,9999] and
// its expiration boundary.
func (p *PhoneServiceImpl) GenerateValidationCode() (string, time.Time, error) {
	n, err := p.randInt(9000)
	if err != nil {
		return "", time.Time{}, err
	}
	return fmt.Sprintf("%04d", 1000+n), p.now().Add(p.codeExpiry), nil
}

func (p *PhoneServiceImpl) RegisterCellphone(ctx context.Context, userID int, number, cc string) error {
	if number == "" || cc == "" {
		return domain.ErrInvalidPayload
	}

	var smsTo, smsBody string
	err := p.Store.WithTx(ctx, func(tx storeTx) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return translateStoreErr(err)
		}
		if user.CellphoneValidationDate != nil &&
			user.CellphoneNumber != nil && *user.CellphoneNumber == number &&
			user.CellphoneCC != nil && *user.CellphoneCC == cc {
			return domain.BusinessRule("Registered. You have already registered this cellphone number.")
		}

		code, expiration, err := p.GenerateValidationCode()
		if err != nil {
			return err
		}
		user.CellphoneNumber = &number
		user.CellphoneCC = &cc
		user.CellphoneValidationCode = &code
		user.CellphoneValidationCodeExp = &expiration
		user.CellphoneValidationDate = nil
		user.UpdatedAt = p.now()
		if err := tx.Users().Save(ctx, user); err != nil {
			return err
		}
		smsTo = cc + number
		smsBody = "Your verification code is " + code
		return nil
	})
	if err != nil {
		return err
	}

	sms := p.sms
	dispatchAsync("sms.validation_code", func(ctx context.Context) error {
		return sms.Send(ctx, smsTo, smsBody)
	})
	return nil
}

func (p *PhoneServiceImpl) VerifyCellphone(ctx context.Context, userID int, code string) error {
	return p.Store.WithTx(ctx, func(tx storeTx) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return translateStoreErr(err)
		}
		if user.CellphoneValidationCode == nil || *user.CellphoneValidationCode != code {
			return domain.BusinessRule("Invalid validation code. Please try again.")
		}
		// An expired code stays stored so the user can retry after a resend.
		if user.CellphoneValidationCodeExp == nil || user.CellphoneValidationCodeExp.Before(p.now()) {
			return domain.BusinessRule("Validation expired. Please try again.")
		}

		now := p.now()
		user.CellphoneValidationCode = nil
		user.CellphoneValidationCodeExp = nil
		user.CellphoneValidationDate = &now
		user.UpdatedAt = now
		return tx.Users().Save(ctx, user)
	})
}
