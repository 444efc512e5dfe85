package impl

import (
	"errors"
	"strconv"
	"time"

	"userbase/internal/domain"
	"userbase/internal/service"

	"github.com/golang-jwt/jwt/v5"
)

// ExpirationWindow is a day+second offset pair. Days and seconds are
// configured independently so tests can force near-immediate expiry.
type ExpirationWindow struct {
	Days    int
	Seconds int
}

func (w ExpirationWindow) Duration() time.Duration {
	return time.Duration(w.Days)*24*time.Hour + time.Duration(w.Seconds)*time.Second
}

type TokenConfig struct {
	SigningKey []byte // HS256 secret, process-wide, immutable after startup
	Session    ExpirationWindow
	Password   ExpirationWindow
	Email      ExpirationWindow
}

type TokenServiceImpl struct {
	cfg TokenConfig
	now func() time.Time
}

var _ service.TokenService = (*TokenServiceImpl)(nil)

func NewTokenServiceHS256(cfg TokenConfig) *TokenServiceImpl {
	return &TokenServiceImpl{cfg: cfg, now: func() time.Time { return time.Now().UTC() }}
}

func (t *TokenServiceImpl) window(purpose service.TokenPurpose) ExpirationWindow {
	switch purpose {
	case service.PurposePassword:
		return t.cfg.Password
	case service.PurposeEmail:
		return t.cfg.Email
	default:
		return t.cfg.Session
	}
}

func (t *TokenServiceImpl) Encode(purpose service.TokenPurpose, userID int) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.window(purpose).Duration())),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.cfg.SigningKey)
}

func (t *TokenServiceImpl) Decode(purpose service.TokenPurpose, tokenStr string) (int, error) {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	_, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.cfg.SigningKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, domain.ErrTokenExpired
		}
		return 0, domain.ErrTokenInvalid
	}
	userID, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return 0, domain.ErrTokenInvalid
	}
	return userID, nil
}
