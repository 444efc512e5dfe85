package service

// TokenPurpose selects the expiration window a token is encoded with. The
// purpose is implicit in which flow consumes the token; password and email
// tokens are additionally gated by a stored hash.
type TokenPurpose int

const (
	PurposeSession TokenPurpose = iota
	PurposePassword
	PurposeEmail
)

type TokenService interface {
	Encode(purpose TokenPurpose, userID int) (string, error)
	// Decode verifies signature and expiry, returning the subject user id.
	// Fails with domain.ErrTokenExpired or domain.ErrTokenInvalid.
	Decode(purpose TokenPurpose, token string) (int, error)
}
