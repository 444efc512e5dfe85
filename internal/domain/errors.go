package domain

// Kind classifies a domain failure; the HTTP boundary maps each kind to a
// status code without inspecting messages.
type Kind int

const (
	KindInvalidPayload Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindBusinessRule
	KindExternalAuth
	KindTokenExpired
	KindTokenInvalid
	KindInternal
)

// Error is a typed domain failure with a stable client-facing message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches errors of the same kind so callers can use errors.Is against
// the sentinel values below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func InvalidPayload(msg string) *Error { return &Error{Kind: KindInvalidPayload, Message: msg} }
func Unauthorized(msg string) *Error   { return &Error{Kind: KindUnauthorized, Message: msg} }
func NotFound(msg string) *Error       { return &Error{Kind: KindNotFound, Message: msg} }
func BusinessRule(msg string) *Error   { return &Error{Kind: KindBusinessRule, Message: msg} }
func ExternalAuth(msg string) *Error   { return &Error{Kind: KindExternalAuth, Message: msg} }

var (
	ErrInvalidPayload = InvalidPayload("Invalid payload.")
	ErrUnauthorized   = Unauthorized("Not authorized.")
	ErrForbidden      = &Error{Kind: KindForbidden, Message: "Forbidden."}
	ErrNotFound       = NotFound("Not Found.")
	ErrBusinessRule   = BusinessRule("Business rule constraint not satisfied.")
	ErrExternalAuth   = ExternalAuth("External authentication failed.")
	ErrServer         = &Error{Kind: KindInternal, Message: "Something went wrong!"}

	// Token codec failures. Distinct kinds so callers can tell an expired
	// token from a tampered one; both map to 401 at the HTTP boundary.
	ErrTokenExpired = &Error{Kind: KindTokenExpired, Message: "Signature expired. Please log in again."}
	ErrTokenInvalid = &Error{Kind: KindTokenInvalid, Message: "Invalid token. Please log in again."}
)
