package domain

import "time"

// Role is a bitmask of the capabilities a user holds. A user may carry
// several roles at once; checks use HasAny against the required set.
type Role int

const (
	RoleUser Role = 1 << iota
	RoleUserAdmin
	RoleBackendAdmin
)

// HasAny reports whether r holds at least one of the given roles.
func (r Role) HasAny(roles Role) bool { return r&roles != 0 }

type User struct {
	ID         int     `gorm:"primaryKey;autoIncrement" db:"id" json:"id"`
	GivenName  *string `gorm:"type:varchar(128)" db:"given_name" json:"givenName,omitempty"`
	FamilyName *string `gorm:"type:varchar(128)" db:"family_name" json:"familyName,omitempty"`
	Email      string  `gorm:"type:varchar(128);uniqueIndex:ux_users_email;not null" db:"email" json:"email"`
	Username   *string `gorm:"type:varchar(128);uniqueIndex:ux_users_username" db:"username" json:"username,omitempty"`
	Active     bool    `gorm:"not null;default:true" db:"active" json:"active"`
	Roles      Role    `gorm:"not null;default:1" db:"roles" json:"-"`

	// PasswordHash is nil for accounts created through a federated login
	// that never set a standalone password.
	PasswordHash *string `gorm:"type:varchar(255)" db:"password_hash" json:"-"`

	// TokenHash holds the bcrypt hash of the outstanding password-reset
	// token; EmailTokenHash the same for the email-verification token.
	// Issuing a new token overwrites the hash, consuming one clears it, so
	// at most one copy of each is ever redeemable.
	TokenHash      *string `gorm:"type:varchar(255)" db:"token_hash" json:"-"`
	EmailTokenHash *string `gorm:"type:varchar(255)" db:"email_token_hash" json:"-"`

	EmailValidationDate *time.Time `db:"email_validation_date" json:"emailValidationDate,omitempty"`

	GoogleID          *string `gorm:"type:varchar(64);uniqueIndex:ux_users_google_id" db:"google_id" json:"-"`
	GoogleAccessToken *string `gorm:"type:text" db:"google_access_token" json:"-"`
	FacebookID        *string `gorm:"type:varchar(64);uniqueIndex:ux_users_fb_id" db:"fb_id" json:"-"`
	FacebookToken     *string `gorm:"type:text" db:"fb_access_token" json:"-"`

	CellphoneNumber             *string    `gorm:"type:varchar(128)" db:"cellphone_number" json:"cellphoneNumber,omitempty"`
	CellphoneCC                 *string    `gorm:"type:varchar(16)" db:"cellphone_cc" json:"cellphoneCc,omitempty"`
	CellphoneValidationCode     *string    `gorm:"type:varchar(4)" db:"cellphone_validation_code" json:"-"`
	CellphoneValidationCodeExp  *time.Time `db:"cellphone_validation_code_expiration" json:"-"`
	CellphoneValidationDate     *time.Time `db:"cellphone_validation_date" json:"cellphoneValidationDate,omitempty"`

	CreatedAt time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// CellphoneVerified reports whether the user completed phone validation.
// Verified and pending-code are mutually exclusive states.
func (u *User) CellphoneVerified() bool {
	return u.CellphoneValidationDate != nil && u.CellphoneValidationCode == nil
}
