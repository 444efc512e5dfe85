package dto

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// DeviceInfo carries the opportunistic X-Device-Id / X-Device-Type header
// pair supplied on register, login and logout.
type DeviceInfo struct {
	DeviceID   string
	DeviceType string
}

type AuthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	AuthToken string `json:"auth_token,omitempty"`
	Email     string `json:"email,omitempty"`
	Username  string `json:"username,omitempty"`

	// Created distinguishes the 201 link-or-create path of federated logins.
	Created bool `json:"-"`
}

type GoogleLoginRequest struct {
	ClientID   string `json:"client_id"`
	Credential string `json:"credential"`
}

type FacebookLoginRequest struct {
	AccessToken string `json:"fb_access_token"`
}

type StatusResponse struct {
	ID                      int     `json:"id"`
	Email                   string  `json:"email"`
	Username                *string `json:"username"`
	GivenName               *string `json:"given_name"`
	FamilyName              *string `json:"family_name"`
	Active                  bool    `json:"active"`
	EmailValidationDate     *string `json:"email_validation_date"`
	CellphoneValidationDate *string `json:"cellphone_validation_date"`
	CreatedAt               string  `json:"created_at"`
}
