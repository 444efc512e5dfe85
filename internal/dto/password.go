package dto

type PasswordRecoveryRequest struct {
	Email string `json:"email"`
}

type PasswordResetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type PasswordChangeRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type EmailVerificationRequest struct {
	Email string `json:"email"`
}
