package impl

import (
	"fmt"

	"userbase/internal/domain"
)

// Plain string templates keep the mail bodies next to the flows that send
// them. The token links point at the web frontend, which forwards the token
// to the corresponding API endpoint.

func welcomeSubject(user *domain.User) string {
	return "Welcome!"
}

func welcomeText(user *domain.User) string {
	name := user.Email
	if user.GivenName != nil && *user.GivenName != "" {
		name = *user.GivenName
	}
	return fmt.Sprintf("Hi %s,\n\nYour account has been created. Please verify your email address to unlock all features.\n", name)
}

func welcomeHTML(user *domain.User) string {
	name := user.Email
	if user.GivenName != nil && *user.GivenName != "" {
		name = *user.GivenName
	}
	return fmt.Sprintf("<p>Hi %s,</p><p>Your account has been created. Please verify your email address to unlock all features.</p>", name)
}

func emailVerificationSubject() string {
	return "Verify your email address"
}

func emailVerificationText(token string) string {
	return fmt.Sprintf("Use the following token to verify your email address:\n\n%s\n\nIf you did not request this, you can ignore this message.\n", token)
}

func emailVerificationHTML(token string) string {
	return fmt.Sprintf("<p>Use the following token to verify your email address:</p><pre>%s</pre><p>If you did not request this, you can ignore this message.</p>", token)
}

func passwordRecoverySubject() string {
	return "Password recovery"
}

func passwordRecoveryText(token string) string {
	return fmt.Sprintf("Use the following token to reset your password:\n\n%s\n\nIf you did not request a password reset, you can ignore this message.\n", token)
}

func passwordRecoveryHTML(token string) string {
	return fmt.Sprintf("<p>Use the following token to reset your password:</p><pre>%s</pre><p>If you did not request a password reset, you can ignore this message.</p>", token)
}
