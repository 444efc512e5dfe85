package service

import "context"

// ExternalIdentity is the provider-asserted profile used for link-or-create.
type ExternalIdentity struct {
	ID            string
	Email         string
	EmailVerified bool
	GivenName     string
	FamilyName    string
}

// IdentityVerifier validates a provider credential with a bounded timeout.
// Failures map to domain.ErrExternalAuth at the orchestrator.
type IdentityVerifier interface {
	VerifyGoogle(ctx context.Context, credential string) (*ExternalIdentity, error)
	VerifyFacebook(ctx context.Context, accessToken string) (*ExternalIdentity, error)
}
