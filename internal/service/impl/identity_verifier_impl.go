package impl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"google.golang.org/api/idtoken"

	"userbase/internal/service"
)

var _ service.IdentityVerifier = (*IdentityVerifierImpl)(nil)

// IdentityVerifierImpl validates federated credentials against the provider.
// Google ID tokens are checked offline against Google's published keys;
// Facebook access tokens are resolved through the Graph API.
type IdentityVerifierImpl struct {
	GoogleClientID string
	GraphBaseURL   string
	HTTPClient     *http.Client

	// validateGoogle is swappable for tests.
	validateGoogle func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

func NewIdentityVerifierImpl(googleClientID string) *IdentityVerifierImpl {
	return &IdentityVerifierImpl{
		GoogleClientID: googleClientID,
		GraphBaseURL:   "https://graph.facebook.com/v12.0",
		HTTPClient:     &http.Client{Timeout: 10 * time.Second},
		validateGoogle: idtoken.Validate,
	}
}

func (v *IdentityVerifierImpl) VerifyGoogle(ctx context.Context, credential string) (*service.ExternalIdentity, error) {
	validate := v.validateGoogle
	if validate == nil {
		validate = idtoken.Validate
	}
	payload, err := validate(ctx, credential, v.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("google id token: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	emailVerified, _ := payload.Claims["email_verified"].(bool)
	givenName, _ := payload.Claims["given_name"].(string)
	familyName, _ := payload.Claims["family_name"].(string)

	return &service.ExternalIdentity{
		ID:            payload.Subject,
		Email:         email,
		EmailVerified: emailVerified,
		GivenName:     givenName,
		FamilyName:    familyName,
	}, nil
}

func (v *IdentityVerifierImpl) VerifyFacebook(ctx context.Context, accessToken string) (*service.ExternalIdentity, error) {
	endpoint := fmt.Sprintf("%s/me?fields=id,name,first_name,last_name,email&access_token=%s",
		v.GraphBaseURL, url.QueryEscape(accessToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	client := v.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("facebook graph: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("facebook graph: status %d", resp.StatusCode)
	}

	var body struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("facebook graph: %w", err)
	}
	if body.ID == "" {
		return nil, fmt.Errorf("facebook graph: empty subject")
	}

	return &service.ExternalIdentity{
		ID:         body.ID,
		Email:      body.Email,
		GivenName:  body.FirstName,
		FamilyName: body.LastName,
	}, nil
}
