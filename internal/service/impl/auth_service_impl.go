package impl

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"userbase/internal/domain"
	"userbase/internal/dto"
	"userbase/internal/observability/metrics"
	"userbase/internal/service"
	"userbase/internal/store"
)

var _ service.AuthService = (*AuthServiceImpl)(nil)

type AuthServiceImpl struct {
	Store     dataStore
	Passwords service.PasswordService
	Tokens    service.TokenService
	Verifier  service.IdentityVerifier
	Mail      service.Mailer
	now       func() time.Time
}

func NewAuthServiceImpl(
	st *store.Store,
	passwords service.PasswordService,
	tokens service.TokenService,
	verifier service.IdentityVerifier,
	mail service.Mailer,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		Store:     newStoreAdapter(st),
		Passwords: passwords,
		Tokens:    tokens,
		Verifier:  verifier,
		Mail:      mail,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (a *AuthServiceImpl) nowTime() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now().UTC()
}

func (a *AuthServiceImpl) Register(ctx context.Context, r dto.RegisterRequest, dev *dto.DeviceInfo) (*dto.AuthResponse, error) {
	result := "success"
	defer func() { metrics.AuthRegistrationsTotal.WithLabelValues(result).Inc() }()

	if r.Email == "" || r.Password == "" {
		result = "invalid"
		return nil, domain.ErrInvalidPayload
	}

	existing, err := a.Store.Users().GetByEmailOrUsername(ctx, r.Email, r.Username)
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		result = "failure"
		return nil, err
	}
	if existing != nil {
		// Same contract as a failed login: the supplied device must not stay
		// push-reachable under an unauthenticated identity.
		a.deactivateDevice(ctx, dev)
		result = "duplicate"
		return nil, domain.BusinessRule("Sorry. That user already exists.")
	}

	hash, err := a.Passwords.Hash(r.Password)
	if err != nil {
		result = "failure"
		return nil, err
	}

	now := a.nowTime()
	user := &domain.User{
		Email:        r.Email,
		PasswordHash: &hash,
		Active:       true,
		Roles:        domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if r.Username != "" {
		user.Username = &r.Username
	}

	var emailToken string
	err = a.Store.WithTx(ctx, func(tx storeTx) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}

		// Email-verification token: the digest is stored so only the most
		// recently issued copy stays redeemable.
		token, err := a.Tokens.Encode(service.PurposeEmail, user.ID)
		if err != nil {
			return err
		}
		tokenHash := hashOneTimeToken(token)
		user.EmailTokenHash = &tokenHash
		if err := tx.Users().Save(ctx, user); err != nil {
			return err
		}
		emailToken = token

		if dev != nil && dev.DeviceID != "" {
			_, err = upsertDeviceTx(ctx, tx, service.DeviceUpsert{
				DeviceID:   dev.DeviceID,
				DeviceType: dev.DeviceType,
				Active:     true,
				UserID:     &user.ID,
			}, now)
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// Lost a concurrent registration race on the unique constraint.
			a.deactivateDevice(ctx, dev)
			result = "duplicate"
			return nil, domain.BusinessRule("Sorry. That user already exists.")
		}
		result = "failure"
		return nil, err
	}

	a.sendAsync("mail.welcome", func(ctx context.Context, m service.Mailer) error {
		return m.Send(ctx, user.Email, welcomeSubject(user), welcomeText(user), welcomeHTML(user))
	})
	a.sendAsync("mail.email_verification", func(ctx context.Context, m service.Mailer) error {
		return m.Send(ctx, user.Email, emailVerificationSubject(), emailVerificationText(emailToken), emailVerificationHTML(emailToken))
	})

	authToken, err := a.Tokens.Encode(service.PurposeSession, user.ID)
	if err != nil {
		result = "failure"
		return nil, err
	}
	slog.Info("user registered", "user_id", user.ID)
	return &dto.AuthResponse{
		Status:    "success",
		Message:   "Successfully registered.",
		AuthToken: authToken,
		Email:     user.Email,
		Created:   true,
	}, nil
}

func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest, dev *dto.DeviceInfo) (*dto.AuthResponse, error) {
	result := "success"
	defer func() { metrics.AuthLoginsTotal.WithLabelValues(result).Inc() }()

	if r.Email == "" || r.Password == "" {
		result = "invalid"
		return nil, domain.ErrInvalidPayload
	}

	user, err := a.Store.Users().GetByEmail(ctx, r.Email)
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		result = "failure"
		return nil, err
	}
	// Unknown email and wrong password collapse into the same answer so the
	// response does not reveal which field was wrong.
	if user == nil || user.PasswordHash == nil || !a.Passwords.Compare(*user.PasswordHash, r.Password) {
		a.deactivateDevice(ctx, dev)
		result = "rejected"
		return nil, domain.NotFound("User does not exist.")
	}

	if dev != nil && dev.DeviceID != "" {
		now := a.nowTime()
		err = a.Store.WithTx(ctx, func(tx storeTx) error {
			_, err := upsertDeviceTx(ctx, tx, service.DeviceUpsert{
				DeviceID:   dev.DeviceID,
				DeviceType: dev.DeviceType,
				Active:     true,
				UserID:     &user.ID,
			}, now)
			return err
		})
		if err != nil {
			result = "failure"
			return nil, err
		}
	}

	authToken, err := a.Tokens.Encode(service.PurposeSession, user.ID)
	if err != nil {
		result = "failure"
		return nil, err
	}
	resp := &dto.AuthResponse{
		Status:    "success",
		Message:   "Successfully logged in.",
		AuthToken: authToken,
		Email:     user.Email,
	}
	if user.Username != nil {
		resp.Username = *user.Username
	}
	return resp, nil
}

// Logout deactivates the device named by the request header, which is not
// necessarily the device used at login. Always succeeds.
func (a *AuthServiceImpl) Logout(ctx context.Context, userID int, dev *dto.DeviceInfo) error {
	a.deactivateDeviceSync(ctx, dev)
	return nil
}

func (a *AuthServiceImpl) Status(ctx context.Context, userID int) (*dto.StatusResponse, error) {
	user, err := a.Store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	resp := &dto.StatusResponse{
		ID:         user.ID,
		Email:      user.Email,
		Username:   user.Username,
		GivenName:  user.GivenName,
		FamilyName: user.FamilyName,
		Active:     user.Active,
		CreatedAt:  user.CreatedAt.Format(time.RFC3339),
	}
	if user.EmailValidationDate != nil {
		s := user.EmailValidationDate.Format(time.RFC3339)
		resp.EmailValidationDate = &s
	}
	if user.CellphoneValidationDate != nil {
		s := user.CellphoneValidationDate.Format(time.RFC3339)
		resp.CellphoneValidationDate = &s
	}
	return resp, nil
}

func (a *AuthServiceImpl) PasswordRecovery(ctx context.Context, email string) error {
	if email == "" {
		return domain.ErrInvalidPayload
	}
	user, err := a.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.NotFound("Login/email does not exist, please write a valid login/email")
		}
		return err
	}

	token, err := a.Tokens.Encode(service.PurposePassword, user.ID)
	if err != nil {
		return err
	}
	tokenHash := hashOneTimeToken(token)
	err = a.Store.WithTx(ctx, func(tx storeTx) error {
		// Overwrites any outstanding reset token; the previous one can no
		// longer match the stored hash.
		user.TokenHash = &tokenHash
		user.UpdatedAt = a.nowTime()
		return tx.Users().Save(ctx, user)
	})
	if err != nil {
		return err
	}

	a.sendAsync("mail.password_recovery", func(ctx context.Context, m service.Mailer) error {
		return m.Send(ctx, user.Email, passwordRecoverySubject(), passwordRecoveryText(token), passwordRecoveryHTML(token))
	})
	return nil
}

func (a *AuthServiceImpl) PasswordReset(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return domain.ErrInvalidPayload
	}
	userID, err := a.Tokens.Decode(service.PurposePassword, token)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			return domain.BusinessRule("Password recovery token expired. Please try again.")
		}
		return domain.BusinessRule("Invalid password recovery token. Please try again.")
	}

	return a.Store.WithTx(ctx, func(tx storeTx) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			return err
		}
		if user == nil || user.TokenHash == nil || !oneTimeTokenMatches(*user.TokenHash, token) {
			return domain.NotFound("Invalid reset. Please try again.")
		}
		hash, err := a.Passwords.Hash(newPassword)
		if err != nil {
			return err
		}
		user.PasswordHash = &hash
		// Clearing the hash is the single-use guarantee: the same token can
		// never be redeemed twice.
		user.TokenHash = nil
		user.UpdatedAt = a.nowTime()
		return tx.Users().Save(ctx, user)
	})
}

func (a *AuthServiceImpl) PasswordChange(ctx context.Context, userID int, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return domain.ErrInvalidPayload
	}
	return a.Store.WithTx(ctx, func(tx storeTx) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return translateStoreErr(err)
		}
		if user.PasswordHash == nil || !a.Passwords.Compare(*user.PasswordHash, oldPassword) {
			return domain.BusinessRule("Invalid password. Please try again.")
		}
		hash, err := a.Passwords.Hash(newPassword)
		if err != nil {
			return err
		}
		user.PasswordHash = &hash
		user.UpdatedAt = a.nowTime()
		return tx.Users().Save(ctx, user)
	})
}

// RequestEmailVerification issues a fresh verification token. Idempotent:
// resending is always allowed, the new token supersedes the old one.
func (a *AuthServiceImpl) RequestEmailVerification(ctx context.Context, email string) error {
	if email == "" {
		return domain.ErrInvalidPayload
	}
	user, err := a.Store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.NotFound("Login/email does not exist, please write a valid login/email")
		}
		return err
	}

	token, err := a.Tokens.Encode(service.PurposeEmail, user.ID)
	if err != nil {
		return err
	}
	tokenHash := hashOneTimeToken(token)
	err = a.Store.WithTx(ctx, func(tx storeTx) error {
		user.EmailTokenHash = &tokenHash
		user.UpdatedAt = a.nowTime()
		return tx.Users().Save(ctx, user)
	})
	if err != nil {
		return err
	}

	a.sendAsync("mail.email_verification", func(ctx context.Context, m service.Mailer) error {
		return m.Send(ctx, user.Email, emailVerificationSubject(), emailVerificationText(token), emailVerificationHTML(token))
	})
	return nil
}

func (a *AuthServiceImpl) VerifyEmail(ctx context.Context, token string) error {
	userID, err := a.Tokens.Decode(service.PurposeEmail, token)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			return domain.BusinessRule("Email verification token expired. Please try again.")
		}
		return domain.BusinessRule("Invalid email verification token. Please try again.")
	}

	return a.Store.WithTx(ctx, func(tx storeTx) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			return err
		}
		if user == nil || user.EmailTokenHash == nil || !oneTimeTokenMatches(*user.EmailTokenHash, token) {
			return domain.NotFound("Invalid verification. Please try again.")
		}
		now := a.nowTime()
		user.EmailValidationDate = &now
		user.UpdatedAt = now
		return tx.Users().Save(ctx, user)
	})
}

func (a *AuthServiceImpl) GoogleLogin(ctx context.Context, r dto.GoogleLoginRequest, dev *dto.DeviceInfo) (*dto.AuthResponse, error) {
	if r.ClientID == "" || r.Credential == "" {
		return nil, domain.ErrInvalidPayload
	}
	identity, err := a.Verifier.VerifyGoogle(ctx, r.Credential)
	if err != nil {
		return nil, domain.ErrExternalAuth
	}
	return a.federatedLogin(ctx, federatedLink{
		provider:      "google",
		externalID:    identity.ID,
		email:         identity.Email,
		emailVerified: identity.EmailVerified,
		givenName:     identity.GivenName,
		familyName:    identity.FamilyName,
		accessToken:   r.Credential,
	}, dev)
}

func (a *AuthServiceImpl) FacebookLogin(ctx context.Context, r dto.FacebookLoginRequest, dev *dto.DeviceInfo) (*dto.AuthResponse, error) {
	if r.AccessToken == "" {
		return nil, domain.ErrInvalidPayload
	}
	identity, err := a.Verifier.VerifyFacebook(ctx, r.AccessToken)
	if err != nil {
		return nil, domain.ErrExternalAuth
	}
	return a.federatedLogin(ctx, federatedLink{
		provider:    "facebook",
		externalID:  identity.ID,
		email:       identity.Email,
		givenName:   identity.GivenName,
		familyName:  identity.FamilyName,
		accessToken: r.AccessToken,
	}, dev)
}

type federatedLink struct {
	provider      string
	externalID    string
	email         string
	emailVerified bool
	givenName     string
	familyName    string
	accessToken   string
}

// federatedLogin links by external id, then by email, and creates the
// account when neither matches. The stored provider token is always
// refreshed and the supplied device is bound to the resolved account, as on
// a password login. Created distinguishes 201 from 200 at the transport
// layer.
func (a *AuthServiceImpl) federatedLogin(ctx context.Context, link federatedLink, dev *dto.DeviceInfo) (*dto.AuthResponse, error) {
	var (
		byExternal func(context.Context, string) (*domain.User, error)
		user       *domain.User
		created    bool
	)
	if link.provider == "google" {
		byExternal = a.Store.Users().GetByGoogleID
	} else {
		byExternal = a.Store.Users().GetByFacebookID
	}

	existing, err := byExternal(ctx, link.externalID)
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		return nil, err
	}

	now := a.nowTime()
	err = a.Store.WithTx(ctx, func(tx storeTx) error {
		if existing != nil {
			user = existing
			a.applyFederatedIdentity(user, link, now)
			if err := tx.Users().Save(ctx, user); err != nil {
				return err
			}
			return a.bindDeviceTx(ctx, tx, dev, user.ID, now)
		}

		// Unknown external id: link an account registered with the same
		// email, or create a new one.
		user, err = tx.Users().GetByEmail(ctx, link.email)
		if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			return err
		}
		if user == nil {
			user = &domain.User{
				Email:     link.email,
				Active:    true,
				Roles:     domain.RoleUser,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if link.givenName != "" {
				user.GivenName = &link.givenName
			}
			if link.familyName != "" {
				user.FamilyName = &link.familyName
			}
			a.applyFederatedIdentity(user, link, now)
			if err := tx.Users().Create(ctx, user); err != nil {
				return err
			}
			created = true
			return a.bindDeviceTx(ctx, tx, dev, user.ID, now)
		}
		a.applyFederatedIdentity(user, link, now)
		if err := tx.Users().Save(ctx, user); err != nil {
			return err
		}
		return a.bindDeviceTx(ctx, tx, dev, user.ID, now)
	})
	if err != nil {
		return nil, err
	}

	authToken, err := a.Tokens.Encode(service.PurposeSession, user.ID)
	if err != nil {
		return nil, err
	}
	message := "Successfully " + link.provider + " login."
	if created {
		message = "Successfully " + link.provider + " user registered."
	}
	slog.Info("federated login", "provider", link.provider, "user_id", user.ID, "created", created)
	return &dto.AuthResponse{
		Status:    "success",
		Message:   message,
		AuthToken: authToken,
		Email:     user.Email,
		Created:   created,
	}, nil
}

func (a *AuthServiceImpl) applyFederatedIdentity(user *domain.User, link federatedLink, now time.Time) {
	switch link.provider {
	case "google":
		user.GoogleID = &link.externalID
		user.GoogleAccessToken = &link.accessToken
		if link.emailVerified && user.EmailValidationDate == nil {
			user.EmailValidationDate = &now
		}
	case "facebook":
		user.FacebookID = &link.externalID
		user.FacebookToken = &link.accessToken
	}
	user.UpdatedAt = now
}

// SetStandalonePassword lets a facebook-linked account set a local password.
func (a *AuthServiceImpl) SetStandalonePassword(ctx context.Context, userID int, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return domain.ErrInvalidPayload
	}
	return a.Store.WithTx(ctx, func(tx storeTx) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return translateStoreErr(err)
		}
		if user.FacebookID == nil {
			return domain.NotFound("Must be a facebook user login. Please try again.")
		}
		if user.PasswordHash == nil || !a.Passwords.Compare(*user.PasswordHash, oldPassword) {
			return domain.NotFound("Invalid password. Please try again.")
		}
		hash, err := a.Passwords.Hash(newPassword)
		if err != nil {
			return err
		}
		user.PasswordHash = &hash
		user.UpdatedAt = a.nowTime()
		return tx.Users().Save(ctx, user)
	})
}

// Authorize resolves a bearer session token to an active user.
func (a *AuthServiceImpl) Authorize(ctx context.Context, token string) (int, error) {
	userID, err := a.Tokens.Decode(service.PurposeSession, token)
	if err != nil {
		return 0, err
	}
	user, err := a.Store.Users().GetByID(ctx, userID)
	if err != nil || !user.Active {
		return 0, domain.Unauthorized("Something went wrong. Please contact us.")
	}
	return userID, nil
}

func (a *AuthServiceImpl) HasRoles(ctx context.Context, userID int, roles domain.Role) error {
	user, err := a.Store.Users().GetByID(ctx, userID)
	if err != nil || !user.Active {
		return domain.Unauthorized("Something went wrong. Please contact us.")
	}
	if !user.Roles.HasAny(roles) {
		return domain.ErrForbidden
	}
	return nil
}

// bindDeviceTx rebinds the supplied device to the freshly authenticated
// user inside the running transaction. No-op without a device id.
func (a *AuthServiceImpl) bindDeviceTx(ctx context.Context, tx storeTx, dev *dto.DeviceInfo, userID int, now time.Time) error {
	if dev == nil || dev.DeviceID == "" {
		return nil
	}
	_, err := upsertDeviceTx(ctx, tx, service.DeviceUpsert{
		DeviceID:   dev.DeviceID,
		DeviceType: dev.DeviceType,
		Active:     true,
		UserID:     &userID,
	}, now)
	return err
}

func (a *AuthServiceImpl) deactivateDevice(ctx context.Context, dev *dto.DeviceInfo) {
	a.deactivateDeviceSync(ctx, dev)
}

func (a *AuthServiceImpl) deactivateDeviceSync(ctx context.Context, dev *dto.DeviceInfo) {
	if dev == nil || dev.DeviceID == "" {
		return
	}
	if err := a.Store.Devices().Deactivate(ctx, dev.DeviceID); err != nil {
		slog.Warn("device deactivation failed", "device_id", dev.DeviceID, "error", err)
	}
}

func (a *AuthServiceImpl) sendAsync(task string, fn func(ctx context.Context, m service.Mailer) error) {
	if a.Mail == nil {
		return
	}
	mail := a.Mail
	dispatchAsync(task, func(ctx context.Context) error {
		return fn(ctx, mail)
	})
}
