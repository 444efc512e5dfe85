package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"userbase/internal/domain"
	"userbase/internal/dto"
	"userbase/internal/observability/metrics"
	"userbase/internal/service"
)

func TestMain(m *testing.M) {
	metrics.MustRegister("test")
	os.Exit(m.Run())
}

// stubAuthService lets each test supply only the methods it exercises.
type stubAuthService struct {
	registerFn  func(ctx context.Context, r dto.RegisterRequest, dev *dto.DeviceInfo) (*dto.AuthResponse, error)
	loginFn     func(ctx context.Context, r dto.LoginRequest, dev *dto.DeviceInfo) (*dto.AuthResponse, error)
	authorizeFn func(ctx context.Context, token string) (int, error)
	hasRolesFn  func(ctx context.Context, userID int, roles domain.Role) error
	logoutFn    func(ctx context.Context, userID int, dev *dto.DeviceInfo) error
}

func (s *stubAuthService) Register(ctx context.Context, r dto.RegisterRequest, dev *dto.DeviceInfo) (*dto.AuthResponse, error) {
	return s.registerFn(ctx, r, dev)
}

func (s *stubAuthService) Login(ctx context.Context, r dto.LoginRequest, dev *dto.DeviceInfo) (*dto.AuthResponse, error) {
	return s.loginFn(ctx, r, dev)
}

func (s *stubAuthService) Logout(ctx context.Context, userID int, dev *dto.DeviceInfo) error {
	if s.logoutFn != nil {
		return s.logoutFn(ctx, userID, dev)
	}
	return nil
}

func (s *stubAuthService) Status(ctx context.Context, userID int) (*dto.StatusResponse, error) {
	return &dto.StatusResponse{ID: userID}, nil
}

func (s *stubAuthService) PasswordRecovery(ctx context.Context, email string) error { return nil }
func (s *stubAuthService) PasswordReset(ctx context.Context, token, newPassword string) error {
	return nil
}
func (s *stubAuthService) PasswordChange(ctx context.Context, userID int, oldPassword, newPassword string) error {
	return nil
}
func (s *stubAuthService) RequestEmailVerification(ctx context.Context, email string) error {
	return nil
}
func (s *stubAuthService) VerifyEmail(ctx context.Context, token string) error { return nil }
func (s *stubAuthService) GoogleLogin(ctx context.Context, r dto.GoogleLoginRequest, dev *dto.DeviceInfo) (*dto.AuthResponse, error) {
	return nil, domain.ErrExternalAuth
}
func (s *stubAuthService) FacebookLogin(ctx context.Context, r dto.FacebookLoginRequest, dev *dto.DeviceInfo) (*dto.AuthResponse, error) {
	return nil, domain.ErrExternalAuth
}
func (s *stubAuthService) SetStandalonePassword(ctx context.Context, userID int, oldPassword, newPassword string) error {
	return nil
}

func (s *stubAuthService) Authorize(ctx context.Context, token string) (int, error) {
	if s.authorizeFn != nil {
		return s.authorizeFn(ctx, token)
	}
	return 0, domain.ErrUnauthorized
}

func (s *stubAuthService) HasRoles(ctx context.Context, userID int, roles domain.Role) error {
	if s.hasRolesFn != nil {
		return s.hasRolesFn(ctx, userID, roles)
	}
	return nil
}

var _ service.AuthService = (*stubAuthService)(nil)

func TestWriteErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "invalid payload", err: domain.ErrInvalidPayload, status: http.StatusBadRequest, message: "Invalid payload."},
		{name: "business rule", err: domain.BusinessRule("Sorry. That user already exists."), status: http.StatusBadRequest, message: "Sorry. That user already exists."},
		{name: "unauthorized", err: domain.ErrTokenExpired, status: http.StatusUnauthorized, message: "Signature expired. Please log in again."},
		{name: "external auth", err: domain.ErrExternalAuth, status: http.StatusUnauthorized, message: "External authentication failed."},
		{name: "forbidden", err: domain.ErrForbidden, status: http.StatusForbidden, message: "Forbidden."},
		{name: "not found", err: domain.NotFound("User does not exist."), status: http.StatusNotFound, message: "User does not exist."},
		{name: "untyped", err: context.DeadlineExceeded, status: http.StatusInternalServerError, message: "Something went wrong!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)
			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rec.Code)
			}
			var body dto.StatusMessage
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid body: %v", err)
			}
			if body.Status != "fail" || body.Message != tc.message {
				t.Fatalf("unexpected body: %+v", body)
			}
		})
	}
}

func TestAuthenticateMiddleware(t *testing.T) {
	auth := &stubAuthService{
		authorizeFn: func(ctx context.Context, token string) (int, error) {
			if token == "valid" {
				return 42, nil
			}
			return 0, domain.ErrTokenInvalid
		},
	}
	var gotUserID int
	handler := Authenticate(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "valid bearer", header: "Bearer valid", status: http.StatusOK},
		{name: "bare token", header: "valid", status: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, r)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
		})
	}
	if gotUserID != 42 {
		t.Fatalf("user id not propagated, got %d", gotUserID)
	}
}

func TestRequireRolesMiddleware(t *testing.T) {
	auth := &stubAuthService{
		authorizeFn: func(ctx context.Context, token string) (int, error) { return 7, nil },
		hasRolesFn: func(ctx context.Context, userID int, roles domain.Role) error {
			if userID != 7 {
				t.Fatalf("unexpected user id %d", userID)
			}
			if roles.HasAny(domain.RoleBackendAdmin) {
				return domain.ErrForbidden
			}
			return nil
		},
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("denied", func(t *testing.T) {
		handler := Authenticate(auth)(RequireRoles(auth, domain.RoleBackendAdmin)(next))
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "Bearer valid")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("allowed", func(t *testing.T) {
		handler := Authenticate(auth)(RequireRoles(auth, domain.RoleUser)(next))
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "Bearer valid")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("skips authenticate", func(t *testing.T) {
		handler := RequireRoles(auth, domain.RoleUser)(next)
		r := httptest.NewRequest("GET", "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 without authenticate, got %d", rec.Code)
		}
	})
}

func TestLogoutRouteEnforcesRoleGuard(t *testing.T) {
	allowed := true
	auth := &stubAuthService{
		authorizeFn: func(ctx context.Context, token string) (int, error) { return 7, nil },
		hasRolesFn: func(ctx context.Context, userID int, roles domain.Role) error {
			if !roles.HasAny(domain.RoleUser) {
				t.Fatalf("route guard should accept plain users, got roles %b", roles)
			}
			if !allowed {
				return domain.ErrForbidden
			}
			return nil
		},
	}
	router := NewRouter(&Handler{Auth: auth})

	do := func() int {
		req := httptest.NewRequest("POST", "/v1/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer ok")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do(); code != http.StatusOK {
		t.Fatalf("expected 200 for a role-holding user, got %d", code)
	}
	allowed = false
	if code := do(); code != http.StatusForbidden {
		t.Fatalf("expected 403 for a role-stripped user, got %d", code)
	}
}

func TestDeviceFromHeaders(t *testing.T) {
	r := httptest.NewRequest("POST", "/", nil)
	if dev := deviceFromHeaders(r); dev != nil {
		t.Fatalf("expected nil without headers, got %+v", dev)
	}

	r.Header.Set("X-Device-Id", " dev-1 ")
	r.Header.Set("X-Device-Type", "android")
	dev := deviceFromHeaders(r)
	if dev == nil || dev.DeviceID != "dev-1" || dev.DeviceType != "android" {
		t.Fatalf("unexpected device info: %+v", dev)
	}
}

func TestRegisterEndpoint(t *testing.T) {
	var gotDev *dto.DeviceInfo
	auth := &stubAuthService{
		registerFn: func(ctx context.Context, r dto.RegisterRequest, dev *dto.DeviceInfo) (*dto.AuthResponse, error) {
			gotDev = dev
			if r.Email != "alice@example.com" {
				t.Fatalf("unexpected email: %q", r.Email)
			}
			return &dto.AuthResponse{Status: "success", Message: "Successfully registered.", AuthToken: "tok", Created: true}, nil
		},
	}
	router := NewRouter(&Handler{Auth: auth})

	req := httptest.NewRequest("POST", "/v1/auth/register", strings.NewReader(`{"email":"alice@example.com","password":"pw"}`))
	req.Header.Set("X-Device-Id", "dev-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotDev == nil || gotDev.DeviceID != "dev-1" {
		t.Fatalf("device headers not forwarded: %+v", gotDev)
	}
	var body dto.AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.AuthToken != "tok" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestLoginEndpointRejectsMalformedJSON(t *testing.T) {
	auth := &stubAuthService{
		loginFn: func(ctx context.Context, r dto.LoginRequest, dev *dto.DeviceInfo) (*dto.AuthResponse, error) {
			t.Fatalf("service must not be called on malformed payload")
			return nil, nil
		},
	}
	router := NewRouter(&Handler{Auth: auth})

	req := httptest.NewRequest("POST", "/v1/auth/login", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPingEndpoint(t *testing.T) {
	router := NewRouter(&Handler{Auth: &stubAuthService{}})
	req := httptest.NewRequest("GET", "/ping", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body dto.StatusMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.Message != "pong" {
		t.Fatalf("unexpected body: %+v", body)
	}
}
