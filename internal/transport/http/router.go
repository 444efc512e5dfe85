package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"userbase/internal/domain"
	"userbase/internal/observability/middleware"
)

// anyRole is the role guard on the authenticated groups; every account
// holds at least RoleUser, so this rejects only accounts stripped of all
// roles.
const anyRole = domain.RoleUser | domain.RoleUserAdmin | domain.RoleBackendAdmin

// NewRouter mounts all public and authenticated routes. The bearer-token
// middleware guards everything in the authenticated groups.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.WithRequestAndTrace)
	r.Use(middleware.WithMetrics)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, statusMessage("success", "pong"))
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Post("/google_login", h.googleLogin)
		r.Post("/facebook_login", h.facebookLogin)
		r.Post("/password_recovery", h.passwordRecovery)
		r.Post("/password_reset", h.passwordReset)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(h.Auth))
			r.Use(RequireRoles(h.Auth, anyRole))
			r.Post("/logout", h.logout)
			r.Get("/status", h.status)
			r.Post("/password_change", h.passwordChange)
			r.Put("/facebook/password", h.setStandalonePassword)
		})
	})

	r.Route("/v1/email_verification", func(r chi.Router) {
		r.Post("/", h.requestEmailVerification)
		r.Post("/verify", h.verifyEmail)
	})

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(h.Auth))
		r.Use(RequireRoles(h.Auth, anyRole))
		r.Post("/v1/cellphone", h.registerCellphone)
		r.Post("/v1/cellphone/verify", h.verifyCellphone)
		r.Post("/v1/devices", h.registerDevice)
		r.Post("/push_echo", h.pushEcho)
	})

	return r
}
