package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"userbase/internal/domain"
	"userbase/internal/dto"
	"userbase/internal/netutil"
	"userbase/internal/service"
)

type Handler struct {
	Auth          service.AuthService
	Phone         service.PhoneService
	Devices       service.DeviceService
	Notifications service.NotificationService
}

func decode(r *http.Request, into any) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return domain.ErrInvalidPayload
	}
	return nil
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.Auth.Register(r.Context(), req, deviceFromHeaders(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.Auth.Login(r.Context(), req, deviceFromHeaders(r))
	if err != nil {
		slog.Info("login rejected",
			"ip", netutil.ClientIP(r),
			"user_agent", netutil.TruncateUserAgent(r.UserAgent()),
		)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	if err := h.Auth.Logout(r.Context(), userID, deviceFromHeaders(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusMessage("success", "Successfully logged out."))
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	resp, err := h.Auth.Status(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) passwordRecovery(w http.ResponseWriter, r *http.Request) {
	var req dto.PasswordRecoveryRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Auth.PasswordRecovery(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusMessage("success", "Password recovery email sent."))
}

func (h *Handler) passwordReset(w http.ResponseWriter, r *http.Request) {
	var req dto.PasswordResetRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Auth.PasswordReset(r.Context(), req.Token, req.Password); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusMessage("success", "Successfully reset password."))
}

func (h *Handler) passwordChange(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	var req dto.PasswordChangeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Auth.PasswordChange(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusMessage("success", "Successfully changed password."))
}

func (h *Handler) requestEmailVerification(w http.ResponseWriter, r *http.Request) {
	var req dto.EmailVerificationRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Auth.RequestEmailVerification(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusMessage("success", "Verification email sent."))
}

func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Auth.VerifyEmail(r.Context(), req.Token); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusMessage("success", "Successfully verified email."))
}

func (h *Handler) googleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.GoogleLoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.Auth.GoogleLogin(r.Context(), req, deviceFromHeaders(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, createdStatus(resp), resp)
}

func (h *Handler) facebookLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.FacebookLoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.Auth.FacebookLogin(r.Context(), req, deviceFromHeaders(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, createdStatus(resp), resp)
}

func createdStatus(resp *dto.AuthResponse) int {
	if resp.Created {
		return http.StatusCreated
	}
	return http.StatusOK
}

func (h *Handler) setStandalonePassword(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	var req dto.PasswordChangeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Auth.SetStandalonePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusMessage("success", "Successfully changed password."))
}

func (h *Handler) registerCellphone(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	var req dto.CellphoneRegisterRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Phone.RegisterCellphone(r.Context(), userID, req.CellphoneNumber, req.CellphoneCC); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusMessage("success", "Validation code sent."))
}

func (h *Handler) verifyCellphone(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	var req dto.CellphoneVerifyRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.Phone.VerifyCellphone(r.Context(), userID, req.ValidationCode); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusMessage("success", "Successfully validated cellphone."))
}

// registerDevice binds the device to the authenticated user and stores the
// push token when one is supplied.
func (h *Handler) registerDevice(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	var req dto.DeviceRegisterRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	_, err := h.Devices.CreateOrUpdate(r.Context(), service.DeviceUpsert{
		DeviceID:   req.DeviceID,
		DeviceType: req.DeviceType,
		Active:     true,
		UserID:     &userID,
		PNToken:    req.PNToken,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusMessage("success", "Successfully registered device."))
}

// pushEcho sends a push notification to the caller's own active devices.
// Useful to verify end-to-end delivery from a fresh install.
func (h *Handler) pushEcho(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	var req struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Message == "" {
		writeError(w, domain.ErrInvalidPayload)
		return
	}
	h.Notifications.SendToUser(r.Context(), userID, req.Title, req.Message)
	writeJSON(w, http.StatusOK, statusMessage("success", "Push echo dispatched."))
}
