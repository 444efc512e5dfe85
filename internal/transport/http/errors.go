package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"userbase/internal/domain"
	"userbase/internal/dto"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func statusMessage(status, message string) dto.StatusMessage {
	return dto.StatusMessage{Status: status, Message: message}
}

// writeError maps a domain error kind to an HTTP status. Messages of typed
// errors are stable and client-facing; anything untyped collapses into a
// generic 500 so internals never leak.
func writeError(w http.ResponseWriter, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		slog.Error("unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, statusMessage("fail", domain.ErrServer.Message))
		return
	}

	status := http.StatusInternalServerError
	switch de.Kind {
	case domain.KindInvalidPayload, domain.KindBusinessRule:
		status = http.StatusBadRequest
	case domain.KindUnauthorized, domain.KindExternalAuth,
		domain.KindTokenExpired, domain.KindTokenInvalid:
		status = http.StatusUnauthorized
	case domain.KindForbidden:
		status = http.StatusForbidden
	case domain.KindNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, statusMessage("fail", de.Message))
}
