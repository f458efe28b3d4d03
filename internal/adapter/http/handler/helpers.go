package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iho/splitclear/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	status := statusFor(err)
	if status >= 500 {
		logger.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrInvalidMemberName),
		errors.Is(err, domain.ErrInvalidDescription),
		errors.Is(err, domain.ErrMissingDate),
		errors.Is(err, domain.ErrMissingMember):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrOverpayment),
		errors.Is(err, domain.ErrAlreadyCleared),
		errors.Is(err, domain.ErrWorkflowState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrExpenseNotFound),
		errors.Is(err, domain.ErrMemberNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}
