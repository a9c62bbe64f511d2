// internal/adapters/in/http/handler/helpers.go
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"agrimarket/internal/application/usecase"
	acctdom "agrimarket/internal/domain/account"
	listdom "agrimarket/internal/domain/listing"
	orderdom "agrimarket/internal/domain/order"
)

// ============================================================
// HTTP helpers
// ============================================================

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": strings.TrimSpace(msg)})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeErr(w, http.StatusMethodNotAllowed, "method_not_allowed")
}

func notFound(w http.ResponseWriter) {
	writeErr(w, http.StatusNotFound, "not_found")
}

const maxBodyBytes = 1 << 20

func decodeJSON(r *http.Request, dst any) error {
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	return dec.Decode(dst)
}

// writeUsecaseErr maps application errors onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message.
func writeUsecaseErr(w http.ResponseWriter, err error) {
	var ve *usecase.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation_failed",
			"fields": ve.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, listdom.ErrNotFound),
		errors.Is(err, orderdom.ErrNotFound),
		errors.Is(err, acctdom.ErrNotFound),
		errors.Is(err, usecase.ErrCartNotFound):
		notFound(w)
	case errors.Is(err, usecase.ErrEmailTaken):
		writeErr(w, http.StatusConflict, "email already registered")
	case errors.Is(err, usecase.ErrBadCredentials):
		writeErr(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, usecase.ErrDuplicateInFlight):
		writeErr(w, http.StatusConflict, "order already in progress, retry shortly")
	case errors.Is(err, usecase.ErrPriceUnavailable):
		writeErr(w, http.StatusConflict, "listing price is unavailable")
	case errors.Is(err, usecase.ErrListingForbidden):
		writeErr(w, http.StatusForbidden, "listing owned by another farmer")
	case errors.Is(err, usecase.ErrOrderInvalidArgument),
		errors.Is(err, usecase.ErrListingInvalidArgument),
		errors.Is(err, usecase.ErrAccountInvalidArgument):
		writeErr(w, http.StatusBadRequest, err.Error())
	default:
		writeErr(w, http.StatusInternalServerError, "internal server error")
	}
}
