package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"rentalboard/internal/schema"
	"rentalboard/internal/store"
)

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(ErrorEnvelope{
		Error: APIError{Code: code, Message: message},
	})
}

// WriteDomainError maps the domain error taxonomy onto HTTP. Malformed
// records map distinctly from not-found so operators can tell "missing"
// from "corrupt".
func WriteDomainError(w http.ResponseWriter, err error) {
	var validation *schema.ValidationError
	var invalid *schema.InvalidTransitionError
	var malformed *schema.MalformedRecordError
	var external *store.ExternalError

	switch {
	case errors.As(err, &validation):
		WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", validation.Msg)
	case errors.As(err, &invalid):
		WriteError(w, http.StatusConflict, "INVALID_TRANSITION", invalid.Error())
	case errors.Is(err, store.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "record not found")
	case errors.As(err, &malformed):
		WriteError(w, http.StatusBadGateway, "MALFORMED_RECORD", malformed.Error())
	case errors.As(err, &external):
		WriteError(w, http.StatusBadGateway, "EXTERNAL_STORE", "external store request failed")
	default:
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
