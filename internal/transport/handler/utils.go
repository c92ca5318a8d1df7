package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/swairua/kennedynespot/internal/entities"
	"github.com/swairua/kennedynespot/internal/transcoder"
)

type APIError struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, APIError{Error: message})
}

// writeDomainError maps catalog/transcoder error classes onto status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var decodeErr *transcoder.DecodeError
	switch {
	case errors.Is(err, entities.ErrNotFound):
		writeJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, entities.ErrEmptyFolderName),
		errors.Is(err, entities.ErrNotAnImage),
		errors.As(err, &decodeErr):
		writeJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, entities.ErrFileTooLarge):
		writeJSONError(w, err.Error(), http.StatusRequestEntityTooLarge)
	default:
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeMultipartError(w http.ResponseWriter, err error) {
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "too large"):
		writeJSONError(w, "uploaded file exceeds maximum allowed size", http.StatusRequestEntityTooLarge)

	case strings.Contains(msg, "content-type isn't multipart/form-data"):
		writeJSONError(w, "invalid content type, expected multipart/form-data", http.StatusBadRequest)

	default:
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
	}
}

func validationErrorsToMap(err error) map[string]string {
	errs := map[string]string{}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range verrs {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errs[field] = "is required"
			case "max":
				errs[field] = "exceeds maximum length"
			case "gte", "lte", "min":
				errs[field] = "out of allowed range"
			case "url":
				errs[field] = "must be a valid url"
			case "oneof":
				errs[field] = "invalid value"
			default:
				errs[field] = "invalid value"
			}
		}
	} else {
		errs["error"] = err.Error()
	}
	return errs
}

func decodeBody(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	if err := v.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, validationErrorsToMap(err))
		return false
	}
	return true
}
