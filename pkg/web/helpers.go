package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondJSON(w, logger, status, map[string]string{"error": message})
}

// RespondValidationErrors writes a 400 with the per-field messages under "validation_errors".
func RespondValidationErrors(w http.ResponseWriter, logger *slog.Logger, fields map[string]string) {
	RespondJSON(w, logger, http.StatusBadRequest, map[string]any{"validation_errors": fields})
}

// DecodeAndValidate decodes the JSON body into dst and runs the struct validation.
// On failure it writes the response itself and returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, logger *slog.Logger, validate *validator.Validate, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		RespondError(w, logger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string, len(validationErrors))
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			logger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			RespondValidationErrors(w, logger, errorResponse)
			return false
		}
		logger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		RespondError(w, logger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// ParseID extracts a non-blank path value. Returns the value and a boolean indicating success.
func ParseID(w http.ResponseWriter, r *http.Request, logger *slog.Logger, key string) (string, bool) {
	value := strings.TrimSpace(r.PathValue(key))
	if value == "" {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s: %q", key, r.PathValue(key)))
		return "", false
	}
	return value, true
}

// GetSessionID retrieves the session id put into the context by SessionMiddleware.
func GetSessionID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uuid.UUID, bool) {
	id, ok := SessionIDFrom(r.Context())
	if !ok || id == uuid.Nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Missing or invalid %s header", XSessionID))
		return uuid.Nil, false
	}
	return id, true
}
