// Provides helper functions for error mapping and raw responses.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"lettingscope/internal/server/dto"
	"lettingscope/internal/storage"
)

// storeErr maps storage layer errors onto API errors. resource names what was
// being operated on, for 404 messages.
func storeErr(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return dto.NotFound(resource).Wrap(err)
	case errors.Is(err, storage.ErrInvalidFormat):
		return dto.InvalidFormat(err.Error()).Wrap(err)
	case errors.Is(err, storage.ErrStorage):
		return dto.StorageError("failed to persist change").Wrap(err)
	default:
		return err
	}
}

// writeErrorResponse writes an error as a JSON response. Use this in raw
// http.HandlerFunc handlers that don't use server.Wrap.
func writeErrorResponse(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	errorCode := dto.ErrorCodeInternal
	message := "internal error"
	var details map[string]any

	var ewsErr dto.ErrorWithStatus
	if errors.As(err, &ewsErr) {
		statusCode = ewsErr.StatusCode()
		errorCode = ewsErr.Code()
		message = ewsErr.Error()
		details = ewsErr.Details()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	response := dto.ErrorResponse{
		Error: dto.ErrorDetails{
			Code:    errorCode,
			Message: message,
		},
		Details: details,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}

// writeJSON writes a 200 JSON response. Raw handler counterpart of the Wrap
// success path.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
