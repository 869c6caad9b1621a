package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Tiliavir/chronos-timereg/internal/chronos"
	"github.com/Tiliavir/chronos-timereg/internal/timesheet"
)

type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func success(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, Response{Success: true, Data: data})
}

func fail(w http.ResponseWriter, status int, code, message string, details map[string]string) {
	writeJSON(w, status, Response{
		Error: &ErrorDetail{Code: code, Message: message, Details: details},
	})
}

func badRequest(w http.ResponseWriter, message string) {
	fail(w, http.StatusBadRequest, "BAD_REQUEST", message, nil)
}

// handleError maps timesheet and backend errors to HTTP responses.
func handleError(w http.ResponseWriter, err error) {
	var verrs timesheet.ValidationErrors
	if errors.As(err, &verrs) {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", verrs)
		return
	}
	var apiErr *chronos.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Unauthorized() {
			fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "The Chronos backend rejected the stored login", nil)
			return
		}
		fail(w, http.StatusBadGateway, "BACKEND_ERROR", err.Error(), nil)
		return
	}

	switch {
	case errors.Is(err, timesheet.ErrInvalidHours):
		fail(w, http.StatusBadRequest, "INVALID_HOURS", err.Error(), nil)
	case errors.Is(err, timesheet.ErrOutsideWindow):
		fail(w, http.StatusConflict, "OUTSIDE_WEEK", err.Error(), nil)
	case errors.Is(err, timesheet.ErrFullLeaveDay):
		fail(w, http.StatusConflict, "FULL_LEAVE_DAY", err.Error(), nil)
	case errors.Is(err, timesheet.ErrEntryNotFound):
		fail(w, http.StatusNotFound, "ENTRY_NOT_FOUND", err.Error(), nil)
	case errors.Is(err, timesheet.ErrLeaveNotFound):
		fail(w, http.StatusNotFound, "LEAVE_NOT_FOUND", err.Error(), nil)
	case errors.Is(err, timesheet.ErrNoUser):
		fail(w, http.StatusInternalServerError, "NO_USER", err.Error(), nil)
	default:
		slog.Error("unhandled error", "error", err)
		fail(w, http.StatusBadGateway, "BACKEND_ERROR", err.Error(), nil)
	}
}
