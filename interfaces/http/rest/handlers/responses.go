package handlers

import (
	"encoding/json"
	"net/http"

	pkgerrors "blog-backend/pkg/errors"

	"go.uber.org/zap"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

// RespondError sends an error response
func RespondError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, APIResponse{
		Error: &ErrorInfo{Code: code, Message: message},
	})
}

// RespondAppError maps err to its HTTP status and error body
func RespondAppError(w http.ResponseWriter, err error, logger *zap.Logger) {
	appErr := pkgerrors.GetAppError(err)
	if appErr == nil {
		appErr = pkgerrors.NewInternalError("internal error").WithCause(err)
	}

	message := appErr.Message
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.String("errorType", string(appErr.Type)), zap.Error(err))
		if appErr.Type != pkgerrors.ErrorTypeUnavailable {
			message = "the operation could not be completed"
		}
	}

	writeJSON(w, status, APIResponse{
		Error: &ErrorInfo{
			Code:    string(appErr.Type),
			Message: message,
			Details: appErr.Details,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
