package response

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is the envelope every JSON endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	JSON(w, statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Error(w http.ResponseWriter, statusCode int, message string, err interface{}) {
	JSON(w, statusCode, Response{
		Success: false,
		Message: message,
		Error:   err,
	})
}

// ValidationError carries the per-field messages produced by the validator.
func ValidationError(w http.ResponseWriter, fields interface{}) {
	Error(w, http.StatusBadRequest, "Validation failed", fields)
}

// status writes an error envelope, falling back to the standard status text.
func status(w http.ResponseWriter, statusCode int, message string) {
	if message == "" {
		message = http.StatusText(statusCode)
	}
	Error(w, statusCode, message, nil)
}

func BadRequest(w http.ResponseWriter, message string) {
	status(w, http.StatusBadRequest, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	status(w, http.StatusUnauthorized, message)
}

// PaymentRequired signals that the feature needs an active subscription.
func PaymentRequired(w http.ResponseWriter, message string) {
	status(w, http.StatusPaymentRequired, message)
}

func Forbidden(w http.ResponseWriter, message string) {
	status(w, http.StatusForbidden, message)
}

func NotFound(w http.ResponseWriter, message string) {
	status(w, http.StatusNotFound, message)
}

func Conflict(w http.ResponseWriter, message string) {
	status(w, http.StatusConflict, message)
}

func InternalServerError(w http.ResponseWriter, message string) {
	status(w, http.StatusInternalServerError, message)
}

func ServiceUnavailable(w http.ResponseWriter, message string) {
	status(w, http.StatusServiceUnavailable, message)
}

// PDF writes body as a downloadable attachment.
func PDF(w http.ResponseWriter, filename string, body []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(body)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
