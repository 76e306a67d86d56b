// Package httpapi exposes the diary services over HTTP. Requests are
// form-encoded; every response body is a JSON envelope
// {"status": code, "message": text, "data": payload}.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/diary/internal/common"
	"github.com/dmitrijs2005/diary/internal/logging"
)

// Status is the application-level result code carried in the envelope.
type Status int

const (
	StatusOk Status = iota
	StatusUserExists
	StatusAuthenticationFailed
	StatusNoRecord
	StatusInvalidSession
	StatusInternalError
	StatusBadRequest
)

var statusMessages = map[Status]string{
	StatusOk:                   "Success",
	StatusUserExists:           "User already exists",
	StatusAuthenticationFailed: "Authentication failed",
	StatusNoRecord:             "No record",
	StatusInvalidSession:       "Invalid session",
	StatusInternalError:        "Internal server error",
	StatusBadRequest:           "Bad request",
}

func (s Status) Message() string { return statusMessages[s] }

// HTTPCode is the transport status that accompanies s. Business outcomes
// travel as 200 with a non-zero envelope status.
func (s Status) HTTPCode() int {
	switch s {
	case StatusInvalidSession:
		return http.StatusForbidden
	case StatusBadRequest:
		return http.StatusBadRequest
	case StatusInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

type Response struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{Status: StatusOk, Message: StatusOk.Message(), Data: data})
}

func writeStatus(w http.ResponseWriter, s Status, message string) {
	if message == "" {
		message = s.Message()
	}
	writeJSON(w, s.HTTPCode(), Response{Status: s, Message: message})
}

// statusFor maps a service error to its envelope status.
func statusFor(err error) Status {
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		return StatusUserExists
	case errors.Is(err, common.ErrorAuthenticationFailed):
		return StatusAuthenticationFailed
	case errors.Is(err, common.ErrorNotFound):
		return StatusNoRecord
	case errors.Is(err, common.ErrorInvalidSession):
		return StatusInvalidSession
	case errors.Is(err, common.ErrorValidation):
		return StatusBadRequest
	default:
		return StatusInternalError
	}
}

// writeError writes the envelope for err. Validation errors keep their
// message; internal errors are logged and answered generically.
func writeError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	s := statusFor(err)
	switch s {
	case StatusBadRequest:
		writeStatus(w, s, err.Error())
	case StatusInternalError:
		logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeStatus(w, s, "")
	default:
		writeStatus(w, s, "")
	}
}
