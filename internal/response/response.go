// Package response writes the uniform JSON envelope every endpoint returns:
// {"success": bool, "data": any|null, "errMsg": string|null}.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/WailSalutem-Health-Care/membership-service/internal/apperr"
	"github.com/sirupsen/logrus"
)

type Envelope struct {
	Success bool    `json:"success"`
	Data    any     `json:"data"`
	ErrMsg  *string `json:"errMsg"`
}

// StatusMap overrides the HTTP status chosen for an error kind.
type StatusMap map[apperr.Kind]int

var defaultStatus = StatusMap{
	apperr.KindValidation:   http.StatusBadRequest,
	apperr.KindConflict:     http.StatusBadRequest,
	apperr.KindNotFound:     http.StatusNotFound,
	apperr.KindUpdateFailed: http.StatusBadRequest,
	apperr.KindDeleteFailed: http.StatusBadRequest,
	apperr.KindForbidden:    http.StatusForbidden,
	apperr.KindPersistence:  http.StatusInternalServerError,
}

// JSON writes a success envelope.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Success: true, Data: data})
}

// Error writes a failure envelope with msg.
func Error(w http.ResponseWriter, status int, msg string) {
	write(w, status, Envelope{Success: false, ErrMsg: &msg})
}

// StatusFor returns the HTTP status for err, consulting overrides first.
func StatusFor(err error, overrides ...StatusMap) int {
	kind := apperr.KindOf(err)
	for _, o := range overrides {
		if status, ok := o[kind]; ok {
			return status
		}
	}
	if status, ok := defaultStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FromError writes the failure envelope for err.
func FromError(w http.ResponseWriter, err error, overrides ...StatusMap) {
	status := StatusFor(err, overrides...)
	if status >= http.StatusInternalServerError {
		logrus.Errorf("request failed: %v", err)
	}
	Error(w, status, apperr.Message(err))
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		logrus.Warnf("failed to encode response: %v", err)
	}
}
