// Package request decodes path variables, query parameters and JSON bodies
// into typed values, reporting malformed input as validation errors.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/WailSalutem-Health-Care/membership-service/internal/apperr"
	"github.com/gorilla/mux"
)

// MaxBodyBytes bounds a JSON request body.
const MaxBodyBytes = 1 << 20

// ErrMissingID is returned when the path carries no id.
var ErrMissingID = apperr.Validation("id is required")

// PathID parses the positive integer path variable name.
func PathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	if raw == "" {
		return 0, ErrMissingID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation(fmt.Sprintf("%s must be a positive integer", name))
	}
	return id, nil
}

// DecodeJSON reads a single JSON object from the body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperr.Validation("request body is required")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is required")
		}
		return apperr.Validation("invalid JSON payload: " + err.Error())
	}
	return nil
}

// Int64 returns nil when key is absent.
func Int64(q url.Values, key string) (*int64, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, apperr.Validation(fmt.Sprintf("%s must be an integer", key))
	}
	return &v, nil
}

// Bool returns nil when key is absent.
func Bool(q url.Values, key string) (*bool, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, apperr.Validation(fmt.Sprintf("%s must be true or false", key))
	}
	return &v, nil
}
