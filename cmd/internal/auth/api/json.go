package authapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// apiResponse is the success envelope: every 2xx body has this shape.
type apiResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// apiError is the failure envelope. Errors carries field-level detail when
// available; stack traces never leave the process.
type apiError struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any, msg string) {
	writeJSON(w, status, apiResponse{
		StatusCode: status,
		Data:       data,
		Message:    msg,
		Success:    true,
	})
}

func writeError(w http.ResponseWriter, status int, msg string, details ...string) {
	if details == nil {
		details = []string{}
	}
	writeJSON(w, status, apiError{
		StatusCode: status,
		Message:    msg,
		Success:    false,
		Errors:     details,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	defer func() { _ = r.Body.Close() }()

	body := http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// Ensure there is no extra data after the first JSON value.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after JSON object")
	}
	return nil
}
