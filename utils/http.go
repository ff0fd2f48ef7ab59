package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// Envelope status strings
const (
	StatusSuccess    = "success"
	StatusBadRequest = "Bad request"
	StatusNotFound   = "Not found"
	StatusError      = "error"
)

// ErrResponseWritten is returned when a handler tries to respond twice
var ErrResponseWritten = errors.New("response already written")

// SuccessResponse is the envelope for successful requests
type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// FailureResponse is the envelope for rejected requests
type FailureResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// FieldErrorsResponse lists per-field validation failures
type FieldErrorsResponse struct {
	Errors []FieldError `json:"errors"`
}

// statusReporter is implemented by wrapped writers (chi's WrapResponseWriter)
// that know whether a status has already been sent.
type statusReporter interface {
	Status() int
}

// WriteJSON writes a JSON response with the given status code. When the
// writer reports that a status was already sent it writes nothing and
// returns ErrResponseWritten.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	if sr, ok := w.(statusReporter); ok && sr.Status() != 0 {
		return ErrResponseWritten
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes the success envelope
func WriteSuccess(w http.ResponseWriter, status int, message string, data interface{}) error {
	return WriteJSON(w, status, SuccessResponse{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

// WriteOK writes a 200 success envelope
func WriteOK(w http.ResponseWriter, message string, data interface{}) error {
	return WriteSuccess(w, http.StatusOK, message, data)
}

// WriteCreated writes a 201 success envelope
func WriteCreated(w http.ResponseWriter, message string, data interface{}) error {
	return WriteSuccess(w, http.StatusCreated, message, data)
}

// WriteFailure writes the failure envelope, echoing the status code in the body
func WriteFailure(w http.ResponseWriter, status int, statusText, message string) error {
	return WriteJSON(w, status, FailureResponse{
		Status:     statusText,
		Message:    message,
		StatusCode: status,
	})
}

// WriteUnauthorized writes a 401 failure envelope
func WriteUnauthorized(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "Authentication required"
	}
	return WriteFailure(w, http.StatusUnauthorized, StatusBadRequest, message)
}

// WriteNotFound writes a 404 failure envelope
func WriteNotFound(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return WriteFailure(w, http.StatusNotFound, StatusNotFound, message)
}

// WriteUnprocessable writes a 422 failure envelope
func WriteUnprocessable(w http.ResponseWriter, message string) error {
	return WriteFailure(w, http.StatusUnprocessableEntity, StatusBadRequest, message)
}

// WriteInternalServerError writes a 500 failure envelope
func WriteInternalServerError(w http.ResponseWriter, message string) error {
	if message == "" {
		message = "Internal server error"
	}
	return WriteFailure(w, http.StatusInternalServerError, StatusError, message)
}

// WriteFieldErrors writes a 422 response listing each invalid field
func WriteFieldErrors(w http.ResponseWriter, fields []FieldError) error {
	if fields == nil {
		fields = []FieldError{}
	}
	return WriteJSON(w, http.StatusUnprocessableEntity, FieldErrorsResponse{Errors: fields})
}

// DecodeJSON decodes the request body into dst. An empty body decodes as {}.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}
