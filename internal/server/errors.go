package server

import (
	"encoding/json"
	"errors"
	"net/http"

	errs "github.com/matzehuels/classdiagram/pkg/errors"
)

var (
	errRouteNotFound    = errs.New(errs.ErrCodeNotFound, "route not found")
	errMethodNotAllowed = errs.New(errs.ErrCodeUnsupported, "method not allowed")
	errInternal         = errs.New(errs.ErrCodeInternal, "internal server error")
)

// handlerFunc is an http.HandlerFunc that reports failures by returning
// them. wrap turns the error into a JSON response.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Server) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}
		if status := statusFor(err); status >= 500 {
			s.log.Error("handling request", "err", err, "request_id", RequestIDFromContext(r.Context()))
		}
		if rw, ok := w.(*responseWriter); ok && rw.written {
			return
		}
		writeError(w, r, err)
	}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error     errorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

type errorDetail struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

// statusFor maps error codes to HTTP statuses: validation failures are 400,
// missing resources 404, everything else 500.
func statusFor(err error) int {
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge
	case errs.IsValidation(err):
		return http.StatusBadRequest
	case errs.IsNotFound(err):
		return http.StatusNotFound
	case errs.Is(err, errs.ErrCodeUnsupported):
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errs.GetCode(err)
	msg := err.Error()
	if code == "" {
		code = errs.ErrCodeInternal
	}
	if status >= 500 {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorBody{
		Error:     errorDetail{Code: code, Message: msg},
		RequestID: RequestIDFromContext(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}
