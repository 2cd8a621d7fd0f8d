package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/foodgram-go/internal/apperror"
)

// ErrorBody is the body of every non-2xx response.
type ErrorBody struct {
	status  int
	Message string `doc:"Human readable error" example:"recipe not found" json:"error"`
}

func (e *ErrorBody) Error() string {
	return e.Message
}

func (e *ErrorBody) GetStatus() int {
	return e.status
}

// UseErrorBody replaces huma's problem+json errors with ErrorBody. Request
// validation failures are reported as 400 like any other invalid input.
// Call it before registering operations.
func UseErrorBody() {
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity {
			status = http.StatusBadRequest
		}

		if status < http.StatusInternalServerError && len(errs) > 0 && errs[0] != nil {
			msg += ": " + errs[0].Error()
		}

		return &ErrorBody{status: status, Message: msg}
	}
}

// UseRouterErrors answers unknown paths and unsupported methods with an
// ErrorBody instead of chi's plain text defaults.
func UseRouterErrors(router chi.Router) {
	router.NotFound(writeError(http.StatusNotFound, "not found"))
	router.MethodNotAllowed(writeError(http.StatusMethodNotAllowed, "method not allowed"))
}

func writeError(status int, msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(&ErrorBody{status: status, Message: msg})
	}
}

// httpError maps err onto the status of the apperror kind it wraps. The
// cause of internal errors is never sent to the client; services log it.
func httpError(err error) error {
	switch apperror.Kind(err) {
	case apperror.ErrInvalidInput, apperror.ErrEmptyCollection:
		return huma.Error400BadRequest(err.Error())
	case apperror.ErrUnauthenticated:
		return huma.Error401Unauthorized(err.Error())
	case apperror.ErrForbidden:
		return huma.Error403Forbidden(err.Error())
	case apperror.ErrNotFound:
		return huma.Error404NotFound(err.Error())
	case apperror.ErrConflict:
		return huma.Error409Conflict(err.Error())
	default:
		return huma.Error500InternalServerError("internal server error")
	}
}
