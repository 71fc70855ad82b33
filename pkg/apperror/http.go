package apperror

import (
	"errors"
	"net/http"
)

// HTTPStatus maps err to a response code; errors that are not *Error are internal.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	return GetHTTPStatus(e.Kind)
}

func GetHTTPStatus(kind Kind) int {

	switch kind {
	case InvalidInput:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case RequestTimeout:
		return http.StatusGatewayTimeout
	case Dependency, DatabaseErr:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
