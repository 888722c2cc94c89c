package client

import (
	"errors"
	"fmt"
)

// ErrNoData export of an empty dataset
var ErrNoData = errors.New("no hay datos para exportar")

// FieldError per-field validation detail returned by the API.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError non-2xx answer from the API.
type APIError struct {
	Status  int          `json:"-"`
	Code    string       `json:"error"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// FieldMessage returns the detail message for field, or "".
func (e *APIError) FieldMessage(field string) string {
	for _, d := range e.Details {
		if d.Field == field {
			return d.Message
		}
	}
	return ""
}

// AsAPIError unwraps err into an *APIError when it carries one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
