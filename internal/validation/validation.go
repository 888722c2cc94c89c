// Package validation holds the rules applied to member input at the API edge:
// custom validator tags registered on gin's engine, translation of binding
// failures into per-field messages, and coercion of list/search query strings.
package validation

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"padron-agremiados/internal/dto"
)

// ErrInvalidID path id is not a positive integer
var ErrInvalidID = errors.New("ID inválido")

// FieldError one offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error validation failure listing every offending field.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validación fallida: " + strings.Join(parts, "; ")
}

// NewError builds an Error from the given field errors.
func NewError(fields ...FieldError) *Error {
	return &Error{Fields: fields}
}

var registerOnce sync.Once

// Register installs the custom tags on gin's default validator. Safe to call
// more than once.
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("enum", validateEnum)
	})
}

type enumValue interface {
	IsValid() bool
}

// validateEnum accepts only members of a closed enum set.
func validateEnum(fl validator.FieldLevel) bool {
	field := fl.Field()
	if !field.CanInterface() {
		return false
	}
	if e, ok := field.Interface().(enumValue); ok {
		return e.IsValid()
	}
	return false
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// FromBindError converts an error returned by gin's ShouldBindJSON into an *Error.
func FromBindError(err error) *Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   fe.Field(),
				Message: messageFor(fe.Field(), fe.Tag()),
			})
		}
		return &Error{Fields: fields}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return NewError(FieldError{Field: field, Message: "Tipo de dato inválido"})
	}

	if errors.Is(err, io.EOF) {
		return NewError(FieldError{Field: "body", Message: "El cuerpo de la solicitud es requerido"})
	}

	return NewError(FieldError{Field: "body", Message: "El cuerpo de la solicitud no es un JSON válido"})
}

// ParseListQuery coerces q/page/limit from the query string. Absent or empty
// page and limit take their defaults; present values must be positive integers
// and limit may not exceed dto.MaxLimit.
func ParseListQuery(values url.Values) (*dto.AgremiadoQuery, error) {
	q := &dto.AgremiadoQuery{
		Q:     strings.TrimSpace(values.Get("q")),
		Page:  dto.DefaultPage,
		Limit: dto.DefaultLimit,
	}

	var fields []FieldError
	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			fields = append(fields, FieldError{Field: "page", Message: messageFor("page", "min")})
		} else {
			q.Page = n
		}
	}
	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil || n <= 0:
			fields = append(fields, FieldError{Field: "limit", Message: messageFor("limit", "min")})
		case n > dto.MaxLimit:
			fields = append(fields, FieldError{Field: "limit", Message: messageFor("limit", "max")})
		default:
			q.Limit = n
		}
	}

	// the page offset must fit in an int
	if len(fields) == 0 && q.Page-1 > math.MaxInt/q.Limit {
		fields = append(fields, FieldError{Field: "page", Message: messageFor("page", "max")})
	}

	if len(fields) > 0 {
		return nil, &Error{Fields: fields}
	}
	return q, nil
}

// ParseID parses a path id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
