// Package validation holds the field-error model shared by the request
// validators and the rules built on go-playground/validator.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Message is the top-level message of every validation failure.
const Message = "The given data was invalid"

// Errors maps a request field to its messages.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Err returns nil when nothing was collected.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return &Error{Errors: e}
}

// Error is returned by validators and services when input is rejected.
type Error struct {
	Errors Errors
}

func (e *Error) Error() string {
	return Message
}

// NewError builds a failure carrying a single field message.
func NewError(field, message string) *Error {
	errs := Errors{}
	errs.Add(field, message)
	return &Error{Errors: errs}
}

// As extracts a *Error from err's chain.
func As(err error) (*Error, bool) {
	var vErr *Error
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

// Label turns a JSON field name into the wording used in messages.
func Label(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

func Required(field string) string {
	return fmt.Sprintf("The %s field is required.", Label(field))
}

func Invalid(field string) string {
	return fmt.Sprintf("The selected %s is invalid.", Label(field))
}

func Taken(field string) string {
	return fmt.Sprintf("The %s has already been taken.", Label(field))
}

func NotDate(field string) string {
	return fmt.Sprintf("The %s is not a valid date.", Label(field))
}

func AfterOrEqual(field, other string) string {
	return fmt.Sprintf("The %s must be a date after or equal to %s.", Label(field), Label(other))
}

// WrongType is the message for a JSON value that cannot be decoded into the
// Go type of its field.
func WrongType(field string, t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	label := Label(field)
	switch t.Kind() {
	case reflect.String:
		return fmt.Sprintf("The %s must be a string.", label)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("The %s must be an integer.", label)
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("The %s must be a number.", label)
	case reflect.Bool:
		return fmt.Sprintf("The %s field must be true or false.", label)
	case reflect.Slice, reflect.Array:
		return fmt.Sprintf("The %s must be an array.", label)
	default:
		return fmt.Sprintf("The %s field is invalid.", label)
	}
}
