package linode

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultErrorMessage is shown when an error list carries no usable reason.
const DefaultErrorMessage = "An unexpected error occurred."

// APIError is a single field-scoped error as returned by the API.
type APIError struct {
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

func (e APIError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// APIErrors is the list form the API uses for every failure.
type APIErrors []APIError

func (errs APIErrors) Error() string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

// ErrorStringOrDefault returns the first reason in errs, or the default
// message when there is none. An optional override replaces the default.
func ErrorStringOrDefault(errs APIErrors, defaultMessage ...string) string {
	fallback := DefaultErrorMessage
	if len(defaultMessage) > 0 && defaultMessage[0] != "" {
		fallback = defaultMessage[0]
	}
	if len(errs) == 0 || errs[0].Reason == "" {
		return fallback
	}
	return errs[0].Reason
}

// ResponseError is a non-2xx API response.
type ResponseError struct {
	StatusCode int
	Errors     APIErrors
}

func (e *ResponseError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned status %d: %s", e.StatusCode, e.Errors.Error())
}

// ValidationError reports a payload rejected by its schema before dispatch.
type ValidationError struct {
	Schema string
	Errors APIErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s payload: %s", e.Schema, e.Errors.Error())
}

// AsAPIErrors converts any error into the field-error list the UI renders.
// A nil error yields nil.
func AsAPIErrors(err error) APIErrors {
	if err == nil {
		return nil
	}
	var respErr *ResponseError
	if errors.As(err, &respErr) && len(respErr.Errors) > 0 {
		return respErr.Errors
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) && len(valErr.Errors) > 0 {
		return valErr.Errors
	}
	var list APIErrors
	if errors.As(err, &list) {
		return list
	}
	return APIErrors{{Reason: err.Error()}}
}
