package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"olympics-storefront/internal/models"
)

// Error is a non-2xx answer from the ticketing API
type Error struct {
	Method     string
	Path       string
	StatusCode int
	// Detail is the human-readable message the API returned, if any.
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %s %s: %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api: %s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// Message returns what should be shown to a visitor
func (e *Error) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return http.StatusText(e.StatusCode)
}

// errorBody is the FastAPI error envelope. detail is a string for
// HTTPException and a list of objects for request validation failures.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationDetail struct {
	Msg string `json:"msg"`
	Loc []any  `json:"loc"`
}

func newError(method, path string, status int, body []byte) *Error {
	apiErr := &Error{Method: method, Path: path, StatusCode: status}

	var envelope errorBody
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
		apiErr.Detail = detail
		return apiErr
	}

	var details []validationDetail
	if err := json.Unmarshal(envelope.Detail, &details); err == nil && len(details) > 0 {
		msgs := make([]string, 0, len(details))
		for _, d := range details {
			if d.Msg != "" {
				msgs = append(msgs, d.Msg)
			}
		}
		apiErr.Detail = strings.Join(msgs, "; ")
	}

	return apiErr
}

// StatusCode extracts the HTTP status of an API error, or 0
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Message returns the visitor-facing message for err: the API detail when the
// error came from the API, the error text otherwise.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return err.Error()
}

// ContractError reports a successful response that lacks a required field
type ContractError struct {
	Resource string
	Field    string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("api: %s response is missing required field %q", e.Resource, e.Field)
}

// Unwrap lets callers match contract errors with errors.Is
func (e *ContractError) Unwrap() error {
	if e.Field == "id" {
		return models.ErrMissingIdentifier
	}
	return models.ErrMalformedResponse
}
