package tools

import (
	"encoding/json"
	"errors"

	"github.com/Domenick1991/agentair/internal/domain"
)

// Error categories reported in ErrorInfo.
const (
	CategoryValidation   = "validation"
	CategoryNotFound     = "not_found"
	CategoryPrecondition = "precondition"
	CategoryInternal     = "internal"
)

type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ErrorInfo struct {
	Category string `json:"category"`
}

// Result is the outcome of a tool call. Content always carries the JSON
// rendering as text; StructuredContent carries the same value on success.
type Result struct {
	Content           []ContentBlock `json:"content"`
	StructuredContent any            `json:"structuredContent,omitempty"`
	IsError           bool           `json:"isError,omitempty"`
	ErrorInfo         *ErrorInfo     `json:"errorInfo,omitempty"`
}

// Text returns the first text block.
func (r Result) Text() string {
	if len(r.Content) == 0 {
		return ""
	}
	return r.Content[0].Text
}

// Error is a failed call. Details are merged into the error body next to
// the message.
type Error struct {
	Category string
	Message  string
	Details  map[string]any
}

func (e *Error) Error() string { return e.Message }

func validationError(msg string) *Error {
	return &Error{Category: CategoryValidation, Message: msg}
}

func notFound(msg string, details map[string]any) *Error {
	return &Error{Category: CategoryNotFound, Message: msg, Details: details}
}

func precondition(msg string) *Error {
	return &Error{Category: CategoryPrecondition, Message: msg}
}

// asError classifies err, falling back on the domain sentinels.
func asError(err error) *Error {
	var te *Error
	if errors.As(err, &te) {
		return te
	}
	switch {
	case errors.Is(err, domain.ErrFlightNotFound),
		errors.Is(err, domain.ErrClassNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrSeatUnavailable),
		errors.Is(err, domain.ErrNoSeatsLeft):
		return &Error{Category: CategoryNotFound, Message: err.Error()}
	case errors.Is(err, domain.ErrEmptyBooking), errors.Is(err, domain.ErrConsentDecided):
		return &Error{Category: CategoryPrecondition, Message: err.Error()}
	case errors.Is(err, domain.ErrUnknownCabin):
		return &Error{Category: CategoryValidation, Message: err.Error()}
	}
	return &Error{Category: CategoryInternal, Message: err.Error()}
}

func errorResult(e *Error) Result {
	body := map[string]any{"error": e.Message}
	for k, v := range e.Details {
		body[k] = v
	}
	return Result{
		Content:   []ContentBlock{{Type: "text", Text: render(body)}},
		IsError:   true,
		ErrorInfo: &ErrorInfo{Category: e.Category},
	}
}

func successResult(out any) Result {
	return Result{
		Content:           []ContentBlock{{Type: "text", Text: render(out)}},
		StructuredContent: out,
	}
}

func render(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return `{"error":"unrenderable result"}`
	}
	return string(data)
}
