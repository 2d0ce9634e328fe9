package analysis

import "errors"

var (
	// ErrEmptyRequest is returned before any AI call when the request text is blank.
	ErrEmptyRequest = errors.New("analysis request is empty")

	// ErrEmptyResponse indicates the text model answered with no content.
	ErrEmptyResponse = errors.New("empty response from ai")

	// ErrInvalidResponse indicates the text model output is not valid JSON or
	// does not match the declared result shape.
	ErrInvalidResponse = errors.New("invalid ai response")

	// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
	ErrQuotaExceeded = errors.New("ai quota exceeded")

	// ErrAIUnavailable indicates the provider adapter is not configured.
	ErrAIUnavailable = errors.New("ai provider not configured")
)
