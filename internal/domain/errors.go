package domain

import "errors"

var (
	// ErrInvalidInput is returned for empty or otherwise unusable user text.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration is returned for unknown operations or a missing corpus.
	ErrConfiguration = errors.New("configuration error")

	// ErrBackendUnavailable is returned once retries against the generation
	// backend are exhausted.
	ErrBackendUnavailable = errors.New("generation backend unavailable")

	// ErrInvalidResponse is returned when the backend payload cannot be
	// parsed or contains no answer.
	ErrInvalidResponse = errors.New("invalid backend response")

	// ErrInputTooLarge is returned when text exceeds the summarization
	// model's context window.
	ErrInputTooLarge = errors.New("input too large")
)

// ErrorKind names the taxonomy entry an error belongs to, for exchange
// records and user-facing messages. Raw backend internals stay out of it.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrConfiguration):
		return "configuration_error"
	case errors.Is(err, ErrBackendUnavailable):
		return "backend_unavailable"
	case errors.Is(err, ErrInvalidResponse):
		return "invalid_response"
	case errors.Is(err, ErrInputTooLarge):
		return "input_too_large"
	}
	return "internal_error"
}
