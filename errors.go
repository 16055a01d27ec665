package lingo

import "fmt"

// ValidationError indicates a malformed request (empty or oversized text,
// invalid language pair). Validation failures are never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ProviderError indicates a single adapter call failed (network, quota,
// unsupported language, timeout).
type ProviderError struct {
	Provider  string
	Message   string
	Cause     error
	Retryable bool // Whether the operation can be retried
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("provider %s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// DetectionError indicates a language detection failure.
type DetectionError struct {
	Message string
	Cause   error
}

func (e *DetectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("detection error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("detection error: %s", e.Message)
}

func (e *DetectionError) Unwrap() error {
	return e.Cause
}

// TTSError indicates a speech synthesis failure.
type TTSError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *TTSError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("tts error (%s): %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("tts error (%s): %s", e.Provider, e.Message)
}

func (e *TTSError) Unwrap() error {
	return e.Cause
}

// ExhaustedRetriesError indicates every provider failed on every attempt.
// The message is deliberately generic: the underlying provider errors are
// logged, not exposed to callers.
type ExhaustedRetriesError struct {
	Attempts int
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("translation failed after %d attempts, please try again", e.Attempts)
}
