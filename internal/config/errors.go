package config

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrorCode categorizes configuration loading errors.
type ErrorCode string

const (
	// ErrCodeReadFailed indicates the config file could not be read.
	ErrCodeReadFailed ErrorCode = "READ_FAILED"

	// ErrCodeUnsupportedFormat indicates a config file extension other than
	// .yaml, .yml or .cue.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"

	// ErrCodeParseFailed indicates the file is not valid YAML or CUE.
	ErrCodeParseFailed ErrorCode = "PARSE_FAILED"

	// ErrCodeSchemaViolation indicates the values do not satisfy #Config.
	ErrCodeSchemaViolation ErrorCode = "SCHEMA_VIOLATION"

	// ErrCodeInvalidEnv indicates an MSPEC_* variable could not be parsed.
	ErrCodeInvalidEnv ErrorCode = "INVALID_ENV"
)

// Error is returned by Load, LoadFile and Validate.
type Error struct {
	Code    ErrorCode
	Source  string // file path or environment variable
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Source, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// IsSchemaViolation reports whether err is a schema violation.
func IsSchemaViolation(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeSchemaViolation
	}
	return false
}

func newError(code ErrorCode, source string, cause error, format string, args ...any) error {
	err := &Error{
		Code:    code,
		Source:  source,
		Message: fmt.Sprintf(format, args...),
		cause:   cause,
	}
	if code == ErrCodeSchemaViolation {
		return errors.WithHint(errors.WithStack(err),
			"allowed keys: log_level (debug|info|warn|error), log_format (text|json), include, exclude, store, verbose")
	}
	return errors.WithStack(err)
}
