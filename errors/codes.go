package errors

import "errors"

// ErrorCode classifies a failure for callers that report on outcomes rather
// than inspect the error chain. Codes are strings so they read well in logs.
type ErrorCode string

const (
	// CodeNotFound indicates a bucket or configuration does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeForbidden indicates the credentials lack permission for the call.
	CodeForbidden ErrorCode = "FORBIDDEN"

	// CodeInvalidInput indicates a bucket name, account or policy was rejected before any call was made.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates credentials or CLI configuration could not be loaded.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// CodeExecutionFailed indicates a remote call failed part way through a reconciliation.
	CodeExecutionFailed ErrorCode = "EXECUTION_FAILED"

	// CodeUnknown indicates an unclassified error.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// CodeOf returns the code that best describes err.
// An explicit Code on an *Error in the chain wins over sentinel matching.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}

	switch {
	case errors.Is(err, ErrOwnershipControlsNotFound), errors.Is(err, ErrBucketNotFound):
		return CodeNotFound
	case errors.Is(err, ErrAccessDenied):
		return CodeForbidden
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidBucketName),
		errors.Is(err, ErrInvalidAccountID):
		return CodeInvalidInput
	case errors.Is(err, ErrCredentialsNotFound):
		return CodeInvalidConfig
	case IsServiceError(err):
		return CodeExecutionFailed
	}

	return CodeUnknown
}
