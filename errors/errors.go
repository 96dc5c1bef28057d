// Package errors provides error types and handling for bucket ownership operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a bucket-controls operation error with context about the operation that failed.
// It wraps the underlying AWS SDK error with additional context for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "getOwnershipControls", "putBucketAcl")
	Op string

	// Bucket is the S3 bucket name (if applicable)
	Bucket string

	// Code optionally overrides the classification reported by CodeOf
	Code ErrorCode

	// Err is the underlying error from the AWS SDK or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" {
		return fmt.Sprintf("s3.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	return fmt.Sprintf("s3.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithCode sets an explicit classification.
func (e *Error) WithCode(code ErrorCode) *Error {
	e.Code = code
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewBucketError creates a new Error with bucket context.
func NewBucketError(op, bucket string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Err:    err,
	}
}

// ServiceError is returned when the legacy-bucket branch of a reconciliation
// fails. It keeps the original message but is a distinct kind so callers can
// tell it apart from a failure to read the source configuration.
type ServiceError struct {
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err with message. A nil err yields nil.
func NewServiceError(message string, err error) error {
	if err == nil {
		return nil
	}
	return &ServiceError{Message: message, Err: err}
}

// IsServiceError reports whether err or anything it wraps is a *ServiceError.
func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}

// Sentinel errors for common failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrOwnershipControlsNotFound indicates the bucket has no ownership-controls resource (legacy bucket)
	ErrOwnershipControlsNotFound = errors.New("s3: ownership controls not found")

	// ErrBucketNotFound indicates that the requested bucket does not exist
	ErrBucketNotFound = errors.New("s3: bucket not found")

	// ErrAccessDenied indicates that access to the resource is denied
	ErrAccessDenied = errors.New("s3: access denied")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("s3: invalid input")

	// ErrInvalidBucketName indicates that the bucket name is invalid
	ErrInvalidBucketName = errors.New("s3: invalid bucket name")

	// ErrInvalidAccountID indicates that an AWS account number is malformed
	ErrInvalidAccountID = errors.New("s3: invalid account id")

	// ErrCredentialsNotFound indicates that no usable access key pair was found
	ErrCredentialsNotFound = errors.New("credentials not found")
)

// IsOwnershipControlsNotFound checks if an error indicates the ownership controls are absent.
func IsOwnershipControlsNotFound(err error) bool {
	return errors.Is(err, ErrOwnershipControlsNotFound)
}

// IsBucketNotFound checks if an error indicates that a bucket was not found.
func IsBucketNotFound(err error) bool {
	return errors.Is(err, ErrBucketNotFound)
}

// IsAccessDenied checks if an error indicates access was denied.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsInvalidInput checks if an error indicates invalid input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidBucketName) ||
		errors.Is(err, ErrInvalidAccountID)
}
