// Package testutil provides test utilities and mocks for bucket-controls operations.
// This package is internal and should only be used for testing within this module.
package testutil

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/aws-samples/sample-migratings3bucketownership/internal/s3api"
)

// Operation names recorded by MockS3Client.
const (
	OpGetBucketOwnershipControls    = "GetBucketOwnershipControls"
	OpPutBucketOwnershipControls    = "PutBucketOwnershipControls"
	OpDeleteBucketOwnershipControls = "DeleteBucketOwnershipControls"
	OpGetBucketAcl                  = "GetBucketAcl"
	OpPutBucketAcl                  = "PutBucketAcl"
)

// MockS3Client is a mock implementation of the BucketControlsAPI interface for testing.
// It allows customization of each operation through function fields and records
// every call in order.
type MockS3Client struct {
	GetBucketOwnershipControlsFunc    func(context.Context, *s3.GetBucketOwnershipControlsInput, ...func(*s3.Options)) (*s3.GetBucketOwnershipControlsOutput, error)
	PutBucketOwnershipControlsFunc    func(context.Context, *s3.PutBucketOwnershipControlsInput, ...func(*s3.Options)) (*s3.PutBucketOwnershipControlsOutput, error)
	DeleteBucketOwnershipControlsFunc func(context.Context, *s3.DeleteBucketOwnershipControlsInput, ...func(*s3.Options)) (*s3.DeleteBucketOwnershipControlsOutput, error)
	GetBucketAclFunc                  func(context.Context, *s3.GetBucketAclInput, ...func(*s3.Options)) (*s3.GetBucketAclOutput, error)
	PutBucketAclFunc                  func(context.Context, *s3.PutBucketAclInput, ...func(*s3.Options)) (*s3.PutBucketAclOutput, error)

	mu    sync.Mutex
	calls []string

	// Last inputs of the write operations, for assertions
	LastPutOwnershipControls    *s3.PutBucketOwnershipControlsInput
	LastDeleteOwnershipControls *s3.DeleteBucketOwnershipControlsInput
	LastPutBucketAcl            *s3.PutBucketAclInput
}

func (m *MockS3Client) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, op)
}

// Calls returns the operations invoked so far, in order.
func (m *MockS3Client) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times op was invoked.
func (m *MockS3Client) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == op {
			n++
		}
	}
	return n
}

// Writes returns the number of mutating calls made.
func (m *MockS3Client) Writes() int {
	return m.CallCount(OpPutBucketOwnershipControls) +
		m.CallCount(OpDeleteBucketOwnershipControls) +
		m.CallCount(OpPutBucketAcl)
}

// GetBucketOwnershipControls mocks the S3 GetBucketOwnershipControls operation.
func (m *MockS3Client) GetBucketOwnershipControls(
	ctx context.Context,
	params *s3.GetBucketOwnershipControlsInput,
	optFns ...func(*s3.Options),
) (*s3.GetBucketOwnershipControlsOutput, error) {
	m.record(OpGetBucketOwnershipControls)
	if m.GetBucketOwnershipControlsFunc != nil {
		return m.GetBucketOwnershipControlsFunc(ctx, params, optFns...)
	}
	return &s3.GetBucketOwnershipControlsOutput{}, nil
}

// PutBucketOwnershipControls mocks the S3 PutBucketOwnershipControls operation.
func (m *MockS3Client) PutBucketOwnershipControls(
	ctx context.Context,
	params *s3.PutBucketOwnershipControlsInput,
	optFns ...func(*s3.Options),
) (*s3.PutBucketOwnershipControlsOutput, error) {
	m.record(OpPutBucketOwnershipControls)
	m.mu.Lock()
	m.LastPutOwnershipControls = params
	m.mu.Unlock()
	if m.PutBucketOwnershipControlsFunc != nil {
		return m.PutBucketOwnershipControlsFunc(ctx, params, optFns...)
	}
	return &s3.PutBucketOwnershipControlsOutput{}, nil
}

// DeleteBucketOwnershipControls mocks the S3 DeleteBucketOwnershipControls operation.
func (m *MockS3Client) DeleteBucketOwnershipControls(
	ctx context.Context,
	params *s3.DeleteBucketOwnershipControlsInput,
	optFns ...func(*s3.Options),
) (*s3.DeleteBucketOwnershipControlsOutput, error) {
	m.record(OpDeleteBucketOwnershipControls)
	m.mu.Lock()
	m.LastDeleteOwnershipControls = params
	m.mu.Unlock()
	if m.DeleteBucketOwnershipControlsFunc != nil {
		return m.DeleteBucketOwnershipControlsFunc(ctx, params, optFns...)
	}
	return &s3.DeleteBucketOwnershipControlsOutput{}, nil
}

// GetBucketAcl mocks the S3 GetBucketAcl operation.
func (m *MockS3Client) GetBucketAcl(
	ctx context.Context,
	params *s3.GetBucketAclInput,
	optFns ...func(*s3.Options),
) (*s3.GetBucketAclOutput, error) {
	m.record(OpGetBucketAcl)
	if m.GetBucketAclFunc != nil {
		return m.GetBucketAclFunc(ctx, params, optFns...)
	}
	return &s3.GetBucketAclOutput{}, nil
}

// PutBucketAcl mocks the S3 PutBucketAcl operation.
func (m *MockS3Client) PutBucketAcl(
	ctx context.Context,
	params *s3.PutBucketAclInput,
	optFns ...func(*s3.Options),
) (*s3.PutBucketAclOutput, error) {
	m.record(OpPutBucketAcl)
	m.mu.Lock()
	m.LastPutBucketAcl = params
	m.mu.Unlock()
	if m.PutBucketAclFunc != nil {
		return m.PutBucketAclFunc(ctx, params, optFns...)
	}
	return &s3.PutBucketAclOutput{}, nil
}

// Ensure MockS3Client implements s3api.BucketControlsAPI interface
var _ s3api.BucketControlsAPI = (*MockS3Client)(nil)
