package testutil

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// MockBuilder provides a fluent interface for building MockS3Client instances.
type MockBuilder struct {
	client *MockS3Client
}

// NewMockBuilder creates a new MockBuilder.
func NewMockBuilder() *MockBuilder {
	return &MockBuilder{
		client: &MockS3Client{},
	}
}

// Build returns the configured MockS3Client.
func (b *MockBuilder) Build() *MockS3Client {
	return b.client
}

// WithOwnershipRules makes GetBucketOwnershipControls return the given rules.
func (b *MockBuilder) WithOwnershipRules(rules ...types.ObjectOwnership) *MockBuilder {
	controls := &types.OwnershipControls{}
	for _, r := range rules {
		controls.Rules = append(controls.Rules, types.OwnershipControlsRule{ObjectOwnership: r})
	}
	b.client.GetBucketOwnershipControlsFunc = func(
		context.Context, *s3.GetBucketOwnershipControlsInput, ...func(*s3.Options),
	) (*s3.GetBucketOwnershipControlsOutput, error) {
		return &s3.GetBucketOwnershipControlsOutput{OwnershipControls: controls}, nil
	}
	return b
}

// WithOwnershipControlsNotFound makes GetBucketOwnershipControls fail the way
// S3 does for buckets that predate ownership controls.
func (b *MockBuilder) WithOwnershipControlsNotFound() *MockBuilder {
	return b.WithOwnershipError(NewAPIError("OwnershipControlsNotFoundError",
		"The bucket ownership controls were not found"))
}

// WithOwnershipError makes GetBucketOwnershipControls fail with err.
func (b *MockBuilder) WithOwnershipError(err error) *MockBuilder {
	b.client.GetBucketOwnershipControlsFunc = func(
		context.Context, *s3.GetBucketOwnershipControlsInput, ...func(*s3.Options),
	) (*s3.GetBucketOwnershipControlsOutput, error) {
		return nil, err
	}
	return b
}

// WithACL makes GetBucketAcl return the given owner and grants.
// A nil grants slice yields a response without a grants list.
func (b *MockBuilder) WithACL(ownerID string, grants []types.Grant) *MockBuilder {
	b.client.GetBucketAclFunc = func(
		context.Context, *s3.GetBucketAclInput, ...func(*s3.Options),
	) (*s3.GetBucketAclOutput, error) {
		return &s3.GetBucketAclOutput{
			Owner:  &types.Owner{ID: StringPtr(ownerID)},
			Grants: grants,
		}, nil
	}
	return b
}

// WithACLError makes GetBucketAcl fail with err.
func (b *MockBuilder) WithACLError(err error) *MockBuilder {
	b.client.GetBucketAclFunc = func(
		context.Context, *s3.GetBucketAclInput, ...func(*s3.Options),
	) (*s3.GetBucketAclOutput, error) {
		return nil, err
	}
	return b
}

// WithDeleteOwnershipError makes DeleteBucketOwnershipControls fail with err.
func (b *MockBuilder) WithDeleteOwnershipError(err error) *MockBuilder {
	b.client.DeleteBucketOwnershipControlsFunc = func(
		context.Context, *s3.DeleteBucketOwnershipControlsInput, ...func(*s3.Options),
	) (*s3.DeleteBucketOwnershipControlsOutput, error) {
		return nil, err
	}
	return b
}

// WithPutOwnershipError makes PutBucketOwnershipControls fail with err.
func (b *MockBuilder) WithPutOwnershipError(err error) *MockBuilder {
	b.client.PutBucketOwnershipControlsFunc = func(
		context.Context, *s3.PutBucketOwnershipControlsInput, ...func(*s3.Options),
	) (*s3.PutBucketOwnershipControlsOutput, error) {
		return nil, err
	}
	return b
}

// WithPutACLError makes PutBucketAcl fail with err.
func (b *MockBuilder) WithPutACLError(err error) *MockBuilder {
	b.client.PutBucketAclFunc = func(
		context.Context, *s3.PutBucketAclInput, ...func(*s3.Options),
	) (*s3.PutBucketAclOutput, error) {
		return nil, err
	}
	return b
}

// WithAccessDenied configures every operation to return AccessDenied.
func (b *MockBuilder) WithAccessDenied() *MockBuilder {
	accessDeniedErr := NewAPIError("AccessDenied", "Access Denied")

	b.WithOwnershipError(accessDeniedErr)
	b.WithACLError(accessDeniedErr)
	b.WithDeleteOwnershipError(accessDeniedErr)
	b.WithPutOwnershipError(accessDeniedErr)
	b.WithPutACLError(accessDeniedErr)

	return b
}
