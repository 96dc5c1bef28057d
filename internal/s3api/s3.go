// Package s3api defines the S3 bucket-controls calls used by this module so they can be mocked.
package s3api

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// BucketControlsAPI is the subset of the S3 API that reads and writes
// bucket ownership controls and bucket ACLs.
type BucketControlsAPI interface {
	// GetBucketOwnershipControls reads the ownership rules of a bucket
	GetBucketOwnershipControls(
		ctx context.Context,
		params *s3.GetBucketOwnershipControlsInput,
		optFns ...func(*s3.Options),
	) (*s3.GetBucketOwnershipControlsOutput, error)

	// PutBucketOwnershipControls replaces the ownership rules of a bucket
	PutBucketOwnershipControls(
		ctx context.Context,
		params *s3.PutBucketOwnershipControlsInput,
		optFns ...func(*s3.Options),
	) (*s3.PutBucketOwnershipControlsOutput, error)

	// DeleteBucketOwnershipControls removes the ownership-controls resource of a bucket
	DeleteBucketOwnershipControls(
		ctx context.Context,
		params *s3.DeleteBucketOwnershipControlsInput,
		optFns ...func(*s3.Options),
	) (*s3.DeleteBucketOwnershipControlsOutput, error)

	// GetBucketAcl reads the owner and grants of a bucket
	GetBucketAcl(
		ctx context.Context,
		params *s3.GetBucketAclInput,
		optFns ...func(*s3.Options),
	) (*s3.GetBucketAclOutput, error)

	// PutBucketAcl replaces the access control policy of a bucket
	PutBucketAcl(
		ctx context.Context,
		params *s3.PutBucketAclInput,
		optFns ...func(*s3.Options),
	) (*s3.PutBucketAclOutput, error)
}

// Verify that the AWS S3 client implements our interface
var _ BucketControlsAPI = (*s3.Client)(nil)
