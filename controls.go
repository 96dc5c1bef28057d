package ownership

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/aws-samples/sample-migratings3bucketownership/errors"
	"github.com/aws-samples/sample-migratings3bucketownership/internal/validation"
	"github.com/aws-samples/sample-migratings3bucketownership/s3types"
)

// AWS error code constants
const (
	OwnershipControlsNotFoundError = "OwnershipControlsNotFoundError"
	NoSuchBucket                   = "NoSuchBucket"
	AccessDenied                   = "AccessDenied"
	AllAccessDisabled              = "AllAccessDisabled"
)

// GetOwnershipControls retrieves the ownership rules of a bucket.
//
// A bucket that has never had ownership controls configured is not an error:
// the result is tagged OwnershipNotFound and Controls is nil.
//
// Errors:
//   - ErrInvalidInput: If bucket is empty
//   - ErrBucketNotFound: If the bucket doesn't exist
//   - ErrAccessDenied: If the credentials lack s3:GetBucketOwnershipControls
func (c *Client) GetOwnershipControls(ctx context.Context, bucket string) (*s3types.OwnershipResult, error) {
	if err := requireBucket("getOwnershipControls", bucket); err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "retrieving ownership controls", "bucket", bucket)

	output, err := c.api.GetBucketOwnershipControls(ctx, &s3.GetBucketOwnershipControlsInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		converted := convertAWSError(err)
		if errors.IsOwnershipControlsNotFound(converted) {
			c.logger.DebugContext(ctx, "bucket has no ownership controls", "bucket", bucket)
			return &s3types.OwnershipResult{Status: s3types.OwnershipNotFound}, nil
		}
		return nil, errors.NewBucketError("getOwnershipControls", bucket, converted)
	}

	return &s3types.OwnershipResult{
		Status:   s3types.OwnershipFound,
		Controls: ownershipControlsFromAWS(output.OwnershipControls),
	}, nil
}

// PutOwnershipControls replaces the ownership rules of a bucket.
// expectedOwner is sent as the expected-bucket-owner guard; S3 rejects the
// write when the bucket belongs to a different account.
func (c *Client) PutOwnershipControls(
	ctx context.Context,
	bucket, expectedOwner string,
	controls *s3types.OwnershipControls,
) error {
	if err := requireBucket("putOwnershipControls", bucket); err != nil {
		return err
	}
	if err := validation.ValidateOwnershipControls(controls); err != nil {
		return errors.NewBucketError("putOwnershipControls", bucket, err)
	}

	c.logger.DebugContext(ctx, "writing ownership controls",
		"bucket", bucket,
		"expected_owner", expectedOwner,
		"rules", len(controls.Rules))

	_, err := c.api.PutBucketOwnershipControls(ctx, &s3.PutBucketOwnershipControlsInput{
		Bucket:              aws.String(bucket),
		ExpectedBucketOwner: optionalString(expectedOwner),
		OwnershipControls:   ownershipControlsToAWS(controls),
	})
	if err != nil {
		return errors.NewBucketError("putOwnershipControls", bucket, convertAWSError(err))
	}

	return nil
}

// DeleteOwnershipControls removes the ownership-controls resource of a bucket.
// Errors from S3 are returned as-is (converted); callers decide whether a
// missing resource matters.
func (c *Client) DeleteOwnershipControls(ctx context.Context, bucket string) error {
	if err := requireBucket("deleteOwnershipControls", bucket); err != nil {
		return err
	}

	c.logger.DebugContext(ctx, "deleting ownership controls", "bucket", bucket)

	_, err := c.api.DeleteBucketOwnershipControls(ctx, &s3.DeleteBucketOwnershipControlsInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return errors.NewBucketError("deleteOwnershipControls", bucket, convertAWSError(err))
	}

	return nil
}

// GetAccessControlPolicy retrieves the owner and grants of a bucket.
// Grants is nil when the response carried no grants list.
func (c *Client) GetAccessControlPolicy(ctx context.Context, bucket string) (*s3types.AccessControlPolicy, error) {
	if err := requireBucket("getBucketAcl", bucket); err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "retrieving bucket ACL", "bucket", bucket)

	output, err := c.api.GetBucketAcl(ctx, &s3.GetBucketAclInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return nil, errors.NewBucketError("getBucketAcl", bucket, convertAWSError(err))
	}

	return policyFromAWS(output), nil
}

// PutAccessControlPolicy replaces the ACL of a bucket, guarded by expectedOwner.
func (c *Client) PutAccessControlPolicy(
	ctx context.Context,
	bucket, expectedOwner string,
	policy *s3types.AccessControlPolicy,
) error {
	if err := requireBucket("putBucketAcl", bucket); err != nil {
		return err
	}
	if err := validation.ValidateAccessControlPolicy(policy); err != nil {
		return errors.NewBucketError("putBucketAcl", bucket, err)
	}

	c.logger.DebugContext(ctx, "writing bucket ACL",
		"bucket", bucket,
		"expected_owner", expectedOwner,
		"grants", len(policy.Grants))

	_, err := c.api.PutBucketAcl(ctx, &s3.PutBucketAclInput{
		Bucket:              aws.String(bucket),
		ExpectedBucketOwner: optionalString(expectedOwner),
		AccessControlPolicy: policyToAWS(policy),
	})
	if err != nil {
		return errors.NewBucketError("putBucketAcl", bucket, convertAWSError(err))
	}

	return nil
}

// requireBucket rejects empty bucket names before any request is built.
// Full naming rules are checked once per invocation by the caller; legacy
// buckets may predate them.
func requireBucket(op, bucket string) error {
	if bucket == "" {
		return errors.NewError(op, errors.ErrInvalidInput).
			WithMessage("bucket name cannot be empty")
	}
	return nil
}

// convertAWSError maps S3 error codes onto the sentinel errors of this module.
// The original error stays in the chain so its message and smithy details survive.
func convertAWSError(err error) error {
	if err == nil {
		return nil
	}

	var noSuchBucket *types.NoSuchBucket
	if stderrors.As(err, &noSuchBucket) {
		return fmt.Errorf("%w: %w", errors.ErrBucketNotFound, err)
	}

	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case OwnershipControlsNotFoundError:
			return fmt.Errorf("%w: %w", errors.ErrOwnershipControlsNotFound, err)
		case NoSuchBucket:
			return fmt.Errorf("%w: %w", errors.ErrBucketNotFound, err)
		case AccessDenied, AllAccessDisabled:
			return fmt.Errorf("%w: %w", errors.ErrAccessDenied, err)
		}
	}

	return err
}
