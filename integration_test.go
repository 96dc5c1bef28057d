//go:build integration
// +build integration

package ownership_test

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ownership "github.com/aws-samples/sample-migratings3bucketownership"
	"github.com/aws-samples/sample-migratings3bucketownership/internal/testutil"
	"github.com/aws-samples/sample-migratings3bucketownership/s3types"
)

const logDeliveryGroup = "http://acs.amazonaws.com/groups/s3/LogDelivery"

func newLocalStackControls(t *testing.T, ls *testutil.LocalStackContainer) *ownership.Client {
	t.Helper()

	client, err := ownership.New(context.Background(),
		ownership.WithRegion(ls.Region()),
		ownership.WithCredentials(ls.Credentials()),
		ownership.WithEndpoint(ls.Endpoint()),
		ownership.WithForcePathStyle(true),
	)
	require.NoError(t, err)
	return client
}

// TestIntegrationReconcile runs a full reconciliation against LocalStack.
func TestIntegrationReconcile(t *testing.T) {
	ctx := context.Background()
	ls := testutil.SetupLocalStackTest(t)

	raw, err := ls.GetS3Client(ctx)
	require.NoError(t, err)

	controls := newLocalStackControls(t, ls)
	reconciler := ownership.NewReconciler()

	newPair := func(t *testing.T) s3types.MigrationDescriptor {
		t.Helper()
		desc := s3types.MigrationDescriptor{
			SourceBucket: testutil.GenerateTestBucketName("source"),
			SourceRegion: ls.Region(),
			DestBucket:   testutil.GenerateTestBucketName("dest"),
			DestAccount:  testutil.LocalStackAccount,
			DestRegion:   ls.Region(),
		}
		require.NoError(t, testutil.CreateTestBucketInLocalStack(ctx, raw, desc.SourceBucket))
		require.NoError(t, testutil.CreateTestBucketInLocalStack(ctx, raw, desc.DestBucket))
		return desc
	}

	t.Run("object writer rules and group grants are copied", func(t *testing.T) {
		desc := newPair(t)

		_, err := raw.PutBucketOwnershipControls(ctx, &s3.PutBucketOwnershipControlsInput{
			Bucket: aws.String(desc.SourceBucket),
			OwnershipControls: &types.OwnershipControls{Rules: []types.OwnershipControlsRule{
				{ObjectOwnership: types.ObjectOwnershipObjectWriter},
			}},
		})
		require.NoError(t, err)

		sourceACL, err := raw.GetBucketAcl(ctx, &s3.GetBucketAclInput{Bucket: aws.String(desc.SourceBucket)})
		require.NoError(t, err)
		_, err = raw.PutBucketAcl(ctx, &s3.PutBucketAclInput{
			Bucket: aws.String(desc.SourceBucket),
			AccessControlPolicy: &types.AccessControlPolicy{
				Owner: sourceACL.Owner,
				Grants: append(sourceACL.Grants,
					testutil.GroupGrant(logDeliveryGroup, types.PermissionWrite)),
			},
		})
		require.NoError(t, err)

		require.NoError(t, reconciler.Reconcile(ctx, controls, controls, desc))

		result, err := controls.GetOwnershipControls(ctx, desc.DestBucket)
		require.NoError(t, err)
		require.Equal(t, s3types.OwnershipFound, result.Status)
		require.Len(t, result.Controls.Rules, 1)
		assert.Equal(t, s3types.ObjectOwnershipObjectWriter, result.Controls.Rules[0].ObjectOwnership)

		policy, err := controls.GetAccessControlPolicy(ctx, desc.DestBucket)
		require.NoError(t, err)
		var found bool
		for _, g := range policy.Grants {
			if g.Grantee.URI == logDeliveryGroup && g.Permission == s3types.PermissionWrite {
				found = true
			}
		}
		assert.True(t, found, "log delivery grant not copied: %+v", policy.Grants)
	})

	t.Run("legacy source deletes destination controls", func(t *testing.T) {
		desc := newPair(t)

		_, err := raw.DeleteBucketOwnershipControls(ctx, &s3.DeleteBucketOwnershipControlsInput{
			Bucket: aws.String(desc.SourceBucket),
		})
		require.NoError(t, err)

		source, err := controls.GetOwnershipControls(ctx, desc.SourceBucket)
		require.NoError(t, err)
		require.Equal(t, s3types.OwnershipNotFound, source.Status)

		require.NoError(t, reconciler.Reconcile(ctx, controls, controls, desc))

		dest, err := controls.GetOwnershipControls(ctx, desc.DestBucket)
		require.NoError(t, err)
		assert.Equal(t, s3types.OwnershipNotFound, dest.Status)
	})

	t.Run("enforced source leaves destination alone", func(t *testing.T) {
		desc := newPair(t)

		for _, bucket := range []string{desc.SourceBucket, desc.DestBucket} {
			_, err := raw.PutBucketOwnershipControls(ctx, &s3.PutBucketOwnershipControlsInput{
				Bucket: aws.String(bucket),
				OwnershipControls: &types.OwnershipControls{Rules: []types.OwnershipControlsRule{
					{ObjectOwnership: types.ObjectOwnershipBucketOwnerEnforced},
				}},
			})
			require.NoError(t, err)
		}
		_, err := raw.PutBucketOwnershipControls(ctx, &s3.PutBucketOwnershipControlsInput{
			Bucket: aws.String(desc.DestBucket),
			OwnershipControls: &types.OwnershipControls{Rules: []types.OwnershipControlsRule{
				{ObjectOwnership: types.ObjectOwnershipBucketOwnerPreferred},
			}},
		})
		require.NoError(t, err)

		require.NoError(t, reconciler.Reconcile(ctx, controls, controls, desc))

		dest, err := controls.GetOwnershipControls(ctx, desc.DestBucket)
		require.NoError(t, err)
		require.Equal(t, s3types.OwnershipFound, dest.Status)
		assert.Equal(t, s3types.ObjectOwnershipBucketOwnerPreferred, dest.Controls.Rules[0].ObjectOwnership)
	})

	t.Run("missing source bucket", func(t *testing.T) {
		desc := newPair(t)
		desc.SourceBucket = testutil.GenerateTestBucketName("missing")

		err := reconciler.Reconcile(ctx, controls, controls, desc)
		require.Error(t, err)
	})
}
