package ownership

import (
	"context"
	stderrors "errors"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aws-samples/sample-migratings3bucketownership/errors"
	"github.com/aws-samples/sample-migratings3bucketownership/internal/testutil"
	"github.com/aws-samples/sample-migratings3bucketownership/s3types"
)

const (
	testDestAccount = "123456789012"
	logDeliveryURI  = "http://acs.amazonaws.com/groups/s3/LogDelivery"
)

func testDescriptor() s3types.MigrationDescriptor {
	return s3types.MigrationDescriptor{
		SourceBucket: "source-bucket",
		SourceRegion: "us-east-1",
		DestBucket:   "dest-bucket",
		DestAccount:  testDestAccount,
		DestRegion:   "eu-west-1",
	}
}

func sourceOwnerGrants() []types.Grant {
	return []types.Grant{
		testutil.CanonicalGrant("A", types.PermissionFullControl),
		testutil.CanonicalGrant("B", types.PermissionRead),
	}
}

type reconcileFixture struct {
	source     *testutil.MockS3Client
	dest       *testutil.MockS3Client
	logs       *testutil.LogCapture
	reconciler *Reconciler
}

func newFixture(source, dest *testutil.MockS3Client) *reconcileFixture {
	logger, logs := testutil.NewLogCapture()
	return &reconcileFixture{
		source:     source,
		dest:       dest,
		logs:       logs,
		reconciler: NewReconciler(WithReconcilerLogger(logger)),
	}
}

func (f *reconcileFixture) run(t *testing.T) error {
	t.Helper()
	return f.reconciler.Reconcile(context.Background(),
		NewWithClient(f.source),
		NewWithClient(f.dest),
		testDescriptor())
}

// TestReconcile_CopiesNonDefaultRules covers the documented scenario: preferred
// ownership on the source, one owner grant and one custom grant.
func TestReconcile_CopiesNonDefaultRules(t *testing.T) {
	source := testutil.NewMockBuilder().
		WithOwnershipRules(types.ObjectOwnershipBucketOwnerPreferred).
		WithACL("A", sourceOwnerGrants()).
		Build()
	dest := testutil.NewMockBuilder().
		WithACL("D", []types.Grant{testutil.CanonicalGrant("D", types.PermissionFullControl)}).
		Build()

	f := newFixture(source, dest)
	require.NoError(t, f.run(t))

	// ownership controls overwritten with exactly the source rule list
	put := dest.LastPutOwnershipControls
	require.NotNil(t, put)
	assert.Equal(t, "dest-bucket", aws.ToString(put.Bucket))
	assert.Equal(t, testDestAccount, aws.ToString(put.ExpectedBucketOwner))
	assert.Equal(t, []types.OwnershipControlsRule{
		{ObjectOwnership: types.ObjectOwnershipBucketOwnerPreferred},
	}, put.OwnershipControls.Rules)

	// ACL written with the destination owner and only the custom grant
	acl := dest.LastPutBucketAcl
	require.NotNil(t, acl)
	assert.Equal(t, "dest-bucket", aws.ToString(acl.Bucket))
	assert.Equal(t, testDestAccount, aws.ToString(acl.ExpectedBucketOwner))
	assert.Equal(t, "D", aws.ToString(acl.AccessControlPolicy.Owner.ID))
	require.Len(t, acl.AccessControlPolicy.Grants, 1)
	assert.Equal(t, "B", aws.ToString(acl.AccessControlPolicy.Grants[0].Grantee.ID))
	assert.Equal(t, types.PermissionRead, acl.AccessControlPolicy.Grants[0].Permission)

	// source is only read; the ACL copy ran exactly once
	assert.Equal(t, []string{
		testutil.OpGetBucketOwnershipControls,
		testutil.OpGetBucketAcl,
	}, source.Calls())
	assert.Equal(t, []string{
		testutil.OpPutBucketOwnershipControls,
		testutil.OpGetBucketAcl,
		testutil.OpPutBucketAcl,
	}, dest.Calls())

	assert.True(t, f.logs.Has(slog.LevelInfo, "copying bucket ownership controls"))
}

func TestReconcile_CopiesWholeRuleList(t *testing.T) {
	source := testutil.NewMockBuilder().
		WithOwnershipRules(types.ObjectOwnershipObjectWriter, types.ObjectOwnershipBucketOwnerEnforced).
		WithACL("A", nil).
		Build()
	dest := testutil.NewMockBuilder().WithACL("D", nil).Build()

	require.NoError(t, newFixture(source, dest).run(t))

	require.NotNil(t, dest.LastPutOwnershipControls)
	assert.Equal(t, []types.OwnershipControlsRule{
		{ObjectOwnership: types.ObjectOwnershipObjectWriter},
		{ObjectOwnership: types.ObjectOwnershipBucketOwnerEnforced},
	}, dest.LastPutOwnershipControls.OwnershipControls.Rules)
}

func TestReconcile_EnforcedIsNoOp(t *testing.T) {
	source := testutil.NewMockBuilder().
		WithOwnershipRules(types.ObjectOwnershipBucketOwnerEnforced).
		WithACL("A", sourceOwnerGrants()).
		Build()
	dest := testutil.NewMockBuilder().WithACL("D", nil).Build()

	f := newFixture(source, dest)
	require.NoError(t, f.run(t))

	assert.Empty(t, dest.Calls(), "destination must not be touched")
	assert.Equal(t, 0, source.CallCount(testutil.OpGetBucketAcl), "ACL copy must be skipped")
	assert.True(t, f.logs.Has(slog.LevelInfo, "BucketOwnerEnforced default rule is enabled, no action required"))
}

func TestReconcile_EmptyRuleListIsNoOp(t *testing.T) {
	source := testutil.NewMockBuilder().WithOwnershipRules().Build()
	dest := &testutil.MockS3Client{}

	require.NoError(t, newFixture(source, dest).run(t))
	assert.Empty(t, dest.Calls())
}

func TestReconcile_OwnershipControlsNotFound(t *testing.T) {
	source := testutil.NewMockBuilder().
		WithOwnershipControlsNotFound().
		WithACL("A", sourceOwnerGrants()).
		Build()
	dest := testutil.NewMockBuilder().WithACL("D", nil).Build()

	f := newFixture(source, dest)
	require.NoError(t, f.run(t))

	require.NotNil(t, dest.LastDeleteOwnershipControls)
	assert.Equal(t, "dest-bucket", aws.ToString(dest.LastDeleteOwnershipControls.Bucket))
	assert.Equal(t, []string{
		testutil.OpDeleteBucketOwnershipControls,
		testutil.OpGetBucketAcl,
		testutil.OpPutBucketAcl,
	}, dest.Calls())
	assert.Equal(t, 1, source.CallCount(testutil.OpGetBucketAcl))
	assert.Equal(t, 0, dest.CallCount(testutil.OpPutBucketOwnershipControls))

	require.NotNil(t, dest.LastPutBucketAcl)
	require.Len(t, dest.LastPutBucketAcl.AccessControlPolicy.Grants, 1)
	assert.Equal(t, "B", aws.ToString(dest.LastPutBucketAcl.AccessControlPolicy.Grants[0].Grantee.ID))

	assert.True(t, f.logs.Has(slog.LevelWarn, "ownership controls not found on source bucket"))
}

func TestReconcile_SourceErrorSurfacesUnchanged(t *testing.T) {
	source := testutil.NewMockBuilder().
		WithOwnershipError(testutil.NewAPIError("InternalError", "We encountered an internal error")).
		Build()
	dest := &testutil.MockS3Client{}

	f := newFixture(source, dest)
	err := f.run(t)
	require.Error(t, err)

	assert.False(t, errors.IsServiceError(err))
	var apiErr smithy.APIError
	require.True(t, stderrors.As(err, &apiErr))
	assert.Equal(t, "InternalError", apiErr.ErrorCode())

	assert.Zero(t, dest.Writes(), "no destination writes after a source failure")
	assert.Empty(t, dest.Calls())
	assert.True(t, f.logs.Has(slog.LevelError, "exception while configuring bucket"))
}

func TestReconcile_SourceAccessDenied(t *testing.T) {
	source := testutil.NewMockBuilder().WithAccessDenied().Build()
	dest := &testutil.MockS3Client{}

	err := newFixture(source, dest).run(t)
	assert.True(t, errors.IsAccessDenied(err))
	assert.Empty(t, dest.Calls())
}

func TestReconcile_DeleteFailureIsWrapped(t *testing.T) {
	source := testutil.NewMockBuilder().
		WithOwnershipControlsNotFound().
		WithACL("A", sourceOwnerGrants()).
		Build()
	dest := testutil.NewMockBuilder().
		WithDeleteOwnershipError(testutil.NewAPIError("AccessDenied", "Access Denied")).
		Build()

	err := newFixture(source, dest).run(t)
	require.Error(t, err)

	assert.True(t, errors.IsServiceError(err))
	assert.True(t, errors.IsAccessDenied(err))
	assert.Contains(t, err.Error(), "error deleting bucket ownership controls")
	assert.Contains(t, err.Error(), "Access Denied")

	assert.Equal(t, 0, source.CallCount(testutil.OpGetBucketAcl), "ACL copy must not run")
	assert.Equal(t, 0, dest.CallCount(testutil.OpPutBucketAcl))
}

func TestReconcile_LegacyBranchACLFailureIsWrapped(t *testing.T) {
	source := testutil.NewMockBuilder().
		WithOwnershipControlsNotFound().
		WithACL("A", sourceOwnerGrants()).
		Build()
	dest := testutil.NewMockBuilder().
		WithACL("D", nil).
		WithPutACLError(testutil.NewAPIError("MalformedACLError", "bad grant")).
		Build()

	err := newFixture(source, dest).run(t)
	require.Error(t, err)
	assert.True(t, errors.IsServiceError(err))
	assert.Contains(t, err.Error(), "error copying bucket ACLs")
}

func TestReconcile_PutOwnershipFailureAborts(t *testing.T) {
	source := testutil.NewMockBuilder().
		WithOwnershipRules(types.ObjectOwnershipObjectWriter).
		WithACL("A", sourceOwnerGrants()).
		Build()
	dest := testutil.NewMockBuilder().
		WithPutOwnershipError(testutil.NewAPIError("AccessDenied", "Access Denied")).
		Build()

	err := newFixture(source, dest).run(t)
	require.Error(t, err)
	assert.False(t, errors.IsServiceError(err))
	assert.True(t, errors.IsAccessDenied(err))
	assert.Equal(t, 0, source.CallCount(testutil.OpGetBucketAcl))
	assert.Equal(t, 0, dest.CallCount(testutil.OpPutBucketAcl))
}

func TestReconcile_NoWriteWithoutCustomGrants(t *testing.T) {
	tests := []struct {
		name   string
		grants []types.Grant
	}{
		{"only owner grant", []types.Grant{testutil.CanonicalGrant("A", types.PermissionFullControl)}},
		{"empty grants list", []types.Grant{}},
		{"no grants list", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := testutil.NewMockBuilder().
				WithOwnershipRules(types.ObjectOwnershipBucketOwnerPreferred).
				WithACL("A", tt.grants).
				Build()
			dest := testutil.NewMockBuilder().WithACL("D", nil).Build()

			require.NoError(t, newFixture(source, dest).run(t))
			assert.Equal(t, 1, dest.CallCount(testutil.OpPutBucketOwnershipControls))
			assert.Equal(t, 0, dest.CallCount(testutil.OpPutBucketAcl))
		})
	}
}

// ownerlessACL returns a GetBucketAcl stub whose response has grants but no owner.
func ownerlessACL(grants []types.Grant) func(context.Context, *s3.GetBucketAclInput, ...func(*s3.Options)) (*s3.GetBucketAclOutput, error) {
	return func(context.Context, *s3.GetBucketAclInput, ...func(*s3.Options)) (*s3.GetBucketAclOutput, error) {
		return &s3.GetBucketAclOutput{Grants: grants}, nil
	}
}

func TestReconcile_SourceACLWithoutOwnerAborts(t *testing.T) {
	t.Run("non-default rules", func(t *testing.T) {
		source := testutil.NewMockBuilder().
			WithOwnershipRules(types.ObjectOwnershipBucketOwnerPreferred).
			Build()
		source.GetBucketAclFunc = ownerlessACL(sourceOwnerGrants())
		dest := testutil.NewMockBuilder().WithACL("D", nil).Build()

		err := newFixture(source, dest).run(t)
		require.Error(t, err)
		assert.True(t, errors.IsInvalidInput(err))
		assert.Contains(t, err.Error(), "source ACL has no owner")
		assert.Equal(t, 0, dest.CallCount(testutil.OpPutBucketAcl))
		assert.Nil(t, dest.LastPutBucketAcl)
	})

	t.Run("legacy bucket", func(t *testing.T) {
		source := testutil.NewMockBuilder().WithOwnershipControlsNotFound().Build()
		source.GetBucketAclFunc = ownerlessACL(sourceOwnerGrants())
		dest := testutil.NewMockBuilder().WithACL("D", nil).Build()

		err := newFixture(source, dest).run(t)
		require.Error(t, err)
		assert.True(t, errors.IsServiceError(err))
		assert.True(t, errors.IsInvalidInput(err))
		assert.Equal(t, 0, dest.CallCount(testutil.OpPutBucketAcl))
	})

	t.Run("no grants list is still skipped", func(t *testing.T) {
		source := testutil.NewMockBuilder().
			WithOwnershipRules(types.ObjectOwnershipObjectWriter).
			Build()
		source.GetBucketAclFunc = ownerlessACL(nil)
		dest := testutil.NewMockBuilder().WithACL("D", nil).Build()

		require.NoError(t, newFixture(source, dest).run(t))
		assert.Equal(t, 0, dest.CallCount(testutil.OpPutBucketAcl))
	})
}

func TestReconcile_CopiesUnknownOwnershipVerbatim(t *testing.T) {
	source := testutil.NewMockBuilder().
		WithOwnershipRules(types.ObjectOwnership("BucketOwnerPreferredV2")).
		WithACL("A", nil).
		Build()
	dest := testutil.NewMockBuilder().WithACL("D", nil).Build()

	require.NoError(t, newFixture(source, dest).run(t))
	require.NotNil(t, dest.LastPutOwnershipControls)
	assert.Equal(t, types.ObjectOwnership("BucketOwnerPreferredV2"),
		dest.LastPutOwnershipControls.OwnershipControls.Rules[0].ObjectOwnership)
}

func TestReconcile_KeepsGroupGrants(t *testing.T) {
	source := testutil.NewMockBuilder().
		WithOwnershipRules(types.ObjectOwnershipObjectWriter).
		WithACL("A", []types.Grant{
			testutil.CanonicalGrant("A", types.PermissionFullControl),
			testutil.GroupGrant(logDeliveryURI, types.PermissionWrite),
			testutil.GroupGrant(logDeliveryURI, types.PermissionReadAcp),
		}).
		Build()
	dest := testutil.NewMockBuilder().WithACL("D", nil).Build()

	require.NoError(t, newFixture(source, dest).run(t))

	require.NotNil(t, dest.LastPutBucketAcl)
	grants := dest.LastPutBucketAcl.AccessControlPolicy.Grants
	require.Len(t, grants, 2)
	for _, g := range grants {
		assert.Equal(t, types.TypeGroup, g.Grantee.Type)
		assert.Equal(t, logDeliveryURI, aws.ToString(g.Grantee.URI))
		assert.Nil(t, g.Grantee.ID)
	}
}

// TestReconcile_Properties sweeps rule lists and checks what each branch may
// write for every one of them.
func TestReconcile_Properties(t *testing.T) {
	all := []types.ObjectOwnership{
		types.ObjectOwnershipBucketOwnerEnforced,
		types.ObjectOwnershipBucketOwnerPreferred,
		types.ObjectOwnershipObjectWriter,
	}

	var ruleSets [][]types.ObjectOwnership
	for _, first := range all {
		ruleSets = append(ruleSets, []types.ObjectOwnership{first})
		for _, second := range all {
			ruleSets = append(ruleSets, []types.ObjectOwnership{first, second})
		}
	}

	for _, rules := range ruleSets {
		source := testutil.NewMockBuilder().
			WithOwnershipRules(rules...).
			WithACL("A", sourceOwnerGrants()).
			Build()
		dest := testutil.NewMockBuilder().WithACL("D", nil).Build()

		require.NoError(t, newFixture(source, dest).run(t))

		if rules[0] == types.ObjectOwnershipBucketOwnerEnforced {
			assert.Zero(t, dest.Writes(), "rules %v", rules)
			assert.Zero(t, source.CallCount(testutil.OpGetBucketAcl), "rules %v", rules)
			continue
		}

		require.NotNil(t, dest.LastPutOwnershipControls, "rules %v", rules)
		got := dest.LastPutOwnershipControls.OwnershipControls.Rules
		require.Len(t, got, len(rules))
		for i := range rules {
			assert.Equal(t, rules[i], got[i].ObjectOwnership)
		}
		assert.Equal(t, 1, source.CallCount(testutil.OpGetBucketAcl), "rules %v", rules)

		for _, g := range dest.LastPutBucketAcl.AccessControlPolicy.Grants {
			assert.NotEqual(t, "A", aws.ToString(g.Grantee.ID), "source owner grant leaked for %v", rules)
		}
	}
}

func TestCustomGrants(t *testing.T) {
	owner := s3types.Grant{
		Grantee:    s3types.Grantee{Type: s3types.GranteeCanonicalUser, ID: "A"},
		Permission: s3types.PermissionFullControl,
	}
	reader := s3types.Grant{
		Grantee:    s3types.Grantee{Type: s3types.GranteeCanonicalUser, ID: "B"},
		Permission: s3types.PermissionRead,
	}
	group := s3types.Grant{
		Grantee:    s3types.Grantee{Type: s3types.GranteeGroup, URI: logDeliveryURI},
		Permission: s3types.PermissionWrite,
	}

	tests := []struct {
		name    string
		grants  []s3types.Grant
		ownerID string
		want    []s3types.Grant
	}{
		{"drops owner", []s3types.Grant{owner, reader}, "A", []s3types.Grant{reader}},
		{"drops every owner grant", []s3types.Grant{owner, owner}, "A", nil},
		{"keeps groups", []s3types.Grant{owner, group}, "A", []s3types.Grant{group}},
		{"nil", nil, "A", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, customGrants(tt.grants, tt.ownerID))
		})
	}
}

// countingControls wraps BucketControls to count ACL reads.
type countingControls struct {
	BucketControls
	aclReads int
}

func (c *countingControls) GetAccessControlPolicy(ctx context.Context, bucket string) (*s3types.AccessControlPolicy, error) {
	c.aclReads++
	return c.BucketControls.GetAccessControlPolicy(ctx, bucket)
}

func TestReconcile_AcceptsAnyBucketControls(t *testing.T) {
	source := &countingControls{BucketControls: NewWithClient(testutil.NewMockBuilder().
		WithOwnershipControlsNotFound().
		WithACL("A", sourceOwnerGrants()).
		Build())}
	dest := &countingControls{BucketControls: NewWithClient(testutil.NewMockBuilder().
		WithACL("D", nil).
		Build())}

	err := NewReconciler().Reconcile(context.Background(), source, dest, testDescriptor())
	require.NoError(t, err)
	assert.Equal(t, 1, source.aclReads)
	assert.Equal(t, 1, dest.aclReads)
}
