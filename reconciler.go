package ownership

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws-samples/sample-migratings3bucketownership/errors"
	"github.com/aws-samples/sample-migratings3bucketownership/s3types"
)

// Reconciler copies ownership controls and custom ACL grants from a source
// bucket to a destination bucket.
type Reconciler struct {
	logger *slog.Logger
}

// NewReconciler creates a Reconciler.
func NewReconciler(opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = loggerOrDiscard(r.logger)
	return r
}

// Reconcile brings the destination bucket's ownership controls and ACL in
// line with the source bucket.
//
// All source reads precede the destination writes they inform. Nothing is
// retried and nothing is rolled back: the first error aborts the run.
//
// Errors:
//   - A failure reading the source ownership controls is returned unchanged,
//     and no destination write is attempted.
//   - In the legacy-bucket branch, failures are returned as *errors.ServiceError.
//   - Any other failure is returned unchanged.
func (r *Reconciler) Reconcile(
	ctx context.Context,
	source, dest BucketControls,
	desc s3types.MigrationDescriptor,
) error {
	result, err := source.GetOwnershipControls(ctx, desc.SourceBucket)
	if err != nil {
		r.logger.ErrorContext(ctx, "exception while configuring bucket",
			"bucket", desc.SourceBucket,
			"error", err)
		return err
	}

	switch result.Status {
	case s3types.OwnershipFound:
		err = r.reconcileRules(ctx, source, dest, desc, result)
		if err != nil {
			r.logger.ErrorContext(ctx, "exception while configuring bucket",
				"bucket", desc.DestBucket,
				"error", err)
		}
		return err
	case s3types.OwnershipNotFound:
		r.logger.WarnContext(ctx, "ownership controls not found on source bucket",
			"bucket", desc.SourceBucket)
		return r.reconcileLegacyBucket(ctx, source, dest, desc)
	}

	return fmt.Errorf("unexpected ownership status %s for bucket %s", result.Status, desc.SourceBucket)
}

// reconcileRules handles a source bucket that has an ownership-controls resource.
func (r *Reconciler) reconcileRules(
	ctx context.Context,
	source, dest BucketControls,
	desc s3types.MigrationDescriptor,
	result *s3types.OwnershipResult,
) error {
	controls := result.Controls
	if controls == nil || len(controls.Rules) == 0 {
		r.logger.InfoContext(ctx, "source bucket has no ownership rules, no action required",
			"bucket", desc.SourceBucket)
		return nil
	}

	if result.Enforced() {
		r.logger.InfoContext(ctx, "BucketOwnerEnforced default rule is enabled, no action required",
			"bucket", desc.SourceBucket)
		return nil
	}

	r.logger.InfoContext(ctx, "non-default ownership rules",
		"bucket", desc.SourceBucket,
		"rules", ruleNames(controls.Rules))
	r.logger.InfoContext(ctx, "copying bucket ownership controls",
		"source_bucket", desc.SourceBucket,
		"dest_bucket", desc.DestBucket)

	if err := dest.PutOwnershipControls(ctx, desc.DestBucket, desc.DestAccount, controls); err != nil {
		return err
	}

	return r.copyCustomACLs(ctx, source, dest, desc.SourceBucket, desc.DestBucket, desc.DestAccount)
}

// reconcileLegacyBucket handles a source bucket created before ownership
// controls existed. ACLs are still copied here, unlike the enforced case.
func (r *Reconciler) reconcileLegacyBucket(
	ctx context.Context,
	source, dest BucketControls,
	desc s3types.MigrationDescriptor,
) error {
	r.logger.InfoContext(ctx, "source is an older bucket, deleting ownership controls on destination bucket",
		"dest_bucket", desc.DestBucket)

	if err := dest.DeleteOwnershipControls(ctx, desc.DestBucket); err != nil {
		r.logger.ErrorContext(ctx, "error deleting bucket ownership controls",
			"bucket", desc.DestBucket,
			"error", err)
		return errors.NewServiceError("error deleting bucket ownership controls", err)
	}

	r.logger.InfoContext(ctx, "deleted bucket ownership controls for destination bucket",
		"bucket", desc.DestBucket)

	if err := r.copyCustomACLs(ctx, source, dest, desc.SourceBucket, desc.DestBucket, desc.DestAccount); err != nil {
		r.logger.ErrorContext(ctx, "error copying bucket ACLs",
			"bucket", desc.DestBucket,
			"error", err)
		return errors.NewServiceError("error copying bucket ACLs", err)
	}

	return nil
}

// copyCustomACLs copies every source grant except the source owner's own
// grant onto the destination, keeping the destination's owner.
func (r *Reconciler) copyCustomACLs(
	ctx context.Context,
	source, dest BucketControls,
	sourceBucket, destBucket, destAccount string,
) error {
	sourcePolicy, err := source.GetAccessControlPolicy(ctx, sourceBucket)
	if err != nil {
		return err
	}

	destPolicy, err := dest.GetAccessControlPolicy(ctx, destBucket)
	if err != nil {
		return err
	}

	if sourcePolicy.Grants == nil {
		r.logger.InfoContext(ctx, "source bucket ACL has no grants", "bucket", sourceBucket)
		return nil
	}

	ownerID := sourcePolicy.OwnerID()
	if ownerID == "" {
		return errors.NewBucketError("getBucketAcl", sourceBucket, errors.ErrInvalidInput).
			WithMessage("source ACL has no owner")
	}

	r.logger.InfoContext(ctx, "source bucket ACL",
		"bucket", sourceBucket,
		"owner", ownerID,
		"grants", grantNames(sourcePolicy.Grants))

	grants := customGrants(sourcePolicy.Grants, ownerID)
	if len(grants) == 0 {
		r.logger.InfoContext(ctx, "no custom grants to copy", "bucket", sourceBucket)
		return nil
	}

	r.logger.InfoContext(ctx, "dest bucket ACL",
		"bucket", destBucket,
		"owner", destPolicy.OwnerID(),
		"grants", grantNames(grants))

	return dest.PutAccessControlPolicy(ctx, destBucket, destAccount, &s3types.AccessControlPolicy{
		Owner:  destPolicy.Owner,
		Grants: grants,
	})
}

// customGrants drops the grants held by the source owner. Grantees without
// an ID (groups, email grantees) are always kept.
func customGrants(grants []s3types.Grant, ownerID string) []s3types.Grant {
	var out []s3types.Grant
	for _, grant := range grants {
		if grant.Grantee.ID == ownerID {
			continue
		}
		out = append(out, grant)
	}
	return out
}

func ruleNames(rules []s3types.OwnershipRule) []string {
	names := make([]string, 0, len(rules))
	for _, rule := range rules {
		names = append(names, string(rule.ObjectOwnership))
	}
	return names
}

func grantNames(grants []s3types.Grant) []string {
	names := make([]string, 0, len(grants))
	for _, grant := range grants {
		who := grant.Grantee.ID
		switch {
		case who != "":
		case grant.Grantee.URI != "":
			who = grant.Grantee.URI
		case grant.Grantee.EmailAddress != "":
			who = grant.Grantee.EmailAddress
		default:
			who = "unknown"
		}
		names = append(names, who+":"+string(grant.Permission))
	}
	return names
}
