// Package ownership copies S3 bucket ownership controls, and the custom ACL
// grants that depend on them, from a source bucket to a destination bucket.
//
// It is meant for cross-account and cross-region bucket migrations where the
// destination bucket already exists. Object data is never touched.
//
// The work is done by a Reconciler over two BucketControls handles:
//
//   - If the source bucket enforces BucketOwnerEnforced, nothing is copied.
//   - If the source bucket has any other ownership rules, the rule list is
//     written to the destination and custom ACL grants are copied.
//   - If the source bucket predates ownership controls, the destination's
//     ownership controls are deleted and custom ACL grants are copied.
//
// Custom grants are every source grant except the source owner's own grant.
// The destination keeps its own owner and is only written when at least one
// custom grant exists.
//
// Example usage:
//
//	source, err := ownership.New(ctx, ownership.WithRegion("us-east-1"))
//	if err != nil {
//	    return err
//	}
//	dest, err := ownership.New(ctx, ownership.WithRegion("eu-west-1"))
//	if err != nil {
//	    return err
//	}
//
//	r := ownership.NewReconciler(ownership.WithReconcilerLogger(slog.Default()))
//	err = r.Reconcile(ctx, source, dest, s3types.MigrationDescriptor{
//	    SourceBucket: "legacy-bucket",
//	    DestBucket:   "new-bucket",
//	    DestAccount:  "123456789012",
//	    DestRegion:   "eu-west-1",
//	})
//
// The procedure is single-shot and sequential. There is no rollback: an error
// part way through leaves earlier destination writes in place.
package ownership
