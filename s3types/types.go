// Package s3types provides shared type definitions for bucket ownership migration.
package s3types

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// MigrationRoleName is the IAM role expected to exist in the destination account.
const MigrationRoleName = "S3MigrationRole"

// MigrationDescriptor identifies one source/destination bucket pair.
// It is built once per invocation and never modified.
type MigrationDescriptor struct {
	// SourceBucket is the bucket whose configuration is copied
	SourceBucket string

	// SourceRegion is the region of the source bucket
	SourceRegion string

	// DestBucket is the bucket receiving the configuration
	DestBucket string

	// DestAccount is the 12-digit account that owns DestBucket.
	// It is sent as the expected-owner guard on every destination write.
	DestAccount string

	// DestRegion is the region of the destination bucket
	DestRegion string
}

// RoleARN returns the migration role ARN in the destination account.
func (d MigrationDescriptor) RoleARN() string {
	return fmt.Sprintf("arn:aws:iam::%s:role/%s", d.DestAccount, MigrationRoleName)
}

// LogValue implements slog.LogValuer.
func (d MigrationDescriptor) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("source_bucket", d.SourceBucket),
		slog.String("dest_bucket", d.DestBucket),
		slog.String("dest_account", d.DestAccount),
		slog.String("dest_region", d.DestRegion),
	)
}

// ObjectOwnership is the bucket-level object ownership setting.
type ObjectOwnership string

const (
	// ObjectOwnershipBucketOwnerEnforced disables ACLs; the bucket owner owns every object
	ObjectOwnershipBucketOwnerEnforced ObjectOwnership = "BucketOwnerEnforced"

	// ObjectOwnershipBucketOwnerPreferred gives the bucket owner objects uploaded with bucket-owner-full-control
	ObjectOwnershipBucketOwnerPreferred ObjectOwnership = "BucketOwnerPreferred"

	// ObjectOwnershipObjectWriter keeps the uploading account as object owner
	ObjectOwnershipObjectWriter ObjectOwnership = "ObjectWriter"
)

// IsValid reports whether o is one of the known settings.
func (o ObjectOwnership) IsValid() bool {
	switch o {
	case ObjectOwnershipBucketOwnerEnforced, ObjectOwnershipBucketOwnerPreferred, ObjectOwnershipObjectWriter:
		return true
	}
	return false
}

// OwnershipRule is a single ownership-controls rule.
type OwnershipRule struct {
	ObjectOwnership ObjectOwnership
}

// OwnershipControls is the ordered rule list of a bucket.
// Copies overwrite the destination list wholesale.
type OwnershipControls struct {
	Rules []OwnershipRule
}

// OwnershipStatus tags the outcome of an ownership-controls fetch.
type OwnershipStatus int

const (
	// OwnershipFound means the bucket has an ownership-controls resource
	OwnershipFound OwnershipStatus = iota

	// OwnershipNotFound means the bucket predates ownership controls
	OwnershipNotFound
)

func (s OwnershipStatus) String() string {
	switch s {
	case OwnershipFound:
		return "found"
	case OwnershipNotFound:
		return "not-found"
	}
	return fmt.Sprintf("OwnershipStatus(%d)", int(s))
}

// OwnershipResult is the tagged result of reading a bucket's ownership controls.
// Controls is non-nil only when Status is OwnershipFound.
type OwnershipResult struct {
	Status   OwnershipStatus
	Controls *OwnershipControls
}

// Enforced reports whether the first rule is BucketOwnerEnforced.
func (r *OwnershipResult) Enforced() bool {
	return r != nil && r.Status == OwnershipFound && r.Controls != nil &&
		len(r.Controls.Rules) > 0 &&
		r.Controls.Rules[0].ObjectOwnership == ObjectOwnershipBucketOwnerEnforced
}

// Permission is a grant permission.
type Permission string

// Predefined grant permissions
const (
	PermissionFullControl Permission = "FULL_CONTROL"
	PermissionRead        Permission = "READ"
	PermissionWrite       Permission = "WRITE"
	PermissionReadACP     Permission = "READ_ACP"
	PermissionWriteACP    Permission = "WRITE_ACP"
)

// GranteeType identifies how a grantee is addressed.
type GranteeType string

// Predefined grantee types
const (
	GranteeCanonicalUser GranteeType = "CanonicalUser"
	GranteeEmail         GranteeType = "AmazonCustomerByEmail"
	GranteeGroup         GranteeType = "Group"
)

// Owner is the canonical owner of a bucket.
type Owner struct {
	ID          string
	DisplayName string
}

// Grantee is the principal or group a grant applies to.
// Group grantees carry a URI and no ID.
type Grantee struct {
	Type         GranteeType
	ID           string
	DisplayName  string
	EmailAddress string
	URI          string
}

// Grant is a single grantee/permission pair.
type Grant struct {
	Grantee    Grantee
	Permission Permission
}

// AccessControlPolicy is a bucket ACL.
// A nil Grants slice means the response carried no grants list at all.
type AccessControlPolicy struct {
	Owner  *Owner
	Grants []Grant
}

// OwnerID returns the owner's canonical ID, or "" when unknown.
func (p *AccessControlPolicy) OwnerID() string {
	if p == nil || p.Owner == nil {
		return ""
	}
	return p.Owner.ID
}

// ClientConfig holds configuration options for the bucket-controls client.
type ClientConfig struct {
	// Region is the AWS region the client talks to
	Region string

	// MaxRetries is handed to the SDK retryer; 0 keeps the SDK default
	MaxRetries int

	// RetryMode selects "standard" or "adaptive" SDK retries
	RetryMode string

	// Timeout bounds each HTTP request; 0 means no timeout
	Timeout time.Duration

	// Endpoint overrides the S3 endpoint (LocalStack, S3-compatible stores)
	Endpoint string

	// ForcePathStyle selects path-style addressing
	ForcePathStyle bool

	// Credentials overrides the default credential chain
	Credentials aws.CredentialsProvider

	// CustomAWSConfig replaces default config loading entirely
	CustomAWSConfig *aws.Config

	// CustomHTTPClient replaces the SDK HTTP client
	CustomHTTPClient *http.Client

	// Logger receives structured operation logs; nil disables logging
	Logger *slog.Logger
}

// Option is a functional option for configuring the client.
type Option func(*ClientConfig)
