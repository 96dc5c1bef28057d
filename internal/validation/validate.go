// Package validation provides input validation for migration requests.
//
// Inputs are validated before any request is sent so that a typo in a bucket
// name or account number fails fast instead of half-way through a migration.
package validation

import (
	"fmt"
	"net"
	"regexp"
	"strings"

	"github.com/aws-samples/sample-migratings3bucketownership/errors"
	"github.com/aws-samples/sample-migratings3bucketownership/s3types"
)

var (
	accountIDPattern = regexp.MustCompile(`^[0-9]{12}$`)
	regionPattern    = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-[0-9]+$`)
)

// reserved prefixes and suffixes S3 refuses for general purpose buckets
var (
	reservedBucketPrefixes = []string{"xn--", "sthree-", "amzn-s3-demo-"}
	reservedBucketSuffixes = []string{"-s3alias", "--ol-s3", "--x-s3", "--table-s3", ".mrap"}
)

// ValidateBucketName validates that a bucket name follows the S3 general purpose bucket naming rules.
// Returns ErrInvalidBucketName if the bucket name is invalid.
func ValidateBucketName(bucket string) error {
	if bucket == "" {
		return bucketError(bucket, "bucket name cannot be empty")
	}

	if len(bucket) < 3 || len(bucket) > 63 {
		return bucketError(bucket, "bucket name must be between 3 and 63 characters long")
	}

	for _, char := range bucket {
		if !isValidBucketChar(char) {
			return bucketError(bucket, "bucket name can only contain lowercase letters, numbers, dots, and hyphens")
		}
	}

	if !isAlphaNum(bucket[0]) || !isAlphaNum(bucket[len(bucket)-1]) {
		return bucketError(bucket, "bucket name must begin and end with a letter or number")
	}

	if strings.Contains(bucket, "..") {
		return bucketError(bucket, "bucket name cannot contain two adjacent periods")
	}

	if net.ParseIP(bucket) != nil {
		return bucketError(bucket, "bucket name cannot be formatted as an IP address")
	}

	for _, prefix := range reservedBucketPrefixes {
		if strings.HasPrefix(bucket, prefix) {
			return bucketError(bucket, "bucket name cannot start with reserved prefix "+prefix)
		}
	}
	for _, suffix := range reservedBucketSuffixes {
		if strings.HasSuffix(bucket, suffix) {
			return bucketError(bucket, "bucket name cannot end with reserved suffix "+suffix)
		}
	}

	return nil
}

// ValidateAccountID validates a 12-digit AWS account number.
func ValidateAccountID(account string) error {
	if account == "" {
		return errors.NewError("validateAccountID", errors.ErrInvalidAccountID).
			WithMessage("account number cannot be empty")
	}
	if !accountIDPattern.MatchString(account) {
		return errors.NewError("validateAccountID", errors.ErrInvalidAccountID).
			WithMessage("account number must be exactly 12 digits")
	}
	return nil
}

// ValidateRegion validates the shape of an AWS region name such as "us-east-1".
func ValidateRegion(region string) error {
	if region == "" {
		return errors.NewError("validateRegion", errors.ErrInvalidInput).
			WithMessage("region cannot be empty")
	}
	if !regionPattern.MatchString(region) {
		return errors.NewError("validateRegion", errors.ErrInvalidInput).
			WithMessage("region " + region + " is not a valid AWS region name")
	}
	return nil
}

// ValidateDescriptor validates every field the reconciler relies on.
// Regions are optional here; the CLI checks them when it builds clients.
func ValidateDescriptor(d s3types.MigrationDescriptor) error {
	if err := ValidateBucketName(d.SourceBucket); err != nil {
		return err
	}
	if err := ValidateBucketName(d.DestBucket); err != nil {
		return err
	}
	if err := ValidateAccountID(d.DestAccount); err != nil {
		return err
	}
	if d.SourceRegion != "" {
		if err := ValidateRegion(d.SourceRegion); err != nil {
			return err
		}
	}
	if d.DestRegion != "" {
		if err := ValidateRegion(d.DestRegion); err != nil {
			return err
		}
	}
	return nil
}

// ValidateOwnershipControls checks a rule list before it is written.
// Values are not checked against a fixed set so that settings newer than the
// SDK still copy verbatim.
func ValidateOwnershipControls(controls *s3types.OwnershipControls) error {
	if controls == nil || len(controls.Rules) == 0 {
		return errors.NewError("validateOwnershipControls", errors.ErrInvalidInput).
			WithMessage("ownership controls must contain at least one rule")
	}

	for i, rule := range controls.Rules {
		if rule.ObjectOwnership == "" {
			return errors.NewError("validateOwnershipControls", errors.ErrInvalidInput).
				WithMessage(fmt.Sprintf("ownership rule %d has no object ownership", i))
		}
	}
	return nil
}

// ValidateAccessControlPolicy checks a policy before it is written.
func ValidateAccessControlPolicy(policy *s3types.AccessControlPolicy) error {
	if policy == nil {
		return errors.NewError("validateAccessControlPolicy", errors.ErrInvalidInput).
			WithMessage("access control policy cannot be nil")
	}
	if policy.OwnerID() == "" {
		return errors.NewError("validateAccessControlPolicy", errors.ErrInvalidInput).
			WithMessage("access control policy must name an owner")
	}
	for _, grant := range policy.Grants {
		g := grant.Grantee
		if g.ID == "" && g.URI == "" && g.EmailAddress == "" {
			return errors.NewError("validateAccessControlPolicy", errors.ErrInvalidInput).
				WithMessage("grant must identify its grantee by ID, URI or email address")
		}
	}
	return nil
}

func bucketError(bucket, message string) error {
	return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
		WithBucket(bucket).
		WithMessage(message)
}

// isValidBucketChar checks if a character is valid in a bucket name
func isValidBucketChar(char rune) bool {
	return (char >= '0' && char <= '9') || (char >= 'a' && char <= 'z') || char == '.' || char == '-'
}

func isAlphaNum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z')
}
