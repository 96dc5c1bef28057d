package creds

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// DefaultSessionName tags sessions created by AssumeRole in CloudTrail.
const DefaultSessionName = "s3ownership-migration"

// AssumeRole returns a cached provider for roleARN, assumed with the
// credentials in cfg.
func AssumeRole(cfg aws.Config, roleARN string) aws.CredentialsProvider {
	return AssumeRoleWithClient(sts.NewFromConfig(cfg), roleARN)
}

// AssumeRoleWithClient is AssumeRole over a custom STS client.
func AssumeRoleWithClient(client stscreds.AssumeRoleAPIClient, roleARN string) aws.CredentialsProvider {
	provider := stscreds.NewAssumeRoleProvider(client, roleARN, func(o *stscreds.AssumeRoleOptions) {
		o.RoleSessionName = DefaultSessionName
	})
	return aws.NewCredentialsCache(provider)
}
