// Package creds builds the AWS credentials providers injected into the
// bucket-controls clients.
//
// Credentials come from one of:
//   - an INI file with an [aws] section (FileSource)
//   - a JSON secret in AWS Secrets Manager (SecretSource)
//
// and may be exchanged for a role in the destination account (AssumeRole).
package creds

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"github.com/aws-samples/sample-migratings3bucketownership/errors"
)

// Key names shared by the INI section and the JSON secret.
const (
	KeyAccessKeyID     = "aws_access_key_id"
	KeySecretAccessKey = "aws_secret_access_key"
	KeySessionToken    = "aws_session_token"
)

// Source resolves a credentials provider.
type Source interface {
	Provider(ctx context.Context) (aws.CredentialsProvider, error)
}

// Keys is a static access key pair with an optional session token.
type Keys struct {
	AccessKeyID     string `json:"aws_access_key_id"`
	SecretAccessKey string `json:"aws_secret_access_key"`
	SessionToken    string `json:"aws_session_token,omitempty"`
}

// Provider returns a static provider for the keys.
func (k Keys) Provider() aws.CredentialsProvider {
	return credentials.NewStaticCredentialsProvider(k.AccessKeyID, k.SecretAccessKey, k.SessionToken)
}

func (k Keys) validate(op, origin string) error {
	switch {
	case k.AccessKeyID == "":
		return errors.NewError(op, errors.ErrCredentialsNotFound).
			WithCode(errors.CodeInvalidConfig).
			WithMessage(KeyAccessKeyID + " missing in " + origin)
	case k.SecretAccessKey == "":
		return errors.NewError(op, errors.ErrCredentialsNotFound).
			WithCode(errors.CodeInvalidConfig).
			WithMessage(KeySecretAccessKey + " missing in " + origin)
	}
	return nil
}

type options struct {
	logger *slog.Logger
}

// Option configures a credentials source.
type Option func(*options)

// WithLogger configures the source with a custom logger.
// If logger is nil, logging will be disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func applyOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}
