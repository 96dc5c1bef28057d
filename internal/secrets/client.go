// Package secrets reads credential payloads from AWS Secrets Manager.
//
// Secret values are never logged; only secret names and operation metadata are.
// The caller's credentials need secretsmanager:GetSecretValue, plus kms:Decrypt
// when the secret uses a customer-managed key.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
)

// AWS error code constants
const (
	ResourceNotFoundException = "ResourceNotFoundException"
	AccessDeniedException     = "AccessDeniedException"
)

// ManagerAPI is the subset of the Secrets Manager client used here.
type ManagerAPI interface {
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
}

var _ ManagerAPI = (*secretsmanager.Client)(nil)

// Client retrieves secret values. It is safe for concurrent use.
type Client struct {
	api    ManagerAPI
	logger *slog.Logger
}

// NewClientWithConfig creates a client from an AWS configuration.
func NewClientWithConfig(cfg *aws.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("config region cannot be empty")
	}

	return NewClientWithAPI(secretsmanager.NewFromConfig(*cfg), opts...), nil
}

// NewClientWithAPI creates a client over a custom ManagerAPI implementation.
func NewClientWithAPI(api ManagerAPI, opts ...Option) *Client {
	options := applyOptions(opts)
	logger := options.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		api:    api,
		logger: logger,
	}
}

// GetSecret returns the value of a secret. Binary secrets are returned as
// their raw bytes converted to a string.
func (c *Client) GetSecret(ctx context.Context, secretName string) (string, error) {
	if secretName == "" {
		return "", fmt.Errorf("secret name cannot be empty")
	}

	c.logger.DebugContext(ctx, "retrieving secret", "secret_name", secretName)

	output, err := c.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case ResourceNotFoundException:
				return "", fmt.Errorf("%w: %s", ErrSecretNotFound, secretName)
			case AccessDeniedException:
				return "", fmt.Errorf("%w: %s", ErrAccessDenied, secretName)
			}
			c.logger.ErrorContext(ctx, "failed to retrieve secret",
				"secret_name", secretName,
				"error", err)
			return "", fmt.Errorf("GetSecret operation failed: %s: %s",
				apiErr.ErrorCode(), apiErr.ErrorMessage())
		}

		c.logger.ErrorContext(ctx, "failed to retrieve secret",
			"secret_name", secretName,
			"error", err)
		return "", fmt.Errorf("GetSecret operation failed: %w", err)
	}

	switch {
	case output.SecretString != nil && *output.SecretString != "":
		return *output.SecretString, nil
	case len(output.SecretBinary) > 0:
		return string(output.SecretBinary), nil
	}

	return "", fmt.Errorf("%w: %s", ErrSecretEmpty, secretName)
}
