package ownership

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/aws-samples/sample-migratings3bucketownership/errors"
	"github.com/aws-samples/sample-migratings3bucketownership/internal/s3api"
	"github.com/aws-samples/sample-migratings3bucketownership/s3types"
)

// DefaultRegion is used when neither the options nor the environment name a region.
const DefaultRegion = "us-east-1"

// BucketControls reads and writes the ownership controls and ACL of buckets.
// *Client is the production implementation.
type BucketControls interface {
	// GetOwnershipControls returns a tagged result: found with rules, or not found.
	// Any other outcome is an error.
	GetOwnershipControls(ctx context.Context, bucket string) (*s3types.OwnershipResult, error)

	// PutOwnershipControls overwrites the bucket's rule list.
	PutOwnershipControls(ctx context.Context, bucket, expectedOwner string, controls *s3types.OwnershipControls) error

	// DeleteOwnershipControls removes the bucket's ownership-controls resource.
	DeleteOwnershipControls(ctx context.Context, bucket string) error

	// GetAccessControlPolicy returns the bucket's owner and grants.
	GetAccessControlPolicy(ctx context.Context, bucket string) (*s3types.AccessControlPolicy, error)

	// PutAccessControlPolicy overwrites the bucket's ACL.
	PutAccessControlPolicy(
		ctx context.Context,
		bucket, expectedOwner string,
		policy *s3types.AccessControlPolicy,
	) error
}

var _ BucketControls = (*Client)(nil)

// Client is a bucket-controls client for a single region.
// It is safe for concurrent use; the SDK client is, and nothing here is mutated after New.
type Client struct {
	// api is the underlying AWS SDK S3 client
	api s3api.BucketControlsAPI

	// config holds the resolved AWS configuration
	config aws.Config

	// logger is used for structured logging of operations
	logger *slog.Logger
}

// New creates a new bucket-controls client with the provided options.
// It loads AWS configuration using the default chain unless WithAWSConfig is given.
//
// Example:
//
//	client, err := ownership.New(ctx,
//	    ownership.WithRegion("us-west-2"),
//	    ownership.WithCredentials(provider),
//	)
func New(ctx context.Context, opts ...s3types.Option) (*Client, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}

	clientCfg := &s3types.ClientConfig{}
	for _, opt := range opts {
		opt(clientCfg)
	}

	cfg, err := loadAWSConfig(ctx, clientCfg)
	if err != nil {
		return nil, errors.NewError("clientInitialization", err)
	}

	var s3Opts []func(*s3.Options)

	if clientCfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	if clientCfg.Endpoint != "" {
		endpoint := clientCfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	// A custom HTTP client carries its own timeout
	if clientCfg.Timeout > 0 && clientCfg.CustomHTTPClient == nil {
		httpClient := &http.Client{
			Timeout: clientCfg.Timeout,
		}
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}

	return &Client{
		api:    s3.NewFromConfig(cfg, s3Opts...),
		config: cfg,
		logger: loggerOrDiscard(clientCfg.Logger),
	}, nil
}

// NewWithClient creates a client over a custom BucketControlsAPI implementation.
// This is primarily used for testing with mocked clients.
func NewWithClient(api s3api.BucketControlsAPI, opts ...s3types.Option) *Client {
	clientCfg := &s3types.ClientConfig{}
	for _, opt := range opts {
		opt(clientCfg)
	}

	return &Client{
		api:    api,
		config: aws.Config{Region: clientCfg.Region},
		logger: loggerOrDiscard(clientCfg.Logger),
	}
}

// Region returns the region the client sends requests to.
func (c *Client) Region() string {
	return c.config.Region
}

func loadAWSConfig(ctx context.Context, clientCfg *s3types.ClientConfig) (aws.Config, error) {
	var cfg aws.Config

	if clientCfg.CustomAWSConfig != nil {
		cfg = clientCfg.CustomAWSConfig.Copy()
		if clientCfg.Credentials != nil {
			cfg.Credentials = aws.NewCredentialsCache(clientCfg.Credentials)
		}
		if clientCfg.CustomHTTPClient != nil {
			cfg.HTTPClient = clientCfg.CustomHTTPClient
		}
	} else {
		var loadOpts []func(*config.LoadOptions) error

		if clientCfg.Region != "" {
			loadOpts = append(loadOpts, config.WithRegion(clientCfg.Region))
		}
		if clientCfg.Credentials != nil {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(clientCfg.Credentials))
		}
		if clientCfg.MaxRetries > 0 {
			loadOpts = append(loadOpts, config.WithRetryMaxAttempts(clientCfg.MaxRetries))
		}
		if clientCfg.RetryMode != "" {
			mode, err := aws.ParseRetryMode(clientCfg.RetryMode)
			if err != nil {
				return aws.Config{}, fmt.Errorf("%w: %w", errors.ErrInvalidInput, err)
			}
			loadOpts = append(loadOpts, config.WithRetryMode(mode))
		}
		if clientCfg.CustomHTTPClient != nil {
			loadOpts = append(loadOpts, config.WithHTTPClient(clientCfg.CustomHTTPClient))
		}

		var err error
		cfg, err = config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
		}
	}

	if clientCfg.Region != "" {
		cfg.Region = clientCfg.Region
	} else if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	return cfg, nil
}

func loggerOrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
