package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	ownership "github.com/aws-samples/sample-migratings3bucketownership"
	"github.com/aws-samples/sample-migratings3bucketownership/creds"
	"github.com/aws-samples/sample-migratings3bucketownership/errors"
	"github.com/aws-samples/sample-migratings3bucketownership/internal/secrets"
	"github.com/aws-samples/sample-migratings3bucketownership/internal/validation"
	"github.com/aws-samples/sample-migratings3bucketownership/s3types"
)

// envPrefix prefixes every flag's environment variable, e.g.
// S3OWNERSHIP_SOURCE_BUCKET.
const envPrefix = "S3OWNERSHIP"

// Flag names. The underscore in dest_account_number is kept for
// compatibility with existing invocations.
const (
	flagSourceRegion      = "source-region"
	flagDestRegion        = "dest-region"
	flagSourceBucket      = "source-bucket"
	flagDestBucket        = "dest-bucket"
	flagDestAccount       = "dest_account_number"
	flagConfig            = "config"
	flagCredentialsSecret = "credentials-secret"
	flagSecretsRegion     = "secrets-region"
	flagAssumeDestRole    = "assume-dest-role"
	flagEndpoint          = "endpoint"
	flagForcePathStyle    = "force-path-style"
	flagTimeout           = "timeout"
	flagLogLevel          = "log-level"
	flagLogFormat         = "log-format"
)

var requiredFlags = []string{
	flagSourceRegion,
	flagDestRegion,
	flagSourceBucket,
	flagDestBucket,
	flagDestAccount,
}

// settings is the resolved command configuration.
type settings struct {
	Descriptor        s3types.MigrationDescriptor
	ConfigPath        string
	CredentialsSecret string
	SecretsRegion     string
	AssumeDestRole    bool
	Endpoint          string
	ForcePathStyle    bool
	Timeout           time.Duration
	LogLevel          string
	LogFormat         string
}

// app holds the collaborators the command builds on, so tests can swap them.
type app struct {
	// configFS returns the filesystem and in-filesystem path for a config file path
	configFS func(path string) (billy.Filesystem, string, error)

	// secretGetter returns the Secrets Manager reader for region
	secretGetter func(ctx context.Context, region string, logger *slog.Logger) (creds.SecretGetter, error)

	// assumeRole wraps base with a role in the destination account
	assumeRole func(ctx context.Context, region string, base aws.CredentialsProvider, roleARN string) (aws.CredentialsProvider, error)

	// newControls builds the bucket-controls client for one side of the migration
	newControls func(ctx context.Context, region string, provider aws.CredentialsProvider, s settings, logger *slog.Logger) (ownership.BucketControls, error)
}

func defaultApp() *app {
	return &app{
		configFS:     osConfigFS,
		secretGetter: awsSecretGetter,
		assumeRole:   stsAssumeRole,
		newControls:  newS3Controls,
	}
}

func newRootCommand(a *app) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "s3ownership",
		Short: "Copy bucket ownership controls and ACL grants to a migrated bucket",
		Long: `Copies the ownership controls of a source bucket to a destination bucket.

- BucketOwnerEnforced on the source: nothing to do, ACLs are disabled.
- Other rules: the rules are written to the destination and custom ACL
  grants (everything but the source owner's own grant) are copied.
- No ownership controls on the source: the destination's controls are
  deleted and custom ACL grants are copied.

Every flag can also be set through the environment, e.g.
S3OWNERSHIP_SOURCE_BUCKET or S3OWNERSHIP_DEST_ACCOUNT_NUMBER.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(v)
			if err != nil {
				return err
			}

			logger, err := newLogger(cmd.ErrOrStderr(), s.LogLevel, s.LogFormat)
			if err != nil {
				return err
			}

			return a.run(cmd.Context(), s, logger)
		},
	}

	flags := cmd.Flags()
	flags.String(flagSourceRegion, "", "Source AWS region (required)")
	flags.String(flagDestRegion, "", "Destination AWS region (required)")
	flags.String(flagSourceBucket, "", "Source bucket name (required)")
	flags.String(flagDestBucket, "", "Destination bucket name (required)")
	flags.String(flagDestAccount, "", "Destination AWS account number (required)")
	flags.String(flagConfig, "config.ini", "Path to the INI file holding the [aws] access keys")
	flags.String(flagCredentialsSecret, "", "Read access keys from this Secrets Manager secret instead of the config file")
	flags.String(flagSecretsRegion, "", "Region of the credentials secret (defaults to the source region)")
	flags.Bool(flagAssumeDestRole, false, "Assume S3MigrationRole in the destination account for destination calls")
	flags.String(flagEndpoint, "", "Custom S3 endpoint URL, e.g. for LocalStack")
	flags.Bool(flagForcePathStyle, false, "Use path-style S3 addressing")
	flags.Duration(flagTimeout, 30*time.Second, "Per-request HTTP timeout")
	flags.String(flagLogLevel, "info", "Log level: debug, info, warn or error")
	flags.String(flagLogFormat, "text", "Log format: text or json")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// BindPFlags only fails on a nil flag set
	_ = v.BindPFlags(flags)

	return cmd
}

func loadSettings(v *viper.Viper) (settings, error) {
	var missing []string
	for _, name := range requiredFlags {
		if v.GetString(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return settings{}, errors.NewError("loadSettings", errors.ErrInvalidInput).
			WithCode(errors.CodeInvalidConfig).
			WithMessage(fmt.Sprintf("required flag(s) %q not set", missing))
	}

	s := settings{
		Descriptor: s3types.MigrationDescriptor{
			SourceBucket: v.GetString(flagSourceBucket),
			SourceRegion: v.GetString(flagSourceRegion),
			DestBucket:   v.GetString(flagDestBucket),
			DestAccount:  v.GetString(flagDestAccount),
			DestRegion:   v.GetString(flagDestRegion),
		},
		ConfigPath:        v.GetString(flagConfig),
		CredentialsSecret: v.GetString(flagCredentialsSecret),
		SecretsRegion:     v.GetString(flagSecretsRegion),
		AssumeDestRole:    v.GetBool(flagAssumeDestRole),
		Endpoint:          v.GetString(flagEndpoint),
		ForcePathStyle:    v.GetBool(flagForcePathStyle),
		Timeout:           v.GetDuration(flagTimeout),
		LogLevel:          v.GetString(flagLogLevel),
		LogFormat:         v.GetString(flagLogFormat),
	}

	if err := validation.ValidateDescriptor(s.Descriptor); err != nil {
		return settings{}, err
	}

	return s, nil
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q: expected text or json", format)
	}
}

func (a *app) run(ctx context.Context, s settings, logger *slog.Logger) error {
	desc := s.Descriptor

	base, err := a.credentials(ctx, s, logger)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load credentials", "error", err)
		return err
	}

	destCreds := base
	if s.AssumeDestRole {
		destCreds, err = a.assumeRole(ctx, desc.DestRegion, base, desc.RoleARN())
		if err != nil {
			return fmt.Errorf("assuming %s: %w", desc.RoleARN(), err)
		}
		logger.InfoContext(ctx, "using destination role", "role_arn", desc.RoleARN())
	}

	source, err := a.newControls(ctx, desc.SourceRegion, base, s, logger)
	if err != nil {
		return fmt.Errorf("creating source client: %w", err)
	}
	dest, err := a.newControls(ctx, desc.DestRegion, destCreds, s, logger)
	if err != nil {
		return fmt.Errorf("creating destination client: %w", err)
	}

	logger.InfoContext(ctx, fmt.Sprintf("Configuring bucket ownership controls from %s to %s",
		desc.SourceBucket, desc.DestBucket), "migration", desc)

	reconciler := ownership.NewReconciler(ownership.WithReconcilerLogger(logger))
	if err := reconciler.Reconcile(ctx, source, dest, desc); err != nil {
		return err
	}

	logger.InfoContext(ctx, "Bucket ownership controls configuration completed successfully")
	return nil
}

// credentials resolves the access keys, preferring the secret when one is named.
func (a *app) credentials(ctx context.Context, s settings, logger *slog.Logger) (aws.CredentialsProvider, error) {
	var source creds.Source

	if s.CredentialsSecret != "" {
		region := s.SecretsRegion
		if region == "" {
			region = s.Descriptor.SourceRegion
		}
		getter, err := a.secretGetter(ctx, region, logger)
		if err != nil {
			return nil, err
		}
		source = creds.NewSecretSource(getter, s.CredentialsSecret, creds.WithLogger(logger))
	} else {
		fs, path, err := a.configFS(s.ConfigPath)
		if err != nil {
			return nil, err
		}
		source = creds.NewFileSource(fs, path, creds.WithLogger(logger))
	}

	return source.Provider(ctx)
}

// osConfigFS roots the filesystem at the config file's directory, resolving
// relative paths against the working directory.
func osConfigFS(path string) (billy.Filesystem, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("resolving config path %s: %w", path, err)
	}
	return osfs.New(filepath.Dir(abs)), filepath.Base(abs), nil
}

func awsSecretGetter(ctx context.Context, region string, logger *slog.Logger) (creds.SecretGetter, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return secrets.NewClientWithConfig(&cfg, secrets.WithLogger(logger))
}

func stsAssumeRole(
	ctx context.Context,
	region string,
	base aws.CredentialsProvider,
	roleARN string,
) (aws.CredentialsProvider, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(base),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return creds.AssumeRole(cfg, roleARN), nil
}

func newS3Controls(
	ctx context.Context,
	region string,
	provider aws.CredentialsProvider,
	s settings,
	logger *slog.Logger,
) (ownership.BucketControls, error) {
	return ownership.New(ctx,
		ownership.WithRegion(region),
		ownership.WithCredentials(provider),
		ownership.WithEndpoint(s.Endpoint),
		ownership.WithForcePathStyle(s.ForcePathStyle),
		ownership.WithTimeout(s.Timeout),
		ownership.WithLogger(logger),
	)
}
