package creds

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/aws-samples/sample-migratings3bucketownership/errors"
)

// SecretGetter fetches a secret value by name. *secrets.Client implements it.
type SecretGetter interface {
	GetSecret(ctx context.Context, secretName string) (string, error)
}

// SecretSource reads access keys from a JSON secret with the same key names
// as the INI file.
type SecretSource struct {
	getter SecretGetter
	name   string
	logger *slog.Logger
}

// NewSecretSource creates a source reading the secret called name.
func NewSecretSource(getter SecretGetter, name string, opts ...Option) *SecretSource {
	return &SecretSource{
		getter: getter,
		name:   name,
		logger: applyOptions(opts).logger,
	}
}

// Keys fetches and validates the access keys.
func (s *SecretSource) Keys(ctx context.Context) (Keys, error) {
	value, err := s.getter.GetSecret(ctx, s.name)
	if err != nil {
		return Keys{}, errors.NewError("readSecret", err).WithCode(errors.CodeInvalidConfig)
	}

	var keys Keys
	if err := json.Unmarshal([]byte(value), &keys); err != nil {
		// the payload is never echoed back
		return Keys{}, errors.NewError("readSecret",
			fmt.Errorf("secret %s is not a JSON object of access keys", s.name)).
			WithCode(errors.CodeInvalidConfig)
	}
	if err := keys.validate("readSecret", "secret "+s.name); err != nil {
		return Keys{}, err
	}

	s.logger.DebugContext(ctx, "loaded credentials from secret", "secret_name", s.name)
	return keys, nil
}

// Provider implements Source.
func (s *SecretSource) Provider(ctx context.Context) (aws.CredentialsProvider, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return nil, err
	}
	return keys.Provider(), nil
}
