package secrets

import "errors"

var (
	// ErrSecretNotFound is returned when the requested secret does not exist.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrSecretEmpty is returned when a secret exists but holds no value.
	ErrSecretEmpty = errors.New("secret value is empty")

	// ErrAccessDenied is returned when the credentials lack
	// secretsmanager:GetSecretValue (or kms:Decrypt) for the secret.
	ErrAccessDenied = errors.New("access denied to secret")
)
