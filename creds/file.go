package creds

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"gopkg.in/ini.v1"

	"github.com/aws-samples/sample-migratings3bucketownership/errors"
)

// SectionAWS is the INI section holding the access keys.
const SectionAWS = "aws"

// FileSource reads access keys from the [aws] section of an INI file:
//
//	[aws]
//	aws_access_key_id = AKIA...
//	aws_secret_access_key = ...
type FileSource struct {
	fs     billy.Filesystem
	path   string
	logger *slog.Logger
}

// NewFileSource creates a source reading path from filesystem.
func NewFileSource(filesystem billy.Filesystem, path string, opts ...Option) *FileSource {
	return &FileSource{
		fs:     filesystem,
		path:   path,
		logger: applyOptions(opts).logger,
	}
}

// Keys reads and validates the access keys.
func (s *FileSource) Keys(ctx context.Context) (Keys, error) {
	data, err := util.ReadFile(s.fs, s.path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			s.logger.ErrorContext(ctx, "config file not found", "path", s.path)
			return Keys{}, errors.NewError("readConfig", errors.ErrCredentialsNotFound).
				WithCode(errors.CodeInvalidConfig).
				WithMessage("config file not found: " + s.path)
		}
		return Keys{}, errors.NewError("readConfig", fmt.Errorf("reading %s: %w", s.path, err)).
			WithCode(errors.CodeInvalidConfig)
	}

	file, err := ini.Load(data)
	if err != nil {
		return Keys{}, errors.NewError("readConfig", fmt.Errorf("parsing %s: %w", s.path, err)).
			WithCode(errors.CodeInvalidConfig)
	}

	section, err := file.GetSection(SectionAWS)
	if err != nil {
		return Keys{}, errors.NewError("readConfig", errors.ErrCredentialsNotFound).
			WithCode(errors.CodeInvalidConfig).
			WithMessage(fmt.Sprintf("section [%s] missing in %s", SectionAWS, s.path))
	}

	keys := Keys{
		AccessKeyID:     section.Key(KeyAccessKeyID).String(),
		SecretAccessKey: section.Key(KeySecretAccessKey).String(),
		SessionToken:    section.Key(KeySessionToken).String(),
	}
	if err := keys.validate("readConfig", s.path); err != nil {
		return Keys{}, err
	}

	s.logger.DebugContext(ctx, "loaded credentials from config file", "path", s.path)
	return keys, nil
}

// Provider implements Source.
func (s *FileSource) Provider(ctx context.Context) (aws.CredentialsProvider, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return nil, err
	}
	return keys.Provider(), nil
}
