// Package testutil provides test helper functions.
package testutil

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// StringPtr returns a pointer to the given string.
// This is useful for AWS SDK inputs that require string pointers.
func StringPtr(s string) *string {
	return aws.String(s)
}

// NewAPIError builds the error shape the SDK returns for an S3 error response.
func NewAPIError(code, message string) error {
	return &smithy.GenericAPIError{
		Code:    code,
		Message: message,
		Fault:   smithy.FaultClient,
	}
}

// CanonicalGrant builds a canonical-user grant.
func CanonicalGrant(id string, permission types.Permission) types.Grant {
	return types.Grant{
		Grantee: &types.Grantee{
			Type: types.TypeCanonicalUser,
			ID:   StringPtr(id),
		},
		Permission: permission,
	}
}

// GroupGrant builds a group grant such as the log-delivery group.
func GroupGrant(uri string, permission types.Permission) types.Grant {
	return types.Grant{
		Grantee: &types.Grantee{
			Type: types.TypeGroup,
			URI:  StringPtr(uri),
		},
		Permission: permission,
	}
}

// GenerateTestBucketName generates a valid test bucket name.
// Bucket names must be DNS-compliant and globally unique.
func GenerateTestBucketName(prefix string) string {
	if prefix == "" {
		prefix = "test"
	}
	name := fmt.Sprintf("%s-%d-%d", strings.ToLower(prefix), time.Now().UnixNano(), rand.Intn(10000))
	if len(name) > 63 {
		name = name[:63]
	}
	return strings.TrimRight(name, "-")
}

// LogEntry is a captured log record.
type LogEntry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]string
}

// LogCapture is a slog.Handler that keeps every record it receives.
type LogCapture struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewLogCapture returns a logger and the capture behind it.
func NewLogCapture() (*slog.Logger, *LogCapture) {
	c := &LogCapture{}
	return slog.New(c), c
}

func (c *LogCapture) Enabled(context.Context, slog.Level) bool {
	return true
}

//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (c *LogCapture) Handle(_ context.Context, r slog.Record) error {
	entry := LogEntry{
		Level:   r.Level,
		Message: r.Message,
		Attrs:   make(map[string]string),
	}
	r.Attrs(func(a slog.Attr) bool {
		entry.Attrs[a.Key] = a.Value.String()
		return true
	})

	c.mu.Lock()
	c.entries = append(c.entries, entry)
	c.mu.Unlock()
	return nil
}

func (c *LogCapture) WithAttrs([]slog.Attr) slog.Handler {
	return c
}

func (c *LogCapture) WithGroup(string) slog.Handler {
	return c
}

// Entries returns the captured records.
func (c *LogCapture) Entries() []LogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]LogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Has reports whether a record with the given level and message was logged.
func (c *LogCapture) Has(level slog.Level, message string) bool {
	for _, e := range c.Entries() {
		if e.Level == level && e.Message == message {
			return true
		}
	}
	return false
}
