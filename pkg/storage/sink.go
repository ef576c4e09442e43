package storage

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const s3Scheme = "s3://"

// Content types of the artifacts written by the payslip tools.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeJSON = "application/json"
)

// Sink stores generated artifacts under slash separated keys.
type Sink interface {
	// Put stores data under key and returns the location it was written to.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// IsS3Target reports whether target names an S3 location (s3://bucket/prefix).
func IsS3Target(target string) bool {
	return strings.HasPrefix(target, s3Scheme)
}

// ParseS3Target splits s3://bucket/prefix into bucket and prefix.
func ParseS3Target(target string) (bucket, prefix string, err error) {
	if !IsS3Target(target) {
		return "", "", fmt.Errorf("not an s3 target: %q", target)
	}
	rest := strings.TrimPrefix(target, s3Scheme)
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("missing bucket in %q", target)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}

// Open returns the sink for target: an S3 sink for s3:// targets, a
// directory on the local file system otherwise.
func Open(ctx context.Context, target string, cfg S3Config, logger *zap.Logger) (Sink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !IsS3Target(target) {
		sink, err := NewFileSink(target, logger)
		if err != nil {
			return nil, err
		}
		return sink, nil
	}

	bucket, prefix, err := ParseS3Target(target)
	if err != nil {
		return nil, err
	}
	client, err := NewS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewS3Sink(NewUploader(client), bucket, prefix, logger), nil
}
