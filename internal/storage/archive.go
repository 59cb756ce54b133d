package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Uploader is the subset of Client used to archive exports.
type Uploader interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) error
	PresignDownload(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Archived describes an uploaded export.
type Archived struct {
	Key string
	URL string
}

// Archive uploads body under key and returns a presigned link to it.
func Archive(ctx context.Context, u Uploader, key string, body []byte, contentType string) (*Archived, error) {
	if err := u.Upload(ctx, key, body, contentType); err != nil {
		return nil, err
	}
	link, err := u.PresignDownload(ctx, key, DefaultLinkExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to link archived export: %w", err)
	}
	slog.Info("archived export", "key", key, "bytes", len(body))
	return &Archived{Key: key, URL: link}, nil
}
