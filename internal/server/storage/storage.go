// Package storage writes uploaded files (profile pictures) either to a local
// media directory or to an S3-compatible bucket. Keys are slash-separated
// paths relative to the media root, e.g. "profile_pictures/<uuid>.png".
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// Storage stores and removes objects by key.
type Storage interface {
	// Put writes data under key, replacing anything already there.
	Put(ctx context.Context, key string, data io.Reader, contentType string) error
	// Delete removes key. A missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Type represents the storage backend type.
type Type string

const (
	TypeLocal Type = "local"
	TypeS3    Type = "s3"
)

// Config holds configuration for storage.
type Config struct {
	Type      Type
	LocalPath string

	S3Bucket       string
	S3Region       string
	S3AccessKey    string
	S3SecretKey    string
	S3BaseEndpoint string
}

var ErrInvalidKey = errors.New("invalid storage key")

// NewStorage creates a new storage instance based on configuration.
func NewStorage(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Type {
	case TypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case TypeS3:
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// cleanKey rejects keys that are absolute or climb out of the root.
func cleanKey(key string) (string, error) {
	if key == "" || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	k := path.Clean(key)
	if path.IsAbs(k) || k == "." || k == ".." || strings.HasPrefix(k, "../") {
		return "", ErrInvalidKey
	}
	return k, nil
}
