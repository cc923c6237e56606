// Package core defines the report store contract shared by the report sink
// factory and its infrastructure drivers.
package core

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver names a report store implementation.
type Driver string

const (
	DriverFilesystem Driver = "fs"     // local directory
	DriverS3         Driver = "s3"     // S3 / MinIO compatible bucket
	DriverMemory     Driver = "memory" // process memory (tests)
)

// PutOptions carries optional attributes stored alongside a report.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// Info describes a stored report object.
type Info struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size_bytes"`
	ContentType  string            `json:"content_type,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"last_modified"`
}

// Store persists immutable report objects by key.
type Store interface {
	// Put writes a new object. Existing keys are never overwritten.
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Head(ctx context.Context, key string) (Info, error)
	// List returns objects whose key starts with prefix, sorted by key.
	List(ctx context.Context, prefix string) ([]Info, error)
	Driver() Driver
}

var (
	// ErrExists is returned by Put when the key is already taken.
	ErrExists = errors.New("report already exists")
	// ErrNotFound is returned when a key has no object.
	ErrNotFound = errors.New("report not found")
)

// CloneMetadata copies md, preserving nil.
func CloneMetadata(md map[string]string) map[string]string {
	if md == nil {
		return nil
	}
	out := make(map[string]string, len(md))
	for k, v := range md {
		out[k] = v
	}
	return out
}
