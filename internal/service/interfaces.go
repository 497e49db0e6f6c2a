// Package service defines the interfaces shared between application layers.
package service

import (
	"context"
	"time"
)

// BlobStore is a flat key-value store of serialized values.
// Get reports found=false for a missing key rather than returning an error.
type BlobStore interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
