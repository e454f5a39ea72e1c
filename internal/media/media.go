// Package media stores place photos with an external image host.
package media

import (
	"context"
	"errors"
	"io"
)

var ErrDisabled = errors.New("photo uploads are not configured")

type Store interface {
	// Upload stores the image under publicID and returns its public URL.
	Upload(ctx context.Context, file io.Reader, publicID string) (string, error)
	Delete(ctx context.Context, url string) error
}

// Disabled rejects every call; used when no image host is configured.
type Disabled struct{}

func (Disabled) Upload(context.Context, io.Reader, string) (string, error) { return "", ErrDisabled }
func (Disabled) Delete(context.Context, string) error                      { return ErrDisabled }
