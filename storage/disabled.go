package storage

import (
	"context"
	"errors"
	"io"
)

var ErrStorageDisabled = errors.New("object storage is not configured")

type disabledUploader struct{}

// NewDisabledUploader returns a FileUploader that rejects every upload.
// Used when no object storage credentials are configured, so the rest
// of the API keeps working.
func NewDisabledUploader() FileUploader {
	return disabledUploader{}
}

func (disabledUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	return nil, ErrStorageDisabled
}

func (disabledUploader) Delete(ctx context.Context, key string) error {
	return nil
}

func (disabledUploader) GetPublicURL(key string) string {
	return ""
}
