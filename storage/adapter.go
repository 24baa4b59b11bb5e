package storage

import (
	"context"
	"errors"
	"io"

	"github.com/nkpol/nkpolbackend/models"
)

var (
	ErrUploadFailed           = errors.New("upload failed")
	ErrDeleteFailed           = errors.New("delete failed")
	ErrUnsupportedStorageMode = errors.New("unsupported storage mode")
)

// Info is static backend metadata for diagnostics; no side effects.
type Info struct {
	Type     string `json:"type"`
	Endpoint string `json:"endpoint"`
	Bucket   string `json:"bucket,omitempty"`
	Folder   string `json:"folder"`
}

// Adapter is the uniform contract over a binary-object storage provider.
// Callers are backend-agnostic except for one rule: a descriptor's Key is
// only meaningful to the backend named by its StorageType, so deletes must
// be routed through NewForType. ThumbnailURL is "a URL suitable for
// smaller display" and may be identical to URL — only ImageKit derives a
// real transformation URL.
type Adapter interface {
	UploadFile(ctx context.Context, r io.Reader, size int64, fileName, contentType, folder string) (*models.StorageObject, error)
	DeleteFile(ctx context.Context, key string) error
	GetStorageInfo() Info
}
