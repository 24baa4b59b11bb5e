package storage

import (
	"fmt"

	"github.com/nkpol/nkpolbackend/config"
)

// New returns the adapter for the configured mode. Unknown modes fail
// here rather than defaulting: a silent fallback would misroute every
// upload and delete for objects stored under the other backend.
func New(cfg config.StorageConfig) (Adapter, error) {
	return NewForType(cfg, string(cfg.Mode))
}

// NewForType returns the adapter for an explicit backend discriminator.
// Deletion flows use it with the storageType recorded on a stored
// descriptor, so documents uploaded before a mode switch still delete
// against the backend that owns their keys.
func NewForType(cfg config.StorageConfig, storageType string) (Adapter, error) {
	switch config.StorageMode(storageType) {
	case config.StorageModeImageKit:
		return NewImageKitAdapter(cfg.ImageKit)
	case config.StorageModeR2:
		return NewR2Adapter(cfg.R2)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStorageMode, storageType)
	}
}
