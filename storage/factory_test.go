package storage

import (
	"testing"

	"github.com/nkpol/nkpolbackend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStorageConfig(mode config.StorageMode) config.StorageConfig {
	return config.StorageConfig{
		Mode: mode,
		ImageKit: config.ImageKitConfig{
			PrivateKey:  "priv-key",
			PublicKey:   "pub-key",
			URLEndpoint: "https://ik.imagekit.io/nkpol",
			Folder:      "nkpol",
		},
		R2: config.R2Config{
			Bucket:          "nkpol-media",
			AccessKeyID:     "access",
			SecretAccessKey: "secret",
			Endpoint:        "https://account.r2.cloudflarestorage.com",
			PublicDomain:    "https://files.nkpol.example",
			Folder:          "nkpol",
		},
	}
}

func TestFactorySelectsConfiguredMode(t *testing.T) {
	r2, err := New(testStorageConfig(config.StorageModeR2))
	require.NoError(t, err)
	assert.Equal(t, "r2", r2.GetStorageInfo().Type)

	ik, err := New(testStorageConfig(config.StorageModeImageKit))
	require.NoError(t, err)
	assert.Equal(t, "imagekit", ik.GetStorageInfo().Type)
}

func TestFactoryRejectsUnknownMode(t *testing.T) {
	_, err := New(testStorageConfig("gcs"))
	assert.ErrorIs(t, err, ErrUnsupportedStorageMode)

	_, err = New(testStorageConfig(""))
	assert.ErrorIs(t, err, ErrUnsupportedStorageMode)
}

// Descriptors keep their original backend attribution: a document stored
// under r2 still routes its delete to the R2 adapter after the active
// mode switches to imagekit.
func TestNewForTypeIgnoresActiveMode(t *testing.T) {
	cfg := testStorageConfig(config.StorageModeImageKit)

	adapter, err := NewForType(cfg, "r2")
	require.NoError(t, err)
	assert.Equal(t, "r2", adapter.GetStorageInfo().Type)

	adapter, err = NewForType(cfg, "imagekit")
	require.NoError(t, err)
	assert.Equal(t, "imagekit", adapter.GetStorageInfo().Type)

	_, err = NewForType(cfg, "dropbox")
	assert.ErrorIs(t, err, ErrUnsupportedStorageMode)
}
