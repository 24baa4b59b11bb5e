package controllers

import (
	"context"
	"log"
	"mime/multipart"

	"github.com/nkpol/nkpolbackend/config"
	"github.com/nkpol/nkpolbackend/models"
	"github.com/nkpol/nkpolbackend/storage"
	"github.com/nkpol/nkpolbackend/utils"
)

// uploadImage validates a multipart file and pushes it through the active
// storage adapter. The returned descriptor records which backend produced
// it so later deletes can be routed correctly.
func uploadImage(
	ctx context.Context,
	cfg config.StorageConfig,
	fh *multipart.FileHeader,
	v *utils.FileValidator,
	folder string,
) (*models.StorageObject, error) {

	mimeType, err := v.ValidateFile(fh)
	if err != nil {
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	adapter, err := storage.New(cfg)
	if err != nil {
		return nil, err
	}

	return adapter.UploadFile(ctx, f, fh.Size, fh.Filename, mimeType, folder)
}

// deleteStorageObject is best-effort: a failed provider delete leaves an
// orphaned object, which is acceptable; blocking the document delete is
// not. Routing goes by the descriptor's recorded storageType, not the
// currently configured mode — old documents keep their original backend
// attribution.
func deleteStorageObject(ctx context.Context, cfg config.StorageConfig, obj *models.StorageObject) {
	if obj == nil || obj.Key == "" {
		return
	}

	adapter, err := storage.NewForType(cfg, obj.StorageType)
	if err != nil {
		log.Printf("storage delete skipped for key %s: %v", obj.Key, err)
		return
	}

	if err := adapter.DeleteFile(ctx, obj.Key); err != nil {
		log.Printf("storage delete failed for key %s (object orphaned): %v", obj.Key, err)
	}
}
