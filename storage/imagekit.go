package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/nkpol/nkpolbackend/config"
	"github.com/nkpol/nkpolbackend/models"
)

const (
	imagekitUploadBaseURL = "https://upload.imagekit.io"
	imagekitAPIBaseURL    = "https://api.imagekit.io"
)

// ImageKitAdapter talks to the ImageKit media API directly: a multipart
// POST for uploads and a DELETE by fileId. The fileId is the descriptor
// Key — it is not derivable from the URL, which is why deletes must route
// back through this adapter.
type ImageKitAdapter struct {
	httpClient  *http.Client
	privateKey  string
	urlEndpoint string
	uploadBase  string
	apiBase     string
	folder      string
}

func NewImageKitAdapter(cfg config.ImageKitConfig) (*ImageKitAdapter, error) {
	if cfg.PrivateKey == "" || cfg.URLEndpoint == "" {
		return nil, fmt.Errorf("missing ImageKit config (IMAGEKIT_PRIVATE_KEY, IMAGEKIT_URL_ENDPOINT)")
	}

	uploadBase := cfg.UploadBaseURL
	if uploadBase == "" {
		uploadBase = imagekitUploadBaseURL
	}
	apiBase := cfg.APIBaseURL
	if apiBase == "" {
		apiBase = imagekitAPIBaseURL
	}

	return &ImageKitAdapter{
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		privateKey:  cfg.PrivateKey,
		urlEndpoint: strings.TrimRight(cfg.URLEndpoint, "/"),
		uploadBase:  strings.TrimRight(uploadBase, "/"),
		apiBase:     strings.TrimRight(apiBase, "/"),
		folder:      cfg.Folder,
	}, nil
}

type imagekitUploadResponse struct {
	FileID       string `json:"fileId"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
	FilePath     string `json:"filePath"`
	Size         int64  `json:"size"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

func (a *ImageKitAdapter) UploadFile(ctx context.Context, r io.Reader, size int64, fileName, contentType, folder string) (*models.StorageObject, error) {
	if folder == "" {
		folder = a.folder
	}

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	_ = mw.WriteField("fileName", fileName)
	_ = mw.WriteField("folder", "/"+strings.Trim(folder, "/"))
	_ = mw.WriteField("useUniqueFileName", "true")
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.uploadBase+"/api/v1/files/upload", body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.SetBasicAuth(a.privateKey, "")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: imagekit upload status %d: %s", ErrUploadFailed, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out imagekitUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUploadFailed, err)
	}

	thumbnail := out.ThumbnailURL
	if thumbnail == "" {
		thumbnail = out.URL
	}

	uploadedSize := out.Size
	if uploadedSize == 0 {
		uploadedSize = size
	}

	return &models.StorageObject{
		URL:          out.URL,
		Key:          out.FileID,
		ThumbnailURL: thumbnail,
		FileName:     fileName,
		Size:         uploadedSize,
		ContentType:  contentType,
		Width:        out.Width,
		Height:       out.Height,
		StorageType:  string(config.StorageModeImageKit),
	}, nil
}

// DeleteFile removes the file by its ImageKit fileId. A 404 means the
// file is already gone and counts as success.
func (a *ImageKitAdapter) DeleteFile(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, a.apiBase+"/v1/files/"+key, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	req.SetBasicAuth(a.privateKey, "")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: imagekit delete status %d: %s", ErrDeleteFailed, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
}

func (a *ImageKitAdapter) GetStorageInfo() Info {
	return Info{
		Type:     string(config.StorageModeImageKit),
		Endpoint: a.urlEndpoint,
		Folder:   a.folder,
	}
}
