package utils

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.NoError(t, CheckPassword(hash, "secret123"))
	assert.Error(t, CheckPassword(hash, "wrong"))
}

func TestGenerateSlug(t *testing.T) {
	cases := map[string]string{
		"Exhibition Booths":    "exhibition-booths",
		"Stoiska Targowe 2024": "stoiska-targowe-2024",
		"Déjà Vu!":             "deja-vu",
		"  --Already-Sluggy--": "already-sluggy",
	}
	for in, want := range cases {
		assert.Equal(t, want, GenerateSlug(in), "input %q", in)
	}
}

func TestIsDuplicateKeyFallback(t *testing.T) {
	assert.True(t, IsDuplicateKey(errors.New("write exception: E11000 duplicate key error collection: nkpol.users")))
	assert.False(t, IsDuplicateKey(errors.New("connection reset")))
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 20, ParseIntDefault("", 20))
	assert.Equal(t, 7, ParseIntDefault("7", 20))
	assert.Equal(t, 20, ParseIntDefault("abc", 20))
}

// pngPayload is a minimal buffer http.DetectContentType sniffs as image/png.
func pngPayload(size int) []byte {
	b := make([]byte, size)
	copy(b, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})
	return b
}

func makeFileHeader(t *testing.T, fileName string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["file"][0]
}

func TestFileValidatorAcceptsPNG(t *testing.T) {
	v := NewImageValidator(5)
	fh := makeFileHeader(t, "logo.png", pngPayload(1024))

	mimeType, err := v.ValidateFile(fh)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)
}

func TestFileValidatorRejectsOversize(t *testing.T) {
	v := NewImageValidator(5)
	fh := makeFileHeader(t, "big.png", pngPayload(6<<20))

	_, err := v.ValidateFile(fh)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestFileValidatorRejectsExtension(t *testing.T) {
	v := NewImageValidator(5)
	fh := makeFileHeader(t, "notes.pdf", pngPayload(1024))

	_, err := v.ValidateFile(fh)
	assert.Error(t, err)
}

func TestFileValidatorRejectsMismatchedContent(t *testing.T) {
	v := NewImageValidator(5)
	// .png name but plain-text bytes
	fh := makeFileHeader(t, "fake.png", bytes.Repeat([]byte("hello "), 200))

	_, err := v.ValidateFile(fh)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file type")
}
