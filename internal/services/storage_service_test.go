package services

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tauro-app/tauro-backend/internal/config"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newLocalStorage(t *testing.T, maxSize int64) (*StorageService, string) {
	t.Helper()
	dir := t.TempDir()
	svc, err := NewStorageService(config.StorageConfig{
		LocalPath:     dir,
		PublicBaseURL: "http://localhost:8080/uploads/",
		MaxImageSize:  maxSize,
	})
	require.NoError(t, err)
	require.False(t, svc.UsesS3())
	return svc, dir
}

func TestStorageUploadImageLocal(t *testing.T) {
	svc, dir := newLocalStorage(t, 1024)
	ctx := context.Background()

	content := append(append([]byte{}, pngHeader...), make([]byte, 32)...)
	result, err := svc.UploadImage(ctx, bytes.NewReader(content), "garments")
	require.NoError(t, err)

	assert.Equal(t, "image/png", result.MimeType)
	assert.EqualValues(t, len(content), result.Size)
	assert.True(t, strings.HasPrefix(result.Key, "garments/"))
	assert.True(t, strings.HasSuffix(result.Key, ".png"))
	assert.Equal(t, "http://localhost:8080/uploads/"+result.Key, result.URL)

	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(result.Key)))
	require.NoError(t, err)
	assert.Equal(t, content, stored)

	key, ok := svc.KeyFromURL(result.URL)
	require.True(t, ok)
	assert.Equal(t, result.Key, key)

	svc.ReplaceImage(ctx, result.URL)
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(result.Key)))
	assert.True(t, os.IsNotExist(err))

	// Deleting twice is fine.
	assert.NoError(t, svc.DeleteFile(ctx, result.Key))
}

func TestStorageRejectsBadImages(t *testing.T) {
	svc, _ := newLocalStorage(t, 64)
	ctx := context.Background()

	_, err := svc.UploadImage(ctx, strings.NewReader("plain text, not an image"), "garments")
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.ErrorIs(t, err, ErrInvalidInput)

	big := append(append([]byte{}, pngHeader...), make([]byte, 128)...)
	_, err = svc.UploadImage(ctx, bytes.NewReader(big), "garments")
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestStorageKeyFromURLIgnoresForeignURLs(t *testing.T) {
	svc, _ := newLocalStorage(t, 1024)

	for _, url := range []string{
		"",
		"https://drive.google.com/thumbnail?id=abc&sz=w1000",
		"http://localhost:8080/uploads/",
		"http://localhost:8080/uploads/../secret",
	} {
		_, ok := svc.KeyFromURL(url)
		assert.False(t, ok, url)
	}
}
