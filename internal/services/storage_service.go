// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tauro-app/tauro-backend/internal/config"
)

var (
	ErrImageTooLarge   = fmt.Errorf("image exceeds maximum size: %w", ErrInvalidInput)
	ErrUnsupportedType = fmt.Errorf("unsupported image type: %w", ErrInvalidInput)
)

// allowedImageTypes maps accepted MIME types to the stored file extension.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// StorageService keeps garment images on S3 when credentials are configured
// and on the local disk otherwise.
type StorageService struct {
	s3Client *s3.S3
	config   config.StorageConfig
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

func NewStorageService(cfg config.StorageConfig) (*StorageService, error) {
	if cfg.AccessKeyID == "" {
		return &StorageService{config: cfg}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   cfg,
	}, nil
}

// UsesS3 reports whether uploads go to the bucket.
func (s *StorageService) UsesS3() bool {
	return s.s3Client != nil
}

// UploadImage stores an image under folder. The content type is sniffed from
// the bytes; the client supplied name and header are ignored.
func (s *StorageService) UploadImage(ctx context.Context, r io.Reader, folder string) (*UploadResult, error) {
	limit := s.config.MaxImageSize
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, ErrImageTooLarge
	}

	mime := mimetype.Detect(data)
	ext, ok := allowedImageTypes[mime.String()]
	if !ok {
		return nil, fmt.Errorf("%s: %w", mime.String(), ErrUnsupportedType)
	}

	key := s.generateKey(folder, ext)
	if s.s3Client != nil {
		return s.uploadToS3(ctx, data, key, mime.String())
	}
	return s.uploadToLocal(data, key, mime.String())
}

func (s *StorageService) uploadToS3(ctx context.Context, data []byte, key, contentType string) (*UploadResult, error) {
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return nil, storageError("upload to S3", err)
	}

	return &UploadResult{
		URL:      s.publicURL(key),
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToLocal(data []byte, key, contentType string) (*UploadResult, error) {
	path := filepath.Join(s.config.LocalPath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, storageError("create upload dir", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, storageError("write upload", err)
	}

	return &UploadResult{
		URL:      s.publicURL(key),
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

// DeleteFile removes a stored object. Missing objects are not an error.
func (s *StorageService) DeleteFile(ctx context.Context, key string) error {
	if s.s3Client == nil {
		path := filepath.Join(s.config.LocalPath, filepath.FromSlash(key))
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return storageError("delete upload", err)
		}
		return nil
	}

	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return storageError("delete from S3", err)
	}
	return nil
}

// KeyFromURL returns the object key for URLs this service produced, and
// false for anything else (for example Drive links).
func (s *StorageService) KeyFromURL(url string) (string, bool) {
	base := s.baseURL() + "/"
	if !strings.HasPrefix(url, base) {
		return "", false
	}
	key := strings.TrimPrefix(url, base)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}

// ReplaceImage deletes the previously stored image, if it was ours.
func (s *StorageService) ReplaceImage(ctx context.Context, previousURL string) {
	key, ok := s.KeyFromURL(previousURL)
	if !ok {
		return
	}
	if err := s.DeleteFile(ctx, key); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Failed to delete previous image")
	}
}

func (s *StorageService) generateKey(folder, ext string) string {
	timestamp := time.Now().Format("20060102")
	filename := fmt.Sprintf("%s_%s%s", timestamp, uuid.New().String()[:8], ext)
	if folder != "" {
		return folder + "/" + filename
	}
	return filename
}

func (s *StorageService) baseURL() string {
	if s.s3Client == nil {
		return strings.TrimRight(s.config.PublicBaseURL, "/")
	}
	if s.config.CloudFrontURL != "" {
		return strings.TrimRight(s.config.CloudFrontURL, "/")
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.config.S3Bucket, s.config.Region)
}

func (s *StorageService) publicURL(key string) string {
	return s.baseURL() + "/" + key
}
