// internal/adapters/out/gcs/crop_image_store_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// =====================================================
// GCS-based object storage for crop listing images
// =====================================================

// CropImageStoreGCS implements the listing usecase ImageStore port. Farmers
// upload directly to GCS with a short-lived signed PUT URL; the listing doc
// stores the stable public read URL.
type CropImageStoreGCS struct {
	Client          *storage.Client
	Bucket          string
	SignedURLExpiry time.Duration
}

func NewCropImageStoreGCS(client *storage.Client, bucket string) *CropImageStoreGCS {
	return &CropImageStoreGCS{
		Client:          client,
		Bucket:          strings.TrimSpace(bucket),
		SignedURLExpiry: 15 * time.Minute,
	}
}

func (s *CropImageStoreGCS) bucketName() (string, error) {
	if s == nil || s.Client == nil {
		return "", errors.New("crop_image_store_gcs: GCS client is nil")
	}
	b := strings.TrimSpace(s.Bucket)
	if b == "" {
		return "", errors.New("crop_image_store_gcs: bucket is empty")
	}
	return b, nil
}

// SignedUploadURL returns a V4 signed PUT URL for objectName.
func (s *CropImageStoreGCS) SignedUploadURL(ctx context.Context, objectName, contentType string) (string, error) {
	b, err := s.bucketName()
	if err != nil {
		return "", err
	}
	obj := strings.TrimLeft(strings.TrimSpace(objectName), "/")
	if obj == "" {
		return "", fmt.Errorf("invalid objectName: %q", objectName)
	}

	expiry := s.SignedURLExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	opts := &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      http.MethodPut,
		Expires:     time.Now().Add(expiry),
		ContentType: contentType,
	}
	return s.Client.Bucket(b).SignedURL(obj, opts)
}

// PublicURL is the stable read URL for objectName. The bucket is expected to
// allow public reads on the crops/ prefix.
func (s *CropImageStoreGCS) PublicURL(objectName string) string {
	obj := strings.TrimLeft(strings.TrimSpace(objectName), "/")
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", strings.TrimSpace(s.Bucket), obj)
}

// DeleteObject removes an image after its listing is deleted. Missing
// objects are not an error.
func (s *CropImageStoreGCS) DeleteObject(ctx context.Context, objectName string) error {
	b, err := s.bucketName()
	if err != nil {
		return err
	}
	obj := strings.TrimLeft(strings.TrimSpace(objectName), "/")
	if obj == "" {
		return fmt.Errorf("invalid objectName: %q", objectName)
	}
	if err := s.Client.Bucket(b).Object(obj).Delete(ctx); err != nil &&
		!errors.Is(err, storage.ErrObjectNotExist) {
		return err
	}
	return nil
}
