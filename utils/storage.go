package utils

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/freightflowhq/freightflowbackend/models"
)

// NewGCSClient builds a storage client from the service-account key named in
// CREDENTIALS_FILE_LOCATION and returns it with the configured bucket.
func NewGCSClient(ctx context.Context) (*storage.Client, string, error) {
	bucket := os.Getenv("GCS_BUCKET")
	credentialsPath := os.Getenv("CREDENTIALS_FILE_LOCATION")
	wd, err := os.Getwd()
	if err != nil {
		return nil, "", err
	}
	client, err := storage.NewClient(ctx, option.WithAuthCredentialsFile(option.ServiceAccount, filepath.Join(wd, credentialsPath)))
	if err != nil {
		return nil, "", err
	}
	return client, bucket, nil
}

var allowedAttachmentExts = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".xlsx": true,
	".csv":  true,
}

// UploadQuoteAttachmentToGCS stores a staff attachment (quote PDF, packing
// list, photos) under quotes/<id>/ and returns its public metadata.
func UploadQuoteAttachmentToGCS(
	ctx context.Context,
	client *storage.Client,
	bucketName string,
	quoteID string,
	fileHeader *multipart.FileHeader,
) (*models.QuoteAttachment, error) {

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedAttachmentExts[ext] {
		return nil, fmt.Errorf("file type not allowed (allowed: pdf, jpg, jpeg, png, webp, xlsx, csv)")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	objectName := fmt.Sprintf(
		"quotes/%s/%d-%s%s",
		quoteID,
		time.Now().UTC().Unix(),
		uuid.New().String(),
		ext,
	)

	writer := client.Bucket(bucketName).Object(objectName).NewWriter(ctx)

	ct := fileHeader.Header.Get("Content-Type")
	if ct == "" {
		ct = mime.TypeByExtension(ext)
		if ct == "" {
			ct = "application/octet-stream"
		}
	}
	writer.ContentType = ct
	writer.CacheControl = "no-cache"

	if _, err := io.Copy(writer, file); err != nil {
		_ = writer.Close()
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	return &models.QuoteAttachment{
		PublicURL:  fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucketName, objectName),
		ObjectName: objectName,
		MimeType:   ct,
		SizeBytes:  fileHeader.Size,
		FileName:   fileHeader.Filename,
		UploadedAt: time.Now().UTC(),
	}, nil
}

// DeleteGCSObjects removes attachment objects best-effort, returning the
// first failure.
func DeleteGCSObjects(ctx context.Context, client *storage.Client, bucket string, objectNames []string) error {
	var firstErr error
	for _, obj := range objectNames {
		if obj == "" {
			continue
		}
		if err := client.Bucket(bucket).Object(obj).Delete(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("delete %s: %w", obj, err)
		}
	}
	return firstErr
}
