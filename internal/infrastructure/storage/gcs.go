// Package storage uploads message attachments to Google Cloud Storage.
package storage

import (
	"context"
	"io"

	gcs "cloud.google.com/go/storage"

	"github.com/baltotest/freight-api/internal/application"
	"github.com/baltotest/freight-api/pkg/helpers"
)

type GCSAttachmentStore struct {
	client *gcs.Client
	bucket string
}

func NewGCSAttachmentStore(client *gcs.Client, bucket string) *GCSAttachmentStore {
	return &GCSAttachmentStore{client: client, bucket: bucket}
}

func (s *GCSAttachmentStore) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, s.client, s.bucket, objectPath, contentType, r)
}

var _ application.AttachmentStore = (*GCSAttachmentStore)(nil)
