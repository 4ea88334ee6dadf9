package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
	projectID  string
}

func NewCloudStorageClient(ctx context.Context, bucketName, projectID string, credentialsPath string) (*CloudStorageClient, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	return &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
		projectID:  projectID,
	}, nil
}

// UploadIDPhoto stores a verification photo under a deterministic per-user
// path so a retried verification overwrites the previous capture.
func (c *CloudStorageClient) UploadIDPhoto(ctx context.Context, userID string, photo []byte) (string, error) {
	objectName := fmt.Sprintf("id_verification/%s.jpg", userID)
	return c.write(ctx, objectName, "image/jpeg", bytes.NewReader(photo))
}

// UploadItemPhoto stores a listing photo under rentals/.
func (c *CloudStorageClient) UploadItemPhoto(ctx context.Context, ownerID string, photo io.Reader, contentType string) (string, error) {
	ext := ".jpg"
	if contentType == "image/png" {
		ext = ".png"
	}
	objectName := fmt.Sprintf("rentals/%d_%s-%s%s", time.Now().Unix(), ownerID, uuid.New().String(), ext)
	return c.write(ctx, objectName, contentType, photo)
}

func (c *CloudStorageClient) write(ctx context.Context, objectName, contentType string, r io.Reader) (string, error) {
	obj := c.client.Bucket(c.bucketName).Object(objectName)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(wc, r); err != nil {
		return "", fmt.Errorf("failed to copy file to GCS: %v", err)
	}

	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %v", err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return "", fmt.Errorf("failed to set ACL: %v", err)
	}

	return c.ResolveURL(objectName), nil
}

// ResolveURL maps an object name to its public download URL.
func (c *CloudStorageClient) ResolveURL(objectName string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, objectName)
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}
