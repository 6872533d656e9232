package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// ImageHost is the image-hosting boundary: it accepts file payloads and
// returns public HTTPS URLs. The rest of the system only ever stores the
// returned URL strings.
type ImageHost struct {
	client     *storage.Client
	bucketName string
}

func NewImageHost(ctx context.Context, bucketName, credentialsPath string) (*ImageHost, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	return &ImageHost{
		client:     client,
		bucketName: bucketName,
	}, nil
}

// Upload stores one image under the given folder and returns its public
// URL. Non-image content types are rejected.
func (h *ImageHost) Upload(ctx context.Context, file io.Reader, contentType, folder string) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("unsupported content type: %s", contentType)
	}

	ext := strings.TrimPrefix(contentType, "image/")
	objectName := fmt.Sprintf("%s/%s.%s", folder, uuid.New().String(), ext)

	w := h.client.Bucket(h.bucketName).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, file); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to upload image: %v", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload: %v", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", h.bucketName, objectName), nil
}

// ImageFile is one payload of a batch upload.
type ImageFile struct {
	Reader      io.Reader
	ContentType string
}

// UploadBatch uploads N files and returns N URLs in input order. Any
// failure rejects the whole batch with no URLs.
func (h *ImageHost) UploadBatch(ctx context.Context, files []ImageFile, folder string) ([]string, error) {
	urls := make([]string, 0, len(files))
	for i, f := range files {
		url, err := h.Upload(ctx, f.Reader, f.ContentType, folder)
		if err != nil {
			return nil, fmt.Errorf("batch upload failed at file %d: %v", i, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (h *ImageHost) Close() error {
	return h.client.Close()
}
