package docsource

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// ParseGCSURI splits gs://bucket/path/to/object into bucket and object.
func ParseGCSURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}

	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}

	return parts[0], parts[1], nil
}

// FilenameFromGCSURI returns the last path element of a GCS URI.
func FilenameFromGCSURI(uri string) string {
	return path.Base(strings.TrimPrefix(uri, "gs://"))
}

// GCSLoader reads documents from Google Cloud Storage.
type GCSLoader struct {
	client *storage.Client
}

// NewGCSLoader creates a storage client. Without a credentials file it uses
// Application Default Credentials.
func NewGCSLoader(ctx context.Context, credentialsFile string) (*GCSLoader, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewGCSLoader: creating storage client: %w", err)
	}
	return &GCSLoader{client: client}, nil
}

// Load downloads the object at a gs:// URI. The MIME type is the object's
// stored content type, falling back to detection by name.
func (l *GCSLoader) Load(ctx context.Context, uri string) (Document, error) {
	bucket, object, err := ParseGCSURI(uri)
	if err != nil {
		return Document{}, err
	}

	r, err := l.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("GCSLoader.Load: open object reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("GCSLoader.Load: read object: %w", err)
	}

	name := FilenameFromGCSURI(uri)
	mimeType := r.Attrs.ContentType
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = detectMIMEType(name, data)
	}

	return Document{
		Name:     name,
		MIMEType: mimeType,
		Data:     data,
	}, nil
}

// Close releases the storage client.
func (l *GCSLoader) Close() error {
	return l.client.Close()
}
