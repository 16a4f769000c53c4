package docsource

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Document is a statement file read from some location.
type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Loader reads a document from a location.
type Loader interface {
	Load(ctx context.Context, location string) (Document, error)
}

// FileLoader reads documents from the local filesystem.
type FileLoader struct{}

// Load reads the file at path. The MIME type comes from the extension, or
// from content sniffing when the extension is unknown.
func (FileLoader) Load(ctx context.Context, path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("FileLoader.Load: read %q: %w", path, err)
	}

	return Document{
		Name:     filepath.Base(path),
		MIMEType: detectMIMEType(path, data),
		Data:     data,
	}, nil
}

func detectMIMEType(name string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		return t
	}
	return http.DetectContentType(data)
}
