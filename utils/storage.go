package utils

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize is the largest accepted product image
const MaxImageSize = 5 << 20

// MaxImages is the number of images a listing may carry
const MaxImages = 5

var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true}

// IsImageFile reports whether the filename has an accepted image extension
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// FileStore persists uploaded content and returns a URL for it
type FileStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
}

// LocalFileStore writes uploads to a directory served under /uploads/
type LocalFileStore struct {
	Dir     string
	BaseURL string
}

// NewLocalFileStore creates the upload directory if needed
func NewLocalFileStore(dir, baseURL string) (*LocalFileStore, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &LocalFileStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalFileStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	filename := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))

	dst, err := os.Create(filepath.Join(s.Dir, filename))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}
	return s.BaseURL + "/uploads/" + filename, nil
}
