package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
)

var (
	ErrFileTooLarge    = errors.New("receipt file exceeds the size limit")
	ErrUnsupportedType = errors.New("receipt must be an image or a PDF")
)

// ReceiptStorage keeps local copies of uploaded payment receipts before they
// are forwarded upstream. Files are validated by content, not extension.
type ReceiptStorage struct {
	basePath string
	maxBytes int64
}

func NewReceiptStorage(basePath string, maxSizeMB int64) (*ReceiptStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("receipt storage: create dir: %w", err)
	}
	return &ReceiptStorage{basePath: basePath, maxBytes: maxSizeMB << 20}, nil
}

// Validate checks size and sniffs the content type. Images and PDFs pass.
func (s *ReceiptStorage) Validate(name string, content []byte) error {
	if int64(len(content)) > s.maxBytes {
		return ErrFileTooLarge
	}
	if filetype.IsImage(content) {
		return nil
	}
	if kind, err := filetype.Match(content); err == nil && kind.Extension == "pdf" {
		return nil
	}
	return ErrUnsupportedType
}

// Save validates and writes the file, returning the stored filename.
func (s *ReceiptStorage) Save(homeownerID int64, name string, content []byte) (string, error) {
	if err := s.Validate(name, content); err != nil {
		return "", err
	}

	stored := fmt.Sprintf("%d_%s%s", homeownerID, uuid.NewString(), sanitizeExt(name))
	if err := os.WriteFile(filepath.Join(s.basePath, stored), content, 0o644); err != nil {
		return "", fmt.Errorf("receipt storage: write: %w", err)
	}
	return stored, nil
}

// Open returns the path of a stored receipt for forwarding.
func (s *ReceiptStorage) Path(stored string) string {
	return filepath.Join(s.basePath, filepath.Base(stored))
}

func sanitizeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	for _, r := range ext {
		if r != '.' && (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
