package service

import (
	"bytes"
	"context"
	"errors"

	"github.com/buildhub/homeowner-gateway/internal/models"
	"github.com/buildhub/homeowner-gateway/internal/storage"
	"github.com/buildhub/homeowner-gateway/internal/upstream"
)

type receiptBackend interface {
	UploadPaymentReceipt(ctx context.Context, sess upstream.Session, upload models.ReceiptUpload, files []upstream.ReceiptFile) error
}

// ReceiptFile is one uploaded receipt attachment, fully buffered.
type ReceiptFile struct {
	Name    string
	Content []byte
}

// ReceiptService validates and forwards manual payment receipts, keeping a
// local copy of each file.
type ReceiptService struct {
	backend receiptBackend
	storage *storage.ReceiptStorage
}

func NewReceiptService(backend receiptBackend, store *storage.ReceiptStorage) *ReceiptService {
	return &ReceiptService{backend: backend, storage: store}
}

// Upload checks every file before anything is stored or forwarded, so a bad
// attachment fails the whole upload atomically.
func (s *ReceiptService) Upload(ctx context.Context, sess upstream.Session, upload models.ReceiptUpload, files []ReceiptFile) error {
	if len(files) == 0 {
		return errors.New("attach at least one receipt file")
	}
	for _, f := range files {
		if err := s.storage.Validate(f.Name, f.Content); err != nil {
			return err
		}
	}

	for _, f := range files {
		if _, err := s.storage.Save(sess.HomeownerID, f.Name, f.Content); err != nil {
			return err
		}
	}

	forward := make([]upstream.ReceiptFile, 0, len(files))
	for _, f := range files {
		forward = append(forward, upstream.ReceiptFile{Name: f.Name, Content: bytes.NewReader(f.Content)})
	}
	return s.backend.UploadPaymentReceipt(ctx, sess, upload, forward)
}
