package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gyan-sharma/gs7crm-backend/config"
	"github.com/gyan-sharma/gs7crm-backend/model"
	"github.com/gyan-sharma/gs7crm-backend/pkg/logger"
)

// DocumentService is the shared attachment manager: it validates uploads,
// moves bytes to the right bucket and keeps the metadata rows. Deletion is
// immediate (object and row), never a client-side "pending" mark.
type DocumentService struct {
	db      *gorm.DB
	storage ObjectStorage
	buckets config.BucketConfig
	uploads config.UploadConfig
}

func NewDocumentService(db *gorm.DB, storage ObjectStorage, cfg *config.Config) *DocumentService {
	return &DocumentService{
		db:      db,
		storage: storage,
		buckets: cfg.Minio.Buckets,
		uploads: cfg.Uploads,
	}
}

// UploadInput describes one file being attached.
type UploadInput struct {
	Context  model.DocumentContext
	Folder   string // usually the owning entity's ID
	Filename string
	MIMEType string
	Size     int64
	Reader   io.Reader
}

// BucketFor maps a document context to its storage bucket. Review and
// opportunity documents share drp-documents.
func (s *DocumentService) BucketFor(docCtx model.DocumentContext) string {
	switch docCtx {
	case model.DocContextContract:
		return s.buckets.ContractDocuments
	case model.DocContextPartner:
		return s.buckets.PartnerDocuments
	default:
		return s.buckets.DRPDocuments
	}
}

// maxBytesFor returns the per-file size limit for a context. Contract
// documents get the larger limit.
func (s *DocumentService) maxBytesFor(docCtx model.DocumentContext) int64 {
	if docCtx == model.DocContextContract {
		return s.uploads.ContractMaxBytes()
	}
	return s.uploads.MaxBytes()
}

// Stage validates the file and writes its bytes to object storage without
// creating a database row. Size and extension are checked before any storage
// call. The object key is {folder}/{timestamp}-{original name}.
func (s *DocumentService) Stage(ctx context.Context, in UploadInput) (model.DocumentMeta, error) {
	var meta model.DocumentMeta

	if !in.Context.Valid() {
		return meta, fmt.Errorf("%w: unknown document context %q", ErrValidation, in.Context)
	}
	if strings.TrimSpace(in.Filename) == "" {
		return meta, fmt.Errorf("%w: filename is required", ErrValidation)
	}

	ext := strings.ToLower(filepath.Ext(in.Filename))
	if !s.uploads.ExtensionAllowed(ext) {
		return meta, fmt.Errorf("%q: %w", ext, ErrExtensionNotAllowed)
	}
	if limit := s.maxBytesFor(in.Context); in.Size > limit {
		return meta, fmt.Errorf("%d bytes over limit %d: %w", in.Size, limit, ErrFileTooLarge)
	}

	contentType := in.MIMEType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectName := fmt.Sprintf("%s/%d-%s", in.Folder, time.Now().Unix(), in.Filename)
	bucket := s.BucketFor(in.Context)

	if err := s.storage.Upload(ctx, bucket, objectName, in.Reader, in.Size, contentType); err != nil {
		return meta, err
	}

	meta = model.DocumentMeta{
		Name:        in.Filename,
		StoragePath: objectName,
		MIMEType:    contentType,
		Size:        in.Size,
	}
	logger.Debug(ctx, "document staged", "bucket", bucket, "path", objectName, "size", in.Size)
	return meta, nil
}

// Upload stages the file and persists its document row against the owner.
// The owner row must exist; the check runs before staging so a bad owner_id
// leaves nothing in object storage.
func (s *DocumentService) Upload(ctx context.Context, actor Actor, in UploadInput, ownerID string) (*model.Document, error) {
	if err := s.ownerExists(ctx, in.Context, ownerID); err != nil {
		return nil, err
	}

	meta, err := s.Stage(ctx, in)
	if err != nil {
		return nil, err
	}

	doc := DocumentFromMeta(meta, in.Context, ownerID, actor.ID)
	if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// Get loads a document's metadata row.
func (s *DocumentService) Get(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document
	err := s.db.WithContext(ctx).First(&doc, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &doc, nil
}

// Open returns the document row and a reader over its stored bytes. The
// caller must close the reader.
func (s *DocumentService) Open(ctx context.Context, id string) (*model.Document, io.ReadCloser, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	reader, err := s.storage.Download(ctx, s.BucketFor(doc.Context), doc.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	return doc, reader, nil
}

// Delete removes the stored object and then the metadata row.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.Remove(ctx, s.BucketFor(doc.Context), doc.StoragePath); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&model.Document{}, "id = ?", id).Error; err != nil {
		return err
	}

	logger.Info(ctx, "document deleted", "document_id", id, "path", doc.StoragePath)
	return nil
}

// ownerExists verifies the row a document would be attached to.
func (s *DocumentService) ownerExists(ctx context.Context, docCtx model.DocumentContext, ownerID string) error {
	var owner interface{}
	switch docCtx {
	case model.DocContextReview:
		owner = &model.ReviewRequest{}
	case model.DocContextContract:
		owner = &model.Contract{}
	case model.DocContextPartner:
		owner = &model.Partner{}
	case model.DocContextOpportunity:
		owner = &model.Opportunity{}
	default:
		return fmt.Errorf("%w: unknown document context %q", ErrValidation, docCtx)
	}

	err := s.db.WithContext(ctx).First(owner, "id = ?", ownerID).Error
	if err == gorm.ErrRecordNotFound {
		return fmt.Errorf("%s %s: %w", docCtx, ownerID, ErrNotFound)
	}
	return err
}

// DocumentFromMeta builds the metadata row for a staged object, wiring the
// owner reference that matches the context.
func DocumentFromMeta(meta model.DocumentMeta, docCtx model.DocumentContext, ownerID, uploaderID string) model.Document {
	doc := model.Document{
		ID:           uuid.New().String(),
		Name:         meta.Name,
		StoragePath:  meta.StoragePath,
		MIMEType:     meta.MIMEType,
		Size:         meta.Size,
		Context:      docCtx,
		UploadedByID: uploaderID,
	}
	switch docCtx {
	case model.DocContextReview:
		doc.RequestID = &ownerID
	case model.DocContextContract:
		doc.ContractID = &ownerID
	case model.DocContextPartner:
		doc.PartnerID = &ownerID
	case model.DocContextOpportunity:
		doc.OpportunityID = &ownerID
	}
	return doc
}
