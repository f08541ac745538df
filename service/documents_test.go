package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyan-sharma/gs7crm-backend/config"
	"github.com/gyan-sharma/gs7crm-backend/model"
)

// fakeStorage records calls so tests can assert that rejected uploads never
// reach object storage.
type fakeStorage struct {
	uploads  int
	removals int
	objects  map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) EnsureBucket(ctx context.Context, bucket string) error { return nil }

func (f *fakeStorage) Upload(ctx context.Context, bucket, objectName string, reader io.Reader, size int64, contentType string) error {
	f.uploads++
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.objects[bucket+"/"+objectName] = data
	return nil
}

func (f *fakeStorage) Download(ctx context.Context, bucket, objectName string) (io.ReadCloser, error) {
	data, ok := f.objects[bucket+"/"+objectName]
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStorage) Remove(ctx context.Context, bucket, objectName string) error {
	f.removals++
	delete(f.objects, bucket+"/"+objectName)
	return nil
}

func testUploadConfig() *config.Config {
	return &config.Config{
		Minio: config.MinioConfig{
			Buckets: config.BucketConfig{
				ContractDocuments: "contract-documents",
				DRPDocuments:      "drp-documents",
				PartnerDocuments:  "partner-documents",
			},
		},
		Uploads: config.UploadConfig{
			MaxFileSizeMB:         10,
			ContractMaxFileSizeMB: 20,
			AllowedExtensions:     []string{".pdf", ".docx", ".xlsx"},
		},
	}
}

func newDocumentFixture(t *testing.T) (*DocumentService, *fakeStorage) {
	db := newTestDB(t)
	storage := newFakeStorage()
	return NewDocumentService(db, storage, testUploadConfig()), storage
}

func uploadInput(docCtx model.DocumentContext, name string, size int64) UploadInput {
	return UploadInput{
		Context:  docCtx,
		Folder:   "owner-1",
		Filename: name,
		MIMEType: "application/pdf",
		Size:     size,
		Reader:   strings.NewReader("content"),
	}
}

func TestStageRejectsOversizedFileWithoutStorageCall(t *testing.T) {
	svc, storage := newDocumentFixture(t)

	// 15MB against the 10MB default limit
	_, err := svc.Stage(context.Background(), uploadInput(model.DocContextReview, "big.pdf", 15*1024*1024))
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Equal(t, 0, storage.uploads)
}

func TestStageContractLimitIsLarger(t *testing.T) {
	svc, storage := newDocumentFixture(t)
	size := int64(15 * 1024 * 1024)

	// 15MB is over the default limit but under the contract limit
	_, err := svc.Stage(context.Background(), uploadInput(model.DocContextReview, "big.pdf", size))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = svc.Stage(context.Background(), uploadInput(model.DocContextContract, "big.pdf", size))
	require.NoError(t, err)
	assert.Equal(t, 1, storage.uploads)
}

func TestStageRejectsDisallowedExtension(t *testing.T) {
	svc, storage := newDocumentFixture(t)

	_, err := svc.Stage(context.Background(), uploadInput(model.DocContextReview, "malware.exe", 100))
	assert.ErrorIs(t, err, ErrExtensionNotAllowed)
	assert.Equal(t, 0, storage.uploads)
}

func TestStageObjectKeyFormat(t *testing.T) {
	svc, _ := newDocumentFixture(t)

	meta, err := svc.Stage(context.Background(), uploadInput(model.DocContextReview, "notes.pdf", 100))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(meta.StoragePath, "owner-1/"))
	assert.True(t, strings.HasSuffix(meta.StoragePath, "-notes.pdf"))
	assert.Equal(t, "notes.pdf", meta.Name)
	assert.EqualValues(t, 100, meta.Size)
}

func TestBucketFor(t *testing.T) {
	svc, _ := newDocumentFixture(t)

	assert.Equal(t, "contract-documents", svc.BucketFor(model.DocContextContract))
	assert.Equal(t, "partner-documents", svc.BucketFor(model.DocContextPartner))
	assert.Equal(t, "drp-documents", svc.BucketFor(model.DocContextReview))
	assert.Equal(t, "drp-documents", svc.BucketFor(model.DocContextOpportunity))
}

func TestUploadPersistsRowWithOwner(t *testing.T) {
	db := newTestDB(t)
	storage := newFakeStorage()
	svc := NewDocumentService(db, storage, testUploadConfig())
	uploader := createTestUser(t, db, model.RoleSales)

	offer := createTestOffer(t, db, model.OfferWon)
	contract := model.Contract{
		ID:           "contract-id-1",
		Code:         model.GenerateCode("contract-"),
		OfferID:      offer.ID,
		Summary:      "signed deal",
		PaymentTerms: "net 30",
		CreatedByID:  uploader.ID,
	}
	require.NoError(t, db.Create(&contract).Error)

	doc, err := svc.Upload(context.Background(),
		Actor{ID: uploader.ID, Role: uploader.Role},
		uploadInput(model.DocContextContract, "signed.pdf", 2048),
		contract.ID)
	require.NoError(t, err)

	require.NotNil(t, doc.ContractID)
	assert.Equal(t, contract.ID, *doc.ContractID)
	assert.Nil(t, doc.RequestID)
	assert.Equal(t, uploader.ID, doc.UploadedByID)

	stored, err := svc.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "signed.pdf", stored.Name)
}

func TestUploadRejectsMissingOwnerWithoutStorageCall(t *testing.T) {
	db := newTestDB(t)
	storage := newFakeStorage()
	svc := NewDocumentService(db, storage, testUploadConfig())
	uploader := createTestUser(t, db, model.RoleSales)

	_, err := svc.Upload(context.Background(),
		Actor{ID: uploader.ID, Role: uploader.Role},
		uploadInput(model.DocContextContract, "signed.pdf", 2048),
		"no-such-contract")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, storage.uploads)

	var count int64
	require.NoError(t, db.Model(&model.Document{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteRemovesObjectAndRow(t *testing.T) {
	db := newTestDB(t)
	storage := newFakeStorage()
	svc := NewDocumentService(db, storage, testUploadConfig())
	uploader := createTestUser(t, db, model.RoleSales)

	offer := createTestOffer(t, db, model.OfferInReview)
	request := model.ReviewRequest{
		ID:            "request-id-1",
		OfferID:       offer.ID,
		RequestedByID: uploader.ID,
		Details:       "please review",
	}
	require.NoError(t, db.Create(&request).Error)

	doc, err := svc.Upload(context.Background(),
		Actor{ID: uploader.ID, Role: uploader.Role},
		uploadInput(model.DocContextReview, "draft.pdf", 512),
		request.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), doc.ID))

	assert.Equal(t, 1, storage.removals)
	_, err = svc.Get(context.Background(), doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenStreamsStoredBytes(t *testing.T) {
	db := newTestDB(t)
	storage := newFakeStorage()
	svc := NewDocumentService(db, storage, testUploadConfig())
	uploader := createTestUser(t, db, model.RoleSales)

	partner := model.Partner{ID: "partner-id-1", Name: "Acme Integrations"}
	require.NoError(t, db.Create(&partner).Error)

	doc, err := svc.Upload(context.Background(),
		Actor{ID: uploader.ID, Role: uploader.Role},
		uploadInput(model.DocContextPartner, "sla.pdf", 7),
		partner.ID)
	require.NoError(t, err)

	stored, reader, err := svc.Open(context.Background(), doc.ID)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
	assert.Equal(t, "sla.pdf", stored.Name)
}
