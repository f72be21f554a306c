package service

import (
	"context"
	"errors"
	"strings"

	"github.com/netpointcafe/portal-backend/internal/model"
	"github.com/netpointcafe/portal-backend/internal/repository"
)

const maxDocumentBytes = 20 << 20 // 20MB

// DocumentUploader abstracts the bucket writer so the service can run (and
// be tested) without cloud credentials.
type DocumentUploader interface {
	Upload(ctx context.Context, userUID, fileName, contentType string, data []byte) (string, error)
}

type DocumentService interface {
	Save(ctx context.Context, userUID, fileName, contentType string, folderPath *string, data []byte) (*model.SavedDocument, error)
	ListMine(ctx context.Context, userUID string) ([]model.SavedDocument, error)
}

type documentService struct {
	repo     repository.DocumentRepository
	uploader DocumentUploader
}

func NewDocumentService(repo repository.DocumentRepository, uploader DocumentUploader) DocumentService {
	return &documentService{repo: repo, uploader: uploader}
}

func (s *documentService) Save(ctx context.Context, userUID, fileName, contentType string, folderPath *string, data []byte) (*model.SavedDocument, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, errors.New("file name is required")
	}
	if strings.Contains(fileName, "/") || strings.Contains(fileName, "..") {
		return nil, errors.New("invalid file name")
	}
	if len(data) == 0 {
		return nil, errors.New("file is empty")
	}
	if len(data) > maxDocumentBytes {
		return nil, errors.New("file too large")
	}
	if s.uploader == nil {
		return nil, errors.New("document storage is not configured")
	}

	fileURL, err := s.uploader.Upload(ctx, userUID, fileName, contentType, data)
	if err != nil {
		return nil, err
	}

	size := int64(len(data))
	var ct *string
	if contentType != "" {
		ct = &contentType
	}
	doc := &model.SavedDocument{
		UserUID:    userUID,
		FileName:   fileName,
		FileType:   ct,
		FileSize:   &size,
		FileURL:    fileURL,
		FolderPath: folderPath,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentService) ListMine(ctx context.Context, userUID string) ([]model.SavedDocument, error) {
	return s.repo.ListByUser(ctx, userUID)
}
