package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"portal-backend-go/internal/db"
	"portal-backend-go/internal/models"
)

type documentService struct {
	documents db.DocumentRepository
	users     db.UserRepository
	files     *FileGateway
	logger    *zap.Logger
}

// NewDocumentService creates a DocumentService.
func NewDocumentService(documents db.DocumentRepository, users db.UserRepository, files *FileGateway, logger *zap.Logger) DocumentService {
	return &documentService{documents: documents, users: users, files: files, logger: logger}
}

func validateDocument(patch models.DocumentPatch) error {
	if err := notBlank("name", patch.Name); err != nil {
		return err
	}
	if patch.FileSize != nil && *patch.FileSize < 0 {
		return invalidf("file_size cannot be negative")
	}
	return nil
}

func (s *documentService) List(ctx context.Context) ([]*models.Document, error) {
	return s.documents.GetAll(ctx)
}

func (s *documentService) ListForUser(ctx context.Context, userID string) ([]*models.Document, error) {
	return s.documents.GetForOwner(ctx, userID)
}

func (s *documentService) GetByID(ctx context.Context, id string) (*models.Document, error) {
	d, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: '%s'", ErrDocumentNotFound, id)
	}
	return d, nil
}

// Create stores document metadata. A missing display name falls back to the
// original filename, then to the name embedded in the file URL.
func (s *documentService) Create(ctx context.Context, patch models.DocumentPatch) (*models.Document, error) {
	if patch.Name == nil || *patch.Name == "" {
		var name string
		switch {
		case patch.Filename != nil && *patch.Filename != "":
			name = *patch.Filename
		case patch.FileLink != nil:
			name = FileNameFromURL(*patch.FileLink)
		}
		patch.Name = &name
	}
	if err := firstErr(required("name", patch.Name), validateDocument(patch)); err != nil {
		return nil, err
	}
	id, err := s.documents.Create(ctx, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Document created", zap.String("documentID", id))
	return s.GetByID(ctx, id)
}

func (s *documentService) Update(ctx context.Context, id string, patch models.DocumentPatch) (*models.Document, error) {
	if err := validateDocument(patch); err != nil {
		return nil, err
	}
	if err := s.documents.Update(ctx, id, patch); err != nil {
		return nil, notFound(err, ErrDocumentNotFound, id)
	}
	return s.GetByID(ctx, id)
}

func (s *documentService) Delete(ctx context.Context, id string) error {
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s.files != nil {
		s.files.Delete(ctx, d.FileLink)
	}
	if err := s.documents.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Document deleted", zap.String("documentID", id))
	return nil
}

func (s *documentService) Assign(ctx context.Context, id, userID string) error {
	return assign(ctx, s.users, models.OwnedDocuments, id, userID)
}
