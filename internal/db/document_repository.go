package db

import (
	"context"
	"fmt"

	"portal-backend-go/internal/models"
	"portal-backend-go/internal/timestamp"
)

type documentRepository struct {
	store Store
}

// NewDocumentRepository creates a DocumentRepository.
func NewDocumentRepository(store Store) DocumentRepository {
	return &documentRepository{store: store}
}

func decodeDocument(doc *Doc) *models.Document {
	m := timestamp.NormalizeFields(doc.Data)
	return &models.Document{
		ID:          doc.ID,
		Name:        getString(m, "name"),
		Filename:    getString(m, "filename"),
		FileLink:    firstString(m, "file_link", "fileUrl"),
		FileSize:    getInt64(m, "file_size"),
		FileType:    getString(m, "file_type"),
		Description: getString(m, "description"),
		CreatedAt:   getTime(m, "createdAt"),
		UpdatedAt:   getTime(m, "updatedAt"),
	}
}

func documentRecord(patch models.DocumentPatch) record {
	r := record{}
	r.str("name", patch.Name)
	r.str("filename", patch.Filename)
	r.str("file_link", patch.FileLink)
	r.int64("file_size", patch.FileSize)
	r.str("file_type", patch.FileType)
	r.str("description", patch.Description)
	return r
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	d, err := getOne(ctx, r.store, DocumentsCollection, id, decodeDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to get document with ID '%s': %w", id, err)
	}
	return d, nil
}

func (r *documentRepository) GetAll(ctx context.Context) ([]*models.Document, error) {
	docs, err := findAll(ctx, r.store, DocumentsCollection, newestFirst, decodeDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

func (r *documentRepository) GetForOwner(ctx context.Context, userID string) ([]*models.Document, error) {
	docs, err := getOwned(ctx, r.store, DocumentsCollection, userID, models.OwnedDocuments, decodeDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents of user '%s': %w", userID, err)
	}
	return docs, nil
}

func (r *documentRepository) Create(ctx context.Context, patch models.DocumentPatch) (string, error) {
	data := documentRecord(patch)
	if _, ok := data["file_link"]; !ok {
		data["file_link"] = ""
	}
	id, err := r.store.Add(ctx, DocumentsCollection, data.stampCreated())
	if err != nil {
		return "", fmt.Errorf("failed to create document: %w", err)
	}
	return id, nil
}

func (r *documentRepository) Update(ctx context.Context, id string, patch models.DocumentPatch) error {
	if err := r.store.Update(ctx, DocumentsCollection, id, documentRecord(patch).stampUpdated()); err != nil {
		return fmt.Errorf("failed to update document with ID '%s': %w", id, err)
	}
	return nil
}

func (r *documentRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, DocumentsCollection, id); err != nil {
		return fmt.Errorf("failed to delete document with ID '%s': %w", id, err)
	}
	return nil
}
