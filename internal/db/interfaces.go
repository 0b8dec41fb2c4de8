package db

import (
	"context"

	"portal-backend-go/internal/models"
)

// UserRepository defines storage operations on client profiles.
type UserRepository interface {
	// GetByID returns nil, nil when the profile does not exist.
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.User, error) // sorted by name
	// Create writes a new profile with empty ownership arrays.
	Create(ctx context.Context, user *models.User) error
	// Upsert creates the profile if missing, otherwise merges name and email.
	Upsert(ctx context.Context, userID, name, email string) (created bool, err error)
	Update(ctx context.Context, userID string, patch models.UserPatch) error
	// AppendOwned adds entityID to the user's ownership array of the given
	// kind, once, atomically.
	AppendOwned(ctx context.Context, userID string, kind models.OwnedKind, entityID string) error
	Delete(ctx context.Context, userID string) error
	// DeleteWithRequests removes the profile and every ticket it filed in a
	// single batch. It returns the number of tickets removed.
	DeleteWithRequests(ctx context.Context, userID string) (int, error)
}

// ProjectRepository defines storage operations on projects.
type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*models.Project, error)
	GetAll(ctx context.Context) ([]*models.Project, error)
	GetForOwner(ctx context.Context, userID string) ([]*models.Project, error)
	Create(ctx context.Context, patch models.ProjectPatch) (string, error)
	Update(ctx context.Context, id string, patch models.ProjectPatch) error
	Delete(ctx context.Context, id string) error
}

// InvoiceRepository defines storage operations on invoices.
type InvoiceRepository interface {
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
	GetAll(ctx context.Context) ([]*models.Invoice, error)
	GetForOwner(ctx context.Context, userID string) ([]*models.Invoice, error)
	Create(ctx context.Context, patch models.InvoicePatch) (string, error)
	Update(ctx context.Context, id string, patch models.InvoicePatch) error
	Delete(ctx context.Context, id string) error
	// MigrateLegacyFields rewrites dueDate/fileUrl into due_date/file_link
	// and returns the number of records changed.
	MigrateLegacyFields(ctx context.Context, dryRun bool) (int, error)
}

// DocumentRepository defines storage operations on shared files.
type DocumentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Document, error)
	GetAll(ctx context.Context) ([]*models.Document, error)
	GetForOwner(ctx context.Context, userID string) ([]*models.Document, error)
	Create(ctx context.Context, patch models.DocumentPatch) (string, error)
	Update(ctx context.Context, id string, patch models.DocumentPatch) error
	Delete(ctx context.Context, id string) error
}

// RequestRepository defines storage operations on tickets.
type RequestRepository interface {
	GetByID(ctx context.Context, id string) (*models.Request, error)
	GetAll(ctx context.Context) ([]*models.Request, error)
	GetForOwner(ctx context.Context, userID string) ([]*models.Request, error)
	Create(ctx context.Context, patch models.RequestPatch) (string, error)
	Update(ctx context.Context, id string, patch models.RequestPatch) error
	Delete(ctx context.Context, id string) error
	// WatchAll streams every ticket. With ordered set the store sorts by
	// creation time; this needs an index and may fail with
	// ErrFailedPrecondition.
	WatchAll(ctx context.Context, ordered bool, fn func([]*models.Request)) error
	// WatchForOwner streams the tickets filed by userID, unsorted.
	WatchForOwner(ctx context.Context, userID string, fn func([]*models.Request)) error
}
