package core

import (
	"context"

	"portal-backend-go/internal/models"
)

// UserService defines operations on client profiles.
type UserService interface {
	// Initialize runs on every login. It creates the profile when missing,
	// otherwise merges name and email. The bool reports whether it was created.
	Initialize(ctx context.Context, userID, email, name string) (*models.User, bool, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error)
	// Delete removes the profile together with the user's tickets. Projects,
	// invoices and documents are left in place.
	Delete(ctx context.Context, userID string) error
	PaymentSummary(ctx context.Context, userID string) (models.PaymentSummary, error)
}

// ProjectService defines operations on projects.
type ProjectService interface {
	List(ctx context.Context) ([]*models.Project, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Project, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, patch models.ProjectPatch) (*models.Project, error)
	Update(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error)
	Delete(ctx context.Context, id string) error
	Assign(ctx context.Context, id, userID string) error
}

// InvoiceService defines operations on invoices.
type InvoiceService interface {
	List(ctx context.Context) ([]*models.Invoice, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Invoice, error)
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
	Create(ctx context.Context, patch models.InvoicePatch) (*models.Invoice, error)
	Update(ctx context.Context, id string, patch models.InvoicePatch) (*models.Invoice, error)
	// Delete removes the invoice and, best-effort, its attached file.
	Delete(ctx context.Context, id string) error
	Assign(ctx context.Context, id, userID string) error
}

// DocumentService defines operations on shared files.
type DocumentService interface {
	List(ctx context.Context) ([]*models.Document, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Document, error)
	GetByID(ctx context.Context, id string) (*models.Document, error)
	Create(ctx context.Context, patch models.DocumentPatch) (*models.Document, error)
	Update(ctx context.Context, id string, patch models.DocumentPatch) (*models.Document, error)
	// Delete removes the document and, best-effort, its stored file.
	Delete(ctx context.Context, id string) error
	Assign(ctx context.Context, id, userID string) error
}

// RequestService defines operations on tickets.
type RequestService interface {
	Create(ctx context.Context, owner Requester, patch models.RequestPatch) (*models.Request, error)
	GetByID(ctx context.Context, id string) (*models.Request, error)
	List(ctx context.Context, filter RequestFilter) ([]*models.Request, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Request, error)
	Update(ctx context.Context, id string, patch models.RequestPatch) (*models.Request, error)
	Transition(ctx context.Context, id, status string) (*models.Request, error)
	Delete(ctx context.Context, id string) error
	Assign(ctx context.Context, id, userID string) error

	// SubscribeAll pushes the full ticket list, newest first, on every change.
	SubscribeAll(ctx context.Context, fn func([]*models.Request)) *Subscription
	// SubscribeForUser pushes one user's tickets, newest first, on every change.
	SubscribeForUser(ctx context.Context, userID string, fn func([]*models.Request)) *Subscription
}

// AccountService defines identity and email operations.
type AccountService interface {
	CreateUser(ctx context.Context, req NewAccount) (*models.User, error)
	ResetPassword(ctx context.Context, email string) error
	SendEmail(ctx context.Context, req OutgoingEmail) (string, error)
}
