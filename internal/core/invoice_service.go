package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"portal-backend-go/internal/db"
	"portal-backend-go/internal/models"
)

var invoiceStatuses = []string{
	models.InvoiceStatusPaid,
	models.InvoiceStatusPending,
	models.InvoiceStatusDue,
	models.InvoiceStatusOverdue,
}

type invoiceService struct {
	invoices db.InvoiceRepository
	users    db.UserRepository
	files    *FileGateway
	logger   *zap.Logger
}

// NewInvoiceService creates an InvoiceService. files is used to remove
// attached PDFs on delete.
func NewInvoiceService(invoices db.InvoiceRepository, users db.UserRepository, files *FileGateway, logger *zap.Logger) InvoiceService {
	return &invoiceService{invoices: invoices, users: users, files: files, logger: logger}
}

func validateInvoice(patch models.InvoicePatch) error {
	if err := firstErr(
		notBlank("invoice_name", patch.InvoiceName),
		oneOf("status", patch.Status, invoiceStatuses...),
	); err != nil {
		return err
	}
	if patch.Amount != nil && *patch.Amount < 0 {
		return invalidf("amount cannot be negative")
	}
	return nil
}

func (s *invoiceService) List(ctx context.Context) ([]*models.Invoice, error) {
	return s.invoices.GetAll(ctx)
}

func (s *invoiceService) ListForUser(ctx context.Context, userID string) ([]*models.Invoice, error) {
	return s.invoices.GetForOwner(ctx, userID)
}

func (s *invoiceService) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: '%s'", ErrInvoiceNotFound, id)
	}
	return inv, nil
}

// Create stores a new invoice. When a client ID is given the invoice is also
// added to that client's ownership index.
func (s *invoiceService) Create(ctx context.Context, patch models.InvoicePatch) (*models.Invoice, error) {
	if err := firstErr(required("invoice_name", patch.InvoiceName), validateInvoice(patch)); err != nil {
		return nil, err
	}
	if patch.Amount == nil {
		return nil, invalidf("amount is required")
	}
	if patch.Status == nil {
		status := models.InvoiceStatusPending
		patch.Status = &status
	}
	id, err := s.invoices.Create(ctx, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Invoice created", zap.String("invoiceID", id))

	if patch.ClientID != nil && *patch.ClientID != "" {
		if err := s.Assign(ctx, id, *patch.ClientID); err != nil {
			return nil, fmt.Errorf("invoice '%s' created but not assigned: %w", id, err)
		}
	}
	return s.GetByID(ctx, id)
}

func (s *invoiceService) Update(ctx context.Context, id string, patch models.InvoicePatch) (*models.Invoice, error) {
	if err := validateInvoice(patch); err != nil {
		return nil, err
	}
	if err := s.invoices.Update(ctx, id, patch); err != nil {
		return nil, notFound(err, ErrInvoiceNotFound, id)
	}
	return s.GetByID(ctx, id)
}

func (s *invoiceService) Delete(ctx context.Context, id string) error {
	inv, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s.files != nil {
		s.files.Delete(ctx, inv.FileLink)
	}
	if err := s.invoices.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Invoice deleted", zap.String("invoiceID", id))
	return nil
}

func (s *invoiceService) Assign(ctx context.Context, id, userID string) error {
	return assign(ctx, s.users, models.OwnedInvoices, id, userID)
}
