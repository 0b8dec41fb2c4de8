package db

import (
	"context"
	"fmt"

	"portal-backend-go/internal/models"
	"portal-backend-go/internal/timestamp"
)

// Legacy invoice field names still present in older records.
const (
	legacyDueDate = "dueDate"
	legacyFileURL = "fileUrl"
)

type invoiceRepository struct {
	store Store
}

// NewInvoiceRepository creates an InvoiceRepository.
func NewInvoiceRepository(store Store) InvoiceRepository {
	return &invoiceRepository{store: store}
}

// decodeInvoice reads both the canonical and the legacy field names; the
// canonical one wins when both are set.
func decodeInvoice(doc *Doc) *models.Invoice {
	m := timestamp.NormalizeFields(doc.Data)
	inv := &models.Invoice{
		ID:            doc.ID,
		InvoiceName:   getString(m, "invoice_name"),
		InvoiceNumber: getString(m, "invoiceNumber"),
		Status:        getString(m, "status"),
		FileLink:      firstString(m, "file_link", legacyFileURL),
		DueDate:       getTime(m, "due_date", legacyDueDate),
		PaidDate:      getTime(m, "paid_date"),
		Description:   getString(m, "description"),
		ClientID:      getString(m, "clientId"),
		CreatedAt:     getTime(m, "createdAt"),
		UpdatedAt:     getTime(m, "updatedAt"),
	}
	inv.Amount, _ = getFloat(m, "amount")
	return inv
}

func invoiceRecord(patch models.InvoicePatch) record {
	r := record{}
	r.str("invoice_name", patch.InvoiceName)
	r.str("invoiceNumber", patch.InvoiceNumber)
	r.float("amount", patch.Amount)
	r.str("status", patch.Status)
	r.str("file_link", patch.FileLink)
	r.time("due_date", patch.DueDate)
	r.time("paid_date", patch.PaidDate)
	r.str("description", patch.Description)
	r.str("clientId", patch.ClientID)
	return r
}

func (r *invoiceRepository) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	inv, err := getOne(ctx, r.store, InvoicesCollection, id, decodeInvoice)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice with ID '%s': %w", id, err)
	}
	return inv, nil
}

func (r *invoiceRepository) GetAll(ctx context.Context) ([]*models.Invoice, error) {
	invoices, err := findAll(ctx, r.store, InvoicesCollection, newestFirst, decodeInvoice)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

func (r *invoiceRepository) GetForOwner(ctx context.Context, userID string) ([]*models.Invoice, error) {
	invoices, err := getOwned(ctx, r.store, InvoicesCollection, userID, models.OwnedInvoices, decodeInvoice)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices of user '%s': %w", userID, err)
	}
	return invoices, nil
}

func (r *invoiceRepository) Create(ctx context.Context, patch models.InvoicePatch) (string, error) {
	data := invoiceRecord(patch)
	if _, ok := data["file_link"]; !ok {
		data["file_link"] = ""
	}
	id, err := r.store.Add(ctx, InvoicesCollection, data.stampCreated())
	if err != nil {
		return "", fmt.Errorf("failed to create invoice: %w", err)
	}
	return id, nil
}

// Update writes canonical names only. Legacy fields are cleared whenever the
// matching canonical field is written, so the two cannot disagree.
func (r *invoiceRepository) Update(ctx context.Context, id string, patch models.InvoicePatch) error {
	data := invoiceRecord(patch)
	if _, ok := data["due_date"]; ok {
		data[legacyDueDate] = DeleteField
	}
	if _, ok := data["file_link"]; ok {
		data[legacyFileURL] = DeleteField
	}
	if err := r.store.Update(ctx, InvoicesCollection, id, data.stampUpdated()); err != nil {
		return fmt.Errorf("failed to update invoice with ID '%s': %w", id, err)
	}
	return nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, InvoicesCollection, id); err != nil {
		return fmt.Errorf("failed to delete invoice with ID '%s': %w", id, err)
	}
	return nil
}

func (r *invoiceRepository) MigrateLegacyFields(ctx context.Context, dryRun bool) (int, error) {
	docs, err := r.store.Find(ctx, InvoicesCollection, Query{})
	if err != nil {
		return 0, fmt.Errorf("failed to list invoices: %w", err)
	}

	changed := 0
	for _, doc := range docs {
		_, hasDue := doc.Data[legacyDueDate]
		_, hasFile := doc.Data[legacyFileURL]
		if !hasDue && !hasFile {
			continue
		}

		inv := decodeInvoice(doc)
		data := record{}
		if hasDue {
			if _, ok := doc.Data["due_date"]; !ok && inv.DueDate != nil {
				data["due_date"] = inv.DueDate.UTC()
			}
			data[legacyDueDate] = DeleteField
		}
		if hasFile {
			if getString(doc.Data, "file_link") == "" {
				data["file_link"] = inv.FileLink
			}
			data[legacyFileURL] = DeleteField
		}

		changed++
		if dryRun {
			continue
		}
		if err := r.store.Update(ctx, InvoicesCollection, doc.ID, data.stampUpdated()); err != nil {
			return changed - 1, fmt.Errorf("failed to migrate invoice '%s': %w", doc.ID, err)
		}
	}
	return changed, nil
}
