package core

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal-backend-go/internal/db"
	"portal-backend-go/internal/models"
)

func TestUserService_Initialize(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	u, created, err := h.users.Initialize(ctx, "u1", "ada@example.com", "Ada")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Ada", u.Name)
	assert.NotNil(t, u.Requests)

	u, created, err = h.users.Initialize(ctx, "u1", "ada@example.com", "Ada Lovelace")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Ada Lovelace", u.Name)

	_, _, err = h.users.Initialize(ctx, "", "x@example.com", "X")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserService_GetAndUpdate(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_, _, err := h.users.Initialize(ctx, "u1", "ada@example.com", "Ada")
	require.NoError(t, err)

	_, err = h.users.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)

	u, err := h.users.Update(ctx, "u1", models.UserPatch{Role: ptr(models.RoleAdmin)})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.Equal(t, "Ada", u.Name)

	_, err = h.users.Update(ctx, "u1", models.UserPatch{Role: ptr("owner")})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = h.users.Update(ctx, "u1", models.UserPatch{Email: ptr("not-an-email")})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = h.users.Update(ctx, "ghost", models.UserPatch{Name: ptr("X")})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_DeleteRemovesRequestsOnly(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_, _, err := h.users.Initialize(ctx, "u1", "ada@example.com", "Ada")
	require.NoError(t, err)
	_, _, err = h.users.Initialize(ctx, "u2", "bob@example.com", "Bob")
	require.NoError(t, err)

	for _, uid := range []string{"u1", "u1", "u2"} {
		_, err := h.requests.Create(ctx, Requester{UserID: uid}, models.RequestPatch{Request: ptr("Help")})
		require.NoError(t, err)
	}
	p, err := h.projects.Create(ctx, models.ProjectPatch{ProjectName: ptr("Website")})
	require.NoError(t, err)
	require.NoError(t, h.projects.Assign(ctx, p.ID, "u1"))

	require.NoError(t, h.users.Delete(ctx, "u1"))

	_, err = h.users.GetByID(ctx, "u1")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, 1, h.store.Len(db.RequestsCollection))
	_, err = h.projects.GetByID(ctx, p.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, h.users.Delete(ctx, "u1"), ErrUserNotFound)
}

func TestPaymentSummary_Scenario(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_, _, err := h.users.Initialize(ctx, "u1", "ada@example.com", "Ada")
	require.NoError(t, err)

	pending, err := h.invoices.Create(ctx, models.InvoicePatch{InvoiceName: ptr("Design"), Amount: ptr(500.0), Status: ptr(models.InvoiceStatusPending)})
	require.NoError(t, err)
	require.NoError(t, h.invoices.Assign(ctx, pending.ID, "u1"))

	_, err = h.invoices.Create(ctx, models.InvoicePatch{InvoiceName: ptr("Build"), Amount: ptr(300.0), Status: ptr(models.InvoiceStatusPaid), ClientID: ptr("u1")})
	require.NoError(t, err)

	sum, err := h.users.PaymentSummary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSummary{TotalPaid: 300, Pending: 500, Due: 0, Overdue: 0}, sum)

	empty, err := h.users.PaymentSummary(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSummary{}, empty)
}

func TestSummarize(t *testing.T) {
	invoices := []*models.Invoice{
		{Amount: 100, Status: models.InvoiceStatusPaid},
		{Amount: 50.5, Status: models.InvoiceStatusPaid},
		{Amount: 20, Status: models.InvoiceStatusPending},
		{Amount: 30, Status: models.InvoiceStatusDue},
		{Amount: 40, Status: models.InvoiceStatusOverdue},
		{Amount: 999, Status: "draft"},
		nil,
	}
	assert.Equal(t, models.PaymentSummary{TotalPaid: 150.5, Pending: 20, Due: 30, Overdue: 40}, Summarize(invoices))
	assert.Equal(t, models.PaymentSummary{}, Summarize(nil))
}

func TestInvoiceService_Validation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.invoices.Create(ctx, models.InvoicePatch{Amount: ptr(1.0)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = h.invoices.Create(ctx, models.InvoicePatch{InvoiceName: ptr("A")})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = h.invoices.Create(ctx, models.InvoicePatch{InvoiceName: ptr("A"), Amount: ptr(-1.0)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = h.invoices.Create(ctx, models.InvoicePatch{InvoiceName: ptr("A"), Amount: ptr(1.0), Status: ptr("void")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	inv, err := h.invoices.Create(ctx, models.InvoicePatch{InvoiceName: ptr("A"), Amount: ptr(1.0)})
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPending, inv.Status)

	_, err = h.invoices.Update(ctx, "missing", models.InvoicePatch{Amount: ptr(2.0)})
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestInvoiceService_DeleteSurvivesBlobFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	up, err := h.files.Upload(ctx, File{Name: "inv.pdf", Size: 3, ContentType: "application/pdf", Body: bytes.NewReader([]byte("pdf"))}, FolderInvoices)
	require.NoError(t, err)
	inv, err := h.invoices.Create(ctx, models.InvoicePatch{InvoiceName: ptr("A"), Amount: ptr(1.0), FileLink: ptr(up.URL)})
	require.NoError(t, err)

	h.blobs.DeleteErr = errors.New("storage unavailable")
	require.NoError(t, h.invoices.Delete(ctx, inv.ID))

	_, err = h.invoices.GetByID(ctx, inv.ID)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
	assert.Zero(t, h.store.Len(db.InvoicesCollection))
	assert.Equal(t, 1, h.blobs.Len())
}

func TestDocumentService_DeleteRemovesBlob(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	up, err := h.files.Upload(ctx, File{Name: "brief.txt", Size: 5, ContentType: "text/plain", Body: bytes.NewReader([]byte("brief"))}, FolderDocuments)
	require.NoError(t, err)
	doc, err := h.documents.Create(ctx, models.DocumentPatch{FileLink: ptr(up.URL), FileSize: ptr(up.FileSize), FileType: ptr(up.ContentType)})
	require.NoError(t, err)
	assert.Equal(t, "brief.txt", doc.Name)

	require.NoError(t, h.documents.Delete(ctx, doc.ID))
	assert.Zero(t, h.blobs.Len())
	assert.Zero(t, h.store.Len(db.DocumentsCollection))
}

func TestDocumentService_DeleteSurvivesBlobFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	doc, err := h.documents.Create(ctx, models.DocumentPatch{Name: ptr("Contract"), FileLink: ptr("https://elsewhere.test/contract.pdf")})
	require.NoError(t, err)

	require.NoError(t, h.documents.Delete(ctx, doc.ID))
	_, err = h.documents.GetByID(ctx, doc.ID)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDocumentService_CreateRequiresName(t *testing.T) {
	h := newHarness(t)
	_, err := h.documents.Create(context.Background(), models.DocumentPatch{Description: ptr("no name")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProjectService(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_, _, err := h.users.Initialize(ctx, "u1", "ada@example.com", "Ada")
	require.NoError(t, err)

	_, err = h.projects.Create(ctx, models.ProjectPatch{Status: ptr(models.ProjectStatusActive)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = h.projects.Create(ctx, models.ProjectPatch{ProjectName: ptr("X"), Status: ptr("paused")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	p, err := h.projects.Create(ctx, models.ProjectPatch{ProjectName: ptr("Website"), Budget: ptr(1200.0)})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusActive, p.Status)

	p, err = h.projects.Update(ctx, p.ID, models.ProjectPatch{Status: ptr(models.ProjectStatusOnHold)})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusOnHold, p.Status)
	assert.Equal(t, "Website", p.ProjectName)

	require.NoError(t, h.projects.Assign(ctx, p.ID, "u1"))
	require.NoError(t, h.projects.Assign(ctx, p.ID, "u1"))
	mine, err := h.projects.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	assert.ErrorIs(t, h.projects.Assign(ctx, p.ID, "ghost"), ErrUserNotFound)
	assert.ErrorIs(t, h.projects.Assign(ctx, p.ID, ""), ErrInvalidInput)

	require.NoError(t, h.projects.Delete(ctx, p.ID))
	assert.ErrorIs(t, h.projects.Delete(ctx, p.ID), ErrProjectNotFound)
}

func TestAdminList(t *testing.T) {
	admins := NewAdminList([]string{" Boss@Example.com ", "", "ops@example.com"})
	assert.True(t, admins.IsAdmin("boss@example.com"))
	assert.True(t, admins.IsAdmin("OPS@example.com"))
	assert.False(t, admins.IsAdmin("client@example.com"))
	assert.False(t, admins.IsAdmin(""))

	var none *AdminList
	assert.False(t, none.IsAdmin("boss@example.com"))
}

func TestAvailableTransitions(t *testing.T) {
	assert.Equal(t, []Transition{
		{To: models.StatusInProgress, Label: "Start"},
		{To: models.StatusDone, Label: "Complete"},
	}, AvailableTransitions(models.StatusTodo))
	assert.Equal(t, []Transition{
		{To: models.StatusTodo, Label: "To Do"},
		{To: models.StatusInProgress, Label: "Start"},
	}, AvailableTransitions(models.StatusDone))
	assert.Len(t, AvailableTransitions("unknown"), 3)
}

func TestGroupByStatus(t *testing.T) {
	reqs := []*models.Request{
		{ID: "1", Status: models.StatusDone},
		{ID: "2", Status: models.StatusTodo},
		{ID: "3", Status: "archived"},
		{ID: "4", Status: models.StatusTodo},
	}
	groups := GroupByStatus(reqs)
	assert.Len(t, groups, 3)
	assert.Equal(t, []*models.Request{reqs[1], reqs[3]}, groups[models.StatusTodo])
	assert.Empty(t, groups[models.StatusInProgress])
	assert.NotNil(t, groups[models.StatusInProgress])
	assert.Equal(t, []*models.Request{reqs[0]}, groups[models.StatusDone])
}
