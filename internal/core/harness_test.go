package core

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"portal-backend-go/internal/blob"
	"portal-backend-go/internal/db"
	"portal-backend-go/internal/identity"
	"portal-backend-go/internal/mailer"
	"portal-backend-go/internal/ratelimit"
)

func ptr[T any](v T) *T { return &v }

func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

type harness struct {
	store    *db.MemoryStore
	userRepo db.UserRepository
	blobs    *blob.MemoryStore
	files    *FileGateway
	mail     *mailer.Recorder
	idp      *identity.Fake

	users     UserService
	projects  ProjectService
	invoices  InvoiceService
	documents DocumentService
	requests  RequestService
	accounts  AccountService
}

func newHarness(t *testing.T, opts ...db.MemoryOption) *harness {
	t.Helper()
	logger := zaptest.NewLogger(t)

	store := db.NewMemoryStore(append([]db.MemoryOption{db.WithClock(tickingClock())}, opts...)...)
	userRepo := db.NewUserRepository(store)
	invoiceRepo := db.NewInvoiceRepository(store)
	blobs := blob.NewMemoryStore("https://files.example.test")
	files := NewFileGateway(blobs, DefaultMaxFileSize, logger)
	mail := &mailer.Recorder{}
	idp := identity.NewFake()

	return &harness{
		store:     store,
		userRepo:  userRepo,
		blobs:     blobs,
		files:     files,
		mail:      mail,
		idp:       idp,
		users:     NewUserService(userRepo, invoiceRepo, logger),
		projects:  NewProjectService(db.NewProjectRepository(store), userRepo, logger),
		invoices:  NewInvoiceService(invoiceRepo, userRepo, files, logger),
		documents: NewDocumentService(db.NewDocumentRepository(store), userRepo, files, logger),
		requests: NewRequestService(db.NewRequestRepository(store), userRepo, mail,
			NotifyOptions{From: "noreply@portal.test", To: "team@portal.test"}, logger),
		accounts: NewAccountService(idp, userRepo, mail, ratelimit.NewMemoryLimiter(2, time.Hour),
			AccountOptions{FromEmail: "noreply@portal.test", ResetContinueURL: "https://portal.test/login"}, logger),
	}
}
