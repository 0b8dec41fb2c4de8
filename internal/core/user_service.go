package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"portal-backend-go/internal/db"
	"portal-backend-go/internal/models"
)

type userService struct {
	users    db.UserRepository
	invoices db.InvoiceRepository
	logger   *zap.Logger
}

// NewUserService creates a UserService.
func NewUserService(users db.UserRepository, invoices db.InvoiceRepository, logger *zap.Logger) UserService {
	return &userService{users: users, invoices: invoices, logger: logger}
}

func (s *userService) Initialize(ctx context.Context, userID, email, name string) (*models.User, bool, error) {
	if userID == "" {
		return nil, false, invalidf("user ID is required")
	}
	created, err := s.users.Upsert(ctx, userID, strings.TrimSpace(name), strings.TrimSpace(email))
	if err != nil {
		return nil, false, fmt.Errorf("failed to initialize user '%s': %w", userID, err)
	}
	if created {
		s.logger.Info("New user profile created", zap.String("userID", userID))
	}
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return user, created, nil
}

func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, invalidf("user ID is required")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: '%s'", ErrUserNotFound, userID)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	return s.users.GetAll(ctx)
}

func (s *userService) Update(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error) {
	if err := firstErr(
		notBlank("name", patch.Name),
		oneOf("role", patch.Role, models.RoleClient, models.RoleAdmin),
	); err != nil {
		return nil, err
	}
	if patch.Email != nil && !ValidEmail(*patch.Email) {
		return nil, invalidf("invalid email format")
	}
	if err := s.users.Update(ctx, userID, patch); err != nil {
		return nil, notFound(err, ErrUserNotFound, userID)
	}
	return s.GetByID(ctx, userID)
}

func (s *userService) Delete(ctx context.Context, userID string) error {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return err
	}
	removed, err := s.users.DeleteWithRequests(ctx, userID)
	if err != nil {
		return err
	}
	s.logger.Info("User deleted", zap.String("userID", userID), zap.Int("requestsRemoved", removed))
	return nil
}

// PaymentSummary totals the user's invoices by payment state. Invoices are
// read through the owner query rather than the profile's invoice index, so an
// index that lags behind a just-created invoice does not skew the totals.
func (s *userService) PaymentSummary(ctx context.Context, userID string) (models.PaymentSummary, error) {
	if userID == "" {
		return models.PaymentSummary{}, invalidf("user ID is required")
	}
	invoices, err := s.invoices.GetForOwner(ctx, userID)
	if err != nil {
		return models.PaymentSummary{}, fmt.Errorf("failed to load invoices for payment summary: %w", err)
	}
	return Summarize(invoices), nil
}
