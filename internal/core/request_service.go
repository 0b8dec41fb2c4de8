package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"portal-backend-go/internal/db"
	"portal-backend-go/internal/events"
	"portal-backend-go/internal/mailer"
	"portal-backend-go/internal/models"
)

// Requester identifies the caller filing a ticket.
type Requester struct {
	UserID string
	Email  string
	Name   string
}

// RequestFilter narrows the admin ticket list. Empty fields match everything.
// Query is matched case-insensitively against the ticket name, requester,
// email and description.
type RequestFilter struct {
	Status string
	Query  string
}

// NotifyOptions configures the email sent when a ticket is filed and the
// lifecycle event stream. No email is sent when To is empty or the sender is
// nil; no events are published when Events is nil.
type NotifyOptions struct {
	From   string
	To     string
	Events events.Publisher
}

type requestService struct {
	requests db.RequestRepository
	users    db.UserRepository
	sender   mailer.Sender
	notify   NotifyOptions
	now      func() time.Time
	logger   *zap.Logger
}

// NewRequestService creates a RequestService. sender may be nil.
func NewRequestService(requests db.RequestRepository, users db.UserRepository, sender mailer.Sender, notify NotifyOptions, logger *zap.Logger) RequestService {
	return &requestService{
		requests: requests,
		users:    users,
		sender:   sender,
		notify:   notify,
		now:      time.Now,
		logger:   logger,
	}
}

func validateRequest(patch models.RequestPatch) error {
	if err := firstErr(
		notBlank("request", patch.Request),
		oneOf("status", patch.Status, Statuses...),
		oneOf("priority", patch.Priority, Priorities...),
	); err != nil {
		return err
	}
	if patch.Email != nil && *patch.Email != "" && !ValidEmail(*patch.Email) {
		return invalidf("invalid email format")
	}
	return nil
}

// Create files a ticket for owner. The ticket always starts in todo, is added
// to the owner's ownership index and announced by email when configured.
func (s *requestService) Create(ctx context.Context, owner Requester, patch models.RequestPatch) (*models.Request, error) {
	if owner.UserID == "" {
		return nil, invalidf("user ID is required")
	}
	if patch.Priority == nil {
		priority := models.PriorityMedium
		patch.Priority = &priority
	}
	patch.Status = nil
	if err := firstErr(required("request", patch.Request), validateRequest(patch)); err != nil {
		return nil, err
	}

	profile, err := s.users.GetByID(ctx, owner.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: '%s'", ErrUserNotFound, owner.UserID)
	}

	status := models.StatusTodo
	patch.Status = &status
	patch.UserID = &owner.UserID
	patch.AssignedTo = nil
	if patch.Email == nil || *patch.Email == "" {
		email := firstNonEmpty(owner.Email, profile.Email)
		patch.Email = &email
	}
	if patch.Name == nil || *patch.Name == "" {
		name := firstNonEmpty(owner.Name, profile.Name, *patch.Email)
		patch.Name = &name
	}

	id, err := s.requests.Create(ctx, patch)
	if err != nil {
		return nil, err
	}
	if err := s.users.AppendOwned(ctx, owner.UserID, models.OwnedRequests, id); err != nil {
		return nil, fmt.Errorf("request '%s' created but not linked to its owner: %w", id, notFound(err, ErrUserNotFound, owner.UserID))
	}
	s.logger.Info("Service request created", zap.String("requestID", id), zap.String("userID", owner.UserID))

	req, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.announce(ctx, req)
	s.publish(ctx, events.TicketCreated, req)
	return req, nil
}

// publish emits a lifecycle event. Failures are logged only.
func (s *requestService) publish(ctx context.Context, kind string, req *models.Request) {
	if s.notify.Events == nil {
		return
	}
	err := s.notify.Events.Publish(ctx, events.Event{
		Type:       kind,
		RequestID:  req.ID,
		UserID:     req.UserID,
		Status:     req.Status,
		Priority:   req.Priority,
		Title:      req.Request,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn("Failed to publish ticket event", zap.String("type", kind), zap.String("requestID", req.ID), zap.Error(err))
	}
}

// announce emails the team about a new ticket. Failures are logged only.
func (s *requestService) announce(ctx context.Context, req *models.Request) {
	if s.sender == nil || s.notify.To == "" {
		s.logger.Debug("Ticket notification skipped, email not configured", zap.String("requestID", req.ID))
		return
	}
	msg, err := ticketNotification(req, s.notify.From, s.notify.To, s.now())
	if err != nil {
		s.logger.Warn("Failed to render ticket notification", zap.String("requestID", req.ID), zap.Error(err))
		return
	}
	if _, err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Warn("Failed to send ticket notification", zap.String("requestID", req.ID), zap.Error(err))
	}
}

func (s *requestService) GetByID(ctx context.Context, id string) (*models.Request, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("%w: '%s'", ErrRequestNotFound, id)
	}
	return req, nil
}

func (s *requestService) List(ctx context.Context, filter RequestFilter) ([]*models.Request, error) {
	if filter.Status != "" && !ValidStatus(filter.Status) {
		return nil, invalidf("status must be one of %s", strings.Join(Statuses, ", "))
	}
	all, err := s.requests.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if filter.Status == "" && filter.Query == "" {
		return all, nil
	}
	q := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]*models.Request, 0, len(all))
	for _, r := range all {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if q != "" && !matchesQuery(r, q) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func matchesQuery(r *models.Request, q string) bool {
	for _, field := range []string{r.Request, r.Name, r.Email, r.Description} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func (s *requestService) ListForUser(ctx context.Context, userID string) ([]*models.Request, error) {
	return s.requests.GetForOwner(ctx, userID)
}

// Update applies admin edits. Ownership changes go through Assign.
func (s *requestService) Update(ctx context.Context, id string, patch models.RequestPatch) (*models.Request, error) {
	patch.UserID = nil
	if err := validateRequest(patch); err != nil {
		return nil, err
	}
	if err := s.requests.Update(ctx, id, patch); err != nil {
		return nil, notFound(err, ErrRequestNotFound, id)
	}
	return s.GetByID(ctx, id)
}

// Transition moves a ticket to status. Every status is reachable from every
// other.
func (s *requestService) Transition(ctx context.Context, id, status string) (*models.Request, error) {
	if !ValidStatus(status) {
		return nil, invalidf("status must be one of %s", strings.Join(Statuses, ", "))
	}
	if err := s.requests.Update(ctx, id, models.RequestPatch{Status: &status}); err != nil {
		return nil, notFound(err, ErrRequestNotFound, id)
	}
	s.logger.Info("Service request status changed", zap.String("requestID", id), zap.String("status", status))
	req, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.TicketStatusChanged, req)
	return req, nil
}

func (s *requestService) Delete(ctx context.Context, id string) error {
	req, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requests.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.TicketDeleted, req)
	return nil
}

// Assign hands a ticket to another user: user_id is rewritten and the ticket
// is added to the new owner's index.
//
// The ticket is looked up before either write so that an unknown id fails
// with ErrRequestNotFound and leaves the owner's index untouched. The index
// append runs before the user_id rewrite: if the rewrite then fails the new
// owner holds an extra id, which readers tolerate, rather than a ticket that
// no index points to.
func (s *requestService) Assign(ctx context.Context, id, userID string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := assign(ctx, s.users, models.OwnedRequests, id, userID); err != nil {
		return err
	}
	if err := s.requests.Update(ctx, id, models.RequestPatch{UserID: &userID}); err != nil {
		return notFound(err, ErrRequestNotFound, id)
	}
	if req, err := s.GetByID(ctx, id); err == nil {
		s.publish(ctx, events.TicketAssigned, req)
	}
	return nil
}

func (s *requestService) SubscribeAll(ctx context.Context, fn func([]*models.Request)) *Subscription {
	return startSubscription(ctx, func(ctx context.Context) error {
		err := s.requests.WatchAll(ctx, true, fn)
		if !errors.Is(err, db.ErrFailedPrecondition) {
			return err
		}
		s.logger.Warn("Ordered ticket watch unavailable, sorting in memory", zap.Error(err))
		return s.requests.WatchAll(ctx, false, func(reqs []*models.Request) {
			db.SortRequestsNewestFirst(reqs)
			fn(reqs)
		})
	})
}

func (s *requestService) SubscribeForUser(ctx context.Context, userID string, fn func([]*models.Request)) *Subscription {
	return startSubscription(ctx, func(ctx context.Context) error {
		return s.requests.WatchForOwner(ctx, userID, func(reqs []*models.Request) {
			db.SortRequestsNewestFirst(reqs)
			fn(reqs)
		})
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
