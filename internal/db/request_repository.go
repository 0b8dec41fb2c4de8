package db

import (
	"context"
	"fmt"
	"sort"

	"portal-backend-go/internal/models"
	"portal-backend-go/internal/timestamp"
)

type requestRepository struct {
	store Store
}

// NewRequestRepository creates a RequestRepository.
func NewRequestRepository(store Store) RequestRepository {
	return &requestRepository{store: store}
}

func decodeRequest(doc *Doc) *models.Request {
	m := timestamp.NormalizeFields(doc.Data)
	return &models.Request{
		ID:          doc.ID,
		UserID:      getString(m, "user_id"),
		Name:        getString(m, "name"),
		Email:       getString(m, "email"),
		Request:     getString(m, "request"),
		Description: getString(m, "description"),
		Status:      getString(m, "status"),
		Priority:    getString(m, "priority"),
		AssignedTo:  getString(m, "assigned_to"),
		CreatedAt:   getTime(m, "createdAt"),
		UpdatedAt:   getTime(m, "updatedAt"),
	}
}

func requestRecord(patch models.RequestPatch) record {
	r := record{}
	r.str("user_id", patch.UserID)
	r.str("name", patch.Name)
	r.str("email", patch.Email)
	r.str("request", patch.Request)
	r.str("description", patch.Description)
	r.str("status", patch.Status)
	r.str("priority", patch.Priority)
	r.str("assigned_to", patch.AssignedTo)
	return r
}

// SortRequestsNewestFirst orders tickets by creation time, newest first.
// Tickets without a creation time sort last. The sort is stable.
func SortRequestsNewestFirst(reqs []*models.Request) {
	sort.SliceStable(reqs, func(i, j int) bool {
		a, b := reqs[i].CreatedAt, reqs[j].CreatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.After(*b)
	})
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*models.Request, error) {
	req, err := getOne(ctx, r.store, RequestsCollection, id, decodeRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to get request with ID '%s': %w", id, err)
	}
	return req, nil
}

func (r *requestRepository) GetAll(ctx context.Context) ([]*models.Request, error) {
	reqs, err := findAll(ctx, r.store, RequestsCollection, newestFirst, decodeRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return reqs, nil
}

// GetForOwner queries by user_id and sorts in memory; combining the filter
// with an ordering would need a composite index.
func (r *requestRepository) GetForOwner(ctx context.Context, userID string) ([]*models.Request, error) {
	reqs, err := findAll(ctx, r.store, RequestsCollection, ownerQuery(userID), decodeRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests of user '%s': %w", userID, err)
	}
	SortRequestsNewestFirst(reqs)
	return reqs, nil
}

func (r *requestRepository) Create(ctx context.Context, patch models.RequestPatch) (string, error) {
	id, err := r.store.Add(ctx, RequestsCollection, requestRecord(patch).stampCreated())
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	return id, nil
}

func (r *requestRepository) Update(ctx context.Context, id string, patch models.RequestPatch) error {
	if err := r.store.Update(ctx, RequestsCollection, id, requestRecord(patch).stampUpdated()); err != nil {
		return fmt.Errorf("failed to update request with ID '%s': %w", id, err)
	}
	return nil
}

func (r *requestRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, RequestsCollection, id); err != nil {
		return fmt.Errorf("failed to delete request with ID '%s': %w", id, err)
	}
	return nil
}

func (r *requestRepository) WatchAll(ctx context.Context, ordered bool, fn func([]*models.Request)) error {
	q := Query{}
	if ordered {
		q = newestFirst
	}
	return r.store.Watch(ctx, RequestsCollection, q, func(docs []*Doc) {
		fn(decodeAll(docs, decodeRequest))
	})
}

func (r *requestRepository) WatchForOwner(ctx context.Context, userID string, fn func([]*models.Request)) error {
	return r.store.Watch(ctx, RequestsCollection, ownerQuery(userID), func(docs []*Doc) {
		fn(decodeAll(docs, decodeRequest))
	})
}

func ownerQuery(userID string) Query {
	return Query{Where: []Filter{{Field: "user_id", Value: userID}}}
}
