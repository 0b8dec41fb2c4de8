package db

import (
	"context"
	"errors"
	"fmt"

	"portal-backend-go/internal/models"
	"portal-backend-go/internal/timestamp"
)

// userRepository implements UserRepository on a Store.
type userRepository struct {
	store Store
}

// NewUserRepository creates a UserRepository.
func NewUserRepository(store Store) UserRepository {
	return &userRepository{store: store}
}

func decodeUser(doc *Doc) *models.User {
	m := timestamp.NormalizeFields(doc.Data)
	return &models.User{
		ID:        doc.ID,
		Name:      getString(m, "name"),
		Email:     getString(m, "email"),
		Role:      getString(m, "role"),
		PhotoURL:  getString(m, "photoURL"),
		Projects:  getStrings(m, "projects"),
		Invoices:  getStrings(m, "invoices"),
		Documents: getStrings(m, "documents"),
		Requests:  getStrings(m, "requests"),
		CreatedAt: getTime(m, "createdAt"),
		UpdatedAt: getTime(m, "updatedAt"),
	}
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for GetByID operation")
	}
	doc, err := r.store.Get(ctx, UsersCollection, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user with ID '%s': %w", userID, err)
	}
	return decodeUser(doc), nil
}

func (r *userRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	docs, err := r.store.Find(ctx, UsersCollection, Query{OrderBy: "name"})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := make([]*models.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, decodeUser(doc))
	}
	return users, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return errors.New("user ID cannot be empty for Create operation")
	}
	data := record{
		"name":      user.Name,
		"email":     user.Email,
		"projects":  []string{},
		"invoices":  []string{},
		"documents": []string{},
		"requests":  []string{},
	}
	if user.Role != "" {
		data["role"] = user.Role
	}
	if user.PhotoURL != "" {
		data["photoURL"] = user.PhotoURL
	}
	if err := r.store.Set(ctx, UsersCollection, user.ID, data.stampCreated(), false); err != nil {
		return fmt.Errorf("failed to create user with ID '%s': %w", user.ID, err)
	}
	return nil
}

func (r *userRepository) Upsert(ctx context.Context, userID, name, email string) (bool, error) {
	existing, err := r.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return true, r.Create(ctx, &models.User{ID: userID, Name: name, Email: email})
	}

	data := record{}
	if name != "" {
		data["name"] = name
	}
	if email != "" {
		data["email"] = email
	}
	if err := r.store.Set(ctx, UsersCollection, userID, data.stampUpdated(), true); err != nil {
		return false, fmt.Errorf("failed to merge user with ID '%s': %w", userID, err)
	}
	return false, nil
}

func (r *userRepository) Update(ctx context.Context, userID string, patch models.UserPatch) error {
	data := record{}
	data.str("name", patch.Name)
	data.str("email", patch.Email)
	data.str("role", patch.Role)
	data.str("photoURL", patch.PhotoURL)
	if err := r.store.Update(ctx, UsersCollection, userID, data.stampUpdated()); err != nil {
		return fmt.Errorf("failed to update user with ID '%s': %w", userID, err)
	}
	return nil
}

func (r *userRepository) AppendOwned(ctx context.Context, userID string, kind models.OwnedKind, entityID string) error {
	switch kind {
	case models.OwnedProjects, models.OwnedInvoices, models.OwnedDocuments, models.OwnedRequests:
	default:
		return fmt.Errorf("unknown ownership kind %q", kind)
	}
	data := record{string(kind): ArrayUnion(entityID)}
	if err := r.store.Update(ctx, UsersCollection, userID, data.stampUpdated()); err != nil {
		return fmt.Errorf("failed to add %s '%s' to user '%s': %w", kind, entityID, userID, err)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, userID string) error {
	if err := r.store.Delete(ctx, UsersCollection, userID); err != nil {
		return fmt.Errorf("failed to delete user with ID '%s': %w", userID, err)
	}
	return nil
}

func (r *userRepository) DeleteWithRequests(ctx context.Context, userID string) (int, error) {
	tickets, err := r.store.Find(ctx, RequestsCollection, Query{Where: []Filter{{Field: "user_id", Value: userID}}})
	if err != nil {
		return 0, fmt.Errorf("failed to list requests of user '%s': %w", userID, err)
	}
	refs := make([]Ref, 0, len(tickets)+1)
	refs = append(refs, Ref{Collection: UsersCollection, ID: userID})
	for _, t := range tickets {
		refs = append(refs, Ref{Collection: RequestsCollection, ID: t.ID})
	}
	if err := r.store.DeleteAll(ctx, refs); err != nil {
		return 0, fmt.Errorf("failed to delete user '%s' with requests: %w", userID, err)
	}
	return len(tickets), nil
}

// ownedIDs reads the ownership array of kind from the user's profile. A
// missing profile owns nothing.
func ownedIDs(ctx context.Context, store Store, userID string, kind models.OwnedKind) ([]string, error) {
	doc, err := store.Get(ctx, UsersCollection, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s of user '%s': %w", kind, userID, err)
	}
	return getStrings(doc.Data, string(kind)), nil
}
