package db

import (
	"context"
)

// Collection names.
const (
	UsersCollection     = "users"
	ProjectsCollection  = "projects"
	InvoicesCollection  = "invoices"
	DocumentsCollection = "documents"
	RequestsCollection  = "requests"
)

// Doc is a stored record: its ID and raw field map.
type Doc struct {
	ID   string
	Data map[string]any
}

// Filter is an equality predicate on a single field.
type Filter struct {
	Field string
	Value any
}

// Query selects documents in a collection. Only equality filters and a
// single-field ordering are supported; that is all the portal needs.
type Query struct {
	Where   []Filter
	OrderBy string
	Desc    bool
}

// Ref addresses one document.
type Ref struct {
	Collection string
	ID         string
}

// Store is the document backend handle shared by all repositories. It is
// constructed once at startup and passed explicitly.
type Store interface {
	// Get returns ErrNotFound when the document does not exist.
	Get(ctx context.Context, collection, id string) (*Doc, error)
	// GetMany reads ids in one round trip. IDs that do not resolve are
	// skipped; the result follows the order of ids.
	GetMany(ctx context.Context, collection string, ids []string) ([]*Doc, error)
	Find(ctx context.Context, collection string, q Query) ([]*Doc, error)
	// Add stores data under a store-assigned ID.
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	// Set writes data at id, replacing the document unless merge is true.
	Set(ctx context.Context, collection, id string, data map[string]any, merge bool) error
	// Update changes the given fields and returns ErrNotFound when the
	// document does not exist.
	Update(ctx context.Context, collection, id string, data map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	// DeleteAll removes every referenced document atomically.
	DeleteAll(ctx context.Context, refs []Ref) error
	// Watch calls fn with the full result set of q now and after every
	// change, until ctx is done (nil is returned) or the store fails.
	Watch(ctx context.Context, collection string, q Query, fn func([]*Doc)) error
}

type sentinel int

const (
	serverTimestamp sentinel = iota + 1
	deleteField
)

// Write sentinels accepted as field values by Add, Set and Update.
var (
	// ServerTimestamp is replaced by the store's clock at write time.
	ServerTimestamp any = serverTimestamp
	// DeleteField removes the field.
	DeleteField any = deleteField
)

type arrayUnion struct {
	values []any
}

// ArrayUnion adds each value to an array field unless already present.
// The update is atomic in the store, so concurrent unions never lose writes.
func ArrayUnion(values ...any) any {
	return arrayUnion{values: values}
}
