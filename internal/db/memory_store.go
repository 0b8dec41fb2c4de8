package db

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"portal-backend-go/internal/timestamp"
)

// MemoryStore is an in-process Store used by tests and local development.
// Values are stored as Firestore would return them: arrays as []any and
// server timestamps as time.Time.
type MemoryStore struct {
	mu           sync.Mutex
	collections  map[string]map[string]map[string]any
	watchers     map[int]*memWatcher
	nextWatcher  int
	now          func() time.Time
	newID        func() string
	missingIndex map[string]bool
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock sets the clock used for ServerTimestamp.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// WithIDGenerator sets the generator used by Add.
func WithIDGenerator(fn func() string) MemoryOption {
	return func(s *MemoryStore) { s.newID = fn }
}

// WithMissingIndex makes ordered queries on collection fail with
// ErrFailedPrecondition, the way Firestore does when an index is absent.
func WithMissingIndex(collection string) MemoryOption {
	return func(s *MemoryStore) { s.missingIndex[collection] = true }
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		collections:  make(map[string]map[string]map[string]any),
		watchers:     make(map[int]*memWatcher),
		now:          func() time.Time { return time.Now().UTC() },
		newID:        func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:20] },
		missingIndex: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (*Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.collections[collection][id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return &Doc{ID: id, Data: copyMap(data)}, nil
}

func (s *MemoryStore) GetMany(ctx context.Context, collection string, ids []string) ([]*Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := make([]*Doc, 0, len(ids))
	for _, id := range ids {
		if data, ok := s.collections[collection][id]; ok {
			docs = append(docs, &Doc{ID: id, Data: copyMap(data)})
		}
	}
	return docs, nil
}

func (s *MemoryStore) Find(ctx context.Context, collection string, q Query) ([]*Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if q.OrderBy != "" && s.missingIndex[collection] {
		return nil, fmt.Errorf("query on %s requires an index: %w", collection, ErrFailedPrecondition)
	}
	return s.runQuery(collection, q), nil
}

func (s *MemoryStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.newID()
	for s.collections[collection][id] != nil {
		id = s.newID()
	}
	s.write(collection, id, nil, data)
	s.notify(collection)
	return id, nil
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, data map[string]any, merge bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var base map[string]any
	if merge {
		base = s.collections[collection][id]
	}
	s.write(collection, id, base, data)
	s.notify(collection)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, data map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.collections[collection][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	s.write(collection, id, existing, data)
	s.notify(collection)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections[collection], id)
	s.notify(collection)
	return nil
}

func (s *MemoryStore) DeleteAll(ctx context.Context, refs []Ref) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	touched := make(map[string]bool)
	for _, ref := range refs {
		delete(s.collections[ref.Collection], ref.ID)
		touched[ref.Collection] = true
	}
	for collection := range touched {
		s.notify(collection)
	}
	return nil
}

// Watch delivers every snapshot in the order it was produced.
func (s *MemoryStore) Watch(ctx context.Context, collection string, q Query, fn func([]*Doc)) error {
	s.mu.Lock()
	if q.OrderBy != "" && s.missingIndex[collection] {
		s.mu.Unlock()
		return fmt.Errorf("listen on %s requires an index: %w", collection, ErrFailedPrecondition)
	}
	w := &memWatcher{collection: collection, query: q, signal: make(chan struct{}, 1)}
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = w
	w.push(s.runQuery(collection, q))
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.signal:
			for _, snap := range w.drain() {
				if ctx.Err() != nil {
					return nil
				}
				fn(snap)
			}
		}
	}
}

// Len returns the number of documents in collection.
func (s *MemoryStore) Len(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collections[collection])
}

// write applies data on top of base and stores the result. Callers hold s.mu.
func (s *MemoryStore) write(collection, id string, base, data map[string]any) {
	out := copyMap(base)
	if out == nil {
		out = make(map[string]any, len(data))
	}
	now := s.now()
	for k, v := range data {
		switch val := v.(type) {
		case sentinel:
			switch val {
			case serverTimestamp:
				out[k] = now
			case deleteField:
				delete(out, k)
			}
		case arrayUnion:
			current, _ := copyValue(out[k]).([]any)
			for _, add := range val.values {
				if !containsValue(current, add) {
					current = append(current, add)
				}
			}
			if current == nil {
				current = []any{}
			}
			out[k] = current
		default:
			out[k] = copyValue(v)
		}
	}
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]map[string]any)
	}
	s.collections[collection][id] = out
}

// runQuery evaluates q against the current state. Callers hold s.mu.
func (s *MemoryStore) runQuery(collection string, q Query) []*Doc {
	var docs []*Doc
	for id, data := range s.collections[collection] {
		if !matches(data, q.Where) {
			continue
		}
		if q.OrderBy != "" {
			// Firestore omits documents lacking the order-by field.
			if _, ok := data[q.OrderBy]; !ok {
				continue
			}
		}
		docs = append(docs, &Doc{ID: id, Data: copyMap(data)})
	}
	sort.Slice(docs, func(i, j int) bool {
		if q.OrderBy != "" {
			c := compareValues(docs[i].Data[q.OrderBy], docs[j].Data[q.OrderBy])
			if c != 0 {
				if q.Desc {
					return c > 0
				}
				return c < 0
			}
		}
		return docs[i].ID < docs[j].ID
	})
	if docs == nil {
		docs = []*Doc{}
	}
	return docs
}

// notify queues a fresh snapshot for every watcher of collection. Callers
// hold s.mu.
func (s *MemoryStore) notify(collection string) {
	for _, w := range s.watchers {
		if w.collection == collection {
			w.push(s.runQuery(collection, w.query))
		}
	}
}

type memWatcher struct {
	collection string
	query      Query
	mu         sync.Mutex
	queue      [][]*Doc
	signal     chan struct{}
}

func (w *memWatcher) push(snap []*Doc) {
	w.mu.Lock()
	w.queue = append(w.queue, snap)
	w.mu.Unlock()
	select {
	case w.signal <- struct{}{}:
	default:
	}
}

func (w *memWatcher) drain() [][]*Doc {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.queue
	w.queue = nil
	return out
}

func matches(data map[string]any, filters []Filter) bool {
	for _, f := range filters {
		v, ok := data[f.Field]
		if !ok || !valuesEqual(v, f.Value) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b any) bool {
	if fa, ok := number(a); ok {
		fb, ok := number(b)
		return ok && fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func containsValue(list []any, v any) bool {
	for _, item := range list {
		if valuesEqual(item, v) {
			return true
		}
	}
	return false
}

// compareValues orders values of the same kind; mismatched kinds compare equal.
func compareValues(a, b any) int {
	if ta, ok := timestamp.Normalize(a); ok && timestamp.IsTimestampObject(a) {
		tb, ok := timestamp.Normalize(b)
		if !ok || !timestamp.IsTimestampObject(b) {
			return 0
		}
		return ta.Compare(tb)
	}
	if fa, ok := number(a); ok {
		fb, ok := number(b)
		if !ok {
			return 0
		}
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	sa, okA := a.(string)
	sb, okB := b.(string)
	if okA && okB {
		return strings.Compare(sa, sb)
	}
	return 0
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		for i := range val {
			out[i] = copyValue(val[i])
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i := range val {
			out[i] = val[i]
		}
		return out
	case map[string]any:
		return copyMap(val)
	case *time.Time:
		if val == nil {
			return nil
		}
		return *val
	}
	return v
}
