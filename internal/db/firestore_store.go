package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// FirestoreStore implements Store on a Firestore client.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore wraps an initialized Firestore client.
func NewFirestoreStore(client *firestore.Client) (*FirestoreStore, error) {
	if client == nil {
		return nil, errors.New("firestore client is not initialized")
	}
	return &FirestoreStore{client: client}, nil
}

var _ Store = (*FirestoreStore)(nil)

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (*Doc, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, classify(err))
	}
	return &Doc{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *FirestoreStore) GetMany(ctx context.Context, collection string, ids []string) ([]*Doc, error) {
	if len(ids) == 0 {
		return []*Doc{}, nil
	}
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		refs = append(refs, s.client.Collection(collection).Doc(id))
	}
	snaps, err := s.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("get all %s: %w", collection, classify(err))
	}
	docs := make([]*Doc, 0, len(snaps))
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		docs = append(docs, &Doc{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

func (s *FirestoreStore) Find(ctx context.Context, collection string, q Query) ([]*Doc, error) {
	iter := s.query(collection, q).Documents(ctx)
	defer iter.Stop()

	docs := []*Doc{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", collection, classify(err))
		}
		docs = append(docs, &Doc{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

func (s *FirestoreStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, toFirestore(data))
	if err != nil {
		return "", fmt.Errorf("add to %s: %w", collection, classify(err))
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Set(ctx context.Context, collection, id string, data map[string]any, merge bool) error {
	ref := s.client.Collection(collection).Doc(id)
	var err error
	if merge {
		_, err = ref.Set(ctx, toFirestore(data), firestore.MergeAll)
	} else {
		_, err = ref.Set(ctx, toFirestore(data))
	}
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, classify(err))
	}
	return nil
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, data map[string]any) error {
	updates := make([]firestore.Update, 0, len(data))
	for k, v := range toFirestore(data) {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}
	if _, err := s.client.Collection(collection).Doc(id).Update(ctx, updates); err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, classify(err))
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, classify(err))
	}
	return nil
}

func (s *FirestoreStore) DeleteAll(ctx context.Context, refs []Ref) error {
	if len(refs) == 0 {
		return nil
	}
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, r := range refs {
			if err := tx.Delete(s.client.Collection(r.Collection).Doc(r.ID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("batch delete of %d documents: %w", len(refs), classify(err))
	}
	return nil
}

func (s *FirestoreStore) Watch(ctx context.Context, collection string, q Query, fn func([]*Doc)) error {
	it := s.query(collection, q).Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || errors.Is(classify(err), context.Canceled) {
				return nil
			}
			return fmt.Errorf("listen on %s: %w", collection, classify(err))
		}
		snaps, err := snap.Documents.GetAll()
		if err != nil {
			return fmt.Errorf("read snapshot of %s: %w", collection, classify(err))
		}
		docs := make([]*Doc, 0, len(snaps))
		for _, ds := range snaps {
			docs = append(docs, &Doc{ID: ds.Ref.ID, Data: ds.Data()})
		}
		fn(docs)
	}
}

func (s *FirestoreStore) query(collection string, q Query) firestore.Query {
	query := s.client.Collection(collection).Query
	for _, f := range q.Where {
		query = query.Where(f.Field, "==", f.Value)
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Desc {
			dir = firestore.Desc
		}
		query = query.OrderBy(q.OrderBy, dir)
	}
	return query
}

// toFirestore swaps the package sentinels for their Firestore equivalents.
func toFirestore(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		switch val := v.(type) {
		case sentinel:
			switch val {
			case serverTimestamp:
				out[k] = firestore.ServerTimestamp
			case deleteField:
				out[k] = firestore.Delete
			}
		case arrayUnion:
			out[k] = firestore.ArrayUnion(val.values...)
		default:
			out[k] = v
		}
	}
	return out
}
