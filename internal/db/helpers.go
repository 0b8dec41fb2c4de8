package db

import (
	"context"
	"errors"
	"fmt"

	"portal-backend-go/internal/models"
)

var newestFirst = Query{OrderBy: "createdAt", Desc: true}

func getOne[T any](ctx context.Context, store Store, collection, id string, decode func(*Doc) *T) (*T, error) {
	if id == "" {
		return nil, fmt.Errorf("%s: id cannot be empty", collection)
	}
	doc, err := store.Get(ctx, collection, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(doc), nil
}

func findAll[T any](ctx context.Context, store Store, collection string, q Query, decode func(*Doc) *T) ([]*T, error) {
	docs, err := store.Find(ctx, collection, q)
	if err != nil {
		return nil, err
	}
	return decodeAll(docs, decode), nil
}

// getOwned resolves the user's ownership array with one batched read.
// Dangling IDs are dropped.
func getOwned[T any](ctx context.Context, store Store, collection, userID string, kind models.OwnedKind, decode func(*Doc) *T) ([]*T, error) {
	ids, err := ownedIDs(ctx, store, userID, kind)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*T{}, nil
	}
	docs, err := store.GetMany(ctx, collection, ids)
	if err != nil {
		return nil, err
	}
	return decodeAll(docs, decode), nil
}

func decodeAll[T any](docs []*Doc, decode func(*Doc) *T) []*T {
	out := make([]*T, 0, len(docs))
	for _, d := range docs {
		out = append(out, decode(d))
	}
	return out
}
