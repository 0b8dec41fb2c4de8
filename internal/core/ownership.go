package core

import (
	"context"

	"portal-backend-go/internal/db"
	"portal-backend-go/internal/models"
)

// assign records id in the user's ownership array of the given kind. The
// entity itself is not looked up, so a dangling reference is possible.
func assign(ctx context.Context, users db.UserRepository, kind models.OwnedKind, id, userID string) error {
	if id == "" {
		return invalidf("%s ID is required", kind)
	}
	if userID == "" {
		return invalidf("userId is required")
	}
	if err := users.AppendOwned(ctx, userID, kind, id); err != nil {
		return notFound(err, ErrUserNotFound, userID)
	}
	return nil
}
