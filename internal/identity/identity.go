// Package identity wraps the Firebase Authentication admin client: ID token
// verification, account creation and password reset links.
package identity

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/errorutils"
)

// Error kinds reported by the provider.
var (
	ErrInvalidToken    = errors.New("invalid or expired ID token")
	ErrEmailExists     = errors.New("email address already in use")
	ErrAccountNotFound = errors.New("no account for this email")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrTooManyRequests = errors.New("too many requests")
)

// Token is a verified caller identity.
type Token struct {
	UID   string
	Email string
	Name  string
}

// Provider is the subset of the identity service the portal uses.
type Provider interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Token, error)
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	PasswordResetLink(ctx context.Context, email, continueURL string) (string, error)
}

// FirebaseProvider implements Provider on the Firebase Admin SDK.
type FirebaseProvider struct {
	client *auth.Client
}

// NewFirebaseProvider wraps an initialized auth client.
func NewFirebaseProvider(client *auth.Client) *FirebaseProvider {
	return &FirebaseProvider{client: client}
}

func (p *FirebaseProvider) VerifyIDToken(ctx context.Context, idToken string) (*Token, error) {
	tok, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	out := &Token{UID: tok.UID}
	if email, ok := tok.Claims["email"].(string); ok {
		out.Email = email
	}
	if name, ok := tok.Claims["name"].(string); ok {
		out.Name = name
	}
	return out, nil
}

func (p *FirebaseProvider) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)
	rec, err := p.client.CreateUser(ctx, params)
	if err != nil {
		return "", fmt.Errorf("create user %s: %w", email, classify(err))
	}
	return rec.UID, nil
}

func (p *FirebaseProvider) PasswordResetLink(ctx context.Context, email, continueURL string) (string, error) {
	var (
		link string
		err  error
	)
	if continueURL != "" {
		link, err = p.client.PasswordResetLinkWithSettings(ctx, email, &auth.ActionCodeSettings{
			URL:             continueURL,
			HandleCodeInApp: false,
		})
	} else {
		link, err = p.client.PasswordResetLink(ctx, email)
	}
	if err != nil {
		return "", fmt.Errorf("password reset link for %s: %w", email, classify(err))
	}
	return link, nil
}

// classify maps Firebase error codes onto the package error kinds.
func classify(err error) error {
	var kind error
	switch {
	case auth.IsEmailAlreadyExists(err):
		kind = ErrEmailExists
	case auth.IsUserNotFound(err), auth.IsEmailNotFound(err):
		kind = ErrAccountNotFound
	case auth.IsInvalidEmail(err):
		kind = ErrInvalidEmail
	case errorutils.IsResourceExhausted(err):
		kind = ErrTooManyRequests
	case errorutils.IsInvalidArgument(err):
		kind = ErrInvalidArgument
	default:
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
