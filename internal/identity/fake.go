package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Fake is an in-memory Provider for tests and local development. Tokens are
// registered with AddToken; accounts created through CreateUser are kept by
// email.
type Fake struct {
	mu        sync.Mutex
	tokens    map[string]*Token
	accounts  map[string]string // email -> uid
	nextUID   int
	ResetErr  error // returned by PasswordResetLink when set
	CreateErr error // returned by CreateUser when set
}

// NewFake creates an empty Fake.
func NewFake() *Fake {
	return &Fake{tokens: make(map[string]*Token), accounts: make(map[string]string)}
}

// AddToken registers idToken as a valid token for tok.
func (f *Fake) AddToken(idToken string, tok Token) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[idToken] = &tok
	if tok.Email != "" {
		f.accounts[strings.ToLower(tok.Email)] = tok.UID
	}
}

func (f *Fake) VerifyIDToken(_ context.Context, idToken string) (*Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tok, ok := f.tokens[idToken]
	if !ok {
		return nil, ErrInvalidToken
	}
	out := *tok
	return &out, nil
}

func (f *Fake) CreateUser(_ context.Context, email, _, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return "", f.CreateErr
	}
	key := strings.ToLower(email)
	if _, exists := f.accounts[key]; exists {
		return "", fmt.Errorf("create user %s: %w", email, ErrEmailExists)
	}
	f.nextUID++
	uid := fmt.Sprintf("uid-%d", f.nextUID)
	f.accounts[key] = uid
	return uid, nil
}

func (f *Fake) PasswordResetLink(_ context.Context, email, continueURL string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ResetErr != nil {
		return "", f.ResetErr
	}
	if _, ok := f.accounts[strings.ToLower(email)]; !ok {
		return "", fmt.Errorf("password reset link for %s: %w", email, ErrAccountNotFound)
	}
	link := "https://auth.example.test/reset?email=" + email
	if continueURL != "" {
		link += "&continueUrl=" + continueURL
	}
	return link, nil
}
