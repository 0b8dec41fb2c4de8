package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"portal-backend-go/internal/identity"
	"portal-backend-go/internal/models"
)

func TestAccountService_CreateUser(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	u, err := h.accounts.CreateUser(ctx, NewAccount{Email: " new@example.com ", Password: "secret1", Name: "New Client"})
	require.NoError(t, err)
	assert.Equal(t, "uid-1", u.ID)
	assert.Equal(t, "new@example.com", u.Email)
	assert.Equal(t, models.RoleClient, u.Role)
	assert.Empty(t, u.Invoices)

	_, err = h.accounts.CreateUser(ctx, NewAccount{Email: "new@example.com", Password: "secret1", Name: "Again"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAccountService_CreateUserValidation(t *testing.T) {
	h := newHarness(t)
	tests := []struct {
		name string
		req  NewAccount
	}{
		{"missing name", NewAccount{Email: "a@example.com", Password: "secret1"}},
		{"missing password", NewAccount{Email: "a@example.com", Name: "A"}},
		{"bad email", NewAccount{Email: "a@example", Password: "secret1", Name: "A"}},
		{"short password", NewAccount{Email: "a@example.com", Password: "12345", Name: "A"}},
		{"unknown role", NewAccount{Email: "a@example.com", Password: "secret1", Name: "A", Role: "owner"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.accounts.CreateUser(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestAccountService_CreateUserProviderFailure(t *testing.T) {
	h := newHarness(t)
	h.idp.CreateErr = errors.New("identity backend down")
	_, err := h.accounts.CreateUser(context.Background(), NewAccount{Email: "a@example.com", Password: "secret1", Name: "A", Role: models.RoleAdmin})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestAccountService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	_, err := h.accounts.CreateUser(ctx, NewAccount{Email: "ada@example.com", Password: "secret1", Name: "Ada"})
	require.NoError(t, err)

	require.NoError(t, h.accounts.ResetPassword(ctx, "ada@example.com"))
	msgs := h.mail.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{"ada@example.com"}, msgs[0].To)
	assert.Equal(t, "Client Portal <noreply@portal.test>", msgs[0].From)
	assert.Contains(t, msgs[0].Text, "continueUrl=https://portal.test/login")

	require.NoError(t, h.accounts.ResetPassword(ctx, "ADA@example.com"))
	assert.ErrorIs(t, h.accounts.ResetPassword(ctx, "ada@example.com"), ErrTooManyRequests)

	assert.ErrorIs(t, h.accounts.ResetPassword(ctx, "ghost@example.com"), ErrAccountNotFound)
	assert.ErrorIs(t, h.accounts.ResetPassword(ctx, "not-an-email"), ErrInvalidInput)
	assert.ErrorIs(t, h.accounts.ResetPassword(ctx, ""), ErrInvalidInput)
}

func TestAccountService_ResetPasswordProviderThrottled(t *testing.T) {
	h := newHarness(t)
	h.idp.ResetErr = identity.ErrTooManyRequests
	assert.ErrorIs(t, h.accounts.ResetPassword(context.Background(), "ada@example.com"), ErrIdentityRateLimit)
}

func TestAccountService_EmailNotConfigured(t *testing.T) {
	h := newHarness(t)
	accounts := NewAccountService(h.idp, h.userRepo, nil, nil, AccountOptions{FromEmail: "noreply@portal.test"}, zap.NewNop())

	_, err := h.accounts.CreateUser(context.Background(), NewAccount{Email: "ada@example.com", Password: "secret1", Name: "Ada"})
	require.NoError(t, err)

	assert.ErrorIs(t, accounts.ResetPassword(context.Background(), "ada@example.com"), ErrEmailNotConfigured)
	_, err = accounts.SendEmail(context.Background(), OutgoingEmail{To: []string{"a@example.com"}, Subject: "Hi", Text: "Hello"})
	assert.ErrorIs(t, err, ErrEmailNotConfigured)
}

func TestAccountService_ResetPasswordWithoutSenderStillChecksAccount(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	accounts := NewAccountService(h.idp, h.userRepo, nil, nil, AccountOptions{FromEmail: "noreply@portal.test"}, zap.NewNop())

	assert.ErrorIs(t, accounts.ResetPassword(ctx, "ghost@example.com"), ErrAccountNotFound)
	assert.ErrorIs(t, accounts.ResetPassword(ctx, "not-an-email"), ErrInvalidInput)

	h.idp.ResetErr = identity.ErrTooManyRequests
	assert.ErrorIs(t, accounts.ResetPassword(ctx, "ghost@example.com"), ErrIdentityRateLimit)
}

func TestAccountService_SendEmail(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	id, err := h.accounts.SendEmail(ctx, OutgoingEmail{
		To:       []string{"client@example.com"},
		Subject:  "Your invoice",
		HTML:     "<p>Attached</p>",
		ReplyTo:  "ada@example.com",
		FromName: "Ada",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	msgs := h.mail.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Ada via Client Portal <noreply@portal.test>", msgs[0].From)
	assert.Equal(t, "ada@example.com", msgs[0].ReplyTo)

	_, err = h.accounts.SendEmail(ctx, OutgoingEmail{Subject: "No recipient", Text: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	h.mail.Err = errors.New("rejected by provider")
	_, err = h.accounts.SendEmail(ctx, OutgoingEmail{To: []string{"client@example.com"}, Subject: "Hi", Text: "x"})
	assert.ErrorIs(t, err, ErrEmailRejected)
}
