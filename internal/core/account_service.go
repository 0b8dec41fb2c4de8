package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"strings"

	"go.uber.org/zap"

	"portal-backend-go/internal/db"
	"portal-backend-go/internal/identity"
	"portal-backend-go/internal/mailer"
	"portal-backend-go/internal/models"
	"portal-backend-go/internal/ratelimit"
)

const minPasswordLength = 6

// NewAccount is an admin request to create a login and its profile.
type NewAccount struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// OutgoingEmail is a message relayed on behalf of a signed-in user.
type OutgoingEmail struct {
	To       []string
	Subject  string
	HTML     string
	Text     string
	ReplyTo  string
	FromName string
}

// AccountOptions configures AccountService.
type AccountOptions struct {
	FromEmail        string
	ResetContinueURL string
}

type accountService struct {
	provider identity.Provider
	users    db.UserRepository
	sender   mailer.Sender
	limiter  ratelimit.Limiter
	opts     AccountOptions
	logger   *zap.Logger
}

// NewAccountService creates an AccountService. sender and limiter may be nil;
// without a sender every email operation fails with ErrEmailNotConfigured.
func NewAccountService(provider identity.Provider, users db.UserRepository, sender mailer.Sender, limiter ratelimit.Limiter, opts AccountOptions, logger *zap.Logger) AccountService {
	return &accountService{
		provider: provider,
		users:    users,
		sender:   sender,
		limiter:  limiter,
		opts:     opts,
		logger:   logger,
	}
}

// CreateUser provisions a sign-in account with the identity provider and then
// writes the matching profile document, keyed by the provider's uid.
//
// The two writes are not transactional. If the profile write fails the
// account already exists; the error says so, and the user's first login will
// create the profile through Initialize.
func (s *accountService) CreateUser(ctx context.Context, req NewAccount) (*models.User, error) {
	// Trim before validating so " a@b.com " is accepted and stored clean.
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, invalidf("email, password, and name are required")
	}
	if !ValidEmail(req.Email) {
		return nil, invalidf("invalid email format")
	}
	if len(req.Password) < minPasswordLength {
		return nil, invalidf("password must be at least %d characters", minPasswordLength)
	}
	if req.Role == "" {
		req.Role = models.RoleClient
	}
	if err := oneOf("role", &req.Role, models.RoleClient, models.RoleAdmin); err != nil {
		return nil, err
	}

	uid, err := s.provider.CreateUser(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		// Provider-side format rejections are the caller's fault (400);
		// ErrEmailExists and transport failures pass through unchanged.
		if errors.Is(err, identity.ErrInvalidEmail) || errors.Is(err, identity.ErrInvalidArgument) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return nil, err
	}
	user := &models.User{ID: uid, Name: req.Name, Email: req.Email, Role: req.Role}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("account '%s' created but profile write failed: %w", uid, err)
	}
	s.logger.Info("User account created", zap.String("userID", uid), zap.String("role", req.Role))

	// Re-read so the reply carries the server-assigned timestamps.
	created, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return user, nil
	}
	return created, nil
}

var resetHTML = htmltemplate.Must(htmltemplate.New("reset").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Reset your password</h2>
  <p>We received a request to reset the password for {{.Email}}.</p>
  <p><a href="{{.Link}}" style="display: inline-block; padding: 10px 20px; background: #007bff; color: #fff; text-decoration: none;">Reset password</a></p>
  <p>If you did not request this, you can ignore this email.</p>
</div>`))

// ResetPassword mails a password reset link to email. Attempts are throttled
// per address; a limiter failure lets the request through. Validation, the
// throttle and the account lookup all run before the mail sender is required.
func (s *accountService) ResetPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return invalidf("email is required")
	}
	if !ValidEmail(email) {
		return invalidf("invalid email format")
	}
	if s.limiter != nil {
		res, err := s.limiter.Allow(ctx, "password-reset:"+strings.ToLower(email))
		switch {
		case err != nil:
			s.logger.Warn("Rate limiter unavailable, allowing password reset", zap.Error(err))
		case !res.Allowed:
			return fmt.Errorf("%w: retry after %s", ErrTooManyRequests, res.ResetAt.UTC().Format("15:04:05 MST"))
		}
	}

	// The link is generated before the mail transport is checked so that
	// unknown accounts still answer ErrAccountNotFound on deployments
	// without an email provider.
	link, err := s.provider.PasswordResetLink(ctx, email, s.opts.ResetContinueURL)
	if err != nil {
		return err
	}
	if s.sender == nil {
		return ErrEmailNotConfigured
	}

	var html bytes.Buffer
	if err := resetHTML.Execute(&html, struct{ Email, Link string }{email, link}); err != nil {
		return fmt.Errorf("failed to render reset email: %w", err)
	}
	_, err = s.sender.Send(ctx, mailer.Message{
		From:    mailer.FormatFrom("", s.opts.FromEmail),
		To:      []string{email},
		Subject: "Reset your " + mailer.ProductName + " password",
		HTML:    html.String(),
		Text:    "Reset your password by opening this link:\n\n" + link + "\n\nIf you did not request this, you can ignore this email.\n",
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEmailRejected, err)
	}
	s.logger.Info("Password reset email sent")
	return nil
}

func (s *accountService) SendEmail(ctx context.Context, req OutgoingEmail) (string, error) {
	if s.sender == nil {
		return "", ErrEmailNotConfigured
	}
	msg := mailer.Message{
		From:    mailer.FormatFrom(req.FromName, s.opts.FromEmail),
		To:      req.To,
		Subject: req.Subject,
		HTML:    req.HTML,
		Text:    req.Text,
		ReplyTo: req.ReplyTo,
	}
	if err := msg.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	id, err := s.sender.Send(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEmailRejected, err)
	}
	s.logger.Info("Email sent", zap.String("messageID", id), zap.Int("recipients", len(req.To)))
	return id, nil
}
