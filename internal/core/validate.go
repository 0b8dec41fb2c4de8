package core

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"portal-backend-go/internal/db"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

func required(field string, v *string) error {
	if v == nil || strings.TrimSpace(*v) == "" {
		return invalidf("%s is required", field)
	}
	return nil
}

func notBlank(field string, v *string) error {
	if v != nil && strings.TrimSpace(*v) == "" {
		return invalidf("%s cannot be empty", field)
	}
	return nil
}

func oneOf(field string, v *string, allowed ...string) error {
	if v == nil {
		return nil
	}
	for _, a := range allowed {
		if *v == a {
			return nil
		}
	}
	return invalidf("%s must be one of %s", field, strings.Join(allowed, ", "))
}

// notFound rewrites a store not-found failure as the entity's sentinel.
func notFound(err, kind error, id string) error {
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("%w: '%s'", kind, id)
	}
	return err
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
