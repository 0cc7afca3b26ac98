package user

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"profile-hub/internal/domain/user"
)

var ErrInvalidInput = errors.New("invalid input")

const DateLayout = "2006-01-02"

// FieldError names the offending field; it matches ErrInvalidInput under errors.Is.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return e.Field + " " + e.Reason
}

func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

// ProfilePatch carries only the fields the caller sent. BirthDate "" clears it.
type ProfilePatch struct {
	Name         *string
	Bio          *string
	Age          *int
	Gender       *string
	Address      *string
	BirthDate    *string
	Phone        *string
	Location     *string
	PortfolioURL *string
}

func (p ProfilePatch) Empty() bool {
	return p == ProfilePatch{}
}

// Apply validates p and returns cur with the sent fields replaced.
func (p ProfilePatch) Apply(cur user.Profile) (user.Profile, error) {
	next := cur
	setText := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	setText(&next.Name, p.Name)
	setText(&next.Bio, p.Bio)
	setText(&next.Gender, p.Gender)
	setText(&next.Address, p.Address)
	setText(&next.Phone, p.Phone)
	setText(&next.Location, p.Location)

	if p.Age != nil {
		if *p.Age < 0 || *p.Age > 150 {
			return user.Profile{}, invalid("age", "must be between 0 and 150")
		}
		age := *p.Age
		next.Age = &age
	}

	if p.BirthDate != nil {
		raw := strings.TrimSpace(*p.BirthDate)
		if raw == "" {
			next.BirthDate = nil
		} else {
			d, err := ParseDate(raw)
			if err != nil {
				return user.Profile{}, invalid("birth_date", "must be a date (YYYY-MM-DD)")
			}
			if d.After(time.Now()) {
				return user.Profile{}, invalid("birth_date", "must not be in the future")
			}
			next.BirthDate = &d
		}
	}

	if p.PortfolioURL != nil {
		raw := strings.TrimSpace(*p.PortfolioURL)
		if raw != "" {
			u, err := url.Parse(raw)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return user.Profile{}, invalid("portfolio_url", "must be an absolute http(s) URL")
			}
		}
		next.PortfolioURL = raw
	}

	return next, nil
}

// ParseDate accepts a calendar date or an RFC 3339 timestamp and returns midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if d, err := time.Parse(DateLayout, raw); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}
