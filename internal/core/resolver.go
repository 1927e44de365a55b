package core

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Resolver turns extracted page data into a cacheable token and doctor parameters
type Resolver struct {
	location *time.Location
}

// NewResolver creates a resolver that interprets expiry timestamps in loc
func NewResolver(loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.Local
	}
	return &Resolver{location: loc}
}

// Token extracts the credentials from doc and builds a Token
func (r *Resolver) Token(doc ProfileDocument) (*Token, error) {
	creds, err := doc.Credentials()
	if err != nil {
		return nil, err
	}
	return TokenFromCredentials(*creds, r.location)
}

// DoctorParams extracts the doctor id and selects the active address from doc
func (r *Resolver) DoctorParams(doc ProfileDocument) (*DoctorParams, error) {
	doctorID, err := doc.DoctorID()
	if err != nil {
		return nil, err
	}

	calendars, err := doc.Calendars()
	if err != nil {
		return nil, err
	}

	addressID, err := SelectActiveAddress(calendars)
	if err != nil {
		return nil, err
	}

	params := &DoctorParams{
		DoctorID:  doctorID,
		AddressID: addressID,
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// SelectActiveAddress returns the id of the first address with an active calendar, in document order.
// Several simultaneously active calendars are not disambiguated further.
func SelectActiveAddress(calendars []AddressCalendar) (ID, error) {
	for _, cal := range calendars {
		if cal.HasActiveCalendar {
			return cal.ID, nil
		}
	}
	return "", NewParseError(KindActiveCalendarNotFound, nil,
		"none of %d addresses has an active calendar", len(calendars))
}

// TokenFromCredentials builds a Token from scraped credentials.
// When the page carries no expiry, the exp claim of a JWT access token is used instead.
func TokenFromCredentials(creds AuthCredentials, loc *time.Location) (*Token, error) {
	if creds.AccessToken == "" {
		return nil, ErrEmptyToken
	}

	expiresAt := creds.ExpiresAt(loc)
	if expiresAt.IsZero() {
		exp, err := jwtExpiry(creds.AccessToken)
		if err == nil {
			expiresAt = exp.In(loc)
		}
	}

	return &Token{
		Token:     creds.AccessToken,
		ExpiresAt: expiresAt,
	}, nil
}

// jwtExpiry reads the exp claim without verifying the signature
func jwtExpiry(raw string) (time.Time, error) {
	token, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse access token: %w", err)
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, fmt.Errorf("access token has no exp claim")
	}
	return exp.Time, nil
}
