package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ID is an upstream identifier normalized to string form.
// The booking platform emits ids as JSON numbers in some places and strings in others.
type ID string

// UnmarshalJSON accepts a JSON string, number or null
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the id as a plain string
func (id ID) String() string {
	return string(id)
}

// AuthCredentials is the credentials literal embedded in the doctor profile page
type AuthCredentials struct {
	AccessToken                string  `json:"ACCESS_TOKEN"`
	AccessTokenExpirationTime  int64   `json:"ACCESS_TOKEN_EXPIRATION_TIME"` // unix seconds
	RefreshToken               *string `json:"REFRESH_TOKEN"`
	RefreshTokenExpirationTime *string `json:"REFRESH_TOKEN_EXPIRATION_TIME"`
	TokenURL                   string  `json:"TOKEN_URL"`
}

// ExpiresAt returns the absolute access token expiry in the given location
func (c AuthCredentials) ExpiresAt(loc *time.Location) time.Time {
	if c.AccessTokenExpirationTime <= 0 {
		return time.Time{}
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(c.AccessTokenExpirationTime, 0).In(loc)
}

// Token is the cached form of an access token
type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the token is no longer usable at now.
// A token without a known expiry is treated as expired.
func (t *Token) IsExpired(now time.Time) bool {
	if t.ExpiresAt.IsZero() {
		return true
	}
	return !now.Before(t.ExpiresAt)
}

// DoctorParams holds the path identifiers of the slots API for one doctor
type DoctorParams struct {
	DoctorID  ID `json:"doctor_id"`
	AddressID ID `json:"address_id"`
}

// Validate checks both identifiers are resolved
func (p *DoctorParams) Validate() error {
	if p.DoctorID == "" {
		return ErrEmptyDoctorID
	}
	if p.AddressID == "" {
		return ErrEmptyAddressID
	}
	return nil
}

// Service is a visit type offered at an address
type Service struct {
	ID        ID     `json:"id"`
	IsDefault bool   `json:"isDefault"`
	Name      string `json:"name"`
}

// AddressCalendar is one address record from the profile page calendar widget
type AddressCalendar struct {
	ID                ID        `json:"id"`
	FacilityID        ID        `json:"facilityId"`
	HasActiveCalendar bool      `json:"hasActiveCalendar"`
	IsOnlineOnly      bool      `json:"isOnlineOnly"`
	CityName          string    `json:"cityName"`
	Street            string    `json:"street"`
	Services          []Service `json:"services"`
}

// QueryParams is the search window sent to the slots API
type QueryParams struct {
	Start time.Time
	End   time.Time
}

// isoLayout matches ISO-8601 with second precision and a numeric offset
const isoLayout = "2006-01-02T15:04:05-07:00"

// NewQueryParams builds a window from the start of now's day spanning the given number of weeks
func NewQueryParams(now time.Time, weeks int) (QueryParams, error) {
	if weeks <= 0 {
		return QueryParams{}, ErrInvalidWeeks
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return QueryParams{
		Start: start,
		End:   start.AddDate(0, 0, 7*weeks),
	}, nil
}

// StartString returns the window start serialized for the API
func (q QueryParams) StartString() string {
	return q.Start.Format(isoLayout)
}

// EndString returns the window end serialized for the API
func (q QueryParams) EndString() string {
	return q.End.Format(isoLayout)
}

// Slot is one appointment time returned by the slots API
type Slot struct {
	Start      time.Time
	Booked     bool
	BookingURL string
}

// Credentials is what a run needs to query the slots API
type Credentials struct {
	Token  *Token
	Params *DoctorParams
}
