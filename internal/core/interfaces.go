package core

import "context"

// ProfileDocument exposes the structured data embedded in a parsed doctor profile page.
// Implementations own the knowledge of the upstream markup.
type ProfileDocument interface {
	Credentials() (*AuthCredentials, error)
	DoctorID() (ID, error)
	Calendars() ([]AddressCalendar, error)
}

// ProfileExtractor parses a raw profile page
type ProfileExtractor interface {
	Extract(page []byte) (ProfileDocument, error)
}

// SlotsRequest carries everything needed to query the slots API
type SlotsRequest struct {
	ProfileURL string
	Token      string
	Params     DoctorParams
	Query      QueryParams
}

// BookingPlatform is the upstream booking site
type BookingPlatform interface {
	FetchProfile(ctx context.Context, profileURL string) ([]byte, error)
	GetSlots(ctx context.Context, req SlotsRequest) ([]Slot, error)
}

// CredentialResolver returns a usable token and path identifiers for a profile URL
type CredentialResolver interface {
	Resolve(ctx context.Context, profileURL string) (*Credentials, error)
}
