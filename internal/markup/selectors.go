// Package markup extracts credentials and doctor identifiers embedded in a booking-platform profile page.
package markup

import (
	"errors"
	"fmt"
	"regexp"
)

var ErrInvalidSelectors = errors.New("invalid selectors")

// Selectors names the elements, attributes and patterns the extractor looks for.
// Upstream markup changes should only require new values here.
type Selectors struct {
	AuthTag      string // element holding the credentials literal
	AuthMarker   string // substring identifying the right element
	AuthPattern  string // regexp whose first group captures the credentials literal
	DoctorIDTag  string // custom element carrying the doctor id
	DoctorIDAttr string
	CalendarTag  string // custom element carrying the address/calendar JSON array
	CalendarAttr string
}

// DefaultSelectors returns the selectors matching the current profile page markup
func DefaultSelectors() Selectors {
	return Selectors{
		AuthTag:      "script",
		AuthMarker:   "'ACCESS_TOKEN'",
		AuthPattern:  `(?s)APICredentials\s*=\s*(\{.*?\});`,
		DoctorIDTag:  "save-doctor-app",
		DoctorIDAttr: ":doctor-id",
		CalendarTag:  "calendar-app",
		CalendarAttr: ":calendar-addresses",
	}
}

// Validate checks that every selector is set and the pattern compiles with one capture group
func (s Selectors) Validate() error {
	required := map[string]string{
		"auth tag":       s.AuthTag,
		"auth marker":    s.AuthMarker,
		"auth pattern":   s.AuthPattern,
		"doctor id tag":  s.DoctorIDTag,
		"doctor id attr": s.DoctorIDAttr,
		"calendar tag":   s.CalendarTag,
		"calendar attr":  s.CalendarAttr,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidSelectors, name)
		}
	}

	re, err := regexp.Compile(s.AuthPattern)
	if err != nil {
		return fmt.Errorf("%w: auth pattern: %v", ErrInvalidSelectors, err)
	}
	if re.NumSubexp() < 1 {
		return fmt.Errorf("%w: auth pattern needs a capture group", ErrInvalidSelectors)
	}
	return nil
}
