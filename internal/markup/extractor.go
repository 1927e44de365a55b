package markup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"slotscraper/internal/core"
)

// Extractor parses profile pages using a fixed set of selectors
type Extractor struct {
	selectors Selectors
	authRe    *regexp.Regexp
}

// NewExtractor creates an extractor for the given selectors
func NewExtractor(selectors Selectors) (*Extractor, error) {
	if err := selectors.Validate(); err != nil {
		return nil, err
	}
	return &Extractor{
		selectors: selectors,
		authRe:    regexp.MustCompile(selectors.AuthPattern),
	}, nil
}

// Extract parses the raw page into a Document
func (e *Extractor) Extract(page []byte) (core.ProfileDocument, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile page: %w", err)
	}
	return &Document{
		doc:       doc,
		selectors: e.selectors,
		authRe:    e.authRe,
	}, nil
}

// Document is a parsed profile page
type Document struct {
	doc       *goquery.Document
	selectors Selectors
	authRe    *regexp.Regexp
}

// Credentials locates the script holding the API credentials literal and decodes it
func (d *Document) Credentials() (*core.AuthCredentials, error) {
	script := d.doc.Find(d.selectors.AuthTag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), d.selectors.AuthMarker)
	}).First()

	if script.Length() == 0 {
		return nil, core.NewParseError(core.KindCredentialsNotFound, nil,
			"no <%s> containing %s", d.selectors.AuthTag, d.selectors.AuthMarker)
	}

	match := d.authRe.FindStringSubmatch(strings.TrimSpace(script.Text()))
	if match == nil {
		return nil, core.NewParseError(core.KindMalformedCredentials, nil,
			"credentials assignment not found in <%s>", d.selectors.AuthTag)
	}

	// The literal uses single quotes; swap them so it decodes as JSON
	literal := strings.ReplaceAll(match[1], "'", `"`)

	var creds core.AuthCredentials
	if err := json.Unmarshal([]byte(literal), &creds); err != nil {
		return nil, core.NewParseError(core.KindMalformedCredentials, err, "credentials literal")
	}

	return &creds, nil
}

// DoctorID reads the doctor id attribute of the doctor custom element
func (d *Document) DoctorID() (core.ID, error) {
	el := d.doc.Find(d.selectors.DoctorIDTag).First()
	if el.Length() == 0 {
		return "", core.NewParseError(core.KindDoctorNotFound, nil, "no <%s> element", d.selectors.DoctorIDTag)
	}

	value, ok := el.Attr(d.selectors.DoctorIDAttr)
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return "", core.NewParseError(core.KindDoctorNotFound, nil,
			"<%s> has no %s attribute", d.selectors.DoctorIDTag, d.selectors.DoctorIDAttr)
	}

	return core.ID(value), nil
}

// Calendars decodes the address/calendar records of the calendar custom element
func (d *Document) Calendars() ([]core.AddressCalendar, error) {
	el := d.doc.Find(d.selectors.CalendarTag).First()
	if el.Length() == 0 {
		return nil, core.NewParseError(core.KindCalendarNotFound, nil, "no <%s> element", d.selectors.CalendarTag)
	}

	value, ok := el.Attr(d.selectors.CalendarAttr)
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return nil, core.NewParseError(core.KindCalendarNotFound, nil,
			"<%s> has no %s attribute", d.selectors.CalendarTag, d.selectors.CalendarAttr)
	}

	var calendars []core.AddressCalendar
	if err := json.Unmarshal([]byte(value), &calendars); err != nil {
		return nil, core.NewParseError(core.KindMalformedCalendars, err, "attribute %s", d.selectors.CalendarAttr)
	}

	return calendars, nil
}

var (
	_ core.ProfileExtractor = (*Extractor)(nil)
	_ core.ProfileDocument  = (*Document)(nil)
)
