// Package render prints slots as a pipe table with localized start times.
package render

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/goodsign/monday"
	"github.com/olekukonko/tablewriter"

	"slotscraper/internal/core"
)

// StartLayout renders a start time as "weekday DD month, HH:mm"
const StartLayout = "Monday 02 January, 15:04"

var ErrUnsupportedLocale = errors.New("unsupported locale")

var header = []string{"", "start", "booked", "booking_url"}

// Renderer formats slots for display
type Renderer struct {
	locale   monday.Locale
	location *time.Location
}

// NewRenderer creates a renderer for the given locale (e.g. "pl_PL").
// A nil location keeps each start time in the offset the API returned.
func NewRenderer(locale string, location *time.Location) (*Renderer, error) {
	if !isSupported(monday.Locale(locale)) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLocale, locale)
	}
	return &Renderer{
		locale:   monday.Locale(locale),
		location: location,
	}, nil
}

func isSupported(locale monday.Locale) bool {
	for _, l := range monday.ListLocales() {
		if l == locale {
			return true
		}
	}
	return false
}

// FormatStart returns the localized start time, or "" for an unknown start
func (r *Renderer) FormatStart(start time.Time) string {
	if start.IsZero() {
		return ""
	}
	if r.location != nil {
		start = start.In(r.location)
	}
	return monday.Format(start, StartLayout, r.locale)
}

// Rows converts slots into table rows, prefixed with their index
func (r *Renderer) Rows(slots []core.Slot) [][]string {
	rows := make([][]string, 0, len(slots))
	for i, slot := range slots {
		rows = append(rows, []string{
			strconv.Itoa(i),
			r.FormatStart(slot.Start),
			strconv.FormatBool(slot.Booked),
			slot.BookingURL,
		})
	}
	return rows
}

// Render writes slots to w as a pipe table
func (r *Renderer) Render(w io.Writer, slots []core.Slot) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(r.Rows(slots))
	table.Render()
	return nil
}
