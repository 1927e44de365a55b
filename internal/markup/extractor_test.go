package markup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotscraper/internal/core"
)

func loadFixture(t *testing.T, name string) []byte {
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func newTestExtractor(t *testing.T) *Extractor {
	extractor, err := NewExtractor(DefaultSelectors())
	require.NoError(t, err)
	return extractor
}

func extract(t *testing.T, page string) core.ProfileDocument {
	doc, err := newTestExtractor(t).Extract([]byte(page))
	require.NoError(t, err)
	return doc
}

func TestExtractor_Fixture(t *testing.T) {
	doc, err := newTestExtractor(t).Extract(loadFixture(t, "profile.html"))
	require.NoError(t, err)

	creds, err := doc.Credentials()
	require.NoError(t, err)
	assert.Equal(t, "page.access.token", creds.AccessToken)
	assert.Equal(t, int64(1709553600), creds.AccessTokenExpirationTime)
	assert.Nil(t, creds.RefreshToken)
	assert.Equal(t, "/oauth/v2/token", creds.TokenURL)

	doctorID, err := doc.DoctorID()
	require.NoError(t, err)
	assert.Equal(t, core.ID("123456"), doctorID)

	calendars, err := doc.Calendars()
	require.NoError(t, err)
	require.Len(t, calendars, 3)
	assert.Equal(t, core.ID("111"), calendars[0].ID)
	assert.False(t, calendars[0].HasActiveCalendar)
	assert.Equal(t, "Warszawa", calendars[0].CityName)
	assert.Equal(t, core.ID("9001"), calendars[1].FacilityID)
	assert.Equal(t, "Floriańska 2", calendars[1].Street)
	require.Len(t, calendars[1].Services, 1)
	assert.Equal(t, "Konsultacja", calendars[1].Services[0].Name)
	assert.Equal(t, core.ID("333"), calendars[2].ID)
}

func TestExtractor_FixtureThroughResolver(t *testing.T) {
	doc, err := newTestExtractor(t).Extract(loadFixture(t, "profile.html"))
	require.NoError(t, err)

	resolver := core.NewResolver(time.UTC)

	params, err := resolver.DoctorParams(doc)
	require.NoError(t, err)
	assert.Equal(t, core.ID("123456"), params.DoctorID)
	assert.Equal(t, core.ID("222"), params.AddressID)

	token, err := resolver.Token(doc)
	require.NoError(t, err)
	assert.Equal(t, "page.access.token", token.Token)
	assert.True(t, token.ExpiresAt.Equal(time.Unix(1709553600, 0)))
}

func TestDocument_Credentials_NotFound(t *testing.T) {
	pages := map[string]string{
		"no scripts":        `<html><body><p>hello</p></body></html>`,
		"marker missing":    `<html><head><script>var APICredentials = {"ACCESS_TOKEN": "x"};</script></head></html>`,
		"marker outside":    `<html><body><p>'ACCESS_TOKEN'</p></body></html>`,
		"empty document":    ``,
		"unrelated scripts": `<script>var a = 1;</script><script>var b = 2;</script>`,
	}

	for name, page := range pages {
		t.Run(name, func(t *testing.T) {
			_, err := extract(t, page).Credentials()
			assert.ErrorIs(t, err, core.ErrCredentialsNotFound)
		})
	}
}

func TestDocument_Credentials_Malformed(t *testing.T) {
	tests := map[string]string{
		"no assignment": `<script>var x = {'ACCESS_TOKEN': 'a'}</script>`,
		"broken literal": `<script>APICredentials = {'ACCESS_TOKEN': 'a',, 'TOKEN_URL': 1};</script>`,
	}

	for name, page := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := extract(t, page).Credentials()
			assert.ErrorIs(t, err, core.ErrMalformedCredentials)
		})
	}
}

func TestDocument_DoctorID_NotFound(t *testing.T) {
	tests := map[string]string{
		"no element":      `<html><body><calendar-app></calendar-app></body></html>`,
		"no attribute":    `<save-doctor-app doctor-id="1"></save-doctor-app>`,
		"empty attribute": `<save-doctor-app :doctor-id=""></save-doctor-app>`,
	}

	for name, page := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := extract(t, page).DoctorID()
			assert.ErrorIs(t, err, core.ErrDoctorNotFound)
		})
	}
}

func TestDocument_Calendars(t *testing.T) {
	t.Run("missing element", func(t *testing.T) {
		_, err := extract(t, `<save-doctor-app :doctor-id="1"></save-doctor-app>`).Calendars()
		assert.ErrorIs(t, err, core.ErrCalendarNotFound)
	})

	t.Run("empty attribute", func(t *testing.T) {
		_, err := extract(t, `<calendar-app :calendar-addresses=""></calendar-app>`).Calendars()
		assert.ErrorIs(t, err, core.ErrCalendarNotFound)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := extract(t, `<calendar-app :calendar-addresses="[{&quot;id&quot;: 1"></calendar-app>`).Calendars()
		assert.ErrorIs(t, err, core.ErrMalformedCalendars)
	})

	t.Run("single quoted attribute", func(t *testing.T) {
		page := `<calendar-app :calendar-addresses='[{"id": 1, "hasActiveCalendar": false}, {"id": 2, "hasActiveCalendar": true}]'></calendar-app>`
		calendars, err := extract(t, page).Calendars()
		require.NoError(t, err)
		require.Len(t, calendars, 2)

		id, err := core.SelectActiveAddress(calendars)
		require.NoError(t, err)
		assert.Equal(t, core.ID("2"), id)
	})

	t.Run("all inactive", func(t *testing.T) {
		page := `<calendar-app :calendar-addresses='[{"id": 1, "hasActiveCalendar": false}]'></calendar-app>`
		calendars, err := extract(t, page).Calendars()
		require.NoError(t, err)

		_, err = core.SelectActiveAddress(calendars)
		assert.ErrorIs(t, err, core.ErrActiveCalendarNotFound)
	})
}

func TestSelectors_Validate(t *testing.T) {
	valid := DefaultSelectors()
	require.NoError(t, valid.Validate())

	missing := DefaultSelectors()
	missing.CalendarAttr = ""
	assert.ErrorIs(t, missing.Validate(), ErrInvalidSelectors)

	noGroup := DefaultSelectors()
	noGroup.AuthPattern = `APICredentials\s*=`
	assert.ErrorIs(t, noGroup.Validate(), ErrInvalidSelectors)

	broken := DefaultSelectors()
	broken.AuthPattern = `(`
	assert.ErrorIs(t, broken.Validate(), ErrInvalidSelectors)

	_, err := NewExtractor(broken)
	assert.Error(t, err)
}

func TestSelectors_CustomMarkup(t *testing.T) {
	selectors := DefaultSelectors()
	selectors.DoctorIDTag = "doctor-widget"
	selectors.DoctorIDAttr = "data-doctor"

	extractor, err := NewExtractor(selectors)
	require.NoError(t, err)

	doc, err := extractor.Extract([]byte(`<doctor-widget data-doctor="77"></doctor-widget>`))
	require.NoError(t, err)

	id, err := doc.DoctorID()
	require.NoError(t, err)
	assert.Equal(t, core.ID("77"), id)
}
