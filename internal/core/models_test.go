package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{name: "number", input: `123`, want: "123"},
		{name: "string", input: `"456"`, want: "456"},
		{name: "null", input: `null`, want: ""},
		{name: "large number", input: `98765432101`, want: "98765432101"},
		{name: "bool", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestDoctorParams_CoercesNumbers(t *testing.T) {
	var params DoctorParams
	err := json.Unmarshal([]byte(`{"doctor_id": 42, "address_id": "7"}`), &params)
	require.NoError(t, err)

	assert.Equal(t, ID("42"), params.DoctorID)
	assert.Equal(t, ID("7"), params.AddressID)

	data, err := json.Marshal(params)
	require.NoError(t, err)
	assert.JSONEq(t, `{"doctor_id": "42", "address_id": "7"}`, string(data))
}

func TestDoctorParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  DoctorParams
		wantErr error
	}{
		{name: "valid", params: DoctorParams{DoctorID: "1", AddressID: "2"}},
		{name: "missing doctor", params: DoctorParams{AddressID: "2"}, wantErr: ErrEmptyDoctorID},
		{name: "missing address", params: DoctorParams{DoctorID: "1"}, wantErr: ErrEmptyAddressID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestToken_IsExpired(t *testing.T) {
	now := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{name: "future", expiresAt: now.Add(time.Minute), want: false},
		{name: "exactly now", expiresAt: now, want: true},
		{name: "past", expiresAt: now.Add(-time.Second), want: true},
		{name: "unknown expiry", expiresAt: time.Time{}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := &Token{Token: "abc", ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, token.IsExpired(now))
		})
	}
}

func TestAuthCredentials_Unmarshal(t *testing.T) {
	raw := `{"ACCESS_TOKEN": "tok", "ACCESS_TOKEN_EXPIRATION_TIME": 1709553600,
		"REFRESH_TOKEN": null, "REFRESH_TOKEN_EXPIRATION_TIME": null, "TOKEN_URL": "/token"}`

	var creds AuthCredentials
	require.NoError(t, json.Unmarshal([]byte(raw), &creds))

	assert.Equal(t, "tok", creds.AccessToken)
	assert.Nil(t, creds.RefreshToken)
	assert.Equal(t, "/token", creds.TokenURL)

	expiresAt := creds.ExpiresAt(time.UTC)
	assert.Equal(t, time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC), expiresAt)
}

func TestAddressCalendar_ToleratesMissingFields(t *testing.T) {
	raw := `[
		{"id": 1, "hasActiveCalendar": false, "facilityId": null, "cityName": null},
		{"id": "2", "hasActiveCalendar": true, "isOnlineOnly": true, "unknownField": {"x": 1},
		 "services": [{"id": 10, "isDefault": true, "name": "Consultation"}]}
	]`

	var calendars []AddressCalendar
	require.NoError(t, json.Unmarshal([]byte(raw), &calendars))
	require.Len(t, calendars, 2)

	assert.Equal(t, ID("1"), calendars[0].ID)
	assert.Empty(t, calendars[0].FacilityID)
	assert.Empty(t, calendars[0].CityName)

	assert.Equal(t, ID("2"), calendars[1].ID)
	assert.True(t, calendars[1].HasActiveCalendar)
	require.Len(t, calendars[1].Services, 1)
	assert.Equal(t, "Consultation", calendars[1].Services[0].Name)
}

func TestNewQueryParams(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	now := time.Date(2024, 3, 4, 15, 30, 45, 500, loc)

	q, err := NewQueryParams(now, 2)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-04T00:00:00+01:00", q.StartString())
	assert.Equal(t, "2024-03-18T00:00:00+01:00", q.EndString())

	_, err = NewQueryParams(now, 0)
	assert.ErrorIs(t, err, ErrInvalidWeeks)
}
