package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotscraper/config"
	"slotscraper/internal/core"
	"slotscraper/internal/logging"
	"slotscraper/internal/platform"
)

var dataRow = regexp.MustCompile(`(?m)^\|\s*\d+\s*\|`)

type fakePlatform struct {
	server        *httptest.Server
	profileHits   atomic.Int32
	slotsHits     atomic.Int32
	lastSlotQuery atomic.Value
}

func newFakePlatform(t *testing.T) *fakePlatform {
	profile, err := os.ReadFile(filepath.Join("testdata", "profile.html"))
	require.NoError(t, err)
	slots, err := os.ReadFile(filepath.Join("testdata", "slots.json"))
	require.NoError(t, err)

	fake := &fakePlatform{}
	mux := http.NewServeMux()
	mux.HandleFunc("/dr-jane/booking", func(w http.ResponseWriter, r *http.Request) {
		fake.profileHits.Add(1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(profile)
	})
	mux.HandleFunc("/api/v3/doctors/123/addresses/456/slots", func(w http.ResponseWriter, r *http.Request) {
		fake.slotsHits.Add(1)
		if r.Header.Get("Authorization") != "Bearer e2e.access.token" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		fake.lastSlotQuery.Store(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		w.Write(slots)
	})

	fake.server = httptest.NewServer(mux)
	t.Cleanup(fake.server.Close)
	return fake
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Cache.Dir = t.TempDir()
	cfg.Display.Locale = "en_US"
	require.NoError(t, cfg.Validate())
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	clock := &core.MockClock{CurrentTime: time.Date(2024, 3, 4, 15, 0, 0, 0, time.FixedZone("CET", 3600))}

	application, err := New(context.Background(), cfg, clock, logging.NewDiscardLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		application.Close()
	})
	return application
}

func TestApp_Run_EndToEnd(t *testing.T) {
	fake := newFakePlatform(t)
	application := newTestApp(t, testConfig(t))
	ctx := context.Background()
	profileURL := fake.server.URL + "/dr-jane/booking"

	var out bytes.Buffer
	require.NoError(t, application.Run(ctx, profileURL, 2, &out))

	output := out.String()
	assert.Len(t, dataRow.FindAllString(output, -1), 2)
	assert.Contains(t, output, "Tuesday 05 March, 09:30")
	assert.Contains(t, output, "Wednesday 06 March, 14:00")
	assert.Contains(t, output, "false")
	assert.Contains(t, output, "true")
	assert.Contains(t, output, "https://site.example/booking/slot/1")

	assert.Equal(t, int32(1), fake.profileHits.Load())
	assert.Equal(t, int32(1), fake.slotsHits.Load())

	query := fake.lastSlotQuery.Load().(url.Values)
	assert.Equal(t, []string{"2024-03-04T00:00:00+01:00"}, query["start"])
	assert.Equal(t, []string{"2024-03-18T00:00:00+01:00"}, query["end"])

	// Second run reuses the cached token and identifiers
	out.Reset()
	require.NoError(t, application.Run(ctx, profileURL, 1, &out))
	assert.Len(t, dataRow.FindAllString(out.String(), -1), 2)
	assert.Equal(t, int32(1), fake.profileHits.Load())
	assert.Equal(t, int32(2), fake.slotsHits.Load())
}

func TestApp_Run_Backends(t *testing.T) {
	for _, backend := range []string{config.BackendSQLite, config.BackendBolt} {
		t.Run(backend, func(t *testing.T) {
			fake := newFakePlatform(t)
			cfg := testConfig(t)
			cfg.Cache.Backend = backend
			profileURL := fake.server.URL + "/dr-jane/booking"

			// Each run opens the store anew, as separate CLI invocations do
			for i := 0; i < 2; i++ {
				application, err := New(context.Background(), cfg,
					&core.MockClock{CurrentTime: time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)},
					logging.NewDiscardLogger())
				require.NoError(t, err)

				var out bytes.Buffer
				require.NoError(t, application.Run(context.Background(), profileURL, 1, &out))
				require.NoError(t, application.Close())
				assert.Len(t, dataRow.FindAllString(out.String(), -1), 2)
			}

			assert.Equal(t, int32(1), fake.profileHits.Load())
			assert.Equal(t, int32(2), fake.slotsHits.Load())
		})
	}
}

func TestApp_Run_InvalidWeeks(t *testing.T) {
	fake := newFakePlatform(t)
	application := newTestApp(t, testConfig(t))

	var out bytes.Buffer
	err := application.Run(context.Background(), fake.server.URL+"/dr-jane/booking", 0, &out)
	assert.ErrorIs(t, err, core.ErrInvalidWeeks)
	assert.Equal(t, int32(0), fake.profileHits.Load())
	assert.Empty(t, out.String())
}

func TestApp_Run_ProfileNotFound(t *testing.T) {
	fake := newFakePlatform(t)
	application := newTestApp(t, testConfig(t))

	var out bytes.Buffer
	err := application.Run(context.Background(), fake.server.URL+"/dr-nobody/booking", 1, &out)

	var statusErr *platform.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Empty(t, out.String())
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, backend := range []string{config.BackendFile, config.BackendSQLite, config.BackendBolt} {
		t.Run(backend, func(t *testing.T) {
			store, err := OpenStore(ctx, config.CacheConfig{Backend: backend, Dir: dir})
			require.NoError(t, err)
			defer store.Close()

			require.NoError(t, store.Set(ctx, "auth_token.json", backend))
			value, ok, err := store.Get(ctx, "auth_token.json")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, backend, value)
		})
	}

	_, err := OpenStore(ctx, config.CacheConfig{Backend: "tape"})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestNew_UnsupportedLocale(t *testing.T) {
	cfg := testConfig(t)
	cfg.Display.Locale = "xx_XX"

	_, err := New(context.Background(), cfg, nil, logging.NewDiscardLogger())
	assert.Error(t, err)
}
