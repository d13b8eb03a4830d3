package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unical/internal/model"
)

const eventsBody = `[
  {"title": "Badminton", "start": "2026-02-18T18:00:00", "allDay": false,
   "extendedProps": {"location": "Sporthalle", "dow": "Mi"}},
  {"title": "Feiertag", "allDay": true}
]`

const metaBody = `{
  "updated_at": "2026-08-30T05:00:00Z",
  "rows_parsed": 120,
  "events_generated": 2,
  "phase_lookahead_days": 28
}`

func TestLoadSuccess(t *testing.T) {
	var eventsHeader http.Header
	mux := http.NewServeMux()
	mux.HandleFunc("/data/events.json", func(w http.ResponseWriter, r *http.Request) {
		eventsHeader = r.Header.Clone()
		_, _ = w.Write([]byte(eventsBody))
	})
	mux.HandleFunc("/data/meta.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(metaBody))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	l := NewLoader(srv.URL+"/data/events.json", srv.URL+"/data/meta.json")
	res, err := l.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Events, 2)
	assert.Equal(t, "Badminton", res.Events[0].Title)
	assert.Equal(t, 120, res.Meta.RowsParsed)
	assert.Equal(t, 28, res.Meta.PhaseLookaheadDays)

	// Display colors are stamped uniformly at load time.
	for _, ev := range res.Events {
		assert.Equal(t, model.EventBackgroundColor, ev.BackgroundColor)
		assert.Equal(t, model.EventBorderColor, ev.BorderColor)
		assert.Equal(t, model.EventTextColor, ev.TextColor)
	}

	// Cache-bypass request headers.
	assert.Equal(t, "no-cache", eventsHeader.Get("Cache-Control"))
	assert.Equal(t, "no-cache", eventsHeader.Get("Pragma"))
}

func TestLoadJoinFailsOnSingleError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/data/events.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(eventsBody))
	})
	mux.HandleFunc("/data/meta.json", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	l := NewLoader(srv.URL+"/data/events.json", srv.URL+"/data/meta.json")
	res, err := l.Load(context.Background())
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, http.StatusInternalServerError, loadErr.Status)

	// No partial result.
	assert.Empty(t, res.Events)
	assert.Zero(t, res.Meta)
}

func TestLoadParseError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/data/events.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"`))
	})
	mux.HandleFunc("/data/meta.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(metaBody))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	l := NewLoader(srv.URL+"/data/events.json", srv.URL+"/data/meta.json")
	_, err := l.Load(context.Background())
	require.Error(t, err)

	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	eventsPath := filepath.Join(dir, "events.json")
	metaPath := filepath.Join(dir, "meta.json")
	require.NoError(t, os.WriteFile(eventsPath, []byte(eventsBody), 0o644))
	require.NoError(t, os.WriteFile(metaPath, []byte(metaBody), 0o644))

	l := NewLoader(eventsPath, metaPath)
	res, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Events, 2)
	assert.Equal(t, 2, res.Meta.EventsGenerated)
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(filepath.Join(dir, "events.json"), filepath.Join(dir, "meta.json"))

	_, err := l.Load(context.Background())
	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
}

func TestCacheBust(t *testing.T) {
	assert.Contains(t, cacheBust("http://x/a.json"), "http://x/a.json?_=")
	assert.Contains(t, cacheBust("http://x/a.json?v=1"), "http://x/a.json?v=1&_=")
}
