package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geocoderServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"display_name":"Somewhere near %s,%s"}`, r.URL.Query().Get("lat"), r.URL.Query().Get("lon"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, dir, geocoderURL, extra string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf(`geocoder_url = %q
store_path = %q
log_file = %q
%s`, geocoderURL, filepath.Join(dir, "pins.json"), filepath.Join(dir, "pinmap.log"), extra)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestOpen_PersistsAcrossSessions(t *testing.T) {
	dir := t.TempDir()
	srv := geocoderServer(t)
	cfgPath := writeConfig(t, dir, srv.URL, "")

	s, err := Open(Options{ConfigPath: cfgPath})
	require.NoError(t, err)

	s.Drafts.Place(51.5, -0.09)
	s.Drafts.SetRemarks("Home")
	p, ok := s.Drafts.Confirm(context.Background())
	require.True(t, ok)
	assert.Equal(t, "Somewhere near 51.5,-0.09", p.Address)
	require.NoError(t, s.Close())

	assert.FileExists(t, filepath.Join(dir, "pins.json"))
	assert.FileExists(t, filepath.Join(dir, "pinmap.log"))

	s2, err := Open(Options{ConfigPath: cfgPath})
	require.NoError(t, err)
	defer func() { _ = s2.Close() }()
	assert.Equal(t, s2.Repo.List()[0], p)
}

func TestOpen_BoltOverride(t *testing.T) {
	dir := t.TempDir()
	srv := geocoderServer(t)
	cfgPath := writeConfig(t, dir, srv.URL, "")
	dbPath := filepath.Join(dir, "pins.db")

	s, err := Open(Options{ConfigPath: cfgPath, StoreBackend: "bolt", StorePath: dbPath})
	require.NoError(t, err)
	assert.Equal(t, "bolt", s.Config.StoreBackend)
	assert.Equal(t, dbPath, s.Config.StorePath)

	created := s.Repo.Create(context.Background(), 48.85, 2.35, "Paris")
	require.NoError(t, s.Close())

	s2, err := Open(Options{ConfigPath: cfgPath, StoreBackend: "bolt", StorePath: dbPath})
	require.NoError(t, err)
	defer func() { _ = s2.Close() }()
	got, err := s2.Repo.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paris", got.Remarks)
	assert.NoFileExists(t, filepath.Join(dir, "pins.json"))
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("store_backend = \"sqlite\"\n"), 0o644))
	_, err := Open(Options{ConfigPath: bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")

	cfgPath := writeConfig(t, dir, "http://127.0.0.1:1", "")
	_, err = Open(Options{ConfigPath: cfgPath, StoreBackend: "carrier-pigeon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open store")
}
