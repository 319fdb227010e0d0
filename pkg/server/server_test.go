package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/traitforge/pkg/genome"
	"github.com/matzehuels/traitforge/pkg/observability"
	"github.com/matzehuels/traitforge/pkg/output"
	"github.com/matzehuels/traitforge/pkg/rarity"
)

func seedOutput(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	mds := []genome.Metadata{
		{TokenID: 0, Name: "Tower #0", Attributes: []genome.Attribute{{TraitType: "Background", Value: "Red"}}},
		{TokenID: 1, Name: "Tower #1", Attributes: []genome.Attribute{{TraitType: "Background", Value: "Blue"}}},
	}
	for _, md := range mds {
		require.NoError(t, output.WriteMetadata(dir, md))
	}
	require.NoError(t, output.WriteAll(dir, mds))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "images", "1.png"), []byte("\x89PNG fake"), 0o644))
	return dir
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRoutes(t *testing.T) {
	h := New(seedOutput(t), nil).Handler()

	tests := []struct {
		path        string
		status      int
		contentType string
	}{
		{"/metadata", http.StatusOK, "application/json"},
		{"/metadata/1", http.StatusOK, "application/json"},
		{"/metadata/1.json", http.StatusOK, "application/json"},
		{"/metadata/7", http.StatusNotFound, "application/json; charset=utf-8"},
		{"/metadata/abc", http.StatusBadRequest, "application/json; charset=utf-8"},
		{"/metadata/-1", http.StatusNotFound, "application/json; charset=utf-8"},
		{"/metadata/1x", http.StatusBadRequest, "application/json; charset=utf-8"},
		{"/images/1.png", http.StatusOK, "image/png"},
		{"/images/0", http.StatusNotFound, "application/json; charset=utf-8"},
		{"/report", http.StatusNotFound, "application/json; charset=utf-8"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, tt.path)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			require.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
		})
	}
}

func TestNegativeTokenID(t *testing.T) {
	dir := seedOutput(t)
	require.NoError(t, output.WriteMetadata(dir, genome.Metadata{TokenID: -1, Name: "Tower #-1"}))
	h := New(dir, nil).Handler()

	rec := get(t, h, "/metadata/-1.json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var md genome.Metadata
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &md))
	require.Equal(t, -1, md.TokenID)
}

func TestMetadataBody(t *testing.T) {
	h := New(seedOutput(t), nil).Handler()

	rec := get(t, h, "/metadata/1")
	var md genome.Metadata
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &md))
	require.Equal(t, "Tower #1", md.Name)
}

func TestRarityRoute(t *testing.T) {
	h := New(seedOutput(t), nil).Handler()

	rec := get(t, h, "/rarity")
	require.Equal(t, http.StatusOK, rec.Code)

	var table rarity.Table
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &table))
	require.Equal(t, 2, table.Total)
	require.Len(t, table.Traits, 2)
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	statuses []int
}

func (h *recordingHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.statuses = append(h.statuses, status)
}

func TestHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	h := New(seedOutput(t), nil).Handler()
	get(t, h, "/metadata/0")
	get(t, h, "/metadata/99")

	require.Equal(t, []int{http.StatusOK, http.StatusNotFound}, hooks.statuses)
}
