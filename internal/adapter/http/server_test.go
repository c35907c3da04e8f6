package http_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/dixmont/taxmap/internal/adapter/http"
	"github.com/dixmont/taxmap/internal/parcels"
)

type stubSource struct {
	fc        *geojson.FeatureCollection
	info      parcels.SourceInfo
	refreshed bool
}

func (s *stubSource) Resolve(_ context.Context) *geojson.FeatureCollection { return s.fc }

func (s *stubSource) Refresh(_ context.Context) *geojson.FeatureCollection {
	s.refreshed = true
	return s.fc
}

func (s *stubSource) Info() parcels.SourceInfo { return s.info }

func newStubSource() *stubSource {
	fc := geojson.NewFeatureCollection()
	f := geojson.NewFeature(orb.Polygon{{{0, 0}, {2, 0}, {2, 2}, {0, 2}}})
	f.Properties = geojson.Properties{
		"name": "12-34", "MapLot": "12-34", "Owner": "Jane Doe", "Acres": "12.5",
	}
	fc.Append(f)
	return &stubSource{
		fc:   fc,
		info: parcels.SourceInfo{Source: parcels.SourceRemote, ParcelCount: 1},
	}
}

func serve(t *testing.T, source httpadapter.ParcelSource, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	srv := httpadapter.NewServer(":0", source, slog.New(slog.DiscardHandler))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestParcelsEndpoint(t *testing.T) {
	rec := serve(t, newStubSource(), http.MethodGet, "/api/parcels")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	fc, err := geojson.UnmarshalFeatureCollection(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Len(t, fc.Features, 1)
}

func TestParcelEndpoint(t *testing.T) {
	t.Run("known id", func(t *testing.T) {
		rec := serve(t, newStubSource(), http.MethodGet, "/api/parcel/12-34")
		assert.Equal(t, http.StatusOK, rec.Code)

		f, err := geojson.UnmarshalFeature(rec.Body.Bytes())
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", f.Properties["Owner"])
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := serve(t, newStubSource(), http.MethodGet, "/api/parcel/99-99")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Parcel not found", decodeBody(t, rec)["error"])
	})
}

func TestSearchEndpoint(t *testing.T) {
	t.Run("match", func(t *testing.T) {
		rec := serve(t, newStubSource(), http.MethodGet, "/api/search?q=jane")
		assert.Equal(t, http.StatusOK, rec.Code)

		results := decodeBody(t, rec)["results"].([]any)
		require.Len(t, results, 1)
		first := results[0].(map[string]any)
		assert.Equal(t, "12-34", first["id"])
		assert.Equal(t, "Jane Doe", first["owner"])
	})

	t.Run("short query yields empty results", func(t *testing.T) {
		rec := serve(t, newStubSource(), http.MethodGet, "/api/search?q=j")
		results := decodeBody(t, rec)["results"].([]any)
		assert.Empty(t, results)
	})
}

func TestStatsEndpoint(t *testing.T) {
	rec := serve(t, newStubSource(), http.MethodGet, "/api/stats")
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["total_parcels"])
	assert.Equal(t, true, body["has_data"])
	assert.ElementsMatch(t, []any{"Acres", "MapLot", "Owner", "name"}, body["sample_properties"])
	assert.Equal(t, "remote", body["data_source"].(map[string]any)["source"])
}

func TestDataSourceEndpoint(t *testing.T) {
	rec := serve(t, newStubSource(), http.MethodGet, "/api/data-source")
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "remote", body["source"])
	assert.Equal(t, float64(1), body["parcel_count"])
}

func TestRefreshEndpoint(t *testing.T) {
	source := newStubSource()
	rec := serve(t, source, http.MethodGet, "/api/refresh")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, source.refreshed)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["parcel_count"])
}

func TestHealthEndpoint(t *testing.T) {
	rec := serve(t, newStubSource(), http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "remote", body["data_source"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(t, newStubSource(), http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestCORS(t *testing.T) {
	t.Run("api responses carry cors headers", func(t *testing.T) {
		rec := serve(t, newStubSource(), http.MethodGet, "/api/parcels")
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight is answered directly", func(t *testing.T) {
		rec := serve(t, newStubSource(), http.MethodOptions, "/api/parcels")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
