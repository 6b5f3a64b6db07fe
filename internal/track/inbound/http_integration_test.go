package inbound

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/D-Elbel/gpxshare/internal/pkg/pkgrouter"
	"github.com/D-Elbel/gpxshare/internal/pkg/pkgroutine"
	"github.com/D-Elbel/gpxshare/internal/pkg/pkguid"
	"github.com/D-Elbel/gpxshare/internal/track/event"
	"github.com/D-Elbel/gpxshare/internal/track/store"
	"github.com/D-Elbel/gpxshare/internal/track/usecase"
)

type counterID struct {
	n int64
}

func (c *counterID) Generate() int64 {
	return atomic.AddInt64(&c.n, 1)
}

type fixture struct {
	router   http.Handler
	recorder *event.Recorder
	runner   *pkgroutine.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	runner := pkgroutine.NewManager(10)
	bus := event.NewBus(16)
	recorder := event.NewRecorder(bus, event.RecorderConfig{Size: 10, Workers: 1})
	recorder.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = recorder.Stop(ctx)
	})

	uc := usecase.New(usecase.Dependency{
		Store:   store.NewInMemoryStore(),
		Events:  bus,
		Recents: recorder,
		Runner:  runner,
		ID:      pkguid.NewUUID(),
		Seq:     &counterID{},
		RootCtx: context.Background(),
	})

	router := pkgrouter.NewRouter(pkguid.NewUUID())
	RegisterHTTPEndpoint(router, uc)

	return &fixture{router: router, recorder: recorder, runner: runner}
}

func (f *fixture) do(t *testing.T, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	f := newFixture(t)

	doc := `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"LineString","coordinates":[[9,47],[9.1,47.1]]},"properties":{"name":"hill loop"}}],"meta_stats":{"total_distance_km":"13.57"}}`

	rec := f.do(t, http.MethodPost, "/api/save", []byte(`{"geojson":`+doc+`}`), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d, body = %s", rec.Code, rec.Body)
	}

	var saved SaveResponse
	if err := json.NewDecoder(rec.Body).Decode(&saved); err != nil {
		t.Fatalf("decode save response: %v", err)
	}
	if saved.UUID == "" {
		t.Fatal("save returned empty uuid")
	}

	got := f.do(t, http.MethodGet, "/api/get/"+saved.UUID, nil, "")
	if got.Code != http.StatusOK {
		t.Fatalf("get status = %d, body = %s", got.Code, got.Body)
	}
	if ct := got.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("get content type = %q", ct)
	}

	var canonical any
	if err := json.Unmarshal([]byte(doc), &canonical); err != nil {
		t.Fatalf("unmarshal document: %v", err)
	}
	want, err := json.Marshal(canonical)
	if err != nil {
		t.Fatalf("marshal document: %v", err)
	}
	if !bytes.Equal(got.Body.Bytes(), want) {
		t.Fatalf("get body = %s, want %s", got.Body.Bytes(), want)
	}
}

func TestSaveMissingPayload(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name string
		body []byte
	}{
		{"empty body", nil},
		{"no geojson field", []byte(`{}`)},
		{"null geojson", []byte(`{"geojson":null}`)},
		{"malformed json", []byte(`{"geojson"`)},
		{"empty string geojson", []byte(`{"geojson":""}`)},
		{"empty object geojson", []byte(`{"geojson":{}}`)},
		{"empty array geojson", []byte(`{"geojson":[]}`)},
		{"false geojson", []byte(`{"geojson":false}`)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/save", tc.body, "application/json")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if got := decodeError(t, rec); got != "Missing geojson payload" {
				t.Fatalf("error = %q", got)
			}
		})
	}
}

func TestGetUnknownIdentifier(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/get/5b9f3f66-63cf-4f0e-9a42-000000000000", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := decodeError(t, rec); got != "Not found" {
		t.Fatalf("error = %q", got)
	}
}

func TestConvertGPX(t *testing.T) {
	f := newFixture(t)

	gpxDoc := `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="gpxshare-test"><trk><trkseg>
<trkpt lat="0" lon="0"></trkpt>
<trkpt lat="1" lon="0"></trkpt>
</trkseg></trk></gpx>`

	rec := f.do(t, http.MethodPost, "/api/convert", []byte(gpxDoc), "application/gpx+xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("convert status = %d, body = %s", rec.Code, rec.Body)
	}

	var doc struct {
		Type      string `json:"type"`
		MetaStats struct {
			TotalDistanceKm string `json:"total_distance_km"`
		} `json:"meta_stats"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decode converted document: %v", err)
	}
	if doc.Type != "FeatureCollection" {
		t.Fatalf("type = %q", doc.Type)
	}
	if doc.MetaStats.TotalDistanceKm != "111.19" {
		t.Fatalf("total_distance_km = %q, want 111.19", doc.MetaStats.TotalDistanceKm)
	}
}

func TestConvertInvalidGPX(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/convert", []byte("not xml at all"), "application/gpx+xml")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := decodeError(t, rec); got != "Invalid GPX file" {
		t.Fatalf("error = %q", got)
	}
}

func TestGetRecentsAfterSave(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/save", []byte(`{"geojson":{"type":"FeatureCollection","features":[],"meta_stats":{"total_distance_km":"4.20"}}}`), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d", rec.Code)
	}

	var saved SaveResponse
	if err := json.NewDecoder(rec.Body).Decode(&saved); err != nil {
		t.Fatalf("decode save response: %v", err)
	}

	var recents RecentsResponse
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		res := f.do(t, http.MethodGet, "/api/get-recents", nil, "")
		if res.Code != http.StatusOK {
			t.Fatalf("recents status = %d", res.Code)
		}
		if err := json.NewDecoder(res.Body).Decode(&recents); err != nil {
			t.Fatalf("decode recents: %v", err)
		}
		if len(recents.Recents) > 0 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	if len(recents.Recents) != 1 {
		t.Fatalf("expected 1 recent, got %d", len(recents.Recents))
	}
	if recents.Recents[0].UUID != saved.UUID {
		t.Fatalf("recent uuid = %s, want %s", recents.Recents[0].UUID, saved.UUID)
	}
	if recents.Recents[0].TotalDistanceKm != "4.20" {
		t.Fatalf("recent distance = %q, want 4.20", recents.Recents[0].TotalDistanceKm)
	}

	if err := f.runner.Wait(); err != nil {
		t.Fatalf("runner wait: %v", err)
	}
}
