package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Rapou7/YonkiStats/internal/core"
	"github.com/Rapou7/YonkiStats/internal/kv"
	"github.com/Rapou7/YonkiStats/internal/prefs"
	"github.com/Rapou7/YonkiStats/internal/storage"
	"github.com/shopspring/decimal"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := kv.NewMemory()
	repo := storage.NewRepository(store)
	p, err := prefs.Load(context.Background(), store)
	if err != nil {
		t.Fatalf("prefs load: %v", err)
	}
	srv := NewServer(":0", repo, p, Options{
		Today: func() core.Day { return core.NewDay(2024, time.March, 31) },
	})
	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
	})
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func entryBody(date string, amount float64, category string) string {
	return fmt.Sprintf(`{"date":%q,"amountSpent":%g,"grams":0,"source":"app","type":"beer","category":%q}`, date, amount, category)
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doJSON(t, srv, http.MethodGet, path, "")
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestEntryLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/api/entries", entryBody("2024-03-31T10:00:00.000Z", 10, "Alcohol"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}
	var created core.Entry
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("created entry has no id")
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/entries", "")
	if rr.Code != 200 {
		t.Fatalf("list status=%d", rr.Code)
	}
	var listed []core.Entry
	if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("unexpected list: %+v", listed)
	}

	rr = doJSON(t, srv, http.MethodPut, "/api/entries/"+created.ID, entryBody("2024-03-30T10:00:00.000Z", 12, "Food"))
	if rr.Code != 200 {
		t.Fatalf("update status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/entries", "")
	_ = json.Unmarshal(rr.Body.Bytes(), &listed)
	if len(listed) != 1 || listed[0].Category != core.Food {
		t.Fatalf("update not applied: %+v", listed)
	}

	rr = doJSON(t, srv, http.MethodDelete, "/api/entries/"+created.ID, "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/entries", "")
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Fatalf("expected empty list, got %s", got)
	}
}

func TestCreateEntryValidation(t *testing.T) {
	srv := newTestServer(t)

	// Unknown category
	rr := doJSON(t, srv, http.MethodPost, "/api/entries", entryBody("2024-03-31", 10, "Coffee"))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad category status=%d", rr.Code)
	}

	// Empty type
	rr = doJSON(t, srv, http.MethodPost, "/api/entries", `{"date":"2024-03-31","amountSpent":1,"grams":0,"source":"app","type":"  ","category":"Food"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty type status=%d", rr.Code)
	}

	// Negative amount
	rr = doJSON(t, srv, http.MethodPost, "/api/entries", entryBody("2024-03-31", -1, "Food"))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("negative amount status=%d", rr.Code)
	}

	// Not JSON at all
	rr = doJSON(t, srv, http.MethodPost, "/api/entries", "not json")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("garbage body status=%d", rr.Code)
	}

	// Client-supplied id is rejected
	rr = doJSON(t, srv, http.MethodPost, "/api/entries", `{"id":"x","date":"2024-03-31","amountSpent":1,"grams":0,"source":"app","type":"beer","category":"Food"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("id field status=%d", rr.Code)
	}
}

func TestFavoritesCapacity(t *testing.T) {
	srv := newTestServer(t)

	for i := 0; i < core.MaxFavorites; i++ {
		rr := doJSON(t, srv, http.MethodPost, "/api/favorites", entryBody("", 5, "Weed"))
		if rr.Code != http.StatusCreated {
			t.Fatalf("favorite %d status=%d body=%s", i, rr.Code, rr.Body.String())
		}
	}

	rr := doJSON(t, srv, http.MethodPost, "/api/favorites", entryBody("", 5, "Weed"))
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 over capacity, got %d", rr.Code)
	}
}

func TestQuickAdd(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/api/favorites", `{"date":"","amountSpent":7,"grams":1.5,"source":"app","type":"joint","category":"Weed","notes":"evening"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("favorite status=%d body=%s", rr.Code, rr.Body.String())
	}
	var fav core.Entry
	if err := json.Unmarshal(rr.Body.Bytes(), &fav); err != nil {
		t.Fatalf("decode favorite: %v", err)
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/favorites/"+fav.ID+"/entries", "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("quick add status=%d body=%s", rr.Code, rr.Body.String())
	}
	var created core.Entry
	_ = json.Unmarshal(rr.Body.Bytes(), &created)
	if created.ID == fav.ID {
		t.Fatalf("quick add must mint a fresh id")
	}
	if created.Type != "joint" || !created.AmountSpent.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("quick add did not copy template: %+v", created)
	}
	if _, err := time.Parse(time.RFC3339, created.Date); err != nil {
		t.Fatalf("quick add date not RFC3339: %q", created.Date)
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/favorites/nope/entries", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown favorite status=%d", rr.Code)
	}
}

func seedEntries(t *testing.T, srv *Server) {
	t.Helper()
	for _, b := range []string{
		entryBody("2024-03-31T08:00:00.000Z", 10, "Alcohol"),
		entryBody("2024-03-25T23:59:00.000Z", 5, "Food"),
		entryBody("2024-01-02T00:00:00.000Z", 7, "Tobacco"),
	} {
		rr := doJSON(t, srv, http.MethodPost, "/api/entries", b)
		if rr.Code != http.StatusCreated {
			t.Fatalf("seed status=%d body=%s", rr.Code, rr.Body.String())
		}
	}
}

func TestTotalsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	seedEntries(t, srv)

	rr := doJSON(t, srv, http.MethodGet, "/api/stats/totals", "")
	if rr.Code != 200 {
		t.Fatalf("totals status=%d", rr.Code)
	}
	var totals totalsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &totals); err != nil {
		t.Fatalf("decode totals: %v", err)
	}
	if !totals.Last7Days.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("last7Days = %s", totals.Last7Days)
	}
	if !totals.Last30Days.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("last30Days = %s", totals.Last30Days)
	}
	if !totals.Last90Days.Equal(decimal.NewFromInt(22)) {
		t.Fatalf("last90Days = %s", totals.Last90Days)
	}
}

func TestSeriesEndpoint(t *testing.T) {
	srv := newTestServer(t)
	seedEntries(t, srv)

	// Missing period
	rr := doJSON(t, srv, http.MethodGet, "/api/stats/series", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing period status=%d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/stats/series?period=7d", "")
	if rr.Code != 200 {
		t.Fatalf("series status=%d", rr.Code)
	}
	var points []seriesPointResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &points); err != nil {
		t.Fatalf("decode series: %v", err)
	}
	if len(points) != 7 {
		t.Fatalf("series length = %d", len(points))
	}
	if !points[len(points)-1].Value.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("series final value = %s", points[len(points)-1].Value)
	}

	// A write must invalidate the cached series.
	rr = doJSON(t, srv, http.MethodPost, "/api/entries", entryBody("2024-03-31T12:00:00.000Z", 3, "Food"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("write status=%d", rr.Code)
	}
	rr = doJSON(t, srv, http.MethodGet, "/api/stats/series?period=7d", "")
	_ = json.Unmarshal(rr.Body.Bytes(), &points)
	if !points[len(points)-1].Value.Equal(decimal.NewFromInt(18)) {
		t.Fatalf("series final value after write = %s", points[len(points)-1].Value)
	}
}

func TestSeriesLocaleOverride(t *testing.T) {
	srv := newTestServer(t)
	seedEntries(t, srv)

	rr := doJSON(t, srv, http.MethodGet, "/api/stats/series?period=7d&lang=es", "")
	var points []seriesPointResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &points); err != nil {
		t.Fatalf("decode series: %v", err)
	}
	// 2024-03-25 is a Monday.
	if points[0].Label != "lun" {
		t.Fatalf("spanish label = %q", points[0].Label)
	}
}

func TestHeatmapEndpoint(t *testing.T) {
	srv := newTestServer(t)
	seedEntries(t, srv)

	rr := doJSON(t, srv, http.MethodGet, "/api/stats/heatmap", "")
	if rr.Code != 200 {
		t.Fatalf("heatmap status=%d", rr.Code)
	}
	var hm heatmapResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &hm); err != nil {
		t.Fatalf("decode heatmap: %v", err)
	}
	if len(hm.Cells) != 91 {
		t.Fatalf("heatmap cell count = %d", len(hm.Cells))
	}
	last := hm.Cells[len(hm.Cells)-1]
	if !last.Total.Equal(decimal.NewFromInt(10)) || last.Opacity < 0.99 {
		t.Fatalf("today cell total=%s opacity=%v", last.Total, last.Opacity)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/stats/heatmap?days=0", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("days=0 status=%d", rr.Code)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	srv := newTestServer(t)
	seedEntries(t, srv)

	rr := doJSON(t, srv, http.MethodGet, "/api/stats/summary", "")
	if rr.Code != 200 {
		t.Fatalf("summary status=%d", rr.Code)
	}
	var sum summaryResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if !sum.TotalSpent.Equal(decimal.NewFromInt(22)) {
		t.Fatalf("totalSpent = %s", sum.TotalSpent)
	}
	// Oldest entry is January, today is March.
	if sum.MonthsTracked != 3 {
		t.Fatalf("monthsTracked = %d", sum.MonthsTracked)
	}
}

func TestImportExportRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	seedEntries(t, srv)

	rr := doJSON(t, srv, http.MethodGet, "/api/export", "")
	if rr.Code != 200 {
		t.Fatalf("export status=%d", rr.Code)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("export disposition = %q", cd)
	}
	exported := rr.Body.String()

	// Wipe, then restore from the export
	if rr := doJSON(t, srv, http.MethodDelete, "/api/entries", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("wipe status=%d", rr.Code)
	}
	rr = doJSON(t, srv, http.MethodPost, "/api/import", exported)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("import status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/entries", "")
	var listed []core.Entry
	_ = json.Unmarshal(rr.Body.Bytes(), &listed)
	if len(listed) != 3 {
		t.Fatalf("restored %d entries", len(listed))
	}
}

func TestImportRejectsBadPayloads(t *testing.T) {
	srv := newTestServer(t)

	// Shape errors
	for _, payload := range []string{"not json", "[]", `{"entries":{}}`, `{"entries":[],"favorites":"x"}`} {
		rr := doJSON(t, srv, http.MethodPost, "/api/import", payload)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("payload %q status=%d", payload, rr.Code)
		}
	}

	// Record errors
	rr := doJSON(t, srv, http.MethodPost, "/api/import", `{"entries":[{"id":"1","date":"2024-01-01","amountSpent":"10","grams":0,"source":"app","type":"beer","category":"Alcohol"}],"favorites":[]}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("string amount status=%d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSettings(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/api/settings", "")
	if rr.Code != 200 {
		t.Fatalf("settings status=%d", rr.Code)
	}
	var got settingsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if got.Language != "en" || got.ThemeColor != prefs.DefaultThemeColor {
		t.Fatalf("unexpected defaults: %+v", got)
	}
	if len(got.AvailableColors) == 0 {
		t.Fatalf("palette missing")
	}

	rr = doJSON(t, srv, http.MethodPut, "/api/settings", `{"language":"es"}`)
	if rr.Code != 200 {
		t.Fatalf("set language status=%d body=%s", rr.Code, rr.Body.String())
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &got)
	if got.Language != "es" {
		t.Fatalf("language = %q", got.Language)
	}

	rr = doJSON(t, srv, http.MethodPut, "/api/settings", `{"themeColor":"#123456"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad color status=%d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodPut, "/api/settings", `{"language":"fr"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad language status=%d", rr.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/api/entries", "")
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing nosniff header")
	}
	if rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatalf("missing frame options header")
	}
}
