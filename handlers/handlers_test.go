package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"energy-insights/dataset"
	"energy-insights/export"
	"energy-insights/logger"
	"energy-insights/models"
	"energy-insights/templates"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

func testRecords() []models.InsightRecord {
	return []models.InsightRecord{
		{Sector: "Energy", Region: "USA", Topic: "oil", Source: "EIA", Title: "Oil demand", EndYear: models.Num(2030),
			Intensity: models.Num(10), Relevance: models.Num(2), Likelihood: models.Num(3), Country: "United States of America"},
		{Sector: "Energy", Region: "USA", Topic: "gas", Source: "EIA", EndYear: models.Num(2040), Intensity: models.Num(20)},
		{Sector: "Tech", Region: "EU", Topic: "oil", Source: "Reuters", EndYear: models.Num(2030), Intensity: models.Num(5)},
	}
}

func newRouter(t *testing.T, store *dataset.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tmpl, err := templates.Parse()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	New(store, logger.New(logger.Options{Output: io.Discard}), 0).Register(r)
	return r
}

func loadedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	store := dataset.NewStore(0)
	store.Replace(testRecords())
	return newRouter(t, store)
}

func get(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestAggregateEndpoint(t *testing.T) {
	r := loadedRouter(t)

	w := get(r, "/api/aggregate?region=EU")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var body struct {
		Total   int              `json:"total"`
		Sectors []map[string]any `json:"sectors"`
		Regions []map[string]any `json:"regions"`
		Filters map[string]string
	}
	decode(t, w, &body)
	if body.Total != 1 || len(body.Sectors) != 1 || body.Sectors[0]["sector"] != "Tech" || body.Sectors[0]["avgIntensity"] != float64(5) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if body.Regions[0]["region"] != "EU" {
		t.Fatalf("unexpected regions: %v", body.Regions)
	}
	if body.Filters["sector"] != "all" || body.Filters["end_year"] != "all" {
		t.Fatalf("unexpected filters: %v", body.Filters)
	}
}

func TestAggregateEndpointEndYear(t *testing.T) {
	r := loadedRouter(t)

	var all, y2040 struct{ Total int }
	decode(t, get(r, "/api/aggregate"), &all)
	decode(t, get(r, "/api/aggregate?end_year=2040"), &y2040)
	if all.Total != 3 || y2040.Total != 1 {
		t.Fatalf("totals all=%d 2040=%d", all.Total, y2040.Total)
	}
}

func TestUnknownFilterValueIsRejected(t *testing.T) {
	r := loadedRouter(t)

	for _, target := range []string{"/api/aggregate?region=Mars", "/api/insights?end_year=1999", "/api/export.xlsx?sector=Nope"} {
		w := get(r, target)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", target, w.Code)
		}
	}
	if w := get(r, "/dashboard?sector=Nope"); w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "unknown filter value") {
		t.Fatalf("dashboard: status = %d body %s", w.Code, w.Body.String())
	}
}

func TestEndpointsWhileLoading(t *testing.T) {
	r := newRouter(t, dataset.NewStore(0))

	for _, target := range []string{"/api/aggregate", "/api/insights", "/api/filters", "/api/stats", "/api/gallery", "/api/export.xlsx"} {
		w := get(r, target)
		if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), "loading") {
			t.Fatalf("%s: status = %d body %s", target, w.Code, w.Body.String())
		}
	}
	w := get(r, "/dashboard")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Loading data...") {
		t.Fatalf("dashboard while loading: %d %s", w.Code, w.Body.String())
	}
	w = get(r, "/healthz")
	if !strings.Contains(w.Body.String(), `"dataset":"loading"`) {
		t.Fatalf("healthz: %s", w.Body.String())
	}
}

func TestInsightsEndpointLimit(t *testing.T) {
	r := loadedRouter(t)

	var body struct {
		Total   int                    `json:"total"`
		Records []models.InsightRecord `json:"records"`
	}
	decode(t, get(r, "/api/insights?sector=Energy&limit=1"), &body)
	if body.Total != 2 || len(body.Records) != 1 || body.Records[0].Title != "Oil demand" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestFiltersStatsAndGallery(t *testing.T) {
	r := loadedRouter(t)

	var opts models.FilterOptions
	decode(t, get(r, "/api/filters"), &opts)
	if len(opts.Regions) != 2 || len(opts.EndYears) != 2 || opts.EndYears[0] != "2030" {
		t.Fatalf("unexpected options: %+v", opts)
	}

	var stats struct {
		Total        int     `json:"total"`
		AvgIntensity float64 `json:"avgIntensity"`
		Sectors      int     `json:"sectors"`
	}
	decode(t, get(r, "/api/stats"), &stats)
	if stats.Total != 3 || stats.Sectors != 2 || stats.AvgIntensity < 11.66 || stats.AvgIntensity > 11.67 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	var cards []models.InsightRecord
	decode(t, get(r, "/api/gallery"), &cards)
	if len(cards) != 1 || cards[0].Title != "Oil demand" {
		t.Fatalf("unexpected gallery: %+v", cards)
	}
}

func TestDashboardRenders(t *testing.T) {
	r := loadedRouter(t)

	w := get(r, "/dashboard?region=USA")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	for _, want := range []string{
		"2 Records", `<option value="USA" selected>`, "Oil demand", "15.0",
		`<section id="scatter">`,
		"<td>2</td><td>3</td><td>10</td><td>Energy</td><td>United States of America</td>",
		`href="/api/aggregate?region=USA`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}

	if w := get(r, "/"); w.Code != http.StatusFound || w.Header().Get("Location") != "/dashboard" {
		t.Fatalf("root redirect: %d %s", w.Code, w.Header().Get("Location"))
	}
}

func TestExportEndpoint(t *testing.T) {
	r := loadedRouter(t)

	w := get(r, "/api/export.xlsx?sector=Energy")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != export.ContentType {
		t.Fatalf("content type = %q", ct)
	}
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(export.SheetSectors)
	if err != nil || len(rows) != 2 || rows[1][0] != "Energy" {
		t.Fatalf("sector rows = %v (%v)", rows, err)
	}
}
