package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"energy-insights/database"
	"energy-insights/models"

	"github.com/xuri/excelize/v2"
)

const sampleJSON = `[
  {"end_year": 2030, "intensity": 10, "sector": "Energy", "topic": "oil", "region": "USA", "source": "EIA", "relevance": 2, "likelihood": 3, "country": "United States of America", "title": "A"},
  "not a record",
  {"end_year": "", "intensity": "N/A", "sector": "", "topic": "gas", "region": "EU", "source": " Reuters ", "relevance": "", "likelihood": null},
  42,
  {"end_year": "2040", "intensity": 5, "sector": "Tech", "region": "EU"}
]`

func TestDecodeJSONSkipsMalformedEntries(t *testing.T) {
	records, err := DecodeJSON([]byte(sampleJSON), nil)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("decoded %d records, want 3", len(records))
	}
	if records[0].EndYear.String() != "2030" || records[1].Intensity.String() != "N/A" || records[2].EndYear.String() != "2040" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestDecodeJSONRejectsNonArray(t *testing.T) {
	if _, err := DecodeJSON([]byte(`{"records": []}`), nil); err == nil {
		t.Fatal("expected an error for a non-array document")
	}
}

func TestLoadJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	records, err := Load(context.Background(), path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("loaded %d records, want 3", len(records))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"), LoadOptions{}); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadHTTPRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleJSON))
	}))
	defer srv.Close()

	records, err := Load(context.Background(), srv.URL+"/data.json", LoadOptions{MaxElapsed: 10 * time.Second})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("loaded %d records, want 3", len(records))
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("server called %d times, want 3", got)
	}
}

func TestLoadHTTPClientErrorIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "no such dataset", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Load(context.Background(), srv.URL, LoadOptions{MaxElapsed: 10 * time.Second})
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("err = %v, want a 404 status error", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("server called %d times, want 1", got)
	}
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")
	f := excelize.NewFile()
	rows := [][]any{
		{"End Year", "Intensity", "Sector", "Region", "Source", "Notes"},
		{2030, 10, "Energy", "USA", "EIA", "ignored"},
		{nil, nil, nil, nil, nil, nil},
		{"", "N/A", "", "EU", "Reuters", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	records, err := Load(context.Background(), path, LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("loaded %d records, want 2", len(records))
	}
	if records[0].EndYear.String() != "2030" || records[0].Intensity.Float() != 10 || records[0].Sector != "Energy" {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if !records[1].EndYear.IsNull() || records[1].Intensity.Float() != 0 || records[1].Region != "EU" {
		t.Fatalf("unexpected second record: %+v", records[1])
	}
}

func TestLoadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "insights.db")
	db, err := database.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	seed := []models.InsightRecord{
		{Sector: "Energy", Region: "USA", Intensity: models.Num(4)},
		{Sector: "Tech", Region: "EU", Intensity: models.Num(6)},
	}
	if err := database.ImportInsights(db, seed); err != nil {
		t.Fatalf("ImportInsights: %v", err)
	}
	if err := database.Close(db); err != nil {
		t.Fatalf("Close: %v", err)
	}

	for _, location := range []string{path, sqlitePrefix + path} {
		records, err := Load(context.Background(), location, LoadOptions{})
		if err != nil {
			t.Fatalf("Load(%s): %v", location, err)
		}
		if len(records) != 2 || records[1].Sector != "Tech" {
			t.Fatalf("Load(%s) = %+v", location, records)
		}
	}

	if _, err := Load(context.Background(), sqlitePrefix+filepath.Join(t.TempDir(), "none.db"), LoadOptions{}); err == nil {
		t.Fatal("expected an error for a missing sqlite file")
	}
}
