package insights

import (
	"reflect"
	"testing"

	"energy-insights/models"
)

func TestSummarize(t *testing.T) {
	records := scenarioRecords()
	records = append(records, rec("", "EU", models.Text("oops")))

	got := Summarize(records)
	want := Summary{Total: 4, AvgIntensity: 35.0 / 4, Sectors: 2, Regions: 2}
	if got != want {
		t.Fatalf("Summarize = %+v, want %+v", got, want)
	}
}

func TestSummarizeEmptyDatasetIsGuarded(t *testing.T) {
	got := Summarize(nil)
	if !got.Empty || got.Total != 0 || got.AvgIntensity != 0 {
		t.Fatalf("Summarize(nil) = %+v", got)
	}
}

func TestOptions(t *testing.T) {
	records := []models.InsightRecord{
		{Region: "USA", Sector: "Energy", EndYear: models.Num(2040)},
		{Region: "", Sector: "Tech", EndYear: models.Text("2025")},
		{Region: "EU", Sector: "Energy", EndYear: models.Null},
		{Region: "USA", Sector: "", EndYear: models.Num(2030)},
		{Region: "Asia", Sector: "Tech", EndYear: models.Num(2040)},
		{Region: "EU", Sector: "Retail", EndYear: models.Text("")},
		{Region: "EU", Sector: "Retail", EndYear: models.Num(0)},
		{Region: "EU", Sector: "Retail", EndYear: models.Num(200)},
	}
	got := Options(records)
	want := models.FilterOptions{
		Regions:  []string{"USA", "EU", "Asia"},
		Sectors:  []string{"Energy", "Tech", "Retail"},
		EndYears: []string{"200", "2025", "2030", "2040"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Options = %+v, want %+v", got, want)
	}
}

func TestNaturalLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"200", "2025", true},
		{"2025", "200", false},
		{"2030", "n/a", true},
		{"n/a", "2030", false},
		{"abc", "abd", true},
	}
	for _, tt := range tests {
		if got := naturalLess(tt.a, tt.b); got != tt.want {
			t.Errorf("naturalLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestGallerySkipsIncompleteRecords(t *testing.T) {
	card := func(title string) models.InsightRecord {
		return models.InsightRecord{
			Title: models.Label(title), Source: "EIA", Sector: "Energy", Region: "World",
			Intensity: models.Num(6), Relevance: models.Num(2), Likelihood: models.Num(3),
		}
	}
	noSource := card("no source")
	noSource.Source = ""
	zeroRelevance := card("zero relevance")
	zeroRelevance.Relevance = models.Num(0)

	records := []models.InsightRecord{card("a"), noSource, zeroRelevance, card("b"), card("c")}

	got := Gallery(records, 2)
	if len(got) != 2 || got[0].Title != "a" || got[1].Title != "b" {
		t.Fatalf("Gallery = %+v", got)
	}
	if all := Gallery(records, 0); len(all) != 3 {
		t.Fatalf("Gallery with default limit returned %d cards, want 3", len(all))
	}
}
