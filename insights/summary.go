package insights

import (
	"sort"
	"strconv"

	"energy-insights/models"
)

// DefaultGalleryLimit is the number of insight cards shown by default.
const DefaultGalleryLimit = 12

// Summary holds the headline metrics of the unfiltered dataset.
type Summary struct {
	Total        int     `json:"total"`
	AvgIntensity float64 `json:"avgIntensity"`
	Sectors      int     `json:"sectors"`
	Regions      int     `json:"regions"`
	// Empty is set when there are no records and AvgIntensity carries no
	// information.
	Empty bool `json:"empty"`
}

// Summarize computes the headline metrics. Intensities are coerced like in
// the bucket sums and an empty dataset averages to 0.
func Summarize(records []models.InsightRecord) Summary {
	var sum float64
	sectors := make(map[string]struct{})
	regions := make(map[string]struct{})
	for _, r := range records {
		sum += r.Intensity.Float()
		if r.Sector != "" {
			sectors[string(r.Sector)] = struct{}{}
		}
		if r.Region != "" {
			regions[string(r.Region)] = struct{}{}
		}
	}
	return Summary{
		Total:        len(records),
		AvgIntensity: mean(sum, len(records)),
		Sectors:      len(sectors),
		Regions:      len(regions),
		Empty:        len(records) == 0,
	}
}

// Options extracts the selector values present in the dataset. Regions and
// sectors keep first-seen order, end years are sorted ascending.
func Options(records []models.InsightRecord) models.FilterOptions {
	opts := models.FilterOptions{
		Regions:  []string{},
		Sectors:  []string{},
		EndYears: []string{},
	}
	seenRegion := make(map[string]bool)
	seenSector := make(map[string]bool)
	seenYear := make(map[string]bool)
	for _, r := range records {
		if v := string(r.Region); v != "" && !seenRegion[v] {
			seenRegion[v] = true
			opts.Regions = append(opts.Regions, v)
		}
		if v := string(r.Sector); v != "" && !seenSector[v] {
			seenSector[v] = true
			opts.Sectors = append(opts.Sectors, v)
		}
		if r.EndYear.Truthy() {
			if v := r.EndYear.String(); !seenYear[v] {
				seenYear[v] = true
				opts.EndYears = append(opts.EndYears, v)
			}
		}
	}
	sort.SliceStable(opts.EndYears, func(i, j int) bool {
		return naturalLess(opts.EndYears[i], opts.EndYears[j])
	})
	return opts
}

// naturalLess orders numbers numerically, numbers before text and text
// lexically.
func naturalLess(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		return fa < fb
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}

// Gallery picks the first records complete enough to render as a card.
func Gallery(records []models.InsightRecord, limit int) []models.InsightRecord {
	if limit <= 0 {
		limit = DefaultGalleryLimit
	}
	out := make([]models.InsightRecord, 0, limit)
	for _, r := range records {
		if len(out) == limit {
			break
		}
		if r.Title == "" || r.Source == "" || r.Sector == "" || r.Region == "" {
			continue
		}
		if !r.Intensity.Truthy() || !r.Relevance.Truthy() || !r.Likelihood.Truthy() {
			continue
		}
		out = append(out, r)
	}
	return out
}
