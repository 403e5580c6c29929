// Package insights turns the raw insight dataset into the aggregate views the
// dashboard renders. Everything here is a pure function of its inputs.
package insights

import (
	"sort"

	"energy-insights/models"
)

const (
	TopTopics  = 8
	TopSources = 10
)

// ScatterPoint is one record projected for the relevance/likelihood chart.
type ScatterPoint struct {
	Relevance  float64 `json:"relevance"`
	Likelihood float64 `json:"likelihood"`
	Intensity  float64 `json:"intensity"`
	Sector     string  `json:"sector"`
	Country    string  `json:"country"`
}

type Result struct {
	Filters models.FilterSelection `json:"filters"`
	Sectors []Bucket               `json:"sectors"`
	Topics  []TopicCount           `json:"topics"`
	Regions []Bucket               `json:"regions"`
	Scatter []ScatterPoint         `json:"scatter"`
	Sources []Bucket               `json:"sources"`
	Total   int                    `json:"total"`
}

// SectorCount is the number of sector buckets left after filtering.
func (r Result) SectorCount() int { return len(r.Sectors) }

// RegionCount is the number of region buckets left after filtering.
func (r Result) RegionCount() int { return len(r.Regions) }

// Matches reports whether a record passes every active selector.
func Matches(r models.InsightRecord, sel models.FilterSelection) bool {
	if !models.IsAll(sel.Region) && string(r.Region) != sel.Region {
		return false
	}
	if !models.IsAll(sel.Sector) && string(r.Sector) != sel.Sector {
		return false
	}
	if !models.IsAll(sel.EndYear) && r.EndYear.String() != sel.EndYear {
		return false
	}
	return true
}

// Filter keeps the records that match sel, preserving order.
func Filter(records []models.InsightRecord, sel models.FilterSelection) []models.InsightRecord {
	if sel.IsEmpty() {
		return records
	}
	out := make([]models.InsightRecord, 0, len(records))
	for _, r := range records {
		if Matches(r, sel) {
			out = append(out, r)
		}
	}
	return out
}

// Aggregate filters records and builds every dashboard view in one call.
func Aggregate(records []models.InsightRecord, sel models.FilterSelection) Result {
	filtered := Filter(records, sel)

	sources := groupBy(filtered, "source", sourceKey)
	sort.SliceStable(sources, func(i, j int) bool { return sources[i].Count > sources[j].Count })
	if len(sources) > TopSources {
		sources = sources[:TopSources]
	}

	// Topics keep first-seen order; the cut is not a most-common ranking.
	topics := groupTopics(filtered)
	if len(topics) > TopTopics {
		topics = topics[:TopTopics]
	}

	scatter := make([]ScatterPoint, 0, len(filtered))
	for _, r := range filtered {
		scatter = append(scatter, ScatterPoint{
			Relevance:  r.Relevance.Float(),
			Likelihood: r.Likelihood.Float(),
			Intensity:  r.Intensity.Float(),
			Sector:     string(r.Sector),
			Country:    string(r.Country),
		})
	}

	return Result{
		Filters: sel.Normalized(),
		Sectors: groupBy(filtered, "sector", sectorKey),
		Topics:  topics,
		Regions: groupBy(filtered, "region", regionKey),
		Scatter: scatter,
		Sources: sources,
		Total:   len(filtered),
	}
}
