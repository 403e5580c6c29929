package insights

import (
	"encoding/json"
	"strings"

	"energy-insights/models"
)

const unknownKey = "Unknown"

// Bucket accumulates the count and intensity sum of every record sharing one
// value of a grouping dimension.
type Bucket struct {
	Dimension      string
	Key            string
	Count          int
	TotalIntensity float64
	AvgIntensity   float64
}

func (b *Bucket) add(v float64) {
	b.Count++
	b.TotalIntensity += v
	b.AvgIntensity = mean(b.TotalIntensity, b.Count)
}

// MarshalJSON names the key after the dimension, e.g. {"sector":"Energy",...},
// which is the row shape chart components bind to.
func (b Bucket) MarshalJSON() ([]byte, error) {
	dim := b.Dimension
	if dim == "" {
		dim = "key"
	}
	return json.Marshal(map[string]any{
		dim:              b.Key,
		"count":          b.Count,
		"totalIntensity": b.TotalIntensity,
		"avgIntensity":   b.AvgIntensity,
	})
}

// TopicCount is a topic slice; Value mirrors Count for pie charts.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
	Value int    `json:"value"`
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// groupBy builds buckets in first-seen key order.
func groupBy(records []models.InsightRecord, dim string, key func(models.InsightRecord) string) []Bucket {
	index := make(map[string]int)
	buckets := make([]Bucket, 0)
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, Bucket{Dimension: dim, Key: k})
		}
		buckets[i].add(r.Intensity.Float())
	}
	return buckets
}

func groupTopics(records []models.InsightRecord) []TopicCount {
	index := make(map[string]int)
	topics := make([]TopicCount, 0)
	for _, r := range records {
		k := orUnknown(string(r.Topic))
		i, ok := index[k]
		if !ok {
			i = len(topics)
			index[k] = i
			topics = append(topics, TopicCount{Topic: k})
		}
		topics[i].Count++
		topics[i].Value++
	}
	return topics
}

func orUnknown(s string) string {
	if s == "" {
		return unknownKey
	}
	return s
}

func sectorKey(r models.InsightRecord) string { return orUnknown(string(r.Sector)) }
func regionKey(r models.InsightRecord) string { return orUnknown(string(r.Region)) }
func sourceKey(r models.InsightRecord) string {
	return orUnknown(strings.TrimSpace(string(r.Source)))
}
