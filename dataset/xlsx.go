package dataset

import (
	"fmt"
	"strings"

	"energy-insights/models"

	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads records from the first sheet of a workbook. The header row
// names the columns after the JSON fields (end_year, intensity, ...); unknown
// columns are ignored.
func LoadXLSX(path string) ([]models.InsightRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no header row")
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = normalizeHeader(h)
	}

	records := make([]models.InsightRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		var r models.InsightRecord
		for i, cell := range row {
			if i < len(header) {
				setField(&r, header[i], cell)
			}
		}
		records = append(records, r)
	}
	return records, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func setField(r *models.InsightRecord, name, cell string) {
	switch name {
	case "end_year":
		r.EndYear = models.CellValue(cell)
	case "intensity":
		r.Intensity = models.CellValue(cell)
	case "sector":
		r.Sector = models.Label(cell)
	case "topic":
		r.Topic = models.Label(cell)
	case "insight":
		r.Insight = models.Label(cell)
	case "url":
		r.URL = models.Label(cell)
	case "region":
		r.Region = models.Label(cell)
	case "start_year":
		r.StartYear = models.CellValue(cell)
	case "impact":
		r.Impact = models.CellValue(cell)
	case "added":
		r.Added = models.Label(cell)
	case "published":
		r.Published = models.Label(cell)
	case "country":
		r.Country = models.Label(cell)
	case "relevance":
		r.Relevance = models.CellValue(cell)
	case "pestle":
		r.Pestle = models.Label(cell)
	case "source":
		r.Source = models.Label(cell)
	case "title":
		r.Title = models.Label(cell)
	case "likelihood":
		r.Likelihood = models.CellValue(cell)
	}
}
