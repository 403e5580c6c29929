// Package export renders aggregate views as spreadsheet workbooks.
package export

import (
	"fmt"
	"io"

	"energy-insights/insights"

	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names, in workbook order.
const (
	SheetSummary = "Summary"
	SheetSectors = "Sectors"
	SheetRegions = "Regions"
	SheetTopics  = "Topics"
	SheetSources = "Sources"
	SheetScatter = "Scatter"
)

// WriteWorkbook writes res and sum as an XLSX workbook to w.
func WriteWorkbook(w io.Writer, res insights.Result, sum insights.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	summary := [][]any{
		{"Metric", "Value"},
		{"Filter: region", res.Filters.Region},
		{"Filter: sector", res.Filters.Sector},
		{"Filter: end year", res.Filters.EndYear},
		{"Filtered records", res.Total},
		{"Dataset records", sum.Total},
		{"Avg intensity (dataset)", sum.AvgIntensity},
		{"Sectors (dataset)", sum.Sectors},
		{"Regions (dataset)", sum.Regions},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}

	for _, s := range []struct {
		name    string
		label   string
		buckets []insights.Bucket
	}{
		{SheetSectors, "Sector", res.Sectors},
		{SheetRegions, "Region", res.Regions},
	} {
		if err := writeBuckets(f, s.name, s.label, s.buckets); err != nil {
			return err
		}
	}

	topics := [][]any{{"Topic", "Count"}}
	for _, t := range res.Topics {
		topics = append(topics, []any{t.Topic, t.Count})
	}
	if err := writeRows(f, SheetTopics, topics); err != nil {
		return err
	}

	if err := writeBuckets(f, SheetSources, "Source", res.Sources); err != nil {
		return err
	}

	scatter := [][]any{{"Relevance", "Likelihood", "Intensity", "Sector", "Country"}}
	for _, p := range res.Scatter {
		scatter = append(scatter, []any{p.Relevance, p.Likelihood, p.Intensity, p.Sector, p.Country})
	}
	if err := writeRows(f, SheetScatter, scatter); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeBuckets(f *excelize.File, sheet, label string, buckets []insights.Bucket) error {
	rows := [][]any{{label, "Count", "Total Intensity", "Avg Intensity"}}
	for _, b := range buckets {
		rows = append(rows, []any{b.Key, b.Count, b.TotalIntensity, b.AvgIntensity})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
