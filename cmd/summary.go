package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"energy-insights/dataset"
	"energy-insights/insights"
	"energy-insights/models"

	"github.com/spf13/cobra"
)

var (
	filterRegion  string
	filterSector  string
	filterEndYear string
	summaryJSON   bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the headline metrics and aggregate views of the dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, sel, err := loadFiltered(cmd.Context())
		if err != nil {
			return err
		}
		sum := insights.Summarize(records)
		res := insights.Aggregate(records, sel)
		if summaryJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"summary": sum, "aggregate": res})
		}
		return printSummary(cmd.OutOrStdout(), sum, res)
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	addFilterFlags(summaryCmd)
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "print JSON instead of tables")
}

func addFilterFlags(c *cobra.Command) {
	c.Flags().StringVar(&filterRegion, "region", models.All, "region filter")
	c.Flags().StringVar(&filterSector, "sector", models.All, "sector filter")
	c.Flags().StringVar(&filterEndYear, "end-year", models.All, "end year filter")
}

// loadFiltered loads the configured dataset and validates the filter flags
// against the values it contains.
func loadFiltered(ctx context.Context) ([]models.InsightRecord, models.FilterSelection, error) {
	records, err := dataset.Load(ctx, cfg.DatasetPath, loadOptions())
	if err != nil {
		return nil, models.FilterSelection{}, err
	}
	opts := insights.Options(records)
	sel := models.AllFilters()
	if err := sel.SetRegion(filterRegion, opts); err != nil {
		return nil, sel, err
	}
	if err := sel.SetSector(filterSector, opts); err != nil {
		return nil, sel, err
	}
	if err := sel.SetEndYear(filterEndYear, opts); err != nil {
		return nil, sel, err
	}
	return records, sel, nil
}

func printSummary(out io.Writer, sum insights.Summary, res insights.Result) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Dataset records\t%d\n", sum.Total)
	fmt.Fprintf(w, "Avg intensity\t%.1f\n", sum.AvgIntensity)
	fmt.Fprintf(w, "Sectors / Regions\t%d / %d\n", sum.Sectors, sum.Regions)
	fmt.Fprintf(w, "Filters\tregion=%s sector=%s end_year=%s\n", res.Filters.Region, res.Filters.Sector, res.Filters.EndYear)
	fmt.Fprintf(w, "Filtered records\t%d\n", res.Total)

	for _, s := range []struct {
		title   string
		buckets []insights.Bucket
	}{
		{"SECTOR", res.Sectors},
		{"REGION", res.Regions},
		{"SOURCE", res.Sources},
	} {
		fmt.Fprintf(w, "\n%s\tCOUNT\tAVG INTENSITY\n", s.title)
		for _, b := range s.buckets {
			fmt.Fprintf(w, "%s\t%d\t%.1f\n", b.Key, b.Count, b.AvgIntensity)
		}
	}
	fmt.Fprintf(w, "\nTOPIC\tCOUNT\n")
	for _, t := range res.Topics {
		fmt.Fprintf(w, "%s\t%d\n", t.Topic, t.Count)
	}
	return w.Flush()
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
