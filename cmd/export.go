package cmd

import (
	"fmt"
	"io"

	"energy-insights/export"
	"energy-insights/insights"

	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the aggregate views to an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, sel, err := loadFiltered(cmd.Context())
		if err != nil {
			return err
		}
		res := insights.Aggregate(records, sel)
		sum := insights.Summarize(records)
		if err := writeFile(exportOut, func(w io.Writer) error {
			return export.WriteWorkbook(w, res, sum)
		}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d filtered records)\n", exportOut, res.Total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addFilterFlags(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "energy-insights.xlsx", "output workbook path")
}
