package cmd

import (
	"fmt"

	"energy-insights/database"
	"energy-insights/dataset"

	"github.com/spf13/cobra"
)

var importDB string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the dataset into the SQLite file at db_path",
	Long: `Import loads the configured dataset (JSON, URL or XLSX) and replaces the
contents of the insights table in the SQLite file at db_path. Point dataset_path
at "sqlite:<db_path>" afterwards to serve from the database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("db") && importDB != "" {
			cfg.DBPath = importDB
		}
		records, err := dataset.Load(cmd.Context(), cfg.DatasetPath, loadOptions())
		if err != nil {
			return err
		}
		db, err := database.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer database.Close(db)

		if err := database.ImportInsights(db, records); err != nil {
			return err
		}
		log.WithField("db_path", cfg.DBPath).WithField("records", len(records)).Info("dataset imported")
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d records into %s\n", len(records), cfg.DBPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importDB, "db", "", "SQLite file (overrides db_path)")
}
