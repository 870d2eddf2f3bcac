package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Load the reference tables and list what was found",
	RunE:  runTables,
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}

func runTables(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	svc, err := initializeService(ctx)
	if err != nil {
		return fmt.Errorf("failed to load reference tables: %w", err)
	}

	info := svc.Reference(ctx)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "TABLE\tROWS\tAGES\n")
	for _, t := range info.Tables {
		fmt.Fprintf(w, "%s\t%d\t%g-%g\n", t.Name, t.Rows, t.MinAge, t.MaxAge)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "fingerprint %s\n", info.Fingerprint)
	return nil
}
