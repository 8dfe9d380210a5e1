package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/AngelCh415/adreport/internal/config"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	root := &cobra.Command{
		Use:           "adreport",
		Short:         "Analyze ad report exports (CSV/XLSX): views, keyword segments, actions and margin.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts := bindFlags(root, cfg)

	root.AddCommand(
		newSummaryCommand(opts),
		newViewCommand(opts),
		newSegmentsCommand(opts),
		newActionsCommand(opts),
		newMarginCommand(opts),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
