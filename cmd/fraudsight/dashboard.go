package main

import (
	"fmt"
	"log/slog"

	"github.com/fraudsight/fraudsight/internal/common"
	"github.com/fraudsight/fraudsight/internal/report"
	"github.com/fraudsight/fraudsight/internal/tui"
	"github.com/spf13/cobra"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Browse the analytics views interactively",
		Long: `Open an interactive terminal dashboard over the same views the report
command renders. Use the arrow keys to switch views and models.`,
		RunE: runDashboard,
	}
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open artifact store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close artifact store", "error", closeErr)
		}
	}()

	path, err := dataPath()
	if err != nil {
		return err
	}
	rc, err := report.Load(ctx, path, store)
	if err != nil {
		return common.NewUserError("failed to load report context; run train first", err)
	}

	return tui.Run(rc)
}
