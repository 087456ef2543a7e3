package cli

import (
	"context"
	"fmt"

	"github.com/glorpus-work/appmanager/internal/logger"
	"github.com/glorpus-work/appmanager/pkg/cache"
	"github.com/spf13/cobra"
)

// NewCleanCmd creates the clean command.
func NewCleanCmd() *cobra.Command {
	var (
		autoremove bool
		downloads  bool
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean the package archive",
		Long: `Ask the backend to drop its downloaded package archives.

Use --autoremove to also remove packages that were installed as
dependencies and are no longer needed, and --downloads to empty the
install-file download cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClean(cmd.Context(), autoremove, downloads)
		},
	}

	cmd.Flags().BoolVar(&autoremove, "autoremove", false, "Remove packages that are no longer needed")
	cmd.Flags().BoolVar(&downloads, "downloads", false, "Also empty the download cache")

	return cmd
}

func runClean(ctx context.Context, autoremove, downloads bool) error {
	return withApp(ctx, func(ctx context.Context, a *app) error {
		if err := awaitErr(ctx, func(reply func(error)) { a.worker.Clean(ctx, reply) }); err != nil {
			return fmt.Errorf("failed to clean package archive: %w", err)
		}
		logger.Success("Package archive cleaned")

		if autoremove {
			if err := awaitErr(ctx, func(reply func(error)) { a.worker.Autoremove(ctx, reply) }); err != nil {
				return fmt.Errorf("failed to remove unneeded packages: %w", err)
			}
			logger.Success("Unneeded packages removed")
		}

		if downloads {
			return cleanCache(cache.NewManager(a.cfg.DownloadDir()), cache.CleanOptions{})
		}
		return nil
	})
}
