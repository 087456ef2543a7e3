package cli

import (
	"context"
	"fmt"

	"github.com/glorpus-work/appmanager/internal/logger"
	"github.com/glorpus-work/appmanager/pkg/errors"
	"github.com/glorpus-work/appmanager/pkg/model"
	"github.com/glorpus-work/appmanager/pkg/orchestrator"
	"github.com/spf13/cobra"
)

// NewRestoreCmd creates the restore command.
func NewRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Reinstall packages from the last backup",
		Long: `Offer every package recorded in the latest backup snapshot that is
not installed any more, and install the ones selected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRestore(cmd.Context())
		},
	}

	return cmd
}

func runRestore(ctx context.Context) error {
	return withApp(ctx, func(ctx context.Context, a *app) error {
		snap, err := a.backups.Latest(ctx)
		if err != nil {
			return err
		}
		if snap == nil || len(snap.Entries) == 0 {
			return errors.ErrNoSnapshot
		}
		logger.Info("Restoring from backup", logger.Fields{"snapshot": snap.ID, "taken_at": snap.TakenAt, "packages": len(snap.Entries)})

		var pkgs []*model.PackageRecord
		for _, name := range snap.Names() {
			found, err := a.packageInfo(ctx, []string{name})
			if errors.Is(err, errors.ErrPackageNotFound) {
				logger.Warn("Package from backup is no longer available", logger.Fields{"package": name})
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to restore: %w", err)
			}
			pkgs = append(pkgs, found...)
		}

		return a.installBatch(ctx, pkgs, orchestrator.InstallOptions{Type: model.InstallBackup})
	})
}
