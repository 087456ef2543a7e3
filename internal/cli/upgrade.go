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

// NewUpgradeCmd creates the upgrade command.
func NewUpgradeCmd() *cobra.Command {
	var system bool

	cmd := &cobra.Command{
		Use:   "upgrade [PACKAGE...]",
		Short: "Upgrade installed packages",
		Long: `Upgrade installed packages that have a newer version available.

Without arguments every upgradable package is offered. Use --system to
install a pending operating system update instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpgrade(cmd.Context(), args, system)
		},
	}

	cmd.Flags().BoolVar(&system, "system", false, "Install the pending operating system update")

	return cmd
}

func runUpgrade(ctx context.Context, names []string, system bool) error {
	return withApp(ctx, func(ctx context.Context, a *app) error {
		pkgs, err := a.packageList(ctx)
		if err != nil {
			return fmt.Errorf("failed to list packages: %w", err)
		}

		candidates, err := upgradeCandidates(pkgs, names, system)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			logger.Info("All packages are up to date")
			return nil
		}

		opts := orchestrator.InstallOptions{Type: model.InstallUpgradeAll}
		if system {
			opts.Type = model.InstallUpdateSystem
		}
		return a.installBatch(ctx, candidates, opts)
	})
}

// upgradeCandidates picks the installed packages with an update, limited
// to names when given. With system set only system updates qualify.
func upgradeCandidates(pkgs []*model.PackageRecord, names []string, system bool) ([]*model.PackageRecord, error) {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var out []*model.PackageRecord
	for _, p := range pkgs {
		if !p.IsInstalled() || !p.HasUpdate() {
			continue
		}
		if system != p.IsSystemUpdate() {
			continue
		}
		if len(wanted) > 0 {
			if !wanted[p.Name] {
				continue
			}
			delete(wanted, p.Name)
		}
		out = append(out, p)
	}

	for n := range wanted {
		return nil, errors.Wrapf(errors.ErrPackageNotFound, "%s has no pending upgrade", n)
	}
	return out, nil
}
