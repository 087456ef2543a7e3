package cli

import (
	"context"

	"github.com/glorpus-work/appmanager/internal/logger"
	"github.com/glorpus-work/appmanager/pkg/errors"
	"github.com/glorpus-work/appmanager/pkg/model"
	"github.com/glorpus-work/appmanager/pkg/orchestrator"
	"github.com/spf13/cobra"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	var (
		selectPkgs   bool
		systemUpdate bool
		memoryCard   bool
	)

	cmd := &cobra.Command{
		Use:   "install PACKAGE...",
		Short: "Install packages",
		Long: `Install one or more packages from the configured catalogues.

A single package is installed directly. Several packages are offered in a
selection list first; --select forces the list for a single package.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ := model.InstallStandard
			switch {
			case systemUpdate:
				typ = model.InstallUpdateSystem
			case memoryCard:
				typ = model.InstallMemoryCard
			case selectPkgs || len(args) > 1:
				typ = model.InstallMulti
			}
			return runInstall(cmd.Context(), args, orchestrator.InstallOptions{Type: typ})
		},
	}

	cmd.Flags().BoolVar(&selectPkgs, "select", false, "Show the selection list even for one package")
	cmd.Flags().BoolVar(&systemUpdate, "system-update", false, "Install an operating system update")
	cmd.Flags().BoolVar(&memoryCard, "memory-card", false, "Treat the packages as offered by an inserted memory card")
	cmd.MarkFlagsMutuallyExclusive("select", "system-update", "memory-card")

	return cmd
}

func runInstall(ctx context.Context, names []string, opts orchestrator.InstallOptions) error {
	if len(names) == 0 {
		return errors.ErrNoPackagesSpecified
	}
	return withApp(ctx, func(ctx context.Context, a *app) error {
		pkgs, err := a.packageInfo(ctx, names)
		if err != nil {
			return err
		}
		return a.installBatch(ctx, pkgs, opts)
	})
}

// installBatch runs one install workflow and reports how many packages
// made it.
func (a *app) installBatch(ctx context.Context, pkgs []*model.PackageRecord, opts orchestrator.InstallOptions) error {
	successes := 0
	err := a.run(ctx, func(done func()) {
		onDone := func(n int) {
			successes = n
			done()
		}
		if opts.Type == model.InstallStandard && len(pkgs) == 1 {
			a.orch.InstallSinglePackage(ctx, pkgs[0], onDone)
			return
		}
		a.orch.InstallBatch(ctx, pkgs, opts, onDone)
	})
	if err != nil {
		return err
	}

	logger.Debug("Install finished", logger.Fields{"type": opts.Type.String(), "installed": successes, "requested": len(pkgs)})
	return nil
}
