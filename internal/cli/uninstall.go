package cli

import (
	"context"
	"fmt"

	"github.com/glorpus-work/appmanager/pkg/errors"
	"github.com/glorpus-work/appmanager/pkg/model"
	"github.com/spf13/cobra"
)

// NewUninstallCmd creates the uninstall command.
func NewUninstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall PACKAGE",
		Short: "Uninstall a package",
		Long: `Uninstall an installed package after confirmation.

The package's checkrm script is consulted first and can veto the removal,
for example while the application is running.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUninstall(cmd.Context(), args[0])
		},
	}

	return cmd
}

func runUninstall(ctx context.Context, name string) error {
	return withApp(ctx, func(ctx context.Context, a *app) error {
		pkgs, err := a.packageInfo(ctx, []string{name})
		if err != nil {
			return err
		}
		pkg := pkgs[0]
		if !pkg.IsInstalled() {
			return errors.Wrapf(errors.ErrPackageNotFound, "%s is not installed", name)
		}

		return a.uninstall(ctx, pkg)
	})
}

func (a *app) uninstall(ctx context.Context, pkg *model.PackageRecord) error {
	err := a.run(ctx, func(done func()) {
		a.orch.UninstallPackage(ctx, pkg, done)
	})
	if err != nil {
		return fmt.Errorf("failed to uninstall %s: %w", pkg.Name, err)
	}
	return nil
}
