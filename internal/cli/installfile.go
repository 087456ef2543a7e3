package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewInstallFileCmd creates the install-file command.
func NewInstallFileCmd() *cobra.Command {
	var trusted bool

	cmd := &cobra.Command{
		Use:   "install-file PATH|URL",
		Short: "Install a package file or .install instructions",
		Long: `Install a package file from a local path or an http(s) URL.

Files ending in .install are instruction files naming catalogues and
packages; they are handed to the configured interpreter.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstallFile(cmd.Context(), args[0], trusted)
		},
	}

	cmd.Flags().BoolVar(&trusted, "trusted", false, "Do not warn about an uncertified source")

	return cmd
}

func runInstallFile(ctx context.Context, ref string, trusted bool) error {
	return withApp(ctx, func(ctx context.Context, a *app) error {
		ok := false
		err := a.run(ctx, func(done func()) {
			a.orch.InstallFile(ctx, ref, trusted, func(res bool) {
				ok = res
				done()
			})
		})
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s was not installed", ref)
		}
		return nil
	})
}
