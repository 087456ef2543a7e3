package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/glorpus-work/appmanager/internal/cli"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	verbose      bool
	noColor      bool
	outputFormat string
	assumeYes    bool
)

func main() {
	// interrupts are handled per command so a running operation can be
	// cancelled cooperatively
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appmanager",
		Short: "Install, upgrade and remove device applications",
		Long: `appmanager drives the package backend of the device:
- install, upgrade and uninstall packages with confirmation
- install package files and .install instruction files
- restore packages recorded in the last backup`,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: auto-detect)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	cmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format (text, json)")
	cmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "run unattended: accept confirmations, decline retries")

	// Set up CLI variables
	cli.ConfigPath = &configPath
	cli.Verbose = &verbose
	cli.NoColor = &noColor
	cli.OutputFormat = &outputFormat
	cli.AssumeYes = &assumeYes

	// Add subcommands
	cmd.AddCommand(
		cli.NewInstallCmd(),
		cli.NewUpgradeCmd(),
		cli.NewRestoreCmd(),
		cli.NewUninstallCmd(),
		cli.NewInstallFileCmd(),
		cli.NewListCmd(),
		cli.NewCleanCmd(),
		cli.NewCacheCmd(),
		cli.NewConfigCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
