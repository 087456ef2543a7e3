package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/glorpus-work/appmanager/internal/logger"
	"github.com/glorpus-work/appmanager/pkg/cache"
	"github.com/spf13/cobra"
)

// NewCacheCmd creates the cache command with subcommands
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the download cache",
		Long:  "Clean and show information about the files downloaded by install-file",
	}

	cmd.AddCommand(
		newCacheCleanCmd(),
		newCacheInfoCmd(),
		newCacheDirCmd(),
	)

	return cmd
}

func newCacheCleanCmd() *cobra.Command {
	var opts cache.CleanOptions

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean the download cache",
		Long:  "Remove cached files to free up disk space",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return cleanCache(cache.NewManager(cfg.DownloadDir()), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Packages, "packages", false, "Clean only downloaded package files")
	cmd.Flags().BoolVar(&opts.Instructions, "instructions", false, "Clean only downloaded .install files")
	cmd.Flags().DurationVar(&opts.OlderThan, "older-than", 0, "Keep files newer than this age")

	return cmd
}

func newCacheInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show cache information",
		Long:  "Display information about the download cache",
		Args:  cobra.NoArgs,
		RunE:  runCacheInfo,
	}

	return cmd
}

func newCacheDirCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dir",
		Short: "Show cache directory path",
		Long:  "Display the path to the download cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cfg.DownloadDir())
			return nil
		},
	}

	return cmd
}

func cleanCache(mgr cache.Manager, opts cache.CleanOptions) error {
	result, err := mgr.Clean(opts)
	if err != nil {
		return err
	}

	if result.PackageFreed > 0 {
		logger.Info("Cleaned downloaded packages", logger.Fields{"size": humanize.Bytes(uint64(result.PackageFreed))})
	}
	if result.InstructionFreed > 0 {
		logger.Info("Cleaned downloaded instruction files", logger.Fields{"size": humanize.Bytes(uint64(result.InstructionFreed))})
	}

	logger.Success("Cache cleaning completed", logger.Fields{
		"files":       result.FilesRemoved,
		"total_freed": humanize.Bytes(uint64(result.TotalFreed)),
	})
	return nil
}

func runCacheInfo(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	info, err := cache.NewManager(cfg.DownloadDir()).GetInfo()
	if err != nil {
		return err
	}
	if jsonOutput(cfg) {
		return writeJSON(cmd.OutOrStdout(), info)
	}

	oldest := "never"
	if !info.Oldest.IsZero() {
		oldest = humanize.Time(info.Oldest)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Cache Directory: %s\n", info.Directory)
	_, _ = fmt.Fprintf(out, "Total Size: %s\n", humanize.Bytes(uint64(info.TotalSize)))
	_, _ = fmt.Fprintf(out, "Packages: %s (%d files)\n", humanize.Bytes(uint64(info.PackageSize)), info.PackageFiles)
	_, _ = fmt.Fprintf(out, "Instructions: %s (%d files)\n", humanize.Bytes(uint64(info.InstructionSize)), info.InstructionFiles)
	_, _ = fmt.Fprintf(out, "Oldest File: %s\n", oldest)

	return nil
}
