package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/glorpus-work/appmanager/pkg/model"
	"github.com/spf13/cobra"
)

type listFilter struct {
	name      string
	updates   bool
	installed bool
}

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	var filter listFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List packages",
		Long: `List the packages known to the backend.

By default, shows all user packages with name and version. With the
advanced show_all setting system packages are listed too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), filter)
		},
	}

	cmd.Flags().StringVar(&filter.name, "name", "", "Filter packages by name (partial match)")
	cmd.Flags().BoolVar(&filter.updates, "updates", false, "Only list packages with an update available")
	cmd.Flags().BoolVar(&filter.installed, "installed", false, "Only list installed packages")

	return cmd
}

func runList(ctx context.Context, filter listFilter) error {
	return withApp(ctx, func(ctx context.Context, a *app) error {
		pkgs, err := a.packageList(ctx)
		if err != nil {
			return fmt.Errorf("failed to list packages: %w", err)
		}
		pkgs = filter.apply(pkgs)

		if jsonOutput(a.cfg) {
			return writeJSON(os.Stdout, pkgs)
		}
		writeTable(os.Stdout, pkgs)
		return nil
	})
}

func (f listFilter) apply(pkgs []*model.PackageRecord) []*model.PackageRecord {
	out := pkgs[:0:0]
	for _, p := range pkgs {
		if f.name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.name)) {
			continue
		}
		if f.updates && !(p.IsInstalled() && p.HasUpdate()) {
			continue
		}
		if f.installed && !p.IsInstalled() {
			continue
		}
		out = append(out, p)
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, pkgs []*model.PackageRecord) {
	if len(pkgs) == 0 {
		_, _ = fmt.Fprintln(w, "No packages found")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PACKAGE\tINSTALLED\tAVAILABLE\tSIZE")
	for _, p := range pkgs {
		available := "-"
		if p.HasUpdate() {
			available = p.DisplayVersion(false)
		}
		installed := "-"
		if p.IsInstalled() {
			installed = p.DisplayVersion(true)
		}
		size := "-"
		if p.InstalledSize > 0 {
			size = humanize.Bytes(uint64(p.InstalledSize))
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.DisplayName(), installed, available, size)
	}
	_ = tw.Flush()
}
