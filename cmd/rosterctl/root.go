package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/teamroster/internal/config"
	"github.com/JonMunkholm/teamroster/internal/core"
	"github.com/JonMunkholm/teamroster/internal/logging"
	"github.com/JonMunkholm/teamroster/internal/source"
)

// app is the state shared by subcommands once the root pre-run has loaded
// configuration and run a pass.
type app struct {
	cfg    *config.Config
	result core.PassResult
	close  func()

	ojson  bool
	filter core.FilterSpec
}

// openSource is replaced in tests.
var openSource = source.Open

// newRootCmd builds the command tree. The returned cleanup releases the
// source opened by the pre-run and must be called once Execute returns,
// whether or not the command failed.
func newRootCmd() (*cobra.Command, func()) {
	a := &app{close: func() {}}

	root := &cobra.Command{
		Use:          "rosterctl",
		Short:        "Inspect and export the aggregated team roster",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}
	root.PersistentFlags().BoolVar(&a.ojson, "json", false, "output as JSON")
	root.CompletionOptions.HiddenDefaultCmd = true

	root.AddCommand(
		a.sourcesCmd(),
		a.listCmd(),
		a.exportCmd(),
	)
	return root, func() { a.close() }
}

// load reads configuration, logs to stderr, opens the source and runs one
// aggregation pass.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	logging.SetupWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)

	src, closeSource, err := openSource(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	a.close = closeSource

	svc := core.NewService(src, source.AggregatorConfig(cfg))
	a.result = svc.Refresh(cmd.Context())
	if a.result.Unconfigured {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: roster source unavailable, showing built-in sample roster")
	}
	for _, f := range a.result.FailedSources {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipped %s (%s): %s\n", f.Source, f.Kind, f.Reason)
	}
	return nil
}

func (a *app) addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&a.filter.FreeText, "query", "q", "", "match name, email or position")
	cmd.Flags().StringVar(&a.filter.Position, "position", "", "position contains")
	cmd.Flags().StringVar(&a.filter.Department, "department", "", "department contains")
	cmd.Flags().StringVar(&a.filter.Source, "source", "", "exact source name")
}

func (a *app) sourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the sources of the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.ojson {
				return writeJSON(cmd.OutOrStdout(), a.result.Catalog)
			}
			counts := make(map[string]int)
			for _, m := range a.result.Members {
				counts[m.SourceName]++
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SOURCE\tMEMBERS\tSTATUS")
			for _, name := range a.result.Catalog {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", name, counts[name], a.sourceStatus(name))
			}
			return tw.Flush()
		},
	}
}

func (a *app) sourceStatus(name string) string {
	for _, f := range a.result.FailedSources {
		if f.Source == name {
			return string(f.Kind)
		}
	}
	return string(a.result.Mode)
}

func (a *app) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the roster, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			members := core.Filter(a.result.Members, a.filter)
			if a.ojson {
				return writeJSON(cmd.OutOrStdout(), members)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tEMAIL\tPOSITION\tDEPARTMENT\tSTATUS\tSOURCE")
			for _, m := range members {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					oneLine(m.Name), oneLine(m.Email), oneLine(m.Position), oneLine(m.Department), m.Status, oneLine(m.SourceName))
			}
			return tw.Flush()
		},
	}
	a.addFilterFlags(cmd)
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the roster as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := core.ExportCSV(core.Filter(a.result.Members, a.filter))
			if err != nil {
				return fmt.Errorf("%s: %w", core.FormatUserError(err), err)
			}
			if output == "" || output == "-" {
				_, err = io.WriteString(cmd.OutOrStdout(), doc)
				return err
			}
			if err := os.WriteFile(output, []byte(doc), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", output)
			return nil
		},
	}
	a.addFilterFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func oneLine(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ").Replace(s)
}
