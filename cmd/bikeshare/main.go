// Package main provides the CLI entrypoint for bikeshare.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/bikeshare/internal/config"
	"github.com/verte-zerg/bikeshare/internal/dataset"
	"github.com/verte-zerg/bikeshare/internal/model"
	"github.com/verte-zerg/bikeshare/internal/prompt"
	"github.com/verte-zerg/bikeshare/internal/session"
	"github.com/verte-zerg/bikeshare/internal/stats"
	"github.com/verte-zerg/bikeshare/internal/store"
)

const (
	defaultDataDir  = "."
	defaultPageSize = 10
)

var (
	exploreDataDir   string
	explorePageSize  int
	exploreTimingOff bool
	exploreAll       bool
	exploreNoCache   bool
	exploreDebug     bool

	statsDataDir   string
	statsCity      string
	statsMonth     string
	statsDay       string
	statsTimingOff bool
	statsNoCache   bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if exploreDebug {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "\nSomething exceptional just happened:\n%v\nFind out why with the --debug option.\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bikeshare",
		Short:         "Interactive explorer for bikeshare trip data",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runExploreCmd,
	}

	rootCmd.Flags().StringVar(&exploreDataDir, "data-dir", defaultDataDir, "directory containing the dataset CSV files")
	rootCmd.Flags().IntVarP(&explorePageSize, "pagesize", "p", defaultPageSize, "raw data page size")
	rootCmd.Flags().BoolVarP(&exploreTimingOff, "timing-off", "t", false, "switch off the timing displays")
	rootCmd.Flags().BoolVarP(&exploreAll, "all", "a", false, "use all data, don't ask about filtering")
	rootCmd.Flags().BoolVarP(&exploreDebug, "debug", "d", false, "allow any and all errors to be fully displayed")
	rootCmd.Flags().BoolVar(&exploreNoCache, "no-cache", false, "disable the parsed-trip cache")

	rootCmd.AddCommand(newDatasetsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runExploreCmd(cmd *cobra.Command, _ []string) (err error) {
	if !exploreDebug {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("internal error: %v", r)
			}
		}()
	}

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "data-dir", &exploreDataDir, fileCfg.Explore.DataDir)
	applyIntConfig(cmd, "pagesize", &explorePageSize, fileCfg.Explore.PageSize)
	applyBoolConfig(cmd, "timing-off", &exploreTimingOff, fileCfg.Explore.TimingOff)
	applyBoolConfig(cmd, "all", &exploreAll, fileCfg.Explore.All)
	applyBoolConfig(cmd, "no-cache", &exploreNoCache, fileCfg.Explore.NoCache)

	cfg := model.Config{
		DataDir:   exploreDataDir,
		PageSize:  explorePageSize,
		TimingOff: exploreTimingOff,
		AllData:   exploreAll,
		NoCache:   exploreNoCache,
		Debug:     exploreDebug,
	}

	cache := openCache(cfg.NoCache)
	if cache != nil {
		defer func() {
			if cerr := cache.Close(); cerr != nil {
				logErrf("failed to close trip cache: %v\n", cerr)
			}
		}()
	}

	calendar := model.DefaultCalendar()
	loader := dataset.NewLoader(calendar, cacheOrNil(cache))

	input := prompt.NewConsoleInput(os.Stdin, os.Stdout)
	defer input.Close()

	renderer := stats.NewRenderer(os.Stdout, 0)
	controller := session.New(cfg, dataset.DefaultRegistry(), calendar, loader, input, renderer, os.Stdout)
	return controller.Run(context.Background())
}

// openCache opens the trip cache, or returns nil when caching is disabled
// or unavailable. A broken cache only costs re-parsing, so open failures
// are logged and not fatal.
func openCache(noCache bool) *store.Store {
	if noCache {
		return nil
	}
	st, err := store.Open(config.DefaultCachePath())
	if err != nil {
		logErrf("failed to open trip cache: %v\n", err)
		return nil
	}
	return st
}

// cacheOrNil avoids handing the loader a non-nil interface wrapping a nil
// store pointer.
func cacheOrNil(st *store.Store) dataset.Cache {
	if st == nil {
		return nil
	}
	return st
}

func newDatasetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "List datasets with a data file present",
		Args:  cobra.NoArgs,
		RunE:  runDatasetsCmd,
	}
	cmd.Flags().StringVar(&statsDataDir, "data-dir", defaultDataDir, "directory containing the dataset CSV files")
	return cmd
}

func runDatasetsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "data-dir", &statsDataDir, fileCfg.Explore.DataDir)

	available := dataset.DefaultRegistry().Available(statsDataDir)
	if len(available) == 0 {
		return fmt.Errorf("no data files were found in %s", statsDataDir)
	}
	for _, entry := range available {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), entry.Name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show statistics for a dataset without the interactive loop",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsDataDir, "data-dir", defaultDataDir, "directory containing the dataset CSV files")
	cmd.Flags().StringVar(&statsCity, "city", "", "city to analyze (prefix match)")
	cmd.Flags().StringVar(&statsMonth, "month", model.FilterAll, "month name to filter by, or All")
	cmd.Flags().StringVar(&statsDay, "day", model.FilterAll, "day of week to filter by, or All")
	cmd.Flags().BoolVarP(&statsTimingOff, "timing-off", "t", false, "switch off the timing displays")
	cmd.Flags().BoolVar(&statsNoCache, "no-cache", false, "disable the parsed-trip cache")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "data-dir", &statsDataDir, fileCfg.Explore.DataDir)
	applyBoolConfig(cmd, "timing-off", &statsTimingOff, fileCfg.Explore.TimingOff)
	applyBoolConfig(cmd, "no-cache", &statsNoCache, fileCfg.Explore.NoCache)

	if statsCity == "" {
		return fmt.Errorf("--city is required")
	}

	available := dataset.DefaultRegistry().Available(statsDataDir)
	if len(available) == 0 {
		return fmt.Errorf("no data files were found in %s", statsDataDir)
	}

	calendar := model.DefaultCalendar()
	city, err := resolveOption(statsCity, available.Names(), "city")
	if err != nil {
		return err
	}
	month, err := resolveOption(statsMonth, append(calendar.MonthNames(), model.FilterAll), "month")
	if err != nil {
		return err
	}
	day, err := resolveOption(statsDay, append(calendar.WeekdayNames(), model.FilterAll), "day")
	if err != nil {
		return err
	}

	cache := openCache(statsNoCache)
	if cache != nil {
		defer func() {
			if cerr := cache.Close(); cerr != nil {
				logErrf("failed to close trip cache: %v\n", cerr)
			}
		}()
	}

	loader := dataset.NewLoader(calendar, cacheOrNil(cache))
	path, _ := available.Path(statsDataDir, city)
	data, err := loader.Load(cmd.Context(), path, month, day)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", city, err)
	}
	if len(data.Trips) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "There was no data with this selection.")
		return nil
	}

	renderer := stats.NewRenderer(cmd.OutOrStdout(), 0)
	renderer.RenderAll(data, statsTimingOff)
	return nil
}

// resolveOption applies the same prefix matching the interactive prompts
// use, but turns ambiguity into an error instead of re-prompting.
func resolveOption(input string, options []string, what string) (string, error) {
	matched := prompt.MatchPrefix(options, input)
	switch len(matched) {
	case 0:
		return "", fmt.Errorf("no %s matches %q (options: %s)", what, input, strings.Join(options, ", "))
	case 1:
		return matched[0], nil
	default:
		return "", fmt.Errorf("%q is ambiguous for %s: %s", input, what, strings.Join(matched, ", "))
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# bikeshare configuration
# Uncomment a value to enable it. CLI flags override config values.

[explore]
# data-dir = %q        # Directory containing the dataset CSV files
# pagesize = %d        # Raw data page size
# timing-off = false   # Switch off the timing displays
# all = false          # Use all data, don't ask about filtering
# no-cache = false     # Disable the parsed-trip cache
`,
		defaultDataDir,
		defaultPageSize,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
