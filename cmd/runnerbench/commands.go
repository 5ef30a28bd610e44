package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/runnerbench/runnerbench/internal/config"
	"github.com/runnerbench/runnerbench/internal/manifest"
	"github.com/runnerbench/runnerbench/internal/observer"
	"github.com/runnerbench/runnerbench/internal/runstore"
)

var (
	generateTemplate string
	verifyTemplate   string
	historyFormat    string
	historyLimit     int
)

func init() {
	// generate command
	generateCmd := &cobra.Command{
		Use:   "generate FORMAT [COUNT] [PATH]",
		Short: "Generate one synthetic manifest",
		Args:  cobra.RangeArgs(1, 3),
		RunE:  runGenerate,
	}
	generateCmd.Flags().StringVar(&generateTemplate, "name-template", "", "record name stem (default \"script\")")
	rootCmd.AddCommand(generateCmd)

	// suite command
	suiteCmd := &cobra.Command{
		Use:   "suite",
		Short: "Generate every manifest in the configured suite",
		RunE:  runSuite,
	}
	rootCmd.AddCommand(suiteCmd)

	// verify command
	verifyCmd := &cobra.Command{
		Use:   "verify FORMAT PATH",
		Short: "Verify a generated manifest",
		Args:  cobra.ExactArgs(2),
		RunE:  runVerify,
	}
	verifyCmd.Flags().StringVar(&verifyTemplate, "name-template", "", "record name stem (default \"script\")")
	rootCmd.AddCommand(verifyCmd)

	// history command
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List past generation runs",
		RunE:  runHistory,
	}
	historyCmd.Flags().StringVar(&historyFormat, "format", "", "filter by format")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum runs to show")
	rootCmd.AddCommand(historyCmd)

	// formats command
	formatsCmd := &cobra.Command{
		Use:   "formats",
		Short: "List supported manifest formats",
		RunE:  runFormats,
	}
	rootCmd.AddCommand(formatsCmd)

	// watch command
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the suite whenever the config file changes",
		RunE:  runWatch,
	}
	rootCmd.AddCommand(watchCmd)
}

func loadConfig() (*config.Config, error) {
	return config.LoadWithLocalFallback(configPath)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	format, err := manifest.ParseFormat(args[0])
	if err != nil {
		return err
	}

	count := cfg.Generate.DefaultCount
	if len(args) > 1 {
		count, err = strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid count %q: %w", args[1], err)
		}
	}

	var path string
	if len(args) > 2 {
		path = args[2]
	}

	start := time.Now()
	res, err := manifest.Generate(manifest.Request{
		Format:       format,
		Count:        count,
		OutputPath:   cfg.ResolveOutputPath(format, path),
		NameTemplate: generateTemplate,
	})
	if err != nil {
		return err
	}

	recordRuns(cfg, []generated{{res, time.Since(start)}})
	printSummary(res)
	return nil
}

func runSuite(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return generateSuite(cmd.Context(), cfg)
}

// generated pairs a result with how long its generation took
type generated struct {
	res manifest.Result
	dur time.Duration
}

// generateSuite emits all configured manifests concurrently and records
// each run
func generateSuite(ctx context.Context, cfg *config.Config) error {
	reqs, err := cfg.SuiteRequests()
	if err != nil {
		return err
	}

	results := make([]generated, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			res, err := manifest.Generate(req)
			if err != nil {
				return err
			}
			results[i] = generated{res, time.Since(start)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	recordRuns(cfg, results)

	var total int64
	for _, gen := range results {
		printSummary(gen.res)
		total += gen.res.BytesWritten
	}
	fmt.Printf("Suite complete: %d manifests, %s total\n",
		len(results), humanize.Bytes(uint64(total)))
	return nil
}

func printSummary(res manifest.Result) {
	fmt.Printf("Generated %q with %d task records (%s)\n",
		res.Path, res.Records, humanize.Bytes(uint64(res.BytesWritten)))
}

// recordRuns saves generation history. Best effort: a successful
// generation is not failed because the history database is unavailable.
func recordRuns(cfg *config.Config, gens []generated) {
	store, err := runstore.New(cfg.General.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot open history database: %v\n", err)
		return
	}
	defer store.Close()

	for _, gen := range gens {
		run := &runstore.Run{
			Format:   gen.res.Format.String(),
			Records:  gen.res.Records,
			Path:     gen.res.Path,
			Bytes:    gen.res.BytesWritten,
			Duration: gen.dur,
		}
		if err := store.RecordRun(run); err != nil {
			fmt.Fprintf(os.Stderr, "warning: recording run for %s: %v\n", gen.res.Path, err)
		}
	}
}

func runVerify(cmd *cobra.Command, args []string) error {
	format, err := manifest.ParseFormat(args[0])
	if err != nil {
		return err
	}

	rep, err := manifest.Verify(format, args[1], verifyTemplate)
	if err != nil {
		return err
	}

	fmt.Printf("%s: OK, %d task records\n", args[1], rep.Records)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := runstore.ListOptions{Limit: historyLimit}
	if historyFormat != "" {
		format, err := manifest.ParseFormat(historyFormat)
		if err != nil {
			return err
		}
		opts.Format = format.String()
	}

	store, err := runstore.New(cfg.General.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(opts)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No generation runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tFORMAT\tRECORDS\tSIZE\tDURATION\tPATH")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Format,
			run.Records,
			humanize.Bytes(uint64(run.Bytes)),
			run.Duration,
			run.Path)
	}
	w.Flush()

	return nil
}

func runFormats(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FORMAT\tDEFAULT FILE\tINDEX STYLE")
	for _, f := range manifest.Formats() {
		style := "decimal"
		if f.ZeroPadded() {
			style = "zero-padded (width 4)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", f, f.DefaultFilename(), style)
	}
	w.Flush()
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.FindLocalConfig()
	}
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config file to watch: %w", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	regenerate := func(p string) {
		cfg, err := config.Load(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "reloading config: %v\n", err)
			return
		}
		if err := generateSuite(ctx, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "regenerating suite: %v\n", err)
		}
	}

	watcher, err := observer.NewConfigWatcher(path, regenerate)
	if err != nil {
		return err
	}
	watcher.Start(ctx)
	defer watcher.Stop()

	// Generate once up front so the suite exists before the first edit
	if err := generateSuite(ctx, cfg); err != nil {
		return err
	}

	fmt.Printf("Watching %s for changes (ctrl-c to stop)\n", path)
	<-ctx.Done()
	return nil
}
