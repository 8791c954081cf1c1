package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/spektr-org/permap/config"
	"github.com/spektr-org/permap/helpers"
	"github.com/spektr-org/permap/schema"
)

// ============================================================================
// PERMAP CLI — Performance maps for TRNSYS Type 3254
// ============================================================================

const version = "0.1.0"

var (
	verbose bool
	logger  *zap.Logger

	configPath string
	jobNames   []string
	parallel   int

	csvPath string
	pretty  bool
)

var rootCmd = &cobra.Command{
	Use:   "permap",
	Short: "Build Type 3254 heat pump performance maps from manufacturer data",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	SilenceUsage: true,
}

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Run the jobs of a config file",
	RunE:  runFill,
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Print the schema discovered in a CSV file",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(csvPath)
		if err != nil {
			return err
		}
		sch, err := schema.DiscoverFromCSV(data)
		if err != nil {
			return err
		}
		return printJSON(cmd, sch)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "permap %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	fillCmd.Flags().StringVarP(&configPath, "config", "c", "permap.yaml", "Path to the job file")
	fillCmd.Flags().StringSliceVar(&jobNames, "job", nil, "Run only the named jobs")
	fillCmd.Flags().IntVar(&parallel, "parallel", 4, "Maximum number of jobs run at once")
	fillCmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON summary")

	discoverCmd.Flags().StringVarP(&csvPath, "file", "f", "", "Path to the CSV file")
	discoverCmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON output")
	_ = discoverCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(fillCmd, discoverCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runFill runs the selected jobs concurrently. Relative paths in the config
// are resolved against its directory.
func runFill(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// The production logger starts at Info; --verbose wins over the file.
	if lvl, err := zapcore.ParseLevel(cfg.Logging.Level); err == nil && !verbose && lvl > zapcore.InfoLevel {
		logger = logger.WithOptions(zap.IncreaseLevel(lvl))
	}

	jobs := cfg.Jobs
	if len(jobNames) > 0 {
		jobs = jobs[:0:0]
		for _, name := range jobNames {
			j, ok := cfg.Job(name)
			if !ok {
				return fmt.Errorf("unknown job %q", name)
			}
			jobs = append(jobs, j)
		}
	}
	base := filepath.Dir(configPath)

	results := make([]*helpers.Result, len(jobs))
	g, ctx := errgroup.WithContext(cmd.Context())
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, j := range jobs {
		j.Data = resolve(base, j.Data)
		j.Output = resolve(base, j.Output)
		g.Go(func() error {
			res, err := helpers.RunJob(ctx, j, logger)
			if err != nil {
				return fmt.Errorf("job %s: %w", j.Name, err)
			}
			logger.Info("job done",
				zap.String("job", j.Name),
				zap.String("output", j.Output),
				zap.Int("rows", res.Rows),
				zap.Int("warnings", len(res.Warnings)))
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return printJSON(cmd, results)
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
