package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lineage-sim/lineage-sim/sim/pipeline"
	"github.com/lineage-sim/lineage-sim/sim/trace"
)

var (
	// CLI flags for the run itself
	outputDir     string // Directory receiving simulation_results/
	numTrees      int    // Number of replicate trees
	workers       int    // Trees simulated concurrently
	seed          int64  // Run seed; each tree derives its own streams from it
	generateDOT   bool   // Write TREE.dot per tree
	sampledDOT    bool   // Write TREE_s<n>.dot per tree and sample count
	sampleProfile bool   // Add the binary presence column to VAF files
	sqlitePath    string // Optional SQLite result database
	traceLevel    string // Trace verbosity (none, rounds)

	// CLI flags for logging, shared by every subcommand
	logLevel      string // Log verbosity level
	verbose       bool   // Shorthand for --log debug
	logFile       string // Optional rotating log file
	logMaxSizeMB  int    // Rotate the log file after this many megabytes
	logMaxBackups int    // Rotated log files to keep
	logMaxAgeDays int    // Days to keep rotated log files
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "lineage-sim",
	Short: "Simulator of clonal tumor evolution and multi-sample sequencing",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := setupLogging(logOptions{
			Level:      logLevel,
			Verbose:    verbose,
			File:       logFile,
			MaxSizeMB:  logMaxSizeMB,
			MaxBackups: logMaxBackups,
			MaxAgeDays: logMaxAgeDays,
		}); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// runCmd grows replicate lineage trees, samples them and writes VAF tables
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate lineage trees and write per-tree outputs",
	Run: func(cmd *cobra.Command, args []string) {
		params, err := resolveParams(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}

		logrus.Infof("Simulating %d trees (prob_snv=%g, prob_cnv=%g, prob_death=%g, samples=%v, coverage=%v)",
			numTrees, params.Growth.ProbSNV, params.Growth.ProbCNV, params.Growth.ProbDeath,
			params.Sampling.NumSamples, params.Sequencing.Coverage)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		runner := pipeline.NewRunner(pipeline.RunConfig{
			Params:        *params,
			NumTrees:      numTrees,
			Workers:       workers,
			OutputDir:     outputDir,
			Seed:          seed,
			DOT:           generateDOT,
			SampledDOT:    sampledDOT,
			SampleProfile: sampleProfile,
			TraceLevel:    trace.TraceLevel(traceLevel),
			SQLitePath:    sqlitePath,
		})
		result, err := runner.Run(ctx)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		fmt.Println("=== Simulation Summary ===")
		fmt.Print(pipeline.RenderSummary(result.Trees))
		if ts := pipeline.RenderTraceSummary(result.Traces); ts != "" {
			fmt.Println("=== Trace Summary ===")
			fmt.Print(ts)
		}
		logrus.Infof("Results written to %s", result.ResultsDir)
		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging (same as --log debug)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this file, rotating it by size")
	rootCmd.PersistentFlags().IntVar(&logMaxSizeMB, "log-max-size", 100, "Log file size in megabytes that triggers rotation")
	rootCmd.PersistentFlags().IntVar(&logMaxBackups, "log-max-backups", 3, "Rotated log files to keep")
	rootCmd.PersistentFlags().IntVar(&logMaxAgeDays, "log-max-age", 28, "Days to keep rotated log files")

	registerParamFlags(runCmd)
	runCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory where simulation_results/ is created")
	runCmd.Flags().IntVarP(&numTrees, "trees", "t", 100, "Number of trees to simulate")
	runCmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "Number of trees simulated concurrently")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for all random draws")
	runCmd.Flags().BoolVar(&generateDOT, "dot", false, "Write a DOT file per simulated tree")
	runCmd.Flags().BoolVar(&sampledDOT, "sampled-dot", false, "Write a DOT file per tree and sample count with sampled populations colored")
	runCmd.Flags().BoolVar(&sampleProfile, "sample-profile", false, "Add the binary sample presence profile column to VAF files")
	runCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "Also store results in this SQLite database")
	runCmd.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Trace level (none, rounds)")
	_ = runCmd.MarkFlagRequired("output-dir")

	rootCmd.AddCommand(runCmd)
}
