package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"pipecheck/internal/config"
	"pipecheck/internal/loader"
	"pipecheck/internal/storage"
	"pipecheck/internal/verify"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "pipecheck",
		Short: "Termination-safety verifier and capability registry for generated pipeline programs",
	}
	dbPath     string
	configPath string
	workers    int
	noSave     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the verification history database (SQLite)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the configuration file")

	verifyCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Worker count for the loop check (overrides config)")
	verifyCmd.Flags().BoolVar(&noSave, "no-save", false, "Do not persist the report")

	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(runsCmd)
}

func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	return cfg
}

var verifyCmd = &cobra.Command{
	Use:   "verify <snapshot.yaml>",
	Short: "Verify a unit snapshot and classify its capabilities",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		snap, err := loader.Load(args[0])
		if err != nil {
			log.Fatalf("Failed to load snapshot: %v", err)
		}

		runner := &verify.Runner{Workers: cfg.Workers, Namespace: snap.Namespace}
		report, err := runner.Run(snap.Unit)
		if err != nil {
			log.Fatalf("Verification aborted: %v", err)
		}

		if report.Loop != nil {
			fmt.Printf("❌ Forbidden loop in %s\n", report.Loop.Path)
		}
		for _, r := range report.Recursions {
			fmt.Printf("❌ Recursion: %s -> %s\n",
				snap.Unit.PathString(r.Caller), snap.Unit.PathString(r.Callee))
		}

		caps := report.Capabilities
		fmt.Printf("📦 %d public types, %d sinks, %d sources\n",
			len(caps.PublicTypes), len(caps.Sinks), len(caps.Sources))
		for _, p := range caps.TypePaths {
			fmt.Printf("  public: %s\n", p)
		}
		for _, p := range caps.SinkPaths(snap.Unit) {
			fmt.Printf("  sink:   %s\n", p)
		}
		for _, p := range caps.SourcePaths(snap.Unit) {
			fmt.Printf("  source: %s\n", p)
		}

		if !noSave {
			store, err := storage.NewSQLiteStore(cfg.Database.Path)
			if err != nil {
				log.Fatalf("Failed to open database: %v", err)
			}
			defer store.Close()

			runID, err := store.SaveReport(context.Background(), snap.Hash, report)
			if err != nil {
				log.Fatalf("Failed to save report: %v", err)
			}
			fmt.Printf("💾 Report saved as run %d (%s)\n", runID, shortHash(snap.Hash))
		}

		if report.OK() {
			fmt.Println("✅ Unit accepted.")
		} else {
			fmt.Printf("❌ Unit rejected: %d finding(s).\n", report.Findings())
			os.Exit(1)
		}
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored verification runs",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		store, err := storage.NewSQLiteStore(cfg.Database.Path)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer store.Close()

		runs, err := store.ListRuns(context.Background())
		if err != nil {
			log.Fatalf("Failed to list runs: %v", err)
		}
		if len(runs) == 0 {
			fmt.Println("No verification runs recorded.")
			return
		}

		for _, r := range runs {
			status := "✅ passed"
			if !r.Passed {
				status = fmt.Sprintf("❌ %d finding(s)", r.Findings)
			}
			fmt.Printf("#%d  %s  %s  %s  %s\n",
				r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Unit, shortHash(r.UnitHash), status)
		}
	},
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return strings.TrimSpace(h)
}
