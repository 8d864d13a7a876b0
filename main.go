package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"twiniz/persistdetect/alert"
	"twiniz/persistdetect/baseline"
	"twiniz/persistdetect/collector"
	"twiniz/persistdetect/config"
	"twiniz/persistdetect/diff"
	"twiniz/persistdetect/history"
	"twiniz/persistdetect/report"
	"twiniz/persistdetect/scope"
	"twiniz/persistdetect/snapshot"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printUsage()
		return nil
	}

	switch args[0] {
	case "baseline":
		return runBaseline(ctx, args[1:])
	case "detect":
		return runDetect(ctx, args[1:])
	case "history":
		return runHistory(ctx, args[1:])
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// runBaseline collects the current host state and overwrites the stored
// baseline with it. Reading restricted files (sudoers, root crontab,
// authorized_keys) needs elevated privileges; without them those categories
// degrade to empty with an error status recorded in the document.
func runBaseline(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("baseline", flag.ContinueOnError)
	envFile := fs.String("env", "persistdetect.env", "env file with configuration overrides")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Load(*envFile)
	loaded, err := loadScope(cfg)
	if err != nil {
		return err
	}

	snap := collectSnapshot(ctx, cfg, loaded.Profile)

	store := baseline.NewStore(cfg.BaselinePath)
	if err := store.Save(snap); err != nil {
		return err
	}

	log.Printf("Baseline collected and saved to %s (scope %s, sha256 %.12s)",
		store.Path(), loaded.Source, loaded.SHA256)
	return nil
}

// runDetect builds a fresh snapshot, diffs it against the stored baseline,
// classifies the deltas and writes the report files. Missing baseline is
// the one fatal condition: diffing is undefined without it.
func runDetect(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	envFile := fs.String("env", "persistdetect.env", "env file with configuration overrides")
	withPDF := fs.Bool("pdf", false, "also render the report as PDF")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Load(*envFile)
	loaded, err := loadScope(cfg)
	if err != nil {
		return err
	}

	store := baseline.NewStore(cfg.BaselinePath)
	base, err := store.Load()
	if err != nil {
		if errors.Is(err, baseline.ErrNotFound) {
			return fmt.Errorf("%w; run 'persistdetect baseline' first (requires root)", err)
		}
		return err
	}

	current := collectSnapshot(ctx, cfg, loaded.Profile)

	d := diff.Compare(base, current)
	alerts := alert.Classify(d)
	rep := report.Assemble(current, alerts, d)

	paths, err := report.WriteFiles(rep, cfg.ReportsDir, *withPDF)
	if err != nil {
		return err
	}

	fmt.Print(report.Text(rep))
	fmt.Println()
	fmt.Println("Report files:")
	fmt.Printf("- %s\n", paths.Text)
	fmt.Printf("- %s\n", paths.JSON)
	if paths.PDF != "" {
		fmt.Printf("- %s\n", paths.PDF)
	}

	if cfg.HistoryDBPath != "" {
		if err := recordHistory(ctx, cfg.HistoryDBPath, rep); err != nil {
			// The report is already on disk; a history failure should not
			// turn a completed detection run into an error.
			log.Printf("warning: history not recorded: %v", err)
		}
	}

	return nil
}

func runHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	envFile := fs.String("env", "persistdetect.env", "env file with configuration overrides")
	limit := fs.Int("limit", 20, "number of runs to list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Load(*envFile)
	if cfg.HistoryDBPath == "" {
		return errors.New("history is disabled (PD_HISTORY_DB is empty)")
	}

	store, err := history.Open(ctx, cfg.HistoryDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(ctx, *limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}

	for _, r := range runs {
		fmt.Printf("%s  %s  alerts=%d info=%d\n",
			r.RunID, r.GeneratedAt.Format(time.RFC3339), r.AlertCount, r.InfoCount)
	}
	return nil
}

func collectSnapshot(ctx context.Context, cfg config.Configuration, profile scope.Profile) *snapshot.Snapshot {
	facts := collector.Collect(ctx, collector.Options{
		Profile:         profile,
		CrontabTimeout:  cfg.CrontabTimeout,
		ServiceTimeout:  cfg.ServiceTimeout,
		SUIDScanTimeout: cfg.SUIDScanTimeout,
	})
	return snapshot.Build(facts, time.Now().UTC())
}

func loadScope(cfg config.Configuration) (scope.Loaded, error) {
	if cfg.ScopeFile == "" {
		return scope.Default(), nil
	}
	return scope.Load(cfg.ScopeFile)
}

func recordHistory(ctx context.Context, dbPath string, rep report.Report) error {
	store, err := history.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runID, err := store.RecordRun(ctx, rep)
	if err != nil {
		return err
	}
	log.Printf("Run recorded in history as %s", runID)
	return nil
}

func printUsage() {
	fmt.Println("usage: persistdetect <command> [flags]")
	fmt.Println()
	fmt.Println("commands:")
	fmt.Println("  baseline   collect host state and store it as the trusted baseline")
	fmt.Println("  detect     compare current host state against the baseline and report")
	fmt.Println("  history    list recorded detection runs")
}
