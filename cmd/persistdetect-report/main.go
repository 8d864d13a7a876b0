// Command persistdetect-report re-renders a stored detection run from the
// run-history database, for when the original report files are gone or a
// PDF is wanted after the fact.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"twiniz/persistdetect/history"
	"twiniz/persistdetect/report"
)

func main() {
	dbPath := flag.String("db", "data/history.db", "run-history database path")
	runID := flag.String("run", "", "run id to render (required)")
	format := flag.String("format", "text", "output format: text or pdf")
	out := flag.String("out", "", "output file (default stdout for text)")
	flag.Parse()

	if *runID == "" {
		flag.Usage()
		log.Fatal("missing required -run flag")
	}

	ctx := context.Background()
	store, err := history.Open(ctx, *dbPath)
	if err != nil {
		log.Fatalf("open history: %v", err)
	}
	defer store.Close()

	rep, err := store.GetRun(ctx, *runID)
	if err != nil {
		log.Fatalf("load run: %v", err)
	}

	switch *format {
	case "text":
		text := report.Text(rep)
		if *out == "" {
			fmt.Print(text)
			return
		}
		if err := os.WriteFile(*out, []byte(text), 0o644); err != nil {
			log.Fatalf("write report: %v", err)
		}
	case "pdf":
		if *out == "" {
			log.Fatal("pdf output requires -out")
		}
		if err := report.WritePDF(rep, *out); err != nil {
			log.Fatalf("write pdf: %v", err)
		}
	default:
		log.Fatalf("unknown format: %s", *format)
	}
}
