package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/fwlint"
	"github.com/aretw0/fwlint/pkg/config"
)

func main() {
	count := flag.Int("count", 1000, "Number of frameworks to generate")
	workers := flag.Int("workers", 0, "Documents validated concurrently (0 = number of CPUs)")
	keep := flag.Bool("keep", false, "Keep the benchmark collection after running")
	flag.Parse()

	// 1. Setup Collection
	benchDir, err := os.MkdirTemp("", "fwlint_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	fmt.Printf("Generating %d frameworks in %s...\n", *count, benchDir)
	startGen := time.Now()
	categories := []string{"core", "purpose-built", "personas"}
	for i := 0; i < *count; i++ {
		category := categories[i%len(categories)]
		content := fmt.Sprintf("---\nname: Framework %d\ncategory: %s\nversion: \"1.0\"\ndocumentation:\n  purpose: Benchmark framework\nframework:\n  content: %s\n",
			i, category, strings.Repeat("Think step by step. ", 1+i%10))
		dir := filepath.Join(benchDir, category)
		if err := os.MkdirAll(dir, 0755); err != nil {
			panic(err)
		}
		if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("framework_%d.yml", i)), []byte(content), 0644); err != nil {
			panic(err)
		}
	}
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	// 2. Initialize Linter
	cfg := config.Default()
	cfg.Root = benchDir
	cfg.Workers = *workers
	cfg.CacheSize = *count

	linter, err := fwlint.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		panic(err)
	}

	// 3. Cold run, then a run served by the result cache
	ctx := context.Background()
	for _, label := range []string{"Cold run", "Cached run"} {
		start := time.Now()
		report, err := linter.Check(ctx, fwlint.CheckOptions{})
		if err != nil {
			panic(err)
		}
		fmt.Printf("%s: %v (total=%d passed=%d failed=%d)\n", label, time.Since(start), report.Total, report.Passed, report.Failed)
	}
}
