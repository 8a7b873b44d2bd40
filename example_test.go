package fwlint_test

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/fwlint"
	"github.com/aretw0/fwlint/pkg/config"
)

// Example_check validates a small collection: one complete framework and one
// that is too short.
func Example_check() {
	root, err := os.MkdirTemp("", "fwlint-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(root)

	complete := "---\nname: Chain of Thought\ncategory: core\ndocumentation:\n  purpose: Reason step by step\nframework:\n  content: |\n" +
		"    " + strings.Repeat("Think. ", 20) + "\n"
	short := "---\nname: Bb\ncategory: core\ndocumentation: {}\nframework: {}\n"

	if err := os.WriteFile(filepath.Join(root, "a.yml"), []byte(complete), 0644); err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "b.yml"), []byte(short), 0644); err != nil {
		log.Fatal(err)
	}

	cfg := config.Default()
	cfg.Root = root

	linter, err := fwlint.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		log.Fatal(err)
	}

	report, err := linter.Check(context.Background(), fwlint.CheckOptions{})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("total=%d passed=%d failed=%d\n", report.Total, report.Passed, report.Failed)
	for _, res := range report.Failures() {
		for _, v := range res.Violations {
			fmt.Printf("%s: %s\n", res.Path, v)
		}
	}
	// Output:
	// total=2 passed=1 failed=1
	// b.yml: size: 60 bytes is below the minimum of 100
}
