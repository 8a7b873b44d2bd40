// Package fwlint is the composition root of the fwlint framework validator.
//
// It turns a config.Config into a ready Linter: the schema is loaded, the
// content rules are compiled and the validator is wired with the collector,
// the decoders and the result cache.
//
// A collection is a directory of YAML framework documents. A run checks that
// every document parses, conforms to the schema, is at least the minimum
// size and satisfies the enabled content rules. Problems in one document
// never stop the run; they are collected into a core.Report.
//
// Usage:
//
//	cfg := config.Default()
//	cfg.Root = "./frameworks"
//
//	linter, err := fwlint.New(cfg, logger)
//	if err != nil {
//		return err
//	}
//	report, err := linter.Check(ctx, fwlint.CheckOptions{})
package fwlint
