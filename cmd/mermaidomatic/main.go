// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command mermaidomatic analyzes a single Python source file and writes a
// Markdown report containing a Mermaid.js call-graph diagram.
//
// Usage:
//
//	mermaidomatic <source.py> <output.md>
//	mermaidomatic <source.py> <output.md> --direction LR
//	mermaidomatic <source.py> <output.md> --config mermaidomatic.yaml
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/mermaidomatic/ast"
	"github.com/AleutianAI/mermaidomatic/graph"
	"github.com/AleutianAI/mermaidomatic/pkg/logging"
	"github.com/AleutianAI/mermaidomatic/report"
	"github.com/AleutianAI/mermaidomatic/visualization"
)

var (
	flagDirection string
	flagDebug     bool
	flagConfig    string

	rootCmd = &cobra.Command{
		Use:   "mermaidomatic <source.py> <output.md>",
		Short: "Generate a Mermaid.js call-graph diagram from a Python source file",
		Long: `Mermaidomatic parses a Python source file, extracts its function
definitions and direct call relationships, and writes a Markdown report
embedding a Mermaid.js graph of the result.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGenerate,
	}
)

func init() {
	rootCmd.Flags().StringVar(&flagDirection, "direction", "", "diagram layout direction (TD, LR, BT, RL)")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "optional YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logging.Default().Error("generation failed", "error", err)
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	sourcePath, outputPath := args[0], args[1]

	cfg := DefaultConfig()
	if flagConfig != "" {
		loaded, err := LoadConfig(flagConfig)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if flagDirection != "" {
		cfg.Direction = flagDirection
	}
	if flagDebug {
		cfg.LogLevel = "debug"
	}

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.LogLevel),
		Service: "mermaidomatic",
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := ast.ValidateSourcePath(sourcePath); err != nil {
		logger.Error("source validation failed", "path", sourcePath, "error", err)
		return err
	}

	content, err := os.ReadFile(sourcePath)
	if err != nil {
		logger.Error("reading source failed", "path", sourcePath, "error", err)
		return err
	}

	var parserOpts []ast.PythonParserOption
	if cfg.MaxFileSizeBytes > 0 {
		parserOpts = append(parserOpts, ast.WithMaxFileSize(cfg.MaxFileSizeBytes))
	}
	parser := ast.NewPythonParser(parserOpts...)

	logger.Debug("parsing source", "path", sourcePath, "bytes", len(content))
	tree, err := parser.Parse(ctx, content, sourcePath)
	if err != nil {
		logger.Error("parsing failed", "path", sourcePath, "error", err)
		return err
	}
	defer tree.Close()

	result, err := graph.NewExtractor().Extract(ctx, tree)
	if err != nil {
		logger.Error("extraction failed", "path", sourcePath, "error", err)
		return err
	}
	logger.Info("call graph extracted",
		"path", sourcePath,
		"functions", len(result.Functions))

	gen := visualization.NewGenerator(&visualization.Options{Direction: cfg.Direction})
	diagram, err := gen.Generate(ctx, result)
	if err != nil {
		logger.Error("diagram generation failed", "error", err)
		return err
	}

	writer := report.NewWriter()
	if err := writer.Write(diagram, sourcePath, outputPath); err != nil {
		logger.Error("writing report failed", "path", outputPath, "error", err)
		return err
	}

	logger.Info("report written", "path", outputPath)
	return nil
}
