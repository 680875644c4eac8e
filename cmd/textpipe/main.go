// Command textpipe extracts plain text from documents.
//
// Paths given as arguments are processed in order; directories are walked
// recursively. Each document's normalized text lands next to it (or under
// -out) as <name>.txt. With -mcp the process instead serves the extraction
// tools over MCP stdio.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/textpipe/xtract"
)

func main() {
	var (
		cfgPath  = flag.String("config", "", "path to YAML config file")
		outDir   = flag.String("out", "", "directory for extracted .txt files (default: next to source)")
		mcpServe = flag.Bool("mcp", false, "serve extraction tools over MCP stdio")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := xtract.DefaultConfig()
	if *cfgPath != "" {
		var err error
		if cfg, err = xtract.LoadConfig(*cfgPath); err != nil {
			slog.Error("config", "error", err)
			os.Exit(1)
		}
	}
	cfg.Logger = logger

	pipe, err := xtract.New(*cfg)
	if err != nil {
		slog.Error("pipeline init", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *mcpServe {
		srv := mcp.NewServer(&mcp.Implementation{
			Name:    "textpipe",
			Version: "1.0.0",
		}, nil)
		pipe.RegisterMCP(srv)
		slog.Info("mcp stdio serving")
		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
			slog.Error("mcp serve", "error", err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: textpipe [flags] file-or-dir ...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	files, err := collectFiles(flag.Args())
	if err != nil {
		slog.Error("collect inputs", "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		slog.Error("no input files found")
		os.Exit(1)
	}

	failed := 0
	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		if err := processFile(ctx, pipe, path, *outDir); err != nil {
			slog.Error("extract failed", "file", path, "error", err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// collectFiles expands arguments into a flat file list, walking directories.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && !strings.HasPrefix(d.Name(), ".") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func processFile(ctx context.Context, pipe *xtract.Pipeline, path, outDir string) error {
	text, err := pipe.ExtractFile(ctx, path)
	if err != nil {
		return err
	}

	out := strings.TrimSuffix(path, filepath.Ext(path)) + ".txt"
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return err
		}
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		out = filepath.Join(outDir, base+".txt")
	}

	if err := os.WriteFile(out, []byte(text), 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	slog.Info("extracted", "file", path, "out", out, "chars", len(text))
	return nil
}
