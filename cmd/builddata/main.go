package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/vidarchive/mcp-server/internal/archive"
	"github.com/vidarchive/mcp-server/internal/site"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		dir        string
		output     string
		configPath string
		compact    bool
		watch      bool
	)
	flag.StringVar(&dir, "d", "", "directory containing markdown files")
	flag.StringVar(&dir, "directory", "", "directory containing markdown files")
	flag.StringVar(&output, "o", "", "output JSON file")
	flag.StringVar(&output, "output", "", "output JSON file")
	flag.StringVar(&configPath, "config", "", "site configuration file")
	flag.BoolVar(&compact, "minify", false, "write minified JSON")
	flag.BoolVar(&watch, "watch", false, "rebuild whenever markdown files change")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s [options]\n\nCompiles a directory of markdown files into the viewer's data.json.\n\nOptions:\n",
			os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, base, err := loadConfig(configPath)
	if err != nil {
		fmt.Printf("❌ Error: %v\n", err)
		return 1
	}
	if dir == "" {
		dir = cfg.MarkdownPath(base)
	}
	if output == "" {
		output = cfg.DataPath(base)
	}

	if watch {
		return watchAndBuild(dir, output, compact)
	}
	return buildOnce(dir, output, compact)
}

func loadConfig(path string) (site.Config, string, error) {
	if path != "" {
		cfg, err := site.Load(path)
		return cfg, filepath.Dir(path), err
	}
	cfg, err := site.LoadOptional(site.ConfigFile)
	return cfg, ".", err
}

func buildOnce(dir, output string, compact bool) int {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		fmt.Printf("❌ Error: Directory not found at '%s'\n", dir)
		return 0
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		absDir = dir
	}
	fmt.Printf("📁 Scanning directory: %s\n", absDir)

	files, err := archive.BuildData(dir, printf)
	switch {
	case errors.Is(err, archive.ErrNoMarkdownFiles):
		fmt.Println("❌ No markdown files found in the directory.")
		return 0
	case err != nil:
		fmt.Printf("❌ Error: %v\n", err)
		return 1
	}

	if err := archive.WriteJSON(output, files, compact); err != nil {
		fmt.Printf("\n❌ Error writing final JSON file: %v\n", err)
		return 1
	}

	absOut, err := filepath.Abs(output)
	if err != nil {
		absOut = output
	}
	fmt.Printf("\n🚀 Successfully compiled data for %d files into '%s'\n", len(files), absOut)
	return 0
}

func watchAndBuild(dir, output string, compact bool) int {
	if code := buildOnce(dir, output, compact); code != 0 {
		return code
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("\n👀 Watching %s for changes (Ctrl+C to stop)\n", dir)
	err := archive.Watch(ctx, dir, func() {
		fmt.Println()
		buildOnce(dir, output, compact)
	}, printf)
	if err != nil {
		fmt.Printf("❌ Watch error: %v\n", err)
		return 1
	}
	return 0
}

func printf(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}
