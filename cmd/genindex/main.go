package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

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
		metadata   bool
		textFile   bool
		verbose    bool
		dryRun     bool
		compact    bool
	)
	flag.StringVar(&dir, "d", "", "directory containing markdown files (default: ./markdown)")
	flag.StringVar(&dir, "directory", "", "directory containing markdown files (default: ./markdown)")
	flag.StringVar(&output, "o", "", "output path for index.json (default: <directory>/index.json)")
	flag.StringVar(&output, "output", "", "output path for index.json (default: <directory>/index.json)")
	flag.StringVar(&configPath, "config", "", "site configuration file")
	flag.BoolVar(&metadata, "m", false, "include file metadata in index.json")
	flag.BoolVar(&metadata, "metadata", false, "include file metadata in index.json")
	flag.BoolVar(&textFile, "t", false, "also create files.txt alongside index.json")
	flag.BoolVar(&textFile, "text-file", false, "also create files.txt alongside index.json")
	flag.BoolVar(&verbose, "v", false, "verbose output")
	flag.BoolVar(&verbose, "verbose", false, "verbose output")
	flag.BoolVar(&dryRun, "dry-run", false, "show what would be done without creating files")
	flag.BoolVar(&compact, "minify", false, "write minified JSON")
	flag.Usage = usage
	flag.Parse()

	cfg, base, found, err := loadConfig(configPath)
	if err != nil {
		fmt.Printf("❌ Error: %v\n", err)
		return 1
	}
	if dir == "" {
		dir = cfg.MarkdownPath(base)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		absDir = dir
	}

	if output == "" {
		if found {
			output = cfg.IndexPath(base)
		} else {
			output = filepath.Join(absDir, "index.json")
		}
	}
	outputPath, err := filepath.Abs(output)
	if err != nil {
		outputPath = output
	}

	if verbose {
		fmt.Printf("📁 Scanning directory: %s\n", absDir)
		fmt.Printf("📄 Output path: %s\n", outputPath)
		fmt.Println()
	}

	names, err := archive.IndexNames(absDir)
	switch {
	case errors.Is(err, archive.ErrMissingDir):
		fmt.Printf("❌ Directory '%s' does not exist!\n", absDir)
	case err != nil:
		fmt.Printf("❌ Error scanning directory: %v\n", err)
	}

	if len(names) == 0 {
		fmt.Println("❌ No markdown files found!")
		fmt.Printf("   Make sure .md files exist in: %s\n", absDir)
		return 1
	}

	fmt.Printf("✅ Found %d markdown files:\n", len(names))
	for i, name := range names {
		if verbose {
			sizeKB := float64(archive.FileSize(absDir, name)) / 1024
			fmt.Printf("   %2d. %s (%.1f KB)\n", i+1, name, sizeKB)
		} else {
			fmt.Printf("   %2d. %s\n", i+1, name)
		}
	}
	fmt.Println()

	if dryRun {
		fmt.Println("🔍 DRY RUN - No files will be created")
		fmt.Printf("Would create: %s\n", outputPath)
		if textFile {
			fmt.Printf("Would create: %s\n", archive.TextListPath(outputPath))
		}
		return 0
	}

	var payload any
	if metadata {
		payload = archive.BuildIndexMetadata(absDir, names, time.Now())
	} else {
		payload = names
	}

	if err := archive.WriteJSON(outputPath, payload, compact); err != nil {
		fmt.Printf("❌ Error writing index.json: %v\n", err)
		fmt.Println("❌ Failed to create index.json")
		return 1
	}
	fmt.Printf("✅ Created index.json: %s\n", outputPath)

	if textFile {
		txtPath := archive.TextListPath(outputPath)
		if err := archive.WriteTextList(txtPath, names); err != nil {
			fmt.Printf("❌ Error writing files.txt: %v\n", err)
			fmt.Println("❌ Failed to create files.txt")
		} else {
			fmt.Printf("✅ Created files.txt: %s\n", txtPath)
		}
	}

	fmt.Println()
	fmt.Println("🚀 Ready for deployment!")
	fmt.Println("   Upload your project folder to Cloudflare Pages")
	fmt.Printf("   Your markdown viewer will automatically load all %d files\n", len(names))
	return 0
}

func loadConfig(path string) (site.Config, string, bool, error) {
	if path != "" {
		cfg, err := site.Load(path)
		return cfg, filepath.Dir(path), err == nil, err
	}
	if _, err := os.Stat(site.ConfigFile); err != nil {
		return site.Defaults(), ".", false, nil
	}
	cfg, err := site.Load(site.ConfigFile)
	return cfg, ".", err == nil, err
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [options]\n\nGenerates index.json for the markdown viewer.\n\nOptions:\n", os.Args[0])
	flag.PrintDefaults()
	fmt.Fprintf(out, "\nExamples:\n")
	fmt.Fprintf(out, "  %s                # Use default ./markdown directory\n", os.Args[0])
	fmt.Fprintf(out, "  %s -d ./docs      # Use custom directory\n", os.Args[0])
	fmt.Fprintf(out, "  %s -m             # Include metadata in index\n", os.Args[0])
	fmt.Fprintf(out, "  %s -t             # Also create files.txt\n", os.Args[0])
	fmt.Fprintf(out, "  %s -v             # Verbose output\n", os.Args[0])
}
