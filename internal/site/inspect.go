package site

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vidarchive/mcp-server/internal/archive"
)

// Status reports what an archive site directory contains and whether the
// generated artifacts are usable.
type Status struct {
	Dir           string   `json:"dir"`
	Title         string   `json:"title,omitempty"`
	HasConfig     bool     `json:"has_config"`
	MarkdownDir   string   `json:"markdown_dir"`
	MarkdownFiles int      `json:"markdown_files"`
	HasData       bool     `json:"has_data"`
	DataFiles     int      `json:"data_files"`
	DataLinks     int      `json:"data_links"`
	DataStale     bool     `json:"data_stale"`
	HasIndex      bool     `json:"has_index"`
	Ready         bool     `json:"ready"`
	Problems      []string `json:"problems,omitempty"`
}

// Inspect examines dir as an archive site and reports its state. It
// never fails; anything wrong surfaces in the returned Problems.
func Inspect(dir string) *Status {
	status := &Status{Dir: dir}

	cfg, err := LoadOptional(filepath.Join(dir, ConfigFile))
	if err != nil {
		status.Problems = append(status.Problems, fmt.Sprintf("invalid %s: %v", ConfigFile, err))
		cfg = Defaults()
	} else if _, statErr := os.Stat(filepath.Join(dir, ConfigFile)); statErr == nil {
		status.HasConfig = true
	}
	status.Title = cfg.Title
	status.MarkdownDir = cfg.MarkdownDir

	mdDir := cfg.MarkdownPath(dir)
	names, err := archive.IndexNames(mdDir)
	switch {
	case err != nil:
		status.Problems = append(status.Problems, fmt.Sprintf("markdown directory %s is missing", cfg.MarkdownDir))
	case len(names) == 0:
		status.Problems = append(status.Problems, fmt.Sprintf("no markdown files in %s", cfg.MarkdownDir))
	default:
		status.MarkdownFiles = len(names)
	}

	dataPath := cfg.DataPath(dir)
	if _, err := os.Stat(dataPath); err != nil {
		status.Problems = append(status.Problems, fmt.Sprintf("%s is missing (run builddata)", cfg.DataFile))
	} else if files, err := archive.ReadData(dataPath); err != nil {
		status.Problems = append(status.Problems, fmt.Sprintf("%s is invalid: %v", cfg.DataFile, err))
	} else {
		status.HasData = true
		status.DataFiles = len(files)
		for _, f := range files {
			status.DataLinks += f.LinkCount
		}
	}

	if status.HasData && status.MarkdownFiles > 0 {
		dataTime := modTime(dataPath)
		for _, name := range names {
			if modTime(filepath.Join(mdDir, name)).After(dataTime) {
				status.DataStale = true
				break
			}
		}
		if status.DataStale {
			status.Problems = append(status.Problems, fmt.Sprintf("%s is older than the markdown it was built from", cfg.DataFile))
		}
	}

	if _, err := os.Stat(cfg.IndexPath(dir)); err != nil {
		status.Problems = append(status.Problems, fmt.Sprintf("%s is missing (run genindex)", cfg.IndexFile))
	} else {
		status.HasIndex = true
	}

	status.Ready = status.MarkdownFiles > 0 && status.HasData && status.HasIndex && !status.DataStale
	return status
}

// StaleAgainst reports whether target is missing or older than source. A
// missing source never makes the target stale.
func StaleAgainst(target, source string) bool {
	t, err := os.Stat(target)
	if err != nil {
		return true
	}
	s, err := os.Stat(source)
	if err != nil {
		return false
	}
	return t.ModTime().Before(s.ModTime())
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
