// Package site locates an archive site on disk, loads its configuration,
// and reports what the site directory contains.
package site

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFile is the conventional configuration filename looked up in the
// site directory.
const ConfigFile = "site.json"

// Config describes one archive site: where its markdown lives and where
// the generated artifacts go. Relative paths are resolved against the
// site directory.
type Config struct {
	Title       string `json:"title,omitempty"`
	MarkdownDir string `json:"markdownDir,omitempty"`
	DataFile    string `json:"dataFile,omitempty"`
	IndexFile   string `json:"indexFile,omitempty"`
	Listen      string `json:"listen,omitempty"`
}

// Defaults returns the conventional layout: a markdown/ directory with
// data.json and index.json at the site root.
func Defaults() Config {
	return Config{
		MarkdownDir: "markdown",
		DataFile:    "data.json",
		IndexFile:   "index.json",
		Listen:      ":8787",
	}
}

// Load reads a site configuration file. Unset fields are filled from
// Defaults.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg.withDefaults(), nil
}

// LoadOptional behaves like Load but returns Defaults when the file does
// not exist.
func LoadOptional(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Defaults(), nil
	}
	return Load(path)
}

func (c Config) withDefaults() Config {
	d := Defaults()
	if c.MarkdownDir == "" {
		c.MarkdownDir = d.MarkdownDir
	}
	if c.DataFile == "" {
		c.DataFile = d.DataFile
	}
	if c.IndexFile == "" {
		c.IndexFile = d.IndexFile
	}
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	return c
}

// MarkdownPath resolves the configured markdown directory against the
// site directory.
func (c Config) MarkdownPath(dir string) string {
	return resolvePath(dir, c.MarkdownDir)
}

// DataPath resolves the configured data file against the site directory.
func (c Config) DataPath(dir string) string {
	return resolvePath(dir, c.DataFile)
}

// IndexPath resolves the configured index file against the site
// directory.
func (c Config) IndexPath(dir string) string {
	return resolvePath(dir, c.IndexFile)
}

func resolvePath(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
