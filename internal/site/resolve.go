package site

import (
	"os"
	"path/filepath"
)

// EnvSiteDir is the environment override for the site directory.
const EnvSiteDir = "VIDARCHIVE_SITE"

// Resolve picks the site directory to operate on: the VIDARCHIVE_SITE
// environment variable when set, otherwise the working directory when it
// carries a site marker, otherwise the executable's directory when that
// does, otherwise the working directory.
func Resolve() string {
	if dir := os.Getenv(EnvSiteDir); dir != "" {
		return dir
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	if looksLikeSite(cwd) {
		return cwd
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		if looksLikeSite(exeDir) {
			return exeDir
		}
	}
	return cwd
}

// looksLikeSite reports whether dir carries any archive site marker.
func looksLikeSite(dir string) bool {
	for _, marker := range []string{ConfigFile, "data.json", "markdown"} {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}
