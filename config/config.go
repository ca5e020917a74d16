// Package config implements repository layout discovery for
// translation catalogs: the po/ directory, the master template, the
// locale catalogs, and the version-suffixed correction/addition feed
// files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DefaultFeedVersion is the feed suffix used when neither the project
// file nor the command line specifies one.
const DefaultFeedVersion = "24_1"

// Project holds the resolved repository layout.
type Project struct {
	// Root is the repository root directory.
	Root string
	// PODir is the directory containing the catalogs.
	PODir string
	// POTFile is the master template path.
	POTFile string
	// FeedVersion is the suffix of the unknown/mismatch feed files,
	// e.g. "24_1".
	FeedVersion string
	// File is the loaded .pokit.yaml, or nil when absent.
	File *File
}

// Detect resolves the project layout under root. The po/ directory
// must exist; everything else is optional.
func Detect(root string) (*Project, error) {
	if root == "" {
		root = "."
	}

	p := &Project{
		Root:        root,
		PODir:       filepath.Join(root, "po"),
		FeedVersion: DefaultFeedVersion,
	}

	info, err := os.Stat(p.PODir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("no po directory found under %s", root)
	}
	p.POTFile = filepath.Join(p.PODir, "messages.pot")

	file, err := LoadFile(filepath.Join(root, FileName))
	if err != nil {
		return nil, err
	}
	p.File = file
	if file != nil && file.FeedVersion != "" {
		p.FeedVersion = file.FeedVersion
	}

	return p, nil
}

// POFiles returns the locale catalogs, sorted. Locale catalogs are
// named like "ja_JP.po"; the template and feed files are excluded.
func (p *Project) POFiles() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(p.PODir, "??_??.po"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// UnknownFile returns the path of the addition feed for the configured
// version.
func (p *Project) UnknownFile() string {
	return filepath.Join(p.PODir, "unknown."+p.FeedVersion)
}

// MismatchFile returns the path of the correction feed for the
// configured version.
func (p *Project) MismatchFile() string {
	return filepath.Join(p.PODir, "mismatch."+p.FeedVersion)
}
