// Package config — .pokit.yaml configuration file support.
//
// When a .pokit.yaml file exists in the repository root, it supplies
// the catalog metadata identity and checker tuning. Every field is
// optional; absent fields fall back to built-in defaults.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/minios-linux/pokit/catalog"
	"github.com/minios-linux/pokit/check"
)

// FileName is the project configuration file name.
const FileName = ".pokit.yaml"

// File is the top-level .pokit.yaml structure.
type File struct {
	// ProjectID is force-set as Project-Id-Version on format.
	ProjectID string `yaml:"project_id,omitempty"`
	// BugsAddress is force-set as Report-Msgid-Bugs-To on format.
	BugsAddress string `yaml:"bugs_address,omitempty"`
	// FeedVersion is the default suffix for unknown/mismatch feeds.
	FeedVersion string `yaml:"feed_version,omitempty"`
	// Checks tunes the consistency checker.
	Checks Checks `yaml:"checks,omitempty"`
}

// Checks is the checker tuning block.
type Checks struct {
	// Level: "strict", "normal" (default) or "lenient".
	Level string `yaml:"level,omitempty"`
	// Disable lists validators to turn off: "escape_sequence",
	// "html_tag", "placeholder".
	Disable []string `yaml:"disable,omitempty"`
	// Language forces the language hint instead of inferring it from
	// the file name.
	Language string `yaml:"language,omitempty"`

	// AddFuzzy toggles raising the fuzzy flag on errors.
	AddFuzzy *bool `yaml:"add_fuzzy,omitempty"`
	// Annotate toggles writing the checker comment block.
	Annotate *bool `yaml:"annotate,omitempty"`
	// ExportErrors toggles exporting error-bearing entries.
	ExportErrors *bool `yaml:"export_errors,omitempty"`

	// ImportantEscapes extends the always-error escape set.
	ImportantEscapes []string `yaml:"important_escapes,omitempty"`
	// IgnoredEscapes extends the never-reported escape set.
	IgnoredEscapes []string `yaml:"ignored_escapes,omitempty"`
	// StructuralTags extends the counted markup tag set.
	StructuralTags []string `yaml:"structural_tags,omitempty"`
	// PlaceholderPatterns appends extra placeholder regexps.
	PlaceholderPatterns []string `yaml:"placeholder_patterns,omitempty"`
}

// LoadFile reads a .pokit.yaml. A missing file is not an error; it
// returns (nil, nil).
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &f, nil
}

// MetadataTemplate builds the catalog metadata whitelist from the
// project file (or the defaults when no file exists).
func (p *Project) MetadataTemplate() catalog.MetadataTemplate {
	projectID, bugsAddress := "", ""
	if p.File != nil {
		projectID = p.File.ProjectID
		bugsAddress = p.File.BugsAddress
	}
	return catalog.NewMetadataTemplate(projectID, bugsAddress)
}

// CheckConfig builds the checker configuration: the level selects the
// base config, then the project file tuning is applied on top.
func (p *Project) CheckConfig(level string) (check.Config, error) {
	var tuning Checks
	if p.File != nil {
		tuning = p.File.Checks
	}
	if level == "" {
		level = tuning.Level
	}

	cfg, err := check.ByLevel(level)
	if err != nil {
		return check.Config{}, err
	}

	for _, kind := range tuning.Disable {
		delete(cfg.Enabled, check.Kind(kind))
	}
	for _, seq := range tuning.ImportantEscapes {
		cfg.ImportantEscapes[seq] = true
	}
	for _, seq := range tuning.IgnoredEscapes {
		cfg.WarningOnlyEscapes[seq] = true
	}
	for _, tag := range tuning.StructuralTags {
		cfg.StructuralTags[tag] = true
	}
	for _, pattern := range tuning.PlaceholderPatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return check.Config{}, fmt.Errorf("placeholder pattern %q: %w", pattern, err)
		}
		cfg.PlaceholderPatterns = append(cfg.PlaceholderPatterns, re)
	}
	if tuning.AddFuzzy != nil {
		cfg.AddFuzzy = *tuning.AddFuzzy
	}
	if tuning.Annotate != nil {
		cfg.Annotate = *tuning.Annotate
	}
	if tuning.ExportErrors != nil {
		cfg.ExportErrors = *tuning.ExportErrors
	}

	return cfg, nil
}

// CheckLanguage returns the forced language hint, or "".
func (p *Project) CheckLanguage() string {
	if p.File != nil {
		return p.File.Checks.Language
	}
	return ""
}
