// Package check validates that translations preserve the structural
// markers of their source strings (escape sequences, inline markup,
// placeholders) and records findings on the catalog entries.
package check

import (
	"path/filepath"
	"strings"

	"github.com/minios-linux/pokit/catalog"
	"github.com/minios-linux/pokit/i18n"
)

// Result aggregates every finding for one entry.
type Result struct {
	Entry    *catalog.Entry
	Errors   []string
	Warnings []string
	// Line is the entry's line number in the loaded file, for
	// reporting.
	Line int
}

// HasErrors reports whether the result carries errors.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// HasWarnings reports whether the result carries warnings.
func (r *Result) HasWarnings() bool { return len(r.Warnings) > 0 }

// Checker runs the enabled validators over catalog entries and
// maintains the owned annotation blocks.
type Checker struct {
	cfg          Config
	escapes      EscapeValidator
	markup       MarkupValidator
	placeholders PlaceholderValidator
}

// New creates a checker for the given configuration.
func New(cfg Config) *Checker {
	c := &Checker{cfg: cfg}
	c.escapes = EscapeValidator{cfg: &c.cfg}
	c.markup = MarkupValidator{cfg: &c.cfg}
	c.placeholders = PlaceholderValidator{cfg: &c.cfg}
	return c
}

// Config returns the checker configuration.
func (c *Checker) Config() Config { return c.cfg }

// CheckEntry runs every enabled validator on one entry. It returns nil
// for entries with a blank translation, entries carrying the "fixed"
// skip flag, and entries without findings.
func (c *Checker) CheckEntry(e *catalog.Entry, lang string) *Result {
	if strings.TrimSpace(e.MsgStr) == "" {
		return nil
	}
	if e.HasFlagFold(catalog.FlagFixed) {
		return nil
	}

	var issues Issues
	if c.cfg.ShouldCheck(KindEscapes) {
		issues.merge(c.escapes.Validate(e.MsgID, e.MsgStr, lang))
	}
	if c.cfg.ShouldCheck(KindMarkup) {
		issues.merge(c.markup.Validate(e.MsgID, e.MsgStr))
	}
	if c.cfg.ShouldCheck(KindPlaceholders) {
		issues.merge(c.placeholders.Validate(e.MsgID, e.MsgStr))
	}

	if issues.Clean() {
		return nil
	}
	return &Result{
		Entry:    e,
		Errors:   issues.Errors,
		Warnings: issues.Warnings,
		Line:     e.Line,
	}
}

// CheckCollection checks every eligible entry of a catalog and updates
// the entries in place: stale owned annotations are always stripped
// (also from entries that are clean now), the fuzzy flag is raised on
// errors when enabled, and the owned annotation block is re-appended
// for entries with findings. Running it twice on an unchanged catalog
// produces byte-identical translator comments.
func (c *Checker) CheckCollection(col *catalog.Collection, lang string) []*Result {
	var results []*Result
	for _, e := range col.Entries {
		if strings.TrimSpace(e.MsgStr) == "" {
			continue
		}
		if e.HasFlagFold(catalog.FlagFixed) {
			continue
		}

		result := c.CheckEntry(e, lang)
		c.StripAnnotations(e)
		if result == nil {
			continue
		}
		results = append(results, result)
		c.Annotate(e, result)
	}
	return results
}

// StripAnnotations removes every owned annotation block from the
// entry's translator comments, leaving user lines untouched.
func (c *Checker) StripAnnotations(e *catalog.Entry) {
	if len(e.TranslatorComments) == 0 {
		return
	}
	kept := e.TranslatorComments[:0:0]
	for _, line := range e.TranslatorComments {
		if strings.HasPrefix(line, Marker) {
			continue
		}
		kept = append(kept, line)
	}
	if len(kept) == 0 {
		kept = nil
	}
	e.TranslatorComments = kept
}

// Annotate records a result on its entry: the fuzzy flag (errors only,
// when enabled) and the owned comment block with an errors section
// followed by a warnings section unless the level is lenient.
func (c *Checker) Annotate(e *catalog.Entry, result *Result) {
	if c.cfg.AddFuzzy && result.HasErrors() {
		e.AddFlag(catalog.FlagFuzzy)
	}
	if !c.cfg.Annotate {
		return
	}

	var block []string
	if result.HasErrors() {
		block = append(block, Marker+" "+i18n.T("=== ERRORS ==="))
		for _, msg := range result.Errors {
			block = append(block, Marker+"   • "+msg)
		}
	}
	if result.HasWarnings() && c.cfg.Level != LevelLenient {
		if len(block) > 0 {
			block = append(block, Marker)
		}
		block = append(block, Marker+" "+i18n.T("=== WARNINGS ==="))
		for _, msg := range result.Warnings {
			block = append(block, Marker+"   • "+msg)
		}
	}
	e.TranslatorComments = append(e.TranslatorComments, block...)
}

// ExportErrors builds a sibling collection holding only the
// error-bearing entries of the results. Entries with only warnings are
// excluded. The exported collection shares the source metadata.
func ExportErrors(col *catalog.Collection, results []*Result) *catalog.Collection {
	out := catalog.New()
	out.Metadata = append([]catalog.MetadataField(nil), col.Metadata...)
	for _, r := range results {
		if r.HasErrors() {
			out.Append(r.Entry)
		}
	}
	return out
}

// GuessLanguage infers the language hint from a catalog file name,
// e.g. "ja_JP.po" or "messages_zh.po".
func GuessLanguage(path string) string {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "ja") || strings.Contains(base, "_ja"):
		return "ja"
	case strings.HasPrefix(base, "zh") || strings.Contains(base, "_zh"):
		return "zh"
	}
	return ""
}
