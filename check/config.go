package check

import (
	"fmt"
	"regexp"
)

// Level selects how aggressively the checker reports issues.
type Level string

const (
	// LevelStrict checks everything, including placeholder ordering.
	LevelStrict Level = "strict"
	// LevelNormal checks the common cases.
	LevelNormal Level = "normal"
	// LevelLenient reports only the minimum and omits warning sections.
	LevelLenient Level = "lenient"
)

// Kind identifies one validator.
type Kind string

const (
	KindEscapes      Kind = "escape_sequence"
	KindMarkup       Kind = "html_tag"
	KindPlaceholders Kind = "placeholder"
)

// Marker prefixes every translator-comment line owned by the checker.
// Owned lines are written and removed as a block, never mixed with
// user comment lines.
const Marker = "[pokit]"

// Config holds all checker tuning. The zero value is not usable; start
// from Default, Strict or Lenient.
type Config struct {
	Level   Level
	Enabled map[Kind]bool

	// ImportantEscapes always produce errors when their counts differ.
	ImportantEscapes map[string]bool
	// WarningOnlyEscapes produce no message at all; everything not
	// listed here or in ImportantEscapes produces a warning.
	WarningOnlyEscapes map[string]bool
	// LanguageIgnores extends WarningOnlyEscapes per language code.
	LanguageIgnores map[string]map[string]bool

	// StructuralTags restricts markup counting to these tag names.
	StructuralTags map[string]bool
	// IgnoreAttributeTags lists tags whose attributes may legitimately
	// change in a translation.
	IgnoreAttributeTags map[string]bool

	// PlaceholderPatterns are applied in order to extract placeholder
	// tokens.
	PlaceholderPatterns []*regexp.Regexp

	// AddFuzzy raises the fuzzy flag on entries with errors.
	AddFuzzy bool
	// Annotate appends the owned comment block to failing entries.
	Annotate bool
	// ExportErrors enables writing the error-bearing subset to a
	// sibling catalog.
	ExportErrors bool
}

// DefaultPlaceholderPatterns returns the built-in placeholder pattern
// list: C printf, positional printf, brace, template-brace and
// hash-brace styles.
func DefaultPlaceholderPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`%[diouxXeEfFgGaAcsp%]`),
		regexp.MustCompile(`%\d+\$[diouxXeEfFgGaAcsp]`),
		regexp.MustCompile(`\{[^}]+\}`),
		regexp.MustCompile(`\$\{[^}]+\}`),
		regexp.MustCompile(`#\{[^}]+\}`),
	}
}

// Default returns the normal-level configuration.
func Default() Config {
	return Config{
		Level: LevelNormal,
		Enabled: map[Kind]bool{
			KindEscapes:      true,
			KindMarkup:       true,
			KindPlaceholders: true,
		},
		ImportantEscapes: setOf(`\n`, `\t`, `\"`, `\\`),
		WarningOnlyEscapes: setOf(
			`\r`, `\(`, `\)`, `\*`, `\[`, `\]`, `\|`, `\/`, `\u`, `\{`, `\}`,
		),
		LanguageIgnores: map[string]map[string]bool{
			"ja": setOf(`\（`, `\）`, `\「`, `\」`, `\『`, `\』`),
			"zh": setOf(`\（`, `\）`, `\「`, `\」`, `\【`, `\】`),
		},
		StructuralTags: setOf(
			"p", "div", "span", "b", "i", "u", "strong", "em",
			"a", "br", "hr", "img", "table", "tr", "td", "th",
			"ul", "ol", "li", "dl", "dt", "dd",
			"h1", "h2", "h3", "h4", "h5", "h6",
			"pre", "code", "tt", "blockquote",
		),
		IgnoreAttributeTags: setOf("a", "img"),
		PlaceholderPatterns: DefaultPlaceholderPatterns(),
		AddFuzzy:            true,
		Annotate:            true,
		ExportErrors:        true,
	}
}

// Strict returns the strict-level configuration: every escape mismatch
// is reported and placeholder order is checked.
func Strict() Config {
	cfg := Default()
	cfg.Level = LevelStrict
	cfg.WarningOnlyEscapes = map[string]bool{}
	return cfg
}

// Lenient returns the lenient-level configuration: placeholder checks
// are off and only the essential escapes matter.
func Lenient() Config {
	cfg := Default()
	cfg.Level = LevelLenient
	cfg.Enabled = map[Kind]bool{
		KindEscapes: true,
		KindMarkup:  true,
	}
	cfg.ImportantEscapes = setOf(`\n`, `\t`)
	return cfg
}

// ByLevel returns the configuration for a level name.
func ByLevel(level string) (Config, error) {
	switch Level(level) {
	case LevelStrict:
		return Strict(), nil
	case LevelNormal, "":
		return Default(), nil
	case LevelLenient:
		return Lenient(), nil
	}
	return Config{}, fmt.Errorf("unknown check level %q", level)
}

// ShouldCheck reports whether a validator is enabled.
func (c *Config) ShouldCheck(k Kind) bool { return c.Enabled[k] }

// IgnoredEscapes returns the escape tokens that never produce a
// message for the given language.
func (c *Config) IgnoredEscapes(lang string) map[string]bool {
	ignored := make(map[string]bool, len(c.WarningOnlyEscapes))
	for seq := range c.WarningOnlyEscapes {
		ignored[seq] = true
	}
	for seq := range c.LanguageIgnores[lang] {
		ignored[seq] = true
	}
	return ignored
}

func setOf(items ...string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
