package check

import (
	"html"
	"regexp"
	"strings"

	"github.com/minios-linux/pokit/i18n"
)

// Issues is the outcome of one validator run.
type Issues struct {
	Errors   []string
	Warnings []string
}

// Clean reports whether the validator found nothing.
func (i Issues) Clean() bool {
	return len(i.Errors) == 0 && len(i.Warnings) == 0
}

func (i *Issues) merge(other Issues) {
	i.Errors = append(i.Errors, other.Errors...)
	i.Warnings = append(i.Warnings, other.Warnings...)
}

// tally counts occurrences while preserving first-appearance order, so
// that messages come out in a deterministic order run after run.
type tally struct {
	order  []string
	counts map[string]int
}

func tallyOf(items []string) tally {
	t := tally{counts: make(map[string]int, len(items))}
	for _, item := range items {
		if _, seen := t.counts[item]; !seen {
			t.order = append(t.order, item)
		}
		t.counts[item]++
	}
	return t
}

// ---------------------------------------------------------------------------
// Escape sequences
// ---------------------------------------------------------------------------

// EscapeValidator compares the escape-sequence population of a source
// string and its translation.
type EscapeValidator struct {
	cfg *Config
}

// ExtractEscapes tokenizes the escape sequences of an entity-decoded
// string, left to right: "\u" plus four characters and "\x" plus two
// characters are single tokens, a doubled backslash is one token, and
// any other backslash pairs with the next character.
func ExtractEscapes(text string) []string {
	runes := []rune(html.UnescapeString(text))

	var sequences []string
	for i := 0; i < len(runes); {
		if runes[i] != '\\' || i+1 >= len(runes) {
			i++
			continue
		}
		next := runes[i+1]
		switch {
		case next == 'u' && i+5 < len(runes):
			sequences = append(sequences, string(runes[i:i+6]))
			i += 6
		case next == 'x' && i+3 < len(runes):
			sequences = append(sequences, string(runes[i:i+4]))
			i += 4
		case next == '\\':
			sequences = append(sequences, `\\`)
			i += 2
		default:
			sequences = append(sequences, `\`+string(next))
			i += 2
		}
	}
	return sequences
}

// Validate compares escape sequences. Important sequences escalate to
// errors; sequences in the (language-aware) ignore set produce nothing;
// everything else warns. Blank translations are skipped.
func (v *EscapeValidator) Validate(msgid, msgstr, lang string) Issues {
	if strings.TrimSpace(msgstr) == "" {
		return Issues{}
	}

	source := tallyOf(ExtractEscapes(msgid))
	translated := tallyOf(ExtractEscapes(msgstr))
	ignored := v.cfg.IgnoredEscapes(lang)

	var issues Issues

	report := func(seq string, diff int, missing bool) {
		switch {
		case v.cfg.ImportantEscapes[seq] && missing:
			issues.Errors = append(issues.Errors,
				i18n.T("Missing important escape character: '%s' (%d time(s))", seq, diff))
		case v.cfg.ImportantEscapes[seq]:
			issues.Errors = append(issues.Errors,
				i18n.T("Extra important escape character: '%s' (%d time(s))", seq, diff))
		case ignored[seq]:
			// suppressed
		case missing:
			issues.Warnings = append(issues.Warnings,
				i18n.T("Missing escape character: '%s' (%d time(s))", seq, diff))
		default:
			issues.Warnings = append(issues.Warnings,
				i18n.T("Extra escape character: '%s' (%d time(s))", seq, diff))
		}
	}

	for _, seq := range source.order {
		if diff := source.counts[seq] - translated.counts[seq]; diff > 0 {
			report(seq, diff, true)
		}
	}
	for _, seq := range translated.order {
		if diff := translated.counts[seq] - source.counts[seq]; diff > 0 {
			report(seq, diff, false)
		}
	}

	return issues
}

// ---------------------------------------------------------------------------
// Inline markup
// ---------------------------------------------------------------------------

// tagPattern captures the closing indicator, the tag name, the
// attribute text and the self-closing indicator of an inline tag.
var tagPattern = regexp.MustCompile(`<(/?)([a-zA-Z][a-zA-Z0-9]*)((?:\s+[^>]+)?)\s*(/?)>`)

const (
	tagOpening     = "opening"
	tagClosing     = "closing"
	tagSelfClosing = "self-closing"
)

type markupTag struct {
	name string
	kind string
}

// MarkupValidator compares the inline-markup structure of a source
// string and its translation.
type MarkupValidator struct {
	cfg *Config
}

// extractTags returns the inline tags of an entity-decoded string in
// order of appearance, with case-folded names.
func extractTags(text string) []markupTag {
	text = html.UnescapeString(text)

	var tags []markupTag
	for _, m := range tagPattern.FindAllStringSubmatch(text, -1) {
		kind := tagOpening
		if m[1] == "/" {
			kind = tagClosing
		} else if m[4] == "/" {
			kind = tagSelfClosing
		}
		tags = append(tags, markupTag{name: strings.ToLower(m[2]), kind: kind})
	}
	return tags
}

// checkStructure runs the stack-based well-formedness check: closing
// tags must match the innermost open tag, and every opened tag must be
// closed by the end of the string.
func checkStructure(tags []markupTag) []string {
	var errors []string
	var stack []markupTag

	for _, tag := range tags {
		switch tag.kind {
		case tagOpening:
			stack = append(stack, tag)
		case tagClosing:
			if len(stack) == 0 {
				errors = append(errors,
					i18n.T("Closing tag without opening tag: </%s>", tag.name))
			} else if stack[len(stack)-1].name != tag.name {
				errors = append(errors,
					i18n.T("Incorrect tag nesting: <%s>... but </%s>", stack[len(stack)-1].name, tag.name))
			} else {
				stack = stack[:len(stack)-1]
			}
		}
	}

	for _, tag := range stack {
		errors = append(errors, i18n.T("Unclosed tag: <%s>", tag.name))
	}
	return errors
}

// Validate counts structural tags per (kind, name) in both strings and
// reports every count mismatch. It also checks well-formedness of both
// strings; structure errors in the translation are only reported when
// the source itself is well-formed, so a malformed source never blames
// the translation. Blank translations are skipped.
func (v *MarkupValidator) Validate(msgid, msgstr string) Issues {
	if strings.TrimSpace(msgstr) == "" {
		return Issues{}
	}

	sourceTags := extractTags(msgid)
	translatedTags := extractTags(msgstr)

	var issues Issues

	source := tallyOf(v.structuralKeys(sourceTags))
	translated := tallyOf(v.structuralKeys(translatedTags))

	display := func(key string) string {
		kind, name, _ := strings.Cut(key, ":")
		if kind == tagOpening {
			return name
		}
		return "/" + name
	}

	for _, key := range source.order {
		if diff := source.counts[key] - translated.counts[key]; diff > 0 {
			issues.Errors = append(issues.Errors,
				i18n.T("Missing HTML tag: <%s> (%d time(s))", display(key), diff))
		}
	}
	for _, key := range translated.order {
		if diff := translated.counts[key] - source.counts[key]; diff > 0 {
			issues.Errors = append(issues.Errors,
				i18n.T("Extra HTML tag: <%s> (%d time(s))", display(key), diff))
		}
	}

	if v.cfg.Level == LevelNormal || v.cfg.Level == LevelStrict {
		sourceStructure := checkStructure(sourceTags)
		translatedStructure := checkStructure(translatedTags)
		if len(translatedStructure) > 0 && len(sourceStructure) == 0 {
			issues.Errors = append(issues.Errors, translatedStructure...)
		}
	}

	return issues
}

func (v *MarkupValidator) structuralKeys(tags []markupTag) []string {
	var keys []string
	for _, tag := range tags {
		if v.cfg.StructuralTags[tag.name] {
			keys = append(keys, tag.kind+":"+tag.name)
		}
	}
	return keys
}

// ---------------------------------------------------------------------------
// Placeholders
// ---------------------------------------------------------------------------

// PlaceholderValidator compares the ordered placeholder tokens of a
// source string and its translation.
type PlaceholderValidator struct {
	cfg *Config
}

// ExtractPlaceholders applies the configured patterns in order and
// returns every matched token.
func (v *PlaceholderValidator) ExtractPlaceholders(text string) []string {
	var placeholders []string
	for _, pattern := range v.cfg.PlaceholderPatterns {
		placeholders = append(placeholders, pattern.FindAllString(text, -1)...)
	}
	return placeholders
}

// Validate reports per-token count deltas as errors. When the two
// token lists hold the same multiset in a different order, strict mode
// emits an order warning (never an error). Blank translations are
// skipped.
func (v *PlaceholderValidator) Validate(msgid, msgstr string) Issues {
	if strings.TrimSpace(msgstr) == "" {
		return Issues{}
	}

	sourceList := v.ExtractPlaceholders(msgid)
	translatedList := v.ExtractPlaceholders(msgstr)
	if equalStrings(sourceList, translatedList) {
		return Issues{}
	}

	var issues Issues

	source := tallyOf(sourceList)
	translated := tallyOf(translatedList)

	for _, ph := range source.order {
		if diff := source.counts[ph] - translated.counts[ph]; diff > 0 {
			issues.Errors = append(issues.Errors,
				i18n.T("Missing placeholder: '%s' (%d time(s))", ph, diff))
		}
	}
	for _, ph := range translated.order {
		if diff := translated.counts[ph] - source.counts[ph]; diff > 0 {
			issues.Errors = append(issues.Errors,
				i18n.T("Extra placeholder: '%s' (%d time(s))", ph, diff))
		}
	}

	if v.cfg.Level == LevelStrict && sameMultiset(source, translated) {
		issues.Warnings = append(issues.Warnings, i18n.T("Placeholder order differs"))
	}

	return issues
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameMultiset(a, b tally) bool {
	if len(a.counts) != len(b.counts) {
		return false
	}
	for k, n := range a.counts {
		if b.counts[k] != n {
			return false
		}
	}
	return true
}
