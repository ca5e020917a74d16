package merge

import (
	"regexp"
	"strings"

	"github.com/minios-linux/pokit/catalog"
)

// Maintenance passes over a single catalog. Each returns the number of
// entries it changed and skips obsolete and header-like entries.

var trailingPlaceholder = regexp.MustCompile(`%\d+$`)

// CompressContexts rewrites contexts that end with the quoted msgid:
// the redundant quoted text is dropped and the identity sentinel is
// appended, turning the entry into a composite-identity entry.
func CompressContexts(c *catalog.Collection) int {
	changed := 0
	for _, e := range c.Entries {
		if e.Obsolete || e.MsgID == "" || e.MsgCtxt == "" {
			continue
		}
		quoted := `"` + e.MsgID + `"`
		if strings.HasSuffix(e.MsgCtxt, quoted) {
			e.MsgCtxt = e.MsgCtxt[:len(e.MsgCtxt)-len(quoted)] + catalog.KeySentinel
			changed++
		}
	}
	return changed
}

// EnsureColonSuffix appends the identity sentinel to every context
// that lacks it, making all identities composite.
func EnsureColonSuffix(c *catalog.Collection) int {
	changed := 0
	for _, e := range c.Entries {
		if e.Obsolete || e.MsgID == "" || e.MsgCtxt == "" {
			continue
		}
		if !strings.HasSuffix(e.MsgCtxt, catalog.KeySentinel) {
			e.MsgCtxt += catalog.KeySentinel
			changed++
		}
	}
	return changed
}

// StripContextPlaceholders removes trailing positional placeholders
// (e.g. "%1") from contexts.
func StripContextPlaceholders(c *catalog.Collection) int {
	changed := 0
	for _, e := range c.Entries {
		if e.Obsolete || e.MsgID == "" || e.MsgCtxt == "" {
			continue
		}
		stripped := trailingPlaceholder.ReplaceAllString(e.MsgCtxt, "")
		if stripped != e.MsgCtxt {
			e.MsgCtxt = stripped
			changed++
		}
	}
	return changed
}

// normalizeEllipsis treats "...", "…" and the literal escape
// "\u2026" as equivalent.
func normalizeEllipsis(text string) string {
	text = strings.ReplaceAll(text, "…", "...")
	return strings.ReplaceAll(text, `\u2026`, "...")
}

// PropagateEllipsisTranslations copies translations between entries
// that differ only in their ellipsis spelling: within each
// (context, normalized msgid) group, the first translated entry fills
// in the untranslated ones. Returns the number of entries filled.
func PropagateEllipsisTranslations(c *catalog.Collection) int {
	type groupKey struct {
		msgctxt string
		msgid   string
	}

	var order []groupKey
	groups := make(map[groupKey][]*catalog.Entry)
	for _, e := range c.Entries {
		if e.Obsolete || e.MsgID == "" {
			continue
		}
		k := groupKey{msgctxt: e.MsgCtxt, msgid: normalizeEllipsis(e.MsgID)}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], e)
	}

	applied := 0
	for _, k := range order {
		entries := groups[k]
		var source *catalog.Entry
		for _, e := range entries {
			if e.Translated() {
				source = e
				break
			}
		}
		if source == nil {
			continue
		}
		for _, target := range entries {
			if target == source || target.Translated() {
				continue
			}
			copyTranslation(source, target)
			applied++
		}
	}
	return applied
}

func copyTranslation(source, target *catalog.Entry) {
	if len(source.MsgStrPlural) > 0 {
		target.MsgStrPlural = make(map[int]string, len(source.MsgStrPlural))
		for i, v := range source.MsgStrPlural {
			target.MsgStrPlural[i] = v
		}
		target.MsgStr = ""
		return
	}
	target.MsgStr = source.MsgStr
}

// CleanupObsoleteBlank drops obsolete entries that carry no translation
// text at all. Returns the number of entries removed.
func CleanupObsoleteBlank(c *catalog.Collection) int {
	kept := c.Entries[:0:0]
	removed := 0
	for _, e := range c.Entries {
		if e.Obsolete && blankTranslation(e) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	if removed > 0 {
		c.Entries = kept
	}
	return removed
}

// blankTranslation reports whether the entry has no translation text
// in any form, regardless of its obsolete state.
func blankTranslation(e *catalog.Entry) bool {
	if len(e.MsgStrPlural) > 0 {
		for _, v := range e.MsgStrPlural {
			if strings.TrimSpace(v) != "" {
				return false
			}
		}
		return true
	}
	return strings.TrimSpace(e.MsgStr) == ""
}
