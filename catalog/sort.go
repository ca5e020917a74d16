package catalog

import (
	"regexp"
	"sort"
	"strings"
)

// groupMarker replaces the parentheses of an unescaped "(...)" run so
// that such entries cluster at the end of their context group instead
// of sorting by the literal "(" character.
const groupMarker = "ZZZ"

// sortFirstPrefix sorts below every printable character, forcing
// marker-prefixed contexts to the top.
const sortFirstPrefix = "\x01"

var groupRun = regexp.MustCompile(`\(([^)]+)\)`)

// legacyKey returns the base ordering key: sentinel contexts combine
// the trimmed context with the quoted msgid, plain contexts order by
// context alone.
func legacyKey(e *Entry) string {
	if strings.HasSuffix(e.MsgCtxt, KeySentinel) {
		return strings.TrimRight(e.MsgCtxt, KeySentinel) + `"` + e.MsgID + `"`
	}
	return e.MsgCtxt
}

// groupParens rewrites every unescaped parenthesized run as
// groupMarker + inner text. A run is escaped when it is immediately
// preceded or followed by a doubled backslash.
func groupParens(s string) string {
	matches := groupRun.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start < last {
			continue
		}
		if start >= 2 && s[start-2:start] == `\\` {
			continue
		}
		if end+2 <= len(s) && s[end:end+2] == `\\` {
			continue
		}
		b.WriteString(s[last:start])
		b.WriteString(groupMarker)
		b.WriteString(s[m[2]:m[3]])
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

// SortKey returns the ordering key for an entry.
func SortKey(e *Entry) string {
	if strings.HasPrefix(e.MsgCtxt, SortFirstMarker) {
		return sortFirstPrefix + legacyKey(e)
	}
	return groupParens(legacyKey(e))
}

// Sort orders the entries deterministically. The sort is stable: ties
// preserve the original relative order.
func (c *Collection) Sort() {
	sort.SliceStable(c.Entries, func(i, j int) bool {
		return SortKey(c.Entries[i]) < SortKey(c.Entries[j])
	})
}

// SpecialSort orders the entries like Sort but moves entries without
// any translation to the end. Obsolete entries keep their base
// position.
func (c *Collection) SpecialSort() {
	sort.SliceStable(c.Entries, func(i, j int) bool {
		ui, uj := c.Entries[i].Untranslated(), c.Entries[j].Untranslated()
		if ui != uj {
			return !ui
		}
		return SortKey(c.Entries[i]) < SortKey(c.Entries[j])
	})
}
