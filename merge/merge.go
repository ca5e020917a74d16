// Package merge reconciles a locale catalog against the master
// template and against the external correction/addition feeds.
//
// All operations are independent per entry and never abort a batch: an
// entry that cannot be resolved is skipped and left out of the counts.
package merge

import (
	"strings"

	"github.com/minios-linux/pokit/catalog"
)

// Result reports what a synchronization operation changed.
type Result struct {
	Added    int
	Modified int
	Obsolete int
}

// ImportTemplate syncs a catalog with the master template:
//
//  1. entries whose identity exists only in the template are copied in;
//  2. entries whose identity is gone from the template are retained but
//     marked obsolete;
//  3. entries identified by context alone have their msgid refreshed
//     from the template when it changed, keeping the old msgid as the
//     previous msgid and raising the fuzzy flag.
//
// A second run against the same template reports all-zero counts.
func ImportTemplate(dst, tpl *catalog.Collection) Result {
	var res Result

	dstIdx := dst.Index()
	tplIdx := tpl.Index()

	// Template-only identities: copy in.
	for _, tplEntry := range tpl.Entries {
		k := catalog.KeyOf(tplEntry)
		if _, ok := dstIdx[k]; ok {
			continue
		}
		added := tplEntry.Clone()
		dst.Append(added)
		dstIdx[k] = added
		res.Added++
	}

	// Identities gone from the template: mark obsolete, keep the entry.
	for _, e := range dst.Entries {
		if e.Obsolete {
			continue
		}
		if _, ok := tplIdx[catalog.KeyOf(e)]; !ok {
			e.Obsolete = true
			res.Obsolete++
		}
	}

	// Context-only identities: refresh changed source text.
	for _, e := range dst.Entries {
		if strings.HasSuffix(e.MsgCtxt, catalog.KeySentinel) {
			continue
		}
		tplEntry, ok := tplIdx[catalog.Key{MsgCtxt: e.MsgCtxt}]
		if !ok || tplEntry.MsgID == e.MsgID {
			continue
		}
		e.PreviousMsgID = e.MsgID
		e.MsgID = tplEntry.MsgID
		e.AddFlag(catalog.FlagFuzzy)
		res.Modified++
	}

	return res
}

// ImportCorrection merges a source-text correction feed. Entries with
// an unknown identity are appended; entries whose msgid differs from
// the feed are rewritten, keeping the old msgid as the previous msgid
// and raising the fuzzy flag. Nothing is ever marked obsolete.
func ImportCorrection(dst, corrections *catalog.Collection) Result {
	var res Result

	dstIdx := dst.Index()
	for _, corr := range corrections.Entries {
		k := catalog.KeyOf(corr)
		mine, ok := dstIdx[k]
		if !ok {
			added := corr.Clone()
			dst.Append(added)
			dstIdx[k] = added
			res.Added++
			continue
		}
		if mine.MsgID != corr.MsgID {
			mine.PreviousMsgID = mine.MsgID
			mine.MsgID = corr.MsgID
			mine.AddFlag(catalog.FlagFuzzy)
			res.Modified++
		}
	}

	return res
}

// ImportAddition backfills entries discovered by an external log.
// Unknown identities are appended; existing entries are never touched.
func ImportAddition(dst, additions *catalog.Collection) Result {
	var res Result

	dstIdx := dst.Index()
	for _, add := range additions.Entries {
		k := catalog.KeyOf(add)
		if _, ok := dstIdx[k]; ok {
			continue
		}
		added := add.Clone()
		dst.Append(added)
		dstIdx[k] = added
		res.Added++
	}

	return res
}

// ClearExtractedComments removes the extracted comments left behind by
// the feed imports. Returns the number of entries cleared.
func ClearExtractedComments(c *catalog.Collection) int {
	cleared := 0
	for _, e := range c.Entries {
		if len(e.ExtractedComments) > 0 {
			e.ExtractedComments = nil
			cleared++
		}
	}
	return cleared
}
