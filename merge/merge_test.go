package merge

import (
	"testing"

	"github.com/minios-linux/pokit/catalog"
)

func TestImportTemplate(t *testing.T) {
	dst := catalog.New()
	dst.Append(&catalog.Entry{MsgCtxt: "Keep:", MsgID: "stay", MsgStr: "остаться"})
	dst.Append(&catalog.Entry{MsgCtxt: "Gone:", MsgID: "removed", MsgStr: "удалено"})
	dst.Append(&catalog.Entry{MsgCtxt: "Title", MsgID: "old text", MsgStr: "старый"})
	dst.Append(&catalog.Entry{MsgCtxt: "Long gone:", MsgID: "x", Obsolete: true})

	tpl := catalog.New()
	tpl.Append(&catalog.Entry{MsgCtxt: "Keep:", MsgID: "stay"})
	tpl.Append(&catalog.Entry{MsgCtxt: "Title", MsgID: "new text"})
	tpl.Append(&catalog.Entry{MsgCtxt: "Fresh:", MsgID: "brand new"})

	res := ImportTemplate(dst, tpl)
	if res.Added != 1 || res.Modified != 1 || res.Obsolete != 1 {
		t.Fatalf("Result = %+v, want 1/1/1", res)
	}

	if e := dst.Find("Fresh:", "brand new"); e == nil || e.MsgStr != "" {
		t.Fatalf("added entry = %#v", e)
	}

	gone := dst.Find("Gone:", "removed")
	if gone == nil || !gone.Obsolete {
		t.Fatalf("removed entry should be obsolete, got %#v", gone)
	}
	if gone.MsgStr != "удалено" {
		t.Fatal("obsoleting must keep the translation")
	}

	title := dst.Find("Title", "new text")
	if title == nil {
		t.Fatal("refreshed entry not found")
	}
	if title.MsgID != "new text" || title.PreviousMsgID != "old text" {
		t.Fatalf("refresh = msgid %q previous %q", title.MsgID, title.PreviousMsgID)
	}
	if !title.HasFlag(catalog.FlagFuzzy) {
		t.Fatal("refreshed entry must be fuzzy")
	}
	if title.MsgStr != "старый" {
		t.Fatal("refresh must keep the translation")
	}

	t.Run("second run reports zero", func(t *testing.T) {
		if res := ImportTemplate(dst, tpl); res != (Result{}) {
			t.Fatalf("second run Result = %+v, want zeros", res)
		}
	})
}

func TestImportTemplateCompositeMsgidNotRefreshed(t *testing.T) {
	// With a sentinel context a changed msgid is a different identity:
	// the old entry goes obsolete and the new one is added.
	dst := catalog.New()
	dst.Append(&catalog.Entry{MsgCtxt: "Button:", MsgID: "Ok", MsgStr: "ок"})

	tpl := catalog.New()
	tpl.Append(&catalog.Entry{MsgCtxt: "Button:", MsgID: "OK"})

	res := ImportTemplate(dst, tpl)
	if res.Added != 1 || res.Modified != 0 || res.Obsolete != 1 {
		t.Fatalf("Result = %+v, want added=1 obsolete=1", res)
	}
	old := dst.Find("Button:", "Ok")
	if old == nil || !old.Obsolete || old.PreviousMsgID != "" {
		t.Fatalf("old composite entry = %#v", old)
	}
}

func TestImportCorrection(t *testing.T) {
	dst := catalog.New()
	dst.Append(&catalog.Entry{MsgCtxt: "Label", MsgID: "speling", MsgStr: "перевод"})

	feed := catalog.New()
	feed.Append(&catalog.Entry{MsgCtxt: "Label", MsgID: "spelling"})
	feed.Append(&catalog.Entry{MsgCtxt: "Extra:", MsgID: "unseen"})

	res := ImportCorrection(dst, feed)
	if res.Added != 1 || res.Modified != 1 {
		t.Fatalf("Result = %+v, want added=1 modified=1", res)
	}

	fixed := dst.Find("Label", "spelling")
	if fixed == nil || fixed.PreviousMsgID != "speling" || !fixed.HasFlag(catalog.FlagFuzzy) {
		t.Fatalf("corrected entry = %#v", fixed)
	}
	if fixed.MsgStr != "перевод" {
		t.Fatal("correction must keep the translation")
	}
	for _, e := range dst.Entries {
		if e.Obsolete {
			t.Fatal("correction import must never mark entries obsolete")
		}
	}

	t.Run("matching msgid is a no-op", func(t *testing.T) {
		if res := ImportCorrection(dst, feed); res != (Result{}) {
			t.Fatalf("second run Result = %+v, want zeros", res)
		}
	})
}

func TestImportAdditionNeverOverwrites(t *testing.T) {
	dst := catalog.New()
	dst.Append(&catalog.Entry{MsgCtxt: "Exists:", MsgID: "here", MsgStr: "есть"})

	feed := catalog.New()
	feed.Append(&catalog.Entry{MsgCtxt: "Exists:", MsgID: "here", MsgStr: "feed text"})
	feed.Append(&catalog.Entry{MsgCtxt: "New:", MsgID: "missing"})

	res := ImportAddition(dst, feed)
	if res.Added != 1 || res.Modified != 0 || res.Obsolete != 0 {
		t.Fatalf("Result = %+v, want added=1", res)
	}
	if e := dst.Find("Exists:", "here"); e.MsgStr != "есть" {
		t.Fatalf("existing entry overwritten: %q", e.MsgStr)
	}
	if dst.Len() != 2 {
		t.Fatalf("entries len = %d, want 2", dst.Len())
	}
}

func TestImportedEntriesAreCopies(t *testing.T) {
	tpl := catalog.New()
	tplEntry := &catalog.Entry{MsgCtxt: "Shared:", MsgID: "text", Flags: []string{"c-format"}}
	tpl.Append(tplEntry)

	dst := catalog.New()
	ImportTemplate(dst, tpl)

	dst.Entries[0].AddFlag(catalog.FlagFuzzy)
	if tplEntry.HasFlag(catalog.FlagFuzzy) {
		t.Fatal("template entry mutated through the imported copy")
	}
}

func TestClearExtractedComments(t *testing.T) {
	c := catalog.New()
	c.Append(&catalog.Entry{MsgCtxt: "A:", MsgID: "a", ExtractedComments: []string{"from feed"}})
	c.Append(&catalog.Entry{MsgCtxt: "B:", MsgID: "b"})

	if got := ClearExtractedComments(c); got != 1 {
		t.Fatalf("cleared = %d, want 1", got)
	}
	if len(c.Entries[0].ExtractedComments) != 0 {
		t.Fatal("extracted comments not cleared")
	}
}
