package check

import (
	"reflect"
	"strings"
	"testing"

	"github.com/minios-linux/pokit/catalog"
)

func TestCheckEntrySkips(t *testing.T) {
	c := New(Default())

	t.Run("blank translation", func(t *testing.T) {
		e := &catalog.Entry{MsgID: `a\nb`, MsgStr: "  "}
		if r := c.CheckEntry(e, ""); r != nil {
			t.Fatalf("result = %+v, want nil", r)
		}
	})

	t.Run("fixed flag, any case", func(t *testing.T) {
		e := &catalog.Entry{MsgID: `a\nb`, MsgStr: "ab", Flags: []string{"Fixed"}}
		if r := c.CheckEntry(e, ""); r != nil {
			t.Fatalf("result = %+v, want nil", r)
		}
	})

	t.Run("clean entry", func(t *testing.T) {
		e := &catalog.Entry{MsgID: "plain", MsgStr: "переведено"}
		if r := c.CheckEntry(e, ""); r != nil {
			t.Fatalf("result = %+v, want nil", r)
		}
	})
}

func TestCheckEntryFindings(t *testing.T) {
	c := New(Default())
	e := &catalog.Entry{MsgID: `copy %s` + `\n`, MsgStr: "копировать", Line: 42}

	r := c.CheckEntry(e, "")
	if r == nil || !r.HasErrors() {
		t.Fatalf("result = %+v", r)
	}
	if r.Line != 42 {
		t.Fatalf("line = %d, want 42", r.Line)
	}
	// One missing important escape, one missing placeholder.
	if len(r.Errors) != 2 {
		t.Fatalf("errors = %v", r.Errors)
	}
}

func TestCheckCollectionAnnotates(t *testing.T) {
	cfg := Default()
	checker := New(cfg)

	col := catalog.New()
	bad := &catalog.Entry{
		MsgCtxt:            "Copy:",
		MsgID:              "copy %s",
		MsgStr:             "копировать",
		TranslatorComments: []string{"user note"},
	}
	good := &catalog.Entry{MsgCtxt: "Ok:", MsgID: "fine", MsgStr: "хорошо"}
	col.Append(bad)
	col.Append(good)

	results := checker.CheckCollection(col, "")
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}

	if !bad.HasFlag(catalog.FlagFuzzy) {
		t.Fatal("error entry must get the fuzzy flag")
	}
	if bad.TranslatorComments[0] != "user note" {
		t.Fatal("user comment lines must survive")
	}
	foundBlock := false
	for _, line := range bad.TranslatorComments[1:] {
		if !strings.HasPrefix(line, Marker) {
			t.Fatalf("appended line %q is not owned by the checker", line)
		}
		foundBlock = true
	}
	if !foundBlock {
		t.Fatal("no annotation block appended")
	}
	if len(good.TranslatorComments) != 0 {
		t.Fatal("clean entry must stay unannotated")
	}
}

func TestCheckCollectionIsIdempotent(t *testing.T) {
	checker := New(Default())

	col := catalog.New()
	col.Append(&catalog.Entry{
		MsgCtxt: "Copy:",
		MsgID:   "copy %s",
		MsgStr:  "копировать",
	})

	checker.CheckCollection(col, "")
	first := append([]string(nil), col.Entries[0].TranslatorComments...)
	firstFlags := append([]string(nil), col.Entries[0].Flags...)

	checker.CheckCollection(col, "")
	if !reflect.DeepEqual(first, col.Entries[0].TranslatorComments) {
		t.Fatalf("second run changed comments:\n%v\n%v", first, col.Entries[0].TranslatorComments)
	}
	if !reflect.DeepEqual(firstFlags, col.Entries[0].Flags) {
		t.Fatalf("second run changed flags: %v vs %v", firstFlags, col.Entries[0].Flags)
	}
}

func TestCheckCollectionStripsStaleAnnotations(t *testing.T) {
	checker := New(Default())

	col := catalog.New()
	fixed := &catalog.Entry{
		MsgCtxt: "Now fine:",
		MsgID:   "plain",
		MsgStr:  "переведено",
		TranslatorComments: []string{
			"user note",
			Marker + " === ERRORS ===",
			Marker + "   • stale finding",
		},
	}
	col.Append(fixed)

	results := checker.CheckCollection(col, "")
	if len(results) != 0 {
		t.Fatalf("results = %+v, want none", results)
	}
	if !reflect.DeepEqual(fixed.TranslatorComments, []string{"user note"}) {
		t.Fatalf("comments = %v, want only the user note", fixed.TranslatorComments)
	}
}

func TestCheckCollectionLenientOmitsWarnings(t *testing.T) {
	checker := New(Lenient())

	col := catalog.New()
	// Ordinary escape mismatch: a warning at lenient level.
	e := &catalog.Entry{MsgCtxt: "W:", MsgID: `a\sb`, MsgStr: "ab"}
	col.Append(e)

	results := checker.CheckCollection(col, "")
	if len(results) != 1 || results[0].HasErrors() {
		t.Fatalf("results = %+v", results)
	}
	if len(e.TranslatorComments) != 0 {
		t.Fatalf("lenient must not record warning blocks, got %v", e.TranslatorComments)
	}
	if e.HasFlag(catalog.FlagFuzzy) {
		t.Fatal("warnings must not raise the fuzzy flag")
	}
}

func TestCheckCollectionNoFuzzyNoAnnotate(t *testing.T) {
	cfg := Default()
	cfg.AddFuzzy = false
	cfg.Annotate = false
	checker := New(cfg)

	col := catalog.New()
	e := &catalog.Entry{MsgCtxt: "E:", MsgID: "copy %s", MsgStr: "копировать"}
	col.Append(e)

	results := checker.CheckCollection(col, "")
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if e.HasFlag(catalog.FlagFuzzy) || len(e.TranslatorComments) != 0 {
		t.Fatalf("entry modified despite disabled outputs: %+v", e)
	}
}

func TestExportErrors(t *testing.T) {
	checker := New(Strict())

	col := catalog.New()
	col.Metadata = []catalog.MetadataField{{Key: "Language", Value: "ru"}}
	errEntry := &catalog.Entry{MsgCtxt: "E:", MsgID: "copy %s", MsgStr: "копировать"}
	warnEntry := &catalog.Entry{MsgCtxt: "W:", MsgID: "%s: %d", MsgStr: "%d: %s"}
	col.Append(errEntry)
	col.Append(warnEntry)

	results := checker.CheckCollection(col, "")
	exported := ExportErrors(col, results)

	if exported.Len() != 1 || exported.Entries[0] != errEntry {
		t.Fatalf("exported = %+v, want only the error entry", exported.Entries)
	}
	if exported.MetadataValue("Language") != "ru" {
		t.Fatal("exported catalog must carry the source metadata")
	}
}

func TestGuessLanguage(t *testing.T) {
	cases := []struct{ path, want string }{
		{"po/ja_JP.po", "ja"},
		{"po/zh_CN.po", "zh"},
		{"po/messages_zh.po", "zh"},
		{"po/de_DE.po", ""},
	}
	for _, tc := range cases {
		if got := GuessLanguage(tc.path); got != tc.want {
			t.Fatalf("GuessLanguage(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
