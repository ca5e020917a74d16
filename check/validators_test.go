package check

import (
	"reflect"
	"testing"
)

func TestExtractEscapes(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{`line\nnext`, []string{`\n`}},
		{`a\tb\tc`, []string{`\t`, `\t`}},
		{`double\\slash`, []string{`\\`}},
		{"pre" + `\` + "u2026post", []string{`\` + "u2026"}},
		{`hex\x41rest`, []string{`\x41`}},
		{"no escapes", nil},
		// Entities are decoded before tokenizing.
		{`&lt;\n&gt;`, []string{`\n`}},
	}
	for _, tc := range cases {
		if got := ExtractEscapes(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("ExtractEscapes(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestEscapeValidator(t *testing.T) {
	cfg := Default()
	v := EscapeValidator{cfg: &cfg}

	t.Run("identical strings are clean", func(t *testing.T) {
		if issues := v.Validate(`a\nb`, `a\nb`, ""); !issues.Clean() {
			t.Fatalf("issues = %+v", issues)
		}
	})

	t.Run("missing important escape is an error", func(t *testing.T) {
		issues := v.Validate(`a\nb\nc`, `abc`, "")
		if len(issues.Errors) != 1 || len(issues.Warnings) != 0 {
			t.Fatalf("issues = %+v", issues)
		}
	})

	t.Run("extra ordinary escape is a warning", func(t *testing.T) {
		issues := v.Validate(`plain`, `pl\ain`, "")
		if len(issues.Errors) != 0 || len(issues.Warnings) != 1 {
			t.Fatalf("issues = %+v", issues)
		}
	})

	t.Run("warning-only escapes are suppressed", func(t *testing.T) {
		if issues := v.Validate(`a\(b\)`, `ab`, ""); !issues.Clean() {
			t.Fatalf("issues = %+v", issues)
		}
	})

	t.Run("language ignores apply", func(t *testing.T) {
		issues := v.Validate(`a`, `a\（`, "ja")
		if !issues.Clean() {
			t.Fatalf("issues for ja = %+v", issues)
		}
		issues = v.Validate(`a`, `a\（`, "")
		if len(issues.Warnings) != 1 {
			t.Fatalf("issues without lang = %+v", issues)
		}
	})

	t.Run("blank translation is skipped", func(t *testing.T) {
		if issues := v.Validate(`a\nb`, "  ", ""); !issues.Clean() {
			t.Fatalf("issues = %+v", issues)
		}
	})

	t.Run("strict reports every mismatch", func(t *testing.T) {
		strict := Strict()
		sv := EscapeValidator{cfg: &strict}
		issues := sv.Validate(`a\(b`, `ab`, "")
		if len(issues.Warnings) != 1 {
			t.Fatalf("strict issues = %+v", issues)
		}
	})
}

func TestMarkupValidator(t *testing.T) {
	cfg := Default()
	v := MarkupValidator{cfg: &cfg}

	t.Run("identical markup is clean", func(t *testing.T) {
		if issues := v.Validate("<b>bold</b>", "<b>жирный</b>"); !issues.Clean() {
			t.Fatalf("issues = %+v", issues)
		}
	})

	t.Run("missing closing tag", func(t *testing.T) {
		issues := v.Validate("<b>bold</b>", "<b>жирный")
		// Count mismatch for </b> plus the unclosed-tag structure error.
		if len(issues.Errors) != 2 {
			t.Fatalf("issues = %+v", issues)
		}
	})

	t.Run("incorrect nesting", func(t *testing.T) {
		issues := v.Validate("<b><i>x</i></b>", "<b><i>х</b></i>")
		if len(issues.Errors) == 0 {
			t.Fatalf("issues = %+v", issues)
		}
	})

	t.Run("malformed source never blames the translation", func(t *testing.T) {
		issues := v.Validate("<b>broken", "<b>сломан")
		if len(issues.Errors) != 0 {
			t.Fatalf("issues = %+v", issues)
		}
	})

	t.Run("non-structural tags are ignored", func(t *testing.T) {
		if issues := v.Validate("<custom>x</custom>", "х"); !issues.Clean() {
			t.Fatalf("issues = %+v", issues)
		}
	})

	t.Run("attribute changes are allowed", func(t *testing.T) {
		issues := v.Validate(`<a href="en.html">x</a>`, `<a href="ja.html">х</a>`)
		if !issues.Clean() {
			t.Fatalf("issues = %+v", issues)
		}
	})

	t.Run("lenient skips the structure check", func(t *testing.T) {
		lenient := Lenient()
		lv := MarkupValidator{cfg: &lenient}
		// Counts match, only the nesting is off: lenient stays silent.
		issues := lv.Validate("<b><i>x</i></b>", "<b><i>х</b></i>")
		if len(issues.Errors) != 0 {
			t.Fatalf("issues = %+v", issues)
		}
	})
}

func TestPlaceholderValidator(t *testing.T) {
	cfg := Default()
	v := PlaceholderValidator{cfg: &cfg}

	t.Run("extract", func(t *testing.T) {
		got := v.ExtractPlaceholders("copy %s to {target} at %1$s")
		want := []string{"%s", "%1$s", "{target}"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("placeholders = %v, want %v", got, want)
		}
	})

	t.Run("missing placeholder is an error", func(t *testing.T) {
		issues := v.Validate("copy %s to %s", "копировать %s")
		if len(issues.Errors) != 1 {
			t.Fatalf("issues = %+v", issues)
		}
	})

	t.Run("extra placeholder is an error", func(t *testing.T) {
		issues := v.Validate("done", "готово %d")
		if len(issues.Errors) != 1 {
			t.Fatalf("issues = %+v", issues)
		}
	})

	t.Run("reordered placeholders pass at normal", func(t *testing.T) {
		if issues := v.Validate("%s: %d", "%d — %s"); !issues.Clean() {
			t.Fatalf("issues = %+v", issues)
		}
	})

	t.Run("reordered placeholders warn at strict", func(t *testing.T) {
		strict := Strict()
		sv := PlaceholderValidator{cfg: &strict}
		issues := sv.Validate("%s: %d", "%d — %s")
		if len(issues.Errors) != 0 || len(issues.Warnings) != 1 {
			t.Fatalf("issues = %+v", issues)
		}
	})

	t.Run("doubled percent is a token", func(t *testing.T) {
		issues := v.Validate("100%%", "100")
		if len(issues.Errors) != 1 {
			t.Fatalf("issues = %+v", issues)
		}
	})
}
