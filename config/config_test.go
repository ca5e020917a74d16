package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/minios-linux/pokit/check"
)

func writeProject(t *testing.T, yaml string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "po"), 0o755); err != nil {
		t.Fatal(err)
	}
	if yaml != "" {
		if err := os.WriteFile(filepath.Join(root, FileName), []byte(yaml), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestDetectWithoutConfigFile(t *testing.T) {
	root := writeProject(t, "")

	p, err := Detect(root)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if p.File != nil {
		t.Fatal("File should be nil without a config file")
	}
	if p.POTFile != filepath.Join(root, "po", "messages.pot") {
		t.Fatalf("POTFile = %q", p.POTFile)
	}
	if p.FeedVersion != DefaultFeedVersion {
		t.Fatalf("FeedVersion = %q, want default", p.FeedVersion)
	}
	if got := p.UnknownFile(); got != filepath.Join(root, "po", "unknown."+DefaultFeedVersion) {
		t.Fatalf("UnknownFile = %q", got)
	}
}

func TestDetectRequiresPODir(t *testing.T) {
	if _, err := Detect(t.TempDir()); err == nil {
		t.Fatal("Detect without po/ should fail")
	}
}

func TestDetectReadsConfigFile(t *testing.T) {
	root := writeProject(t, `
project_id: demo 2.0
bugs_address: bugs@example.com
feed_version: "25_3"
checks:
  level: strict
  language: ja
`)

	p, err := Detect(root)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if p.FeedVersion != "25_3" {
		t.Fatalf("FeedVersion = %q", p.FeedVersion)
	}
	if got := p.MismatchFile(); got != filepath.Join(root, "po", "mismatch.25_3") {
		t.Fatalf("MismatchFile = %q", got)
	}
	if got := p.CheckLanguage(); got != "ja" {
		t.Fatalf("CheckLanguage = %q", got)
	}

	tpl := p.MetadataTemplate()
	if tpl[0].Key != "Project-Id-Version" || tpl[0].Value != "demo 2.0" {
		t.Fatalf("template head = %+v", tpl[0])
	}

	cfg, err := p.CheckConfig("")
	if err != nil {
		t.Fatalf("CheckConfig: %v", err)
	}
	if cfg.Level != check.LevelStrict {
		t.Fatalf("Level = %q, want strict from the file", cfg.Level)
	}
}

func TestCheckConfigTuning(t *testing.T) {
	root := writeProject(t, `
checks:
  disable: [placeholder]
  add_fuzzy: false
  important_escapes: ["\\d"]
  placeholder_patterns: ['%[0-9]+']
`)

	p, err := Detect(root)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	cfg, err := p.CheckConfig("")
	if err != nil {
		t.Fatalf("CheckConfig: %v", err)
	}

	if cfg.ShouldCheck(check.KindPlaceholders) {
		t.Fatal("placeholder validator should be disabled")
	}
	if cfg.AddFuzzy {
		t.Fatal("add_fuzzy: false not applied")
	}
	if !cfg.ImportantEscapes[`\d`] {
		t.Fatal("extra important escape not applied")
	}
	if len(cfg.PlaceholderPatterns) != len(check.DefaultPlaceholderPatterns())+1 {
		t.Fatalf("placeholder patterns = %d", len(cfg.PlaceholderPatterns))
	}
}

func TestCheckConfigLevelOverride(t *testing.T) {
	root := writeProject(t, "checks:\n  level: lenient\n")
	p, err := Detect(root)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	// The command-line level wins over the file level.
	cfg, err := p.CheckConfig("strict")
	if err != nil {
		t.Fatalf("CheckConfig: %v", err)
	}
	if cfg.Level != check.LevelStrict {
		t.Fatalf("Level = %q, want strict", cfg.Level)
	}

	if _, err := p.CheckConfig("bogus"); err == nil {
		t.Fatal("unknown level should fail")
	}
}

func TestCheckConfigBadPattern(t *testing.T) {
	root := writeProject(t, "checks:\n  placeholder_patterns: ['[']\n")
	p, err := Detect(root)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if _, err := p.CheckConfig(""); err == nil {
		t.Fatal("invalid pattern should fail")
	}
}

func TestPOFiles(t *testing.T) {
	root := writeProject(t, "")
	po := filepath.Join(root, "po")
	for _, name := range []string{"ja_JP.po", "de_DE.po", "messages.pot", "unknown.24_1", "ja_JP_errors.po"} {
		if err := os.WriteFile(filepath.Join(po, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	p, err := Detect(root)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	files, err := p.POFiles()
	if err != nil {
		t.Fatalf("POFiles: %v", err)
	}
	want := []string{filepath.Join(po, "de_DE.po"), filepath.Join(po, "ja_JP.po")}
	if len(files) != 2 || files[0] != want[0] || files[1] != want[1] {
		t.Fatalf("POFiles = %v, want %v", files, want)
	}
}
