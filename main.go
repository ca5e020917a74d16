// pokit — PO catalog toolkit: template import, feed reconciliation,
// canonical formatting and translation consistency checks.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minios-linux/pokit/catalog"
	"github.com/minios-linux/pokit/check"
	"github.com/minios-linux/pokit/config"
	"github.com/minios-linux/pokit/i18n"
	"github.com/minios-linux/pokit/merge"
	"github.com/minios-linux/pokit/pofile"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flag and shared state
// ---------------------------------------------------------------------------

var rootDir string

// backend loads and saves catalogs. Commands only see the
// catalog.Backend interface, so the storage format is swappable.
var backend catalog.Backend = pofile.New()

var loadOpts = catalog.LoadOptions{CheckForDuplicates: true}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pokit",
		Short: "PO catalog toolkit: imports, formatting and consistency checks",
		Long: `pokit — PO catalog toolkit.

Keeps a family of gettext catalogs (po/messages.pot plus po/*.po locale
files) synchronized and consistently formatted. Reconciles the template
into the locale catalogs, folds external correction/addition feeds into
the template, applies a canonical sort order, and checks translations
for escape-sequence, markup and placeholder mismatches.

Commands:
  status              Show project info and translation statistics
  init-po             Create a new locale catalog from the template
  import-pot          Import the template into every locale catalog
  import-unknown      Import the addition feed into the template
  import-mismatch     Import the correction feed into the template
  format              Rewrite catalogs in canonical form
  special-sort        Sort catalogs with untranslated entries last
  check               Check translations for consistency errors
  clear-comments      Remove extracted comments from the template
  compress-ctx        Fold msgid duplicates out of message contexts
  ensure-colon        Append the ":" suffix to composite contexts
  strip-placeholders  Strip trailing %N placeholders from contexts
  propagate-ellipsis  Copy translations across "..." spelling variants
  cleanup-obsolete    Drop obsolete entries without a translation`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flag — inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Project root directory")

	root.AddCommand(
		newStatusCmd(),
		newInitPoCmd(),
		newImportPotCmd(),
		newImportUnknownCmd(),
		newImportMismatchCmd(),
		newFormatCmd(),
		newSpecialSortCmd(),
		newCheckCmd(),
		newClearCommentsCmd(),
		newCompressCtxCmd(),
		newEnsureColonCmd(),
		newStripPlaceholdersCmd(),
		newPropagateEllipsisCmd(),
		newCleanupObsoleteCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pokit version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

func detectProject() (*config.Project, error) {
	return config.Detect(rootDir)
}

// resolveTargets picks the catalogs a command works on: explicit file
// arguments win, otherwise the project's locale catalogs (plus the
// template when includePOT is set).
func resolveTargets(proj *config.Project, args []string, includePOT bool) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	var targets []string
	if includePOT {
		if _, err := os.Stat(proj.POTFile); err == nil {
			targets = append(targets, proj.POTFile)
		}
	}
	poFiles, err := proj.POFiles()
	if err != nil {
		return nil, err
	}
	targets = append(targets, poFiles...)
	if len(targets) == 0 {
		return nil, fmt.Errorf("no catalogs found under %s", proj.PODir)
	}
	return targets, nil
}

// applyToFiles runs an in-place maintenance pass over the target
// catalogs and reports per-file and total touched-entry counts.
func applyToFiles(targets []string, tpl catalog.MetadataTemplate, verb string, op func(*catalog.Collection) int) error {
	total := 0
	for _, path := range targets {
		col, err := backend.Load(path, loadOpts)
		if err != nil {
			return err
		}
		n := op(col)
		col.Format(tpl)
		if err := backend.Save(col, path); err != nil {
			return err
		}
		logInfo("%s: %d entries %s", filepath.Base(path), n, verb)
		total += n
	}
	logSuccess("%d entries %s in %d catalog(s)", total, verb, len(targets))
	return nil
}

// ---------------------------------------------------------------------------
// status (read-only: project info + translation stats)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show project info and translation statistics",
		Long: `Show the detected project layout and per-catalog translation progress.

Does not modify any files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	proj, err := detectProject()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n%sProject%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	absRoot, _ := filepath.Abs(proj.Root)
	fmt.Fprintf(os.Stderr, "  Root:       %s\n", absRoot)
	fmt.Fprintf(os.Stderr, "  PO dir:     %s\n", proj.PODir)
	fmt.Fprintf(os.Stderr, "  Template:   %s\n", proj.POTFile)
	fmt.Fprintf(os.Stderr, "  Feed ver:   %s\n", proj.FeedVersion)
	if proj.File != nil {
		fmt.Fprintf(os.Stderr, "  Config:     %s\n", filepath.Join(proj.Root, config.FileName))
	} else {
		fmt.Fprintf(os.Stderr, "  Config:     none (defaults)\n")
	}
	fmt.Fprintln(os.Stderr)

	if pot, err := backend.Load(proj.POTFile, loadOpts); err == nil {
		fmt.Fprintf(os.Stderr, "  Template entries: %d\n", pot.Len())
	}

	files, err := proj.POFiles()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "  No locale catalogs found.")
		return nil
	}

	fmt.Fprintf(os.Stderr, "\n%sCatalogs%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	for _, path := range files {
		col, err := backend.Load(path, loadOpts)
		if err != nil {
			return err
		}
		translated, fuzzy, untranslated, obsolete := countStats(col)
		active := translated + fuzzy + untranslated
		percent := 0
		if active > 0 {
			percent = translated * 100 / active
		}
		fmt.Fprintf(os.Stderr, "  %-14s %3d%%  %4d translated, %3d fuzzy, %3d untranslated, %3d obsolete\n",
			filepath.Base(path), percent, translated, fuzzy, untranslated, obsolete)
	}
	fmt.Fprintln(os.Stderr)
	return nil
}

func countStats(col *catalog.Collection) (translated, fuzzy, untranslated, obsolete int) {
	for _, e := range col.Entries {
		switch {
		case e.Obsolete:
			obsolete++
		case e.HasFlag(catalog.FlagFuzzy):
			fuzzy++
		case e.Translated():
			translated++
		default:
			untranslated++
		}
	}
	return
}

// ---------------------------------------------------------------------------
// init-po (create a locale catalog)
// ---------------------------------------------------------------------------

func newInitPoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-po <lang>",
		Short: "Create a new locale catalog from the template",
		Long: `Create po/<lang>.po with language metadata filled in and every
template entry imported untranslated. <lang> is a locale code such as
ja_JP or de_DE.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInitPo(args[0])
		},
	}
}

func runInitPo(lang string) error {
	proj, err := detectProject()
	if err != nil {
		return err
	}
	path := filepath.Join(proj.PODir, lang+".po")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	tpl := proj.MetadataTemplate()
	col := pofile.NewLocale(tpl, lang)

	if _, err := os.Stat(proj.POTFile); err == nil {
		pot, err := backend.Load(proj.POTFile, loadOpts)
		if err != nil {
			return err
		}
		res := merge.ImportTemplate(col, pot)
		logInfo("%s: %d entries imported from template", lang, res.Added)
	}

	col.Format(tpl)
	if err := backend.Save(col, path); err != nil {
		return err
	}
	logSuccess("Created %s (%s)", path, pofile.LangNameNative(lang))
	return nil
}

// ---------------------------------------------------------------------------
// import-pot (template -> locale catalogs)
// ---------------------------------------------------------------------------

func newImportPotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-pot [files...]",
		Short: "Import the template into every locale catalog",
		Long: `Reconcile po/messages.pot into the locale catalogs: new template
entries are added untranslated, entries missing from the template are
marked obsolete, and changed source texts are refreshed with the old
text preserved as "#|" and the entry flagged fuzzy.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportPot(args)
		},
	}
}

func runImportPot(args []string) error {
	proj, err := detectProject()
	if err != nil {
		return err
	}
	pot, err := backend.Load(proj.POTFile, loadOpts)
	if err != nil {
		return err
	}
	targets, err := resolveTargets(proj, args, false)
	if err != nil {
		return err
	}

	tpl := proj.MetadataTemplate()
	var total merge.Result
	for _, path := range targets {
		col, err := backend.Load(path, loadOpts)
		if err != nil {
			return err
		}
		res := merge.ImportTemplate(col, pot)
		col.Format(tpl)
		if err := backend.Save(col, path); err != nil {
			return err
		}
		logInfo("%s: %d added, %d modified, %d obsolete",
			filepath.Base(path), res.Added, res.Modified, res.Obsolete)
		total.Added += res.Added
		total.Modified += res.Modified
		total.Obsolete += res.Obsolete
	}
	logSuccess("Imported template into %d catalog(s): %d added, %d modified, %d obsolete",
		len(targets), total.Added, total.Modified, total.Obsolete)
	return nil
}

// ---------------------------------------------------------------------------
// import-unknown / import-mismatch (feeds -> template)
// ---------------------------------------------------------------------------

func newImportUnknownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-unknown [file]",
		Short: "Import the addition feed into the template",
		Long: `Fold the addition feed (po/unknown.<version>) into the template.
Feed entries whose identity is already present are skipped; existing
entries are never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportFeed(args, feedUnknown)
		},
	}
}

func newImportMismatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-mismatch [file]",
		Short: "Import the correction feed into the template",
		Long: `Fold the correction feed (po/mismatch.<version>) into the template.
Entries matching an existing context get their source text corrected,
with the old text preserved as "#|" and the entry flagged fuzzy.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportFeed(args, feedMismatch)
		},
	}
}

type feedKind int

const (
	feedUnknown feedKind = iota
	feedMismatch
)

func runImportFeed(args []string, kind feedKind) error {
	proj, err := detectProject()
	if err != nil {
		return err
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	} else if kind == feedUnknown {
		path = proj.UnknownFile()
	} else {
		path = proj.MismatchFile()
	}
	if _, err := os.Stat(path); err != nil {
		logWarning("No feed file at %s", path)
		return nil
	}

	feed, err := backend.Load(path, loadOpts)
	if err != nil {
		return err
	}
	pot, err := backend.Load(proj.POTFile, loadOpts)
	if err != nil {
		return err
	}

	var res merge.Result
	if kind == feedUnknown {
		res = merge.ImportAddition(pot, feed)
	} else {
		res = merge.ImportCorrection(pot, feed)
	}
	pot.Format(proj.MetadataTemplate())
	if err := backend.Save(pot, proj.POTFile); err != nil {
		return err
	}
	logSuccess("%s: %d added, %d modified into %s",
		filepath.Base(path), res.Added, res.Modified, filepath.Base(proj.POTFile))
	return nil
}

// ---------------------------------------------------------------------------
// format / special-sort
// ---------------------------------------------------------------------------

func newFormatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "format [files...]",
		Short: "Rewrite catalogs in canonical form",
		Long: `Load and rewrite catalogs: metadata is reduced to the known field
set in canonical order and entries are sorted by the grouped context
key. Without arguments the template and every locale catalog are
formatted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(args)
		},
	}
}

func runFormat(args []string) error {
	proj, err := detectProject()
	if err != nil {
		return err
	}
	targets, err := resolveTargets(proj, args, true)
	if err != nil {
		return err
	}
	tpl := proj.MetadataTemplate()
	for _, path := range targets {
		col, err := backend.Load(path, loadOpts)
		if err != nil {
			return err
		}
		col.Format(tpl)
		if err := backend.Save(col, path); err != nil {
			return err
		}
		logInfo("%s: formatted (%d entries)", filepath.Base(path), col.Len())
	}
	logSuccess("Formatted %d catalog(s)", len(targets))
	return nil
}

func newSpecialSortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "special-sort [files...]",
		Short: "Sort catalogs with untranslated entries last",
		Long: `Like format, but entries still lacking a translation are moved to
the end of the catalog so translators can find pending work quickly.
The relative order within each half is the canonical sort order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpecialSort(args)
		},
	}
}

func runSpecialSort(args []string) error {
	proj, err := detectProject()
	if err != nil {
		return err
	}
	targets, err := resolveTargets(proj, args, false)
	if err != nil {
		return err
	}
	tpl := proj.MetadataTemplate()
	for _, path := range targets {
		col, err := backend.Load(path, loadOpts)
		if err != nil {
			return err
		}
		col.Format(tpl)
		col.SpecialSort()
		if err := backend.Save(col, path); err != nil {
			return err
		}
		_, _, untranslated, _ := countStats(col)
		logInfo("%s: sorted, %d untranslated moved last", filepath.Base(path), untranslated)
	}
	logSuccess("Sorted %d catalog(s)", len(targets))
	return nil
}

// ---------------------------------------------------------------------------
// check (translation consistency)
// ---------------------------------------------------------------------------

func newCheckCmd() *cobra.Command {
	var (
		level        string
		language     string
		noFuzzy      bool
		noComment    bool
		exportErrors bool
	)
	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Check translations for consistency errors",
		Long: `Validate that translations preserve the escape sequences, inline
markup and placeholders of their source strings. Findings are written
back into the catalog as "` + check.Marker + `" translator comments and errors
raise the fuzzy flag; stale findings from earlier runs are removed.

Levels: strict (more errors, order warnings), normal (default),
lenient (placeholders off, warnings not recorded).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args, level, language, noFuzzy, noComment, exportErrors)
		},
	}
	cmd.Flags().StringVar(&level, "level", "", "Check level: strict, normal or lenient")
	cmd.Flags().StringVar(&language, "language", "", "Language hint (ja, zh) instead of inferring from file names")
	cmd.Flags().BoolVar(&noFuzzy, "no-fuzzy", false, "Do not raise the fuzzy flag on errors")
	cmd.Flags().BoolVar(&noComment, "no-comment", false, "Do not write checker comments")
	cmd.Flags().BoolVar(&exportErrors, "export-errors", false, "Export error entries to <file>_errors.po")
	return cmd
}

func runCheck(args []string, level, language string, noFuzzy, noComment, exportErrors bool) error {
	proj, err := detectProject()
	if err != nil {
		return err
	}
	cfg, err := proj.CheckConfig(level)
	if err != nil {
		return err
	}
	if noFuzzy {
		cfg.AddFuzzy = false
	}
	if noComment {
		cfg.Annotate = false
	}
	if exportErrors {
		cfg.ExportErrors = true
	}
	if language == "" {
		language = proj.CheckLanguage()
	}

	targets, err := resolveTargets(proj, args, false)
	if err != nil {
		return err
	}

	checker := check.New(cfg)
	totalErrors, totalWarnings := 0, 0
	for _, path := range targets {
		col, err := backend.Load(path, loadOpts)
		if err != nil {
			return err
		}

		lang := language
		if lang == "" {
			lang = check.GuessLanguage(path)
		}
		results := checker.CheckCollection(col, lang)

		for _, r := range results {
			fmt.Printf("%s: %s\n", filepath.Base(path), i18n.T("Entry %d has issues:", r.Line))
			for _, msg := range r.Errors {
				fmt.Printf("  %s✗%s %s\n", colorRed, colorReset, msg)
				totalErrors++
			}
			if cfg.Level != check.LevelLenient {
				for _, msg := range r.Warnings {
					fmt.Printf("  %s!%s %s\n", colorYellow, colorReset, msg)
					totalWarnings++
				}
			}
		}

		if err := backend.Save(col, path); err != nil {
			return err
		}

		if cfg.ExportErrors {
			exported := check.ExportErrors(col, results)
			if exported.Len() > 0 {
				ext := filepath.Ext(path)
				exportPath := strings.TrimSuffix(path, ext) + "_errors" + ext
				if err := backend.Save(exported, exportPath); err != nil {
					return err
				}
				logInfo("%s", i18n.T("Problematic entries exported to: %s", exportPath))
			}
		}
	}

	if totalErrors == 0 {
		logSuccess("%s", i18n.T("No errors found."))
		if totalWarnings > 0 {
			logWarning("%d warning(s)", totalWarnings)
		}
		return nil
	}
	logWarning("%s", i18n.T("Errors detected. Catalog updated with 'fuzzy' flags and checker comments."))
	return fmt.Errorf("%d error(s), %d warning(s) in %d catalog(s)", totalErrors, totalWarnings, len(targets))
}

// ---------------------------------------------------------------------------
// Maintenance passes
// ---------------------------------------------------------------------------

func newClearCommentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-comments [files...]",
		Short: "Remove extracted comments from the template",
		Long: `Strip the "#." extracted comments emitted by the string extractor.
Without arguments only the template is cleaned.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMaintenance(args, potOnly, "cleaned", merge.ClearExtractedComments)
		},
	}
}

func newCompressCtxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compress-ctx [files...]",
		Short: "Fold msgid duplicates out of message contexts",
		Long: `Rewrite contexts of the form 'Prefix"text"' to 'Prefix:' where the
quoted part repeats the entry's msgid, switching the entry to the
composite identity scheme.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMaintenance(args, potAndLocales, "compressed", merge.CompressContexts)
		},
	}
}

func newEnsureColonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-colon [files...]",
		Short: `Append the ":" suffix to composite contexts`,
		Long: `Append the ":" identity sentinel to contexts that carry a trailing
quoted msgid copy but lack the sentinel.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMaintenance(args, potAndLocales, "fixed", merge.EnsureColonSuffix)
		},
	}
}

func newStripPlaceholdersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strip-placeholders [files...]",
		Short: "Strip trailing %N placeholders from contexts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMaintenance(args, potAndLocales, "stripped", merge.StripContextPlaceholders)
		},
	}
}

func newPropagateEllipsisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "propagate-ellipsis [files...]",
		Short: `Copy translations across "..." spelling variants`,
		Long: `Entries whose source texts differ only in the spelling of the
trailing ellipsis ("..." vs "…") share one translation: the first
translated entry of each group fills in its untranslated siblings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMaintenance(args, localesOnly, "filled", merge.PropagateEllipsisTranslations)
		},
	}
}

func newCleanupObsoleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup-obsolete [files...]",
		Short: "Drop obsolete entries without a translation",
		Long: `Remove "#~" obsolete entries whose translation is blank. Obsolete
entries that still carry a translation are kept for future reuse.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMaintenance(args, localesOnly, "removed", merge.CleanupObsoleteBlank)
		},
	}
}

type targetScope int

const (
	potOnly targetScope = iota
	localesOnly
	potAndLocales
)

func runMaintenance(args []string, scope targetScope, verb string, op func(*catalog.Collection) int) error {
	proj, err := detectProject()
	if err != nil {
		return err
	}

	var targets []string
	switch {
	case len(args) > 0:
		targets = args
	case scope == potOnly:
		targets = []string{proj.POTFile}
	default:
		targets, err = resolveTargets(proj, nil, scope == potAndLocales)
		if err != nil {
			return err
		}
	}

	return applyToFiles(targets, proj.MetadataTemplate(), verb, op)
}
