// Package pofile implements reading and writing of PO/POT catalogs
// following the GNU gettext format specification. It is the concrete
// catalog.Backend provider used by the synchronization and check
// engines.
package pofile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/minios-linux/pokit/catalog"
)

// Backend loads and saves PO/POT catalogs. It writes catalogs with an
// effectively unlimited line width and "\n" line endings.
type Backend struct{}

// New returns the PO file backend.
func New() *Backend { return &Backend{} }

var _ catalog.Backend = (*Backend)(nil)

// feedSuffix matches version-suffixed correction/addition feed files
// such as "unknown.24_1" or "mismatch.25_3".
var feedSuffix = regexp.MustCompile(`\d+_\d+$`)

// validatePath ensures the path exists and looks like a catalog file.
func validatePath(path string) error {
	if path == "" {
		return &catalog.FileError{Path: path, Err: catalog.ErrUnsupportedFile}
	}
	if _, err := os.Stat(path); err != nil {
		return &catalog.FileError{Path: path, Err: err}
	}
	if !strings.HasSuffix(path, ".po") && !strings.HasSuffix(path, ".pot") &&
		!feedSuffix.MatchString(path) {
		return &catalog.FileError{Path: path, Err: catalog.ErrUnsupportedFile}
	}
	return nil
}

// Load reads a catalog from disk.
func (b *Backend) Load(path string, opts catalog.LoadOptions) (*catalog.Collection, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &catalog.FileError{Path: path, Err: err}
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, &catalog.FileError{Path: path, Err: err}
	}
	if opts.CheckForDuplicates {
		if err := c.CheckDuplicates(path); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// LoadText reads a catalog from an in-memory string.
func (b *Backend) LoadText(text string, opts catalog.LoadOptions) (*catalog.Collection, error) {
	c, err := Parse(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	if opts.CheckForDuplicates {
		if err := c.CheckDuplicates("<text>"); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Save writes a catalog to disk.
func (b *Backend) Save(c *catalog.Collection, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return &catalog.FileError{Path: path, Err: err}
	}
	defer out.Close()
	if err := Write(c, out); err != nil {
		return &catalog.FileError{Path: path, Err: err}
	}
	return nil
}

// Parse reads a PO/POT catalog from a reader.
func Parse(r io.Reader) (*catalog.Collection, error) {
	c := catalog.New()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	var current *catalog.Entry
	var lastField string // tracks the last msgid/msgstr/etc. field for multiline strings
	lineNum := 0

	flush := func() {
		if current == nil {
			return
		}
		if current.MsgID == "" && current.MsgCtxt == "" && !current.Obsolete {
			c.HeaderComments = current.TranslatorComments
			c.Metadata = parseMetadata(current.MsgStr)
		} else {
			if len(current.MsgStrPlural) == 0 {
				current.MsgStrPlural = nil
			}
			c.Entries = append(c.Entries, current)
		}
		current = nil
		lastField = ""
	}

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		// Empty line separates entries
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if current == nil {
			current = &catalog.Entry{
				MsgStrPlural: make(map[int]string),
				Line:         lineNum,
			}
		}

		// Handle obsolete entries
		if strings.HasPrefix(line, "#~ ") {
			current.Obsolete = true
			line = line[3:]
		}

		// Comment lines
		if strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "#~") {
			if strings.HasPrefix(line, "#:") {
				// Reference
				refs := strings.TrimSpace(line[2:])
				current.References = append(current.References, refs)
			} else if strings.HasPrefix(line, "#,") {
				// Flags
				flagStr := strings.TrimSpace(line[2:])
				for _, flag := range strings.Split(flagStr, ",") {
					flag = strings.TrimSpace(flag)
					if flag != "" {
						current.Flags = append(current.Flags, flag)
					}
				}
			} else if strings.HasPrefix(line, "#.") {
				// Extracted comment
				current.ExtractedComments = append(current.ExtractedComments, strings.TrimSpace(line[2:]))
			} else if strings.HasPrefix(line, "#|") {
				// Previous msgid
				prev := strings.TrimSpace(line[2:])
				if strings.HasPrefix(prev, "msgid ") {
					current.PreviousMsgID = unquote(strings.TrimPrefix(prev, "msgid "))
				}
			} else {
				// Translator comment
				comment := line[1:]
				if strings.HasPrefix(comment, " ") {
					comment = comment[1:]
				}
				current.TranslatorComments = append(current.TranslatorComments, comment)
			}
			continue
		}

		// msgctxt
		if strings.HasPrefix(line, "msgctxt ") {
			current.MsgCtxt = unquote(strings.TrimPrefix(line, "msgctxt "))
			lastField = "msgctxt"
			continue
		}

		// msgid_plural
		if strings.HasPrefix(line, "msgid_plural ") {
			current.MsgIDPlural = unquote(strings.TrimPrefix(line, "msgid_plural "))
			lastField = "msgid_plural"
			continue
		}

		// msgid
		if strings.HasPrefix(line, "msgid ") {
			current.MsgID = unquote(strings.TrimPrefix(line, "msgid "))
			lastField = "msgid"
			continue
		}

		// msgstr[N]
		if strings.HasPrefix(line, "msgstr[") {
			var idx int
			n, err := fmt.Sscanf(line, "msgstr[%d]", &idx)
			if err != nil || n != 1 {
				return nil, fmt.Errorf("line %d: invalid msgstr index: %s", lineNum, line)
			}
			bracketEnd := strings.Index(line, "] ")
			if bracketEnd < 0 {
				return nil, fmt.Errorf("line %d: invalid msgstr format: %s", lineNum, line)
			}
			current.MsgStrPlural[idx] = unquote(line[bracketEnd+2:])
			lastField = fmt.Sprintf("msgstr[%d]", idx)
			continue
		}

		// msgstr
		if strings.HasPrefix(line, "msgstr ") {
			current.MsgStr = unquote(strings.TrimPrefix(line, "msgstr "))
			lastField = "msgstr"
			continue
		}

		// Continuation line (starts with ")
		if strings.HasPrefix(line, "\"") {
			val := unquote(line)
			switch {
			case lastField == "msgctxt":
				current.MsgCtxt += val
			case lastField == "msgid":
				current.MsgID += val
			case lastField == "msgid_plural":
				current.MsgIDPlural += val
			case lastField == "msgstr":
				current.MsgStr += val
			case strings.HasPrefix(lastField, "msgstr["):
				var idx int
				fmt.Sscanf(lastField, "msgstr[%d]", &idx)
				current.MsgStrPlural[idx] += val
			}
			continue
		}
	}

	// Flush last entry
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading PO file: %w", err)
	}

	return c, nil
}

// parseMetadata splits the header msgstr into ordered fields.
func parseMetadata(msgstr string) []catalog.MetadataField {
	var fields []catalog.MetadataField
	for _, line := range strings.Split(msgstr, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if idx := strings.Index(line, ":"); idx > 0 {
			fields = append(fields, catalog.MetadataField{
				Key:   strings.TrimSpace(line[:idx]),
				Value: strings.TrimSpace(line[idx+1:]),
			})
		}
	}
	return fields
}

// Write writes the catalog to a writer.
func Write(c *catalog.Collection, w io.Writer) error {
	bw := bufio.NewWriter(w)

	// Header
	for _, comment := range c.HeaderComments {
		fmt.Fprintf(bw, "# %s\n", comment)
	}
	fmt.Fprintln(bw, `msgid ""`)
	fmt.Fprintln(bw, `msgstr ""`)
	for _, f := range c.Metadata {
		fmt.Fprintf(bw, "%s\n", quote(f.Key+": "+f.Value+"\n"))
	}

	// Entries
	for _, e := range c.Entries {
		fmt.Fprintln(bw)
		writeEntry(bw, e)
	}

	return bw.Flush()
}

// WriteFile writes the catalog to disk.
func WriteFile(c *catalog.Collection, path string) error {
	return New().Save(c, path)
}

func writeEntry(w *bufio.Writer, e *catalog.Entry) {
	prefix := ""
	if e.Obsolete {
		prefix = "#~ "
	}

	for _, c := range e.TranslatorComments {
		fmt.Fprintf(w, "# %s\n", c)
	}
	for _, c := range e.ExtractedComments {
		fmt.Fprintf(w, "#. %s\n", c)
	}
	for _, ref := range e.References {
		fmt.Fprintf(w, "#: %s\n", ref)
	}
	if len(e.Flags) > 0 {
		fmt.Fprintf(w, "#, %s\n", strings.Join(e.Flags, ", "))
	}
	if e.PreviousMsgID != "" {
		fmt.Fprintf(w, "#| msgid %s\n", quote(e.PreviousMsgID))
	}

	if e.MsgCtxt != "" {
		fmt.Fprintf(w, "%smsgctxt %s\n", prefix, quote(e.MsgCtxt))
	}
	fmt.Fprintf(w, "%smsgid %s\n", prefix, quote(e.MsgID))
	if e.MsgIDPlural != "" {
		fmt.Fprintf(w, "%smsgid_plural %s\n", prefix, quote(e.MsgIDPlural))
	}

	if e.MsgIDPlural != "" && len(e.MsgStrPlural) > 0 {
		indices := make([]int, 0, len(e.MsgStrPlural))
		for idx := range e.MsgStrPlural {
			indices = append(indices, idx)
		}
		sort.Ints(indices)
		for _, idx := range indices {
			fmt.Fprintf(w, "%smsgstr[%d] %s\n", prefix, idx, quote(e.MsgStrPlural[idx]))
		}
	} else {
		fmt.Fprintf(w, "%smsgstr %s\n", prefix, quote(e.MsgStr))
	}
}

// quote produces a PO-style quoted string on a single line.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return `"` + s + `"`
}

// unquote removes PO-style quoting from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]

	var result strings.Builder
	result.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				result.WriteByte('\n')
				i++
			case 't':
				result.WriteByte('\t')
				i++
			case '\\':
				result.WriteByte('\\')
				i++
			case '"':
				result.WriteByte('"')
				i++
			default:
				result.WriteByte(s[i])
			}
		} else {
			result.WriteByte(s[i])
		}
	}
	return result.String()
}
