package catalog

import (
	"errors"
	"fmt"
)

// LoadOptions controls catalog loading.
type LoadOptions struct {
	// CheckForDuplicates makes Load fail with a DuplicateKeyError when
	// two entries resolve to the same identity.
	CheckForDuplicates bool
}

// Backend is the catalog persistence capability. The synchronization
// and check engines are written against this interface; the concrete
// provider is chosen at construction time.
type Backend interface {
	// Load reads a catalog from disk.
	Load(path string, opts LoadOptions) (*Collection, error)
	// LoadText reads a catalog from an in-memory string.
	LoadText(text string, opts LoadOptions) (*Collection, error)
	// Save writes a catalog to disk with "\n" line endings and
	// effectively unlimited line width.
	Save(c *Collection, path string) error
}

// ErrUnsupportedFile is reported for paths that are not recognized as
// catalog files.
var ErrUnsupportedFile = errors.New("unsupported catalog file type")

// FileError is a fatal structural error: the file is missing,
// unreadable, malformed, or has an unsupported extension. No engine
// logic runs after it.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("catalog file %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// DuplicateKeyError is reported at load time when duplicate-identity
// checking is enabled and two entries share an identity.
type DuplicateKeyError struct {
	Path string
	Key  Key
	Line int
}

func (e *DuplicateKeyError) Error() string {
	if e.Key.Composite {
		return fmt.Sprintf("%s:%d: duplicate entry for msgctxt %q msgid %q",
			e.Path, e.Line, e.Key.MsgCtxt, e.Key.MsgID)
	}
	return fmt.Sprintf("%s:%d: duplicate entry for msgctxt %q", e.Path, e.Line, e.Key.MsgCtxt)
}

// CheckDuplicates verifies that every live entry identity is unique.
// Obsolete entries are exempt: an obsolete entry legitimately coexists
// with a later re-added entry of the same identity.
func (c *Collection) CheckDuplicates(path string) error {
	seen := make(map[Key]struct{}, len(c.Entries))
	for _, e := range c.Entries {
		if e.Obsolete {
			continue
		}
		k := KeyOf(e)
		if _, ok := seen[k]; ok {
			return &DuplicateKeyError{Path: path, Key: k, Line: e.Line}
		}
		seen[k] = struct{}{}
	}
	return nil
}
