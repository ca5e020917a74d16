// Package catalog implements the in-memory model for PO translation
// catalogs: entries, the dual-key identity scheme, deterministic
// ordering, and metadata normalization.
package catalog

import "strings"

// KeySentinel is the context suffix signaling that identity is the
// (context, msgid) pair rather than the context alone.
const KeySentinel = ":"

// SortFirstMarker is the context prefix that forces an entry to sort
// before all others.
const SortFirstMarker = "*"

// Well-known flags.
const (
	// FlagFuzzy marks a translation that needs human re-review.
	FlagFuzzy = "fuzzy"
	// FlagFixed marks an entry the consistency checker must skip.
	FlagFixed = "fixed"
)

// Entry represents a single translatable message in a catalog.
type Entry struct {
	// TranslatorComments are lines starting with "# ".
	TranslatorComments []string
	// ExtractedComments are lines starting with "#." (provenance from
	// upstream tooling, e.g. unknown/mismatch logs).
	ExtractedComments []string
	// References are source code locations, lines starting with "#:".
	References []string
	// Flags are format flags, lines starting with "#,".
	Flags []string
	// PreviousMsgID stores the msgid before a source-text correction,
	// lines starting with "#|".
	PreviousMsgID string

	// MsgCtxt is the message context (msgctxt).
	MsgCtxt string
	// MsgID is the untranslated string.
	MsgID string
	// MsgIDPlural is the untranslated plural string.
	MsgIDPlural string
	// MsgStr is the translated string (singular or the only form).
	MsgStr string
	// MsgStrPlural maps plural form index to translated string.
	MsgStrPlural map[int]string

	// Obsolete marks entries prefixed with "#~".
	Obsolete bool

	// Line is the line number of the entry in the source file (0 when
	// the entry was created programmatically).
	Line int
}

// Key identifies an entry within a catalog. When the context ends with
// KeySentinel the msgid participates in the identity (Composite is
// true); otherwise the context alone identifies the entry and MsgID is
// left empty. Key is comparable and safe to use as a map key.
type Key struct {
	MsgCtxt   string
	MsgID     string
	Composite bool
}

// KeyOf resolves the identity of an entry under the dual-key scheme.
func KeyOf(e *Entry) Key {
	if strings.HasSuffix(e.MsgCtxt, KeySentinel) {
		return Key{MsgCtxt: e.MsgCtxt, MsgID: e.MsgID, Composite: true}
	}
	return Key{MsgCtxt: e.MsgCtxt}
}

// keyFor resolves the identity of a (msgctxt, msgid) lookup pair.
func keyFor(msgctxt, msgid string) Key {
	if strings.HasSuffix(msgctxt, KeySentinel) {
		return Key{MsgCtxt: msgctxt, MsgID: msgid, Composite: true}
	}
	return Key{MsgCtxt: msgctxt}
}

// HasFlag checks if a specific flag is present (exact match).
func (e *Entry) HasFlag(flag string) bool {
	for _, f := range e.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// HasFlagFold checks if a flag is present, ignoring case. The "fixed"
// skip marker is matched this way.
func (e *Entry) HasFlagFold(flag string) bool {
	for _, f := range e.Flags {
		if strings.EqualFold(f, flag) {
			return true
		}
	}
	return false
}

// AddFlag adds a flag unless it is already present.
func (e *Entry) AddFlag(flag string) {
	if !e.HasFlag(flag) {
		e.Flags = append(e.Flags, flag)
	}
}

// RemoveFlag removes every occurrence of a flag.
func (e *Entry) RemoveFlag(flag string) {
	filtered := e.Flags[:0:0]
	for _, f := range e.Flags {
		if f != flag {
			filtered = append(filtered, f)
		}
	}
	e.Flags = filtered
}

// Translated reports whether the entry carries any non-blank
// translation text. Obsolete entries are never considered translated.
func (e *Entry) Translated() bool {
	if e.Obsolete {
		return false
	}
	if len(e.MsgStrPlural) > 0 {
		for _, v := range e.MsgStrPlural {
			if strings.TrimSpace(v) != "" {
				return true
			}
		}
		return false
	}
	return strings.TrimSpace(e.MsgStr) != ""
}

// Untranslated reports whether the entry has no translation in any
// plural form. Obsolete entries are never classified untranslated so
// that the untranslated-last sort keeps them in place.
func (e *Entry) Untranslated() bool {
	if e.Obsolete {
		return false
	}
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

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	c := *e
	c.TranslatorComments = append([]string(nil), e.TranslatorComments...)
	c.ExtractedComments = append([]string(nil), e.ExtractedComments...)
	c.References = append([]string(nil), e.References...)
	c.Flags = append([]string(nil), e.Flags...)
	if e.MsgStrPlural != nil {
		c.MsgStrPlural = make(map[int]string, len(e.MsgStrPlural))
		for k, v := range e.MsgStrPlural {
			c.MsgStrPlural[k] = v
		}
	}
	return &c
}

// MetadataField is one header field of a catalog. Order is preserved
// when the catalog is written back.
type MetadataField struct {
	Key   string
	Value string
}

// Collection is an ordered sequence of entries plus the catalog header
// metadata.
type Collection struct {
	// HeaderComments are translator comment lines attached to the
	// header entry.
	HeaderComments []string
	Metadata       []MetadataField
	Entries        []*Entry
}

// New returns an empty collection.
func New() *Collection {
	return &Collection{}
}

// Append adds an entry at the end of the collection.
func (c *Collection) Append(e *Entry) {
	c.Entries = append(c.Entries, e)
}

// Len returns the number of entries.
func (c *Collection) Len() int { return len(c.Entries) }

// Find returns the first entry matching the (msgctxt, msgid) lookup
// pair under the dual-key scheme, or nil.
func (c *Collection) Find(msgctxt, msgid string) *Entry {
	want := keyFor(msgctxt, msgid)
	for _, e := range c.Entries {
		if KeyOf(e) == want {
			return e
		}
	}
	return nil
}

// Index returns a map from identity to entry for O(1) reconciliation
// lookups. When duplicate identities exist the first entry wins.
func (c *Collection) Index() map[Key]*Entry {
	idx := make(map[Key]*Entry, len(c.Entries))
	for _, e := range c.Entries {
		k := KeyOf(e)
		if _, ok := idx[k]; !ok {
			idx[k] = e
		}
	}
	return idx
}

// Keys returns the identity of every entry in order.
func (c *Collection) Keys() []Key {
	keys := make([]Key, 0, len(c.Entries))
	for _, e := range c.Entries {
		keys = append(keys, KeyOf(e))
	}
	return keys
}

// MetadataValue returns the value of a header field, or "".
func (c *Collection) MetadataValue(key string) string {
	for _, f := range c.Metadata {
		if strings.EqualFold(f.Key, key) {
			return f.Value
		}
	}
	return ""
}

// SetMetadata sets a header field, appending it when absent.
func (c *Collection) SetMetadata(key, value string) {
	for i, f := range c.Metadata {
		if strings.EqualFold(f.Key, key) {
			c.Metadata[i].Value = value
			return
		}
	}
	c.Metadata = append(c.Metadata, MetadataField{Key: key, Value: value})
}

// MetadataTemplate is the ordered whitelist of header fields a
// normalized catalog may carry. Fields with a non-empty value are
// force-set; fields with an empty value retain whatever the catalog
// already had. It is an explicit configuration value owned by the
// caller, not engine-global state.
type MetadataTemplate []MetadataField

// NewMetadataTemplate builds the standard template. projectID and
// bugsAddress may be empty, in which case the existing values are kept.
func NewMetadataTemplate(projectID, bugsAddress string) MetadataTemplate {
	return MetadataTemplate{
		{Key: "Project-Id-Version", Value: projectID},
		{Key: "Report-Msgid-Bugs-To", Value: bugsAddress},
		{Key: "POT-Creation-Date"},
		{Key: "PO-Revision-Date"},
		{Key: "Last-Translator"},
		{Key: "Language-Team"},
		{Key: "Language"},
		{Key: "MIME-Version", Value: "1.0"},
		{Key: "Content-Type", Value: "text/plain; charset=UTF-8"},
		{Key: "Content-Transfer-Encoding", Value: "8bit"},
		{Key: "Plural-Forms", Value: "nplurals=1; plural=0;"},
	}
}

// Format normalizes the collection for persistence: the metadata is
// rewritten to contain exactly the template's fields (any other field
// is dropped) and the entries are sorted.
func (c *Collection) Format(tpl MetadataTemplate) {
	filtered := make([]MetadataField, 0, len(tpl))
	for _, f := range tpl {
		value := f.Value
		if value == "" {
			value = c.MetadataValue(f.Key)
		}
		filtered = append(filtered, MetadataField{Key: f.Key, Value: value})
	}
	c.Metadata = filtered
	c.Sort()
}
