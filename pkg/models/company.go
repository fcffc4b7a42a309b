// Package models defines the shared data types of the toolkit: the
// normalized record model produced by extraction, and the weekly price
// candle written by the series downloader.
package models

// FactList is an insertion-ordered key/value mapping. Setting an
// existing key overwrites its value while keeping its original
// position, so two structurally identical sources always produce the
// same iteration order.
type FactList struct {
	keys   []string
	values map[string]string
}

// NewFactList creates an empty FactList.
func NewFactList() *FactList {
	return &FactList{values: make(map[string]string)}
}

// Set stores a value under key. Last write wins on duplicates.
func (f *FactList) Set(key, value string) {
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns the value for key and whether it was present.
func (f *FactList) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Len returns the number of stored pairs.
func (f *FactList) Len() int { return len(f.keys) }

// Keys returns the keys in insertion order.
func (f *FactList) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Each calls fn for every pair in insertion order.
func (f *FactList) Each(fn func(key, value string)) {
	for _, k := range f.keys {
		fn(k, f.values[k])
	}
}

// Merge copies all pairs from other into f, preserving f's existing
// key positions.
func (f *FactList) Merge(other *FactList) {
	if other == nil {
		return
	}
	other.Each(f.Set)
}

// TabularBlock is a normalized table extracted from one source table:
// an ordered header row plus data rows, every row padded or truncated
// to exactly len(Headers) cells. Header strings are not required to be
// unique. Empty cells are the empty string, never a missing-value
// marker.
type TabularBlock struct {
	Name    string     // synthetic label, "Table_1", "Table_2", ... per section
	Headers []string
	Rows    [][]string
}

// Normalize pads short rows with empty strings and discards extra
// trailing cells so that every row has exactly len(Headers) cells.
func (b *TabularBlock) Normalize() {
	width := len(b.Headers)
	for i, row := range b.Rows {
		switch {
		case len(row) < width:
			padded := make([]string, width)
			copy(padded, row)
			b.Rows[i] = padded
		case len(row) > width:
			b.Rows[i] = row[:width]
		}
	}
}

// Empty reports whether the block has no headers or no data rows.
// Empty blocks are dropped during extraction rather than surfaced.
func (b *TabularBlock) Empty() bool {
	return len(b.Headers) == 0 || len(b.Rows) == 0
}

// Section is one titled section of a company page: zero or more
// tabular blocks in encounter order, plus one merged fact list for any
// key/value pairs found in the section.
type Section struct {
	Title  string
	Tables []TabularBlock
	Facts  *FactList
}

// Reserved fact keys in the identity section.
const (
	FactCompanyName = "Company Name"
	FactDescription = "Description"
)

// RecordModel is the full normalized output of extracting one company
// page. Identity and Metrics are the two reserved metadata sections
// and always render first; Sections holds everything else in document
// order. Either metadata section may be nil when its structural anchor
// is absent from the markup.
type RecordModel struct {
	Symbol   string
	Identity *FactList
	Metrics  *FactList
	Sections []Section
}

// Section returns a pointer to the named section, or nil. Used to
// merge key/value pairs when a later section carries a title already
// seen.
func (m *RecordModel) Section(title string) *Section {
	for i := range m.Sections {
		if m.Sections[i].Title == title {
			return &m.Sections[i]
		}
	}
	return nil
}

// CompanyName returns the identity section's name fact, or the empty
// string.
func (m *RecordModel) CompanyName() string {
	if m.Identity == nil {
		return ""
	}
	name, _ := m.Identity.Get(FactCompanyName)
	return name
}

// Description returns the identity section's description fact, or the
// empty string.
func (m *RecordModel) Description() string {
	if m.Identity == nil {
		return ""
	}
	desc, _ := m.Identity.Get(FactDescription)
	return desc
}
