// Package item defines the clipboard item data model and the saver
// capability interface decorated by the plugin system.
package item

import (
	"bytes"
	"io"
)

// Record is one clipboard item: an ordered mapping from MIME-type-like
// format strings to byte payloads. Formats keep insertion order. A Record
// is not safe for concurrent mutation; the pipeline hands it to one
// handler at a time.
type Record struct {
	formats []string
	data    map[string][]byte
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{data: make(map[string][]byte)}
}

// Set stores a payload under the given format. Setting an existing format
// replaces the payload and keeps the original position.
func (r *Record) Set(format string, payload []byte) {
	if _, ok := r.data[format]; !ok {
		r.formats = append(r.formats, format)
	}
	r.data[format] = payload
}

// Get returns the payload for a format.
func (r *Record) Get(format string) ([]byte, bool) {
	p, ok := r.data[format]
	return p, ok
}

// Has returns true if the format is present.
func (r *Record) Has(format string) bool {
	_, ok := r.data[format]
	return ok
}

// Remove deletes a format and its payload.
func (r *Record) Remove(format string) {
	if _, ok := r.data[format]; !ok {
		return
	}
	delete(r.data, format)
	for i, f := range r.formats {
		if f == format {
			r.formats = append(r.formats[:i], r.formats[i+1:]...)
			break
		}
	}
}

// Formats returns the format keys in insertion order.
func (r *Record) Formats() []string {
	return append([]string{}, r.formats...)
}

// Len returns the number of formats.
func (r *Record) Len() int {
	return len(r.formats)
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	clone := &Record{
		formats: append([]string{}, r.formats...),
		data:    make(map[string][]byte, len(r.data)),
	}
	for k, v := range r.data {
		clone.data[k] = append([]byte{}, v...)
	}
	return clone
}

// Equal reports whether two records have the same formats in the same
// order with byte-identical payloads.
func (r *Record) Equal(other *Record) bool {
	if other == nil || len(r.formats) != len(other.formats) {
		return false
	}
	for i, f := range r.formats {
		if other.formats[i] != f {
			return false
		}
		if !bytes.Equal(r.data[f], other.data[f]) {
			return false
		}
	}
	return true
}

// ReplaceWith replaces this record's contents with a deep copy of other.
// Used by in-place transform steps that swap in a script-produced record.
func (r *Record) ReplaceWith(other *Record) {
	clone := other.Clone()
	r.formats = clone.formats
	r.data = clone.data
}

// Saver is the persistence capability for one tab of items. The built-in
// saver implements it directly; script plugins decorate it.
type Saver interface {
	// SaveItems persists all items of a tab to the given writer.
	SaveItems(tab string, items []*Record, w io.Writer) error

	// CanRemoveItems returns nil if the items may be removed, or an error
	// explaining why not.
	CanRemoveItems(items []*Record) error

	// CanMoveItems returns true if the items may be moved to another tab.
	CanMoveItems(items []*Record) bool

	// ItemsRemovedByUser notifies the saver that the user removed items.
	ItemsRemovedByUser(items []*Record)

	// CopyItem returns the record to place on the clipboard for an item.
	CopyItem(tab string, data *Record) (*Record, error)

	// TransformItemData adjusts a new item's record in place before it is
	// stored.
	TransformItemData(tab string, data *Record) error
}
