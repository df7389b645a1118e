package item

import (
	"fmt"
	"io"
)

// JSONSaver is the built-in saver. It persists items as one JSON object
// per line and applies no transforms of its own. It is the innermost
// element of every saver chain.
type JSONSaver struct{}

// NewJSONSaver creates the built-in saver.
func NewJSONSaver() *JSONSaver {
	return &JSONSaver{}
}

// SaveItems writes each record as a JSON line.
func (s *JSONSaver) SaveItems(tab string, items []*Record, w io.Writer) error {
	for i, rec := range items {
		line, err := MarshalJSON(rec)
		if err != nil {
			return fmt.Errorf("save %q item %d: %w", tab, i, err)
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return fmt.Errorf("save %q item %d: %w", tab, i, err)
		}
	}
	return nil
}

// CanRemoveItems allows removal of any items.
func (s *JSONSaver) CanRemoveItems(items []*Record) error {
	return nil
}

// CanMoveItems allows moving any items.
func (s *JSONSaver) CanMoveItems(items []*Record) bool {
	return true
}

// ItemsRemovedByUser is a no-op for the built-in saver.
func (s *JSONSaver) ItemsRemovedByUser(items []*Record) {}

// CopyItem returns a copy of the record unchanged.
func (s *JSONSaver) CopyItem(tab string, data *Record) (*Record, error) {
	return data.Clone(), nil
}

// TransformItemData leaves the record unchanged.
func (s *JSONSaver) TransformItemData(tab string, data *Record) error {
	return nil
}
