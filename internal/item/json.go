package item

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrInvalidJSON is returned when item JSON cannot be parsed.
var ErrInvalidJSON = errors.New("item: invalid JSON")

// MarshalJSON encodes a record as a JSON object mapping each format to its
// base64-encoded payload. Format order follows the record's order.
func MarshalJSON(r *Record) (string, error) {
	out := "{}"
	for _, format := range r.Formats() {
		payload, _ := r.Get(format)
		var err error
		out, err = sjson.Set(out, escapePath(format), base64.StdEncoding.EncodeToString(payload))
		if err != nil {
			return "", fmt.Errorf("item: encode %q: %w", format, err)
		}
	}
	return out, nil
}

// UnmarshalJSON decodes a JSON object produced by MarshalJSON.
func UnmarshalJSON(s string) (*Record, error) {
	if !gjson.Valid(s) {
		return nil, ErrInvalidJSON
	}
	parsed := gjson.Parse(s)
	if !parsed.IsObject() {
		return nil, ErrInvalidJSON
	}

	rec := NewRecord()
	var decodeErr error
	parsed.ForEach(func(k, v gjson.Result) bool {
		payload, err := base64.StdEncoding.DecodeString(v.String())
		if err != nil {
			decodeErr = fmt.Errorf("item: decode %q: %w", k.String(), err)
			return false
		}
		rec.Set(k.String(), payload)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return rec, nil
}

// escapePath escapes sjson path metacharacters in a format key. MIME-like
// keys can contain dots (e.g. "application/x.foo").
func escapePath(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '\\', '|', '#', '@':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
