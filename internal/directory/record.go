// Package directory holds the session state of one sandbox connection: the
// access token, the loading and error-dialog flags, and the collection of
// individual records fetched from the employer directory.
package directory

import "fmt"

// Record is one individual as returned by the sandbox API. Its shape is owned
// by the API; only a handful of keys are interpreted by hrs.
type Record map[string]any

// ID returns the identity key of the record.
func (r Record) ID() string {
	switch v := r["id"].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// String returns the string value at key, or "" when absent or not a string.
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Object returns the nested object at key.
func (r Record) Object(key string) (Record, bool) {
	switch v := r[key].(type) {
	case map[string]any:
		return Record(v), true
	case Record:
		return v, true
	default:
		return nil, false
	}
}

// Entries returns the {type, data} pairs stored under key (emails,
// phone_numbers). Malformed elements are skipped.
func (r Record) Entries(key string) []Entry {
	items, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Entry, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		e := Entry{}
		e.Type, _ = m["type"].(string)
		e.Data, _ = m["data"].(string)
		out = append(out, e)
	}
	return out
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Entry is a typed contact value such as a work email.
type Entry struct {
	Type string `json:"type"`
	Data string `json:"data"`
}
