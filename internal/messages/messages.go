// Package messages holds user-facing messages keyed by form field, plus one
// global key for messages not tied to a field.
//
// A *Map is immutable: every update returns a new map and leaves the
// receiver untouched, so a snapshot handed out to a reader never changes.
package messages

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// GlobalKey is the key for messages not bound to a field.
const GlobalKey = "global"

// Severity classifies a message.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
)

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	switch s {
	case SeverityError, SeverityInfo, SeveritySuccess, SeverityWarning:
		return true
	}
	return false
}

// Message is a single user-facing message.
type Message struct {
	Text     string   `json:"text"`
	Severity Severity `json:"type"`
}

// New returns an error message.
func New(text string) Message {
	return Message{Text: text, Severity: SeverityError}
}

// NewWithSeverity returns a message with the given severity. Unknown
// severities fall back to error.
func NewWithSeverity(text string, severity Severity) Message {
	if !severity.Valid() {
		severity = SeverityError
	}
	return Message{Text: text, Severity: severity}
}

// UnmarshalJSON accepts either a bare string or {"text": ..., "type": ...}.
func (m *Message) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*m = New(text)
		return nil
	}

	var raw struct {
		Text     string   `json:"text"`
		Severity Severity `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("message must be a string or an object: %w", err)
	}
	*m = NewWithSeverity(raw.Text, Severity(strings.ToLower(string(raw.Severity))))
	return nil
}

// Map is an immutable mapping from key to an ordered list of messages.
// Keys without messages are never present. A nil *Map is empty.
type Map struct {
	entries map[string][]Message
}

var empty = &Map{}

// Empty returns the canonical empty map. Clear always returns this
// instance.
func Empty() *Map {
	return empty
}

// Add returns a new map with msg appended to the list under key.
func (m *Map) Add(key string, msg Message) *Map {
	next := m.clone(1)
	list := make([]Message, 0, len(next.entries[key])+1)
	list = append(list, next.entries[key]...)
	next.entries[key] = append(list, msg)
	return next
}

// Remove returns a new map without key. It returns a new instance even if
// key was absent.
func (m *Map) Remove(key string) *Map {
	next := m.clone(0)
	delete(next.entries, key)
	return next
}

// Clear returns the canonical empty map.
func (m *Map) Clear() *Map {
	return empty
}

// AddGlobal appends msg under GlobalKey.
func (m *Map) AddGlobal(msg Message) *Map {
	return m.Add(GlobalKey, msg)
}

// RemoveGlobal drops every global message.
func (m *Map) RemoveGlobal() *Map {
	return m.Remove(GlobalKey)
}

// Get returns a copy of the messages stored under key.
func (m *Map) Get(key string) []Message {
	if m == nil {
		return nil
	}
	list, ok := m.entries[key]
	if !ok {
		return nil
	}
	out := make([]Message, len(list))
	copy(out, list)
	return out
}

// Global returns the global messages.
func (m *Map) Global() []Message {
	return m.Get(GlobalKey)
}

// Has reports whether key has messages.
func (m *Map) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.entries[key]
	return ok
}

// Keys returns the keys that have messages, sorted.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys with messages.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// IsEmpty reports whether there are no messages at all.
func (m *Map) IsEmpty() bool {
	return m.Len() == 0
}

// MarshalJSON renders the map as {"key": [{"text":..., "type":...}]}.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil || m.entries == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m.entries)
}

// ErrDecodeIntoShared is returned when decoding into a map that may already
// be shared, such as the canonical empty map.
var ErrDecodeIntoShared = errors.New("messages: decode target must be a new map")

// UnmarshalJSON reads {"key": [message...]}. Empty lists are dropped. Only
// a fresh zero Map can be decoded into.
func (m *Map) UnmarshalJSON(data []byte) error {
	if m == empty || m.entries != nil {
		return ErrDecodeIntoShared
	}
	var raw map[string][]Message
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	entries := make(map[string][]Message, len(raw))
	for k, list := range raw {
		if len(list) > 0 {
			entries[k] = list
		}
	}
	m.entries = entries
	return nil
}

// clone copies the key table. Message slices are shared and must not be
// appended to in place.
func (m *Map) clone(extra int) *Map {
	var size int
	if m != nil {
		size = len(m.entries)
	}
	entries := make(map[string][]Message, size+extra)
	if m != nil {
		for k, v := range m.entries {
			entries[k] = v
		}
	}
	return &Map{entries: entries}
}
