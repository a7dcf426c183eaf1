package application

import (
	"sort"
)

// ErrorMap maps a field to its validation message. A missing entry means
// the field is valid.
type ErrorMap map[FieldKey]string

// Empty reports whether no field has an error.
func (m ErrorMap) Empty() bool {
	return len(m) == 0
}

// Has reports whether key carries an error.
func (m ErrorMap) Has(key FieldKey) bool {
	_, ok := m[key]
	return ok
}

// Merge copies every entry of other into m, overwriting duplicates.
func (m ErrorMap) Merge(other ErrorMap) {
	for k, v := range other {
		m[k] = v
	}
}

// Apply records msg for key, or clears key when msg is empty.
func (m ErrorMap) Apply(key FieldKey, msg string) {
	if msg == "" {
		delete(m, key)
		return
	}
	m[key] = msg
}

// PurgeEntry drops every error whose key belongs to entry index of s. Keys
// for other indices are left as they are.
func (m ErrorMap) PurgeEntry(s Section, index int) {
	for k := range m {
		if k.Section == s && k.Index == index {
			delete(m, k)
		}
	}
}

// Keys returns the keys sorted by their string form.
func (m ErrorMap) Keys() []FieldKey {
	keys := make([]FieldKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}

// Strings returns a copy keyed by the composite string form.
func (m ErrorMap) Strings() map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k.String()] = v
	}
	return out
}
