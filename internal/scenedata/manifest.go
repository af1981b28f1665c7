package scenedata

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateID = errors.New("duplicate record id")
	ErrEmptyID     = errors.New("empty record id")
)

// Manifest is the record list of one scene plus the de-duplicated keys of
// the assets it references. Record order is the order of the last scan and
// has no meaning.
type Manifest struct {
	Records   []Record
	AssetKeys []string
}

// AddKey inserts key if absent and reports whether it was new.
func (m *Manifest) AddKey(key string) bool {
	for _, k := range m.AssetKeys {
		if k == key {
			return false
		}
	}
	m.AssetKeys = append(m.AssetKeys, key)
	return true
}

func (m *Manifest) Find(id string) (int, bool) {
	for i := range m.Records {
		if m.Records[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// Validate checks that every record has a unique, non-empty ID.
func (m *Manifest) Validate() error {
	seen := make(map[string]int, len(m.Records))
	for i, r := range m.Records {
		if r.ID == "" {
			return fmt.Errorf("record %d: %w", i, ErrEmptyID)
		}
		if j, ok := seen[r.ID]; ok {
			return fmt.Errorf("records %d and %d share %q: %w", j, i, r.ID, ErrDuplicateID)
		}
		seen[r.ID] = i
	}
	return nil
}

// RebuildKeys keeps known keys that are still referenced, in their order,
// then appends keys first referenced by the records.
func (m *Manifest) RebuildKeys() {
	used := make(map[string]bool, len(m.Records))
	for _, r := range m.Records {
		used[r.AssetKey] = true
	}
	keys := make([]string, 0, len(used))
	for _, k := range m.AssetKeys {
		if used[k] {
			keys = append(keys, k)
			delete(used, k)
		}
	}
	m.AssetKeys = keys
	for _, r := range m.Records {
		if used[r.AssetKey] {
			m.AddKey(r.AssetKey)
		}
	}
}
