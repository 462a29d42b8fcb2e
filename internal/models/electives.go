package models

import "encoding/json"

// ElectiveNone marks a category with no chosen option; electives in that
// category stay hidden.
const ElectiveNone = "__ELECTIVE_NONE__"

// ElectiveCatalog declares, per elective category, the option codes available
// for a (course, semester, phase) combo. An empty Categories map means no
// electives apply there.
type ElectiveCatalog struct {
	Categories   map[string][]string
	CacheVersion string
}

// ElectiveSelection maps every catalog category to a chosen option code or
// ElectiveNone. Keys are always exactly the catalog's categories once
// normalized.
type ElectiveSelection map[string]string

// Equal reports whether two selections carry the same choices.
func (s ElectiveSelection) Equal(other ElectiveSelection) bool {
	if len(s) != len(other) {
		return false
	}
	for category, code := range s {
		if other[category] != code {
			return false
		}
	}
	return true
}

// Empty reports whether the catalog declares no elective categories.
func (c ElectiveCatalog) Empty() bool {
	return len(c.Categories) == 0
}

// UnmarshalJSON decodes the /api/electives envelope: the catalog fields are
// all keys of the response except cacheVersion.
func (c *ElectiveCatalog) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Categories = make(map[string][]string, len(raw))
	for key, val := range raw {
		if key == "cacheVersion" {
			if err := json.Unmarshal(val, &c.CacheVersion); err != nil {
				return err
			}
			continue
		}
		var codes []string
		if err := json.Unmarshal(val, &codes); err != nil {
			return err
		}
		c.Categories[key] = codes
	}
	return nil
}

// MarshalJSON restores the flat envelope so cached catalogs round-trip through
// the store in the same shape the server sends.
func (c ElectiveCatalog) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(c.Categories)+1)
	for key, codes := range c.Categories {
		flat[key] = codes
	}
	flat["cacheVersion"] = c.CacheVersion
	return json.Marshal(flat)
}
