package entities

import "sort"

// Toggles maps a toggle key (permission key, visibility element key) to its desired state
type Toggles map[string]bool

// Keys returns the keys sorted, so toggles are applied in a stable order
func (t Toggles) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
