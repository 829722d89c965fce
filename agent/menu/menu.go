// Package menu holds the immutable menu index built once at startup.
// All lookups match on a normalized key: lowercased, whitespace-trimmed.
package menu

import (
	"fmt"
	"strings"
)

// Entry is one menu item. Immutable after load.
type Entry struct {
	Name        string
	Key         string
	Price       float64
	Description string
}

// Index is a read-only lookup table over menu entries. It is safe for
// concurrent use because it is never mutated after construction.
type Index struct {
	byKey          map[string]Entry
	ordered        []Entry
	llmListing     string
	displayListing string
}

// Normalize produces the matching key for an item name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NewIndex builds an index from entries, deriving keys and the two
// pre-rendered listings. Duplicate keys are rejected.
func NewIndex(entries []Entry) (*Index, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("menu has no entries")
	}

	byKey := make(map[string]Entry, len(entries))
	ordered := make([]Entry, 0, len(entries))
	var llm, display strings.Builder

	for _, e := range entries {
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			return nil, fmt.Errorf("menu entry has empty name")
		}
		e.Key = Normalize(e.Name)
		if _, ok := byKey[e.Key]; ok {
			return nil, fmt.Errorf("duplicate menu item %q", e.Name)
		}
		byKey[e.Key] = e
		ordered = append(ordered, e)

		if llm.Len() > 0 {
			llm.WriteByte('\n')
			display.WriteByte('\n')
		}
		fmt.Fprintf(&llm, "- %s: $%g (Description: %s)", e.Name, e.Price, e.Description)
		fmt.Fprintf(&display, "- %s: $%g", e.Name, e.Price)
	}

	return &Index{
		byKey:          byKey,
		ordered:        ordered,
		llmListing:     llm.String(),
		displayListing: display.String(),
	}, nil
}

// Lookup finds an entry by its normalized key.
func (ix *Index) Lookup(key string) (Entry, bool) {
	e, ok := ix.byKey[key]
	return e, ok
}

// Resolve normalizes the given name and looks it up.
func (ix *Index) Resolve(name string) (Entry, bool) {
	return ix.Lookup(Normalize(name))
}

// Entries returns items in menu order.
func (ix *Index) Entries() []Entry {
	return ix.ordered
}

// LLMListing is the full menu rendering with descriptions, fed to
// handler prompts.
func (ix *Index) LLMListing() string {
	return ix.llmListing
}

// DisplayListing is the name-and-price-only rendering.
func (ix *Index) DisplayListing() string {
	return ix.displayListing
}
