package catalog

import (
	"fmt"
	"strings"
)

// Category classifies every test record.
type Category int

const (
	// CategoryBasic covers routine screening tests.
	CategoryBasic Category = iota + 1
	// CategoryAdvanced covers organ panels and profiles.
	CategoryAdvanced
	// CategorySpecial covers infection and vitamin tests.
	CategorySpecial
)

// Categories lists every category in display order.
var Categories = []Category{CategoryBasic, CategoryAdvanced, CategorySpecial}

// Display holds presentation attributes for a category badge.
type Display struct {
	Key        string
	Label      string
	BadgeClass string
	Color      string
	Background string
}

var displays = map[Category]Display{
	CategoryBasic: {
		Key:        "basic",
		Label:      "Basic",
		BadgeClass: "test-category basic",
		Color:      "#10b981",
		Background: "rgba(16, 185, 129, 0.2)",
	},
	CategoryAdvanced: {
		Key:        "advanced",
		Label:      "Advanced",
		BadgeClass: "test-category advanced",
		Color:      "#3b82f6",
		Background: "rgba(59, 130, 246, 0.2)",
	},
	CategorySpecial: {
		Key:        "special",
		Label:      "Special",
		BadgeClass: "test-category special",
		Color:      "#a855f7",
		Background: "rgba(168, 85, 247, 0.2)",
	},
}

// ParseCategory resolves a category key such as "basic".
func ParseCategory(raw string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	for _, c := range Categories {
		if displays[c].Key == key {
			return c, nil
		}
	}
	return 0, fmt.Errorf("catalog: unknown category %q", raw)
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	_, ok := displays[c]
	return ok
}

// Display returns the presentation attributes for c.
func (c Category) Display() Display {
	if d, ok := displays[c]; ok {
		return d
	}
	return Display{Key: "unknown", Label: "Unknown", BadgeClass: "test-category"}
}

// String returns the category key.
func (c Category) String() string { return c.Display().Key }

// UnmarshalText decodes a category key.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText encodes the category key.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("catalog: invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

// Filter selects which categories are shown in the grid. The zero value is FilterAll.
type Filter struct {
	category Category
}

// FilterAll matches every record.
var FilterAll = Filter{}

// FilterOf restricts the grid to a single category.
func FilterOf(c Category) Filter { return Filter{category: c} }

// Filters lists every selectable filter in button order.
func Filters() []Filter {
	out := []Filter{FilterAll}
	for _, c := range Categories {
		out = append(out, FilterOf(c))
	}
	return out
}

// ParseFilter resolves a filter key. Empty and unknown keys select all.
func ParseFilter(raw string) Filter {
	c, err := ParseCategory(raw)
	if err != nil {
		return FilterAll
	}
	return FilterOf(c)
}

// Matches reports whether a record of category c passes the filter.
func (f Filter) Matches(c Category) bool {
	return f.category == 0 || f.category == c
}

// Key is the query value for the filter ("all", "basic", ...).
func (f Filter) Key() string {
	if f.category == 0 {
		return "all"
	}
	return f.category.String()
}

// Label is the button caption.
func (f Filter) Label() string {
	if f.category == 0 {
		return "All Tests"
	}
	return f.category.Display().Label
}
