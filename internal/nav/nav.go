package nav

import "strings"

// Item is a menu entry pointing at a page section.
type Item struct {
	Section string // anchor id, e.g. "tests"
	Label   string
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href   string
	Label  string
	Active bool
}

// Main is the primary navigation definition, in page order.
var Main = []Item{
	{Section: "home", Label: "Home"},
	{Section: "services", Label: "Sevayein"},
	{Section: "tests", Label: "Tests"},
	{Section: "prices", Label: "Keemat"},
	{Section: "testimonials", Label: "Anubhav"},
	{Section: "booking", Label: "Booking"},
	{Section: "feedback", Label: "Feedback"},
}

// Build renders navigation items with the current section marked active.
// An empty or unknown section activates the first item.
func Build(current string) []RenderedItem {
	current = strings.TrimPrefix(strings.TrimSpace(current), "#")
	if !known(current) {
		current = Main[0].Section
	}
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		items = append(items, RenderedItem{
			Href:   "#" + it.Section,
			Label:  it.Label,
			Active: it.Section == current,
		})
	}
	return items
}

func known(section string) bool {
	for _, it := range Main {
		if it.Section == section {
			return true
		}
	}
	return false
}

// Menu is the collapsible phone menu. It opens on the toggle button and
// closes on any link click or any click outside the menu.
type Menu struct {
	Open bool
}

// Toggle flips the menu.
func (m *Menu) Toggle() { m.Open = !m.Open }

// Click handles a document click. insideMenu and onButton describe the target.
func (m *Menu) Click(insideMenu, onLink, onButton bool) {
	switch {
	case onButton:
		return
	case onLink, !insideMenu:
		m.Open = false
	}
}
