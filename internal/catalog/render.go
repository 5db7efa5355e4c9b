package catalog

import (
	"github.com/aman-yadav7052/hari-pathology/internal/format"
)

const (
	// BookingSection is the anchor the book affordance scrolls into view.
	BookingSection = "booking"
	// BookingField is the booking form field the book affordance fills.
	BookingField = "test"
)

// View is a rendered catalog: the filtered grid plus the unfiltered selector.
type View struct {
	Filter  Filter
	Buttons []FilterButton
	Cards   []Card
	Options []Option
}

// FilterButton is a category button above the grid.
type FilterButton struct {
	Key    string
	Label  string
	Active bool
}

// Card is a single test tile in the grid.
type Card struct {
	Name        string
	Description string
	Price       int
	PriceLabel  string
	Badge       Display
	Book        BookAction
}

// BookAction describes what the card's "Book Now" button does.
type BookAction struct {
	Field    string
	Value    string
	ScrollTo string
}

// Option is an entry of the booking form test selector.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Render builds the grid for filter f and the selector for every record.
// Rendering is a pure function of the store, the filter and the selection.
func Render(s *Store, f Filter, selected string) View {
	matching := s.Select(f)
	v := View{
		Filter:  f,
		Buttons: make([]FilterButton, 0, len(Categories)+1),
		Cards:   make([]Card, 0, len(matching)),
		Options: make([]Option, 0, s.Len()),
	}
	for _, candidate := range Filters() {
		v.Buttons = append(v.Buttons, FilterButton{
			Key:    candidate.Key(),
			Label:  candidate.Label(),
			Active: candidate == f,
		})
	}
	for _, rec := range matching {
		v.Cards = append(v.Cards, Card{
			Name:        rec.Name,
			Description: rec.Description,
			Price:       rec.Price,
			PriceLabel:  format.Rupees(rec.Price),
			Badge:       rec.Category.Display(),
			Book: BookAction{
				Field:    BookingField,
				Value:    rec.Name,
				ScrollTo: BookingSection,
			},
		})
	}
	for _, rec := range s.records {
		v.Options = append(v.Options, Option{
			Value:    rec.Name,
			Label:    rec.Name + " - " + format.Rupees(rec.Price),
			Selected: rec.Name == selected,
		})
	}
	return v
}
