package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderFiltersCardsButNeverOptions(t *testing.T) {
	t.Parallel()

	s := Default()
	for _, f := range Filters() {
		v := Render(s, f, "")
		require.Len(t, v.Cards, len(s.Select(f)))
		require.Len(t, v.Options, s.Len(), "selector must list every test for %s", f.Key())

		for i, rec := range s.Select(f) {
			require.Equal(t, rec.Name, v.Cards[i].Name)
		}

		active := 0
		for _, b := range v.Buttons {
			if b.Active {
				active++
				require.Equal(t, f.Key(), b.Key)
			}
		}
		require.Equal(t, 1, active)
	}
}

func TestRenderCardFields(t *testing.T) {
	t.Parallel()

	v := Render(Default(), FilterOf(CategorySpecial), "")
	require.Len(t, v.Cards, 3)

	card := v.Cards[0]
	require.Equal(t, "Vitamin D", card.Name)
	require.Equal(t, "₹1000", card.PriceLabel)
	require.Equal(t, "special", card.Badge.Key)
	require.Equal(t, BookAction{Field: "test", Value: "Vitamin D", ScrollTo: "booking"}, card.Book)

	labels := make([]string, 0, len(v.Options))
	for _, o := range v.Options {
		labels = append(labels, o.Label)
	}
	require.Contains(t, labels, "Vitamin D - ₹1000")
}

func TestRenderIsIdempotent(t *testing.T) {
	t.Parallel()

	s := Default()
	first := Render(s, FilterOf(CategoryBasic), "ESR")
	second := Render(s, FilterOf(CategoryBasic), "ESR")
	require.Equal(t, first, second)
}

func TestRenderMarksSelectedOption(t *testing.T) {
	t.Parallel()

	v := Render(Default(), FilterOf(CategoryBasic), "Dengue")
	selected := 0
	for _, o := range v.Options {
		if o.Selected {
			selected++
			require.Equal(t, "Dengue", o.Value)
			require.Equal(t, "Dengue - ₹800", o.Label)
		}
	}
	require.Equal(t, 1, selected)
}
