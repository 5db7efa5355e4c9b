package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultSite(t *testing.T) {
	t.Parallel()

	s := Default()
	require.Equal(t, "Hari Pathology", s.Brand.Name)
	require.Len(t, s.Slides, 3)
	require.Len(t, s.Testimonials, 3)
	require.Contains(t, string(s.Testimonials[0].QuoteHTML), "<strong>samay par</strong>")
	require.Contains(t, string(s.AboutHTML), `rel="nofollow`)

	st, ok := s.Stat("patients")
	require.True(t, ok)
	require.Equal(t, 15000, st.Target)
}

func TestRenderStripsScripts(t *testing.T) {
	t.Parallel()

	html, err := Render("hello <script>alert(1)</script> *world*")
	require.NoError(t, err)
	require.NotContains(t, string(html), "script")
	require.Contains(t, string(html), "<em>world</em>")
}

func TestParseRequiresCarouselItems(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("testimonials:\n  - author: a\n    quote: b\n"))
	require.ErrorIs(t, err, ErrNoSlides)

	_, err = Parse([]byte("slides:\n  - title: a\n"))
	require.ErrorIs(t, err, ErrNoTestimonials)
}

func TestParseRejectsDuplicateStats(t *testing.T) {
	t.Parallel()

	doc := strings.Join([]string{
		"slides: [{title: a}]",
		"testimonials: [{author: a, quote: b}]",
		"stats: [{id: x, target: 1}, {id: x, target: 2}]",
	}, "\n")
	_, err := Parse([]byte(doc))
	require.Error(t, err)
}
