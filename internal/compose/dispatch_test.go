package compose

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingOpener struct {
	fail   map[string]error
	opened []string
}

func (o *recordingOpener) Open(_ context.Context, link string) error {
	o.opened = append(o.opened, link)
	for prefix, err := range o.fail {
		if strings.HasPrefix(link, prefix) {
			return err
		}
	}
	return nil
}

func TestDeepLinkRoundTrips(t *testing.T) {
	t.Parallel()

	text := "Hello Hari Pathology,\n\n*Price:* ₹250 & 1+1"
	link := DeepLink("6393345938", text)
	require.True(t, strings.HasPrefix(link, "https://wa.me/6393345938?text="))
	require.NotContains(t, link, "+", "spaces must be percent encoded")

	u, err := url.Parse(link)
	require.NoError(t, err)
	require.Equal(t, text, u.Query().Get("text"))
}

func TestDispatchOpensDeepLink(t *testing.T) {
	t.Parallel()

	opener := &recordingOpener{}
	d := NewDispatcher("6393345938", nil)
	res, err := d.Dispatch(context.Background(), opener, Message{Kind: KindBooking, Text: "hi"})
	require.NoError(t, err)
	require.False(t, res.FellBack)
	require.Equal(t, []string{"https://wa.me/6393345938?text=hi"}, opener.opened)
}

func TestDispatchFallsBackOnce(t *testing.T) {
	t.Parallel()

	opener := &recordingOpener{fail: map[string]error{"https://": errors.New("popup blocked")}}
	d := NewDispatcher("6393345938", nil)
	res, err := d.Dispatch(context.Background(), opener, Message{Kind: KindFeedback, Text: "hi"})
	require.NoError(t, err)
	require.True(t, res.FellBack)
	require.Equal(t, "tel:6393345938", res.Link)
	require.Len(t, opener.opened, 2)

	var derr *DispatchError
	require.ErrorAs(t, res.Failure, &derr)
	require.NotContains(t, derr.Error(), "text=", "payload is redacted")
}

func TestDispatchReportsFailedFallback(t *testing.T) {
	t.Parallel()

	opener := &recordingOpener{fail: map[string]error{"": errors.New("closed")}}
	d := NewDispatcher("6393345938", nil)
	_, err := d.Dispatch(context.Background(), opener, Message{Text: "hi"})

	var derr *DispatchError
	require.ErrorAs(t, err, &derr)
	require.Equal(t, "tel:6393345938", derr.Link)
	require.Len(t, opener.opened, 2, "no retry beyond the single fallback")
}
