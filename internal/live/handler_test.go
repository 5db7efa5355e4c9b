package live

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aman-yadav7052/hari-pathology/internal/compat"
	"github.com/aman-yadav7052/hari-pathology/internal/observability"
)

func newLiveServer(t *testing.T) *httptest.Server {
	t.Helper()
	h := NewHandler(HandlerConfig{
		Session: Options{
			Policy:              compat.DefaultPolicy(),
			SlideInterval:       time.Hour,
			TestimonialInterval: time.Hour,
			Slides:              3,
			Testimonials:        2,
		},
		Metrics: observability.NewMetrics(),
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, subprotocol string) (*websocket.Conn, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), &websocket.DialOptions{
		Subprotocols: []string{subprotocol},
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	require.Equal(t, subprotocol, conn.Subprotocol())
	return conn, ctx
}

func roundTrip(t *testing.T, ctx context.Context, conn *websocket.Conn, codec Codec, ev Inbound) Outbound {
	t.Helper()
	data, err := msgpackOrJSON(codec, ev)
	require.NoError(t, err)
	require.NoError(t, conn.Write(ctx, codec.MessageType(), data))
	return read(t, ctx, conn, codec)
}

func read(t *testing.T, ctx context.Context, conn *websocket.Conn, codec Codec) Outbound {
	t.Helper()
	typ, data, err := conn.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, codec.MessageType(), typ)
	var out Outbound
	if codec.Name() == "msgpack" {
		require.NoError(t, msgpack.Unmarshal(data, &out))
	} else {
		require.NoError(t, jsonUnmarshal(data, &out))
	}
	return out
}

func TestHandlerJSONSession(t *testing.T) {
	srv := newLiveServer(t)
	conn, ctx := dial(t, srv, SubprotocolJSON)
	codec := JSONCodec{}

	first := roundTrip(t, ctx, conn, codec, Inbound{Type: EventHello, Width: 1280, UserAgent: desktopUA})
	second := read(t, ctx, conn, codec)
	require.Equal(t, CarouselSlides, first.Carousel)
	require.Equal(t, CarouselTestimonials, second.Carousel)
	require.Equal(t, []bool{true, false}, second.Marks)

	next := roundTrip(t, ctx, conn, codec, Inbound{Type: EventAdvance, Carousel: CarouselSlides, Direction: 1})
	require.Equal(t, 1, next.Index)

	bad := roundTrip(t, ctx, conn, codec, Inbound{Type: EventJump, Carousel: CarouselSlides, Position: 9})
	require.Equal(t, MessageError, bad.Type)

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte("not json")))
	invalid := read(t, ctx, conn, codec)
	require.Equal(t, MessageError, invalid.Type)
}

func TestHandlerMsgPackSession(t *testing.T) {
	srv := newLiveServer(t)
	conn, ctx := dial(t, srv, SubprotocolMsgPack)
	codec := MsgPackCodec{}

	first := roundTrip(t, ctx, conn, codec, Inbound{Type: EventHello, Width: 390, UserAgent: iphoneUA})
	require.Equal(t, MessageCarousel, first.Type)
	_ = read(t, ctx, conn, codec)

	back := roundTrip(t, ctx, conn, codec, Inbound{Type: EventAdvance, Carousel: CarouselTestimonials, Direction: -1})
	require.Equal(t, 1, back.Index)
}

func TestCodecForDefaultsToJSON(t *testing.T) {
	require.Equal(t, "json", CodecFor("").Name())
	require.Equal(t, "json", CodecFor("unknown").Name())
	require.Equal(t, "msgpack", CodecFor(SubprotocolMsgPack).Name())

	_, err := JSONCodec{}.Decode([]byte(`{"width":3}`))
	require.ErrorIs(t, err, ErrInvalidMessage)
}
