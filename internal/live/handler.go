package live

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/aman-yadav7052/hari-pathology/internal/compat"
	"github.com/aman-yadav7052/hari-pathology/internal/observability"
	"github.com/aman-yadav7052/hari-pathology/internal/requestctx"
)

const (
	defaultReadLimit    = 4 << 10
	defaultWriteTimeout = 5 * time.Second
)

// HandlerConfig configures the websocket endpoint.
type HandlerConfig struct {
	// Session is the template every new session is built from. Device is
	// filled in from the upgrade request.
	Session        Options
	AllowedOrigins []string
	ReadLimit      int64
	WriteTimeout   time.Duration
	Metrics        *observability.Metrics
	Logger         *zap.Logger
}

// Handler upgrades requests to the live channel.
type Handler struct {
	cfg      HandlerConfig
	base     context.Context
	shutdown context.CancelFunc
}

// NewHandler returns the /live endpoint.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.ReadLimit <= 0 {
		cfg.ReadLimit = defaultReadLimit
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	base, shutdown := context.WithCancel(context.Background())
	return &Handler{cfg: cfg, base: base, shutdown: shutdown}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := observability.FromContext(r.Context())
	if logger == requestctx.NoopLogger() {
		logger = h.cfg.Logger
	}

	// Server-wide read and write deadlines would cut the session short.
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:   []string{SubprotocolMsgPack, SubprotocolJSON},
		OriginPatterns: h.cfg.AllowedOrigins,
	})
	if err != nil {
		logger.Warn("live upgrade rejected", zap.Error(err))
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(h.cfg.ReadLimit)

	codec := CodecFor(conn.Subprotocol())
	id := ulid.Make().String()
	opts := h.cfg.Session
	opts.Device = compat.Detect(r.UserAgent(), 0)
	opts.Logger = logger

	sess, err := NewSession(id, &connSender{conn: conn, codec: codec, timeout: h.cfg.WriteTimeout}, opts)
	if err != nil {
		logger.Error("live session setup failed", zap.Error(err))
		conn.Close(websocket.StatusInternalError, "session setup failed")
		return
	}

	h.cfg.Metrics.SessionOpened()
	defer h.cfg.Metrics.SessionClosed()
	logger = logger.With(zap.String("session_id", id), zap.String("codec", codec.Name()))
	logger.Info("live session opened")

	// Detach from the request deadline; the connection outlives chi's
	// request timeout.
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()
	stopOnShutdown := context.AfterFunc(h.base, cancel)
	defer stopOnShutdown()

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = sess.Run(ctx)
	}()

	err = h.readLoop(ctx, conn, codec, sess)
	cancel()
	<-runDone

	switch status := websocket.CloseStatus(err); {
	case status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway:
		logger.Info("live session closed")
		conn.Close(websocket.StatusNormalClosure, "")
	case errors.Is(err, context.Canceled):
		logger.Info("live session cancelled")
	default:
		logger.Warn("live session ended", zap.Error(err))
	}
}

// Shutdown ends every open session. http.Server.Shutdown does not track
// hijacked connections, so the server registers this as a shutdown hook.
func (h *Handler) Shutdown() {
	h.shutdown()
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, codec Codec, sess *Session) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		ev, err := codec.Decode(data)
		if err != nil {
			sess.Reject(ErrInvalidMessage.Error())
			continue
		}
		h.cfg.Metrics.ObserveLiveEvent(ev.Type)
		if !sess.Handle(ev) {
			return context.Canceled
		}
	}
}

type connSender struct {
	conn    *websocket.Conn
	codec   Codec
	timeout time.Duration
}

func (s *connSender) Send(ctx context.Context, msg Outbound) error {
	data, err := s.codec.Encode(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.conn.Write(ctx, s.codec.MessageType(), data)
}
