// Package live serves the artwork search over a websocket: the client streams filter
// and paging actions, the server answers with the results of the latest one only.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"fineart/internal/api/httpx"
	"fineart/internal/domain/artworks"
	"fineart/internal/fallback"
	"fineart/internal/listing"
	"fineart/internal/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
	outboxSize     = 8
)

type Store interface {
	ListArtworks(ctx context.Context, q listing.Query) ([]artworks.Artwork, int64, error)
}

// Sessions notifies about sign-in events.
type Sessions interface {
	Subscribe(fn func(session.Event)) (unsubscribe func())
}

type Handler struct {
	Store    Store
	Sessions Sessions
	Upgrader websocket.Upgrader
	Debounce time.Duration
	Logger   *zap.Logger
}

// Message is pushed to the client.
type Message struct {
	Type       string             `json:"type"`
	Seq        uint64             `json:"seq,omitempty"`
	Data       []artworks.Artwork `json:"data"`
	Meta       *listing.Meta      `json:"meta,omitempty"`
	Filter     *listing.Filter    `json:"filter,omitempty"`
	Empty      bool               `json:"empty"`
	IsFallback bool               `json:"isFallback,omitempty"`
	Error      string             `json:"error,omitempty"`
}

const (
	MsgResult = "result"
	MsgError  = "error"
)

// GET /live/artworks
func (h *Handler) Artworks(c *gin.Context) {
	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already replied
		h.Logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	q, err := listing.FilterFromQuery(c.Request.URL.Query())
	if err != nil {
		q = listing.Query{Page: 1, PageSize: listing.DefaultPageSize}
	}
	initial := listing.State{Filter: q.Filter, Page: 1, PageSize: q.PageSize}

	s := newLiveSession(c.Request.Context(), conn, httpx.ActorOf(c).ProfileID, h.Logger)
	s.run(h, initial)
}

type liveSession struct {
	conn      *websocket.Conn
	profileID string
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	out    chan Message

	mu          sync.Mutex
	closeCode   int
	closeReason string
}

func newLiveSession(parent context.Context, conn *websocket.Conn, profileID string, logger *zap.Logger) *liveSession {
	ctx, cancel := context.WithCancel(parent)
	return &liveSession{
		conn:        conn,
		profileID:   profileID,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		out:         make(chan Message, outboxSize),
		closeCode:   websocket.CloseNormalClosure,
		closeReason: "bye",
	}
}

// end stops the session with the close frame the client will receive.
func (s *liveSession) end(code int, reason string) {
	s.mu.Lock()
	s.closeCode, s.closeReason = code, reason
	s.mu.Unlock()
	s.cancel()
}

func (s *liveSession) send(m Message) {
	select {
	case s.out <- m:
	case <-s.ctx.Done():
	}
}

func (s *liveSession) run(h *Handler, initial listing.State) {
	defer s.cancel()

	if h.Sessions != nil && s.profileID != "" {
		unsubscribe := h.Sessions.Subscribe(func(e session.Event) {
			if e.ProfileID != s.profileID {
				return
			}
			switch e.Type {
			case session.EventLogout:
				s.end(websocket.ClosePolicyViolation, "signed out")
			case session.EventRoleChanged:
				s.end(websocket.ClosePolicyViolation, "role changed")
			}
		})
		defer unsubscribe()
	}

	fetch := func(ctx context.Context, st listing.State) (listing.Page[artworks.Artwork], error) {
		items, total, err := h.Store.ListArtworks(ctx, listing.Query{Filter: st.Filter, Page: st.Page, PageSize: st.PageSize})
		return listing.Page[artworks.Artwork]{Items: items, Total: total}, err
	}
	ctrl := listing.NewController(s.ctx, initial, h.Debounce, fetch, func(r listing.Result[artworks.Artwork]) {
		s.send(resultMessage(r, s.logger))
	}, s.logger)
	defer ctrl.Close()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLoop()
	}()

	ctrl.Refresh()
	s.readLoop(ctrl)
	s.cancel()
	<-writerDone
}

func resultMessage(r listing.Result[artworks.Artwork], logger *zap.Logger) Message {
	filter := r.State.Filter
	if r.Err != nil {
		logger.Warn("live search fetch failed, serving fallback", zap.Error(r.Err))
		items := fallback.Artwork()
		meta := listing.NewMeta(1, r.State.PageSize, int64(len(items)))
		return Message{Type: MsgResult, Seq: r.Seq, Data: items, Meta: &meta, Filter: &filter, IsFallback: true}
	}
	items := r.Items
	if items == nil {
		items = []artworks.Artwork{}
	}
	meta := r.State.Meta()
	return Message{Type: MsgResult, Seq: r.Seq, Data: items, Meta: &meta, Filter: &filter, Empty: r.Empty}
}

func (s *liveSession) readLoop(ctrl *listing.Controller[artworks.Artwork]) {
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var a listing.Action
		err := s.conn.ReadJSON(&a)
		if err != nil {
			if isDecodeError(err) {
				s.send(Message{Type: MsgError, Error: "malformed action"})
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("live search read failed", zap.Error(err))
			}
			return
		}
		ctrl.Dispatch(a)
	}
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

func (s *liveSession) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case m := <-s.out:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(m); err != nil {
				s.cancel()
				return
			}
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				s.cancel()
				return
			}
		case <-s.ctx.Done():
			s.mu.Lock()
			code, reason := s.closeCode, s.closeReason
			s.mu.Unlock()
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
			return
		}
	}
}

// NewUpgrader accepts the configured browser origin; an empty origin accepts any.
func NewUpgrader(origin string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			o := r.Header.Get("Origin")
			return origin == "" || o == "" || o == origin
		},
	}
}
