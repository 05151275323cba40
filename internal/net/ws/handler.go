package ws

import (
	nethttp "net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/35niavlys/speedfng/internal/net/proto"
	"github.com/35niavlys/speedfng/internal/protocol"
	"github.com/35niavlys/speedfng/internal/sim"
	"github.com/35niavlys/speedfng/internal/telemetry"
	"github.com/35niavlys/speedfng/logging"
)

// Enqueuer accepts commands for the next tick.
type Enqueuer interface {
	Enqueue(cmd sim.Command) (bool, string)
}

// HandlerConfig tunes the websocket endpoint.
type HandlerConfig struct {
	Logger        telemetry.Logger
	Metrics       telemetry.Metrics
	Clock         logging.Clock
	MaxClients    int
	AdminPassword string
	TickSpeed     int
	SendQueue     int
	WriteTimeout  time.Duration
}

// Handler upgrades connections, binds them to player slots and turns client
// messages into simulation commands.
type Handler struct {
	loop     Enqueuer
	cfg      HandlerConfig
	logger   telemetry.Logger
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions []*Session
}

// NewHandler constructs a websocket handler feeding loop.
func NewHandler(loop Enqueuer, cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = telemetry.NopLogger()
	}
	if cfg.Clock == nil {
		cfg.Clock = logging.SystemClock
	}
	if cfg.MaxClients <= 0 || cfg.MaxClients > protocol.MaxClients {
		cfg.MaxClients = protocol.MaxClients
	}
	if cfg.SendQueue <= 0 {
		cfg.SendQueue = 64
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}

	return &Handler{
		loop:     loop,
		cfg:      cfg,
		logger:   cfg.Logger,
		upgrader: upgrader,
		sessions: make([]*Session, cfg.MaxClients),
	}
}

// Handle serves one websocket session.
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	query := r.URL.Query()
	name := query.Get("name")
	if name == "" {
		name = "nameless tee"
	}
	custom := query.Get("client") == "custom"
	authed := h.cfg.AdminPassword != "" && query.Get("password") == h.cfg.AdminPassword

	clientID, ok := h.reserve()
	if !ok {
		nethttp.Error(w, "server full", nethttp.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed for %q: %v", name, err)
		h.release(clientID, nil)
		return
	}

	sess := newSession(uuid.NewString(), clientID, conn, h.cfg.SendQueue)
	sess.Legacy = !custom

	joined, reason := h.loop.Enqueue(sim.Command{
		ActorID:  clientID,
		Type:     sim.CommandJoin,
		IssuedAt: h.cfg.Clock.Now(),
		Join:     &sim.JoinCommand{Name: name, CustomClient: custom, Authed: authed},
	})
	if !joined {
		message := websocket.FormatCloseMessage(websocket.CloseTryAgainLater, reason)
		conn.WriteMessage(websocket.CloseMessage, message)
		conn.Close()
		h.release(clientID, nil)
		return
	}

	data, err := proto.EncodeJoinResponse(proto.JoinResponse{
		ClientID:  clientID,
		SessionID: sess.ID,
		TickSpeed: h.cfg.TickSpeed,
		Legacy:    sess.Legacy,
	})
	if err == nil {
		err = conn.WriteMessage(websocket.BinaryMessage, data)
	}
	if err != nil {
		h.logger.Printf("failed to send join response to %s: %v", sess.ID, err)
		h.disconnect(sess, "join failed")
		return
	}

	h.attach(sess)
	h.logger.Printf("[ws] session=%s client=%d name=%q joined", sess.ID, clientID, name)
	go sess.writePump(h.cfg.WriteTimeout, h.logger)

	h.serve(sess)
}

func (h *Handler) serve(sess *Session) {
	for {
		_, payload, err := sess.conn.ReadMessage()
		if err != nil {
			h.disconnect(sess, "disconnected")
			return
		}

		msg, err := proto.DecodeClientMessage(payload)
		if err != nil {
			h.logger.Printf("discarding malformed message from %s: %v", sess.ID, err)
			continue
		}

		if msg.Type == proto.TypeHeartbeat {
			data, err := proto.EncodeHeartbeat(proto.Heartbeat{
				ServerTime: h.cfg.Clock.Now().UnixMilli(),
				ClientTime: msg.SentAt,
			})
			if err == nil {
				sess.enqueue(data)
			}
			continue
		}

		cmd, ok := proto.ClientCommand(msg)
		if !ok {
			h.logger.Printf("unknown message type %q from %s", msg.Type, sess.ID)
			continue
		}

		seq := uint64(0)
		if msg.CommandSeq != nil {
			seq = *msg.CommandSeq
		}
		if seq > 0 && seq <= sess.LastCommandSeq() {
			h.ack(sess, seq)
			continue
		}

		cmd.ActorID = sess.ClientID
		cmd.IssuedAt = h.cfg.Clock.Now()
		accepted, reason := h.loop.Enqueue(cmd)
		if seq == 0 {
			continue
		}
		if accepted {
			sess.StoreLastCommandSeq(seq)
			h.ack(sess, seq)
		} else {
			data, err := proto.EncodeCommandReject(proto.CommandReject{
				Seq:    seq,
				Reason: reason,
				Retry:  reason == sim.CommandRejectQueueLimit,
			})
			h.reply(sess, data, err)
		}
	}
}

func (h *Handler) ack(sess *Session, seq uint64) {
	data, err := proto.EncodeCommandAck(proto.CommandAck{Seq: seq})
	h.reply(sess, data, err)
}

func (h *Handler) reply(sess *Session, data []byte, err error) {
	if err != nil {
		h.logger.Printf("failed to marshal response for %s: %v", sess.ID, err)
		return
	}
	sess.enqueue(data)
}

// Sessions returns the attached sessions in client id order.
func (h *Handler) Sessions() []*Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		if s != nil && s != reserved {
			out = append(out, s)
		}
	}
	return out
}

// Send queues data for client without blocking. A slow client misses
// frames instead of stalling the tick.
func (h *Handler) Send(client int, data []byte) bool {
	h.mu.Lock()
	var sess *Session
	if client >= 0 && client < len(h.sessions) && h.sessions[client] != reserved {
		sess = h.sessions[client]
	}
	h.mu.Unlock()
	if sess == nil || !sess.enqueue(data) {
		return false
	}
	if h.cfg.Metrics != nil {
		h.cfg.Metrics.Add(telemetry.MetricFramesSent, 1)
	}
	return true
}

// Close disconnects every session.
func (h *Handler) Close() {
	for _, sess := range h.Sessions() {
		sess.close()
	}
}

// reserved keeps a slot taken between the upgrade and the attach.
var reserved = &Session{}

// reserve claims the lowest free slot.
func (h *Handler) reserve() (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, s := range h.sessions {
		if s == nil {
			h.sessions[id] = reserved
			return id, true
		}
	}
	return 0, false
}

func (h *Handler) attach(sess *Session) {
	h.mu.Lock()
	h.sessions[sess.ClientID] = sess
	count := h.countLocked()
	h.mu.Unlock()
	h.storeClients(count)
}

func (h *Handler) release(clientID int, sess *Session) {
	h.mu.Lock()
	current := h.sessions[clientID]
	if current == reserved || current == sess {
		h.sessions[clientID] = nil
	}
	count := h.countLocked()
	h.mu.Unlock()
	h.storeClients(count)
}

// disconnect queues the leave before freeing the slot so a later join of
// the same slot is applied after it.
func (h *Handler) disconnect(sess *Session, reason string) {
	h.loop.Enqueue(sim.Command{
		ActorID:  sess.ClientID,
		Type:     sim.CommandLeave,
		IssuedAt: h.cfg.Clock.Now(),
		Leave:    &sim.LeaveCommand{Reason: reason},
	})
	sess.close()
	h.release(sess.ClientID, sess)
	h.logger.Printf("[ws] session=%s client=%d left: %s", sess.ID, sess.ClientID, reason)
}

func (h *Handler) countLocked() int {
	n := 0
	for _, s := range h.sessions {
		if s != nil && s != reserved {
			n++
		}
	}
	return n
}

func (h *Handler) storeClients(count int) {
	if h.cfg.Metrics != nil {
		h.cfg.Metrics.Store(telemetry.MetricClients, uint64(count))
	}
}
