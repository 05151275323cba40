package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/35niavlys/speedfng/internal/net/proto"
	"github.com/35niavlys/speedfng/internal/protocol"
	"github.com/35niavlys/speedfng/internal/sim"
)

type recordingQueue struct {
	mu     sync.Mutex
	cmds   []sim.Command
	reject map[sim.CommandType]string
}

func (q *recordingQueue) Enqueue(cmd sim.Command) (bool, string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if reason, ok := q.reject[cmd.Type]; ok {
		return false, reason
	}
	q.cmds = append(q.cmds, cmd)
	return true, ""
}

func (q *recordingQueue) commands() []sim.Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]sim.Command(nil), q.cmds...)
}

func (q *recordingQueue) waitFor(t *testing.T, typ sim.CommandType) sim.Command {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		for _, cmd := range q.commands() {
			if cmd.Type == typ {
				return cmd
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("command %s was never enqueued", typ)
	return sim.Command{}
}

func startServer(t *testing.T, queue Enqueuer, cfg HandlerConfig) (*Handler, *httptest.Server) {
	t.Helper()
	handler := NewHandler(queue, cfg)
	srv := httptest.NewServer(http.HandlerFunc(handler.Handle))
	t.Cleanup(func() {
		handler.Close()
		srv.Close()
	})
	return handler, srv
}

func dial(t *testing.T, serverURL string, query url.Values) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	parsed, err := url.Parse(serverURL)
	if err != nil {
		t.Fatalf("failed to parse server url: %v", err)
	}
	parsed.Scheme = "ws"
	parsed.RawQuery = query.Encode()
	conn, resp, err := websocket.DefaultDialer.Dial(parsed.String(), nil)
	if conn != nil {
		t.Cleanup(func() { conn.Close() })
	}
	return conn, resp, err
}

func readJoin(t *testing.T, conn *websocket.Conn) proto.JoinResponse {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	kind, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read join response: %v", err)
	}
	if kind != websocket.BinaryMessage {
		t.Fatalf("expected binary join response, got %d", kind)
	}
	var join proto.JoinResponse
	if err := msgpack.Unmarshal(payload, &join); err != nil {
		t.Fatalf("failed to decode join response: %v", err)
	}
	if join.Type != proto.TypeJoin {
		t.Fatalf("unexpected first message type %q", join.Type)
	}
	return join
}

func readTyped(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}
	var decoded map[string]any
	if err := msgpack.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("failed to decode message: %v", err)
	}
	return decoded
}

func TestHandleJoinsAndForwardsInput(t *testing.T) {
	queue := &recordingQueue{}
	_, srv := startServer(t, queue, HandlerConfig{TickSpeed: 50, AdminPassword: "hunter2"})

	conn, _, err := dial(t, srv.URL, url.Values{"name": {"alice"}, "client": {"custom"}, "password": {"hunter2"}})
	if err != nil {
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	join := readJoin(t, conn)
	if join.ClientID != 0 || join.TickSpeed != 50 || join.Legacy || join.SessionID == "" {
		t.Fatalf("unexpected join response: %+v", join)
	}

	joinCmd := queue.waitFor(t, sim.CommandJoin)
	if joinCmd.Join == nil || joinCmd.Join.Name != "alice" || !joinCmd.Join.CustomClient || !joinCmd.Join.Authed {
		t.Fatalf("unexpected join command: %+v", joinCmd.Join)
	}

	payload, _ := json.Marshal(map[string]any{
		"type":  proto.TypeInput,
		"seq":   1,
		"input": protocol.PlayerInput{Direction: 1, Fire: 1},
	})
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		t.Fatalf("failed to send input: %v", err)
	}

	ack := readTyped(t, conn)
	if ack["type"] != "commandAck" {
		t.Fatalf("expected command ack, got %+v", ack)
	}
	input := queue.waitFor(t, sim.CommandInput)
	if input.ActorID != 0 || input.Input == nil || input.Input.Direction != 1 {
		t.Fatalf("unexpected input command: %+v", input)
	}

	// a replayed sequence is acknowledged without being queued again
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		t.Fatalf("failed to resend input: %v", err)
	}
	if ack := readTyped(t, conn); ack["type"] != "commandAck" {
		t.Fatalf("expected duplicate ack, got %+v", ack)
	}
	inputs := 0
	for _, cmd := range queue.commands() {
		if cmd.Type == sim.CommandInput {
			inputs++
		}
	}
	if inputs != 1 {
		t.Fatalf("expected one queued input, got %d", inputs)
	}
}

func TestHandleRejectsWithReason(t *testing.T) {
	queue := &recordingQueue{reject: map[sim.CommandType]string{sim.CommandPause: sim.CommandRejectQueueLimit}}
	_, srv := startServer(t, queue, HandlerConfig{})

	conn, _, err := dial(t, srv.URL, url.Values{"name": {"bob"}})
	if err != nil {
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	join := readJoin(t, conn)
	if !join.Legacy {
		t.Fatalf("expected vanilla client to receive legacy snapshots")
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"pause","seq":4}`)); err != nil {
		t.Fatalf("failed to send pause: %v", err)
	}
	reject := readTyped(t, conn)
	if reject["type"] != "commandReject" || reject["reason"] != sim.CommandRejectQueueLimit || reject["retry"] != true {
		t.Fatalf("unexpected reject: %+v", reject)
	}
}

func TestSendAndDisconnect(t *testing.T) {
	queue := &recordingQueue{}
	handler, srv := startServer(t, queue, HandlerConfig{})

	conn, _, err := dial(t, srv.URL, url.Values{"name": {"carol"}})
	if err != nil {
		t.Fatalf("failed to open websocket connection: %v", err)
	}
	readJoin(t, conn)
	queue.waitFor(t, sim.CommandJoin)
	waitSessions(t, handler, 1)

	if !handler.Send(0, []byte{0x80}) {
		t.Fatalf("expected send to the attached client to succeed")
	}
	if handler.Send(1, []byte{0x80}) {
		t.Fatalf("expected send to an empty slot to fail")
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, payload, err := conn.ReadMessage(); err != nil || len(payload) != 1 {
		t.Fatalf("unexpected frame %v (%v)", payload, err)
	}

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	leave := queue.waitFor(t, sim.CommandLeave)
	if leave.ActorID != 0 || leave.Leave == nil || leave.Leave.Reason != "disconnected" {
		t.Fatalf("unexpected leave command: %+v", leave)
	}
	waitSessions(t, handler, 0)
}

// the join response is written before the session is attached
func waitSessions(t *testing.T, handler *Handler, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for len(handler.Sessions()) != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d sessions, got %d", want, len(handler.Sessions()))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHandleServerFull(t *testing.T) {
	queue := &recordingQueue{}
	_, srv := startServer(t, queue, HandlerConfig{MaxClients: 1})

	first, _, err := dial(t, srv.URL, url.Values{"name": {"first"}})
	if err != nil {
		t.Fatalf("failed to open first connection: %v", err)
	}
	readJoin(t, first)

	_, resp, err := dial(t, srv.URL, url.Values{"name": {"second"}})
	if !errors.Is(err, websocket.ErrBadHandshake) {
		t.Fatalf("expected handshake failure, got %v", err)
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 response, got %+v", resp)
	}
	resp.Body.Close()
}
