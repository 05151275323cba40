package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/35niavlys/speedfng/internal/telemetry"
)

// Session is one websocket connection bound to a player slot. All writes
// after the join response go through the send queue so only the write pump
// touches the connection.
type Session struct {
	ID       string
	ClientID int
	Legacy   bool

	conn *websocket.Conn
	send chan []byte
	done chan struct{}

	mu             sync.Mutex
	lastCommandSeq uint64
	closeOnce      sync.Once
}

func newSession(id string, clientID int, conn *websocket.Conn, queue int) *Session {
	if queue < 1 {
		queue = 1
	}
	return &Session{
		ID:       id,
		ClientID: clientID,
		conn:     conn,
		send:     make(chan []byte, queue),
		done:     make(chan struct{}),
	}
}

// LastCommandSeq returns the highest acknowledged command sequence.
func (s *Session) LastCommandSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCommandSeq
}

// StoreLastCommandSeq records an acknowledged command sequence.
func (s *Session) StoreLastCommandSeq(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq > s.lastCommandSeq {
		s.lastCommandSeq = seq
	}
}

// enqueue queues data without blocking. It reports false when the session
// is closed or its queue is full.
func (s *Session) enqueue(data []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.send <- data:
		return true
	default:
		return false
	}
}

func (s *Session) writePump(timeout time.Duration, logger telemetry.Logger) {
	for {
		select {
		case <-s.done:
			return
		case data := <-s.send:
			if timeout > 0 {
				s.conn.SetWriteDeadline(time.Now().Add(timeout))
			}
			if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				logger.Printf("[ws] write failed session=%s client=%d: %v", s.ID, s.ClientID, err)
				s.close()
				return
			}
		}
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}
