package realtime

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 128
)

// State is the lifecycle phase of a Session.
type State int32

const (
	StateConnecting State = iota
	StateOpen
	StateClosing
	StateClosed
)

var (
	ErrSessionClosed = errors.New("realtime: session closed")
	ErrSlowConsumer  = errors.New("realtime: send buffer full")
)

// Session is one accepted, authenticated websocket connection bound to a
// single room. Outbound writes go through a buffered channel drained by a
// single write loop, so deliveries for this recipient keep the order in which
// they were enqueued.
//
// The session owns its connection; the registry only holds a Subscriber
// reference to it. Close is idempotent and performs exactly one registry
// deregistration via the detach hook, covering races between an explicit
// close and an abrupt disconnect.
type Session struct {
	ID      string
	UserID  int64
	RoomKey string

	ws     *websocket.Conn
	send   chan []byte
	state  atomic.Int32
	once   sync.Once
	done   chan struct{}
	detach func(*Session)
}

// NewSession constructs a Session in the Connecting state. detach is invoked
// exactly once during close, after the transport is torn down.
func NewSession(userID int64, roomKey string, ws *websocket.Conn, detach func(*Session)) *Session {
	s := &Session{
		ID:      uuid.NewString(),
		UserID:  userID,
		RoomKey: roomKey,
		ws:      ws,
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
		detach:  detach,
	}
	s.state.Store(int32(StateConnecting))
	return s
}

// SessionID implements Subscriber.
func (s *Session) SessionID() string { return s.ID }

// State reports the current lifecycle state.
func (s *Session) State() State { return State(s.state.Load()) }

// Open marks the session live after registry join and starts the write loop.
// It must be called exactly once.
func (s *Session) Open() {
	s.state.Store(int32(StateOpen))
	go s.writeLoop()
}

// Deliver implements Subscriber. It enqueues payload for the write loop. If
// the session is closed the payload is rejected; if the client is too slow to
// drain its buffer the session is closed to keep backpressure bounded.
//
// The close runs on its own goroutine: Deliver is called under the room lock
// during a broadcast, and the detach hook takes registry locks, so tearing
// down inline would deadlock the registry.
func (s *Session) Deliver(payload []byte) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	select {
	case s.send <- payload:
		return nil
	default:
		go s.Close(websocket.CloseGoingAway, "send buffer full")
		return ErrSlowConsumer
	}
}

// Close drives the session to Closed. The first call wins: it transitions
// through Closing, sends a close control frame, tears down the transport and
// deregisters from the room exactly once. Later calls are no-ops.
func (s *Session) Close(code int, reason string) {
	s.once.Do(func() {
		s.state.Store(int32(StateClosing))
		close(s.done)
		_ = s.ws.SetWriteDeadline(time.Now().Add(writeWait))
		_ = s.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
		_ = s.ws.Close()
		if s.detach != nil {
			s.detach(s)
		}
		s.state.Store(int32(StateClosed))
	})
}

func (s *Session) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case msg := <-s.send:
			if err := s.writeMessage(msg); err != nil {
				s.Close(websocket.CloseAbnormalClosure, "write failed")
				return
			}
		case <-ticker.C:
			if err := s.writePing(); err != nil {
				s.Close(websocket.CloseAbnormalClosure, "ping failed")
				return
			}
		}
	}
}

func (s *Session) writeMessage(payload []byte) error {
	if err := s.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.ws.WriteMessage(websocket.TextMessage, payload)
}

func (s *Session) writePing() error {
	if err := s.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.ws.WriteMessage(websocket.PingMessage, nil)
}
