package realtime

import (
	"strconv"
	"sync"
)

// Subscriber is a non-owning reference to a connected session. The registry
// never drives a subscriber's lifecycle; teardown is always initiated by the
// connection side.
type Subscriber interface {
	// SessionID uniquely identifies the subscriber within a room.
	SessionID() string
	// Deliver pushes an encoded event to the subscriber. A failed delivery is
	// the subscriber's problem to handle; the registry does not retry.
	Deliver(payload []byte) error
}

// RoomKey derives the fan-out scope key for a conversation.
func RoomKey(conversationID int64) string {
	return "chat_" + strconv.FormatInt(conversationID, 10)
}

type room struct {
	mu      sync.Mutex
	members map[string]Subscriber
}

// Registry maps room keys to the set of currently connected sessions
// subscribed to them. It is entirely in-memory and process-local; a restart
// loses all membership and clients re-admit on reconnect.
//
// Each room carries its own lock so unrelated rooms never serialize against
// each other. Broadcast enqueues to every member under the room lock, which
// yields the FIFO-per-room-per-recipient ordering the delivery contract
// requires.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*room
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*room)}
}

// Join adds sub to the room's member set, creating the room if absent.
func (r *Registry) Join(roomKey string, sub Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm := r.rooms[roomKey]
	if rm == nil {
		rm = &room{members: make(map[string]Subscriber)}
		r.rooms[roomKey] = rm
	}
	rm.mu.Lock()
	rm.members[sub.SessionID()] = sub
	rm.mu.Unlock()
}

// Leave removes sub from the room if present (no-op otherwise) and prunes the
// room entry once its member set is empty. Safe to call more than once for
// the same subscriber.
func (r *Registry) Leave(roomKey string, sub Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm := r.rooms[roomKey]
	if rm == nil {
		return
	}
	rm.mu.Lock()
	delete(rm.members, sub.SessionID())
	empty := len(rm.members) == 0
	rm.mu.Unlock()
	if empty {
		delete(r.rooms, roomKey)
	}
}

// Broadcast delivers payload to every session currently registered in the
// room and reports how many deliveries were accepted. Membership is read at
// call time, never from a snapshot taken earlier.
func (r *Registry) Broadcast(roomKey string, payload []byte) int {
	r.mu.RLock()
	rm := r.rooms[roomKey]
	r.mu.RUnlock()
	if rm == nil {
		return 0
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	delivered := 0
	for _, sub := range rm.members {
		if err := sub.Deliver(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// Size reports the number of sessions currently registered in the room.
func (r *Registry) Size(roomKey string) int {
	r.mu.RLock()
	rm := r.rooms[roomKey]
	r.mu.RUnlock()
	if rm == nil {
		return 0
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return len(rm.members)
}
