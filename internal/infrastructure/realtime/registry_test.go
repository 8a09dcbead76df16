package realtime

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	id   string
	fail bool

	mu       sync.Mutex
	payloads [][]byte
}

func (r *recorder) SessionID() string { return r.id }

func (r *recorder) Deliver(p []byte) error {
	if r.fail {
		return errors.New("connection gone")
	}
	r.mu.Lock()
	r.payloads = append(r.payloads, p)
	r.mu.Unlock()
	return nil
}

func (r *recorder) received() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.payloads))
	for i, p := range r.payloads {
		out[i] = string(p)
	}
	return out
}

func TestRegistry_JoinAndBroadcast(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	a := &recorder{id: "a"}
	b := &recorder{id: "b"}

	reg.Join("chat_1", a)
	reg.Join("chat_1", b)
	req.Equal(2, reg.Size("chat_1"))

	delivered := reg.Broadcast("chat_1", []byte("hello"))
	req.Equal(2, delivered)
	req.Equal([]string{"hello"}, a.received())
	req.Equal([]string{"hello"}, b.received())
}

func TestRegistry_BroadcastCountsOnlyAcceptedDeliveries(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	ok := &recorder{id: "ok"}
	gone := &recorder{id: "gone", fail: true}

	reg.Join("chat_1", ok)
	reg.Join("chat_1", gone)

	req.Equal(1, reg.Broadcast("chat_1", []byte("x")))
	req.Equal([]string{"x"}, ok.received())
}

func TestRegistry_BroadcastUnknownRoomIsNoop(t *testing.T) {
	reg := NewRegistry()
	require.Equal(t, 0, reg.Broadcast("chat_404", []byte("x")))
}

func TestRegistry_LeavePrunesEmptyRoom(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	a := &recorder{id: "a"}
	b := &recorder{id: "b"}

	reg.Join("chat_1", a)
	reg.Join("chat_1", b)

	reg.Leave("chat_1", a)
	req.Equal(1, reg.Size("chat_1"))

	reg.Leave("chat_1", b)
	req.Equal(0, reg.Size("chat_1"))

	// Pruned room: later broadcasts target zero recipients without error.
	req.Equal(0, reg.Broadcast("chat_1", []byte("x")))
}

func TestRegistry_LeaveIsIdempotent(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	a := &recorder{id: "a"}

	reg.Join("chat_1", a)
	reg.Leave("chat_1", a)
	reg.Leave("chat_1", a)
	reg.Leave("chat_2", a)
	req.Equal(0, reg.Size("chat_1"))
}

func TestRegistry_SessionScopedToOneRoom(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	a := &recorder{id: "a"}
	b := &recorder{id: "b"}

	reg.Join("chat_1", a)
	reg.Join("chat_2", b)

	reg.Broadcast("chat_1", []byte("one"))
	req.Equal([]string{"one"}, a.received())
	req.Empty(b.received())
}

// Concurrent broadcasts to one room may land in any order, but every
// recipient must observe the same order.
func TestRegistry_PerRecipientOrderIsConsistent(t *testing.T) {
	req := require.New(t)
	reg := NewRegistry()
	a := &recorder{id: "a"}
	b := &recorder{id: "b"}
	reg.Join("chat_1", a)
	reg.Join("chat_1", b)

	const writers = 4
	const perWriter = 50
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				reg.Broadcast("chat_1", []byte(fmt.Sprintf("%d-%d", w, i)))
			}
		}(w)
	}
	wg.Wait()

	req.Len(a.received(), writers*perWriter)
	req.Equal(a.received(), b.received())
}

func TestRegistry_ConcurrentJoinLeave(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sub := &recorder{id: fmt.Sprintf("s%d", i)}
			key := RoomKey(int64(i % 4))
			reg.Join(key, sub)
			reg.Broadcast(key, []byte("x"))
			reg.Leave(key, sub)
		}(i)
	}
	wg.Wait()

	for i := int64(0); i < 4; i++ {
		require.Equal(t, 0, reg.Size(RoomKey(i)))
	}
}

func TestRoomKey(t *testing.T) {
	require.Equal(t, "chat_42", RoomKey(42))
}
