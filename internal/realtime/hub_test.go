package realtime

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/netpointcafe/portal-backend/internal/model"
)

// testConn builds a connection without a websocket; the write loop is never
// started, so frames stay in the send channel for inspection.
func testConn(uid string) *Conn {
	return NewConn(uid, nil)
}

func recvMessage(t *testing.T, c *Conn) MessageEvent {
	t.Helper()
	select {
	case payload := <-c.send:
		var ev MessageEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return ev
	default:
		t.Fatalf("expected a frame, send buffer empty")
	}
	return MessageEvent{}
}

func TestBroadcastMessageDeliversInOrder(t *testing.T) {
	h := NewHub()
	conn := testConn("u1")
	h.Attach(conn)
	h.Subscribe(42, conn)

	for i := 1; i <= 3; i++ {
		msg := model.ChatMessage{ID: uint64(i), ConversationID: 42, SenderUID: "u1", Body: fmt.Sprintf("m%d", i)}
		if got := h.BroadcastMessage(42, msg); got != 1 {
			t.Fatalf("delivered=%d want 1", got)
		}
	}

	// FIFO: frames come back in publish order, each exactly once.
	for i := 1; i <= 3; i++ {
		ev := recvMessage(t, conn)
		if ev.Type != EventMessage {
			t.Fatalf("type=%q want %q", ev.Type, EventMessage)
		}
		if ev.Message.ID != uint64(i) {
			t.Fatalf("message id=%d want %d", ev.Message.ID, i)
		}
	}
	select {
	case extra := <-conn.send:
		t.Fatalf("unexpected extra frame: %s", extra)
	default:
	}
}

func TestBroadcastMessageScopedToConversation(t *testing.T) {
	h := NewHub()
	a := testConn("u1")
	b := testConn("u2")
	h.Attach(a)
	h.Attach(b)
	h.Subscribe(1, a)
	h.Subscribe(2, b)

	if got := h.BroadcastMessage(1, model.ChatMessage{ID: 10, ConversationID: 1}); got != 1 {
		t.Fatalf("delivered=%d want 1", got)
	}
	if ev := recvMessage(t, a); ev.Message.ID != 10 {
		t.Fatalf("a got id=%d want 10", ev.Message.ID)
	}
	select {
	case <-b.send:
		t.Fatalf("b should not receive conversation 1 traffic")
	default:
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub()
	conn := testConn("u1")
	h.Attach(conn)
	h.Subscribe(7, conn)
	h.Unsubscribe(7, conn)

	if got := h.BroadcastMessage(7, model.ChatMessage{ID: 1, ConversationID: 7}); got != 0 {
		t.Fatalf("delivered=%d want 0 after unsubscribe", got)
	}
}

func TestDetachReleasesAllScopes(t *testing.T) {
	h := NewHub()
	conn := testConn("staff")
	h.Attach(conn)
	h.Subscribe(1, conn)
	h.Subscribe(2, conn)
	h.SubscribeConversations(conn)

	h.Detach(conn)

	if got := h.BroadcastMessage(1, model.ChatMessage{ID: 1, ConversationID: 1}); got != 0 {
		t.Fatalf("conversation 1 still delivers after detach")
	}
	if got := h.BroadcastMessage(2, model.ChatMessage{ID: 2, ConversationID: 2}); got != 0 {
		t.Fatalf("conversation 2 still delivers after detach")
	}
	if got := h.BroadcastConversationsChanged(); got != 0 {
		t.Fatalf("list feed still delivers after detach")
	}
}

func TestConversationsChangedOnlyToListSubscribers(t *testing.T) {
	h := NewHub()
	staff := testConn("staff")
	customer := testConn("customer")
	h.Attach(staff)
	h.Attach(customer)
	h.SubscribeConversations(staff)
	h.Subscribe(1, customer)

	if got := h.BroadcastConversationsChanged(); got != 1 {
		t.Fatalf("delivered=%d want 1", got)
	}

	select {
	case payload := <-staff.send:
		var ev ConversationsChangedEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ev.Type != EventConversationsChanged {
			t.Fatalf("type=%q want %q", ev.Type, EventConversationsChanged)
		}
	default:
		t.Fatalf("staff should receive the list event")
	}
	select {
	case <-customer.send:
		t.Fatalf("customer should not receive list events")
	default:
	}
}

func TestSubscribeRequiresAttachedConn(t *testing.T) {
	h := NewHub()
	conn := testConn("u1")
	// Not attached.
	h.Subscribe(5, conn)
	if got := h.BroadcastMessage(5, model.ChatMessage{ID: 1, ConversationID: 5}); got != 0 {
		t.Fatalf("unattached conn received traffic")
	}
}
