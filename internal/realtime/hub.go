package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/netpointcafe/portal-backend/internal/model"
)

// Event types pushed to subscribers.
const (
	EventMessage              = "message"
	EventConversationsChanged = "conversations_changed"
)

type MessageEvent struct {
	Type    string            `json:"type"`
	Message model.ChatMessage `json:"message"`
}

type ConversationsChangedEvent struct {
	Type string `json:"type"`
}

// Hub tracks live connections and their subscription scopes. A scope is
// either one conversation (message-insert feed) or the conversation list
// (any-change feed, staff console only). Within one scope delivery is FIFO
// in publish order; no ordering holds across scopes.
type Hub struct {
	mu        sync.RWMutex
	conns     map[string]*Conn
	convSubs  map[uint64]map[string]*Conn // conversationID -> connID -> conn
	listSubs  map[string]*Conn            // connID -> conn
	connConvs map[string]map[uint64]struct{}
}

func NewHub() *Hub {
	return &Hub{
		conns:     make(map[string]*Conn),
		convSubs:  make(map[uint64]map[string]*Conn),
		listSubs:  make(map[string]*Conn),
		connConvs: make(map[string]map[uint64]struct{}),
	}
}

// Attach registers a connection. The caller starts the write loop once the
// socket is ready.
func (h *Hub) Attach(conn *Conn) {
	h.mu.Lock()
	h.conns[conn.ID] = conn
	h.connConvs[conn.ID] = make(map[uint64]struct{})
	h.mu.Unlock()
}

// Detach releases every scope held by the connection. Callers must invoke it
// when the socket goes away; a skipped Detach leaks one live feed per scope.
func (h *Hub) Detach(conn *Conn) {
	h.mu.Lock()
	h.detachLocked(conn.ID)
	h.mu.Unlock()
}

// Subscribe adds the connection to the conversation's message feed.
func (h *Hub) Subscribe(conversationID uint64, conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[conn.ID]; !ok {
		return
	}
	subs := h.convSubs[conversationID]
	if subs == nil {
		subs = make(map[string]*Conn)
		h.convSubs[conversationID] = subs
	}
	subs[conn.ID] = conn

	convs := h.connConvs[conn.ID]
	if convs == nil {
		convs = make(map[uint64]struct{})
		h.connConvs[conn.ID] = convs
	}
	convs[conversationID] = struct{}{}
}

// Unsubscribe releases one conversation scope, e.g. when staff selects a
// different conversation.
func (h *Hub) Unsubscribe(conversationID uint64, conn *Conn) {
	h.mu.Lock()
	h.unsubscribeLocked(conversationID, conn.ID)
	h.mu.Unlock()
}

// SubscribeConversations adds the connection to the conversation-list feed.
func (h *Hub) SubscribeConversations(conn *Conn) {
	h.mu.Lock()
	if _, ok := h.conns[conn.ID]; ok {
		h.listSubs[conn.ID] = conn
	}
	h.mu.Unlock()
}

func (h *Hub) UnsubscribeConversations(conn *Conn) {
	h.mu.Lock()
	delete(h.listSubs, conn.ID)
	h.mu.Unlock()
}

// BroadcastMessage delivers a stored message to every subscriber of its
// conversation, exactly once per subscription, and reports the delivery count.
func (h *Hub) BroadcastMessage(conversationID uint64, msg model.ChatMessage) int {
	payload, err := json.Marshal(MessageEvent{Type: EventMessage, Message: msg})
	if err != nil {
		log.Printf("realtime: marshal message event: %v", err)
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for _, conn := range h.convSubs[conversationID] {
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// BroadcastConversationsChanged tells list subscribers to reload; it carries
// no row data, the console re-queries the ordered list.
func (h *Hub) BroadcastConversationsChanged() int {
	payload, err := json.Marshal(ConversationsChangedEvent{Type: EventConversationsChanged})
	if err != nil {
		log.Printf("realtime: marshal conversations event: %v", err)
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for _, conn := range h.listSubs {
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// Close terminates all tracked connections and clears hub state.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*Conn, 0, len(h.conns))
	for _, conn := range h.conns {
		conns = append(conns, conn)
	}
	h.conns = make(map[string]*Conn)
	h.convSubs = make(map[uint64]map[string]*Conn)
	h.listSubs = make(map[string]*Conn)
	h.connConvs = make(map[string]map[uint64]struct{})
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close(1001, "hub shutdown")
	}
}

func (h *Hub) detachLocked(connID string) {
	if _, ok := h.conns[connID]; !ok {
		return
	}
	delete(h.conns, connID)
	delete(h.listSubs, connID)
	for convID := range h.connConvs[connID] {
		h.unsubscribeLocked(convID, connID)
	}
	delete(h.connConvs, connID)
}

func (h *Hub) unsubscribeLocked(conversationID uint64, connID string) {
	subs := h.convSubs[conversationID]
	if subs == nil {
		return
	}
	delete(subs, connID)
	if len(subs) == 0 {
		delete(h.convSubs, conversationID)
	}
	if convs, ok := h.connConvs[connID]; ok {
		delete(convs, conversationID)
	}
}
