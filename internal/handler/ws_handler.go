package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	appmw "github.com/netpointcafe/portal-backend/internal/middleware"
	"github.com/netpointcafe/portal-backend/internal/realtime"
	"github.com/netpointcafe/portal-backend/internal/service"
)

const wsReadTimeout = 60 * time.Second

// WSHandler upgrades authenticated clients to a websocket and processes
// subscribe/unsubscribe frames until the socket closes. All scopes held by a
// connection are released on close.
type WSHandler struct {
	hub   *realtime.Hub
	svc   service.ChatService
	staff appmw.StaffChecker
}

func NewWSHandler(hub *realtime.Hub, svc service.ChatService, staff appmw.StaffChecker) *WSHandler {
	return &WSHandler{hub: hub, svc: svc, staff: staff}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS policy is enforced at the HTTP layer; the token already
		// authenticated the caller.
		return true
	},
}

type inboundFrame struct {
	Type           string `json:"type"`
	ConversationID uint64 `json:"conversationId,omitempty"`
}

type ackFrame struct {
	Type           string `json:"type"`
	ConversationID uint64 `json:"conversationId,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

func (h *WSHandler) Handle(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}

	// Role is resolved once per socket, not per frame.
	isStaff, err := h.staff.IsStaff(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "role check failed"))
	}

	ws, err := wsUpgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the response.
		return nil
	}

	conn := realtime.NewConn(uid, ws)
	h.hub.Attach(conn)
	conn.Start()
	defer func() {
		h.hub.Detach(conn)
		conn.Close(websocket.CloseNormalClosure, "session closed")
	}()

	ws.SetReadLimit(1 << 16)
	_ = ws.SetReadDeadline(time.Now().Add(wsReadTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	h.sendJSON(conn, ackFrame{Type: "connected"})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return nil
		}
		_ = ws.SetReadDeadline(time.Now().Add(wsReadTimeout))

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			h.sendJSON(conn, errorFrame{Type: "error", Code: "bad_frame", Error: "invalid json"})
			continue
		}
		h.handleFrame(c, conn, uid, isStaff, frame)
	}
}

func (h *WSHandler) handleFrame(c echo.Context, conn *realtime.Conn, uid string, isStaff bool, frame inboundFrame) {
	ctx := c.Request().Context()
	switch frame.Type {
	case "subscribe":
		if frame.ConversationID == 0 {
			h.sendJSON(conn, errorFrame{Type: "error", Code: "bad_frame", Error: "conversationId is required"})
			return
		}
		if err := h.svc.VerifyAccess(ctx, frame.ConversationID, uid, isStaff); err != nil {
			h.sendJSON(conn, errorFrame{Type: "error", Code: "forbidden", Error: "cannot subscribe to this conversation"})
			return
		}
		h.hub.Subscribe(frame.ConversationID, conn)
		h.sendJSON(conn, ackFrame{Type: "subscribed", ConversationID: frame.ConversationID})
	case "unsubscribe":
		h.hub.Unsubscribe(frame.ConversationID, conn)
		h.sendJSON(conn, ackFrame{Type: "unsubscribed", ConversationID: frame.ConversationID})
	case "subscribe_conversations":
		if !isStaff {
			h.sendJSON(conn, errorFrame{Type: "error", Code: "forbidden", Error: "staff only"})
			return
		}
		h.hub.SubscribeConversations(conn)
		h.sendJSON(conn, ackFrame{Type: "subscribed_conversations"})
	case "unsubscribe_conversations":
		h.hub.UnsubscribeConversations(conn)
		h.sendJSON(conn, ackFrame{Type: "unsubscribed_conversations"})
	default:
		h.sendJSON(conn, errorFrame{Type: "error", Code: "bad_frame", Error: "unknown frame type"})
	}
}

func (h *WSHandler) sendJSON(conn *realtime.Conn, v interface{}) {
	if payload, err := json.Marshal(v); err == nil {
		_ = conn.Send(payload)
	}
}
