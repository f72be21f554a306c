package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/netpointcafe/portal-backend/internal/service"
)

type ChatHandler struct {
	svc service.ChatService
}

func NewChatHandler(svc service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type SendMessageRequest struct {
	Body      string  `json:"body"`
	DedupeKey *string `json:"dedupeKey"`
}

// Resolve returns the caller's active conversation, creating one on first
// visit.
func (h *ChatHandler) Resolve(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	cv, err := h.svc.Resolve(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to start conversation"))
	}
	return c.JSON(http.StatusOK, cv)
}

func (h *ChatHandler) History(c echo.Context) error {
	return h.history(c, false)
}

func (h *ChatHandler) StaffHistory(c echo.Context) error {
	return h.history(c, true)
}

func (h *ChatHandler) history(c echo.Context, staff bool) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	convID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversation id"))
	}
	msgs, err := h.svc.History(c.Request().Context(), convID, uid, staff)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
		case errors.Is(err, service.ErrForbidden):
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not your conversation"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to load messages"))
	}
	return c.JSON(http.StatusOK, msgs)
}

func (h *ChatHandler) Send(c echo.Context) error {
	return h.send(c, false)
}

func (h *ChatHandler) StaffSend(c echo.Context) error {
	return h.send(c, true)
}

// send appends the message; the stored row reaches the caller through the
// live feed, so the response carries only a status.
func (h *ChatHandler) send(c echo.Context, staff bool) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	convID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversation id"))
	}
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if _, err := h.svc.Send(c.Request().Context(), convID, uid, req.Body, staff, req.DedupeKey); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
		case errors.Is(err, service.ErrForbidden):
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not your conversation"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, map[string]string{"status": "ok"})
}

// ListConversations serves the staff console: every conversation ordered by
// last activity with owner display names resolved in one batched query.
func (h *ChatHandler) ListConversations(c echo.Context) error {
	list, err := h.svc.ListConversations(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch conversations"))
	}
	return c.JSON(http.StatusOK, list)
}

// CloseConversation is final; there is no reopen.
func (h *ChatHandler) CloseConversation(c echo.Context) error {
	convID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversation id"))
	}
	if err := h.svc.Close(c.Request().Context(), convID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to close conversation"))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "closed"})
}
