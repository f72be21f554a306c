package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/netpointcafe/portal-backend/internal/ai"
	"github.com/netpointcafe/portal-backend/internal/service"
)

// AIHandler drafts staff replies from a conversation transcript.
type AIHandler struct {
	chat    service.ChatService
	suggest *ai.SuggestClient
}

func NewAIHandler(chat service.ChatService, suggest *ai.SuggestClient) *AIHandler {
	return &AIHandler{chat: chat, suggest: suggest}
}

type SuggestResponse struct {
	Reply string `json:"reply"`
}

func (h *AIHandler) SuggestReply(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	convID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversation id"))
	}
	history, err := h.chat.History(c.Request().Context(), convID, uid, true)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to load messages"))
	}
	reply, err := h.suggest.Suggest(c.Request().Context(), convID, history)
	if err != nil {
		return c.JSON(http.StatusBadGateway, NewErrorResponse("suggest_failed", "failed to draft a reply"))
	}
	return c.JSON(http.StatusOK, SuggestResponse{Reply: reply})
}
