package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planea/back/internal/models"
	"github.com/planea/back/internal/platform/logger"
	"github.com/planea/back/internal/services"
	"github.com/planea/back/internal/utils"
)

type ChatHandler struct {
	chat services.ChatService
	log  *logger.Logger
}

func NewChatHandler(chat services.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, log: log}
}

// POST /api/chat/sessions
func (h *ChatHandler) StartSession(c *gin.Context) {
	var req models.StartChatRequest
	// An empty body opens a session without a plan.
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	session, err := h.chat.StartSession(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	utils.WriteJSONResponse(c, http.StatusCreated, session)
}

// POST /api/chat/sessions/:id/messages
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req models.ChatMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	reply, err := h.chat.SendMessage(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	utils.WriteJSONResponse(c, http.StatusOK, reply)
}

// GET /api/chat/sessions/:id
func (h *ChatHandler) GetSession(c *gin.Context) {
	session, err := h.chat.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	utils.WriteJSONResponse(c, http.StatusOK, session)
}
