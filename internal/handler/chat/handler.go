package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/medchat/internal/model/chat"
	chatService "github.com/zhouzirui/medchat/internal/service/chat"
	"github.com/zhouzirui/medchat/pkg/utils"
)

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
	logger  *zap.Logger
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		chatSvc: chatSvc,
		logger:  logger.Named("chat"),
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
}

// handleChat 回答一次提问
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Query               string      `json:"query"`
		Message             string      `json:"message"`
		ConversationHistory []chat.Turn `json:"conversation_history"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// 兼容旧版客户端使用的 message 字段
	query := payload.Query
	if query == "" {
		query = payload.Message
	}

	resp, err := h.chatSvc.Reply(r.Context(), chat.Request{
		Query:               query,
		ConversationHistory: payload.ConversationHistory,
	})
	if err != nil {
		if errors.Is(err, chatService.ErrQueryRequired) {
			utils.RespondError(w, http.StatusBadRequest, "No query provided")
			return
		}
		h.logger.Error("chat reply failed", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, resp)
}
