package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/medchat/internal/model/chat"
	"github.com/zhouzirui/medchat/internal/model/medical"
	"github.com/zhouzirui/medchat/pkg/utils"
)

// Handler 提供健康检查与数据集查询接口
type Handler struct {
	store     medical.Store
	generator string
}

// New 创建健康检查处理器。generator 为当前启用的生成器名称，"none" 表示未配置。
func New(store medical.Store, generator string) *Handler {
	return &Handler{store: store, generator: generator}
}

// RegisterRoutes 注册健康检查相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Get("/diseases", h.handleDiseases)
	r.Get("/diseases/{diseaseID}", h.handleDisease)
}

// HandleRoot 返回服务横幅
func (h *Handler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"message":        "Medical RAG Chatbot API",
		"status":         "running",
		"total_diseases": len(h.store.List()),
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"dataset_loaded": len(h.store.List()),
		"ai_configured":  h.generator != "" && h.generator != "none",
		"ai_provider":    h.generator,
	})
}

func (h *Handler) handleDiseases(w http.ResponseWriter, _ *http.Request) {
	type disease struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}

	docs := h.store.List()
	diseases := make([]disease, 0, len(docs))
	for _, doc := range docs {
		diseases = append(diseases, disease{ID: string(doc.ID), Title: doc.Title})
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"total":    len(diseases),
		"diseases": diseases,
	})
}

// handleDisease 返回单个文档的完整内容
func (h *Handler) handleDisease(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "diseaseID")
	doc, ok := h.store.FindByID(chat.ID(id))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "disease not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, doc)
}
