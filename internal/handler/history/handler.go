package history

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	analyzeService "github.com/zhouzirui/z-mood/backend/internal/service/analyze"
	"github.com/zhouzirui/z-mood/backend/pkg/utils"
)

// Handler 历史记录的HTTP处理器
type Handler struct {
	svc *analyzeService.Service
}

// New 创建历史记录处理器
func New(svc *analyzeService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册历史记录相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/history", h.handleList)
	r.Delete("/history", h.handleClear)
}

// handleList 返回最近的分析记录
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := analyzeService.ParseLimit(r.URL.Query().Get("limit"))
	utils.RespondJSON(w, http.StatusOK, h.svc.History(limit))
}

// handleClear 清空历史记录
func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	h.svc.Clear()
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"status":        "cleared",
		"total_entries": 0,
	})
}
