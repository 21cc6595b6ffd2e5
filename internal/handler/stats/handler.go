package stats

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	analyzeService "github.com/zhouzirui/z-mood/backend/internal/service/analyze"
	"github.com/zhouzirui/z-mood/backend/pkg/utils"
)

// Handler 统计与趋势的HTTP处理器
type Handler struct {
	svc *analyzeService.Service
}

// New 创建统计处理器
func New(svc *analyzeService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册统计相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stats", h.handleStats)
	r.Get("/trends", h.handleTrends)
}

// handleStats 返回全部历史的情绪分布
func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.svc.Stats())
}

// handleTrends 返回各情绪在最近窗口内的走势，可通过emotion参数指定目标情绪
func (h *Handler) handleTrends(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.svc.Trends(r.URL.Query().Get("emotion")))
}
