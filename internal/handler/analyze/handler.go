package analyze

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	analyzeService "github.com/zhouzirui/z-mood/backend/internal/service/analyze"
	"github.com/zhouzirui/z-mood/backend/pkg/utils"
)

// maxBodyBytes 请求体上限，远大于文本长度上限
const maxBodyBytes = 1 << 20

// Handler 情绪分析接口的HTTP处理器
type Handler struct {
	svc *analyzeService.Service
}

// New 创建分析处理器
func New(svc *analyzeService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册分析相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/analyze", h.handleAnalyze)
	r.Get("/analyze", h.handleStatus)
}

type analyzeRequest struct {
	Text json.RawMessage `json:"text"`
}

// handleAnalyze 分析一段文本并返回情绪分布与趋势
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	text, ok := decodeText(w, r)
	if !ok {
		utils.RespondErrorDetails(w, http.StatusBadRequest, "Invalid input", analyzeService.DetailsTextRequired)
		return
	}

	resp, err := h.svc.Analyze(r.Context(), text)
	if err != nil {
		var verr *analyzeService.ValidationError
		if errors.As(err, &verr) {
			utils.RespondErrorDetails(w, http.StatusBadRequest, "Invalid input", verr.Details)
			return
		}
		slog.Error("analysis failed", "component", "handler", "error", err)
		utils.RespondErrorDetails(w, http.StatusInternalServerError, "Analysis failed", err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, resp)
}

// handleStatus 返回服务状态
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.svc.Status())
}

// decodeText 读取请求体中的text字段，要求其存在且为字符串
func decodeText(w http.ResponseWriter, r *http.Request) (string, bool) {
	var payload analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return "", false
	}
	if len(payload.Text) == 0 || payload.Text[0] != '"' {
		return "", false
	}
	var text string
	if err := json.Unmarshal(payload.Text, &text); err != nil {
		return "", false
	}
	return text, true
}
