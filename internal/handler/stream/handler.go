package stream

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/z-mood/backend/internal/service/events"
	"github.com/zhouzirui/z-mood/backend/pkg/utils"
)

const (
	defaultHeartbeat = 15 * time.Second
	pongWait         = 60 * time.Second
	writeWait        = 10 * time.Second
)

// Subscriber 事件源，由events.Hub实现
type Subscriber interface {
	Subscribe() (<-chan events.Event, func())
}

// Handler 通过SSE和WebSocket推送新的分析结果
type Handler struct {
	feed      Subscriber
	upgrader  websocket.Upgrader
	heartbeat time.Duration
}

// New 创建推送处理器。origins为空或包含"*"时接受任意来源的WebSocket连接
func New(feed Subscriber, origins []string) *Handler {
	return &Handler{
		feed: feed,
		upgrader: websocket.Upgrader{
			CheckOrigin:     originChecker(origins),
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		heartbeat: defaultHeartbeat,
	}
}

// RegisterRoutes 注册推送相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/events", h.handleEvents)
	r.Get("/ws", h.handleWebSocket)
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// handleEvents 以Server-Sent Events推送分析事件
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ch, cancel := h.feed.Subscribe()
	defer cancel()

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	slog.Debug("sse feed opened", "component", "stream", "remote", r.RemoteAddr)
	defer slog.Debug("sse feed closed", "component", "stream", "remote", r.RemoteAddr)

	if err := utils.SendSSEEvent(w, flusher, "status", map[string]string{"message": "stream established"}); err != nil {
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if err := utils.SendSSEEvent(w, flusher, ev.Type, ev); err != nil {
				slog.Warn("sse write failed", "component", "stream", "error", err)
				return
			}
		case <-ticker.C:
			if err := utils.SendSSEComment(w, flusher, "heartbeat"); err != nil {
				return
			}
		}
	}
}

// handleWebSocket 以WebSocket推送分析事件，客户端发来的消息被忽略
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "component", "stream", "error", err)
		return
	}
	defer conn.Close()

	ch, cancel := h.feed.Subscribe()
	defer cancel()

	ctx, stop := context.WithCancel(r.Context())
	defer stop()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go h.readLoop(conn, stop)

	if err := h.write(conn, outgoingMessage{Type: "connected", Timestamp: time.Now().UnixMilli()}); err != nil {
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if err := h.write(conn, outgoingMessage{Type: ev.Type, Data: ev, Timestamp: ev.Timestamp}); err != nil {
				slog.Warn("websocket write failed", "component", "stream", "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// readLoop 读取并丢弃客户端消息，以处理控制帧并感知断开
func (h *Handler) readLoop(conn *websocket.Conn, stop context.CancelFunc) {
	defer stop()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket read error", "component", "stream", "error", err)
			}
			return
		}
	}
}

func (h *Handler) write(conn *websocket.Conn, msg outgoingMessage) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}

func originChecker(origins []string) func(*http.Request) bool {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[o] = struct{}{}
	}
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
