package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aiplugin/internal/chat"
	"aiplugin/internal/common"
	"aiplugin/internal/logger"
	"aiplugin/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const wsReadLimit = 1 << 20

// ChatHandler 对话接口
type ChatHandler struct {
	service  *chat.Service
	upgrader websocket.Upgrader
}

// NewChatHandler 创建处理器；allowedOrigins 与 CORS 白名单一致，为空时仅允许同源握手
func NewChatHandler(service *chat.Service, allowedOrigins ...string) *ChatHandler {
	return &ChatHandler{
		service: service,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 5 * time.Second,
			CheckOrigin:      originChecker(allowedOrigins),
		},
	}
}

// originChecker 无 Origin 头的非浏览器客户端放行，其余须同源或在白名单内
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == origin {
				return true
			}
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		if !strings.EqualFold(u.Host, r.Host) {
			logger.WithContext(r.Context()).Warn("拒绝跨域 WebSocket 握手", zap.String("origin", origin))
			return false
		}
		return true
	}
}

// Completions 流式对话
// @Summary 流式对话
// @Description 每行一个 JSON 消息：先回显用户输入，随后为模型累计输出
// @Tags Chat
// @Accept json
// @Produce plain
// @Param request body chat.ChatRequest true "对话请求"
// @Success 200 {string} string "NDJSON 消息流"
// @Failure 400 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /api/v1/ai/chat/completions [post]
func (h *ChatHandler) Completions(c *gin.Context) {
	var req chat.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	stream, err := h.service.Prepare(ctx, &req)
	if err != nil {
		common.ResponseErr(c, err)
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	enc := json.NewEncoder(c.Writer)
	enc.SetEscapeHTML(false)
	err = stream.Run(ctx, func(msg chat.ChatMessage) error {
		if err := enc.Encode(msg); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	})
	if err != nil {
		// 响应已开始，只能截断
		logger.WithContext(ctx).Warn("对话流中断",
			zap.Uint64("provider_id", req.ProviderID),
			zap.String("model_id", req.ModelID),
			zap.Error(err))
	}
}

type wsError struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// Connect WebSocket 对话，每个文本帧一个请求，每条消息一个帧
// @Summary WebSocket 对话
// @Tags Chat
// @Router /api/v1/ai/chat/ws [get]
func (h *ChatHandler) Connect(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	metrics.WSConnections.Inc()
	defer func() {
		metrics.WSConnections.Dec()
		_ = conn.Close()
	}()

	conn.SetReadLimit(wsReadLimit)
	ctx := c.Request.Context()
	log := logger.WithContext(ctx)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("WebSocket 连接异常关闭", zap.Error(err))
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		if err := h.serveFrame(c, conn, data); err != nil {
			log.Warn("WebSocket 对话中断", zap.Error(err))
			return
		}
	}
}

// serveFrame 处理单个请求帧，返回写入失败等需要断开连接的错误
func (h *ChatHandler) serveFrame(c *gin.Context, conn *websocket.Conn, data []byte) error {
	ctx := c.Request.Context()

	var req chat.ChatRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return conn.WriteJSON(wsError{Error: "请求参数错误: " + err.Error(), Code: common.CodeInvalidRequest})
	}
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		return conn.WriteJSON(wsError{Error: "请求参数错误: " + err.Error(), Code: common.CodeInvalidRequest})
	}

	stream, err := h.service.Prepare(ctx, &req)
	if err != nil {
		return conn.WriteJSON(toWSError(err))
	}

	var writeErr error
	err = stream.Run(ctx, func(msg chat.ChatMessage) error {
		if err := conn.WriteJSON(msg); err != nil {
			writeErr = err
			return err
		}
		return nil
	})
	if writeErr != nil {
		return writeErr
	}
	if err != nil {
		logger.WithContext(ctx).Warn("对话流中断", zap.Error(err))
		return conn.WriteJSON(toWSError(err))
	}
	return nil
}

func toWSError(err error) wsError {
	var bizErr *common.BusinessError
	if errors.As(err, &bizErr) {
		return wsError{Error: bizErr.Message, Code: bizErr.Code}
	}
	return wsError{Error: err.Error(), Code: common.CodeInternalError}
}
