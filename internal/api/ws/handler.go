package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/service"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/shared/id"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/shared/utils"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/types"
)

// Frame types
const (
	TypeIoT       = "iot"
	TypeIoTResult = "iot_result"
	TypePing      = "ping"
	TypePong      = "pong"
	TypeSystem    = "system"
	TypeError     = "error"
)

// commandTimeout bounds one iot frame so a stuck launch cannot hold the
// connection forever.
const commandTimeout = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // local assistant clients only
	},
}

// Message is a client frame
type Message struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Commands  []types.Command `json:"commands,omitempty"`
}

// Result is the reply to an iot frame
type Result struct {
	Type      string            `json:"type"`
	RequestID string            `json:"request_id"`
	Results   []*types.Response `json:"results"`
	Timestamp int64             `json:"timestamp"`
}

// Handler manages WebSocket connections
type Handler struct {
	registry *service.Registry
	logger   *logging.Logger
	metrics  *monitoring.Metrics
}

// NewHandler creates a new WebSocket handler
func NewHandler(registry *service.Registry, logger *logging.Logger, metrics *monitoring.Metrics) *Handler {
	return &Handler{
		registry: registry,
		logger:   logging.OrNop(logger).Component("ws"),
		metrics:  metrics,
	}
}

// HandleConnection handles WebSocket upgrade and messages
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(utils.MaxFrameSize)

	connID := uuid.NewString()
	log := h.logger.With(zap.String("conn_id", connID))
	h.metrics.IncWSConnections()
	defer h.metrics.DecWSConnections()
	log.Info("websocket connected", zap.String("remote", c.ClientIP()))

	reqCtx := c.Request.Context()

	h.send(conn, map[string]any{
		"type":          TypeSystem,
		"message":       "connected",
		"connection_id": connID,
	})

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("websocket read error", zap.Error(err))
			}
			break
		}
		h.metrics.RecordWSMessage("in", msg.Type)

		switch msg.Type {
		case TypeIoT:
			h.handleIoT(reqCtx, conn, msg, log)
		case TypePing:
			h.send(conn, map[string]any{"type": TypePong, "timestamp": time.Now().Unix()})
		default:
			h.sendError(conn, "unknown message type: "+msg.Type)
		}
	}
	log.Info("websocket disconnected")
}

func (h *Handler) handleIoT(reqCtx context.Context, conn *websocket.Conn, msg Message, log *zap.Logger) {
	if err := utils.ValidateBatchSize(len(msg.Commands)); err != nil {
		h.sendError(conn, err.Error())
		return
	}

	requestID := msg.RequestID
	if requestID == "" {
		requestID = string(id.NewRequestID())
	}

	ctx, cancel := context.WithTimeout(tracing.WithTraceID(reqCtx, tracing.TraceID(requestID)), commandTimeout)
	defer cancel()

	results := h.registry.ExecuteBatch(ctx, msg.Commands)
	log.Debug("iot frame handled", zap.String("request_id", requestID), zap.Int("commands", len(results)))

	h.send(conn, Result{
		Type:      TypeIoTResult,
		RequestID: requestID,
		Results:   results,
		Timestamp: time.Now().Unix(),
	})
}

func (h *Handler) send(conn *websocket.Conn, data any) {
	msgType := TypeSystem
	switch v := data.(type) {
	case Result:
		msgType = v.Type
	case map[string]any:
		if t, ok := v["type"].(string); ok {
			msgType = t
		}
	}
	h.metrics.RecordWSMessage("out", msgType)

	if err := conn.WriteJSON(data); err != nil {
		h.logger.Debug("websocket write failed", zap.Error(err))
	}
}

func (h *Handler) sendError(conn *websocket.Conn, msg string) {
	h.send(conn, map[string]any{
		"type":      TypeError,
		"message":   msg,
		"timestamp": time.Now().Unix(),
	})
}
