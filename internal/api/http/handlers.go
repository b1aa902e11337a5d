package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/apps"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/notify"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/reminder"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/service"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/shared/utils"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/types"
)

// Version is reported by the root endpoint
const Version = "0.3.0"

// Handlers contains all HTTP handlers
type Handlers struct {
	registry   *service.Registry
	scheduler  *reminder.Scheduler
	dispatcher *notify.Dispatcher
	catalogs   *apps.CatalogHolder
	logger     *logging.Logger
	startedAt  time.Time
}

// NewHandlers creates a new handler set
func NewHandlers(
	registry *service.Registry,
	scheduler *reminder.Scheduler,
	dispatcher *notify.Dispatcher,
	catalogs *apps.CatalogHolder,
	logger *logging.Logger,
) *Handlers {
	return &Handlers{
		registry:   registry,
		scheduler:  scheduler,
		dispatcher: dispatcher,
		catalogs:   catalogs,
		logger:     logging.OrNop(logger).Component("http"),
		startedAt:  time.Now(),
	}
}

// Root handles the liveness check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "voice assistant",
		"version": Version,
	})
}

// Health reports the state of every component
func (h *Handlers) Health(c *gin.Context) {
	reminders := h.scheduler.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"uptime_seconds":   int64(time.Since(h.startedAt).Seconds()),
		"service_registry": h.registry.Stats(),
		"reminders": gin.H{
			"active":    reminders[reminder.StatusActive],
			"completed": reminders[reminder.StatusCompleted],
		},
		"notifications": gin.H{
			"pending": h.dispatcher.Pending(),
			"breaker": h.dispatcher.BreakerState().String(),
		},
		"catalog": gin.H{
			"version": h.catalogs.Version(),
			"apps":    h.catalogs.Load().Len(),
		},
	})
}

// ListServices lists registered services, optionally by category
func (h *Handlers) ListServices(c *gin.Context) {
	var category *types.Category
	if raw := c.Query("category"); raw != "" {
		cat := types.Category(raw)
		switch cat {
		case types.CategorySystem, types.CategoryReminder, types.CategoryNotification:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category: " + raw})
			return
		}
		category = &cat
	}

	c.JSON(http.StatusOK, gin.H{
		"services": h.registry.List(category),
		"stats":    h.registry.Stats(),
	})
}

// ExecuteCommands runs one command or a batch. Command failures are
// reported in the response bodies; only malformed requests get a 4xx.
func (h *Handlers) ExecuteCommands(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, utils.MaxPayloadSize)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmds, batch, err := types.DecodeCommands(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !batch {
		c.JSON(http.StatusOK, h.registry.Execute(c.Request.Context(), cmds[0]))
		return
	}

	if err := utils.ValidateBatchSize(len(cmds)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.logger.Debug("executing batch", zap.Int("commands", len(cmds)))
	c.JSON(http.StatusOK, h.registry.ExecuteBatch(c.Request.Context(), cmds))
}

// ListReminders lists stored reminders, optionally filtered by status
func (h *Handlers) ListReminders(c *gin.Context) {
	status := reminder.Status(c.Query("status"))
	switch status {
	case "", reminder.StatusActive, reminder.StatusCompleted:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be active or completed"})
		return
	}

	views := h.scheduler.List()
	if status != "" {
		filtered := views[:0]
		for _, v := range views {
			if v.Status == status {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"reminders": views,
		"count":     len(views),
	})
}

// NotificationHistory lists recent notification deliveries
func (h *Handlers) NotificationHistory(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	outcome := notify.Outcome(c.Query("outcome"))
	switch outcome {
	case "", notify.OutcomeDelivered, notify.OutcomeFailed:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "outcome must be delivered or failed"})
		return
	}

	entries := h.dispatcher.History(limit, outcome)
	c.JSON(http.StatusOK, gin.H{
		"history": entries,
		"count":   len(entries),
		"pending": h.dispatcher.Pending(),
	})
}
