package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/lawnmate-api/internal/audit"
	"github.com/BruksfildServices01/lawnmate-api/internal/events"
	"github.com/BruksfildServices01/lawnmate-api/internal/httperr"
	"github.com/BruksfildServices01/lawnmate-api/internal/httpresp"
	"github.com/BruksfildServices01/lawnmate-api/internal/middleware"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
)

type IntegrationHandler struct {
	db     *gorm.DB
	audit  *audit.Dispatcher
	events *events.Dispatcher
}

func NewIntegrationHandler(db *gorm.DB, auditDispatcher *audit.Dispatcher, eventDispatcher *events.Dispatcher) *IntegrationHandler {
	return &IntegrationHandler{db: db, audit: auditDispatcher, events: eventDispatcher}
}

type RegisterWebhookRequest struct {
	WebhookURL string `json:"webhook_url"`
}

func (h *IntegrationHandler) emit(ev events.Event) {
	if h.events != nil {
		h.events.Emit(ev)
	}
}

func (h *IntegrationHandler) RegisterWebhook(c *gin.Context) {
	var req RegisterWebhookRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	raw := strings.TrimSpace(req.WebhookURL)
	if raw == "" {
		httperr.BadRequest(c, "missing_webhook_url", "Missing webhook_url")
		return
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		httperr.BadRequest(c, "invalid_webhook_url", "webhook_url must be an absolute http(s) URL")
		return
	}

	sub := models.WebhookSubscription{
		URL:          raw,
		RegisteredBy: middleware.CurrentEmployee(c).ID,
		Active:       true,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&sub).Error; err != nil {
		writeError(c, err, "failed_to_register_webhook")
		return
	}

	writeAudit(h.audit, c, "webhook_registered", "webhook_subscription", sub.ID, gin.H{"webhook_url": sub.URL})
	h.emit(events.New(events.WebhookSubscriptionMade, gin.H{"id": sub.ID, "webhook_url": sub.URL}))

	c.JSON(http.StatusCreated, gin.H{
		"msg":         "Webhook registered",
		"webhook_url": sub.URL,
		"id":          sub.ID,
	})
}

// Webhook accepts any JSON body and forwards it to the event bus.
func (h *IntegrationHandler) Webhook(c *gin.Context) {
	var payload json.RawMessage
	if err := c.ShouldBindJSON(&payload); err != nil {
		httperr.BadRequest(c, "invalid_payload", "Body must be JSON")
		return
	}

	slog.Info("webhook received",
		"request_id", c.GetString(middleware.ContextRequestID),
		"bytes", len(payload),
	)
	h.emit(events.New(events.WebhookReceived, payload))

	httpresp.Message(c, http.StatusOK, "Webhook event received")
}

func (h *IntegrationHandler) TestEvent(c *gin.Context) {
	httpresp.OK(c, events.New(events.TestEvent, gin.H{
		"message": "This is a test event",
	}))
}
