package sms

import (
	"errors"
	"net/http"

	"crm-platform/internal/auth"
	"crm-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers exposes outbound send, per-lead history, and the inbound webhook.

type Handlers struct {
	Service *Service
}

func (h Handlers) abortFor(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "lead not found"})
	case errors.Is(err, ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	default:
		logger.FromGin(c).Error("sms operation failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

type sendRequest struct {
	LeadID     string `json:"lead_id"`
	Content    string `json:"content"`
	Attachment string `json:"attachment"`
}

// Send dispatches one outbound message through the caller's gateway device.
// A failed delivery is a normal 200 response with status FAIL.
func (h Handlers) Send(c *gin.Context) {
	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	m, err := h.Service.Send(c.Request.Context(), SendRequest{
		LeadID:     req.LeadID,
		AgentID:    userID,
		Content:    req.Content,
		Attachment: req.Attachment,
	})
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h Handlers) History(c *gin.Context) {
	messages, err := h.Service.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages, "count": len(messages)})
}

type inboundPayload struct {
	From    string `json:"from" form:"from"`
	Message string `json:"message" form:"message"`
}

// ReceiveWebhook is the unauthenticated entry point the bridge device calls
// for inbound SMS. Redeliveries inside the dedupe window get a 200 so the
// device stops retrying.
func (h Handlers) ReceiveWebhook(c *gin.Context) {
	log := logger.FromGin(c)

	var p inboundPayload
	if err := c.ShouldBind(&p); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	res, err := h.Service.Receive(c.Request.Context(), p.From, p.Message)
	if err != nil {
		if errors.Is(err, ErrInvalidArgument) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "from and message required"})
			return
		}
		log.Error("inbound sms failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if res.Provisioned {
		log.Info("inbound sms provisioned lead", "lead_id", res.LeadID)
	}
	c.JSON(http.StatusOK, res)
}
