package lead

import (
	"errors"
	"net/http"

	"crm-platform/internal/auth"
	"crm-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers exposes the lead service over HTTP.
// Keep these thin: parse/validate input, call the service, return JSON.

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
		logger.FromGin(c).Error("lead operation failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// List returns the leads visible to the caller. Agents get their own leads
// plus the unassigned pool; admins get everything. Optional query filters:
// platform, status.
func (h Handlers) List(c *gin.Context) {
	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	role, _ := auth.Role(c.Request.Context())

	f := Filter{
		Platform: c.Query("platform"),
		Status:   c.Query("status"),
	}
	leads, err := h.Service.ListForActor(c.Request.Context(), userID, role, f)
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": leads, "count": len(leads)})
}

// Get returns one lead together with its consultation log, which the detail
// view always renders alongside the lead.
func (h Handlers) Get(c *gin.Context) {
	l, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.abortFor(c, err)
		return
	}
	logs, err := h.Service.Logs(c.Request.Context(), l.ID)
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lead": l, "logs": logs})
}

type captureRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Platform string `json:"platform"`
	OwnerID  string `json:"owner_id"`
	Rank     int    `json:"rank"`
}

// Capture registers a single inbound lead (landing page or manual entry).
func (h Handlers) Capture(c *gin.Context) {
	var req captureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	l, err := h.Service.Capture(c.Request.Context(), CaptureRequest{
		Name:     req.Name,
		Phone:    req.Phone,
		Platform: req.Platform,
		OwnerID:  req.OwnerID,
		Rank:     req.Rank,
	})
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (h Handlers) Update(c *gin.Context) {
	var patch UpdatePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	l, err := h.Service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h Handlers) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.abortFor(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Claim assigns the lead to the calling agent and requeues it.
func (h Handlers) Claim(c *gin.Context) {
	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	l, err := h.Service.Claim(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

type bulkAllocateRequest struct {
	LeadIDs []string `json:"lead_ids"`
	AgentID string   `json:"agent_id"`
}

// BulkAllocate assigns many leads to one agent. Admin only (wired in routes).
func (h Handlers) BulkAllocate(c *gin.Context) {
	var req bulkAllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	n, err := h.Service.BulkAllocate(c.Request.Context(), req.LeadIDs, req.AgentID)
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"allocated": n})
}

type bulkUploadRequest struct {
	Records []UploadRecord `json:"records"`
}

// BulkUpload imports many leads at once. Bad rows are skipped, not fatal.
func (h Handlers) BulkUpload(c *gin.Context) {
	var req bulkUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	n, err := h.Service.BulkUpload(c.Request.Context(), req.Records)
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": n, "skipped": len(req.Records) - n})
}

func (h Handlers) ApproveAS(c *gin.Context) {
	l, err := h.Service.ApproveAS(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h Handlers) RejectAS(c *gin.Context) {
	l, err := h.Service.RejectAS(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

type startChatRequest struct {
	Phone string `json:"phone"`
}

// StartChat resolves a phone number to a workable lead for the caller.
func (h Handlers) StartChat(c *gin.Context) {
	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	var req startChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	res, err := h.Service.StartChat(c.Request.Context(), req.Phone, userID)
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type applyCostsRequest struct {
	OnlyUnset bool `json:"only_unset"`
}

// ApplyChannelCosts rewrites per-lead ad costs from the channel price table.
func (h Handlers) ApplyChannelCosts(c *gin.Context) {
	var req applyCostsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	n, err := h.Service.ApplyChannelCosts(c.Request.Context(), req.OnlyUnset)
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

type addLogRequest struct {
	Content string `json:"content"`
}

func (h Handlers) AddLog(c *gin.Context) {
	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	var req addLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	e, err := h.Service.AddLog(c.Request.Context(), c.Param("id"), userID, req.Content)
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h Handlers) Logs(c *gin.Context) {
	logs, err := h.Service.Logs(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "count": len(logs)})
}
