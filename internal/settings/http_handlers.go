package settings

import (
	"errors"
	"net/http"

	"crm-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers exposes vocabulary management over HTTP. Admin only (wired in
// routes); list endpoints are open to every authenticated user so the agent
// UI can populate dropdowns.

type Handlers struct {
	Service *Service
}

func (h Handlers) abortFor(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "entry not found"})
	case errors.Is(err, ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	default:
		logger.FromGin(c).Error("settings operation failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

type addRequest struct {
	Label string `json:"label"`
}

func (h Handlers) Add(kind Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		e, err := h.Service.Add(c.Request.Context(), kind, req.Label)
		if err != nil {
			h.abortFor(c, err)
			return
		}
		c.JSON(http.StatusCreated, e)
	}
}

func (h Handlers) List(kind Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := h.Service.List(c.Request.Context(), kind)
		if err != nil {
			h.abortFor(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
	}
}

func (h Handlers) Remove(c *gin.Context) {
	if err := h.Service.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.abortFor(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
