package pricing

import (
	"errors"
	"net/http"

	"crm-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers exposes channel CRUD over HTTP. Admin only (wired in routes).

type Handlers struct {
	Service *Service
}

func (h Handlers) abortFor(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "channel not found"})
	case errors.Is(err, ErrDuplicateName):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "channel name already exists"})
	case errors.Is(err, ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	default:
		logger.FromGin(c).Error("pricing operation failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

type channelRequest struct {
	Name     string `json:"name"`
	UnitCost int    `json:"unit_cost"`
}

func (h Handlers) Create(c *gin.Context) {
	var req channelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	ch, err := h.Service.Create(c.Request.Context(), req.Name, req.UnitCost)
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusCreated, ch)
}

func (h Handlers) Update(c *gin.Context) {
	var req channelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	ch, err := h.Service.Update(c.Request.Context(), c.Param("id"), req.Name, req.UnitCost)
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

func (h Handlers) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.abortFor(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h Handlers) List(c *gin.Context) {
	channels, err := h.Service.List(c.Request.Context())
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"channels": channels, "count": len(channels)})
}
