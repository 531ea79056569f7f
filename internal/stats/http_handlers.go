package stats

import (
	"errors"
	"net/http"

	"crm-platform/internal/auth"
	"crm-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers exposes the statistics views over HTTP.

type Handlers struct {
	Service *Service
}

func (h Handlers) abortFor(c *gin.Context, err error) {
	if errors.Is(err, ErrInvalidArgument) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	logger.FromGin(c).Error("stats operation failed", "err", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// Report runs the per-agent aggregation for a date range. Admin only
// (wired in routes). Query params: start (required, 10 or 7 chars), end,
// platform (default ALL).
func (h Handlers) Report(c *gin.Context) {
	q := Query{
		StartDate: c.Query("start"),
		EndDate:   c.Query("end"),
		Platform:  c.DefaultQuery("platform", PlatformAll),
	}
	rows, err := h.Service.Report(c.Request.Context(), q)
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"agents": rows})
}

// MyStats returns the calling agent's own current-month summary.
func (h Handlers) MyStats(c *gin.Context) {
	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	my, err := h.Service.MyStats(c.Request.Context(), userID)
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusOK, my)
}

// Dashboard returns the current-month admin overview.
func (h Handlers) Dashboard(c *gin.Context) {
	d, err := h.Service.Dashboard(c.Request.Context())
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
