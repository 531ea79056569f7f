package agent

import (
	"errors"
	"net/http"

	"crm-platform/internal/auth"
	"crm-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers exposes login and account administration over HTTP.

type Handlers struct {
	Service *Service
}

func (h Handlers) abortFor(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBadCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bad credentials"})
	case errors.Is(err, ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "agent not found"})
	case errors.Is(err, ErrDuplicateUsername):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "username already exists"})
	case errors.Is(err, ErrNoGateway):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "no gateway device bound"})
	case errors.Is(err, ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	default:
		logger.FromGin(c).Error("agent operation failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	res, err := h.Service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h Handlers) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	res, err := h.Service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type createRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Create registers a new account. Admin only (wired in routes).
func (h Handlers) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	a, err := h.Service.Create(c.Request.Context(), CreateRequest{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	})
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h Handlers) List(c *gin.Context) {
	agents, err := h.Service.List(c.Request.Context())
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"agents": agents, "count": len(agents)})
}

func (h Handlers) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.abortFor(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type bindDeviceRequest struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// BindDevice attaches the caller's SMS gateway device.
func (h Handlers) BindDevice(c *gin.Context) {
	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	var req bindDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	a, err := h.Service.BindDevice(c.Request.Context(), userID, req.URL, req.Username, req.Password)
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h Handlers) ReleaseDevice(c *gin.Context) {
	userID, err := auth.UserID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	a, err := h.Service.ReleaseDevice(c.Request.Context(), userID)
	if err != nil {
		h.abortFor(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}
