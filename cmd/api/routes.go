package main

import (
	"crm-platform/internal/agent"
	"crm-platform/internal/auth"
	"crm-platform/internal/lead"
	"crm-platform/internal/pricing"
	"crm-platform/internal/rbac"
	"crm-platform/internal/settings"
	"crm-platform/internal/sms"
	"crm-platform/internal/stats"

	"github.com/gin-gonic/gin"
)

// deps bundles the fully wired handler sets for route registration.
type deps struct {
	authMW   gin.HandlerFunc
	auditMW  gin.HandlerFunc
	leads    lead.Handlers
	pricing  pricing.Handlers
	stats    stats.Handlers
	sms      sms.Handlers
	agents   agent.Handlers
	settings settings.Handlers
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, d deps) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Bridge webhook and landing-page capture (public entry points).
	// NOTE: protect these with network-level restrictions in production;
	// the bridge device cannot sign its requests.
	r.POST("/webhooks/sms/inbound", d.sms.ReceiveWebhook)
	r.POST("/webhooks/leads/capture", d.leads.Capture)

	// auth (public)
	r.POST("/v1/auth/login", d.agents.Login)
	r.POST("/v1/auth/refresh", d.agents.Refresh)

	// protected API group
	v1 := r.Group("/v1")
	v1.Use(d.authMW)
	{
		v1.GET("/me", func(c *gin.Context) {
			uid, _ := auth.UserID(c.Request.Context())
			role, _ := auth.Role(c.Request.Context())
			c.JSON(200, gin.H{"user_id": uid, "role": role})
		})

		// LEAD routes
		leads := v1.Group("/leads")
		leads.Use(rbac.RequireAnyRole(rbac.RoleAgent))
		{
			leads.GET("", d.leads.List)
			leads.GET("/:id", d.leads.Get)
			leads.PATCH("/:id", d.leads.Update)
			leads.POST("/:id/claim", d.leads.Claim)
			leads.POST("/:id/logs", d.leads.AddLog)
			leads.GET("/:id/logs", d.leads.Logs)
			leads.GET("/:id/sms", d.sms.History)
			leads.POST("/chat", d.leads.StartChat)
		}

		// SMS send goes through the caller's own gateway device.
		v1.POST("/sms/send", rbac.RequireAnyRole(rbac.RoleAgent), d.sms.Send)

		// Gateway device binding (self-service).
		v1.POST("/agents/device", rbac.RequireAnyRole(rbac.RoleAgent), d.agents.BindDevice)
		v1.DELETE("/agents/device", rbac.RequireAnyRole(rbac.RoleAgent), d.agents.ReleaseDevice)

		// Per-agent statistics self view.
		v1.GET("/stats/my", rbac.RequireAnyRole(rbac.RoleAgent), d.stats.MyStats)

		// Vocabulary lists feed agent UI dropdowns.
		v1.GET("/settings/failure-reasons", d.settings.List(settings.KindFailureReason))
		v1.GET("/settings/custom-statuses", d.settings.List(settings.KindCustomStatus))

		// ADMIN routes
		admin := v1.Group("/admin")
		admin.Use(rbac.RequireAdmin())
		admin.Use(d.auditMW)
		{
			admin.DELETE("/leads/:id", d.leads.Delete)
			admin.POST("/leads/bulk-upload", d.leads.BulkUpload)
			admin.POST("/leads/allocate", d.leads.BulkAllocate)
			admin.POST("/leads/:id/as/approve", d.leads.ApproveAS)
			admin.POST("/leads/:id/as/reject", d.leads.RejectAS)
			admin.POST("/leads/apply-channel-costs", d.leads.ApplyChannelCosts)

			admin.GET("/stats/report", d.stats.Report)
			admin.GET("/stats/dashboard", d.stats.Dashboard)

			admin.GET("/channels", d.pricing.List)
			admin.POST("/channels", d.pricing.Create)
			admin.PUT("/channels/:id", d.pricing.Update)
			admin.DELETE("/channels/:id", d.pricing.Delete)

			admin.GET("/agents", d.agents.List)
			admin.POST("/agents", d.agents.Create)
			admin.DELETE("/agents/:id", d.agents.Delete)

			admin.POST("/settings/failure-reasons", d.settings.Add(settings.KindFailureReason))
			admin.POST("/settings/custom-statuses", d.settings.Add(settings.KindCustomStatus))
			admin.DELETE("/settings/:id", d.settings.Remove)
		}
	}
}
