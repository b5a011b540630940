package main

import (
	"database/sql"
	"time"

	"hotel-frontdesk/internal/auth"
	"hotel-frontdesk/internal/callflow"
	"hotel-frontdesk/internal/httpapi"
	"hotel-frontdesk/pkg/utils"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, db *sql.DB, flow *callflow.Controller, api httpapi.Handlers, authMW gin.HandlerFunc) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), db, 2*time.Second); err != nil {
			c.JSON(503, gin.H{"status": "degraded"})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Provider voice webhooks (public).
	// NOTE: These endpoints should be protected by Twilio signature validation in production.
	flow.Register(r)

	r.POST("/auth/login", api.Login)

	// protected admin surface
	admin := r.Group("/")
	admin.Use(authMW)
	{
		admin.GET("/me", func(c *gin.Context) {
			uid, _ := auth.UserID(c.Request.Context())
			role, _ := auth.Role(c.Request.Context())
			c.JSON(200, gin.H{"user_id": uid, "role": role})
		})

		admin.POST("/call", api.StartCall)
		admin.GET("/calls", api.ListCalls)

		admin.GET("/reservations/:id", api.GetReservation)
		admin.POST("/fix-dates", api.FixDates)
	}
}
