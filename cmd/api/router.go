package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}

	webhooks := r.Group("/webhooks")
	{
		webhooks.POST("/twilio", h.TwilioWebhook)
		webhooks.POST("/gmail", h.GmailWebhook)
	}
}
