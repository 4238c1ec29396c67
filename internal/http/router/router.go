package router

import (
	"github.com/gin-gonic/gin"

	"github.com/remediarr/remediarr/core/config"
	"github.com/remediarr/remediarr/internal/http/handler"
	"github.com/remediarr/remediarr/internal/http/handler/webhook"
	"github.com/remediarr/remediarr/internal/service"
)

func SetupRoutes(router *gin.Engine, cfg config.Config, remediation *service.RemediationService, health *service.HealthService) {
	healthHandler := handler.NewHealthHandler(health)
	router.GET("/health", healthHandler.Live)
	router.GET("/health/ready", healthHandler.Ready)

	webhookHandler := webhook.NewJellyseerrWebhookHandler(cfg.Webhook, remediation)
	router.POST("/webhook/jellyseerr", webhookHandler.HandleIssue)
}
