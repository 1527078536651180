package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"dealpilot-backend/internal/reply"
	"dealpilot-backend/pkg/config"
)

type Handler struct {
	replyUsecase *reply.Usecase
	config       *config.Config
	logger       *slog.Logger
}

func NewHandler(replyUsecase *reply.Usecase, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		replyUsecase: replyUsecase,
		config:       cfg,
		logger:       logger,
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h)

	return r.Run(addr)
}
