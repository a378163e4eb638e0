package checkout

import (
	"jengamart/internal/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup) {
	flows := e.Group("/v1/checkout")

	flows.POST("", h.StartCheckout)
	flows.GET("/:flow_id", h.GetFlow)
	flows.PUT("/:flow_id/draft", h.SaveDraft)
	flows.POST("/:flow_id/next", h.Next)
	flows.POST("/:flow_id/back", h.Back)
	flows.POST("/:flow_id/submit", h.Submit)
	flows.POST("/:flow_id/cancel", h.Cancel)

	// Back-office only.
	flows.GET("/:flow_id/record", middleware.AuthMiddleware(), h.GetRecord)
}
