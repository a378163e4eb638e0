package payment

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup) {
	payments := e.Group("/v1/checkout/:flow_id/payment")

	payments.POST("/verify", h.VerifyCode)
	payments.POST("/push", h.RequestPush)
	payments.GET("/status", h.Status)
	payments.GET("/instructions", h.Instructions)
}
