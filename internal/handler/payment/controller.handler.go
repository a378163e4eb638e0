package payment

import (
	"context"
	"net/http"

	types "jengamart/internal/common/type"
	"jengamart/internal/pkg/helper"
	paymentService "jengamart/internal/service/payment"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx            context.Context
	paymentService paymentService.IService
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup)
}

func NewHandler(ctx context.Context, paymentService paymentService.IService) IHandler {
	return &Handler{
		ctx:            ctx,
		paymentService: paymentService,
	}
}

// VerifyCode submits a manually entered MPESA confirmation code.
func (h *Handler) VerifyCode(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	var req paymentService.VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error:   err,
		}))
		return
	}

	send(h.paymentService.VerifyCode(c.Param("flow_id"), &req))
}

// RequestPush sends an STK push to the customer's phone and starts the
// background confirmation poll.
func (h *Handler) RequestPush(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	// Body is optional; an empty push re-uses the phone from the draft.
	var req paymentService.PushRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			send(helper.ParseResponse(&types.Response{
				Code:    http.StatusBadRequest,
				Message: "Invalid request body",
				Error:   err,
			}))
			return
		}
	}

	send(h.paymentService.RequestPush(c.Param("flow_id"), &req))
}

func (h *Handler) Status(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.paymentService.Status(c.Param("flow_id")))
}

func (h *Handler) Instructions(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.paymentService.Instructions(c.Param("flow_id")))
}
