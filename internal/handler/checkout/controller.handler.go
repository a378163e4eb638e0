package checkout

import (
	"context"
	"net/http"

	types "jengamart/internal/common/type"
	"jengamart/internal/pkg/helper"
	checkoutService "jengamart/internal/service/checkout"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx             context.Context
	checkoutService checkoutService.IService
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup)
}

func NewHandler(ctx context.Context, checkoutService checkoutService.IService) IHandler {
	return &Handler{
		ctx:             ctx,
		checkoutService: checkoutService,
	}
}

// StartCheckout opens a new flow for the posted cart snapshot.
func (h *Handler) StartCheckout(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	var req checkoutService.StartCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error:   err,
		}))
		return
	}

	send(h.checkoutService.StartCheckout(&req))
}

func (h *Handler) GetFlow(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.checkoutService.GetFlow(c.Param("flow_id")))
}

// SaveDraft replaces the collected form data without moving stages.
func (h *Handler) SaveDraft(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	var req checkoutService.DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error:   err,
		}))
		return
	}

	send(h.checkoutService.SaveDraft(c.Param("flow_id"), &req))
}

func (h *Handler) Next(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.checkoutService.Next(c.Param("flow_id")))
}

func (h *Handler) Back(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.checkoutService.Back(c.Param("flow_id")))
}

func (h *Handler) Submit(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.checkoutService.Submit(c.Param("flow_id")))
}

func (h *Handler) Cancel(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.checkoutService.Cancel(c.Param("flow_id")))
}

// GetRecord exposes the stored audit row to back-office staff.
func (h *Handler) GetRecord(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.checkoutService.GetRecord(c.Param("flow_id")))
}
