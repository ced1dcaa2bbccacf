package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	portssvc "github.com/stitchadmin/stitchadmin/internal/core/ports/services"
	"github.com/stitchadmin/stitchadmin/internal/core/workflow"
	"github.com/stitchadmin/stitchadmin/internal/dto"
	"github.com/stitchadmin/stitchadmin/internal/middleware"
)

// orderHandler handles HTTP requests related to orders and their workflow.
type orderHandler struct {
	orderService portssvc.OrderSvcFacade
}

func newOrderHandler(os portssvc.OrderSvcFacade) *orderHandler {
	return &orderHandler{orderService: os}
}

func registerOrderRoutes(rg *gin.RouterGroup, orderService portssvc.OrderSvcFacade) {
	h := newOrderHandler(orderService)

	orders := rg.Group("/orders")
	{
		orders.POST("", h.createOrder)
		orders.GET("/:id", h.getOrder)
		orders.GET("/:id/history", h.getHistory)
		orders.GET("/:id/next-actions", h.getNextActions)

		orders.POST("/:id/accept-offer", h.command("accept offer", orderService.AcceptOffer))
		orders.POST("/:id/reject-offer", h.rejectOffer)
		orders.POST("/:id/design-approval", h.requestDesignApproval)
		orders.POST("/:id/start-production", h.command("start production", orderService.StartProduction))
		orders.POST("/:id/start-packing", h.command("start packing", orderService.StartPacking))
		orders.POST("/:id/ready-to-ship", h.command("mark ready to ship", orderService.MarkReadyToShip))
		orders.POST("/:id/confirm-pickup", h.confirmPickup)
		orders.POST("/:id/ship", h.markShipped)
		orders.POST("/:id/complete", h.command("complete order", orderService.Complete))
		orders.POST("/:id/cancel", h.cancelOrder)
		orders.POST("/:id/invoice", h.issueInvoice)
		orders.POST("/:id/deposit", h.recordDeposit)
		orders.POST("/:id/final-payment", h.recordFinalPayment)
		orders.POST("/:id/archive", h.archiveOrder)
		orders.POST("/:id/unarchive", h.command("unarchive order", orderService.Unarchive))
	}
}

// createOrder godoc
// @Summary Create an order or an offer
// @Description Creates an order in state confirmed, or an offer when isOffer is set, and assigns its number
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   order body dto.CreateOrderRequest true "Order details"
// @Success 201 {object} dto.CreateOrderResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Failed to create order"
// @Security BearerAuth
// @Router /orders [post]
func (h *orderHandler) createOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	id, err := h.orderService.CreateOrder(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err, "Failed to create order")
		return
	}

	logger.Info("Order created", slog.Int64("order_id", id), slog.Bool("is_offer", req.IsOffer))
	c.JSON(http.StatusCreated, dto.CreateOrderResponse{OrderID: id})
}

// getOrder godoc
// @Summary Get an order
// @Description Returns the order with its items and the actions available right now
// @Tags orders
// @Produce  json
// @Param   id path int true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} dto.ErrorResponse "Order not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve order"
// @Security BearerAuth
// @Router /orders/{id} [get]
func (h *orderHandler) getOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve order")
		return
	}
	actions, err := h.orderService.GetNextActions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve order")
		return
	}

	progress := workflow.Progress(order.WorkflowStatus)
	c.JSON(http.StatusOK, dto.OrderResponse{Order: *order, NextActions: actions, Progress: &progress})
}

// getHistory godoc
// @Summary Get the status history of an order
// @Tags orders
// @Produce  json
// @Param   id path int true "Order ID"
// @Success 200 {array} domain.OrderStatusHistory
// @Failure 404 {object} dto.ErrorResponse "Order not found"
// @Security BearerAuth
// @Router /orders/{id}/history [get]
func (h *orderHandler) getHistory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	history, err := h.orderService.GetHistory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve order history")
		return
	}
	if history == nil {
		history = []domain.OrderStatusHistory{}
	}
	c.JSON(http.StatusOK, history)
}

// getNextActions godoc
// @Summary List the events a user can trigger on an order
// @Tags orders
// @Produce  json
// @Param   id path int true "Order ID"
// @Success 200 {array} domain.NextAction
// @Failure 404 {object} dto.ErrorResponse "Order not found"
// @Security BearerAuth
// @Router /orders/{id}/next-actions [get]
func (h *orderHandler) getNextActions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actions, err := h.orderService.GetNextActions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve next actions")
		return
	}
	if actions == nil {
		actions = []domain.NextAction{}
	}
	c.JSON(http.StatusOK, actions)
}

// command wraps workflow operations that take nothing but the order and the actor.
func (h *orderHandler) command(name string, fn func(ctx context.Context, orderID int64, actor string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		actor, ok := actorFromContext(c)
		if !ok {
			return
		}
		if err := fn(c.Request.Context(), id, actor); err != nil {
			respondError(c, err, "Failed to "+name)
			return
		}
		middleware.GetLoggerFromCtx(c.Request.Context()).Info("Order updated", slog.String("operation", name), slog.Int64("order_id", id))
		c.Status(http.StatusNoContent)
	}
}

// rejectOffer godoc
// @Summary Reject an offer
// @Tags orders
// @Accept  json
// @Param   id path int true "Order ID"
// @Param   body body dto.ReasonRequest false "Rejection reason"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse "Order is not an open offer"
// @Security BearerAuth
// @Router /orders/{id}/reject-offer [post]
func (h *orderHandler) rejectOffer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ReasonRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.orderService.RejectOffer(c.Request.Context(), id, req.Reason, actor); err != nil {
		respondError(c, err, "Failed to reject offer")
		return
	}
	c.Status(http.StatusNoContent)
}

// requestDesignApproval godoc
// @Summary Send a design approval link
// @Description Issues a one-time approval token. The raw token is only returned here.
// @Tags orders
// @Produce  json
// @Param   id path int true "Order ID"
// @Success 201 {object} dto.DesignApprovalTokenResponse
// @Failure 409 {object} dto.ErrorResponse "Illegal transition"
// @Failure 422 {object} dto.ErrorResponse "Design file missing"
// @Security BearerAuth
// @Router /orders/{id}/design-approval [post]
func (h *orderHandler) requestDesignApproval(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	token, err := h.orderService.RequestDesignApproval(c.Request.Context(), id, actor)
	if err != nil {
		respondError(c, err, "Failed to request design approval")
		return
	}
	c.JSON(http.StatusCreated, dto.DesignApprovalTokenResponse{
		Token:       token,
		ApprovePath: "/public/design-approvals/" + token + "/approve",
	})
}

// confirmPickup godoc
// @Summary Confirm a pickup at the counter
// @Tags orders
// @Accept  json
// @Param   id path int true "Order ID"
// @Param   body body dto.ConfirmPickupRequest true "Signature and name"
// @Success 204
// @Failure 422 {object} dto.ErrorResponse "Not a pickup order or signature missing"
// @Security BearerAuth
// @Router /orders/{id}/confirm-pickup [post]
func (h *orderHandler) confirmPickup(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ConfirmPickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.orderService.ConfirmPickup(c.Request.Context(), id, req.Signature, req.Name, actor); err != nil {
		respondError(c, err, "Failed to confirm pickup")
		return
	}
	c.Status(http.StatusNoContent)
}

// markShipped godoc
// @Summary Mark an order as shipped
// @Tags orders
// @Accept  json
// @Param   id path int true "Order ID"
// @Param   body body dto.MarkShippedRequest false "Tracking number"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse "Illegal transition"
// @Security BearerAuth
// @Router /orders/{id}/ship [post]
func (h *orderHandler) markShipped(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.MarkShippedRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.orderService.MarkShipped(c.Request.Context(), id, req.TrackingNumber, actor); err != nil {
		respondError(c, err, "Failed to mark order shipped")
		return
	}
	c.Status(http.StatusNoContent)
}

// cancelOrder godoc
// @Summary Cancel an order
// @Description Cancels the order and reverses every non-reversed posting of its invoice
// @Tags orders
// @Accept  json
// @Param   id path int true "Order ID"
// @Param   body body dto.ReasonRequest true "Cancellation reason"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse "Order is terminal"
// @Failure 422 {object} dto.ErrorResponse "Reason missing"
// @Security BearerAuth
// @Router /orders/{id}/cancel [post]
func (h *orderHandler) cancelOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.orderService.Cancel(c.Request.Context(), id, req.Reason, actor); err != nil {
		respondError(c, err, "Failed to cancel order")
		return
	}
	c.Status(http.StatusNoContent)
}

// issueInvoice godoc
// @Summary Issue the invoice of an order
// @Description Creates the invoice, books it to the ledger and links it to the order
// @Tags orders
// @Produce  json
// @Param   id path int true "Order ID"
// @Success 201 {object} dto.IssueInvoiceResponse
// @Failure 409 {object} dto.ErrorResponse "Order already invoiced"
// @Failure 422 {object} dto.ErrorResponse "Order not yet in production"
// @Security BearerAuth
// @Router /orders/{id}/invoice [post]
func (h *orderHandler) issueInvoice(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	invoiceID, err := h.orderService.IssueInvoice(c.Request.Context(), id, actor)
	if err != nil {
		respondError(c, err, "Failed to issue invoice")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Invoice issued", slog.Int64("order_id", id), slog.Int64("invoice_id", invoiceID))
	c.JSON(http.StatusCreated, dto.IssueInvoiceResponse{InvoiceID: invoiceID})
}

// recordDeposit godoc
// @Summary Record a deposit payment
// @Tags orders
// @Accept  json
// @Param   id path int true "Order ID"
// @Param   body body dto.DepositRequest true "Deposit"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse "Invalid amount or method"
// @Failure 422 {object} dto.ErrorResponse "Deposit not allowed"
// @Security BearerAuth
// @Router /orders/{id}/deposit [post]
func (h *orderHandler) recordDeposit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	err := h.orderService.RecordDeposit(c.Request.Context(), id, req.Amount, domain.PaymentMethod(req.Method), req.TxnID, actor)
	if err != nil {
		respondError(c, err, "Failed to record deposit")
		return
	}
	c.Status(http.StatusNoContent)
}

// recordFinalPayment godoc
// @Summary Record the final payment
// @Tags orders
// @Accept  json
// @Param   id path int true "Order ID"
// @Param   body body dto.FinalPaymentRequest true "Payment"
// @Success 204
// @Failure 422 {object} dto.ErrorResponse "Order already paid"
// @Security BearerAuth
// @Router /orders/{id}/final-payment [post]
func (h *orderHandler) recordFinalPayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.FinalPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	err := h.orderService.RecordFinalPayment(c.Request.Context(), id, domain.PaymentMethod(req.Method), req.TxnID, actor)
	if err != nil {
		respondError(c, err, "Failed to record final payment")
		return
	}
	c.Status(http.StatusNoContent)
}

// archiveOrder godoc
// @Summary Archive a finished order
// @Tags orders
// @Accept  json
// @Param   id path int true "Order ID"
// @Param   body body dto.ArchiveRequest true "Archive reason"
// @Success 204
// @Failure 409 {object} dto.ErrorResponse "Already archived"
// @Failure 422 {object} dto.ErrorResponse "Order not terminal or unpaid"
// @Security BearerAuth
// @Router /orders/{id}/archive [post]
func (h *orderHandler) archiveOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ArchiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.orderService.Archive(c.Request.Context(), id, req.Reason, actor); err != nil {
		respondError(c, err, "Failed to archive order")
		return
	}
	c.Status(http.StatusNoContent)
}
