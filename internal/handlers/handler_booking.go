package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/stitchadmin/stitchadmin/internal/core/ports/services"
	"github.com/stitchadmin/stitchadmin/internal/dto"
	"github.com/stitchadmin/stitchadmin/internal/middleware"
)

// bookingHandler books documents created outside the order workflow.
type bookingHandler struct {
	bookingService portssvc.BookingSvc
}

func registerBookingRoutes(rg *gin.RouterGroup, bookingService portssvc.BookingSvc) {
	h := &bookingHandler{bookingService: bookingService}

	bookings := rg.Group("/bookings")
	bookings.POST("/sale-receipts", h.bookSaleReceipt)
	bookings.POST("/purchase-invoices", h.bookPurchaseInvoice)
}

// bookSaleReceipt godoc
// @Summary Book a point-of-sale receipt
// @Description Idempotent: booking the same receipt again returns the original posting ids
// @Tags bookings
// @Accept  json
// @Produce  json
// @Param   receipt body dto.SaleReceiptRequest true "Receipt"
// @Success 200 {object} dto.PostingIDsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid receipt"
// @Security BearerAuth
// @Router /bookings/sale-receipts [post]
func (h *bookingHandler) bookSaleReceipt(c *gin.Context) {
	var req dto.SaleReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	ids, err := h.bookingService.BookSaleReceipt(c.Request.Context(), req.ToDomain(), actor)
	if err != nil {
		respondError(c, err, "Failed to book sale receipt")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Sale receipt booked",
		slog.String("receipt_no", req.ReceiptNo), slog.Int("postings", len(ids)))
	c.JSON(http.StatusOK, dto.PostingIDsResponse{PostingIDs: ids})
}

// bookPurchaseInvoice godoc
// @Summary Book a supplier invoice
// @Tags bookings
// @Accept  json
// @Produce  json
// @Param   invoice body dto.PurchaseInvoiceRequest true "Purchase invoice"
// @Success 200 {object} dto.PostingIDsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid invoice"
// @Security BearerAuth
// @Router /bookings/purchase-invoices [post]
func (h *bookingHandler) bookPurchaseInvoice(c *gin.Context) {
	var req dto.PurchaseInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	ids, err := h.bookingService.BookPurchaseInvoice(c.Request.Context(), req.ToDomain(), actor)
	if err != nil {
		respondError(c, err, "Failed to book purchase invoice")
		return
	}
	c.JSON(http.StatusOK, dto.PostingIDsResponse{PostingIDs: ids})
}
