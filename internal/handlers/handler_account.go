package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	portssvc "github.com/stitchadmin/stitchadmin/internal/core/ports/services"
	"github.com/stitchadmin/stitchadmin/internal/dto"
	"github.com/stitchadmin/stitchadmin/internal/middleware"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: as}
}

func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.GET("/:number", h.getAccount)
		accounts.GET("/:number/balance", h.getBalance)
		accounts.DELETE("/:number", h.deactivateAccount)
	}

	mappings := rg.Group("/payment-mappings")
	{
		mappings.GET("", h.listPaymentMappings)
		mappings.PUT("/:method", h.setPaymentMapping)
	}
}

// listAccounts godoc
// @Summary List accounts
// @Tags accounts
// @Produce  json
// @Param   activeOnly query bool false "Only active accounts"
// @Success 200 {array} domain.Account
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("activeOnly", "false"))

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	c.JSON(http.StatusOK, accounts)
}

// getAccount godoc
// @Summary Get an account by number
// @Tags accounts
// @Produce  json
// @Param   number path string true "Account number"
// @Success 200 {object} domain.Account
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{number} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.accountService.GetAccount(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, account)
}

// getBalance godoc
// @Summary Get the balance of an account
// @Description Signed by account kind; both bounds are optional and inclusive
// @Tags accounts
// @Produce  json
// @Param   number path string true "Account number"
// @Param   from query string false "First date (YYYY-MM-DD)"
// @Param   to query string false "Last date (YYYY-MM-DD)"
// @Success 200 {object} dto.BalanceResponse
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{number}/balance [get]
func (h *accountHandler) getBalance(c *gin.Context) {
	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	number := c.Param("number")
	from, to := params.Range()

	balance, err := h.accountService.Balance(c.Request.Context(), number, from, to)
	if err != nil {
		respondError(c, err, "Failed to calculate balance")
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{Account: number, Balance: balance})
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Description Only accounts with zero balance and no recent postings can be deactivated
// @Tags accounts
// @Param   number path string true "Account number"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 409 {object} dto.ErrorResponse "Account still in use"
// @Security BearerAuth
// @Router /accounts/{number} [delete]
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	number := c.Param("number")
	if err := h.accountService.DeactivateAccount(c.Request.Context(), number, actor); err != nil {
		respondError(c, err, "Failed to deactivate account")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Account deactivated", slog.String("account", number))
	c.Status(http.StatusNoContent)
}

// listPaymentMappings godoc
// @Summary List payment method mappings
// @Tags accounts
// @Produce  json
// @Success 200 {array} domain.PaymentMethodMapping
// @Security BearerAuth
// @Router /payment-mappings [get]
func (h *accountHandler) listPaymentMappings(c *gin.Context) {
	mappings, err := h.accountService.ListPaymentMappings(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list payment mappings")
		return
	}
	c.JSON(http.StatusOK, mappings)
}

// setPaymentMapping godoc
// @Summary Point a payment method at an account
// @Tags accounts
// @Accept  json
// @Param   method path string true "Payment method (CASH, CARD, SUMUP, INVOICE, TRANSFER)"
// @Param   body body dto.SetPaymentMappingRequest true "Target account"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse "Unknown method or unusable account"
// @Security BearerAuth
// @Router /payment-mappings/{method} [put]
func (h *accountHandler) setPaymentMapping(c *gin.Context) {
	method, err := domain.ParsePaymentMethod(c.Param("method"))
	if err != nil {
		bindError(c, err)
		return
	}
	var req dto.SetPaymentMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	if err := h.accountService.SetPaymentMapping(c.Request.Context(), method, req.AccountNumber, req.Description, actor); err != nil {
		respondError(c, err, "Failed to update payment mapping")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Payment mapping updated",
		slog.String("method", string(method)), slog.String("account", req.AccountNumber))
	c.Status(http.StatusNoContent)
}
