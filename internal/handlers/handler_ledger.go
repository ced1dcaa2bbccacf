package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	portssvc "github.com/stitchadmin/stitchadmin/internal/core/ports/services"
	"github.com/stitchadmin/stitchadmin/internal/dto"
	"github.com/stitchadmin/stitchadmin/internal/middleware"
	"github.com/stitchadmin/stitchadmin/internal/utils/pagination"
)

// ledgerHandler handles HTTP requests related to postings.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	ledger := rg.Group("/ledger")
	{
		ledger.POST("/postings", h.createPostings)
		ledger.GET("/postings", h.listPostings)
		ledger.GET("/postings/:id", h.getPosting)
		ledger.POST("/postings/:id/reverse", h.reversePosting)
		ledger.GET("/sources/:kind/:id", h.listBySource)
		ledger.GET("/export/datev", h.exportDATEV)
		ledger.GET("/statistics", h.statistics)
	}
}

// createPostings godoc
// @Summary Post manual ledger entries
// @Description Validates and inserts all postings atomically
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   postings body dto.CreatePostingsRequest true "Postings"
// @Success 201 {object} dto.PostingIDsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid posting"
// @Failure 404 {object} dto.ErrorResponse "Unknown account"
// @Security BearerAuth
// @Router /ledger/postings [post]
func (h *ledgerHandler) createPostings(c *gin.Context) {
	var req dto.CreatePostingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	ids, err := h.ledgerService.Post(c.Request.Context(), req.ToDrafts(actor))
	if err != nil {
		respondError(c, err, "Failed to post entries")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Manual postings created", slog.Int("count", len(ids)))
	c.JSON(http.StatusCreated, dto.PostingIDsResponse{PostingIDs: ids})
}

// listPostings godoc
// @Summary List postings
// @Description Lists postings newest first, filtered by account, period and kind
// @Tags ledger
// @Produce  json
// @Param   account query string false "Account number (debit or credit side)"
// @Param   from query string false "First date (YYYY-MM-DD)"
// @Param   to query string false "Last date (YYYY-MM-DD)"
// @Param   kind query string false "Posting kind"
// @Param   limit query int false "Page size" default(50)
// @Param   excludeReversed query bool false "Hide reversed postings"
// @Param   nextToken query string false "Token of the next page"
// @Success 200 {object} dto.ListPostingsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Security BearerAuth
// @Router /ledger/postings [get]
func (h *ledgerHandler) listPostings(c *gin.Context) {
	var params dto.ListPostingsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}

	filter := domain.PostingFilter{
		Account:         params.Account,
		Kind:            domain.PostingKind(params.Kind),
		Limit:           params.Limit,
		ExcludeReversed: params.ExcludeReversed,
	}
	filter.DateFrom, filter.DateTo = dto.PeriodParams{From: params.From, To: params.To}.Range()
	if params.NextToken != nil && *params.NextToken != "" {
		cursor, err := pagination.DecodePostingCursor(*params.NextToken)
		if err != nil {
			bindError(c, err)
			return
		}
		filter.After = &cursor
	}

	postings, err := h.ledgerService.Query(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to list postings")
		return
	}
	if postings == nil {
		postings = []domain.Posting{}
	}
	c.JSON(http.StatusOK, dto.ListPostingsResponse{
		Postings:  postings,
		NextToken: pagination.NextPostingToken(postings, params.Limit),
	})
}

// getPosting godoc
// @Summary Get a posting
// @Tags ledger
// @Produce  json
// @Param   id path int true "Posting ID"
// @Success 200 {object} domain.Posting
// @Failure 404 {object} dto.ErrorResponse "Posting not found"
// @Security BearerAuth
// @Router /ledger/postings/{id} [get]
func (h *ledgerHandler) getPosting(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	posting, err := h.ledgerService.GetPosting(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve posting")
		return
	}
	c.JSON(http.StatusOK, posting)
}

// reversePosting godoc
// @Summary Reverse a posting
// @Description Inserts the counter-posting. Reversing twice returns the existing counter-posting.
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   id path int true "Posting ID"
// @Param   body body dto.ReversePostingRequest true "Reason"
// @Success 200 {object} dto.ReversePostingResponse
// @Failure 400 {object} dto.ErrorResponse "Counter-postings cannot be reversed"
// @Failure 404 {object} dto.ErrorResponse "Posting not found"
// @Security BearerAuth
// @Router /ledger/postings/{id}/reverse [post]
func (h *ledgerHandler) reversePosting(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ReversePostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	counterID, err := h.ledgerService.Reverse(c.Request.Context(), id, req.Reason, actor)
	if err != nil {
		respondError(c, err, "Failed to reverse posting")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Posting reversed", slog.Int64("posting_id", id), slog.Int64("counter_posting_id", counterID))
	c.JSON(http.StatusOK, dto.ReversePostingResponse{CounterPostingID: counterID})
}

// listBySource godoc
// @Summary List the postings of a source document
// @Tags ledger
// @Produce  json
// @Param   kind path string true "Source kind (rechnung, kassenbeleg, eingangsrechnung, manual)"
// @Param   id path int true "Source ID"
// @Success 200 {array} domain.Posting
// @Security BearerAuth
// @Router /ledger/sources/{kind}/{id} [get]
func (h *ledgerHandler) listBySource(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	postings, err := h.ledgerService.ListBySource(c.Request.Context(), c.Param("kind"), id)
	if err != nil {
		respondError(c, err, "Failed to list postings")
		return
	}
	if postings == nil {
		postings = []domain.Posting{}
	}
	c.JSON(http.StatusOK, postings)
}

// exportDATEV godoc
// @Summary Export postings in DATEV format
// @Description Returns the DATEV EXTF 700 booking batch for the period as a download
// @Tags ledger
// @Produce  text/csv
// @Param   from query string true "First date (YYYY-MM-DD)"
// @Param   to query string true "Last date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse "Invalid period"
// @Security BearerAuth
// @Router /ledger/export/datev [get]
func (h *ledgerHandler) exportDATEV(c *gin.Context) {
	var params dto.ExportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}

	data, filename, err := h.ledgerService.ExportDATEV(c.Request.Context(), params.From, params.To)
	if err != nil {
		respondError(c, err, "Failed to export postings")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// statistics godoc
// @Summary Ledger statistics
// @Tags ledger
// @Produce  json
// @Param   from query string false "First date (YYYY-MM-DD)"
// @Param   to query string false "Last date (YYYY-MM-DD)"
// @Success 200 {object} domain.LedgerStatistics
// @Security BearerAuth
// @Router /ledger/statistics [get]
func (h *ledgerHandler) statistics(c *gin.Context) {
	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}
	from, to := params.Range()
	stats, err := h.ledgerService.Statistics(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err, "Failed to compute statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}
