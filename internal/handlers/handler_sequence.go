package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	portssvc "github.com/stitchadmin/stitchadmin/internal/core/ports/services"
	"github.com/stitchadmin/stitchadmin/internal/dto"
	"github.com/stitchadmin/stitchadmin/internal/middleware"
)

// sequenceHandler exposes document numbering.
type sequenceHandler struct {
	numbering portssvc.NumberingSvc
}

func registerSequenceRoutes(rg *gin.RouterGroup, numbering portssvc.NumberingSvc) {
	h := &sequenceHandler{numbering: numbering}

	rg.GET("/sequences", h.listSequences)
	rg.POST("/sequences/:docType/next", h.nextNumber)
	rg.POST("/document-numbers/:number/cancel", h.cancelNumber)
}

// listSequences godoc
// @Summary List document number sequences
// @Tags sequences
// @Produce  json
// @Success 200 {array} domain.DocumentNumberSequence
// @Security BearerAuth
// @Router /sequences [get]
func (h *sequenceHandler) listSequences(c *gin.Context) {
	seqs, err := h.numbering.ListSequences(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list sequences")
		return
	}
	c.JSON(http.StatusOK, seqs)
}

// nextNumber godoc
// @Summary Issue the next document number
// @Tags sequences
// @Produce  json
// @Param   docType path string true "Document type"
// @Success 201 {object} dto.NextNumberResponse
// @Failure 400 {object} dto.ErrorResponse "Unknown document type"
// @Failure 404 {object} dto.ErrorResponse "Sequence not configured"
// @Security BearerAuth
// @Router /sequences/{docType}/next [post]
func (h *sequenceHandler) nextNumber(c *gin.Context) {
	docType, err := domain.ParseDocumentType(c.Param("docType"))
	if err != nil {
		bindError(c, err)
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	number, err := h.numbering.Next(c.Request.Context(), docType, actor)
	if err != nil {
		respondError(c, err, "Failed to issue document number")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Document number issued", slog.String("number", number))
	c.JSON(http.StatusCreated, dto.NextNumberResponse{Number: number})
}

// cancelNumber godoc
// @Summary Cancel an issued document number
// @Description The number stays used; it is only marked cancelled in the number log
// @Tags sequences
// @Accept  json
// @Param   number path string true "Document number"
// @Param   body body dto.CancelNumberRequest true "Reason"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "Number was never issued"
// @Failure 409 {object} dto.ErrorResponse "Already cancelled"
// @Security BearerAuth
// @Router /document-numbers/{number}/cancel [post]
func (h *sequenceHandler) cancelNumber(c *gin.Context) {
	var req dto.CancelNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.numbering.CancelNumber(c.Request.Context(), c.Param("number"), req.Reason, actor); err != nil {
		respondError(c, err, "Failed to cancel document number")
		return
	}
	c.Status(http.StatusNoContent)
}
