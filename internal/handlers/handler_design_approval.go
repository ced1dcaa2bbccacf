package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/stitchadmin/stitchadmin/internal/core/ports/services"
	"github.com/stitchadmin/stitchadmin/internal/dto"
	"github.com/stitchadmin/stitchadmin/internal/middleware"
)

// designApprovalHandler serves the customer-facing approval link. It is not
// behind the JWT middleware; the token in the path is the credential.
type designApprovalHandler struct {
	approvals portssvc.DesignApprovalSvc
}

func registerDesignApprovalRoutes(rg *gin.RouterGroup, approvals portssvc.DesignApprovalSvc) {
	h := &designApprovalHandler{approvals: approvals}

	links := rg.Group("/design-approvals")
	links.POST("/:token/approve", h.approve)
	links.POST("/:token/reject", h.reject)
}

// approve godoc
// @Summary Approve a design
// @Description Customer approval through the link sent with the design. Tokens are single use.
// @Tags design-approvals
// @Accept  json
// @Param   token path string true "Approval token"
// @Param   body body dto.DesignApprovalRequest true "Signature"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse "Signature missing"
// @Failure 403 {object} dto.ErrorResponse "Invalid or used token"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /public/design-approvals/{token}/approve [post]
func (h *designApprovalHandler) approve(c *gin.Context) {
	var req dto.DesignApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	if err := h.approvals.ApproveDesign(c.Request.Context(), c.Param("token"), req); err != nil {
		respondError(c, err, "Failed to approve design")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Design approved by customer", slog.String("ip", req.IP))
	c.Status(http.StatusNoContent)
}

// reject godoc
// @Summary Request a design revision
// @Tags design-approvals
// @Accept  json
// @Param   token path string true "Approval token"
// @Param   body body dto.DesignRejectionRequest true "Revision notes"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse "Invalid or used token"
// @Router /public/design-approvals/{token}/reject [post]
func (h *designApprovalHandler) reject(c *gin.Context) {
	var req dto.DesignRejectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	req.IP = c.ClientIP()

	if err := h.approvals.RejectDesign(c.Request.Context(), c.Param("token"), req); err != nil {
		respondError(c, err, "Failed to reject design")
		return
	}
	c.Status(http.StatusNoContent)
}
