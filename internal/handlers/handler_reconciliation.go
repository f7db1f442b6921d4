package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/class_credits_crm/internal/core/domain"
	portssvc "github.com/SscSPs/class_credits_crm/internal/core/ports/services"
	"github.com/SscSPs/class_credits_crm/internal/dto"
	"github.com/SscSPs/class_credits_crm/internal/middleware"
)

type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvc
}

func registerReconciliationRoutes(rg *gin.RouterGroup, rs portssvc.ReconciliationSvc) {
	h := &reconciliationHandler{reconciliationService: rs}
	rg.POST("/reconciliation", h.runReconciliation)
}

// runReconciliation godoc
// @Summary Reconcile every client
// @Description Recomputes all credit balances from the ledger. Per-client failures are listed in the report and do not stop the run.
// @Tags reconciliation
// @Produce  json
// @Param   dryRun query bool false "Report without writing"
// @Success 200 {object} domain.ReconciliationReport
// @Failure 503 {object} dto.ErrorResponse "Store unavailable"
// @Security BearerAuth
// @Router /reconciliation [post]
func (h *reconciliationHandler) runReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ReconcileParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, "query parameters", err)
		return
	}
	actorID, ok := operatorID(c, logger)
	if !ok {
		return
	}

	report, err := h.reconciliationService.ReconcileAll(c.Request.Context(), domain.ReconcileOptions{DryRun: params.DryRun, ActorID: actorID})
	if err != nil {
		respondError(c, logger, err, "Failed to run reconciliation")
		return
	}
	c.JSON(http.StatusOK, report)
}
