// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/billflow/backend/internal/application/usecase/summary"
	"github.com/billflow/backend/internal/domain/entity"
	domainerror "github.com/billflow/backend/internal/domain/error"
	"github.com/billflow/backend/internal/integration/entrypoint/dto"
)

// SummaryController handles summary read and rebuild endpoints.
type SummaryController struct {
	getUseCase     *summary.GetSummaryUseCase
	rebuildUseCase *summary.RebuildSummaryUseCase
}

// NewSummaryController creates a new summary controller instance.
func NewSummaryController(
	getUseCase *summary.GetSummaryUseCase,
	rebuildUseCase *summary.RebuildSummaryUseCase,
) *SummaryController {
	return &SummaryController{
		getUseCase:     getUseCase,
		rebuildUseCase: rebuildUseCase,
	}
}

// Get handles GET /summaries requests.
func (c *SummaryController) Get(ctx *gin.Context) {
	ownerIDStr := ctx.Query("owner_id")
	ownerType := ctx.Query("owner_type")
	periodType := ctx.Query("period_type")

	if ownerIDStr == "" || ownerType == "" || periodType == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "owner_id, owner_type, and period_type are required",
		})
		return
	}

	ownerID, err := uuid.Parse(ownerIDStr)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid owner_id format"})
		return
	}

	if !validPeriodType(periodType) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "period_type must be: week, month, or year"})
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), summary.GetSummaryInput{
		OwnerID:    ownerID,
		OwnerType:  entity.OwnerType(ownerType),
		PeriodType: entity.PeriodType(periodType),
	})
	if err != nil {
		if errors.Is(err, domainerror.ErrSummaryNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Summary not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "An internal error occurred"})
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSummaryResponse(output))
}

// Rebuild handles POST /summaries/rebuild requests.
func (c *SummaryController) Rebuild(ctx *gin.Context) {
	var req dto.RebuildSummaryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid owner_id format"})
		return
	}

	result, err := c.rebuildUseCase.Execute(ctx.Request.Context(), summary.RebuildSummaryInput{
		OwnerID:    ownerID,
		OwnerType:  entity.OwnerType(req.OwnerType),
		PeriodType: entity.PeriodType(req.PeriodType),
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "An internal error occurred"})
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRebuildResultResponse(result))
}

func validPeriodType(raw string) bool {
	switch entity.PeriodType(raw) {
	case entity.PeriodTypeWeek, entity.PeriodTypeMonth, entity.PeriodTypeYear:
		return true
	default:
		return false
	}
}
