// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/billflow/backend/internal/application/usecase/obligation"
	"github.com/billflow/backend/internal/application/usecase/period"
	"github.com/billflow/backend/internal/domain/entity"
	domainerror "github.com/billflow/backend/internal/domain/error"
	"github.com/billflow/backend/internal/integration/entrypoint/dto"
)

// ObligationController handles obligation lifecycle endpoints.
type ObligationController struct {
	createUseCase      *obligation.CreateObligationUseCase
	updateUseCase      *obligation.UpdateObligationUseCase
	deactivateUseCase  *obligation.DeactivateObligationUseCase
	ingestUseCase      *obligation.IngestObligationsUseCase
	rematchUseCase     *period.RematchObligationUseCase
	listPeriodsUseCase *period.ListPeriodsUseCase
}

// NewObligationController creates a new obligation controller instance.
func NewObligationController(
	createUseCase *obligation.CreateObligationUseCase,
	updateUseCase *obligation.UpdateObligationUseCase,
	deactivateUseCase *obligation.DeactivateObligationUseCase,
	ingestUseCase *obligation.IngestObligationsUseCase,
	rematchUseCase *period.RematchObligationUseCase,
	listPeriodsUseCase *period.ListPeriodsUseCase,
) *ObligationController {
	return &ObligationController{
		createUseCase:      createUseCase,
		updateUseCase:      updateUseCase,
		deactivateUseCase:  deactivateUseCase,
		ingestUseCase:      ingestUseCase,
		rematchUseCase:     rematchUseCase,
		listPeriodsUseCase: listPeriodsUseCase,
	}
}

// Create handles POST /obligations requests.
func (c *ObligationController) Create(ctx *gin.Context) {
	var req dto.CreateObligationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid owner_id format"})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid amount format"})
		return
	}

	firstDate, err := time.Parse("2006-01-02", req.FirstDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid first_date format, expected YYYY-MM-DD"})
		return
	}

	created, err := c.createUseCase.Execute(ctx.Request.Context(), obligation.CreateObligationInput{
		OwnerID:      ownerID,
		OwnerType:    entity.OwnerType(req.OwnerType),
		MerchantName: req.MerchantName,
		Description:  req.Description,
		Type:         entity.ObligationType(req.Type),
		Amount:       amount,
		Cadence:      req.Cadence,
		FirstDate:    firstDate,
	})
	if err != nil {
		c.handleObligationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToObligationResponse(created))
}

// Update handles PATCH /obligations/:id requests.
func (c *ObligationController) Update(ctx *gin.Context) {
	obligationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid obligation id format"})
		return
	}

	var req dto.UpdateObligationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid owner_id format"})
		return
	}

	input := obligation.UpdateObligationInput{
		ObligationID: obligationID,
		OwnerID:      ownerID,
		MerchantName: req.MerchantName,
		Description:  req.Description,
	}

	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid amount format"})
			return
		}
		input.Amount = &amount
	}

	if req.LinkedItems != nil {
		items, err := toLinkedItems(obligationID, req.LinkedItems)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}
		input.LinkedItems = items
	}

	updated, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleObligationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToObligationResponse(updated))
}

// Deactivate handles POST /obligations/:id/deactivate requests.
func (c *ObligationController) Deactivate(ctx *gin.Context) {
	obligationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid obligation id format"})
		return
	}

	var req dto.DeactivateObligationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid owner_id format"})
		return
	}

	err = c.deactivateUseCase.Execute(ctx.Request.Context(), obligation.DeactivateObligationInput{
		ObligationID: obligationID,
		OwnerID:      ownerID,
	})
	if err != nil {
		c.handleObligationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Obligation deactivated"})
}

// Ingest handles POST /obligations/ingest requests.
func (c *ObligationController) Ingest(ctx *gin.Context) {
	var req dto.IngestObligationsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid owner_id format"})
		return
	}

	result, err := c.ingestUseCase.Execute(ctx.Request.Context(), obligation.IngestObligationsInput{
		OwnerID:     ownerID,
		OwnerType:   entity.OwnerType(req.OwnerType),
		AccessToken: req.AccessToken,
	})
	if err != nil {
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "Provider sync failed"})
		return
	}

	ctx.JSON(http.StatusOK, dto.IngestResultResponse{
		StreamsFound: result.StreamsFound,
		Created:      result.Created,
		Updated:      result.Updated,
		Skipped:      result.Skipped,
		Errors:       result.Errors,
	})
}

// Rematch handles POST /obligations/:id/rematch requests.
func (c *ObligationController) Rematch(ctx *gin.Context) {
	obligationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid obligation id format"})
		return
	}

	result, err := c.rematchUseCase.Execute(ctx.Request.Context(), period.RematchObligationInput{
		ObligationID: obligationID,
	})
	if err != nil {
		c.handleObligationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRecomputeResultResponse(result))
}

// ListPeriods handles GET /obligations/:id/periods requests.
func (c *ObligationController) ListPeriods(ctx *gin.Context) {
	obligationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid obligation id format"})
		return
	}

	periods, err := c.listPeriodsUseCase.Execute(ctx.Request.Context(), period.ListPeriodsInput{
		ObligationID: obligationID,
	})
	if err != nil {
		c.handleObligationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPeriodListResponse(periods))
}

// handleObligationError maps domain errors to HTTP responses.
func (c *ObligationController) handleObligationError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, domainerror.ErrObligationNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Obligation not found"})
	case errors.Is(err, domainerror.ErrNotAuthorizedToModifyObligation):
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "Not authorized to modify this obligation"})
	case errors.Is(err, domainerror.ErrInvalidObligationAmount):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Amount must be non-zero"})
	case errors.Is(err, domainerror.ErrInvalidObligationType):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Type must be bill or income"})
	default:
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "An internal error occurred"})
	}
}

// toLinkedItems converts linked item inputs to domain line items.
func toLinkedItems(obligationID uuid.UUID, inputs []dto.LinkedItemInput) ([]*entity.TransactionLineItem, error) {
	items := make([]*entity.TransactionLineItem, len(inputs))
	for i, in := range inputs {
		date, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			return nil, errors.New("invalid linked item date format, expected YYYY-MM-DD")
		}
		amount, err := decimal.NewFromString(in.Amount)
		if err != nil {
			return nil, errors.New("invalid linked item amount format")
		}
		items[i] = &entity.TransactionLineItem{
			ID:           in.TransactionID,
			ObligationID: obligationID,
			Date:         date,
			Amount:       amount.Abs(),
			Description:  in.Description,
			Pending:      in.Pending,
		}
	}
	return items, nil
}
