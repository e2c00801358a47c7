// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/billflow/backend/internal/domain/entity"
)

// CreateObligationRequest represents the request body for manual obligation entry.
type CreateObligationRequest struct {
	OwnerID      string `json:"owner_id" binding:"required,uuid"`
	OwnerType    string `json:"owner_type" binding:"required,oneof=user group"`
	MerchantName string `json:"merchant_name" binding:"required,min=1,max=255"`
	Description  string `json:"description,omitempty"`
	Type         string `json:"type" binding:"required,oneof=bill income"`
	Amount       string `json:"amount" binding:"required"`
	Cadence      string `json:"cadence" binding:"required"`
	FirstDate    string `json:"first_date" binding:"required"`
}

// UpdateObligationRequest represents the request body for obligation update.
// Nil fields are left unchanged.
type UpdateObligationRequest struct {
	OwnerID      string            `json:"owner_id" binding:"required,uuid"`
	Amount       *string           `json:"amount,omitempty"`
	MerchantName *string           `json:"merchant_name,omitempty" binding:"omitempty,min=1,max=255"`
	Description  *string           `json:"description,omitempty"`
	LinkedItems  []LinkedItemInput `json:"linked_items,omitempty"`
}

// LinkedItemInput is one ledger transaction linked to the obligation.
type LinkedItemInput struct {
	TransactionID string `json:"transaction_id" binding:"required"`
	Date          string `json:"date" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
	Description   string `json:"description,omitempty"`
	Pending       bool   `json:"pending,omitempty"`
}

// DeactivateObligationRequest represents the request body for deactivation.
type DeactivateObligationRequest struct {
	OwnerID string `json:"owner_id" binding:"required,uuid"`
}

// IngestObligationsRequest represents the request body for a provider sync run.
type IngestObligationsRequest struct {
	OwnerID     string `json:"owner_id" binding:"required,uuid"`
	OwnerType   string `json:"owner_type" binding:"required,oneof=user group"`
	AccessToken string `json:"access_token" binding:"required"`
}

// ObligationResponse represents a single obligation in API responses.
type ObligationResponse struct {
	ID                   string     `json:"id"`
	OwnerID              string     `json:"owner_id"`
	OwnerType            string     `json:"owner_type"`
	ProviderStreamID     string     `json:"provider_stream_id,omitempty"`
	MerchantName         string     `json:"merchant_name"`
	Description          string     `json:"description,omitempty"`
	Category             string     `json:"category,omitempty"`
	Type                 string     `json:"type"`
	Amount               string     `json:"amount"`
	Cadence              string     `json:"cadence"`
	FirstDate            string     `json:"first_date"`
	LastDate             string     `json:"last_date"`
	PredictedNextDate    *string    `json:"predicted_next_date,omitempty"`
	Status               string     `json:"status"`
	LinkedTransactionIDs []string   `json:"linked_transaction_ids,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// IngestResultResponse represents the outcome of a provider sync run.
type IngestResultResponse struct {
	StreamsFound int      `json:"streams_found"`
	Created      int      `json:"created"`
	Updated      int      `json:"updated"`
	Skipped      int      `json:"skipped"`
	Errors       []string `json:"errors,omitempty"`
}

// ToObligationResponse converts a domain Obligation entity to an ObligationResponse DTO.
func ToObligationResponse(obligation *entity.Obligation) ObligationResponse {
	var predicted *string
	if obligation.PredictedNextDate != nil {
		formatted := obligation.PredictedNextDate.Format("2006-01-02")
		predicted = &formatted
	}

	return ObligationResponse{
		ID:                   obligation.ID.String(),
		OwnerID:              obligation.OwnerID.String(),
		OwnerType:            string(obligation.OwnerType),
		ProviderStreamID:     obligation.ProviderStreamID,
		MerchantName:         obligation.MerchantName,
		Description:          obligation.Description,
		Category:             obligation.Category,
		Type:                 string(obligation.Type),
		Amount:               obligation.Amount.StringFixed(2),
		Cadence:              string(obligation.Cadence),
		FirstDate:            obligation.FirstDate.Format("2006-01-02"),
		LastDate:             obligation.LastDate.Format("2006-01-02"),
		PredictedNextDate:    predicted,
		Status:               string(obligation.Status),
		LinkedTransactionIDs: obligation.LinkedTransactionIDs,
		CreatedAt:            obligation.CreatedAt,
		UpdatedAt:            obligation.UpdatedAt,
	}
}
