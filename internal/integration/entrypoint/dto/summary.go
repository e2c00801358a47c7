// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/billflow/backend/internal/domain/entity"
	"github.com/billflow/backend/internal/domain/valueobject"
)

// SummaryEntryResponse represents one bucket entry in a summary response.
type SummaryEntryResponse struct {
	PeriodID     string `json:"period_id"`
	ObligationID string `json:"obligation_id"`
	MerchantName string `json:"merchant_name"`
	Description  string `json:"description,omitempty"`
	Status       string `json:"status"`

	NumberOfOccurrences       int `json:"number_of_occurrences"`
	NumberOfOccurrencesPaid   int `json:"number_of_occurrences_paid"`
	NumberOfOccurrencesUnpaid int `json:"number_of_occurrences_unpaid"`

	TotalAmountDue    string `json:"total_amount_due"`
	TotalAmountPaid   string `json:"total_amount_paid"`
	TotalAmountUnpaid string `json:"total_amount_unpaid"`
}

// SummaryResponse represents a summary document in API responses.
type SummaryResponse struct {
	ID         string                            `json:"id"`
	OwnerID    string                            `json:"owner_id"`
	OwnerType  string                            `json:"owner_type"`
	PeriodType string                            `json:"period_type"`
	Buckets    map[string][]SummaryEntryResponse `json:"buckets"`
	UpdatedAt  time.Time                         `json:"updated_at"`
}

// RebuildSummaryRequest represents the request body for a full summary rebuild.
type RebuildSummaryRequest struct {
	OwnerID    string `json:"owner_id" binding:"required,uuid"`
	OwnerType  string `json:"owner_type" binding:"required,oneof=user group"`
	PeriodType string `json:"period_type" binding:"required,oneof=week month year"`
}

// RebuildResultResponse represents the outcome of a full summary rebuild.
type RebuildResultResponse struct {
	BucketsRecomputed int      `json:"buckets_recomputed"`
	Errors            []string `json:"errors,omitempty"`
}

// ToSummaryResponse converts a domain Summary entity to a SummaryResponse DTO.
func ToSummaryResponse(summary *entity.Summary) SummaryResponse {
	buckets := make(map[string][]SummaryEntryResponse, len(summary.Buckets))
	for key, entries := range summary.Buckets {
		converted := make([]SummaryEntryResponse, len(entries))
		for i, e := range entries {
			converted[i] = SummaryEntryResponse{
				PeriodID:                  e.PeriodID,
				ObligationID:              e.ObligationID.String(),
				MerchantName:              e.MerchantName,
				Description:               e.Description,
				Status:                    string(e.Status),
				NumberOfOccurrences:       e.NumberOfOccurrences,
				NumberOfOccurrencesPaid:   e.NumberOfOccurrencesPaid,
				NumberOfOccurrencesUnpaid: e.NumberOfOccurrencesUnpaid,
				TotalAmountDue:            e.TotalAmountDue.StringFixed(2),
				TotalAmountPaid:           e.TotalAmountPaid.StringFixed(2),
				TotalAmountUnpaid:         e.TotalAmountUnpaid.StringFixed(2),
			}
		}
		buckets[key] = converted
	}

	return SummaryResponse{
		ID:         summary.ID,
		OwnerID:    summary.OwnerID.String(),
		OwnerType:  string(summary.OwnerType),
		PeriodType: string(summary.PeriodType),
		Buckets:    buckets,
		UpdatedAt:  summary.UpdatedAt,
	}
}

// ToRebuildResultResponse converts a RebuildResult to its DTO.
func ToRebuildResultResponse(result *valueobject.RebuildResult) RebuildResultResponse {
	return RebuildResultResponse{
		BucketsRecomputed: result.BucketsRecomputed,
		Errors:            result.Errors,
	}
}
