// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"github.com/billflow/backend/internal/domain/entity"
	"github.com/billflow/backend/internal/domain/valueobject"
)

// OccurrenceResponse represents one occurrence inside a period response.
type OccurrenceResponse struct {
	ID            string  `json:"id"`
	Index         int     `json:"index"`
	DueDate       string  `json:"due_date"`
	DrawDate      string  `json:"draw_date"`
	AmountDue     string  `json:"amount_due"`
	Status        string  `json:"status"`
	TransactionID *string `json:"transaction_id,omitempty"`
	AmountPaid    string  `json:"amount_paid"`
	PaymentType   string  `json:"payment_type,omitempty"`
}

// PeriodResponse represents a single period in API responses.
type PeriodResponse struct {
	ID             string `json:"id"`
	ObligationID   string `json:"obligation_id"`
	SourcePeriodID string `json:"source_period_id"`
	PeriodType     string `json:"period_type"`
	MerchantName   string `json:"merchant_name"`
	Description    string `json:"description,omitempty"`
	Cadence        string `json:"cadence"`

	AmountPerOccurrence string `json:"amount_per_occurrence"`
	ProratedAmount      string `json:"prorated_amount"`
	DueInPeriod         bool   `json:"due_in_period"`

	Occurrences []OccurrenceResponse `json:"occurrences"`

	NumberOfOccurrences       int `json:"number_of_occurrences"`
	NumberOfOccurrencesPaid   int `json:"number_of_occurrences_paid"`
	NumberOfOccurrencesUnpaid int `json:"number_of_occurrences_unpaid"`

	TotalAmountDue    string `json:"total_amount_due"`
	TotalAmountPaid   string `json:"total_amount_paid"`
	TotalAmountUnpaid string `json:"total_amount_unpaid"`

	Status string `json:"status"`
	State  string `json:"state"`
}

// PeriodListResponse represents the response for listing an obligation's periods.
type PeriodListResponse struct {
	Periods []PeriodResponse `json:"periods"`
}

// RecomputeResultResponse represents the outcome of a materialization,
// re-match, or update cascade.
type RecomputeResultResponse struct {
	PeriodsQueried int      `json:"periods_queried"`
	PeriodsWritten int      `json:"periods_written"`
	PeriodsSkipped int      `json:"periods_skipped"`
	PeriodIDs      []string `json:"period_ids,omitempty"`
	Errors         []string `json:"errors,omitempty"`
}

// ToPeriodResponse converts a domain Period entity to a PeriodResponse DTO.
func ToPeriodResponse(p *entity.Period) PeriodResponse {
	occurrences := make([]OccurrenceResponse, len(p.Occurrences))
	for i, o := range p.Occurrences {
		occurrences[i] = OccurrenceResponse{
			ID:            o.ID,
			Index:         o.Index,
			DueDate:       o.DueDate.Format("2006-01-02"),
			DrawDate:      o.DrawDate.Format("2006-01-02"),
			AmountDue:     o.AmountDue.StringFixed(2),
			Status:        string(o.Status),
			TransactionID: o.TransactionID,
			AmountPaid:    o.AmountPaid.StringFixed(2),
			PaymentType:   string(o.PaymentType),
		}
	}

	return PeriodResponse{
		ID:                        p.ID,
		ObligationID:              p.ObligationID.String(),
		SourcePeriodID:            p.SourcePeriodID,
		PeriodType:                string(p.PeriodType),
		MerchantName:              p.MerchantName,
		Description:               p.Description,
		Cadence:                   string(p.Cadence),
		AmountPerOccurrence:       p.AmountPerOccurrence.StringFixed(2),
		ProratedAmount:            p.ProratedAmount.StringFixed(2),
		DueInPeriod:               p.DueInPeriod,
		Occurrences:               occurrences,
		NumberOfOccurrences:       p.NumberOfOccurrences,
		NumberOfOccurrencesPaid:   p.NumberOfOccurrencesPaid,
		NumberOfOccurrencesUnpaid: p.NumberOfOccurrencesUnpaid,
		TotalAmountDue:            p.TotalAmountDue.StringFixed(2),
		TotalAmountPaid:           p.TotalAmountPaid.StringFixed(2),
		TotalAmountUnpaid:         p.TotalAmountUnpaid.StringFixed(2),
		Status:                    string(p.Status),
		State:                     string(p.State),
	}
}

// ToPeriodListResponse converts a list of periods to a PeriodListResponse.
func ToPeriodListResponse(periods []*entity.Period) PeriodListResponse {
	responses := make([]PeriodResponse, len(periods))
	for i, p := range periods {
		responses[i] = ToPeriodResponse(p)
	}
	return PeriodListResponse{
		Periods: responses,
	}
}

// ToRecomputeResultResponse converts a MaterializationResult to its DTO.
func ToRecomputeResultResponse(result *valueobject.MaterializationResult) RecomputeResultResponse {
	return RecomputeResultResponse{
		PeriodsQueried: result.PeriodsQueried,
		PeriodsWritten: result.PeriodsWritten,
		PeriodsSkipped: result.PeriodsSkipped,
		PeriodIDs:      result.PeriodIDs,
		Errors:         result.Errors,
	}
}
