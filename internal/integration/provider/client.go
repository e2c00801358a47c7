// Package provider implements the bank-data provider client.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/billflow/backend/internal/application/adapter"
)

// Client implements the adapter.RecurringProvider interface against the
// provider's recurring-transactions HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new provider client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// recurringStreamsResponse mirrors the provider's wire format.
type recurringStreamsResponse struct {
	Outflows []streamPayload `json:"outflow_streams"`
	Inflows  []streamPayload `json:"inflow_streams"`
}

type streamPayload struct {
	StreamID          string   `json:"stream_id"`
	MerchantName      string   `json:"merchant_name"`
	Description       string   `json:"description"`
	Category          []string `json:"personal_finance_category"`
	Frequency         string   `json:"frequency"`
	AverageAmount     string   `json:"average_amount"`
	FirstDate         string   `json:"first_date"`
	LastDate          string   `json:"last_date"`
	PredictedNextDate string   `json:"predicted_next_date"`
	IsActive          bool     `json:"is_active"`
	TransactionIDs    []string `json:"transaction_ids"`
}

// ListRecurringStreams fetches all recurring streams for an access token.
func (c *Client) ListRecurringStreams(ctx context.Context, accessToken string) ([]adapter.RecurringStream, error) {
	body, err := json.Marshal(map[string]string{"access_token": accessToken})
	if err != nil {
		return nil, fmt.Errorf("encode provider request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/transactions/recurring/get", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var payload recurringStreamsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}

	streams := make([]adapter.RecurringStream, 0, len(payload.Outflows)+len(payload.Inflows))
	for _, s := range payload.Outflows {
		stream, err := toStream(s, false)
		if err != nil {
			return nil, err
		}
		streams = append(streams, stream)
	}
	for _, s := range payload.Inflows {
		stream, err := toStream(s, true)
		if err != nil {
			return nil, err
		}
		streams = append(streams, stream)
	}
	return streams, nil
}

func toStream(p streamPayload, isIncome bool) (adapter.RecurringStream, error) {
	amount, err := decimal.NewFromString(p.AverageAmount)
	if err != nil {
		return adapter.RecurringStream{}, fmt.Errorf("stream %s: parse amount %q: %w", p.StreamID, p.AverageAmount, err)
	}

	firstDate, err := parseDate(p.FirstDate)
	if err != nil {
		return adapter.RecurringStream{}, fmt.Errorf("stream %s: %w", p.StreamID, err)
	}
	lastDate, err := parseDate(p.LastDate)
	if err != nil {
		return adapter.RecurringStream{}, fmt.Errorf("stream %s: %w", p.StreamID, err)
	}

	var predicted *time.Time
	if p.PredictedNextDate != "" {
		parsed, err := parseDate(p.PredictedNextDate)
		if err != nil {
			return adapter.RecurringStream{}, fmt.Errorf("stream %s: %w", p.StreamID, err)
		}
		predicted = &parsed
	}

	category := ""
	if len(p.Category) > 0 {
		category = p.Category[0]
	}

	return adapter.RecurringStream{
		StreamID:          p.StreamID,
		MerchantName:      p.MerchantName,
		Description:       p.Description,
		Category:          category,
		IsIncome:          isIncome,
		Amount:            amount,
		Cadence:           p.Frequency,
		FirstDate:         firstDate,
		LastDate:          lastDate,
		PredictedNextDate: predicted,
		IsActive:          p.IsActive,
		TransactionIDs:    p.TransactionIDs,
	}, nil
}

func parseDate(raw string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return parsed, nil
}
