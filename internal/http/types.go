package http

import (
	"encoding/json"
	"time"

	"designlift/internal/model"
	"designlift/internal/policy"
	"designlift/internal/services"
)

// ExtractRequest is the body of POST /v1/extract.
type ExtractRequest struct {
	URL       string            `json:"url"`
	Prompt    string            `json:"prompt,omitempty"`
	ProjectID string            `json:"projectId,omitempty"`
	Tier      string            `json:"tier,omitempty"`
	Overrides *policy.Overrides `json:"overrides,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
	// Timeout is the page fetch timeout in milliseconds.
	Timeout  *int             `json:"timeout,omitempty"`
	Location *LocationOptions `json:"location,omitempty"`
}

// LocationOptions describes geo-related options for fetching.
type LocationOptions struct {
	Country   string   `json:"country,omitempty"`
	Languages []string `json:"languages,omitempty"`
}

// ExtractResponse wraps a finished extraction.
type ExtractResponse struct {
	Success bool                    `json:"success"`
	Data    *model.ExtractionResult `json:"data"`
}

// TierRequest is the body of POST /v1/tier.
type TierRequest struct {
	Prompt    string            `json:"prompt"`
	Tier      string            `json:"tier,omitempty"`
	Overrides *policy.Overrides `json:"overrides,omitempty"`
}

type TierResponse struct {
	Success bool                  `json:"success"`
	Data    *services.TierPreview `json:"data"`
}

// ExtractionRecord is a stored run as returned by GET /v1/extractions/:id.
// Result is the stored ExtractionResult, passed through as JSON.
type ExtractionRecord struct {
	ID        string          `json:"id"`
	URL       string          `json:"url"`
	ProjectID string          `json:"projectId"`
	Tier      string          `json:"tier"`
	Status    string          `json:"status"`
	Error     string          `json:"error,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type ExtractionRecordResponse struct {
	Success bool             `json:"success"`
	Data    ExtractionRecord `json:"data"`
}

type AssetListResponse struct {
	Success bool          `json:"success"`
	Data    []model.Asset `json:"data"`
}

// ErrorResponse is the error envelope of every endpoint.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Code    string      `json:"code,omitempty"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// FetchFailureDetails explains a FETCH_FAILED error.
type FetchFailureDetails struct {
	URL    string `json:"url"`
	Status int    `json:"status,omitempty"`
	Reason string `json:"reason"`
}
