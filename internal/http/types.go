package http

import (
	"wamigrate/internal/blocks"
	"wamigrate/internal/model"
)

// ErrorResponse is the uniform error body for every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Error   string `json:"error"`
}

// ConvertRequest converts one HTML snippet. Location, when set, is the
// source class attribute and enables widget detection on the snippet.
type ConvertRequest struct {
	HTML     string `json:"html"`
	Location string `json:"location,omitempty"`
}

// CreateProjectRequest creates a migration project from a crawl report.
// Every page in the report is converted before the project is stored.
type CreateProjectRequest struct {
	Name   string            `json:"name"`
	Report model.CrawlReport `json:"report"`
}

// UpdateStatusRequest moves one page through the review workflow.
type UpdateStatusRequest struct {
	Status     string `json:"status"`
	ReviewedBy string `json:"reviewedBy,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// EditBlocksRequest replaces a page's converted blocks with an edited set.
type EditBlocksRequest struct {
	Blocks []blocks.Block `json:"blocks"`
}
