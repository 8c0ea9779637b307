package dto

import "time"

// WebhookAck acknowledges a processed payment callback.
type WebhookAck struct {
	Success bool   `json:"success"`
	Status  string `json:"status,omitempty"`
}

// CleanupResponse reports a cron cleanup run.
type CleanupResponse struct {
	Success      bool      `json:"success"`
	DeletedCount int       `json:"deletedCount"`
	Timestamp    time.Time `json:"timestamp"`
}

// ErrorResponse carries a failure message for data-integrity paths.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
