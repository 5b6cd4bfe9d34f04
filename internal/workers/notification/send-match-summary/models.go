// internal/workers/notification/send-match-summary/models.go
package sendmatchsummary

import "matching-workers/internal/models"

type Input struct {
	RecipientEmail  string                          `json:"recipientEmail" validate:"omitempty,email"`
	RecipientPhone  string                          `json:"recipientPhone"`
	ContractorMatch *models.ContractorMatchResponse `json:"contractorMatch"`
	SubsidyMatch    *models.SubsidyMatchResponse    `json:"subsidyMatch"`
}

type Output struct {
	NotificationID string            `json:"notificationId"`
	Status         string            `json:"status"` // sent, failed, disabled, skipped
	SentAt         string            `json:"sentAt"`
	Deliveries     []models.Delivery `json:"deliveries"`
}
