package models

import "time"

// Notification types
const (
	NotificationApplicationReceived = "application_received"
	NotificationApplicationStatus   = "application_status"
	NotificationCampaignStatus      = "campaign_status"
)

type Notification struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId" validate:"required"`
	Type      string         `json:"type" validate:"required"`
	Title     string         `json:"title" validate:"required"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	IsRead    bool           `json:"isRead"`
	CreatedAt time.Time      `json:"createdAt"`
	ReadAt    *time.Time     `json:"readAt,omitempty"`
}
