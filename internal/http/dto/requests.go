package dto

import (
	"time"

	"github.com/earngage/backend/internal/models"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Campaigns

type CreateCampaignRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Requirements string     `json:"requirements"`
	Budget       float64    `json:"budget"`
	Category     string     `json:"category,omitempty"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	Status       string     `json:"status,omitempty"` // пусто = draft
}

// Campaign takes the owner from the session, never from the body.
func (r CreateCampaignRequest) Campaign(brandUserID string) *models.Campaign {
	return &models.Campaign{
		BrandUserID:  brandUserID,
		Title:        r.Title,
		Description:  r.Description,
		Requirements: r.Requirements,
		Budget:       r.Budget,
		Category:     r.Category,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		Status:       r.Status,
	}
}

type ChangeStatusRequest struct {
	Status   string  `json:"status"`
	Feedback *string `json:"feedback,omitempty"`
}

// Applications

type CreateApplicationRequest struct {
	CampaignID string   `json:"campaignId"`
	Proposal   string   `json:"proposal"`
	Price      *float64 `json:"price,omitempty"`
}

type RecordEventRequest struct {
	EventType   string         `json:"eventType"`
	CampaignID  string         `json:"campaignId,omitempty"`
	ProfileID   string         `json:"profileId,omitempty"`
	ProfileType string         `json:"profileType,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}
