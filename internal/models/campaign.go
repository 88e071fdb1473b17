package models

import "time"

// Campaign statuses
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusCompleted = "completed"
	CampaignStatusCancelled = "cancelled"
)

var CampaignStatuses = []string{
	CampaignStatusDraft, CampaignStatusActive, CampaignStatusCompleted, CampaignStatusCancelled,
}

// IsValidCampaignStatus only checks membership: campaigns have no transition guard.
func IsValidCampaignStatus(status string) bool {
	return contains(CampaignStatuses, status)
}

type Campaign struct {
	ID           string     `json:"id"`
	BrandUserID  string     `json:"brandUserId" validate:"required"`
	Title        string     `json:"title" validate:"required"`
	Description  string     `json:"description" validate:"required"`
	Requirements string     `json:"requirements" validate:"required"`
	Budget       float64    `json:"budget" validate:"gt=0"`
	Status       string     `json:"status" validate:"omitempty,oneof=draft active completed cancelled"`
	Category     string     `json:"category,omitempty"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CampaignWithBrand attaches the owning brand's profile; Brand is nil when it could not be loaded.
type CampaignWithBrand struct {
	Campaign
	Brand *BrandProfile `json:"brandProfile,omitempty"`
}

type CampaignUpdate struct {
	Title        *string    `json:"title,omitempty" validate:"omitempty,min=1"`
	Description  *string    `json:"description,omitempty" validate:"omitempty,min=1"`
	Requirements *string    `json:"requirements,omitempty" validate:"omitempty,min=1"`
	Budget       *float64   `json:"budget,omitempty" validate:"omitempty,gt=0"`
	Category     *string    `json:"category,omitempty"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	Status       *string    `json:"status,omitempty" validate:"omitempty,oneof=draft active completed cancelled"`
}

// CampaignSearch holds the optional criteria of a campaign search.
type CampaignSearch struct {
	Title     string     `json:"title,omitempty"`
	Category  string     `json:"category,omitempty"`
	MinBudget *float64   `json:"minBudget,omitempty"`
	MaxBudget *float64   `json:"maxBudget,omitempty"`
	Status    string     `json:"status,omitempty" validate:"omitempty,oneof=draft active completed cancelled"`
	StartFrom *time.Time `json:"startFrom,omitempty"`
	StartTo   *time.Time `json:"startTo,omitempty"`
}

type CampaignStats struct {
	CampaignID           string         `json:"campaignId"`
	TotalApplications    int            `json:"totalApplications"`
	ApplicationsByStatus map[string]int `json:"applicationsByStatus"`
	TotalViews           int            `json:"totalViews"`
	UniqueViewers        int            `json:"uniqueViewers"`
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
