package models

import "time"

// Application statuses
const (
	ApplicationStatusPending   = "pending"
	ApplicationStatusApproved  = "approved"
	ApplicationStatusRejected  = "rejected"
	ApplicationStatusCompleted = "completed"
)

var ApplicationStatuses = []string{
	ApplicationStatusPending, ApplicationStatusApproved, ApplicationStatusRejected, ApplicationStatusCompleted,
}

// Valid status changes: from -> []to.
// A rejected application can only be reopened; completed is terminal.
var ValidApplicationTransitions = map[string][]string{
	ApplicationStatusPending:   ApplicationStatuses,
	ApplicationStatusApproved:  ApplicationStatuses,
	ApplicationStatusRejected:  {ApplicationStatusPending},
	ApplicationStatusCompleted: {},
}

func IsValidApplicationStatus(status string) bool {
	return contains(ApplicationStatuses, status)
}

func IsValidApplicationTransition(from, to string) bool {
	allowed, ok := ValidApplicationTransitions[from]
	if !ok {
		return false
	}
	return contains(allowed, to)
}

type Application struct {
	ID            string    `json:"id"`
	CampaignID    string    `json:"campaignId" validate:"required"`
	CreatorUserID string    `json:"creatorUserId" validate:"required"`
	Proposal      string    `json:"proposal" validate:"required"`
	Price         *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	Status        string    `json:"status"`
	Feedback      string    `json:"feedback,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type ApplicationUpdate struct {
	Proposal *string  `json:"proposal,omitempty" validate:"omitempty,min=1"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Feedback *string  `json:"feedback,omitempty"`
}

// ApplicationWithCreator is an application joined with the applicant's profile.
type ApplicationWithCreator struct {
	Application
	Creator *CreatorProfileView `json:"creator,omitempty"`
}

// ApplicationWithCampaign is an application joined with its campaign and the campaign's brand.
type ApplicationWithCampaign struct {
	Application
	Campaign *Campaign     `json:"campaign,omitempty"`
	Brand    *BrandProfile `json:"brandProfile,omitempty"`
}

type ApplicationAnalytics struct {
	CampaignID   string         `json:"campaignId,omitempty"`
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"byStatus"`
	AveragePrice float64        `json:"averagePrice"`
}
