package models

import "time"

// Analytics event types
const (
	EventCampaignView        = "campaign_view"
	EventCampaignApplication = "campaign_application"
	EventProfileView         = "profile_view"
)

type AnalyticsEvent struct {
	ID          string         `json:"id"`
	EventType   string         `json:"eventType" validate:"required"`
	UserID      string         `json:"userId,omitempty"`
	CampaignID  string         `json:"campaignId,omitempty"`
	ProfileID   string         `json:"profileId,omitempty"`
	ProfileType string         `json:"profileType,omitempty" validate:"omitempty,oneof=creator brand"`
	Timestamp   time.Time      `json:"timestamp"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type CampaignViewAnalytics struct {
	CampaignID    string       `json:"campaignId"`
	TotalViews    int          `json:"totalViews"`
	UniqueViewers int          `json:"uniqueViewers"`
	ViewsOverTime []DailyCount `json:"viewsOverTime"`
}

type CampaignApplicationAnalytics struct {
	CampaignID           string         `json:"campaignId"`
	TotalApplications    int            `json:"totalApplications"`
	ApplicationsByStatus map[string]int `json:"applicationsByStatus"`
	ApplicationsOverTime []DailyCount   `json:"applicationsOverTime"`
	AveragePrice         float64        `json:"averagePrice"`
}

type CreatorAnalytics struct {
	CreatorUserID        string         `json:"creatorUserId"`
	TotalApplications    int            `json:"totalApplications"`
	ApplicationsByStatus map[string]int `json:"applicationsByStatus"`
	ProfileViews         int            `json:"profileViews"`
	SuccessRate          float64        `json:"successRate"`
}

type CampaignPerformance struct {
	CampaignID     string  `json:"campaignId"`
	Title          string  `json:"title"`
	Status         string  `json:"status"`
	Views          int     `json:"views"`
	Applications   int     `json:"applications"`
	ConversionRate float64 `json:"conversionRate"`
}

type BrandAnalytics struct {
	BrandUserID               string                `json:"brandUserId"`
	TotalCampaigns            int                   `json:"totalCampaigns"`
	CampaignsByStatus         map[string]int        `json:"campaignsByStatus"`
	ProfileViews              int                   `json:"profileViews"`
	TotalApplicationsReceived int                   `json:"totalApplicationsReceived"`
	ApplicationsByStatus      map[string]int        `json:"applicationsByStatus"`
	CampaignStats             []CampaignPerformance `json:"campaignStats"`
}

type PlatformAnalytics struct {
	TotalUsers           int            `json:"totalUsers"`
	TotalCreators        int            `json:"totalCreators"`
	TotalBrands          int            `json:"totalBrands"`
	TotalCampaigns       int            `json:"totalCampaigns"`
	TotalApplications    int            `json:"totalApplications"`
	UserGrowth           []DailyCount   `json:"userGrowth"`
	CumulativeUserGrowth []DailyCount   `json:"cumulativeUserGrowth"`
	CampaignGrowth       []DailyCount   `json:"campaignGrowth"`
	EventsByType         map[string]int `json:"eventsByType"`
}

// Conversion is num/den as a percentage, or 0 when den is 0.
func Conversion(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den) * 100
}
