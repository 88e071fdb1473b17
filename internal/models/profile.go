package models

import "time"

type PortfolioItem struct {
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

type CreatorProfile struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId" validate:"required"`
	DisplayName      string          `json:"displayName"`
	Bio              string          `json:"bio,omitempty"`
	Categories       []string        `json:"categories,omitempty"`
	Niches           []string        `json:"niches,omitempty"`
	SocialMedia      map[string]any  `json:"socialMedia,omitempty"`
	Demographics     map[string]any  `json:"demographics,omitempty"`
	Metrics          map[string]any  `json:"metrics,omitempty"`
	PortfolioItems   []PortfolioItem `json:"portfolioItems,omitempty"`
	FollowerCount    int             `json:"followerCount"`
	EngagementRate   float64         `json:"engagementRate"`
	MetricsUpdatedAt *time.Time      `json:"metricsUpdatedAt,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// TelegramHandle returns socialMedia.telegram without a leading @ or t.me prefix.
func (p CreatorProfile) TelegramHandle() string {
	raw, _ := p.SocialMedia["telegram"].(string)
	return normalizeHandle(raw)
}

type BrandProfile struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId" validate:"required"`
	CompanyName string         `json:"companyName"`
	Bio         string         `json:"bio,omitempty"`
	Industry    string         `json:"industry,omitempty"`
	CompanySize string         `json:"companySize,omitempty"`
	Website     string         `json:"website,omitempty" validate:"omitempty,url"`
	SocialMedia map[string]any `json:"socialMedia,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// CreatorProfileView is a creator profile joined with its user's email and type.
type CreatorProfileView struct {
	CreatorProfile
	Email    string `json:"email,omitempty"`
	UserType string `json:"userType,omitempty"`
}

type BrandProfileView struct {
	BrandProfile
	Email    string `json:"email,omitempty"`
	UserType string `json:"userType,omitempty"`
}

// ProfileUpdate is a partial update for either profile type. Nil fields are left untouched.
type ProfileUpdate struct {
	DisplayName    *string          `json:"displayName,omitempty"`
	CompanyName    *string          `json:"companyName,omitempty"`
	Bio            *string          `json:"bio,omitempty"`
	Categories     []string         `json:"categories,omitempty"`
	Niches         []string         `json:"niches,omitempty"`
	Industry       *string          `json:"industry,omitempty"`
	CompanySize    *string          `json:"companySize,omitempty"`
	Website        *string          `json:"website,omitempty" validate:"omitempty,url"`
	SocialMedia    map[string]any   `json:"socialMedia,omitempty"`
	Demographics   map[string]any   `json:"demographics,omitempty"`
	Metrics        map[string]any   `json:"metrics,omitempty"`
	PortfolioItems *[]PortfolioItem `json:"portfolioItems,omitempty"`
	FollowerCount  *int             `json:"followerCount,omitempty" validate:"omitempty,gte=0"`
	EngagementRate *float64         `json:"engagementRate,omitempty" validate:"omitempty,gte=0"`
}
