package models

import "time"

// User types
const (
	UserTypeCreator = "creator"
	UserTypeBrand   = "brand"
	UserTypeAdmin   = "admin"
)

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email" validate:"required,email"`
	UserType     string     `json:"userType" validate:"required,oneof=creator brand admin"`
	FirstName    string     `json:"firstName,omitempty"`
	LastName     string     `json:"lastName,omitempty"`
	PasswordHash string     `json:"passwordHash,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// Public strips the password hash before the user leaves the service layer.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// UserProfile is a user together with the profile matching its type.
type UserProfile struct {
	User    User            `json:"user"`
	Creator *CreatorProfile `json:"creatorProfile,omitempty"`
	Brand   *BrandProfile   `json:"brandProfile,omitempty"`
}

// UserStats holds the counters shown on a dashboard. Creator and brand fields are exclusive.
type UserStats struct {
	UserID                    string `json:"userId"`
	UserType                  string `json:"userType"`
	TotalApplications         int    `json:"totalApplications,omitempty"`
	ApprovedApplications      int    `json:"approvedApplications,omitempty"`
	CompletedApplications     int    `json:"completedApplications,omitempty"`
	TotalCampaigns            int    `json:"totalCampaigns,omitempty"`
	ActiveCampaigns           int    `json:"activeCampaigns,omitempty"`
	TotalApplicationsReceived int    `json:"totalApplicationsReceived,omitempty"`
}
