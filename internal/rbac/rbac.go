package rbac

import "github.com/earngage/backend/internal/models"

// Roles are user types.
const (
	RoleCreator = models.UserTypeCreator
	RoleBrand   = models.UserTypeBrand
	RoleAdmin   = models.UserTypeAdmin
)

// Permission constants
const (
	PermCreateCampaign        = "create_campaign"
	PermManageCampaign        = "manage_campaign"
	PermApply                 = "apply"
	PermReviewApplication     = "review_application"
	PermViewBrandAnalytics    = "view_brand_analytics"
	PermViewCreatorAnalytics  = "view_creator_analytics"
	PermViewPlatformAnalytics = "view_platform_analytics"
	PermRefreshMetrics        = "refresh_metrics"
)

// RolePermissions defines what each role can do.
var RolePermissions = map[string][]string{
	RoleCreator: {
		PermApply, PermViewCreatorAnalytics, PermRefreshMetrics,
	},
	RoleBrand: {
		PermCreateCampaign, PermManageCampaign, PermReviewApplication, PermViewBrandAnalytics,
	},
	RoleAdmin: {
		PermManageCampaign, PermReviewApplication, PermViewBrandAnalytics,
		PermViewCreatorAnalytics, PermViewPlatformAnalytics, PermRefreshMetrics,
		// admin does not apply or create campaigns on anyone's behalf
	},
}

func HasPermission(role, permission string) bool {
	perms, ok := RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}

// CanActFor reports whether role/userID may touch a resource owned by ownerID.
// Admins act for everyone.
func CanActFor(role, userID, ownerID string) bool {
	return role == RoleAdmin || (userID != "" && userID == ownerID)
}
