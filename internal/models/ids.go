package models

import (
	"strings"

	"github.com/google/uuid"
)

// ID prefixes per table
const (
	PrefixUser           = "usr-"
	PrefixCreatorProfile = "crp-"
	PrefixBrandProfile   = "brp-"
	PrefixCampaign       = "cmp-"
	PrefixApplication    = "app-"
	PrefixAnalytics      = "anl-"
	PrefixNotification   = "not-"
)

// NewID returns prefix followed by the first 8 hex chars of a random UUID.
func NewID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
