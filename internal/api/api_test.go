package api

import (
	"context"
	"testing"
	"time"

	"github.com/earngage/backend/internal/config"
	"github.com/earngage/backend/internal/events"
	"github.com/earngage/backend/internal/models"
	"github.com/earngage/backend/internal/rowstore/memory"
	"github.com/earngage/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:         "test-secret",
		JWTExpiration:     time.Hour,
		BCryptCost:        4,
		RecommendationMin: 5,
	}
}

func TestNewDefaults(t *testing.T) {
	store := memory.New()
	a := New(Deps{Store: store, Config: testConfig()})

	assert.NotNil(t, a.Auth)
	assert.NotNil(t, a.Users)
	assert.NotNil(t, a.Campaigns)
	assert.NotNil(t, a.Applications)
	assert.NotNil(t, a.Analytics)
	assert.NotNil(t, a.Notifications)
	assert.NotNil(t, a.Metrics)
	assert.Same(t, store, a.Rows)
}

// Full marketplace round trip through the facade with the in-process bus
// feeding notifications.
func TestMarketplaceFlow(t *testing.T) {
	ctx := context.Background()
	bus := events.NewLocalBus()
	a := New(Deps{Store: memory.New(), Config: testConfig(), Log: zap.NewNop(), Publisher: bus})

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	for _, stream := range []string{events.StreamApplications, events.StreamCampaigns} {
		require.NoError(t, bus.Subscribe(subCtx, stream, func(e events.Event) {
			_ = a.Notifications.HandleEvent(ctx, e)
		}))
	}

	brand, err := a.Auth.Register(ctx, services.RegisterInput{
		Email: "Brand@Example.com", Password: "brandpass1", UserType: models.UserTypeBrand, CompanyName: "Acme",
	})
	require.NoError(t, err)
	assert.Equal(t, "brand@example.com", brand.User.Email)

	creator, err := a.Auth.Register(ctx, services.RegisterInput{
		Email: "creator@example.com", Password: "creatorpass1", UserType: models.UserTypeCreator, DisplayName: "Cleo",
	})
	require.NoError(t, err)

	campaign := &models.Campaign{
		BrandUserID:  brand.User.ID,
		Title:        "Summer",
		Description:  "Summer launch",
		Requirements: "1 post",
		Budget:       1000,
		Category:     "lifestyle",
	}
	require.NoError(t, a.Campaigns.Create(ctx, campaign))
	_, err = a.Campaigns.ChangeStatus(ctx, campaign.ID, models.CampaignStatusActive)
	require.NoError(t, err)

	app := &models.Application{CampaignID: campaign.ID, CreatorUserID: creator.User.ID, Proposal: "I will post"}
	require.NoError(t, a.Applications.Create(ctx, app))
	assert.Equal(t, models.ApplicationStatusPending, app.Status)

	_, err = a.Applications.ChangeStatus(ctx, app.ID, models.ApplicationStatusApproved, nil)
	require.NoError(t, err)

	brandUnread, err := a.Notifications.UnreadCount(ctx, brand.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, brandUnread)

	creatorNotes, err := a.Notifications.ListForUser(ctx, creator.User.ID, false, 1, 20)
	require.NoError(t, err)
	require.Len(t, creatorNotes, 1)
	assert.Equal(t, "Application approved", creatorNotes[0].Title)

	stats, err := a.Users.GetUserStats(ctx, creator.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalApplications)
	assert.Equal(t, 1, stats.ApprovedApplications)

	require.NoError(t, a.Auth.Logout(ctx, brand.Token))
	_, err = a.Auth.ValidateToken(ctx, brand.Token)
	assert.Error(t, err)
}
