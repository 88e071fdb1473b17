package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/earngage/backend/internal/apperr"
	"github.com/earngage/backend/internal/models"
	"github.com/earngage/backend/internal/rowstore"
	"github.com/earngage/backend/internal/rowstore/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewCampaignRepo(memory.New())

	now := time.Now().UTC().Truncate(time.Millisecond)
	c := &models.Campaign{
		ID: "cmp-1", BrandUserID: "usr-b", Title: "T", Description: "D",
		Requirements: "R", Budget: 100, Status: models.CampaignStatusDraft,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.GetByID(ctx, "cmp-1")
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
	assert.True(t, got.CreatedAt.Equal(now))

	updated, err := repo.Update(ctx, "cmp-1", rowstore.Row{"status": models.CampaignStatusActive})
	require.NoError(t, err)
	assert.Equal(t, models.CampaignStatusActive, updated.Status)
	assert.Equal(t, 100.0, updated.Budget)

	require.NoError(t, repo.Delete(ctx, "cmp-1"))
	_, err = repo.GetByID(ctx, "cmp-1")
	assert.True(t, apperr.IsNotFound(err))
}

func TestBatchLookups(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	users := NewUserRepo(store)
	profiles := NewCreatorProfileRepo(store)

	for _, id := range []string{"usr-1", "usr-2", "usr-3"} {
		require.NoError(t, users.Create(ctx, &models.User{ID: id, Email: id + "@x.io", UserType: models.UserTypeCreator}))
		require.NoError(t, profiles.Create(ctx, &models.CreatorProfile{ID: "crp-" + id, UserID: id, DisplayName: id}))
	}

	byID, err := users.GetByIDs(ctx, []string{"usr-1", "usr-3", "usr-3", "", "usr-404"})
	require.NoError(t, err)
	assert.Len(t, byID, 2)
	assert.Contains(t, byID, "usr-3")

	byUser, err := profiles.GetByUserIDs(ctx, []string{"usr-2"})
	require.NoError(t, err)
	assert.Equal(t, "usr-2", byUser["usr-2"].DisplayName)

	empty, err := profiles.GetByUserIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFirstReturnsNilWhenMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewApplicationRepo(memory.New())

	app, err := repo.FindByCreatorAndCampaign(ctx, "usr-1", "cmp-1")
	require.NoError(t, err)
	assert.Nil(t, app)

	require.NoError(t, repo.Create(ctx, &models.Application{
		ID: "app-1", CampaignID: "cmp-1", CreatorUserID: "usr-1", Proposal: "P", Status: models.ApplicationStatusPending,
	}))
	app, err = repo.FindByCreatorAndCampaign(ctx, "usr-1", "cmp-1")
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, "app-1", app.ID)
}

func TestUserRepoEmailLookupIsNormalised(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo(memory.New())
	require.NoError(t, repo.Create(ctx, &models.User{ID: "usr-1", Email: "jane@example.com", UserType: models.UserTypeBrand}))

	u, err := repo.GetByEmail(ctx, "  Jane@Example.com ")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "usr-1", u.ID)
}
