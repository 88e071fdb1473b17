package services

import (
	"context"
	"testing"

	"github.com/earngage/backend/internal/apperr"
	"github.com/earngage/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfilesByType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addCreator(t, "c1", "tech")
	f.addBrand(t, "b1", "Acme")
	f.addUser(t, "c2", models.UserTypeCreator)

	creator, err := f.Users.GetCreatorProfile(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1@example.com", creator.Email)
	assert.Equal(t, []string{"tech"}, creator.Categories)

	_, err = f.Users.GetCreatorProfile(ctx, "b1")
	assert.True(t, apperr.IsNotFound(err))
	_, err = f.Users.GetCreatorProfile(ctx, "c2")
	assert.True(t, apperr.IsNotFound(err))
	assert.ErrorContains(t, err, "Creator profile not found")

	brand, err := f.Users.GetBrandProfile(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", brand.CompanyName)

	profile, err := f.Users.GetUserProfile(ctx, "b1")
	require.NoError(t, err)
	assert.Nil(t, profile.Creator)
	require.NotNil(t, profile.Brand)
	assert.Empty(t, profile.User.PasswordHash)
}

func TestCreateProfileOncePerUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addCreator(t, "c1")

	err := f.Users.CreateCreatorProfile(ctx, &models.CreatorProfile{UserID: "c1"})
	assert.True(t, apperr.IsDuplicate(err))

	err = f.Users.CreateBrandProfile(ctx, &models.BrandProfile{UserID: "c1"})
	assert.True(t, apperr.IsNotFound(err))
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addCreator(t, "c1", "tech")
	f.addBrand(t, "b1", "Acme")

	got, err := f.Users.UpdateProfile(ctx, "c1", models.ProfileUpdate{
		DisplayName:   ptr("Neo"),
		FollowerCount: ptr(1200),
		CompanyName:   ptr("ignored"),
	})
	require.NoError(t, err)
	require.NotNil(t, got.Creator)
	assert.Equal(t, "Neo", got.Creator.DisplayName)
	assert.Equal(t, 1200, got.Creator.FollowerCount)
	assert.Equal(t, []string{"tech"}, got.Creator.Categories)

	got, err = f.Users.UpdateProfile(ctx, "b1", models.ProfileUpdate{Industry: ptr("retail")})
	require.NoError(t, err)
	require.NotNil(t, got.Brand)
	assert.Equal(t, "retail", got.Brand.Industry)
	assert.Equal(t, "Acme", got.Brand.CompanyName)

	_, err = f.Users.UpdateProfile(ctx, "b1", models.ProfileUpdate{Website: ptr("not a url")})
	assert.True(t, apperr.IsValidation(err))
}

func TestSearchUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addCreator(t, "c1", "tech", "gaming")
	f.addCreator(t, "c2", "food")
	f.addCreator(t, "c3", "travel")
	_, err := f.Users.UpdateProfile(ctx, "c2", models.ProfileUpdate{FollowerCount: ptr(5000)})
	require.NoError(t, err)
	f.addBrand(t, "b1", "Acme Corp")
	f.addBrand(t, "b2", "Globex")

	res, err := f.Users.SearchUsers(ctx, UserSearch{UserType: models.UserTypeCreator, Categories: []string{"gaming", "food"}})
	require.NoError(t, err)
	ids := []string{}
	for _, c := range res.Creators {
		ids = append(ids, c.UserID)
	}
	assert.ElementsMatch(t, []string{"c1", "c2"}, ids)

	res, err = f.Users.SearchUsers(ctx, UserSearch{UserType: models.UserTypeCreator, MinFollowers: ptr(1000)})
	require.NoError(t, err)
	require.Len(t, res.Creators, 1)
	assert.Equal(t, "c2", res.Creators[0].UserID)
	assert.Equal(t, "c2@example.com", res.Creators[0].Email)

	res, err = f.Users.SearchUsers(ctx, UserSearch{UserType: models.UserTypeBrand, SearchTerm: "acme"})
	require.NoError(t, err)
	require.Len(t, res.Brands, 1)
	assert.Equal(t, "b1", res.Brands[0].UserID)

	_, err = f.Users.SearchUsers(ctx, UserSearch{UserType: "alien"})
	assert.True(t, apperr.IsValidation(err))
}

func TestGetAllCreatorsPaginates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, id := range []string{"c1", "c2", "c3"} {
		f.addCreator(t, id)
	}

	page1, err := f.Users.GetAllCreators(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page1, 2)
	page2, err := f.Users.GetAllCreators(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page2, 1)

	brands, err := f.Users.GetAllBrands(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, brands)
}

func TestGetUserStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addBrand(t, "b1", "Acme")
	f.addUser(t, "c1", models.UserTypeCreator)
	c1 := f.addCampaign(t, "b1", "One", "", models.CampaignStatusActive)
	c2 := f.addCampaign(t, "b1", "Two", "", "")

	a := &models.Application{CampaignID: c1.ID, CreatorUserID: "c1", Proposal: "P"}
	require.NoError(t, f.Applications.Create(ctx, a))
	require.NoError(t, f.Applications.Create(ctx, &models.Application{CampaignID: c2.ID, CreatorUserID: "c1", Proposal: "P"}))
	_, err := f.Applications.ChangeStatus(ctx, a.ID, models.ApplicationStatusApproved, nil)
	require.NoError(t, err)

	brand, err := f.Users.GetUserStats(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, 2, brand.TotalCampaigns)
	assert.Equal(t, 1, brand.ActiveCampaigns)
	assert.Equal(t, 2, brand.TotalApplicationsReceived)

	creator, err := f.Users.GetUserStats(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, creator.TotalApplications)
	assert.Equal(t, 1, creator.ApprovedApplications)
	assert.Zero(t, creator.CompletedApplications)

	_, err = f.Users.GetUserStats(ctx, "ghost")
	assert.True(t, apperr.IsNotFound(err))
}
