package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/earngage/backend/internal/apperr"
	"github.com/earngage/backend/internal/models"
	"github.com/earngage/backend/internal/repositories"
	"github.com/earngage/backend/internal/rowstore"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type UserService struct {
	userRepo     *repositories.UserRepo
	creatorRepo  *repositories.CreatorProfileRepo
	brandRepo    *repositories.BrandProfileRepo
	campaignRepo *repositories.CampaignRepo
	appRepo      *repositories.ApplicationRepo
	log          *zap.Logger
}

func NewUserService(
	userRepo *repositories.UserRepo,
	creatorRepo *repositories.CreatorProfileRepo,
	brandRepo *repositories.BrandProfileRepo,
	campaignRepo *repositories.CampaignRepo,
	appRepo *repositories.ApplicationRepo,
	log *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:     userRepo,
		creatorRepo:  creatorRepo,
		brandRepo:    brandRepo,
		campaignRepo: campaignRepo,
		appRepo:      appRepo,
		log:          log,
	}
}

// userOfType loads a user and checks its type. A user of another type is reported as not found.
func (s *UserService) userOfType(ctx context.Context, userID, userType string) (*models.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	if u.UserType != userType {
		return nil, apperr.NotFound("%s profile not found", title(userType))
	}
	return u, nil
}

func (s *UserService) GetCreatorProfile(ctx context.Context, userID string) (*models.CreatorProfileView, error) {
	u, err := s.userOfType(ctx, userID, models.UserTypeCreator)
	if err != nil {
		return nil, err
	}
	p, err := s.creatorRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get creator profile: %w", err)
	}
	if p == nil {
		return nil, apperr.NotFound("Creator profile not found")
	}
	return &models.CreatorProfileView{CreatorProfile: *p, Email: u.Email, UserType: u.UserType}, nil
}

func (s *UserService) GetBrandProfile(ctx context.Context, userID string) (*models.BrandProfileView, error) {
	u, err := s.userOfType(ctx, userID, models.UserTypeBrand)
	if err != nil {
		return nil, err
	}
	p, err := s.brandRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get brand profile: %w", err)
	}
	if p == nil {
		return nil, apperr.NotFound("Brand profile not found")
	}
	return &models.BrandProfileView{BrandProfile: *p, Email: u.Email, UserType: u.UserType}, nil
}

// GetUserProfile returns the user and whichever profile its type has. The profile may be absent.
func (s *UserService) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}

	out := &models.UserProfile{User: u.Public()}
	switch u.UserType {
	case models.UserTypeCreator:
		out.Creator, err = s.creatorRepo.GetByUserID(ctx, userID)
	case models.UserTypeBrand:
		out.Brand, err = s.brandRepo.GetByUserID(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return out, nil
}

func (s *UserService) CreateCreatorProfile(ctx context.Context, p *models.CreatorProfile) error {
	if err := models.Validate(p); err != nil {
		return err
	}
	if _, err := s.userOfType(ctx, p.UserID, models.UserTypeCreator); err != nil {
		return err
	}
	existing, err := s.creatorRepo.GetByUserID(ctx, p.UserID)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperr.Duplicate("Creator profile already exists")
	}

	now := clock()
	p.ID = models.NewID(models.PrefixCreatorProfile)
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.creatorRepo.Create(ctx, p); err != nil {
		return fmt.Errorf("create creator profile: %w", err)
	}
	return nil
}

func (s *UserService) CreateBrandProfile(ctx context.Context, p *models.BrandProfile) error {
	if err := models.Validate(p); err != nil {
		return err
	}
	if _, err := s.userOfType(ctx, p.UserID, models.UserTypeBrand); err != nil {
		return err
	}
	existing, err := s.brandRepo.GetByUserID(ctx, p.UserID)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperr.Duplicate("Brand profile already exists")
	}

	now := clock()
	p.ID = models.NewID(models.PrefixBrandProfile)
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.brandRepo.Create(ctx, p); err != nil {
		return fmt.Errorf("create brand profile: %w", err)
	}
	return nil
}

// UpdateProfile applies upd to the profile matching the user's type.
// Fields that do not belong to that type are ignored.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.UserProfile, error) {
	if err := models.Validate(upd); err != nil {
		return nil, err
	}
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}

	out := &models.UserProfile{User: u.Public()}
	switch u.UserType {
	case models.UserTypeCreator:
		p, err := s.creatorRepo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, apperr.NotFound("Creator profile not found")
		}
		out.Creator, err = s.creatorRepo.Update(ctx, p.ID, creatorPatch(upd))
		if err != nil {
			return nil, fmt.Errorf("update creator profile: %w", err)
		}
	case models.UserTypeBrand:
		p, err := s.brandRepo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, apperr.NotFound("Brand profile not found")
		}
		out.Brand, err = s.brandRepo.Update(ctx, p.ID, brandPatch(upd))
		if err != nil {
			return nil, fmt.Errorf("update brand profile: %w", err)
		}
	default:
		return nil, apperr.Validation("Invalid user type")
	}
	return out, nil
}

func creatorPatch(upd models.ProfileUpdate) rowstore.Row {
	patch := rowstore.Row{"updatedAt": clock()}
	if upd.DisplayName != nil {
		patch["displayName"] = *upd.DisplayName
	}
	if upd.Bio != nil {
		patch["bio"] = *upd.Bio
	}
	if upd.Categories != nil {
		patch["categories"] = upd.Categories
	}
	if upd.Niches != nil {
		patch["niches"] = upd.Niches
	}
	if upd.SocialMedia != nil {
		patch["socialMedia"] = upd.SocialMedia
	}
	if upd.Demographics != nil {
		patch["demographics"] = upd.Demographics
	}
	if upd.Metrics != nil {
		patch["metrics"] = upd.Metrics
	}
	if upd.PortfolioItems != nil {
		patch["portfolioItems"] = *upd.PortfolioItems
	}
	if upd.FollowerCount != nil {
		patch["followerCount"] = *upd.FollowerCount
	}
	if upd.EngagementRate != nil {
		patch["engagementRate"] = *upd.EngagementRate
	}
	return patch
}

func brandPatch(upd models.ProfileUpdate) rowstore.Row {
	patch := rowstore.Row{"updatedAt": clock()}
	if upd.CompanyName != nil {
		patch["companyName"] = *upd.CompanyName
	}
	if upd.Bio != nil {
		patch["bio"] = *upd.Bio
	}
	if upd.Industry != nil {
		patch["industry"] = *upd.Industry
	}
	if upd.CompanySize != nil {
		patch["companySize"] = *upd.CompanySize
	}
	if upd.Website != nil {
		patch["website"] = *upd.Website
	}
	if upd.SocialMedia != nil {
		patch["socialMedia"] = upd.SocialMedia
	}
	return patch
}

// GetAllCreators lists creator profiles newest first, each joined with its user's email.
func (s *UserService) GetAllCreators(ctx context.Context, page, pageSize int) ([]models.CreatorProfileView, error) {
	profiles, err := s.creatorRepo.Query(ctx, nil, rowstore.QueryOptions{
		Page: pageOr(page), PageSize: pageSizeOr(pageSize), OrderBy: "createdAt", OrderDirection: "desc",
	})
	if err != nil {
		return nil, fmt.Errorf("list creators: %w", err)
	}
	return s.creatorViews(ctx, profiles), nil
}

func (s *UserService) GetAllBrands(ctx context.Context, page, pageSize int) ([]models.BrandProfileView, error) {
	profiles, err := s.brandRepo.Query(ctx, nil, rowstore.QueryOptions{
		Page: pageOr(page), PageSize: pageSizeOr(pageSize), OrderBy: "createdAt", OrderDirection: "desc",
	})
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	return s.brandViews(ctx, profiles), nil
}

// creatorViews joins profiles with their users in one query. A failed join leaves Email empty.
func (s *UserService) creatorViews(ctx context.Context, profiles []models.CreatorProfile) []models.CreatorProfileView {
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.log.Warn("creator enrichment failed", zap.Error(err))
	}

	out := make([]models.CreatorProfileView, 0, len(profiles))
	for _, p := range profiles {
		v := models.CreatorProfileView{CreatorProfile: p}
		if u, ok := users[p.UserID]; ok {
			v.Email = u.Email
			v.UserType = u.UserType
		}
		out = append(out, v)
	}
	return out
}

func (s *UserService) brandViews(ctx context.Context, profiles []models.BrandProfile) []models.BrandProfileView {
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.log.Warn("brand enrichment failed", zap.Error(err))
	}

	out := make([]models.BrandProfileView, 0, len(profiles))
	for _, p := range profiles {
		v := models.BrandProfileView{BrandProfile: p}
		if u, ok := users[p.UserID]; ok {
			v.Email = u.Email
			v.UserType = u.UserType
		}
		out = append(out, v)
	}
	return out
}

type UserSearch struct {
	UserType       string   `json:"userType" validate:"required,oneof=creator brand"`
	SearchTerm     string   `json:"searchTerm,omitempty"`
	Categories     []string `json:"categories,omitempty"`
	MinFollowers   *int     `json:"minFollowers,omitempty"`
	MaxFollowers   *int     `json:"maxFollowers,omitempty"`
	MinEngagement  *float64 `json:"minEngagement,omitempty"`
	Industry       string   `json:"industry,omitempty"`
	CompanySize    string   `json:"companySize,omitempty"`
	Page           int      `json:"page,omitempty"`
	PageSize       int      `json:"pageSize,omitempty"`
	OrderBy        string   `json:"orderBy,omitempty"`
	OrderDirection string   `json:"orderDirection,omitempty" validate:"omitempty,oneof=asc desc"`
}

type UserSearchResult struct {
	UserType string                      `json:"userType"`
	Creators []models.CreatorProfileView `json:"creators,omitempty"`
	Brands   []models.BrandProfileView   `json:"brands,omitempty"`
}

// SearchUsers filters creator or brand profiles. Category matching is "any of",
// which the row store cannot express, so it is applied after fetching.
func (s *UserService) SearchUsers(ctx context.Context, q UserSearch) (*UserSearchResult, error) {
	if err := models.Validate(q); err != nil {
		return nil, err
	}
	opts := rowstore.QueryOptions{
		Page:           pageOr(q.Page),
		PageSize:       pageSizeOr(q.PageSize),
		OrderBy:        q.OrderBy,
		OrderDirection: q.OrderDirection,
	}
	if opts.OrderBy == "" {
		opts.OrderBy = "createdAt"
		opts.OrderDirection = "desc"
	}
	term := strings.TrimSpace(q.SearchTerm)

	res := &UserSearchResult{UserType: q.UserType}
	switch q.UserType {
	case models.UserTypeCreator:
		f := rowstore.Filter{}
		if term != "" {
			f["displayName_contains"] = term
		}
		if q.MinFollowers != nil {
			f["followerCount_gte"] = *q.MinFollowers
		}
		if q.MaxFollowers != nil {
			f["followerCount_lte"] = *q.MaxFollowers
		}
		if q.MinEngagement != nil {
			f["engagementRate_gte"] = *q.MinEngagement
		}

		var profiles []models.CreatorProfile
		var err error
		switch len(q.Categories) {
		case 0:
			profiles, err = s.creatorRepo.Query(ctx, f, opts)
		case 1:
			f["categories_contains"] = q.Categories[0]
			profiles, err = s.creatorRepo.Query(ctx, f, opts)
		default:
			all := opts
			all.Page, all.PageSize = 0, 0
			profiles, err = s.creatorRepo.Query(ctx, f, all)
			if err == nil {
				profiles = paginate(matchAnyCategory(profiles, q.Categories), opts.Page, opts.PageSize)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("search creators: %w", err)
		}
		res.Creators = s.creatorViews(ctx, profiles)

	case models.UserTypeBrand:
		f := rowstore.Filter{}
		if term != "" {
			f["companyName_contains"] = term
		}
		if q.Industry != "" {
			f["industry"] = q.Industry
		}
		if q.CompanySize != "" {
			f["companySize"] = q.CompanySize
		}
		profiles, err := s.brandRepo.Query(ctx, f, opts)
		if err != nil {
			return nil, fmt.Errorf("search brands: %w", err)
		}
		res.Brands = s.brandViews(ctx, profiles)
	}
	return res, nil
}

func matchAnyCategory(profiles []models.CreatorProfile, categories []string) []models.CreatorProfile {
	out := make([]models.CreatorProfile, 0, len(profiles))
	for _, p := range profiles {
		for _, c := range categories {
			if containsFold(p.Categories, c) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func (s *UserService) GetUserStats(ctx context.Context, userID string) (*models.UserStats, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}

	stats := &models.UserStats{UserID: userID, UserType: u.UserType}
	switch u.UserType {
	case models.UserTypeCreator:
		g, gctx := errgroup.WithContext(ctx)
		counts := []struct {
			status string
			dst    *int
		}{
			{"", &stats.TotalApplications},
			{models.ApplicationStatusApproved, &stats.ApprovedApplications},
			{models.ApplicationStatusCompleted, &stats.CompletedApplications},
		}
		for _, c := range counts {
			f := rowstore.Filter{"creatorUserId": userID}
			if c.status != "" {
				f["status"] = c.status
			}
			dst := c.dst
			g.Go(func() error {
				n, err := s.appRepo.Count(gctx, f)
				*dst = n
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("creator stats: %w", err)
		}
	case models.UserTypeBrand:
		campaigns, err := s.campaignRepo.List(ctx, repositories.CampaignFilter{Filter: rowstore.Filter{"brandUserId": userID}})
		if err != nil {
			return nil, fmt.Errorf("brand stats: %w", err)
		}
		ids := make([]string, 0, len(campaigns))
		for _, c := range campaigns {
			ids = append(ids, c.ID)
			if c.Status == models.CampaignStatusActive {
				stats.ActiveCampaigns++
			}
		}
		stats.TotalCampaigns = len(campaigns)

		apps, err := s.appRepo.ListByCampaigns(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("brand stats: %w", err)
		}
		stats.TotalApplicationsReceived = len(apps)
	}
	return stats, nil
}

func pageOr(page int) int {
	if page < 1 {
		return rowstore.DefaultPage
	}
	return page
}

func pageSizeOr(size int) int {
	if size < 1 {
		return rowstore.DefaultPageSize
	}
	return size
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
