package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/earngage/backend/internal/apperr"
	"github.com/earngage/backend/internal/config"
	"github.com/earngage/backend/internal/events"
	"github.com/earngage/backend/internal/models"
	"github.com/earngage/backend/internal/repositories"
	"github.com/earngage/backend/internal/rowstore"
	"go.uber.org/zap"
)

type CampaignService struct {
	campaignRepo  *repositories.CampaignRepo
	brandRepo     *repositories.BrandProfileRepo
	creatorRepo   *repositories.CreatorProfileRepo
	appRepo       *repositories.ApplicationRepo
	analyticsRepo *repositories.AnalyticsRepo
	publisher     events.Publisher
	cfg           *config.Config
	log           *zap.Logger
}

func NewCampaignService(
	campaignRepo *repositories.CampaignRepo,
	brandRepo *repositories.BrandProfileRepo,
	creatorRepo *repositories.CreatorProfileRepo,
	appRepo *repositories.ApplicationRepo,
	analyticsRepo *repositories.AnalyticsRepo,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *CampaignService {
	return &CampaignService{
		campaignRepo:  campaignRepo,
		brandRepo:     brandRepo,
		creatorRepo:   creatorRepo,
		appRepo:       appRepo,
		analyticsRepo: analyticsRepo,
		publisher:     publisher,
		cfg:           cfg,
		log:           log,
	}
}

func (s *CampaignService) Create(ctx context.Context, c *models.Campaign) error {
	c.Title = strings.TrimSpace(c.Title)
	c.Description = strings.TrimSpace(c.Description)
	c.Requirements = strings.TrimSpace(c.Requirements)
	if c.Status == "" {
		c.Status = models.CampaignStatusDraft
	}
	if err := models.Validate(c); err != nil {
		return err
	}
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		return apperr.Validation("endDate must not be before startDate")
	}

	now := clock()
	c.ID = models.NewID(models.PrefixCampaign)
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := s.campaignRepo.Create(ctx, c); err != nil {
		return fmt.Errorf("create campaign: %w", err)
	}
	return nil
}

func (s *CampaignService) get(ctx context.Context, id string) (*models.Campaign, error) {
	c, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Campaign not found")
		}
		return nil, err
	}
	return c, nil
}

// GetByID returns the campaign with its brand profile attached when available.
func (s *CampaignService) GetByID(ctx context.Context, id string) (*models.CampaignWithBrand, error) {
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &models.CampaignWithBrand{Campaign: *c}
	brand, err := s.brandRepo.GetByUserID(ctx, c.BrandUserID)
	if err != nil {
		s.log.Warn("brand enrichment failed", zap.String("campaign_id", id), zap.Error(err))
	}
	out.Brand = brand
	return out, nil
}

func (s *CampaignService) Update(ctx context.Context, id string, upd models.CampaignUpdate) (*models.Campaign, error) {
	if err := models.Validate(upd); err != nil {
		return nil, err
	}
	existing, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	start, end := existing.StartDate, existing.EndDate
	if upd.StartDate != nil {
		start = upd.StartDate
	}
	if upd.EndDate != nil {
		end = upd.EndDate
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, apperr.Validation("endDate must not be before startDate")
	}

	patch := rowstore.Row{"updatedAt": clock()}
	if upd.Title != nil {
		patch["title"] = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		patch["description"] = strings.TrimSpace(*upd.Description)
	}
	if upd.Requirements != nil {
		patch["requirements"] = strings.TrimSpace(*upd.Requirements)
	}
	if upd.Budget != nil {
		patch["budget"] = *upd.Budget
	}
	if upd.Category != nil {
		patch["category"] = *upd.Category
	}
	if upd.StartDate != nil {
		patch["startDate"] = *upd.StartDate
	}
	if upd.EndDate != nil {
		patch["endDate"] = *upd.EndDate
	}
	if upd.Status != nil {
		patch["status"] = *upd.Status
	}

	c, err := s.campaignRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update campaign: %w", err)
	}
	if upd.Status != nil && *upd.Status != existing.Status {
		s.publishStatus(ctx, c, existing.Status)
	}
	return c, nil
}

// Delete removes a campaign that is still a draft.
func (s *CampaignService) Delete(ctx context.Context, id string) error {
	c, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if c.Status != models.CampaignStatusDraft {
		return apperr.InvalidTransition("Only draft campaigns can be deleted")
	}
	return s.campaignRepo.Delete(ctx, id)
}

// GetAll lists campaigns newest first. Keys of filter follow the row store suffix grammar.
func (s *CampaignService) GetAll(ctx context.Context, filter rowstore.Filter, page, pageSize int) ([]models.CampaignWithBrand, error) {
	campaigns, err := s.campaignRepo.List(ctx, repositories.CampaignFilter{
		Filter: filter, Page: pageOr(page), PageSize: pageSizeOr(pageSize),
	})
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return s.withBrands(ctx, campaigns), nil
}

// GetByBrand returns every campaign of a brand, optionally narrowed to one status.
func (s *CampaignService) GetByBrand(ctx context.Context, brandUserID, status string) ([]models.Campaign, error) {
	f := rowstore.Filter{"brandUserId": brandUserID}
	if status != "" {
		if !models.IsValidCampaignStatus(status) {
			return nil, apperr.Validation("Invalid status: %s", status)
		}
		f["status"] = status
	}
	campaigns, err := s.campaignRepo.List(ctx, repositories.CampaignFilter{Filter: f})
	if err != nil {
		return nil, fmt.Errorf("list brand campaigns: %w", err)
	}
	return campaigns, nil
}

func (s *CampaignService) GetActive(ctx context.Context, page, pageSize int) ([]models.CampaignWithBrand, error) {
	return s.GetAll(ctx, rowstore.Filter{"status": models.CampaignStatusActive}, page, pageSize)
}

func (s *CampaignService) Search(ctx context.Context, q models.CampaignSearch, page, pageSize int) ([]models.CampaignWithBrand, error) {
	if err := models.Validate(q); err != nil {
		return nil, err
	}
	f := rowstore.Filter{}
	if t := strings.TrimSpace(q.Title); t != "" {
		f["title_contains"] = t
	}
	if q.Category != "" {
		f["category"] = q.Category
	}
	if q.MinBudget != nil {
		f["budget_gte"] = *q.MinBudget
	}
	if q.MaxBudget != nil {
		f["budget_lte"] = *q.MaxBudget
	}
	if q.Status != "" {
		f["status"] = q.Status
	}
	if q.StartFrom != nil {
		f["startDate_gte"] = *q.StartFrom
	}
	if q.StartTo != nil {
		f["startDate_lte"] = *q.StartTo
	}
	return s.GetAll(ctx, f, page, pageSize)
}

// ChangeStatus sets any known status. Campaigns have no transition guard.
func (s *CampaignService) ChangeStatus(ctx context.Context, id, status string) (*models.Campaign, error) {
	if !models.IsValidCampaignStatus(status) {
		return nil, apperr.Validation("Invalid status. Must be one of: %s", strings.Join(models.CampaignStatuses, ", "))
	}
	existing, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	c, err := s.campaignRepo.Update(ctx, id, rowstore.Row{"status": status, "updatedAt": clock()})
	if err != nil {
		return nil, fmt.Errorf("change campaign status: %w", err)
	}
	if existing.Status != status {
		s.publishStatus(ctx, c, existing.Status)
	}
	return c, nil
}

func (s *CampaignService) publishStatus(ctx context.Context, c *models.Campaign, oldStatus string) {
	err := s.publisher.Publish(ctx, events.StreamCampaigns, events.Event{
		Type: events.EventCampaignStatusChanged,
		Payload: map[string]any{
			"campaign_id":   c.ID,
			"brand_user_id": c.BrandUserID,
			"title":         c.Title,
			"old_status":    oldStatus,
			"new_status":    c.Status,
		},
	})
	if err != nil {
		s.log.Warn("publish campaign status failed", zap.String("campaign_id", c.ID), zap.Error(err))
	}
}

func (s *CampaignService) GetStats(ctx context.Context, id string) (*models.CampaignStats, error) {
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}

	apps, err := s.appRepo.List(ctx, rowstore.Filter{"campaignId": id})
	if err != nil {
		return nil, fmt.Errorf("campaign stats: %w", err)
	}
	views, err := s.analyticsRepo.List(ctx, rowstore.Filter{"eventType": models.EventCampaignView, "campaignId": id})
	if err != nil {
		return nil, fmt.Errorf("campaign stats: %w", err)
	}

	return &models.CampaignStats{
		CampaignID:           id,
		TotalApplications:    len(apps),
		ApplicationsByStatus: statusCounts(apps),
		TotalViews:           len(views),
		UniqueViewers:        uniqueUsers(views),
	}, nil
}

// GetRecommended ranks active campaigns in two tiers: category matches first, then
// other active campaigns until the list reaches RecommendationMin.
func (s *CampaignService) GetRecommended(ctx context.Context, creatorUserID string) ([]models.CampaignWithBrand, error) {
	profile, err := s.creatorRepo.GetByUserID(ctx, creatorUserID)
	if err != nil {
		return nil, fmt.Errorf("recommendations: %w", err)
	}
	if profile == nil {
		return nil, apperr.NotFound("Creator profile not found")
	}

	active, err := s.campaignRepo.List(ctx, repositories.CampaignFilter{
		Filter: rowstore.Filter{"status": models.CampaignStatusActive},
	})
	if err != nil {
		return nil, fmt.Errorf("recommendations: %w", err)
	}

	limit := s.cfg.RecommendationMin
	if limit <= 0 {
		limit = 5
	}

	var matched, rest []models.Campaign
	for _, c := range active {
		if c.Category != "" && containsFold(profile.Categories, c.Category) {
			matched = append(matched, c)
		} else {
			rest = append(rest, c)
		}
	}
	out := matched
	for _, c := range rest {
		if len(out) >= limit {
			break
		}
		out = append(out, c)
	}
	return s.withBrands(ctx, out), nil
}

// withBrands attaches brand profiles using a single userId_in query.
func (s *CampaignService) withBrands(ctx context.Context, campaigns []models.Campaign) []models.CampaignWithBrand {
	ids := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		ids = append(ids, c.BrandUserID)
	}
	brands, err := s.brandRepo.GetByUserIDs(ctx, ids)
	if err != nil {
		s.log.Warn("brand enrichment failed", zap.Error(err))
	}

	out := make([]models.CampaignWithBrand, 0, len(campaigns))
	for _, c := range campaigns {
		item := models.CampaignWithBrand{Campaign: c}
		if b, ok := brands[c.BrandUserID]; ok {
			item.Brand = &b
		}
		out = append(out, item)
	}
	return out
}

func uniqueUsers(evts []models.AnalyticsEvent) int {
	seen := make(map[string]struct{})
	for _, e := range evts {
		if e.UserID != "" {
			seen[e.UserID] = struct{}{}
		}
	}
	return len(seen)
}
