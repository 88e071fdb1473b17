package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/earngage/backend/internal/apperr"
	"github.com/earngage/backend/internal/events"
	"github.com/earngage/backend/internal/lock"
	"github.com/earngage/backend/internal/models"
	"github.com/earngage/backend/internal/repositories"
	"github.com/earngage/backend/internal/rowstore"
	"go.uber.org/zap"
)

const applyLockTTL = 10 * time.Second

type ApplicationService struct {
	appRepo      *repositories.ApplicationRepo
	campaignRepo *repositories.CampaignRepo
	userRepo     *repositories.UserRepo
	creatorRepo  *repositories.CreatorProfileRepo
	brandRepo    *repositories.BrandProfileRepo
	analytics    *AnalyticsService
	locker       lock.Locker
	publisher    events.Publisher
	log          *zap.Logger
}

func NewApplicationService(
	appRepo *repositories.ApplicationRepo,
	campaignRepo *repositories.CampaignRepo,
	userRepo *repositories.UserRepo,
	creatorRepo *repositories.CreatorProfileRepo,
	brandRepo *repositories.BrandProfileRepo,
	analytics *AnalyticsService,
	locker lock.Locker,
	publisher events.Publisher,
	log *zap.Logger,
) *ApplicationService {
	return &ApplicationService{
		appRepo:      appRepo,
		campaignRepo: campaignRepo,
		userRepo:     userRepo,
		creatorRepo:  creatorRepo,
		brandRepo:    brandRepo,
		analytics:    analytics,
		locker:       locker,
		publisher:    publisher,
		log:          log,
	}
}

// Create submits a creator's application to a campaign. A creator applies to a
// campaign at most once; the check and the insert run under a per-pair lock.
func (s *ApplicationService) Create(ctx context.Context, a *models.Application) error {
	a.Proposal = strings.TrimSpace(a.Proposal)
	if err := models.Validate(a); err != nil {
		return err
	}

	campaign, err := s.campaignRepo.GetByID(ctx, a.CampaignID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("Campaign not found")
		}
		return err
	}
	if _, err := s.userRepo.GetByID(ctx, a.CreatorUserID); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("Creator not found")
		}
		return err
	}

	unlock, err := s.locker.Lock(ctx, "apply:"+a.CreatorUserID+":"+a.CampaignID, applyLockTTL)
	if err != nil {
		return fmt.Errorf("application lock: %w", err)
	}
	defer unlock()

	existing, err := s.appRepo.FindByCreatorAndCampaign(ctx, a.CreatorUserID, a.CampaignID)
	if err != nil {
		return fmt.Errorf("check existing application: %w", err)
	}
	if existing != nil {
		return apperr.Duplicate("You have already applied to this campaign")
	}

	now := clock()
	a.ID = models.NewID(models.PrefixApplication)
	a.Status = models.ApplicationStatusPending
	a.Feedback = ""
	a.CreatedAt = now
	a.UpdatedAt = now
	if err := s.appRepo.Create(ctx, a); err != nil {
		return fmt.Errorf("create application: %w", err)
	}

	// не должно ломать подачу заявки
	_ = s.analytics.TrackCampaignApplication(ctx, a.CampaignID, a.CreatorUserID, a.ID)

	if err := s.publisher.Publish(ctx, events.StreamApplications, events.Event{
		Type: events.EventApplicationCreated,
		Payload: map[string]any{
			"application_id":  a.ID,
			"campaign_id":     a.CampaignID,
			"campaign_title":  campaign.Title,
			"creator_user_id": a.CreatorUserID,
			"brand_user_id":   campaign.BrandUserID,
		},
	}); err != nil {
		s.log.Warn("publish application created failed", zap.String("application_id", a.ID), zap.Error(err))
	}
	return nil
}

func (s *ApplicationService) GetByID(ctx context.Context, id string) (*models.Application, error) {
	a, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Application not found")
		}
		return nil, err
	}
	return a, nil
}

// Update edits an application. Proposal and price are frozen once it leaves pending.
func (s *ApplicationService) Update(ctx context.Context, id string, upd models.ApplicationUpdate) (*models.Application, error) {
	if err := models.Validate(upd); err != nil {
		return nil, err
	}
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status != models.ApplicationStatusPending && (upd.Proposal != nil || upd.Price != nil) {
		return nil, apperr.InvalidTransition("Cannot modify proposal or price of a %s application", existing.Status)
	}

	patch := rowstore.Row{"updatedAt": clock()}
	if upd.Proposal != nil {
		patch["proposal"] = strings.TrimSpace(*upd.Proposal)
	}
	if upd.Price != nil {
		patch["price"] = *upd.Price
	}
	if upd.Feedback != nil {
		patch["feedback"] = *upd.Feedback
	}
	a, err := s.appRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update application: %w", err)
	}
	return a, nil
}

// Delete withdraws an application that is still pending.
func (s *ApplicationService) Delete(ctx context.Context, id string) error {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.Status != models.ApplicationStatusPending {
		return apperr.InvalidTransition("Only pending applications can be deleted")
	}
	return s.appRepo.Delete(ctx, id)
}

// GetByCampaign lists a campaign's applications with the applicants' profiles.
func (s *ApplicationService) GetByCampaign(ctx context.Context, campaignID, status string) ([]models.ApplicationWithCreator, error) {
	if _, err := s.campaignRepo.GetByID(ctx, campaignID); err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("Campaign not found")
		}
		return nil, err
	}
	f := rowstore.Filter{"campaignId": campaignID}
	if status != "" {
		if !models.IsValidApplicationStatus(status) {
			return nil, apperr.Validation("Invalid status: %s", status)
		}
		f["status"] = status
	}
	apps, err := s.appRepo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list campaign applications: %w", err)
	}

	ids := make([]string, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.CreatorUserID)
	}
	profiles, err := s.creatorRepo.GetByUserIDs(ctx, ids)
	if err != nil {
		s.log.Warn("creator enrichment failed", zap.String("campaign_id", campaignID), zap.Error(err))
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.log.Warn("creator enrichment failed", zap.String("campaign_id", campaignID), zap.Error(err))
	}

	out := make([]models.ApplicationWithCreator, 0, len(apps))
	for _, a := range apps {
		item := models.ApplicationWithCreator{Application: a}
		if p, ok := profiles[a.CreatorUserID]; ok {
			view := &models.CreatorProfileView{CreatorProfile: p}
			if u, ok := users[a.CreatorUserID]; ok {
				view.Email = u.Email
				view.UserType = u.UserType
			}
			item.Creator = view
		}
		out = append(out, item)
	}
	return out, nil
}

// GetByCreator lists a creator's applications with each campaign and its brand.
func (s *ApplicationService) GetByCreator(ctx context.Context, creatorUserID, status string) ([]models.ApplicationWithCampaign, error) {
	f := rowstore.Filter{"creatorUserId": creatorUserID}
	if status != "" {
		if !models.IsValidApplicationStatus(status) {
			return nil, apperr.Validation("Invalid status: %s", status)
		}
		f["status"] = status
	}
	apps, err := s.appRepo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list creator applications: %w", err)
	}

	campaignIDs := make([]string, 0, len(apps))
	for _, a := range apps {
		campaignIDs = append(campaignIDs, a.CampaignID)
	}
	campaigns, err := s.campaignRepo.GetByIDs(ctx, campaignIDs)
	if err != nil {
		s.log.Warn("campaign enrichment failed", zap.String("creator_user_id", creatorUserID), zap.Error(err))
	}
	brandIDs := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		brandIDs = append(brandIDs, c.BrandUserID)
	}
	brands, err := s.brandRepo.GetByUserIDs(ctx, brandIDs)
	if err != nil {
		s.log.Warn("brand enrichment failed", zap.String("creator_user_id", creatorUserID), zap.Error(err))
	}

	out := make([]models.ApplicationWithCampaign, 0, len(apps))
	for _, a := range apps {
		item := models.ApplicationWithCampaign{Application: a}
		if c, ok := campaigns[a.CampaignID]; ok {
			item.Campaign = &c
			if b, ok := brands[c.BrandUserID]; ok {
				item.Brand = &b
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// ChangeStatus moves an application along the status machine in ValidApplicationTransitions.
// feedback, when non-nil, replaces the stored feedback.
func (s *ApplicationService) ChangeStatus(ctx context.Context, id, status string, feedback *string) (*models.Application, error) {
	if !models.IsValidApplicationStatus(status) {
		return nil, apperr.Validation("Invalid status. Must be one of: %s", strings.Join(models.ApplicationStatuses, ", "))
	}
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.IsValidApplicationTransition(existing.Status, status) {
		switch existing.Status {
		case models.ApplicationStatusCompleted:
			return nil, apperr.InvalidTransition("Cannot change status of completed applications")
		case models.ApplicationStatusRejected:
			return nil, apperr.InvalidTransition("Rejected applications can only be moved back to pending")
		}
		return nil, apperr.InvalidTransition("invalid transition from %s to %s", existing.Status, status)
	}

	patch := rowstore.Row{"status": status, "updatedAt": clock()}
	if feedback != nil {
		patch["feedback"] = *feedback
	}
	a, err := s.appRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("change application status: %w", err)
	}

	if existing.Status != status {
		s.publishStatus(ctx, a, existing.Status)
	}
	return a, nil
}

func (s *ApplicationService) publishStatus(ctx context.Context, a *models.Application, oldStatus string) {
	payload := map[string]any{
		"application_id":  a.ID,
		"campaign_id":     a.CampaignID,
		"creator_user_id": a.CreatorUserID,
		"old_status":      oldStatus,
		"new_status":      a.Status,
	}
	if c, err := s.campaignRepo.GetByID(ctx, a.CampaignID); err == nil {
		payload["campaign_title"] = c.Title
	}
	if err := s.publisher.Publish(ctx, events.StreamApplications, events.Event{
		Type:    events.EventApplicationStatusChanged,
		Payload: payload,
	}); err != nil {
		s.log.Warn("publish application status failed", zap.String("application_id", a.ID), zap.Error(err))
	}
}

func (s *ApplicationService) GetByStatus(ctx context.Context, status string) ([]models.Application, error) {
	if !models.IsValidApplicationStatus(status) {
		return nil, apperr.Validation("Invalid status: %s", status)
	}
	return s.appRepo.List(ctx, rowstore.Filter{"status": status})
}

func (s *ApplicationService) HasCreatorApplied(ctx context.Context, creatorUserID, campaignID string) (bool, error) {
	a, err := s.appRepo.FindByCreatorAndCampaign(ctx, creatorUserID, campaignID)
	if err != nil {
		return false, err
	}
	return a != nil, nil
}

// GetAnalytics summarises applications, for one campaign or platform-wide when campaignID is empty.
func (s *ApplicationService) GetAnalytics(ctx context.Context, campaignID string) (*models.ApplicationAnalytics, error) {
	f := rowstore.Filter{}
	if campaignID != "" {
		f["campaignId"] = campaignID
	}
	apps, err := s.appRepo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("application analytics: %w", err)
	}
	return &models.ApplicationAnalytics{
		CampaignID:   campaignID,
		Total:        len(apps),
		ByStatus:     statusCounts(apps),
		AveragePrice: averagePrice(apps),
	}, nil
}

func statusCounts(apps []models.Application) map[string]int {
	out := make(map[string]int, len(models.ApplicationStatuses))
	for _, st := range models.ApplicationStatuses {
		out[st] = 0
	}
	for _, a := range apps {
		out[a.Status]++
	}
	return out
}

// averagePrice is taken over applications that quoted a price.
func averagePrice(apps []models.Application) float64 {
	var sum float64
	n := 0
	for _, a := range apps {
		if a.Price != nil {
			sum += *a.Price
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
