package services

import (
	"context"
	"fmt"
	"time"

	"github.com/earngage/backend/internal/apperr"
	"github.com/earngage/backend/internal/models"
	"github.com/earngage/backend/internal/repositories"
	"github.com/earngage/backend/internal/rowstore"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AnalyticsService records usage events and computes aggregates in memory.
// Aggregates read the whole matching set; none of them paginate.
type AnalyticsService struct {
	analyticsRepo *repositories.AnalyticsRepo
	appRepo       *repositories.ApplicationRepo
	campaignRepo  *repositories.CampaignRepo
	userRepo      *repositories.UserRepo
	log           *zap.Logger
}

func NewAnalyticsService(
	analyticsRepo *repositories.AnalyticsRepo,
	appRepo *repositories.ApplicationRepo,
	campaignRepo *repositories.CampaignRepo,
	userRepo *repositories.UserRepo,
	log *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		analyticsRepo: analyticsRepo,
		appRepo:       appRepo,
		campaignRepo:  campaignRepo,
		userRepo:      userRepo,
		log:           log,
	}
}

func (s *AnalyticsService) RecordEvent(ctx context.Context, e *models.AnalyticsEvent) error {
	if err := models.Validate(e); err != nil {
		return err
	}
	e.ID = models.NewID(models.PrefixAnalytics)
	if e.Timestamp.IsZero() {
		e.Timestamp = clock()
	}
	if err := s.analyticsRepo.Log(ctx, e); err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

// track records an event and only logs a failure. Tracking must never fail the caller.
func (s *AnalyticsService) track(ctx context.Context, e *models.AnalyticsEvent) error {
	if err := s.RecordEvent(ctx, e); err != nil {
		s.log.Warn("failed to record analytics event", zap.String("event_type", e.EventType), zap.Error(err))
	}
	return nil
}

func (s *AnalyticsService) TrackCampaignView(ctx context.Context, campaignID, viewerUserID string) error {
	return s.track(ctx, &models.AnalyticsEvent{
		EventType:  models.EventCampaignView,
		CampaignID: campaignID,
		UserID:     viewerUserID,
	})
}

func (s *AnalyticsService) TrackCampaignApplication(ctx context.Context, campaignID, creatorUserID, applicationID string) error {
	return s.track(ctx, &models.AnalyticsEvent{
		EventType:  models.EventCampaignApplication,
		CampaignID: campaignID,
		UserID:     creatorUserID,
		Metadata:   map[string]any{"applicationId": applicationID},
	})
}

// TrackProfileView records a view of the profile owned by profileUserID.
func (s *AnalyticsService) TrackProfileView(ctx context.Context, profileUserID, profileType, viewerUserID string) error {
	return s.track(ctx, &models.AnalyticsEvent{
		EventType:   models.EventProfileView,
		ProfileID:   profileUserID,
		ProfileType: profileType,
		UserID:      viewerUserID,
	})
}

func (s *AnalyticsService) GetCampaignViewAnalytics(ctx context.Context, campaignID string) (*models.CampaignViewAnalytics, error) {
	views, err := s.analyticsRepo.List(ctx, rowstore.Filter{"eventType": models.EventCampaignView, "campaignId": campaignID})
	if err != nil {
		return nil, fmt.Errorf("campaign views: %w", err)
	}
	return &models.CampaignViewAnalytics{
		CampaignID:    campaignID,
		TotalViews:    len(views),
		UniqueViewers: uniqueUsers(views),
		ViewsOverTime: dailyCounts(eventTimes(views)),
	}, nil
}

func (s *AnalyticsService) GetCampaignApplicationAnalytics(ctx context.Context, campaignID string) (*models.CampaignApplicationAnalytics, error) {
	apps, err := s.appRepo.List(ctx, rowstore.Filter{"campaignId": campaignID})
	if err != nil {
		return nil, fmt.Errorf("campaign applications: %w", err)
	}
	times := make([]time.Time, 0, len(apps))
	for _, a := range apps {
		times = append(times, a.CreatedAt)
	}
	return &models.CampaignApplicationAnalytics{
		CampaignID:           campaignID,
		TotalApplications:    len(apps),
		ApplicationsByStatus: statusCounts(apps),
		ApplicationsOverTime: dailyCounts(times),
		AveragePrice:         averagePrice(apps),
	}, nil
}

func (s *AnalyticsService) GetCreatorAnalytics(ctx context.Context, creatorUserID string) (*models.CreatorAnalytics, error) {
	var (
		apps  []models.Application
		views int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		apps, err = s.appRepo.List(gctx, rowstore.Filter{"creatorUserId": creatorUserID})
		return err
	})
	g.Go(func() error {
		var err error
		views, err = s.analyticsRepo.Count(gctx, rowstore.Filter{"eventType": models.EventProfileView, "profileId": creatorUserID})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("creator analytics: %w", err)
	}

	byStatus := statusCounts(apps)
	approved := byStatus[models.ApplicationStatusApproved]
	return &models.CreatorAnalytics{
		CreatorUserID:        creatorUserID,
		TotalApplications:    len(apps),
		ApplicationsByStatus: byStatus,
		ProfileViews:         views,
		SuccessRate:          models.Conversion(approved, approved+byStatus[models.ApplicationStatusRejected]),
	}, nil
}

// GetBrandAnalytics aggregates over all of a brand's campaigns with one query per collection.
func (s *AnalyticsService) GetBrandAnalytics(ctx context.Context, brandUserID string) (*models.BrandAnalytics, error) {
	campaigns, err := s.campaignRepo.List(ctx, repositories.CampaignFilter{Filter: rowstore.Filter{"brandUserId": brandUserID}})
	if err != nil {
		return nil, fmt.Errorf("brand analytics: %w", err)
	}
	ids := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		ids = append(ids, c.ID)
	}

	var (
		apps         []models.Application
		views        []models.AnalyticsEvent
		profileViews int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		apps, err = s.appRepo.ListByCampaigns(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		views, err = s.analyticsRepo.ListByCampaigns(gctx, models.EventCampaignView, ids)
		return err
	})
	g.Go(func() error {
		var err error
		profileViews, err = s.analyticsRepo.Count(gctx, rowstore.Filter{"eventType": models.EventProfileView, "profileId": brandUserID})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("brand analytics: %w", err)
	}

	appsPer := countBy(apps, func(a models.Application) string { return a.CampaignID })
	viewsPer := countBy(views, func(e models.AnalyticsEvent) string { return e.CampaignID })

	perf := make([]models.CampaignPerformance, 0, len(campaigns))
	for _, c := range campaigns {
		perf = append(perf, models.CampaignPerformance{
			CampaignID:     c.ID,
			Title:          c.Title,
			Status:         c.Status,
			Views:          viewsPer[c.ID],
			Applications:   appsPer[c.ID],
			ConversionRate: models.Conversion(appsPer[c.ID], viewsPer[c.ID]),
		})
	}

	return &models.BrandAnalytics{
		BrandUserID:               brandUserID,
		TotalCampaigns:            len(campaigns),
		CampaignsByStatus:         countBy(campaigns, func(c models.Campaign) string { return c.Status }),
		ProfileViews:              profileViews,
		TotalApplicationsReceived: len(apps),
		ApplicationsByStatus:      statusCounts(apps),
		CampaignStats:             perf,
	}, nil
}

// GetPlatformAnalytics loads users, campaigns and events in parallel.
func (s *AnalyticsService) GetPlatformAnalytics(ctx context.Context) (*models.PlatformAnalytics, error) {
	var (
		users     []models.User
		campaigns []models.Campaign
		evts      []models.AnalyticsEvent
		appCount  int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.userRepo.List(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		campaigns, err = s.campaignRepo.List(gctx, repositories.CampaignFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		evts, err = s.analyticsRepo.List(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		appCount, err = s.appRepo.Count(gctx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("platform analytics: %w", err)
	}

	out := &models.PlatformAnalytics{
		TotalUsers:        len(users),
		TotalCampaigns:    len(campaigns),
		TotalApplications: appCount,
		EventsByType:      countBy(evts, func(e models.AnalyticsEvent) string { return e.EventType }),
	}
	userTimes := make([]time.Time, 0, len(users))
	for _, u := range users {
		switch u.UserType {
		case models.UserTypeCreator:
			out.TotalCreators++
		case models.UserTypeBrand:
			out.TotalBrands++
		}
		userTimes = append(userTimes, u.CreatedAt)
	}
	campaignTimes := make([]time.Time, 0, len(campaigns))
	for _, c := range campaigns {
		campaignTimes = append(campaignTimes, c.CreatedAt)
	}
	out.UserGrowth = dailyCounts(userTimes)
	out.CumulativeUserGrowth = cumulative(out.UserGrowth)
	out.CampaignGrowth = dailyCounts(campaignTimes)
	return out, nil
}

// GetByDateRange returns events between two YYYY-MM-DD days inclusive, optionally of one type.
func (s *AnalyticsService) GetByDateRange(ctx context.Context, startDate, endDate, eventType string) ([]models.AnalyticsEvent, error) {
	start, err := time.Parse(dayLayout, startDate)
	if err != nil {
		return nil, apperr.Validation("startDate must be YYYY-MM-DD")
	}
	end, err := time.Parse(dayLayout, endDate)
	if err != nil {
		return nil, apperr.Validation("endDate must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, apperr.Validation("endDate must not be before startDate")
	}
	end = end.Add(24*time.Hour - time.Millisecond)

	f := rowstore.Filter{"timestamp_gte": start, "timestamp_lte": end}
	if eventType != "" {
		f["eventType"] = eventType
	}
	evts, err := s.analyticsRepo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("events by date: %w", err)
	}
	return evts, nil
}

func eventTimes(evts []models.AnalyticsEvent) []time.Time {
	out := make([]time.Time, 0, len(evts))
	for _, e := range evts {
		out = append(out, e.Timestamp)
	}
	return out
}
