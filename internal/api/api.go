// Package api assembles the EarnGage services over a row store. It holds no logic of its own.
package api

import (
	"github.com/earngage/backend/internal/auth"
	"github.com/earngage/backend/internal/config"
	"github.com/earngage/backend/internal/events"
	"github.com/earngage/backend/internal/lock"
	"github.com/earngage/backend/internal/repositories"
	"github.com/earngage/backend/internal/rowstore"
	"github.com/earngage/backend/internal/services"
	"github.com/earngage/backend/internal/socialstats"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deps are the collaborators of API. Only Store, Config and Log are required;
// the rest default to Redis-backed implementations when Redis is set and to
// in-process ones otherwise.
type Deps struct {
	Store     rowstore.Store
	Config    *config.Config
	Log       *zap.Logger
	Redis     *redis.Client
	Publisher events.Publisher
	Denylist  auth.Denylist
	Locker    lock.Locker
	Fetcher   services.StatsFetcher
}

type API struct {
	Auth          *services.AuthService
	Users         *services.UserService
	Campaigns     *services.CampaignService
	Applications  *services.ApplicationService
	Analytics     *services.AnalyticsService
	Notifications *services.NotificationService
	Metrics       *services.MetricsService

	// Rows is the underlying store, for callers that need raw table access.
	Rows rowstore.Store
}

func New(d Deps) *API {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	cfg := d.Config

	if d.Publisher == nil {
		if d.Redis != nil {
			d.Publisher = events.NewRedisPublisher(d.Redis, log)
		} else {
			d.Publisher = events.NewLocalBus()
		}
	}
	if d.Denylist == nil {
		if d.Redis != nil {
			d.Denylist = auth.NewRedisDenylist(d.Redis)
		} else {
			d.Denylist = auth.NewMemoryDenylist()
		}
	}
	if d.Locker == nil {
		if d.Redis != nil {
			d.Locker = lock.NewRedisLocker(d.Redis)
		} else {
			d.Locker = lock.NewLocalLocker()
		}
	}
	if d.Fetcher == nil {
		d.Fetcher = socialstats.NewTelegramFetcher(socialstats.DefaultTelegramURL, cfg.TMEFetchTimeoutMS, cfg.TMEFetchMaxRetries, log)
	}

	userRepo := repositories.NewUserRepo(d.Store)
	creatorRepo := repositories.NewCreatorProfileRepo(d.Store)
	brandRepo := repositories.NewBrandProfileRepo(d.Store)
	campaignRepo := repositories.NewCampaignRepo(d.Store)
	appRepo := repositories.NewApplicationRepo(d.Store)
	analyticsRepo := repositories.NewAnalyticsRepo(d.Store)
	notifRepo := repositories.NewNotificationRepo(d.Store)

	users := services.NewUserService(userRepo, creatorRepo, brandRepo, campaignRepo, appRepo, log)
	analytics := services.NewAnalyticsService(analyticsRepo, appRepo, campaignRepo, userRepo, log)

	return &API{
		Auth:          services.NewAuthService(userRepo, users, d.Denylist, d.Locker, cfg, log),
		Users:         users,
		Campaigns:     services.NewCampaignService(campaignRepo, brandRepo, creatorRepo, appRepo, analyticsRepo, d.Publisher, cfg, log),
		Applications:  services.NewApplicationService(appRepo, campaignRepo, userRepo, creatorRepo, brandRepo, analytics, d.Locker, d.Publisher, log),
		Analytics:     analytics,
		Notifications: services.NewNotificationService(notifRepo, appRepo, d.Publisher, log),
		Metrics:       services.NewMetricsService(creatorRepo, d.Fetcher, d.Redis, cfg.StatsRefreshInterval, log),
		Rows:          d.Store,
	}
}
