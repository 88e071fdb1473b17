package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/earngage/backend/internal/auth"
	"github.com/earngage/backend/internal/config"
	"github.com/earngage/backend/internal/events"
	"github.com/earngage/backend/internal/lock"
	"github.com/earngage/backend/internal/models"
	"github.com/earngage/backend/internal/repositories"
	"github.com/earngage/backend/internal/rowstore/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type published struct {
	stream string
	event  events.Event
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *fakePublisher) Publish(_ context.Context, stream string, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{stream: stream, event: e})
	return nil
}

func (p *fakePublisher) ofType(t string) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, e := range p.events {
		if e.event.Type == t {
			out = append(out, e.event)
		}
	}
	return out
}

type fixture struct {
	users     *repositories.UserRepo
	creators  *repositories.CreatorProfileRepo
	brands    *repositories.BrandProfileRepo
	campaigns *repositories.CampaignRepo
	apps      *repositories.ApplicationRepo
	analytics *repositories.AnalyticsRepo
	notifs    *repositories.NotificationRepo
	pub       *fakePublisher
	cfg       *config.Config

	Auth          *AuthService
	Users         *UserService
	Campaigns     *CampaignService
	Applications  *ApplicationService
	Analytics     *AnalyticsService
	Notifications *NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	log := zap.NewNop()
	f := &fixture{
		users:     repositories.NewUserRepo(store),
		creators:  repositories.NewCreatorProfileRepo(store),
		brands:    repositories.NewBrandProfileRepo(store),
		campaigns: repositories.NewCampaignRepo(store),
		apps:      repositories.NewApplicationRepo(store),
		analytics: repositories.NewAnalyticsRepo(store),
		notifs:    repositories.NewNotificationRepo(store),
		pub:       &fakePublisher{},
		cfg: &config.Config{
			JWTSecret:         "test-secret",
			JWTExpiration:     time.Hour,
			BCryptCost:        4,
			RecommendationMin: 5,
			AdminEmails:       []string{"root@earngage.io"},
		},
	}
	locker := lock.NewLocalLocker()

	f.Users = NewUserService(f.users, f.creators, f.brands, f.campaigns, f.apps, log)
	f.Auth = NewAuthService(f.users, f.Users, auth.NewMemoryDenylist(), locker, f.cfg, log)
	f.Analytics = NewAnalyticsService(f.analytics, f.apps, f.campaigns, f.users, log)
	f.Campaigns = NewCampaignService(f.campaigns, f.brands, f.creators, f.apps, f.analytics, f.pub, f.cfg, log)
	f.Applications = NewApplicationService(f.apps, f.campaigns, f.users, f.creators, f.brands, f.Analytics, locker, f.pub, log)
	f.Notifications = NewNotificationService(f.notifs, f.apps, f.pub, log)
	return f
}

// freezeClock pins the service clock to at and restores it when the test ends.
func freezeClock(t *testing.T, at time.Time) *time.Time {
	t.Helper()
	orig := clock
	now := at
	clock = func() time.Time { return now }
	t.Cleanup(func() { clock = orig })
	return &now
}

func (f *fixture) addUser(t *testing.T, id, userType string) *models.User {
	t.Helper()
	u := &models.User{ID: id, Email: id + "@example.com", UserType: userType, CreatedAt: clock(), UpdatedAt: clock()}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) addCreator(t *testing.T, id string, categories ...string) *models.CreatorProfile {
	t.Helper()
	f.addUser(t, id, models.UserTypeCreator)
	p := &models.CreatorProfile{UserID: id, DisplayName: "Creator " + id, Categories: categories}
	require.NoError(t, f.Users.CreateCreatorProfile(context.Background(), p))
	return p
}

func (f *fixture) addBrand(t *testing.T, id, company string) *models.BrandProfile {
	t.Helper()
	f.addUser(t, id, models.UserTypeBrand)
	p := &models.BrandProfile{UserID: id, CompanyName: company}
	require.NoError(t, f.Users.CreateBrandProfile(context.Background(), p))
	return p
}

func (f *fixture) addCampaign(t *testing.T, brandUserID, title, category, status string) *models.Campaign {
	t.Helper()
	c := &models.Campaign{
		BrandUserID:  brandUserID,
		Title:        title,
		Description:  "D",
		Requirements: "R",
		Budget:       100,
		Category:     category,
		Status:       status,
	}
	require.NoError(t, f.Campaigns.Create(context.Background(), c))
	return c
}

func ptr[T any](v T) *T { return &v }
