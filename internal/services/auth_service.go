package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/earngage/backend/internal/apperr"
	"github.com/earngage/backend/internal/auth"
	"github.com/earngage/backend/internal/config"
	"github.com/earngage/backend/internal/lock"
	"github.com/earngage/backend/internal/models"
	"github.com/earngage/backend/internal/repositories"
	"github.com/earngage/backend/internal/rowstore"
	"go.uber.org/zap"
)

type AuthService struct {
	userRepo *repositories.UserRepo
	users    *UserService
	denylist auth.Denylist
	locker   lock.Locker
	cfg      *config.Config
	log      *zap.Logger
}

func NewAuthService(
	userRepo *repositories.UserRepo,
	users *UserService,
	denylist auth.Denylist,
	locker lock.Locker,
	cfg *config.Config,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		users:    users,
		denylist: denylist,
		locker:   locker,
		cfg:      cfg,
		log:      log,
	}
}

type RegisterInput struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	UserType    string `json:"userType" validate:"required,oneof=creator brand admin"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
}

type Session struct {
	User      models.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// Register creates the user and the empty profile matching its type, then signs it in.
// The admin type is reserved for addresses listed in ADMIN_EMAILS.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := models.Validate(in); err != nil {
		return nil, err
	}
	if in.UserType == models.UserTypeAdmin && !s.cfg.IsAdmin(in.Email) {
		return nil, apperr.Forbidden("Admin accounts cannot be self-registered")
	}

	hash, err := auth.HashPassword(in.Password, s.cfg.BCryptCost)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, apperr.Validation("%s", err.Error())
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	unlock, err := s.locker.Lock(ctx, "register:"+in.Email, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("register lock: %w", err)
	}
	defer unlock()

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, apperr.Duplicate("User with this email already exists")
	}

	now := clock()
	u := &models.User{
		ID:           models.NewID(models.PrefixUser),
		Email:        in.Email,
		UserType:     in.UserType,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	switch u.UserType {
	case models.UserTypeCreator:
		name := strings.TrimSpace(in.DisplayName)
		if name == "" {
			name = strings.TrimSpace(u.FirstName + " " + u.LastName)
		}
		err = s.users.CreateCreatorProfile(ctx, &models.CreatorProfile{UserID: u.ID, DisplayName: name})
	case models.UserTypeBrand:
		err = s.users.CreateBrandProfile(ctx, &models.BrandProfile{UserID: u.ID, CompanyName: strings.TrimSpace(in.CompanyName)})
	}
	if err != nil {
		if derr := s.userRepo.Delete(ctx, u.ID); derr != nil {
			s.log.Error("orphan user left after profile failure", zap.String("user_id", u.ID), zap.Error(derr))
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	s.log.Info("user registered", zap.String("user_id", u.ID), zap.String("user_type", u.UserType))
	return s.issue(u)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperr.Validation("Email and password are required")
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, password) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	now := clock()
	if _, err := s.userRepo.Update(ctx, u.ID, rowstore.Row{"lastLoginAt": now}); err != nil {
		s.log.Warn("failed to stamp last login", zap.String("user_id", u.ID), zap.Error(err))
	} else {
		u.LastLoginAt = &now
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *models.User) (*Session, error) {
	token, claims, err := auth.GenerateJWT(s.cfg.JWTSecret, u.ID, u.UserType, s.cfg.JWTExpiration)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{User: u.Public(), Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// ValidateToken verifies the signature and expiry and rejects revoked tokens.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if token == "" {
		return nil, apperr.Unauthorized("missing token")
	}
	claims, err := auth.ParseJWT(s.cfg.JWTSecret, token)
	if err != nil {
		return nil, apperr.Unauthorized("invalid or expired token")
	}
	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, apperr.Unauthorized("token has been revoked")
	}
	return claims, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}
	u, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("user no longer exists")
		}
		return nil, err
	}
	pub := u.Public()
	return &pub, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("User not found")
		}
		return err
	}
	if !auth.CheckPassword(u.PasswordHash, current) {
		return apperr.Validation("Current password is incorrect")
	}

	hash, err := auth.HashPassword(next, s.cfg.BCryptCost)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return apperr.Validation("%s", err.Error())
		}
		return fmt.Errorf("hash password: %w", err)
	}
	if _, err := s.userRepo.Update(ctx, userID, rowstore.Row{"passwordHash": hash, "updatedAt": clock()}); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// Logout revokes the token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.ValidateToken(ctx, token)
	if err != nil {
		return err
	}
	return s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}
