package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/gemach/admin-console/internal/core/domain"
	"github.com/gemach/admin-console/internal/core/ports"
)

const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour

	defaultPageLimit = 20
	maxPageLimit     = 100
)

// AuthConfig holds the signing secret and token lifetimes.
type AuthConfig struct {
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// AuthService implements registration, login and the token lifecycle of
// the reference backend.
type AuthService struct {
	users   ports.UserRepository
	refresh ports.RefreshTokenRepository
	cfg     AuthConfig
	log     zerolog.Logger
	now     func() time.Time
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(users ports.UserRepository, refresh ports.RefreshTokenRepository, cfg AuthConfig, log zerolog.Logger) *AuthService {
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if cfg.RefreshTokenTTL <= 0 {
		cfg.RefreshTokenTTL = DefaultRefreshTokenTTL
	}
	return &AuthService{users: users, refresh: refresh, cfg: cfg, log: log, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.AuthResult, error) {
	user, err := s.createUser(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, user)
}

// Seed creates the account unless one with the same email exists.
func (s *AuthService) Seed(ctx context.Context, in ports.RegisterInput) error {
	_, err := s.createUser(ctx, in)
	if errors.Is(err, domain.ErrUserExists) {
		return nil
	}
	return err
}

func (s *AuthService) createUser(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	role := in.Role
	if role == "" {
		role = domain.RoleVolunteer
	}
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("register: unknown role %q: %w", role, domain.ErrInvalidCredentials)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	return s.users.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         role,
		IsActive:     true,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Login never tells an unknown email apart from a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}
	return s.issue(ctx, user)
}

// Refresh consumes refreshToken and issues a new pair. A token is accepted once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if refreshToken == "" {
		return nil, domain.ErrInvalidRefreshToken
	}
	userID, err := s.refresh.Consume(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}
	return s.issue(ctx, user)
}

// Logout revokes refreshToken, or every refresh token of userID when none is given.
func (s *AuthService) Logout(ctx context.Context, userID, refreshToken string) error {
	if refreshToken == "" {
		return s.refresh.RevokeUser(ctx, userID)
	}

	owner, err := s.refresh.Consume(ctx, refreshToken)
	if errors.Is(err, domain.ErrInvalidRefreshToken) {
		return nil
	}
	if err != nil {
		return err
	}
	if owner != userID {
		s.log.Warn().Str("user_id", userID).Msg("logout presented a refresh token owned by another user")
		return domain.ErrForbidden
	}
	return nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) ListUsers(ctx context.Context, page, limit int) (*domain.Page[domain.User], error) {
	page, limit = normalizePage(page, limit)
	users, total, err := s.users.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return &domain.Page[domain.User]{Items: users, Total: total, Page: page, Limit: limit}, nil
}

func (s *AuthService) issue(ctx context.Context, user *domain.User) (*domain.AuthResult, error) {
	access, err := s.signAccessToken(user)
	if err != nil {
		return nil, err
	}

	refresh := rand.Text()
	if err := s.refresh.Save(ctx, refresh, user.ID, s.cfg.RefreshTokenTTL); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}
	return &domain.AuthResult{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

func (s *AuthService) signAccessToken(user *domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.AccessTokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.JWTSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
