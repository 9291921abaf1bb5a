package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"keymarket/internal/config"
	"keymarket/internal/dto"
	"keymarket/internal/model"
	"keymarket/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginMeta carries request attributes the handler extracts for the audit
// trail.
type LoginMeta struct {
	IPAddress string
	UserAgent string
}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest, meta LoginMeta) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, includeInactive bool) ([]dto.UserResponse, error)
	UpdateUser(ctx context.Context, id uint, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeactivateUser(ctx context.Context, id uint) error
	ReactivateUser(ctx context.Context, id uint) error
	ListLoginHistory(ctx context.Context, userID *uint, page, limit int) (*dto.LoginHistoryListResponse, error)
}

type authService struct {
	repo    repository.UserRepository
	history repository.LoginHistoryRepository
	cfg     *config.Config
}

func NewAuthService(repo repository.UserRepository, history repository.LoginHistoryRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, history: history, cfg: cfg}
}

// Login verifies credentials and issues a token pair. Every attempt is
// recorded in login_history; failures against unknown usernames get a row
// with a NULL user_id.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest, meta LoginMeta) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		s.audit(ctx, nil, meta, model.LoginFailed)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.audit(ctx, &user.ID, meta, model.LoginFailed)
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		s.audit(ctx, &user.ID, meta, model.LoginFailed)
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, &user.ID, meta, model.LoginSuccess)

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         userToResponse(user),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("refresh token invalid or expired")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("malformed token claims")
	}
	idFloat, ok := claims["user_id"].(float64)
	if !ok {
		return nil, errors.New("malformed token claims")
	}

	user, err := s.repo.FindByID(ctx, uint(idFloat))
	if err != nil || !user.IsActive {
		return nil, errors.New("user not found or inactive")
	}

	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         userToResponse(user),
	}, nil
}

func (s *authService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:     req.Username,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errors.New("username already taken")
		}
		return nil, err
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *authService) ListUsers(ctx context.Context, includeInactive bool) ([]dto.UserResponse, error) {
	users, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) UpdateUser(ctx context.Context, id uint, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("user not found")
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *authService) DeactivateUser(ctx context.Context, id uint) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *authService) ReactivateUser(ctx context.Context, id uint) error {
	return s.repo.Reactivate(ctx, id)
}

func (s *authService) ListLoginHistory(ctx context.Context, userID *uint, page, limit int) (*dto.LoginHistoryListResponse, error) {
	var (
		rows  []model.LoginHistory
		total int64
		err   error
	)
	if userID != nil {
		rows, total, err = s.history.ListByUser(ctx, *userID, page, limit)
	} else {
		rows, total, err = s.history.ListRecent(ctx, page, limit)
	}
	if err != nil {
		return nil, err
	}

	items := make([]dto.LoginHistoryItem, len(rows))
	for i, h := range rows {
		items[i] = dto.LoginHistoryItem{
			ID:        h.ID.String(),
			UserID:    h.UserID,
			IPAddress: h.IPAddress,
			UserAgent: h.UserAgent,
			Device:    h.Device,
			Status:    h.Status,
			LoginTime: h.LoginTime.UTC().Format(time.RFC3339),
		}
	}
	return &dto.LoginHistoryListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}

// audit writes the login_history row best-effort; an audit write failure
// must not turn a valid login into an error.
func (s *authService) audit(ctx context.Context, userID *uint, meta LoginMeta, status string) {
	_ = s.history.Create(ctx, &model.LoginHistory{
		UserID:    userID,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Device:    deviceFromUserAgent(meta.UserAgent),
		Status:    status,
	})
}

// deviceFromUserAgent is a coarse classifier, enough for the audit listing.
func deviceFromUserAgent(ua string) string {
	ua = strings.ToLower(ua)
	switch {
	case strings.Contains(ua, "mobile") || strings.Contains(ua, "android") || strings.Contains(ua, "iphone"):
		return "mobile"
	case strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad"):
		return "tablet"
	case ua == "":
		return "unknown"
	default:
		return "desktop"
	}
}

func (s *authService) generateToken(user *model.User, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func userToResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}
