package service

import (
	"context"
	"errors"
	"strings"

	"cliptube/internal/api/dto"
	"cliptube/internal/config"
	"cliptube/internal/model"
	"cliptube/internal/repository"
	"cliptube/pkg/logger"
	"cliptube/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("用户不存在")
	ErrUsernameExists    = errors.New("用户名已存在")
	ErrEmailExists       = errors.New("邮箱已被注册")
	ErrInvalidCredential = errors.New("用户名或密码错误")
	ErrInvalidRefresh    = errors.New("刷新令牌无效或已过期")
	ErrWrongOldPassword  = errors.New("原密码错误")
)

type AuthService struct {
	userRepo repository.UserStore
	sessions SessionStore
	media    MediaStore
}

func NewAuthService(userRepo repository.UserStore, sessions SessionStore, media MediaStore) *AuthService {
	return &AuthService{userRepo: userRepo, sessions: sessions, media: media}
}

// Register 用户注册，头像文件可选（本地临时路径）
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest, avatarPath string) (*dto.UserInfo, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepo.ExistsByUsername(username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	exists, err = s.userRepo.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: username,
		Email:    email,
		FullName: req.FullName,
		Password: hashedPassword,
	}

	if avatarPath != "" {
		url, err := s.media.StoreImage(ctx, avatarPath)
		if err != nil {
			return nil, err
		}
		user.Avatar = &url
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// Login 用户登录，签发访问令牌与刷新令牌
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenData, error) {
	if req.Username == "" && req.Email == "" {
		return nil, ErrInvalidCredential
	}

	user, err := s.lookupUser(req.Username, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredential
	}

	return s.issueTokens(ctx, user)
}

// Refresh 用刷新令牌换新的令牌对（旋转：旧令牌作废）
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenData, error) {
	claims, err := utils.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	userID, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	if userID != claims.UserID {
		return nil, ErrInvalidRefresh
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.sessions.Delete(ctx, claims.ID); err != nil {
		logger.Warn("Revoke rotated refresh token failed", zap.Error(err))
	}

	return s.issueTokens(ctx, user)
}

// Logout 注销：吊销刷新令牌
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := utils.ParseRefreshToken(refreshToken)
	if err != nil {
		return ErrInvalidRefresh
	}
	return s.sessions.Delete(ctx, claims.ID)
}

// ChangePassword 修改密码
func (s *AuthService) ChangePassword(userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !utils.VerifyPassword(req.OldPassword, user.Password) {
		return ErrWrongOldPassword
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	_, err = s.userRepo.Update(userID, map[string]interface{}{"password": hashed})
	return err
}

// GetCurrentUser 根据用户 ID 获取用户信息
func (s *AuthService) GetCurrentUser(userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserInfo(user), nil
}

func (s *AuthService) lookupUser(username, email string) (*model.User, error) {
	if username != "" {
		return s.userRepo.GetByUsername(strings.ToLower(strings.TrimSpace(username)))
	}
	return s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
}

func (s *AuthService) issueTokens(ctx context.Context, user *model.User) (*dto.TokenData, error) {
	accessToken, err := utils.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, err
	}

	tokenID := utils.NewTokenID()
	refreshToken, err := utils.GenerateRefreshToken(user.ID, tokenID)
	if err != nil {
		return nil, err
	}

	cfg := config.GetJWT()
	if err := s.sessions.Save(ctx, tokenID, user.ID, cfg.RefreshExpireDuration()); err != nil {
		return nil, err
	}

	return &dto.TokenData{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int(cfg.AccessExpireDuration().Seconds()),
		User:         *toUserInfo(user),
	}, nil
}

func toUserInfo(user *model.User) *dto.UserInfo {
	return &dto.UserInfo{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FullName:   user.FullName,
		Avatar:     user.Avatar,
		CoverImage: user.CoverImage,
	}
}
