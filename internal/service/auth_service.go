package service

import (
	"errors"
	"syncup_backend/internal/config"
	"syncup_backend/internal/model"
	"syncup_backend/internal/repository"
	"syncup_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// dummyHash 对不存在的账号也执行一次 bcrypt 比较，
// 让"账号不存在"和"密码错误"的耗时不可区分
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("syncup-timing-pad"), bcrypt.DefaultCost)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

// TokenPair 注册/登录时同时签发的两个令牌
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register 创建新用户。邮箱、用户名先显式查重给出精确错误；
// 并发穿透交给存储层唯一索引兜底，再反查一次定位冲突字段。
func (s *AuthService) Register(name, username, email, password, bio string) (*model.User, error) {
	if _, err := s.UserRepo.FindByEmail(email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.UserRepo.FindByUsername(username); err == nil {
		return nil, util.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     name,
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
		Bio:      bio,
	}
	if err := s.UserRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if _, uerr := s.UserRepo.FindByUsername(username); uerr == nil {
				return nil, util.ErrUsernameTaken
			}
			return nil, util.ErrEmailRegistered
		}
		return nil, err
	}

	user.Password = ""
	return user, nil
}

// VerifyCredential 按邮箱或用户名验证口令。
// 账号不存在和密码错误统一返回 ErrInvalidCredentials。
func (s *AuthService) VerifyCredential(key, password string) (*model.User, error) {
	user, err := s.UserRepo.FindByEmailOrUsername(key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	user.Password = ""
	return user, nil
}

// IssueTokens 签发访问 + 刷新令牌
func (s *AuthService) IssueTokens(user *model.User) (*TokenPair, error) {
	accessToken, err := util.GenerateAccessToken(user, s.Cfg.JWT.Secret, s.Cfg.JWT.AccessExpire)
	if err != nil {
		return nil, err
	}
	refreshToken, err := util.GenerateRefreshToken(user, s.Cfg.JWT.Secret, s.Cfg.JWT.RefreshExpire)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Login 验证凭据并签发令牌
func (s *AuthService) Login(key, password string) (*model.User, *TokenPair, error) {
	user, err := s.VerifyCredential(key, password)
	if err != nil {
		return nil, nil, err
	}
	tokens, err := s.IssueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}
