package service

import (
	"errors"
	"syncup_backend/internal/model"
	"syncup_backend/internal/repository"
	"syncup_backend/internal/util"

	"gorm.io/gorm"
)

// UserService 处理用户资料相关的业务逻辑
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{
		UserRepo: userRepo,
	}
}

// ProfileUpdate 可更新字段，nil 表示不修改
type ProfileUpdate struct {
	Name     *string
	Username *string
	Bio      *string
	Avatar   *string
}

func (s *UserService) GetUserByID(id string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// UpdateProfile 更新资料。改用户名时重新查重。
func (s *UserService) UpdateProfile(id string, updates ProfileUpdate) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if updates.Username != nil && *updates.Username != user.Username {
		if _, err := s.UserRepo.FindByUsername(*updates.Username); err == nil {
			return nil, util.ErrUsernameTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Username = *updates.Username
	}
	if updates.Name != nil {
		user.Name = *updates.Name
	}
	if updates.Bio != nil {
		user.Bio = *updates.Bio
	}
	if updates.Avatar != nil {
		user.Avatar = *updates.Avatar
	}

	if err := s.UserRepo.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrUsernameTaken
		}
		return nil, err
	}

	user.Password = ""
	return user, nil
}
