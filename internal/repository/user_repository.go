package repository

import (
	"syncup_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id string) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, "id = ?", id).Error
	return &user, err
}

func (r *UserRepository) FindByIDs(ids []string) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ?", username).First(&user).Error
	return &user, err
}

// FindByEmailOrUsername 登录标识既可以是邮箱也可以是用户名
func (r *UserRepository) FindByEmailOrUsername(key string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ? OR username = ?", key, key).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

// Search 按用户名/昵称模糊搜索，用户名命中排在昵称命中之前
func (r *UserRepository) Search(query string, excludeID string, limit int) ([]model.User, error) {
	var users []model.User
	searchTerm := "%" + query + "%"

	db := r.DB.Select("id, name, username, email, avatar, bio, created_at, updated_at").
		Where("name LIKE ? OR username LIKE ?", searchTerm, searchTerm)

	if excludeID != "" {
		db = db.Where("id <> ?", excludeID)
	}

	err := db.Clauses(clause.OrderBy{
		Expression: gorm.Expr("CASE WHEN username LIKE ? THEN 1 WHEN name LIKE ? THEN 2 ELSE 3 END, name", searchTerm, searchTerm),
	}).
		Limit(limit).
		Find(&users).Error
	return users, err
}
