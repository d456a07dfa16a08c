package db

import (
	"context"

	"gorm.io/gorm"

	"github.com/TheWildEye/Evidential/internal/domain/custody"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user custody.User) error {
	if r == nil || r.db == nil {
		return errDBUnavailable
	}
	model := UserModel{
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return wrapStorage(err, "create user")
	}
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (custody.User, error) {
	if r == nil || r.db == nil {
		return custody.User{}, errDBUnavailable
	}
	var model UserModel
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Take(&model).Error
	if err != nil {
		return custody.User{}, wrapStorage(err, "get user")
	}
	return userFromModel(model), nil
}

func (r *UserRepository) ListCustodyEligible(ctx context.Context) ([]custody.User, error) {
	if r == nil || r.db == nil {
		return nil, errDBUnavailable
	}
	var models []UserModel
	err := r.db.WithContext(ctx).
		Where("role NOT IN ?", []string{string(custody.RoleSystemAdmin), string(custody.RoleAuditor)}).
		Order("role ASC, username ASC").
		Find(&models).Error
	if err != nil {
		return nil, wrapStorage(err, "list users")
	}
	out := make([]custody.User, 0, len(models))
	for _, model := range models {
		out = append(out, userFromModel(model))
	}
	return out, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, errDBUnavailable
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserModel{}).Count(&count).Error; err != nil {
		return 0, wrapStorage(err, "count users")
	}
	return count, nil
}

func userFromModel(model UserModel) custody.User {
	return custody.User{
		Username:     model.Username,
		PasswordHash: model.PasswordHash,
		Role:         custody.Role(model.Role),
	}
}
