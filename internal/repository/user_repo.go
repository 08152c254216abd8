package repository

import (
	"context"

	"github.com/juju/errors"
	"gorm.io/gorm"

	storeerrors "go-retail-store/internal/errors"
	"go-retail-store/internal/model"
)

type UserRepository interface {
	FindByLogin(ctx context.Context, login string) (*model.User, error)
	FindByID(ctx context.Context, id uint) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uint) error
	UpdatePassword(ctx context.Context, userID uint, hashedPassword string) error
	FindAll(ctx context.Context) ([]model.User, error)
	StartSession(ctx context.Context, userID uint, version string) error
	UpdateLastSeen(ctx context.Context, userID uint) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Group").Where("login = ?", login).First(&user).Error; err != nil {
		return nil, translate(err, "user", login)
	}
	return &user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Group").First(&user, id).Error; err != nil {
		return nil, translate(err, "user", id)
	}
	return &user, nil
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Omit("Group").Create(user).Error, "user", user.Login)
}

func (r *userRepo) UpdatePassword(ctx context.Context, userID uint, hashedPassword string) error {
	return r.updateColumns(ctx, userID, map[string]interface{}{"senha": hashedPassword})
}

func (r *userRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return translate(res.Error, "user", id)
	}
	if res.RowsAffected == 0 {
		return errors.Annotatef(storeerrors.NotFound, "user %d", id)
	}
	return nil
}

func (r *userRepo) FindAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Preload("Group").Order("id ASC").Find(&users).Error; err != nil {
		return nil, errors.Trace(err)
	}
	return users, nil
}

// StartSession rotates the token version, invalidating older tokens.
func (r *userRepo) StartSession(ctx context.Context, userID uint, version string) error {
	return r.updateColumns(ctx, userID, map[string]interface{}{
		"token_version": version,
		"ultimo_acesso": gorm.Expr("CURRENT_TIMESTAMP"),
	})
}

func (r *userRepo) UpdateLastSeen(ctx context.Context, userID uint) error {
	return r.updateColumns(ctx, userID, map[string]interface{}{"ultimo_acesso": gorm.Expr("CURRENT_TIMESTAMP")})
}

func (r *userRepo) updateColumns(ctx context.Context, userID uint, values map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(values)
	if res.Error != nil {
		return translate(res.Error, "user", userID)
	}
	if res.RowsAffected == 0 {
		return errors.Annotatef(storeerrors.NotFound, "user %d", userID)
	}
	return nil
}
