package repository

import (
	"context"
	stderrors "errors"

	"github.com/juju/errors"
	"gorm.io/gorm"

	"go-retail-store/internal/model"
)

type GroupRepository interface {
	FindAll(ctx context.Context) ([]model.Group, error)
	FindByName(ctx context.Context, name string) (*model.Group, error)
	SeedDefaults(ctx context.Context) error
}

type groupRepo struct {
	db *gorm.DB
}

func NewGroupRepo(db *gorm.DB) GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) FindAll(ctx context.Context) ([]model.Group, error) {
	var groups []model.Group
	err := r.db.WithContext(ctx).Order("id ASC").Find(&groups).Error
	return groups, errors.Trace(err)
}

func (r *groupRepo) FindByName(ctx context.Context, name string) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).Where("nome = ?", name).First(&group).Error
	if err != nil {
		return nil, translate(err, "group", name)
	}
	return &group, nil
}

// SeedDefaults creates the fixed account groups that do not exist yet.
func (r *groupRepo) SeedDefaults(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	for _, defaultGroup := range model.DefaultGroups {
		var existing model.Group
		err := db.Where("nome = ?", defaultGroup.Name).First(&existing).Error
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			group := defaultGroup
			if err := db.Create(&group).Error; err != nil {
				return errors.Annotatef(err, "seeding group %q", group.Name)
			}
			continue
		}
		if err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}
