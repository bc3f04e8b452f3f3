package implementation

import (
	"context"
	"errors"

	"media-courier-be/internal/entity"
	"media-courier-be/internal/mapper"
	"media-courier-be/internal/model"
	"media-courier-be/internal/repository/contract"
	"media-courier-be/internal/repository/specification"

	"gorm.io/gorm"
)

type WhitelistRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WhitelistMapper
}

func NewWhitelistRepository(db *gorm.DB) contract.WhitelistRepository {
	return &WhitelistRepositoryImpl{
		db:     db,
		mapper: mapper.NewWhitelistMapper(),
	}
}

func (r *WhitelistRepositoryImpl) Create(ctx context.Context, entry *entity.WhitelistEntry) error {
	modelEntry := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(modelEntry).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(modelEntry)
	return nil
}

func (r *WhitelistRepositoryImpl) DeleteByRequesterId(ctx context.Context, requesterId int64) error {
	return r.db.WithContext(ctx).
		Where("requester_id = ?", requesterId).
		Delete(&model.WhitelistEntry{}).Error
}

func (r *WhitelistRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WhitelistEntry, error) {
	var modelEntry model.WhitelistEntry
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelEntry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelEntry), nil
}
