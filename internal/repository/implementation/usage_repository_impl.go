package implementation

import (
	"context"

	"media-courier-be/internal/entity"
	"media-courier-be/internal/mapper"
	"media-courier-be/internal/model"
	"media-courier-be/internal/repository/contract"
	"media-courier-be/internal/repository/specification"

	"gorm.io/gorm"
)

type UsageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UsageMapper
}

func NewUsageRepository(db *gorm.DB) contract.UsageRepository {
	return &UsageRepositoryImpl{
		db:     db,
		mapper: mapper.NewUsageMapper(),
	}
}

func (r *UsageRepositoryImpl) Create(ctx context.Context, usage *entity.Usage) error {
	modelUsage := r.mapper.ToModel(usage)
	if err := r.db.WithContext(ctx).Create(modelUsage).Error; err != nil {
		return err
	}
	*usage = *r.mapper.ToEntity(modelUsage)
	return nil
}

func (r *UsageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Usage, error) {
	var modelUsages []*model.Usage
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelUsages).Error; err != nil {
		return nil, err
	}

	usages := make([]*entity.Usage, 0, len(modelUsages))
	for _, u := range modelUsages {
		usages = append(usages, r.mapper.ToEntity(u))
	}
	return usages, nil
}

func (r *UsageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Usage{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
