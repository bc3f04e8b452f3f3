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

type PlanRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PlanMapper
}

func NewPlanRepository(db *gorm.DB) contract.PlanRepository {
	return &PlanRepositoryImpl{
		db:     db,
		mapper: mapper.NewPlanMapper(),
	}
}

func (r *PlanRepositoryImpl) Create(ctx context.Context, plan *entity.Plan) error {
	modelPlan := r.mapper.ToModel(plan)
	if err := r.db.WithContext(ctx).Create(modelPlan).Error; err != nil {
		return err
	}
	*plan = *r.mapper.ToEntity(modelPlan)
	return nil
}

func (r *PlanRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Plan, error) {
	var modelPlan model.Plan
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelPlan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelPlan), nil
}

func (r *PlanRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Plan, error) {
	var modelPlans []*model.Plan
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelPlans).Error; err != nil {
		return nil, err
	}

	plans := make([]*entity.Plan, 0, len(modelPlans))
	for _, p := range modelPlans {
		plans = append(plans, r.mapper.ToEntity(p))
	}
	return plans, nil
}

func (r *PlanRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Plan{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
