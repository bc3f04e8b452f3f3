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

type RechargeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RechargeMapper
}

func NewRechargeRepository(db *gorm.DB) contract.RechargeRepository {
	return &RechargeRepositoryImpl{
		db:     db,
		mapper: mapper.NewRechargeMapper(),
	}
}

func (r *RechargeRepositoryImpl) Create(ctx context.Context, recharge *entity.Recharge) error {
	modelRecharge := r.mapper.ToModel(recharge)
	if err := r.db.WithContext(ctx).Create(modelRecharge).Error; err != nil {
		return err
	}
	*recharge = *r.mapper.ToEntity(modelRecharge)
	return nil
}

func (r *RechargeRepositoryImpl) Update(ctx context.Context, recharge *entity.Recharge) error {
	modelRecharge := r.mapper.ToModel(recharge)
	if err := r.db.WithContext(ctx).Save(modelRecharge).Error; err != nil {
		return err
	}
	*recharge = *r.mapper.ToEntity(modelRecharge)
	return nil
}

func (r *RechargeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Recharge, error) {
	var modelRecharge model.Recharge
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelRecharge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelRecharge), nil
}

func (r *RechargeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Recharge, error) {
	var modelRecharges []*model.Recharge
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelRecharges).Error; err != nil {
		return nil, err
	}

	recharges := make([]*entity.Recharge, 0, len(modelRecharges))
	for _, m := range modelRecharges {
		recharges = append(recharges, r.mapper.ToEntity(m))
	}
	return recharges, nil
}

func (r *RechargeRepositoryImpl) SumAmountCents(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var total *int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Recharge{}), specs...)
	if err := query.Select("SUM(amount_cents)").Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
