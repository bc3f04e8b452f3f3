package contract

import (
	"context"

	"media-courier-be/internal/entity"
	"media-courier-be/internal/repository/specification"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type PlanRepository interface {
	Create(ctx context.Context, plan *entity.Plan) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Plan, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Plan, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type RechargeRepository interface {
	Create(ctx context.Context, recharge *entity.Recharge) error
	Update(ctx context.Context, recharge *entity.Recharge) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Recharge, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Recharge, error)
	SumAmountCents(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type UsageRepository interface {
	Create(ctx context.Context, usage *entity.Usage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Usage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type WhitelistRepository interface {
	Create(ctx context.Context, entry *entity.WhitelistEntry) error
	DeleteByRequesterId(ctx context.Context, requesterId int64) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.WhitelistEntry, error)
}
