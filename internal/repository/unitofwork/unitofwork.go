package unitofwork

import (
	"context"

	"media-courier-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	PlanRepository() contract.PlanRepository
	RechargeRepository() contract.RechargeRepository
	UsageRepository() contract.UsageRepository
	WhitelistRepository() contract.WhitelistRepository
}
