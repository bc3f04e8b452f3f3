package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"media-courier-be/internal/entity"
	"media-courier-be/internal/pkg/logger"
	"media-courier-be/internal/repository/specification"
	"media-courier-be/internal/repository/unitofwork"
	"media-courier-be/pkg/gateway"

	gocache "github.com/patrickmn/go-cache"
)

var ErrPlanNotFound = errors.New("plan not found")

// ILedgerService is the consumption ledger. Balance decrements only through
// DeductBalance and only when balance >= 1, so a balance is never negative.
// RecordUsage and DeductBalance are deliberately split: the usage row (and
// its caption id) exists before the delivery attempt, while the balance is
// charged only after a confirmed hand-off to the transport.
type ILedgerService interface {
	GetOrCreateUser(ctx context.Context, requesterId, chatRef int64) (*entity.User, error)
	IsExempt(ctx context.Context, requesterId int64) (bool, error)
	GetBalance(ctx context.Context, requesterId int64) (int, error)
	CanDownload(ctx context.Context, requesterId int64) (bool, error)

	// RecordUsage returns (nil, nil) when the requester is not exempt and has
	// no balance. It does not deduct.
	RecordUsage(ctx context.Context, requesterId int64, videoLink string, tokenCostUSD float64) (*entity.Usage, error)
	// DeductBalance returns true for exempt requesters, or when one post was
	// deducted. It is the only decrement path.
	DeductBalance(ctx context.Context, requesterId int64) (bool, error)

	GetPlans(ctx context.Context) ([]*entity.Plan, error)
	GetPlanBySlug(ctx context.Context, slug string) (*entity.Plan, error)
	CreateRecharge(ctx context.Context, requesterId, chatRef int64, planSlug string) (*entity.Recharge, *gateway.ChargeHandle, error)
	// ConfirmRecharge is idempotent: only a genuine pending->paid transition
	// credits the balance and returns true.
	ConfirmRecharge(ctx context.Context, gatewayChargeId string) (bool, error)

	UsageCount(ctx context.Context, requesterId int64) (int64, error)
	UsageHistory(ctx context.Context, requesterId int64, limit int) ([]*entity.Usage, error)
	TotalRechargedCents(ctx context.Context, requesterId int64) (int64, error)

	WhitelistAdd(ctx context.Context, requesterId int64, reason string) (bool, error)
	WhitelistRemove(ctx context.Context, requesterId int64) (bool, error)
}

const plansCacheKey = "plans"

type ledgerService struct {
	uowFactory     unitofwork.RepositoryFactory
	gateway        gateway.Gateway
	gatewayName    string
	starterBalance int
	planCache      *gocache.Cache
	log            logger.ILogger
}

func NewLedgerService(
	uowFactory unitofwork.RepositoryFactory,
	gw gateway.Gateway,
	gatewayName string,
	starterBalance int,
	log logger.ILogger,
) ILedgerService {
	return &ledgerService{
		uowFactory:     uowFactory,
		gateway:        gw,
		gatewayName:    gatewayName,
		starterBalance: starterBalance,
		planCache:      gocache.New(10*time.Minute, 30*time.Minute),
		log:            log,
	}
}

func (s *ledgerService) GetOrCreateUser(ctx context.Context, requesterId, chatRef int64) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByRequesterId{RequesterId: requesterId})
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &entity.User{
		RequesterId:  requesterId,
		ChatRef:      chatRef,
		BalancePosts: s.starterBalance,
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *ledgerService) IsExempt(ctx context.Context, requesterId int64) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	entry, err := uow.WhitelistRepository().FindOne(ctx, specification.ByRequesterId{RequesterId: requesterId})
	if err != nil {
		return false, err
	}
	return entry != nil, nil
}

func (s *ledgerService) GetBalance(ctx context.Context, requesterId int64) (int, error) {
	user, err := s.GetOrCreateUser(ctx, requesterId, requesterId)
	if err != nil {
		return 0, err
	}
	return user.BalancePosts, nil
}

func (s *ledgerService) CanDownload(ctx context.Context, requesterId int64) (bool, error) {
	exempt, err := s.IsExempt(ctx, requesterId)
	if err != nil {
		return false, err
	}
	if exempt {
		return true, nil
	}
	balance, err := s.GetBalance(ctx, requesterId)
	if err != nil {
		return false, err
	}
	return balance > 0, nil
}

func (s *ledgerService) RecordUsage(ctx context.Context, requesterId int64, videoLink string, tokenCostUSD float64) (*entity.Usage, error) {
	user, err := s.GetOrCreateUser(ctx, requesterId, requesterId)
	if err != nil {
		return nil, err
	}

	exempt, err := s.IsExempt(ctx, requesterId)
	if err != nil {
		return nil, err
	}
	if !exempt && user.BalancePosts < 1 {
		return nil, nil
	}

	usage := &entity.Usage{
		UserId:       user.Id,
		TokenCostUSD: tokenCostUSD,
		VideoLink:    videoLink,
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UsageRepository().Create(ctx, usage); err != nil {
		return nil, err
	}
	return usage, nil
}

func (s *ledgerService) DeductBalance(ctx context.Context, requesterId int64) (bool, error) {
	exempt, err := s.IsExempt(ctx, requesterId)
	if err != nil {
		return false, err
	}
	if exempt {
		return true, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().FindOne(ctx, specification.ByRequesterId{RequesterId: requesterId})
	if err != nil {
		return false, err
	}
	if user == nil || user.BalancePosts < 1 {
		return false, nil
	}

	user.BalancePosts--
	user.UpdatedAt = time.Now().UTC()
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return false, err
	}
	if err := uow.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *ledgerService) GetPlans(ctx context.Context) ([]*entity.Plan, error) {
	if cached, found := s.planCache.Get(plansCacheKey); found {
		return cached.([]*entity.Plan), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	plans, err := uow.PlanRepository().FindAll(ctx, specification.OrderBy{Field: "price_cents"})
	if err != nil {
		return nil, err
	}
	s.planCache.Set(plansCacheKey, plans, gocache.DefaultExpiration)
	return plans, nil
}

func (s *ledgerService) GetPlanBySlug(ctx context.Context, slug string) (*entity.Plan, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.PlanRepository().FindOne(ctx, specification.BySlug{Slug: slug})
}

func (s *ledgerService) CreateRecharge(ctx context.Context, requesterId, chatRef int64, planSlug string) (*entity.Recharge, *gateway.ChargeHandle, error) {
	if s.gateway == nil {
		return nil, nil, errors.New("no payment gateway configured")
	}

	plan, err := s.GetPlanBySlug(ctx, planSlug)
	if err != nil {
		return nil, nil, err
	}
	if plan == nil {
		return nil, nil, ErrPlanNotFound
	}

	user, err := s.GetOrCreateUser(ctx, requesterId, chatRef)
	if err != nil {
		return nil, nil, err
	}

	reference := fmt.Sprintf("recharge-%d-%s", user.Id, plan.Slug)
	description := fmt.Sprintf("%s (%d posts)", plan.Name, plan.PostsIncluded)
	handle, err := s.gateway.CreateCharge(ctx, plan.PriceCents, reference, fmt.Sprintf("%d", requesterId), description)
	if err != nil {
		return nil, nil, err
	}

	recharge := &entity.Recharge{
		UserId:          user.Id,
		PlanId:          plan.Id,
		AmountCents:     plan.PriceCents,
		PostsGranted:    plan.PostsIncluded,
		Gateway:         s.gatewayName,
		GatewayChargeId: handle.ChargeId,
		Status:          entity.RechargeStatusPending,
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.RechargeRepository().Create(ctx, recharge); err != nil {
		return nil, nil, err
	}
	return recharge, handle, nil
}

func (s *ledgerService) ConfirmRecharge(ctx context.Context, gatewayChargeId string) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer uow.Rollback()

	recharge, err := uow.RechargeRepository().FindOne(ctx,
		specification.ByGatewayChargeId{ChargeId: gatewayChargeId},
		specification.ByStatus{Status: string(entity.RechargeStatusPending)},
	)
	if err != nil {
		return false, err
	}
	if recharge == nil {
		// Unknown id, already confirmed, or cancelled.
		return false, nil
	}

	now := time.Now().UTC()
	recharge.Status = entity.RechargeStatusPaid
	recharge.PaidAt = &now
	if err := uow.RechargeRepository().Update(ctx, recharge); err != nil {
		return false, err
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: recharge.UserId})
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, fmt.Errorf("recharge %d references missing user %d", recharge.Id, recharge.UserId)
	}
	user.BalancePosts += recharge.PostsGranted
	user.UpdatedAt = now
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return false, err
	}

	if err := uow.Commit(); err != nil {
		return false, err
	}

	s.log.Info("ledger", "recharge confirmed", map[string]interface{}{
		"charge_id":     gatewayChargeId,
		"posts_granted": recharge.PostsGranted,
		"requester_id":  user.RequesterId,
	})
	return true, nil
}

func (s *ledgerService) UsageCount(ctx context.Context, requesterId int64) (int64, error) {
	user, err := s.GetOrCreateUser(ctx, requesterId, requesterId)
	if err != nil {
		return 0, err
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UsageRepository().Count(ctx, specification.OwnedBy{UserId: user.Id})
}

func (s *ledgerService) UsageHistory(ctx context.Context, requesterId int64, limit int) ([]*entity.Usage, error) {
	user, err := s.GetOrCreateUser(ctx, requesterId, requesterId)
	if err != nil {
		return nil, err
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UsageRepository().FindAll(ctx,
		specification.OwnedBy{UserId: user.Id},
		specification.OrderBy{Field: "used_at", Desc: true},
		specification.Limit{N: limit},
	)
}

func (s *ledgerService) TotalRechargedCents(ctx context.Context, requesterId int64) (int64, error) {
	user, err := s.GetOrCreateUser(ctx, requesterId, requesterId)
	if err != nil {
		return 0, err
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.RechargeRepository().SumAmountCents(ctx,
		specification.OwnedBy{UserId: user.Id},
		specification.ByStatus{Status: string(entity.RechargeStatusPaid)},
	)
}

func (s *ledgerService) WhitelistAdd(ctx context.Context, requesterId int64, reason string) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.WhitelistRepository().FindOne(ctx, specification.ByRequesterId{RequesterId: requesterId})
	if err != nil {
		return false, err
	}
	if existing != nil {
		return true, nil
	}
	entry := &entity.WhitelistEntry{
		RequesterId: requesterId,
		Reason:      reason,
	}
	if err := uow.WhitelistRepository().Create(ctx, entry); err != nil {
		return false, err
	}
	return true, nil
}

func (s *ledgerService) WhitelistRemove(ctx context.Context, requesterId int64) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	entry, err := uow.WhitelistRepository().FindOne(ctx, specification.ByRequesterId{RequesterId: requesterId})
	if err != nil {
		return false, err
	}
	if entry == nil {
		return false, nil
	}
	if err := uow.WhitelistRepository().DeleteByRequesterId(ctx, requesterId); err != nil {
		return false, err
	}
	return true, nil
}
