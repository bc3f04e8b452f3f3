package mapper

import (
	"media-courier-be/internal/entity"
	"media-courier-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:           u.Id,
		RequesterId:  u.RequesterId,
		ChatRef:      u.ChatRef,
		BalancePosts: u.BalancePosts,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:           u.Id,
		RequesterId:  u.RequesterId,
		ChatRef:      u.ChatRef,
		BalancePosts: u.BalancePosts,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

type PlanMapper struct{}

func NewPlanMapper() *PlanMapper {
	return &PlanMapper{}
}

func (m *PlanMapper) ToEntity(p *model.Plan) *entity.Plan {
	if p == nil {
		return nil
	}
	return &entity.Plan{
		Id:            p.Id,
		Slug:          p.Slug,
		Name:          p.Name,
		PriceCents:    p.PriceCents,
		PostsIncluded: p.PostsIncluded,
	}
}

func (m *PlanMapper) ToModel(p *entity.Plan) *model.Plan {
	if p == nil {
		return nil
	}
	return &model.Plan{
		Id:            p.Id,
		Slug:          p.Slug,
		Name:          p.Name,
		PriceCents:    p.PriceCents,
		PostsIncluded: p.PostsIncluded,
	}
}

type RechargeMapper struct{}

func NewRechargeMapper() *RechargeMapper {
	return &RechargeMapper{}
}

func (m *RechargeMapper) ToEntity(r *model.Recharge) *entity.Recharge {
	if r == nil {
		return nil
	}
	return &entity.Recharge{
		Id:              r.Id,
		UserId:          r.UserId,
		PlanId:          r.PlanId,
		AmountCents:     r.AmountCents,
		PostsGranted:    r.PostsGranted,
		Gateway:         r.Gateway,
		GatewayChargeId: r.GatewayChargeId,
		Status:          entity.RechargeStatus(r.Status),
		CreatedAt:       r.CreatedAt,
		PaidAt:          r.PaidAt,
	}
}

func (m *RechargeMapper) ToModel(r *entity.Recharge) *model.Recharge {
	if r == nil {
		return nil
	}
	return &model.Recharge{
		Id:              r.Id,
		UserId:          r.UserId,
		PlanId:          r.PlanId,
		AmountCents:     r.AmountCents,
		PostsGranted:    r.PostsGranted,
		Gateway:         r.Gateway,
		GatewayChargeId: r.GatewayChargeId,
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt,
		PaidAt:          r.PaidAt,
	}
}

type UsageMapper struct{}

func NewUsageMapper() *UsageMapper {
	return &UsageMapper{}
}

func (m *UsageMapper) ToEntity(u *model.Usage) *entity.Usage {
	if u == nil {
		return nil
	}
	return &entity.Usage{
		Id:           u.Id,
		UserId:       u.UserId,
		UsedAt:       u.UsedAt,
		TokenCostUSD: u.TokenCostUSD,
		VideoLink:    u.VideoLink,
	}
}

func (m *UsageMapper) ToModel(u *entity.Usage) *model.Usage {
	if u == nil {
		return nil
	}
	return &model.Usage{
		Id:           u.Id,
		UserId:       u.UserId,
		UsedAt:       u.UsedAt,
		TokenCostUSD: u.TokenCostUSD,
		VideoLink:    u.VideoLink,
	}
}

type WhitelistMapper struct{}

func NewWhitelistMapper() *WhitelistMapper {
	return &WhitelistMapper{}
}

func (m *WhitelistMapper) ToEntity(w *model.WhitelistEntry) *entity.WhitelistEntry {
	if w == nil {
		return nil
	}
	return &entity.WhitelistEntry{
		Id:          w.Id,
		RequesterId: w.RequesterId,
		Reason:      w.Reason,
		CreatedAt:   w.CreatedAt,
	}
}

func (m *WhitelistMapper) ToModel(w *entity.WhitelistEntry) *model.WhitelistEntry {
	if w == nil {
		return nil
	}
	return &model.WhitelistEntry{
		Id:          w.Id,
		RequesterId: w.RequesterId,
		Reason:      w.Reason,
		CreatedAt:   w.CreatedAt,
	}
}
