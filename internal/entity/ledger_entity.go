package entity

import "time"

type RechargeStatus string

const (
	RechargeStatusPending   RechargeStatus = "pending"
	RechargeStatusPaid      RechargeStatus = "paid"
	RechargeStatusCancelled RechargeStatus = "cancelled"
	RechargeStatusExpired   RechargeStatus = "expired"
)

// User holds the post balance for one requester. Created lazily on first
// interaction, never deleted.
type User struct {
	Id           uint
	RequesterId  int64
	ChatRef      int64
	BalancePosts int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Plan is static reference data seeded once (basic, pro, creator).
type Plan struct {
	Id            uint
	Slug          string
	Name          string
	PriceCents    int
	PostsIncluded int
}

// Recharge is one purchase. It is created pending and moves to paid at most
// once per gateway charge id.
type Recharge struct {
	Id              uint
	UserId          uint
	PlanId          uint
	AmountCents     int
	PostsGranted    int
	Gateway         string
	GatewayChargeId string
	Status          RechargeStatus
	CreatedAt       time.Time
	PaidAt          *time.Time
}

// Usage is one accounted consumption attempt. Its id feeds the delivered
// caption tag, so rows are never renumbered or purged.
type Usage struct {
	Id           uint
	UserId       uint
	UsedAt       time.Time
	TokenCostUSD float64
	VideoLink    string
}

// WhitelistEntry grants unlimited, unbilled access to a requester.
type WhitelistEntry struct {
	Id          uint
	RequesterId int64
	Reason      string
	CreatedAt   time.Time
}
