package model

import "time"

type User struct {
	Id           uint      `gorm:"primaryKey;autoIncrement"`
	RequesterId  int64     `gorm:"uniqueIndex;not null"`
	ChatRef      int64     `gorm:"index;not null"`
	BalancePosts int       `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

type Plan struct {
	Id            uint   `gorm:"primaryKey;autoIncrement"`
	Slug          string `gorm:"type:varchar(32);uniqueIndex;not null"`
	Name          string `gorm:"type:varchar(64);not null"`
	PriceCents    int    `gorm:"not null"`
	PostsIncluded int    `gorm:"not null"`
}

func (Plan) TableName() string {
	return "plans"
}

type Recharge struct {
	Id              uint      `gorm:"primaryKey;autoIncrement"`
	UserId          uint      `gorm:"not null;index"`
	PlanId          uint      `gorm:"not null"`
	AmountCents     int       `gorm:"not null"`
	PostsGranted    int       `gorm:"not null"`
	Gateway         string    `gorm:"type:varchar(64);not null"`
	GatewayChargeId string    `gorm:"type:varchar(256);uniqueIndex;not null"`
	Status          string    `gorm:"type:varchar(32);not null"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	PaidAt          *time.Time
}

func (Recharge) TableName() string {
	return "recharges"
}

type Usage struct {
	Id           uint      `gorm:"primaryKey;autoIncrement"`
	UserId       uint      `gorm:"not null;index"`
	UsedAt       time.Time `gorm:"autoCreateTime"`
	TokenCostUSD float64   `gorm:"not null;default:0"`
	VideoLink    string    `gorm:"type:varchar(2048)"`
}

func (Usage) TableName() string {
	return "usages"
}

type WhitelistEntry struct {
	Id          uint      `gorm:"primaryKey;autoIncrement"`
	RequesterId int64     `gorm:"uniqueIndex;not null"`
	Reason      string    `gorm:"type:varchar(256)"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (WhitelistEntry) TableName() string {
	return "whitelist_entries"
}

// All lists every ledger model for automigration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Plan{},
		&Recharge{},
		&Usage{},
		&WhitelistEntry{},
	}
}
