package specification

import (
	"fmt"

	"gorm.io/gorm"
)

// ByID filters by primary key
type ByID struct {
	ID uint
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

// ByRequesterId filters by the external requester identity
type ByRequesterId struct {
	RequesterId int64
}

func (s ByRequesterId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("requester_id = ?", s.RequesterId)
}

// BySlug filters plans by slug
type BySlug struct {
	Slug string
}

func (s BySlug) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("slug = ?", s.Slug)
}

// ByGatewayChargeId filters recharges by the gateway's charge id
type ByGatewayChargeId struct {
	ChargeId string
}

func (s ByGatewayChargeId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("gateway_charge_id = ?", s.ChargeId)
}

// ByStatus filters by a status column
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// OwnedBy filters rows belonging to a ledger user
type OwnedBy struct {
	UserId uint
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserId)
}

// OrderBy applies ordering
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}

// Limit caps the result set
type Limit struct {
	N int
}

func (s Limit) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.N)
}
