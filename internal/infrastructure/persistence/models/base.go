package models

import (
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel carries the persistence columns every table shares, mirroring
// the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain maps the shared columns back to a BaseEntity.
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity copies the shared columns from a BaseEntity.
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel adds the optimistic-locking version column used by
// aggregate root tables.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot copies the shared columns from a BaseAggregateRoot.
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// BranchAggregateModel provides common persistence fields for branch-scoped
// aggregate roots. It extends AggregateModel with branch ID and creator info.
type BranchAggregateModel struct {
	AggregateModel
	BranchID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"`
}

// FromDomainBranchAggregateRoot populates BranchAggregateModel from domain BranchAggregateRoot
func (m *BranchAggregateModel) FromDomainBranchAggregateRoot(b shared.BranchAggregateRoot) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.BranchID = b.BranchID
	m.CreatedBy = b.CreatedBy
}

// PopulateBranchAggregateRoot populates a domain BranchAggregateRoot from persistence model
func (m *BranchAggregateModel) PopulateBranchAggregateRoot(b *shared.BranchAggregateRoot) {
	b.BaseAggregateRoot.BaseEntity.ID = m.ID
	b.BaseAggregateRoot.BaseEntity.CreatedAt = m.CreatedAt
	b.BaseAggregateRoot.BaseEntity.UpdatedAt = m.UpdatedAt
	b.BaseAggregateRoot.Version = m.Version
	b.MarkStored(m.Version)
	b.BranchID = m.BranchID
	b.CreatedBy = m.CreatedBy
}
