package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the write-model boundary: it carries a version for
// optimistic locking and collects domain events until they are published.
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	StoredVersion() int
	MarkStored(version int)
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides the version and event buffer every aggregate
// embeds.
type BaseAggregateRoot struct {
	BaseEntity
	Version       int           `gorm:"not null;default:1"`
	storedVersion int           `gorm:"-"`
	domainEvents  []DomainEvent `gorm:"-"`
}

// GetVersion returns the version used for optimistic locking.
func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

// IncrementVersion bumps the version; repositories check it on save.
func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

// StoredVersion returns the version the row carried when the aggregate
// was last read from or written to storage. Zero means never persisted.
// A single unit of work may bump Version several times before one save,
// so optimistic saves compare against this, not Version-1.
func (a *BaseAggregateRoot) StoredVersion() int { return a.storedVersion }

// MarkStored records the version now held by the row.
func (a *BaseAggregateRoot) MarkStored(version int) { a.storedVersion = version }

// AddDomainEvent buffers an event for publication after the aggregate is
// persisted.
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the buffered events.
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent { return a.domainEvents }

// ClearDomainEvents empties the buffer once events are published.
func (a *BaseAggregateRoot) ClearDomainEvents() { a.domainEvents = nil }

// NewBaseAggregateRoot starts an aggregate at version 1.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// BranchAggregateRoot extends BaseAggregateRoot with branch-office scoping.
// Every record in the back office belongs to exactly one project branch.
type BranchAggregateRoot struct {
	BaseAggregateRoot
	BranchID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"` // User who created this record
}

// NewBranchAggregateRoot creates a new branch-scoped aggregate root
func NewBranchAggregateRoot(branchID uuid.UUID) BranchAggregateRoot {
	return BranchAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		BranchID:          branchID,
	}
}

// NewBranchAggregateRootWithCreator creates a new branch-scoped aggregate root with creator info
func NewBranchAggregateRootWithCreator(branchID, createdBy uuid.UUID) BranchAggregateRoot {
	return BranchAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		BranchID:          branchID,
		CreatedBy:         &createdBy,
	}
}

// SetCreatedBy sets the creator user ID
func (b *BranchAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	b.CreatedBy = &userID
}

// GetCreatedBy returns the creator user ID
func (b *BranchAggregateRoot) GetCreatedBy() *uuid.UUID {
	return b.CreatedBy
}
