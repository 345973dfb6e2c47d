package finance

import (
	"fmt"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ApproverRole identifies who may act on a pending document
type ApproverRole string

const (
	RoleFinanceClerk   ApproverRole = "FINANCE_CLERK"
	RoleFinanceManager ApproverRole = "FINANCE_MANAGER"
	RoleAdmin          ApproverRole = "ADMIN"
)

// IsValid checks if the role is a valid ApproverRole
func (r ApproverRole) IsValid() bool {
	switch r {
	case RoleFinanceClerk, RoleFinanceManager, RoleAdmin:
		return true
	}
	return false
}

// String returns the string representation of ApproverRole
func (r ApproverRole) String() string {
	return string(r)
}

// ownsLevel reports whether the role may act on the given approval level
func (r ApproverRole) ownsLevel(level int) bool {
	switch level {
	case 1:
		return r == RoleFinanceClerk
	case 2:
		return r == RoleFinanceManager || r == RoleAdmin
	}
	return false
}

// IsSenior reports whether the role may decide cancellation settlements
func (r ApproverRole) IsSenior() bool {
	return r == RoleFinanceManager || r == RoleAdmin
}

// ApprovalStatus is the state of a document in the approval chain
type ApprovalStatus string

const (
	ApprovalStatusDraft         ApprovalStatus = "DRAFT"
	ApprovalStatusPendingLevel1 ApprovalStatus = "PENDING_LEVEL_1"
	ApprovalStatusPendingLevel2 ApprovalStatus = "PENDING_LEVEL_2"
	ApprovalStatusApproved      ApprovalStatus = "APPROVED"
	ApprovalStatusRejected      ApprovalStatus = "REJECTED"
)

// IsValid checks if the status is a valid ApprovalStatus
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalStatusDraft, ApprovalStatusPendingLevel1, ApprovalStatusPendingLevel2,
		ApprovalStatusApproved, ApprovalStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of ApprovalStatus
func (s ApprovalStatus) String() string {
	return string(s)
}

// pendingLevel returns the level awaiting a decision, or 0
func (s ApprovalStatus) pendingLevel() int {
	switch s {
	case ApprovalStatusPendingLevel1:
		return 1
	case ApprovalStatusPendingLevel2:
		return 2
	}
	return 0
}

// ApprovalAction is one kind of step in the approval history
type ApprovalAction string

const (
	ActionSubmit  ApprovalAction = "SUBMIT"
	ActionApprove ApprovalAction = "APPROVE"
	ActionReject  ApprovalAction = "REJECT"
)

// ApprovalRecord is one append-only entry in a document's approval history
type ApprovalRecord struct {
	ID        uuid.UUID      `json:"id"`
	ActorID   uuid.UUID      `json:"actor_id"`
	Role      ApproverRole   `json:"role"`
	Level     int            `json:"level"`
	Action    ApprovalAction `json:"action"`
	Timestamp time.Time      `json:"timestamp"`
	Remarks   string         `json:"remarks"`
}

// Approval is the two-level approval state machine embedded in approvable
// documents. Level 1 belongs to the finance clerk, level 2 to the finance
// manager or admin. History is append-only and the ledger posting flag is
// set at most once.
type Approval struct {
	Status         ApprovalStatus   `json:"status"`
	PostedToLedger bool             `json:"posted_to_ledger"`
	PostedAt       *time.Time       `json:"posted_at"`
	History        []ApprovalRecord `json:"history"`
}

// NewApproval creates an approval in draft state
func NewApproval() Approval {
	return Approval{
		Status:  ApprovalStatusDraft,
		History: make([]ApprovalRecord, 0),
	}
}

// IsEditable returns true while the document body may still be changed
func (a *Approval) IsEditable() bool {
	return a.Status == ApprovalStatusDraft || a.Status == ApprovalStatusRejected
}

// IsApproved returns true once both levels have approved
func (a *Approval) IsApproved() bool {
	return a.Status == ApprovalStatusApproved
}

// Submit moves a draft or rejected document into the first pending level
func (a *Approval) Submit(actorID uuid.UUID, role ApproverRole, now time.Time) error {
	if !a.IsEditable() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot submit a document in %s status", a.Status))
	}

	a.Status = ApprovalStatusPendingLevel1
	a.record(actorID, role, 1, ActionSubmit, "", now)

	return nil
}

// Approve advances the document one level. The acting role must own the
// level currently pending, otherwise FORBIDDEN and no state change.
func (a *Approval) Approve(actorID uuid.UUID, role ApproverRole, remarks string, now time.Time) error {
	level := a.Status.pendingLevel()
	if level == 0 {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot approve a document in %s status", a.Status))
	}
	if !role.ownsLevel(level) {
		return shared.NewDomainError("FORBIDDEN",
			fmt.Sprintf("Role %s cannot approve at level %d", role, level))
	}

	if level == 1 {
		a.Status = ApprovalStatusPendingLevel2
	} else {
		a.Status = ApprovalStatusApproved
	}
	a.record(actorID, role, level, ActionApprove, remarks, now)

	return nil
}

// Reject declines the document from either pending level. The acting role
// must own the level currently pending.
func (a *Approval) Reject(actorID uuid.UUID, role ApproverRole, remarks string, now time.Time) error {
	level := a.Status.pendingLevel()
	if level == 0 {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot reject a document in %s status", a.Status))
	}
	if !role.ownsLevel(level) {
		return shared.NewDomainError("FORBIDDEN",
			fmt.Sprintf("Role %s cannot reject at level %d", role, level))
	}
	if remarks == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection remarks are required")
	}

	a.Status = ApprovalStatusRejected
	a.record(actorID, role, level, ActionReject, remarks, now)

	return nil
}

// MarkPosted records that the approved document has been posted to the
// ledger. A second call fails so posting stays exactly-once.
func (a *Approval) MarkPosted(now time.Time) error {
	if !a.IsApproved() {
		return shared.NewDomainError("INVALID_STATE", "Only an approved document can be posted")
	}
	if a.PostedToLedger {
		return shared.NewDomainError("CONFLICT", "Document has already been posted to the ledger")
	}

	a.PostedToLedger = true
	posted := now
	a.PostedAt = &posted

	return nil
}

func (a *Approval) record(actorID uuid.UUID, role ApproverRole, level int, action ApprovalAction, remarks string, now time.Time) {
	a.History = append(a.History, ApprovalRecord{
		ID:        uuid.New(),
		ActorID:   actorID,
		Role:      role,
		Level:     level,
		Action:    action,
		Timestamp: now,
		Remarks:   remarks,
	})
}
