package finance

import (
	"testing"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var approvalNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func TestApprovalHappyPath(t *testing.T) {
	a := NewApproval()
	assert.Equal(t, ApprovalStatusDraft, a.Status)
	assert.True(t, a.IsEditable())

	clerk := uuid.New()
	manager := uuid.New()

	require.NoError(t, a.Submit(clerk, RoleFinanceClerk, approvalNow))
	assert.Equal(t, ApprovalStatusPendingLevel1, a.Status)
	assert.False(t, a.IsEditable())

	require.NoError(t, a.Approve(clerk, RoleFinanceClerk, "checked", approvalNow))
	assert.Equal(t, ApprovalStatusPendingLevel2, a.Status)

	require.NoError(t, a.Approve(manager, RoleFinanceManager, "ok", approvalNow))
	assert.Equal(t, ApprovalStatusApproved, a.Status)
	assert.True(t, a.IsApproved())

	require.Len(t, a.History, 3)
	assert.Equal(t, ActionSubmit, a.History[0].Action)
	assert.Equal(t, 1, a.History[1].Level)
	assert.Equal(t, 2, a.History[2].Level)
}

func TestApprovalRoleEnforcement(t *testing.T) {
	actor := uuid.New()

	tests := []struct {
		name     string
		status   ApprovalStatus
		role     ApproverRole
		wantCode string
	}{
		{"manager cannot approve level 1", ApprovalStatusPendingLevel1, RoleFinanceManager, "FORBIDDEN"},
		{"admin cannot approve level 1", ApprovalStatusPendingLevel1, RoleAdmin, "FORBIDDEN"},
		{"clerk cannot approve level 2", ApprovalStatusPendingLevel2, RoleFinanceClerk, "FORBIDDEN"},
		{"approve in draft", ApprovalStatusDraft, RoleFinanceClerk, "INVALID_STATE"},
		{"approve when approved", ApprovalStatusApproved, RoleFinanceManager, "INVALID_STATE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Approval{Status: tt.status}

			err := a.Approve(actor, tt.role, "", approvalNow)
			require.Error(t, err)
			de, ok := err.(*shared.DomainError)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, de.Code)

			// state unchanged on refusal
			assert.Equal(t, tt.status, a.Status)
			assert.Empty(t, a.History)
		})
	}
}

func TestApprovalReject(t *testing.T) {
	actor := uuid.New()

	t.Run("clerk rejects at level 1", func(t *testing.T) {
		a := NewApproval()
		require.NoError(t, a.Submit(actor, RoleFinanceClerk, approvalNow))

		require.NoError(t, a.Reject(actor, RoleFinanceClerk, "amount mismatch", approvalNow))
		assert.Equal(t, ApprovalStatusRejected, a.Status)
		assert.True(t, a.IsEditable())
	})

	t.Run("manager rejects at level 2", func(t *testing.T) {
		a := NewApproval()
		require.NoError(t, a.Submit(actor, RoleFinanceClerk, approvalNow))
		require.NoError(t, a.Approve(actor, RoleFinanceClerk, "", approvalNow))

		require.NoError(t, a.Reject(actor, RoleAdmin, "not budgeted", approvalNow))
		assert.Equal(t, ApprovalStatusRejected, a.Status)
	})

	t.Run("wrong role cannot reject", func(t *testing.T) {
		a := NewApproval()
		require.NoError(t, a.Submit(actor, RoleFinanceClerk, approvalNow))

		err := a.Reject(actor, RoleFinanceManager, "nope", approvalNow)
		require.Error(t, err)
		de, ok := err.(*shared.DomainError)
		require.True(t, ok)
		assert.Equal(t, "FORBIDDEN", de.Code)
		assert.Equal(t, ApprovalStatusPendingLevel1, a.Status)
	})

	t.Run("rejection requires remarks", func(t *testing.T) {
		a := NewApproval()
		require.NoError(t, a.Submit(actor, RoleFinanceClerk, approvalNow))

		err := a.Reject(actor, RoleFinanceClerk, "", approvalNow)
		require.Error(t, err)
	})
}

func TestApprovalResubmit(t *testing.T) {
	actor := uuid.New()
	a := NewApproval()

	require.NoError(t, a.Submit(actor, RoleFinanceClerk, approvalNow))
	require.NoError(t, a.Reject(actor, RoleFinanceClerk, "fix the reference", approvalNow))

	require.NoError(t, a.Submit(actor, RoleFinanceClerk, approvalNow))
	assert.Equal(t, ApprovalStatusPendingLevel1, a.Status)
	assert.Len(t, a.History, 3)

	err := a.Submit(actor, RoleFinanceClerk, approvalNow)
	require.Error(t, err)
}

func TestApprovalMarkPosted(t *testing.T) {
	actor := uuid.New()
	a := NewApproval()
	require.NoError(t, a.Submit(actor, RoleFinanceClerk, approvalNow))
	require.NoError(t, a.Approve(actor, RoleFinanceClerk, "", approvalNow))

	err := a.MarkPosted(approvalNow)
	require.Error(t, err, "cannot post before approval completes")

	require.NoError(t, a.Approve(actor, RoleFinanceManager, "", approvalNow))
	require.NoError(t, a.MarkPosted(approvalNow))
	assert.True(t, a.PostedToLedger)
	require.NotNil(t, a.PostedAt)

	err = a.MarkPosted(approvalNow)
	require.Error(t, err)
	de, ok := err.(*shared.DomainError)
	require.True(t, ok)
	assert.Equal(t, "CONFLICT", de.Code)
}

func TestApproverRoles(t *testing.T) {
	assert.True(t, RoleFinanceClerk.IsValid())
	assert.False(t, ApproverRole("INTERN").IsValid())

	assert.False(t, RoleFinanceClerk.IsSenior())
	assert.True(t, RoleFinanceManager.IsSenior())
	assert.True(t, RoleAdmin.IsSenior())
}
