package lifecycle

import (
	"errors"
	"testing"

	"buildseason/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_AllowedEdges(t *testing.T) {
	cases := []struct {
		action Action
		from   model.OrderStatus
		role   model.Role
		to     model.OrderStatus
	}{
		{ActionSubmit, model.OrderStatusDraft, model.RoleMentor, model.OrderStatusPending},
		{ActionSubmit, model.OrderStatusDraft, model.RoleAdmin, model.OrderStatusPending},
		{ActionApprove, model.OrderStatusPending, model.RoleAdmin, model.OrderStatusApproved},
		{ActionReject, model.OrderStatusPending, model.RoleAdmin, model.OrderStatusRejected},
		{ActionOrder, model.OrderStatusApproved, model.RoleMentor, model.OrderStatusOrdered},
		{ActionReceive, model.OrderStatusOrdered, model.RoleAdmin, model.OrderStatusReceived},
	}
	for _, tc := range cases {
		e, err := Check(tc.action, tc.from, tc.role)
		require.NoError(t, err, tc.action)
		assert.Equal(t, tc.to, e.To)
	}
}

func TestCheck_WrongState(t *testing.T) {
	_, err := Check(ActionSubmit, model.OrderStatusPending, model.RoleAdmin)

	var se *StateError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ActionSubmit, se.Action)
	assert.Equal(t, model.OrderStatusPending, se.Current)
	assert.Contains(t, err.Error(), "submit")
	assert.Contains(t, err.Error(), "pending")
}

func TestCheck_TerminalStatesHaveNoEdges(t *testing.T) {
	for _, st := range []model.OrderStatus{model.OrderStatusRejected, model.OrderStatusReceived} {
		for _, a := range actions {
			_, err := Check(a, st, model.RoleAdmin)
			var se *StateError
			assert.True(t, errors.As(err, &se), "%s from %s", a, st)
		}
		assert.Empty(t, Available(st, model.RoleAdmin))
	}
}

func TestCheck_RoleDenied(t *testing.T) {
	_, err := Check(ActionSubmit, model.OrderStatusDraft, model.RoleStudent)
	var re *RoleError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, model.RoleStudent, re.Role)

	_, err = Check(ActionApprove, model.OrderStatusPending, model.RoleMentor)
	assert.True(t, errors.As(err, &re))
}

func TestCheck_StateCheckedBeforeRole(t *testing.T) {
	_, err := Check(ActionApprove, model.OrderStatusDraft, model.RoleStudent)
	var se *StateError
	assert.True(t, errors.As(err, &se))
}

func TestCheck_UnknownAction(t *testing.T) {
	_, err := Check(Action("cancel"), model.OrderStatusDraft, model.RoleAdmin)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestAvailable(t *testing.T) {
	assert.Equal(t, []Action{ActionApprove, ActionReject}, Available(model.OrderStatusPending, model.RoleAdmin))
	assert.Empty(t, Available(model.OrderStatusPending, model.RoleMentor))
	assert.Equal(t, []Action{ActionSubmit}, Available(model.OrderStatusDraft, model.RoleMentor))
}
