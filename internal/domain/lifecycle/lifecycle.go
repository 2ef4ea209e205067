// Package lifecycle は発注のステータス遷移表を持つ。
// どのハンドラからの遷移もここを通してチェックする。
package lifecycle

import (
	"errors"
	"fmt"

	"buildseason/internal/domain/model"
)

type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionOrder   Action = "order"
	ActionReceive Action = "receive"
)

// 遷移時の副作用のうち、運用で切り替えるもの。
type Policy struct {
	// rejectに理由を必須にする
	RequireRejectionReason bool
	// receivedで部品在庫を数量分増やす
	RestockOnReceive bool
}

type Edge struct {
	Action Action
	From   model.OrderStatus
	To     model.OrderStatus
	Roles  []model.Role
}

func (e Edge) Allows(role model.Role) bool {
	for _, r := range e.Roles {
		if r == role {
			return true
		}
	}
	return false
}

var elevated = []model.Role{model.RoleAdmin, model.RoleMentor}
var adminOnly = []model.Role{model.RoleAdmin}

var table = map[Action]Edge{
	ActionSubmit:  {Action: ActionSubmit, From: model.OrderStatusDraft, To: model.OrderStatusPending, Roles: elevated},
	ActionApprove: {Action: ActionApprove, From: model.OrderStatusPending, To: model.OrderStatusApproved, Roles: adminOnly},
	ActionReject:  {Action: ActionReject, From: model.OrderStatusPending, To: model.OrderStatusRejected, Roles: adminOnly},
	ActionOrder:   {Action: ActionOrder, From: model.OrderStatusApproved, To: model.OrderStatusOrdered, Roles: elevated},
	ActionReceive: {Action: ActionReceive, From: model.OrderStatusOrdered, To: model.OrderStatusReceived, Roles: elevated},
}

// 表示用の順番
var actions = []Action{ActionSubmit, ActionApprove, ActionReject, ActionOrder, ActionReceive}

var ErrUnknownAction = errors.New("unknown action")

// StateError は現在のステータスにその遷移が無いとき。
type StateError struct {
	Action  Action
	Current model.OrderStatus
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s order in status %q", e.Action, e.Current)
}

// RoleError はロールが遷移に許可されていないとき。
type RoleError struct {
	Action Action
	Role   model.Role
}

func (e *RoleError) Error() string {
	return fmt.Sprintf("role %q cannot %s orders", e.Role, e.Action)
}

// Check は action を current から role で実行できるか確認し、辺を返す。
// ステータスの確認をロールより先に行う。
func Check(a Action, current model.OrderStatus, role model.Role) (Edge, error) {
	e, ok := table[a]
	if !ok {
		return Edge{}, ErrUnknownAction
	}
	if e.From != current {
		return Edge{}, &StateError{Action: a, Current: current}
	}
	if !e.Allows(role) {
		return Edge{}, &RoleError{Action: a, Role: role}
	}
	return e, nil
}

// Available は詳細画面のボタン表示用（canSubmit / canApprove など）。
func Available(current model.OrderStatus, role model.Role) []Action {
	out := make([]Action, 0, 2)
	for _, a := range actions {
		if _, err := Check(a, current, role); err == nil {
			out = append(out, a)
		}
	}
	return out
}
