package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"buildseason/internal/domain/lifecycle"
	"buildseason/internal/domain/model"
	repo "buildseason/internal/repository"
)

func (u *OrderUsecase) Submit(ctx context.Context, caller Caller, orderID string) (OrderOutput, error) {
	return u.transition(ctx, caller, orderID, lifecycle.ActionSubmit, nil)
}

func (u *OrderUsecase) Approve(ctx context.Context, caller Caller, orderID string) (OrderOutput, error) {
	return u.transition(ctx, caller, orderID, lifecycle.ActionApprove, nil)
}

// Reject は理由つきで却下する。理由が必須かどうかはPolicyで決まる（状態・ロールの確認の後に見る）。
func (u *OrderUsecase) Reject(ctx context.Context, caller Caller, orderID string, reason *string) (OrderOutput, error) {
	if err := caller.validate(); err != nil {
		return OrderOutput{}, err
	}
	reason, err := u.validator.NormalizeRejectionReason(reason)
	if err != nil {
		return OrderOutput{}, err
	}
	return u.transition(ctx, caller, orderID, lifecycle.ActionReject, reason)
}

func (u *OrderUsecase) MarkOrdered(ctx context.Context, caller Caller, orderID string) (OrderOutput, error) {
	return u.transition(ctx, caller, orderID, lifecycle.ActionOrder, nil)
}

func (u *OrderUsecase) MarkReceived(ctx context.Context, caller Caller, orderID string) (OrderOutput, error) {
	return u.transition(ctx, caller, orderID, lifecycle.ActionReceive, nil)
}

// transition はすべてのステータス変更の入口。
// 行ロック → 遷移表チェック → 副作用 → CAS更新 → 監査ログ を1トランザクションで行う。
func (u *OrderUsecase) transition(ctx context.Context, caller Caller, orderID string, action lifecycle.Action, reason *string) (OrderOutput, error) {
	if err := caller.validate(); err != nil {
		return OrderOutput{}, err
	}
	if err := requireID(orderID, "order not found"); err != nil {
		return OrderOutput{}, err
	}

	var (
		out OrderOutput
		ev  model.OrderEvent
	)
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, caller.TeamID, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("order not found")
		}
		if err != nil {
			return NewStorageError(err)
		}

		edge, err := lifecycle.Check(action, o.Status, caller.Role)
		if err != nil {
			return mapLifecycleError(err)
		}

		now := u.clock.Now().UTC()
		upd := repo.StatusUpdate{Status: edge.To, UpdatedAt: now}

		switch action {
		case lifecycle.ActionSubmit:
			n, err := r.OrderItems().CountByOrderID(ctx, o.ID)
			if err != nil {
				return NewStorageError(err)
			}
			if n == 0 {
				return NewInvalidStateError("cannot submit an order with no items")
			}
			upd.SubmittedAt = &now
		case lifecycle.ActionApprove:
			actor := caller.UserID
			upd.ApprovedByID = &actor
			upd.ApprovedAt = &now
		case lifecycle.ActionReject:
			if reason == nil && u.policy.RequireRejectionReason {
				return NewValidationError("rejection reason required")
			}
			upd.RejectionReason = reason
		case lifecycle.ActionOrder:
			upd.OrderedAt = &now
		case lifecycle.ActionReceive:
			upd.ReceivedAt = &now
			if u.policy.RestockOnReceive {
				if err := restock(ctx, r, caller, o.ID, now); err != nil {
					return err
				}
			}
		}

		if err := r.Orders().UpdateStatus(ctx, o.ID, o.Status, upd); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				// 他のリクエストが先にステータスを変えた
				return NewInvalidStateError(fmt.Sprintf("order status changed concurrently from %q", o.Status))
			}
			return NewStorageError(err)
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			TeamID:       caller.TeamID,
			ActorUserID:  caller.UserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   o.ID,
			BeforeJSON:   statusJSON(o.Status, nil),
			AfterJSON:    statusJSON(edge.To, upd.RejectionReason),
			CreatedAt:    now,
		}); err != nil {
			return NewStorageError(err)
		}

		from := o.Status
		applyStatusUpdate(&o, upd)
		out = toOrderOutput(o, caller.Role)
		ev = model.OrderEvent{
			Type:       "order." + string(edge.To),
			OrderID:    o.ID,
			TeamID:     o.TeamID,
			ActorID:    caller.UserID,
			From:       from,
			To:         edge.To,
			TotalCents: o.TotalCents,
			Reason:     upd.RejectionReason,
			OccurredAt: now,
		}
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	u.publish(ctx, ev)
	return out, nil
}

// 入荷した数量を部品在庫に足し、調整履歴を残す
func restock(ctx context.Context, r repo.TxRepos, caller Caller, orderID string, now time.Time) error {
	items, err := r.OrderItems().ListByOrderID(ctx, orderID)
	if err != nil {
		return NewStorageError(err)
	}
	for _, it := range items {
		if err := r.Inventory().IncreaseQuantity(ctx, it.PartID, it.Quantity); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				// 部品が削除済みなら在庫戻しはしない
				continue
			}
			return NewStorageError(err)
		}
		if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			PartID:      it.PartID,
			ActorUserID: caller.UserID,
			OrderID:     &orderID,
			Delta:       it.Quantity,
			Reason:      "order received",
			CreatedAt:   now,
		}); err != nil {
			return NewStorageError(err)
		}
	}
	return nil
}

func mapLifecycleError(err error) error {
	var se *lifecycle.StateError
	if errors.As(err, &se) {
		return NewInvalidStateError(se.Error())
	}
	var re *lifecycle.RoleError
	if errors.As(err, &re) {
		return NewForbiddenError(re.Error())
	}
	if errors.Is(err, lifecycle.ErrUnknownAction) {
		return NewValidationError(err.Error())
	}
	return NewStorageError(err)
}

func applyStatusUpdate(o *model.Order, upd repo.StatusUpdate) {
	o.Status = upd.Status
	o.UpdatedAt = upd.UpdatedAt
	if upd.RejectionReason != nil {
		o.RejectionReason = upd.RejectionReason
	}
	if upd.ApprovedByID != nil {
		o.ApprovedByID = upd.ApprovedByID
	}
	if upd.SubmittedAt != nil {
		o.SubmittedAt = upd.SubmittedAt
	}
	if upd.ApprovedAt != nil {
		o.ApprovedAt = upd.ApprovedAt
	}
	if upd.OrderedAt != nil {
		o.OrderedAt = upd.OrderedAt
	}
	if upd.ReceivedAt != nil {
		o.ReceivedAt = upd.ReceivedAt
	}
}

func statusJSON(st model.OrderStatus, reason *string) string {
	v := map[string]any{"status": st}
	if reason != nil {
		v["rejection_reason"] = *reason
	}
	b, err := json.Marshal(v)
	if err != nil {
		return `{"status":"` + string(st) + `"}`
	}
	return string(b)
}
