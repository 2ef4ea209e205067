package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"buildseason/internal/domain/model"
	repo "buildseason/internal/repository"
)

type AuditEntryOutput struct {
	ID          int64           `json:"id"`
	Action      string          `json:"action"`
	ActorUserID string          `json:"actor_user_id"`
	Before      json.RawMessage `json:"before"`
	After       json.RawMessage `json:"after"`
	CreatedAt   time.Time       `json:"created_at"`
}

type OrderHistoryOutput struct {
	OrderID string             `json:"order_id"`
	Entries []AuditEntryOutput `json:"entries"`
}

// History は注文のステータス変更履歴（監査ログ）を古い順に返す。チームの全員が見られる。
func (u *OrderUsecase) History(ctx context.Context, caller Caller, orderID string) (OrderHistoryOutput, error) {
	if err := caller.validate(); err != nil {
		return OrderHistoryOutput{}, err
	}
	if err := requireID(orderID, "order not found"); err != nil {
		return OrderHistoryOutput{}, err
	}

	var out OrderHistoryOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, caller.TeamID, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("order not found")
		}
		if err != nil {
			return NewStorageError(err)
		}

		logs, err := r.AuditLogs().ListByResource(ctx, repo.AuditLogFilter{
			TeamID:       caller.TeamID,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   o.ID,
		})
		if err != nil {
			return NewStorageError(err)
		}

		out = OrderHistoryOutput{OrderID: o.ID, Entries: make([]AuditEntryOutput, 0, len(logs))}
		for _, l := range logs {
			out.Entries = append(out.Entries, AuditEntryOutput{
				ID:          l.ID,
				Action:      string(l.Action),
				ActorUserID: l.ActorUserID,
				Before:      rawJSON(l.BeforeJSON),
				After:       rawJSON(l.AfterJSON),
				CreatedAt:   l.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return OrderHistoryOutput{}, err
	}
	return out, nil
}

// 空や壊れたJSONはnullで返す
func rawJSON(s string) json.RawMessage {
	if s == "" || !json.Valid([]byte(s)) {
		return nil
	}
	return json.RawMessage(s)
}
