package usecase

import (
	"context"
	"time"

	"buildseason/internal/domain/model"
)

type IDGenerator interface {
	NewID() string
}

type Clock interface {
	Now() time.Time
}

// 注文イベントの送信先（Kafka / Noop）
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, ev model.OrderEvent) error
}

// usecaseがValidatorInterfaceに依存する約束
// 正規化（trim・空文字→nil）した入力を返す。
type InputValidator interface {
	NormalizeOrderDetails(in OrderDetailsInput) (OrderDetailsInput, error)
	ValidateAddItem(in AddItemInput) (AddItemInput, error)
	NormalizeRejectionReason(reason *string) (*string, error)
	NormalizePart(in CreatePartInput) (CreatePartInput, error)
	ValidateStockAdjustment(quantity int64, reason string) (string, error)
	ValidatePartListQuery(search string) (string, error)
}
