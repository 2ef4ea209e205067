package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"buildseason/internal/domain/lifecycle"
	"buildseason/internal/domain/model"
	"buildseason/internal/domain/money"
	repo "buildseason/internal/repository"
)

// イベント送信1件あたりの待ち時間の上限
const publishTimeout = 3 * time.Second

type OrderUsecase struct {
	tx        repo.TransactionManager
	validator InputValidator
	events    EventPublisher
	idGen     IDGenerator
	clock     Clock
	policy    lifecycle.Policy
	logger    *slog.Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	validator InputValidator,
	events EventPublisher,
	idGen IDGenerator,
	clock Clock,
	policy lifecycle.Policy,
	logger *slog.Logger,
) *OrderUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderUsecase{
		tx:        tx,
		validator: validator,
		events:    events,
		idGen:     idGen,
		clock:     clock,
		policy:    policy,
		logger:    logger,
	}
}

// 作成・更新で受け取る項目
type OrderDetailsInput struct {
	VendorID *string
	Notes    *string
}

type AddItemInput struct {
	PartID         string
	Quantity       int64
	UnitPriceCents int64
}

type ListOrdersInput struct {
	Status string
	Page   int
	Limit  int
}

type OrderItemOutput struct {
	ID             string `json:"id"`
	PartID         string `json:"part_id"`
	PartName       string `json:"part_name"`
	PartSKU        string `json:"part_sku,omitempty"`
	Quantity       int64  `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	UnitPrice      string `json:"unit_price"`
	LineTotalCents int64  `json:"line_total_cents"`
	LineTotal      string `json:"line_total"`
}

type VendorOutput struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsGlobal bool   `json:"is_global"`
}

type OrderOutput struct {
	ID              string            `json:"id"`
	TeamID          string            `json:"team_id"`
	VendorID        *string           `json:"vendor_id"`
	Vendor          *VendorOutput     `json:"vendor,omitempty"`
	Status          string            `json:"status"`
	StatusLabel     string            `json:"status_label"`
	TotalCents      int64             `json:"total_cents"`
	Total           string            `json:"total"`
	Notes           *string           `json:"notes"`
	RejectionReason *string           `json:"rejection_reason"`
	CreatedByID     string            `json:"created_by_id"`
	ApprovedByID    *string           `json:"approved_by_id"`
	SubmittedAt     *time.Time        `json:"submitted_at"`
	ApprovedAt      *time.Time        `json:"approved_at"`
	OrderedAt       *time.Time        `json:"ordered_at"`
	ReceivedAt      *time.Time        `json:"received_at"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Items           []OrderItemOutput `json:"items,omitempty"`
	Actions         []string          `json:"actions"`
}

type OrderListOutput struct {
	Items           []OrderOutput    `json:"items"`
	Total           int64            `json:"total"`
	Page            int              `json:"page"`
	Limit           int              `json:"limit"`
	CountsByStatus  map[string]int64 `json:"counts_by_status"`
	TotalValueCents int64            `json:"total_value_cents"`
	TotalValue      string           `json:"total_value"`
}

type AddItemOutput struct {
	Item            OrderItemOutput `json:"item"`
	OrderTotalCents int64           `json:"order_total_cents"`
	OrderTotal      string          `json:"order_total"`
	QuantityOnHand  int64           `json:"quantity_on_hand"`
	// 在庫を超える数量でも追加はできる（表示用の目印）
	ExceedsStock bool `json:"exceeds_stock"`
}

func (u *OrderUsecase) CreateOrder(ctx context.Context, caller Caller, in OrderDetailsInput) (OrderOutput, error) {
	if err := caller.requireElevated("only admins and mentors can create orders"); err != nil {
		return OrderOutput{}, err
	}

	in, err := u.validator.NormalizeOrderDetails(in)
	if err != nil {
		return OrderOutput{}, err
	}

	now := u.clock.Now().UTC()
	o := model.Order{
		ID:          u.idGen.NewID(),
		TeamID:      caller.TeamID,
		VendorID:    in.VendorID,
		Status:      model.OrderStatusDraft,
		TotalCents:  0,
		Notes:       in.Notes,
		CreatedByID: caller.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var vendor *model.Vendor
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		v, err := u.findVendor(ctx, r, caller.TeamID, in.VendorID)
		if err != nil {
			return err
		}
		vendor = v

		if err := r.Orders().Create(ctx, o); err != nil {
			return NewStorageError(err)
		}
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	u.publish(ctx, model.OrderEvent{
		Type:       "order.created",
		OrderID:    o.ID,
		TeamID:     o.TeamID,
		ActorID:    caller.UserID,
		To:         o.Status,
		OccurredAt: now,
	})

	out := toOrderOutput(o, caller.Role)
	out.Vendor = toVendorOutput(vendor)
	return out, nil
}

// 下書きの仕入先・メモを変更
func (u *OrderUsecase) UpdateOrder(ctx context.Context, caller Caller, orderID string, in OrderDetailsInput) (OrderOutput, error) {
	if err := caller.requireElevated("only admins and mentors can edit orders"); err != nil {
		return OrderOutput{}, err
	}
	if err := requireID(orderID, "order not found"); err != nil {
		return OrderOutput{}, err
	}

	in, err := u.validator.NormalizeOrderDetails(in)
	if err != nil {
		return OrderOutput{}, err
	}

	var out OrderOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, caller.TeamID, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("order not found")
		}
		if err != nil {
			return NewStorageError(err)
		}
		if o.Status != model.OrderStatusDraft {
			return NewInvalidStateError(fmt.Sprintf("cannot edit order in status %q", o.Status))
		}

		vendor, err := u.findVendor(ctx, r, caller.TeamID, in.VendorID)
		if err != nil {
			return err
		}

		now := u.clock.Now().UTC()
		if err := r.Orders().UpdateDetails(ctx, o.ID, in.VendorID, in.Notes, now); err != nil {
			return NewStorageError(err)
		}

		o.VendorID = in.VendorID
		o.Notes = in.Notes
		o.UpdatedAt = now
		out = toOrderOutput(o, caller.Role)
		out.Vendor = toVendorOutput(vendor)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) GetOrder(ctx context.Context, caller Caller, orderID string) (OrderOutput, error) {
	if err := caller.validate(); err != nil {
		return OrderOutput{}, err
	}
	if err := requireID(orderID, "order not found"); err != nil {
		return OrderOutput{}, err
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, caller.TeamID, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			//他チームの注文は「存在しない扱い」にする
			return NewNotFoundError("order not found")
		}
		if err != nil {
			return NewStorageError(err)
		}

		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return NewStorageError(err)
		}

		out = toOrderOutput(o, caller.Role)
		out.Items = make([]OrderItemOutput, 0, len(items))
		for _, it := range items {
			p, err := r.Parts().FindByID(ctx, caller.TeamID, it.PartID)
			if err != nil && !errors.Is(err, repo.ErrNotFound) {
				return NewStorageError(err)
			}
			out.Items = append(out.Items, toOrderItemOutput(it, p))
		}

		if o.VendorID != nil {
			v, err := r.Vendors().FindVisible(ctx, caller.TeamID, *o.VendorID)
			if err == nil {
				out.Vendor = toVendorOutput(&v)
			} else if !errors.Is(err, repo.ErrNotFound) {
				return NewStorageError(err)
			}
		}
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) ListOrders(ctx context.Context, caller Caller, in ListOrdersInput) (OrderListOutput, error) {
	if err := caller.validate(); err != nil {
		return OrderListOutput{}, err
	}
	// page/limitの最低限チェック
	if in.Page < 1 {
		return OrderListOutput{}, NewValidationError("invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return OrderListOutput{}, NewValidationError("invalid limit")
	}

	f := repo.OrderListFilter{TeamID: caller.TeamID, Page: in.Page, Limit: in.Limit}
	if in.Status != "" {
		st, ok := model.ParseOrderStatus(in.Status)
		if !ok {
			return OrderListOutput{}, NewValidationError("invalid status")
		}
		f.Status = &st
	}

	var out OrderListOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().List(ctx, f)
		if err != nil {
			return NewStorageError(err)
		}
		counts, err := r.Orders().CountByStatus(ctx, caller.TeamID)
		if err != nil {
			return NewStorageError(err)
		}

		out = OrderListOutput{
			Items:          make([]OrderOutput, 0, len(orders)),
			Total:          total,
			Page:           in.Page,
			Limit:          in.Limit,
			CountsByStatus: make(map[string]int64, len(model.OrderStatuses)),
		}
		for _, st := range model.OrderStatuses {
			out.CountsByStatus[string(st)] = counts[st]
		}
		for _, o := range orders {
			out.Items = append(out.Items, toOrderOutput(o, caller.Role))
			out.TotalValueCents += o.TotalCents
		}
		out.TotalValue = money.FormatCents(out.TotalValueCents)
		return nil
	})
	if err != nil {
		return OrderListOutput{}, err
	}
	return out, nil
}

// AddItem は下書きに明細を1行足し、同じトランザクションで合計を再計算する。
func (u *OrderUsecase) AddItem(ctx context.Context, caller Caller, orderID string, in AddItemInput) (AddItemOutput, error) {
	if err := caller.requireElevated("only admins and mentors can edit orders"); err != nil {
		return AddItemOutput{}, err
	}
	if err := requireID(orderID, "Order not found or not editable."); err != nil {
		return AddItemOutput{}, err
	}

	in, err := u.validator.ValidateAddItem(in)
	if err != nil {
		return AddItemOutput{}, err
	}

	var out AddItemOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じ注文への同時追加はここで直列化される
		o, err := r.Orders().FindByIDForUpdate(ctx, caller.TeamID, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("Order not found or not editable.")
		}
		if err != nil {
			return NewStorageError(err)
		}
		if o.Status != model.OrderStatusDraft {
			return NewInvalidStateError(fmt.Sprintf("cannot add items to order in status %q", o.Status))
		}

		p, err := r.Parts().FindByID(ctx, caller.TeamID, in.PartID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("part not found")
		}
		if err != nil {
			return NewStorageError(err)
		}

		line, err := money.LineTotal(in.Quantity, in.UnitPriceCents)
		if err != nil {
			return NewValidationError("line total too large")
		}
		if _, err := money.Add(o.TotalCents, line); err != nil {
			return NewValidationError("order total too large")
		}

		now := u.clock.Now().UTC()
		item := model.OrderItem{
			ID:             u.idGen.NewID(),
			OrderID:        o.ID,
			PartID:         p.ID,
			Quantity:       in.Quantity,
			UnitPriceCents: in.UnitPriceCents,
			CreatedAt:      now,
		}
		if err := r.OrderItems().Create(ctx, item); err != nil {
			return NewStorageError(err)
		}

		total, err := recomputeTotal(ctx, r, o.ID, now)
		if err != nil {
			return err
		}

		out = AddItemOutput{
			Item:            toOrderItemOutput(item, p),
			OrderTotalCents: total,
			OrderTotal:      money.FormatCents(total),
			QuantityOnHand:  p.Quantity,
			ExceedsStock:    in.Quantity > p.Quantity,
		}
		return nil
	})
	if err != nil {
		return AddItemOutput{}, err
	}
	return out, nil
}

// RecomputeTotal は明細から合計を作り直して保存する（ずれた合計の修復用）。
func (u *OrderUsecase) RecomputeTotal(ctx context.Context, caller Caller, orderID string) (int64, error) {
	if err := caller.requireElevated("only admins and mentors can edit orders"); err != nil {
		return 0, err
	}
	if err := requireID(orderID, "order not found"); err != nil {
		return 0, err
	}

	var total int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, caller.TeamID, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("order not found")
		}
		if err != nil {
			return NewStorageError(err)
		}

		total, err = recomputeTotal(ctx, r, o.ID, u.clock.Now().UTC())
		return err
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Σ quantity * unit_price_cents を total_cents に書き戻す
func recomputeTotal(ctx context.Context, r repo.TxRepos, orderID string, now time.Time) (int64, error) {
	total, err := r.OrderItems().SumTotalByOrderID(ctx, orderID)
	if err != nil {
		return 0, NewStorageError(err)
	}
	if err := r.Orders().UpdateTotal(ctx, orderID, total, now); err != nil {
		return 0, NewStorageError(err)
	}
	return total, nil
}

func (u *OrderUsecase) findVendor(ctx context.Context, r repo.TxRepos, teamID string, vendorID *string) (*model.Vendor, error) {
	if vendorID == nil {
		return nil, nil
	}
	v, err := r.Vendors().FindVisible(ctx, teamID, *vendorID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewNotFoundError("vendor not found")
	}
	if err != nil {
		return nil, NewStorageError(err)
	}
	return &v, nil
}

// コミット後に送る。失敗してもリクエストは成功のまま（ログだけ残す）
// クライアントが切断しても送れるよう、リクエストのキャンセルは引き継がない。
func (u *OrderUsecase) publish(ctx context.Context, ev model.OrderEvent) {
	if u.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := u.events.PublishOrderEvent(ctx, ev); err != nil {
		u.logger.WarnContext(ctx, "order event publish failed",
			slog.String("type", ev.Type),
			slog.String("order_id", ev.OrderID),
			slog.String("error", err.Error()),
		)
	}
}

func toOrderOutput(o model.Order, role model.Role) OrderOutput {
	actions := lifecycle.Available(o.Status, role)
	names := make([]string, 0, len(actions))
	for _, a := range actions {
		names = append(names, string(a))
	}

	return OrderOutput{
		ID:              o.ID,
		TeamID:          o.TeamID,
		VendorID:        o.VendorID,
		Status:          string(o.Status),
		StatusLabel:     o.Status.Label(),
		TotalCents:      o.TotalCents,
		Total:           money.FormatCents(o.TotalCents),
		Notes:           o.Notes,
		RejectionReason: o.RejectionReason,
		CreatedByID:     o.CreatedByID,
		ApprovedByID:    o.ApprovedByID,
		SubmittedAt:     o.SubmittedAt,
		ApprovedAt:      o.ApprovedAt,
		OrderedAt:       o.OrderedAt,
		ReceivedAt:      o.ReceivedAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Actions:         names,
	}
}

// 部品が消えていても明細は表示する
func toOrderItemOutput(it model.OrderItem, p model.Part) OrderItemOutput {
	out := OrderItemOutput{
		ID:             it.ID,
		PartID:         it.PartID,
		PartName:       p.Name,
		Quantity:       it.Quantity,
		UnitPriceCents: it.UnitPriceCents,
		UnitPrice:      money.FormatCents(it.UnitPriceCents),
		LineTotalCents: it.LineTotalCents(),
		LineTotal:      money.FormatCents(it.LineTotalCents()),
	}
	if p.SKU != nil {
		out.PartSKU = *p.SKU
	}
	return out
}

func toVendorOutput(v *model.Vendor) *VendorOutput {
	if v == nil {
		return nil
	}
	return &VendorOutput{ID: v.ID, Name: v.Name, IsGlobal: v.IsGlobal}
}
