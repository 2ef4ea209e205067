package usecase

import (
	"context"
	"errors"
	"strconv"
	"time"

	"buildseason/internal/domain/model"
	"buildseason/internal/domain/money"
	repo "buildseason/internal/repository"
)

type PartUsecase struct {
	tx        repo.TransactionManager
	validator InputValidator
	idGen     IDGenerator
	clock     Clock
}

// DI
func NewPartUsecase(tx repo.TransactionManager, validator InputValidator, idGen IDGenerator, clock Clock) *PartUsecase {
	return &PartUsecase{tx: tx, validator: validator, idGen: idGen, clock: clock}
}

type ListPartsInput struct {
	Search   string
	LowStock bool
}

type CreatePartInput struct {
	Name           string
	SKU            *string
	VendorID       *string
	Quantity       int64
	ReorderPoint   int64
	Location       *string
	UnitPriceCents int64
	Description    *string
}

type PartOutput struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	SKU            *string   `json:"sku"`
	VendorID       *string   `json:"vendor_id"`
	Quantity       int64     `json:"quantity"`
	ReorderPoint   int64     `json:"reorder_point"`
	Location       *string   `json:"location"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	UnitPrice      string    `json:"unit_price"`
	Description    *string   `json:"description"`
	LowStock       bool      `json:"low_stock"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type PartListOutput struct {
	Items         []PartOutput `json:"items"`
	LowStockCount int          `json:"low_stock_count"`
}

func (u *PartUsecase) ListParts(ctx context.Context, caller Caller, in ListPartsInput) (PartListOutput, error) {
	if err := caller.validate(); err != nil {
		return PartListOutput{}, err
	}
	search, err := u.validator.ValidatePartListQuery(in.Search)
	if err != nil {
		return PartListOutput{}, err
	}

	var out PartListOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		parts, err := r.Parts().List(ctx, repo.PartListFilter{
			TeamID:   caller.TeamID,
			Search:   search,
			LowStock: in.LowStock,
		})
		if err != nil {
			return NewStorageError(err)
		}

		out.Items = make([]PartOutput, 0, len(parts))
		for _, p := range parts {
			if p.IsLowStock() {
				out.LowStockCount++
			}
			out.Items = append(out.Items, toPartOutput(p))
		}
		return nil
	})
	if err != nil {
		return PartListOutput{}, err
	}
	return out, nil
}

func (u *PartUsecase) GetPart(ctx context.Context, caller Caller, partID string) (PartOutput, error) {
	if err := caller.validate(); err != nil {
		return PartOutput{}, err
	}
	if err := requireID(partID, "part not found"); err != nil {
		return PartOutput{}, err
	}

	var out PartOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Parts().FindByID(ctx, caller.TeamID, partID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("part not found")
		}
		if err != nil {
			return NewStorageError(err)
		}
		out = toPartOutput(p)
		return nil
	})
	if err != nil {
		return PartOutput{}, err
	}
	return out, nil
}

func (u *PartUsecase) CreatePart(ctx context.Context, caller Caller, in CreatePartInput) (PartOutput, error) {
	if err := caller.requireElevated("only admins and mentors can add parts"); err != nil {
		return PartOutput{}, err
	}
	in, err := u.validator.NormalizePart(in)
	if err != nil {
		return PartOutput{}, err
	}

	now := u.clock.Now().UTC()
	p := model.Part{
		ID:             u.idGen.NewID(),
		TeamID:         caller.TeamID,
		Name:           in.Name,
		SKU:            in.SKU,
		VendorID:       in.VendorID,
		Quantity:       in.Quantity,
		ReorderPoint:   in.ReorderPoint,
		Location:       in.Location,
		UnitPriceCents: in.UnitPriceCents,
		Description:    in.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if p.VendorID != nil {
			if _, err := r.Vendors().FindVisible(ctx, caller.TeamID, *p.VendorID); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return NewNotFoundError("vendor not found")
				}
				return NewStorageError(err)
			}
		}
		if err := r.Parts().Create(ctx, p); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return NewValidationError("part already exists")
			}
			return NewStorageError(err)
		}
		return nil
	})
	if err != nil {
		return PartOutput{}, err
	}
	return toPartOutput(p), nil
}

// AdjustStock は棚卸しなどで在庫数を直接書き換える。差分は調整履歴と監査ログに残す。
func (u *PartUsecase) AdjustStock(ctx context.Context, caller Caller, partID string, quantity int64, reason string) (PartOutput, error) {
	if err := caller.requireElevated("only admins and mentors can adjust stock"); err != nil {
		return PartOutput{}, err
	}
	if err := requireID(partID, "part not found"); err != nil {
		return PartOutput{}, err
	}
	reason, err := u.validator.ValidateStockAdjustment(quantity, reason)
	if err != nil {
		return PartOutput{}, err
	}

	var out PartOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Parts().FindByID(ctx, caller.TeamID, partID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("part not found")
		}
		if err != nil {
			return NewStorageError(err)
		}

		// 変化なしなら何もしない
		if p.Quantity == quantity {
			out = toPartOutput(p)
			return nil
		}

		now := u.clock.Now().UTC()
		if err := r.Inventory().SetQuantity(ctx, p.ID, quantity); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFoundError("part not found")
			}
			return NewStorageError(err)
		}
		if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			PartID:      p.ID,
			ActorUserID: caller.UserID,
			Delta:       quantity - p.Quantity,
			Reason:      reason,
			CreatedAt:   now,
		}); err != nil {
			return NewStorageError(err)
		}

		// ★監査ログ（UPDATE_STOCK）
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			TeamID:       caller.TeamID,
			ActorUserID:  caller.UserID,
			Action:       model.AuditActionUpdateStock,
			ResourceType: model.AuditResourcePart,
			ResourceID:   p.ID,
			BeforeJSON:   `{"quantity":` + strconv.FormatInt(p.Quantity, 10) + `}`,
			AfterJSON:    `{"quantity":` + strconv.FormatInt(quantity, 10) + `}`,
			CreatedAt:    now,
		}); err != nil {
			return NewStorageError(err)
		}

		p.Quantity = quantity
		p.UpdatedAt = now
		out = toPartOutput(p)
		return nil
	})
	if err != nil {
		return PartOutput{}, err
	}
	return out, nil
}

func toPartOutput(p model.Part) PartOutput {
	return PartOutput{
		ID:             p.ID,
		Name:           p.Name,
		SKU:            p.SKU,
		VendorID:       p.VendorID,
		Quantity:       p.Quantity,
		ReorderPoint:   p.ReorderPoint,
		Location:       p.Location,
		UnitPriceCents: p.UnitPriceCents,
		UnitPrice:      money.FormatCents(p.UnitPriceCents),
		Description:    p.Description,
		LowStock:       p.IsLowStock(),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
