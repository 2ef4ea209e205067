package usecase

import (
	"context"

	repo "buildseason/internal/repository"
)

type VendorUsecase struct {
	tx repo.TransactionManager
}

func NewVendorUsecase(tx repo.TransactionManager) *VendorUsecase {
	return &VendorUsecase{tx: tx}
}

// 共通の仕入先 + チーム独自の仕入先
func (u *VendorUsecase) ListVendors(ctx context.Context, caller Caller) ([]VendorOutput, error) {
	if err := caller.validate(); err != nil {
		return nil, err
	}

	var out []VendorOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		vendors, err := r.Vendors().ListVisible(ctx, caller.TeamID)
		if err != nil {
			return NewStorageError(err)
		}
		out = make([]VendorOutput, 0, len(vendors))
		for i := range vendors {
			out = append(out, *toVendorOutput(&vendors[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
