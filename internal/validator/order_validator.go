package validator

import (
	"strings"
	"unicode/utf8"

	"buildseason/internal/domain/money"
	"buildseason/internal/usecase"

	"github.com/google/uuid"
)

const (
	maxNotesLen       = 2000
	maxReasonLen      = 1000
	maxPartNameLen    = 200
	maxSKULen         = 100
	maxLocationLen    = 100
	maxDescriptionLen = 1000
	maxSearchLen      = 100
	maxAdjustReason   = 255
	maxItemQuantity   = 1_000_000

	// 明細入力のメッセージは画面の文言に合わせる
	msgRequiredFields = "Please fill in all required fields."
)

type orderValidator struct{}

// Usecaseは interface を依存注入
func NewOrderValidator() usecase.InputValidator {
	return &orderValidator{}
}

func (v *orderValidator) NormalizeOrderDetails(in usecase.OrderDetailsInput) (usecase.OrderDetailsInput, error) {
	vendorID, err := optionalID(in.VendorID, "invalid vendor id")
	if err != nil {
		return usecase.OrderDetailsInput{}, err
	}
	notes, err := optionalText(in.Notes, maxNotesLen, "notes too long")
	if err != nil {
		return usecase.OrderDetailsInput{}, err
	}
	return usecase.OrderDetailsInput{VendorID: vendorID, Notes: notes}, nil
}

func (v *orderValidator) ValidateAddItem(in usecase.AddItemInput) (usecase.AddItemInput, error) {
	in.PartID = strings.TrimSpace(in.PartID)

	// 必須チェック
	if in.PartID == "" || in.Quantity < 1 || in.UnitPriceCents < 0 {
		return usecase.AddItemInput{}, usecase.NewValidationError(msgRequiredFields)
	}
	if _, err := uuid.Parse(in.PartID); err != nil {
		return usecase.AddItemInput{}, usecase.NewValidationError("invalid part id")
	}
	if in.Quantity > maxItemQuantity {
		return usecase.AddItemInput{}, usecase.NewValidationError("quantity too large")
	}
	if _, err := money.LineTotal(in.Quantity, in.UnitPriceCents); err != nil {
		return usecase.AddItemInput{}, usecase.NewValidationError("line total too large")
	}
	return in, nil
}

// 必須かどうかは遷移側（Policy）で見る。ここは長さとtrimだけ。
func (v *orderValidator) NormalizeRejectionReason(reason *string) (*string, error) {
	return optionalText(reason, maxReasonLen, "rejection reason too long")
}

func (v *orderValidator) NormalizePart(in usecase.CreatePartInput) (usecase.CreatePartInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return usecase.CreatePartInput{}, usecase.NewValidationError("name required")
	}
	if utf8.RuneCountInString(in.Name) > maxPartNameLen {
		return usecase.CreatePartInput{}, usecase.NewValidationError("name too long")
	}
	if in.Quantity < 0 {
		return usecase.CreatePartInput{}, usecase.NewValidationError("quantity must be >= 0")
	}
	if in.ReorderPoint < 0 {
		return usecase.CreatePartInput{}, usecase.NewValidationError("reorder point must be >= 0")
	}
	if in.UnitPriceCents < 0 {
		return usecase.CreatePartInput{}, usecase.NewValidationError("unit price must be >= 0")
	}

	var err error
	if in.SKU, err = optionalText(in.SKU, maxSKULen, "sku too long"); err != nil {
		return usecase.CreatePartInput{}, err
	}
	if in.Location, err = optionalText(in.Location, maxLocationLen, "location too long"); err != nil {
		return usecase.CreatePartInput{}, err
	}
	if in.Description, err = optionalText(in.Description, maxDescriptionLen, "description too long"); err != nil {
		return usecase.CreatePartInput{}, err
	}
	if in.VendorID, err = optionalID(in.VendorID, "invalid vendor id"); err != nil {
		return usecase.CreatePartInput{}, err
	}
	return in, nil
}

func (v *orderValidator) ValidateStockAdjustment(quantity int64, reason string) (string, error) {
	if quantity < 0 {
		return "", usecase.NewValidationError("quantity must be >= 0")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "manual adjustment"
	}
	if utf8.RuneCountInString(reason) > maxAdjustReason {
		return "", usecase.NewValidationError("reason too long")
	}
	return reason, nil
}

func (v *orderValidator) ValidatePartListQuery(search string) (string, error) {
	search = strings.TrimSpace(search)
	if utf8.RuneCountInString(search) > maxSearchLen {
		return "", usecase.NewValidationError("search too long")
	}
	return search, nil
}

// trimして空ならnil
func optionalText(s *string, max int, tooLong string) (*string, error) {
	if s == nil {
		return nil, nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(t) > max {
		return nil, usecase.NewValidationError(tooLong)
	}
	return &t, nil
}

func optionalID(s *string, invalid string) (*string, error) {
	if s == nil {
		return nil, nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil, nil
	}
	if _, err := uuid.Parse(t); err != nil {
		return nil, usecase.NewValidationError(invalid)
	}
	return &t, nil
}
