// Package money は金額を最小通貨単位（セント）の整数で扱う。
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNegativeAmount = errors.New("amount must be >= 0")
	ErrAmountTooLarge = errors.New("amount too large")
)

// 1e13セント（1000億ドル）。明細・合計ともこれを上限にする。
const MaxCents = 10_000_000_000_000

var hundred = decimal.NewFromInt(100)

// ParseDollars は "19.99" のようなドル表記をセントに変換する。
// 3桁目以降は四捨五入（0.5は0から遠い方へ）。
func ParseDollars(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return 0, ErrNegativeAmount
	}

	cents := d.Mul(hundred).Round(0)
	if cents.GreaterThan(decimal.NewFromInt(MaxCents)) {
		return 0, ErrAmountTooLarge
	}
	return cents.IntPart(), nil
}

// FormatCents はセントを小数2桁のドル表記にする（通貨記号なし）。
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// LineTotal は数量×単価。MaxCents を超えるならエラー（int64の桁あふれもここで止める）。
func LineTotal(quantity int64, unitPriceCents int64) (int64, error) {
	if quantity < 0 || unitPriceCents < 0 {
		return 0, ErrNegativeAmount
	}
	if unitPriceCents != 0 && quantity > MaxCents/unitPriceCents {
		return 0, ErrAmountTooLarge
	}
	return quantity * unitPriceCents, nil
}

// Add は合計への加算。MaxCents を超えるならエラー。
func Add(total int64, cents int64) (int64, error) {
	if total < 0 || cents < 0 {
		return 0, ErrNegativeAmount
	}
	if total > MaxCents-cents {
		return 0, ErrAmountTooLarge
	}
	return total + cents, nil
}
