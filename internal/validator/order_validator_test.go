package validator

import (
	"strings"
	"testing"

	"buildseason/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const partID = "6f1c1b8e-3f55-4a64-9d8e-1f7a2b3c4d5e"

func strPtr(s string) *string { return &s }

func TestNormalizeOrderDetails(t *testing.T) {
	v := NewOrderValidator()

	t.Run("trims notes and drops empty vendor", func(t *testing.T) {
		out, err := v.NormalizeOrderDetails(usecase.OrderDetailsInput{
			VendorID: strPtr("  "),
			Notes:    strPtr("  need by friday  "),
		})
		require.NoError(t, err)
		assert.Nil(t, out.VendorID)
		require.NotNil(t, out.Notes)
		assert.Equal(t, "need by friday", *out.Notes)
	})

	t.Run("blank notes become nil", func(t *testing.T) {
		out, err := v.NormalizeOrderDetails(usecase.OrderDetailsInput{Notes: strPtr("   ")})
		require.NoError(t, err)
		assert.Nil(t, out.Notes)
	})

	t.Run("notes over limit", func(t *testing.T) {
		_, err := v.NormalizeOrderDetails(usecase.OrderDetailsInput{Notes: strPtr(strings.Repeat("a", 2001))})
		assert.True(t, usecase.IsKind(err, usecase.KindValidation))
	})

	t.Run("notes at limit counts runes", func(t *testing.T) {
		_, err := v.NormalizeOrderDetails(usecase.OrderDetailsInput{Notes: strPtr(strings.Repeat("あ", 2000))})
		assert.NoError(t, err)
	})

	t.Run("malformed vendor id", func(t *testing.T) {
		_, err := v.NormalizeOrderDetails(usecase.OrderDetailsInput{VendorID: strPtr("acme")})
		assert.True(t, usecase.IsKind(err, usecase.KindValidation))
	})
}

func TestValidateAddItem(t *testing.T) {
	v := NewOrderValidator()

	tests := []struct {
		name string
		in   usecase.AddItemInput
		ok   bool
	}{
		{"valid", usecase.AddItemInput{PartID: partID, Quantity: 1, UnitPriceCents: 0}, true},
		{"missing part", usecase.AddItemInput{Quantity: 1, UnitPriceCents: 100}, false},
		{"zero quantity", usecase.AddItemInput{PartID: partID, Quantity: 0, UnitPriceCents: 100}, false},
		{"negative price", usecase.AddItemInput{PartID: partID, Quantity: 1, UnitPriceCents: -1}, false},
		{"bad part id", usecase.AddItemInput{PartID: "x", Quantity: 1, UnitPriceCents: 1}, false},
		{"max quantity", usecase.AddItemInput{PartID: partID, Quantity: 1_000_000, UnitPriceCents: 100}, true},
		{"quantity over cap", usecase.AddItemInput{PartID: partID, Quantity: 1_000_001, UnitPriceCents: 0}, false},
		{"line total over cap", usecase.AddItemInput{PartID: partID, Quantity: 1_000_000, UnitPriceCents: 10_000_000_000_000}, false},
		{"max price single unit", usecase.AddItemInput{PartID: partID, Quantity: 1, UnitPriceCents: 10_000_000_000_000}, true},
		{"price over cap", usecase.AddItemInput{PartID: partID, Quantity: 1, UnitPriceCents: 10_000_000_000_001}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.ValidateAddItem(tt.in)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, usecase.IsKind(err, usecase.KindValidation))
		})
	}

	_, err := v.ValidateAddItem(usecase.AddItemInput{PartID: partID})
	ae, ok := usecase.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "Please fill in all required fields.", ae.Message)
}

func TestNormalizeRejectionReason(t *testing.T) {
	v := NewOrderValidator()

	r, err := v.NormalizeRejectionReason(nil)
	require.NoError(t, err)
	assert.Nil(t, r)

	r, err = v.NormalizeRejectionReason(strPtr("  "))
	require.NoError(t, err)
	assert.Nil(t, r)

	_, err = v.NormalizeRejectionReason(strPtr(strings.Repeat("x", 1001)))
	assert.True(t, usecase.IsKind(err, usecase.KindValidation))

	r, err = v.NormalizeRejectionReason(strPtr(" over budget "))
	require.NoError(t, err)
	assert.Equal(t, "over budget", *r)
}

func TestNormalizePart(t *testing.T) {
	v := NewOrderValidator()

	out, err := v.NormalizePart(usecase.CreatePartInput{
		Name:     "  Hex shaft  ",
		SKU:      strPtr(""),
		Location: strPtr(" Bin 4 "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Hex shaft", out.Name)
	assert.Nil(t, out.SKU)
	assert.Equal(t, "Bin 4", *out.Location)

	_, err = v.NormalizePart(usecase.CreatePartInput{Name: " "})
	assert.True(t, usecase.IsKind(err, usecase.KindValidation))

	_, err = v.NormalizePart(usecase.CreatePartInput{Name: "a", Quantity: -1})
	assert.True(t, usecase.IsKind(err, usecase.KindValidation))

	_, err = v.NormalizePart(usecase.CreatePartInput{Name: strings.Repeat("n", 201)})
	assert.True(t, usecase.IsKind(err, usecase.KindValidation))
}

func TestValidateStockAdjustment(t *testing.T) {
	v := NewOrderValidator()

	reason, err := v.ValidateStockAdjustment(3, "")
	require.NoError(t, err)
	assert.Equal(t, "manual adjustment", reason)

	_, err = v.ValidateStockAdjustment(-1, "count")
	assert.True(t, usecase.IsKind(err, usecase.KindValidation))
}
