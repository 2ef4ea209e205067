package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDollars(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"19.99", 1999},
		{"10.00", 1000},
		{"10", 1000},
		{"5.5", 550},
		{"0", 0},
		{"0.01", 1},
		{" 3.25 ", 325},
		{"$12.34", 1234},
		{"10.005", 1001},
		{"10.004", 1000},
		{"0.1", 10},
	}
	for _, tc := range cases {
		got, err := ParseDollars(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseDollars_Invalid(t *testing.T) {
	_, err := ParseDollars("")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseDollars("abc")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseDollars("-1.00")
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = ParseDollars("1000000000000000")
	assert.ErrorIs(t, err, ErrAmountTooLarge)
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "19.99", FormatCents(1999))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "35.50", FormatCents(3550))
	assert.Equal(t, "0.00", FormatCents(0))
	assert.Equal(t, "-1.50", FormatCents(-150))
}

// 小数2桁以内の入力は往復で同じ文字列に戻る
func TestParseFormat_RoundTrip(t *testing.T) {
	for _, s := range []string{"19.99", "0.00", "0.01", "5.50", "100.10", "1234567.89"} {
		cents, err := ParseDollars(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatCents(cents))
	}
}

func TestLineTotal(t *testing.T) {
	got, err := LineTotal(3, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), got)

	got, err = LineTotal(4, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)

	got, err = LineTotal(1, MaxCents)
	require.NoError(t, err)
	assert.Equal(t, int64(MaxCents), got)

	// int64では負数に化ける組み合わせ
	_, err = LineTotal(1_000_000, MaxCents)
	assert.ErrorIs(t, err, ErrAmountTooLarge)

	_, err = LineTotal(-1, 100)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestAdd(t *testing.T) {
	got, err := Add(500, 250)
	require.NoError(t, err)
	assert.Equal(t, int64(750), got)

	got, err = Add(MaxCents-1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(MaxCents), got)

	_, err = Add(MaxCents, 1)
	assert.ErrorIs(t, err, ErrAmountTooLarge)
}
