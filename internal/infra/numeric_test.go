package infra

import (
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericToFloat64_RoundTrip(t *testing.T) {
	for _, v := range []float64{0, 0.25, 1.75, 2.5, 35, 12.35, 499.99} {
		got, err := NumericToFloat64(Float64ToNumeric(v))
		require.NoError(t, err)
		assert.InDelta(t, v, got, 1e-9, "value %v", v)
	}
}

func TestNumericToFloat64_NullIsZero(t *testing.T) {
	v, err := NumericToFloat64(pgtype.Numeric{Valid: false})
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestNumericToFloat64_NaN(t *testing.T) {
	_, err := NumericToFloat64(pgtype.Numeric{NaN: true, Valid: true})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "NaN")
}

func TestNumericToFloat64_Infinity(t *testing.T) {
	_, err := NumericToFloat64(pgtype.Numeric{InfinityModifier: pgtype.Infinity, Valid: true})
	assert.Error(t, err)
}

func TestNumericToFloat64_PositiveExponent(t *testing.T) {
	// 3 * 10^1 = 30
	v, err := NumericToFloat64(pgtype.Numeric{Int: big.NewInt(3), Exp: 1, Valid: true})
	require.NoError(t, err)
	assert.Equal(t, 30.0, v)
}

func TestNumericToFloat64_NegativeExponent(t *testing.T) {
	// 175 * 10^-2 = 1.75
	v, err := NumericToFloat64(pgtype.Numeric{Int: big.NewInt(175), Exp: -2, Valid: true})
	require.NoError(t, err)
	assert.Equal(t, 1.75, v)
}

func TestFloat64ToNumeric_RoundsToCents(t *testing.T) {
	n := Float64ToNumeric(12.345)
	assert.True(t, n.Valid)
	assert.Equal(t, int32(-2), n.Exp)
	assert.Equal(t, int64(1235), n.Int.Int64())
}
