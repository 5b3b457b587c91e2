package infra

import (
	"fmt"
	"math"
	"math/big"

	"github.com/jackc/pgx/v5/pgtype"
)

// NumericToFloat64 converts a pgtype.Numeric (hours, rates) to float64.
// NULL converts to 0; NaN and infinities are errors.
func NumericToFloat64(n pgtype.Numeric) (float64, error) {
	if !n.Valid {
		return 0, nil
	}
	if n.NaN {
		return 0, fmt.Errorf("numeric value is NaN")
	}
	if n.InfinityModifier != pgtype.Finite {
		return 0, fmt.Errorf("numeric value is infinite")
	}
	if n.Int == nil {
		return 0, nil
	}

	// pgtype.Numeric stores value as Int * 10^Exp
	f := new(big.Float).SetInt(n.Int)
	if n.Exp != 0 {
		scale := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(abs32(n.Exp))), nil))
		if n.Exp > 0 {
			f.Mul(f, scale)
		} else {
			f.Quo(f, scale)
		}
	}
	v, _ := f.Float64()
	return v, nil
}

// Float64ToNumeric converts a value to pgtype.Numeric with two decimal places,
// matching the numeric(10,2) and numeric(5,2) columns.
func Float64ToNumeric(v float64) pgtype.Numeric {
	cents := int64(math.Round(v * 100))
	return pgtype.Numeric{
		Int:              big.NewInt(cents),
		Exp:              -2,
		InfinityModifier: pgtype.Finite,
		Valid:            true,
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
