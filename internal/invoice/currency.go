package invoice

import (
	"fmt"
	"math"
)

// SplitCurrency decomposes an amount into its whole-unit part and a
// three-digit subunit string (the currency carries 1000 subunits per unit,
// e.g. KWD/fils). The fractional part rounds half-up, so 5.4995 splits to
// 5/"500"; when the subunits round all the way to 1000 the carry moves into
// the whole part.
func SplitCurrency(amount float64) (whole int64, fractional string) {
	whole = int64(math.Floor(amount))
	subunits := int64(math.Floor((amount-float64(whole))*1000 + 0.5))
	if subunits >= 1000 {
		whole++
		subunits -= 1000
	}
	return whole, fmt.Sprintf("%03d", subunits)
}
