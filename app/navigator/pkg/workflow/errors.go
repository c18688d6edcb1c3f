package workflow

import "fmt"

// EmptyMarketDataError means the market-analysis stage returned zero
// sub-district entries. It is a fatal precondition failure raised before the
// recommendation stage is ever invoked.
type EmptyMarketDataError struct {
	Region string
}

func (e *EmptyMarketDataError) Error() string {
	return fmt.Sprintf("market analysis for %q returned no sub-district entries", e.Region)
}

// CardinalityMismatchError means the recommender returned a number of items
// other than the three its contract promises. Zero items always fails; other
// counts fail only in strict mode.
type CardinalityMismatchError struct {
	Expected int
	Got      int
}

func (e *CardinalityMismatchError) Error() string {
	return fmt.Sprintf("recommender returned %d items, expected %d", e.Got, e.Expected)
}
