package usecase

import (
	"fmt"
	"math"

	"github.com/menucompare/backend/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CompareProducts computes how the base product's final price relates to its counterpart.
// The percentage is always relative to the base price, so base and counterpart are not
// interchangeable. Pairs with a non-positive base price are not comparable.
func CompareProducts(base, counterpart domain.CanonicalProduct) (*domain.ComparisonResult, error) {
	if !isFinite(base.Price) || !isFinite(counterpart.Price) {
		return nil, fmt.Errorf("%w: non-finite price for item %s", domain.ErrNotComparable, base.ID)
	}
	if base.Price <= 0 {
		return nil, fmt.Errorf("%w: base price %v for item %s", domain.ErrNotComparable, base.Price, base.ID)
	}

	basePrice := decimal.NewFromFloat(base.Price)
	diff := basePrice.Sub(decimal.NewFromFloat(counterpart.Price))
	percent := diff.Abs().Div(basePrice).Mul(hundred).Round(0).IntPart()
	priceDiff, _ := diff.Float64()

	result := &domain.ComparisonResult{
		BaseProduct:        base,
		CounterpartProduct: counterpart,
		PriceDiff:          priceDiff,
		PercentDiff:        percent,
	}
	switch diff.Sign() {
	case 1:
		result.IsMoreExpensive = true
	case -1:
		result.IsCheaper = true
	default:
		result.IsSamePrice = true
	}
	return result, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
