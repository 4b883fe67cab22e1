package forecast

import (
	"github.com/jobcast/backend/internal/models"
	"github.com/jobcast/backend/internal/types"
	"github.com/shopspring/decimal"
)

// Distribution algorithms only ever write projection records. Actual
// records contribute to the totals but are never mutated.

// StraightLine spreads the effective totals minus the recorded actuals
// evenly across the projection records in the window, overwriting their
// current values. With no projection records in the window this is a
// no-op.
//
// When the actuals alone exceed an effective total, the shares turn
// negative. That is intentional: the result surfaces in validation
// instead of being clamped away.
func StraightLine(job models.Job, set AllocationSet, window []types.Month) AllocationSet {
	var projections []types.Month
	actualRevenue := decimal.Zero
	actualCost := decimal.Zero

	for _, allocation := range set.Records() {
		if allocation.Kind == models.AllocationKindActual {
			actualRevenue = actualRevenue.Add(allocation.Revenue)
			actualCost = actualCost.Add(allocation.Cost)
		}
	}

	for _, month := range window {
		if allocation, ok := set.Get(month); ok && allocation.Kind == models.AllocationKindProjection {
			projections = append(projections, month)
		}
	}

	if len(projections) == 0 {
		return set
	}

	count := decimal.NewFromInt(int64(len(projections)))
	revenueShare := job.EffectiveRevenue().Sub(actualRevenue).Div(count)
	costShare := job.EffectiveCost().Sub(actualCost).Div(count)

	byMonth := set.clone()
	for _, month := range projections {
		allocation := byMonth[month]
		allocation.Revenue = revenueShare
		allocation.Cost = costShare
		byMonth[month] = allocation
	}

	return AllocationSet{byMonth: byMonth}
}

// DistributeRemaining fills the gaps: for revenue and cost independently,
// the positive remaining amount is split across the projection records in
// the window whose value in that field is exactly zero. Records that
// already carry a value in a field keep it.
func DistributeRemaining(job models.Job, set AllocationSet, window []types.Month) AllocationSet {
	summary := Summarize(job, set)
	byMonth := set.clone()

	distributeField(byMonth, window, summary.RemainingRevenue,
		func(a models.MonthlyAllocation) decimal.Decimal { return a.Revenue },
		func(a *models.MonthlyAllocation, v decimal.Decimal) { a.Revenue = v },
	)
	distributeField(byMonth, window, summary.RemainingCost,
		func(a models.MonthlyAllocation) decimal.Decimal { return a.Cost },
		func(a *models.MonthlyAllocation, v decimal.Decimal) { a.Cost = v },
	)

	return AllocationSet{byMonth: byMonth}
}

func distributeField(
	byMonth map[types.Month]models.MonthlyAllocation,
	window []types.Month,
	remaining decimal.Decimal,
	get func(models.MonthlyAllocation) decimal.Decimal,
	set func(*models.MonthlyAllocation, decimal.Decimal),
) {
	if !remaining.IsPositive() {
		return
	}

	var empty []types.Month
	for _, month := range window {
		if allocation, ok := byMonth[month]; ok &&
			allocation.Kind == models.AllocationKindProjection && get(allocation).IsZero() {
			empty = append(empty, month)
		}
	}

	if len(empty) == 0 {
		return
	}

	share := remaining.Div(decimal.NewFromInt(int64(len(empty))))
	for _, month := range empty {
		allocation := byMonth[month]
		set(&allocation, share)
		byMonth[month] = allocation
	}
}

// ClearProjections resets the revenue and cost of the projection records
// in the window to zero. It is idempotent.
func ClearProjections(set AllocationSet, window []types.Month) AllocationSet {
	byMonth := set.clone()

	for _, month := range window {
		allocation, ok := byMonth[month]
		if !ok || allocation.Kind != models.AllocationKindProjection {
			continue
		}

		allocation.Revenue = decimal.Zero
		allocation.Cost = decimal.Zero
		byMonth[month] = allocation
	}

	return AllocationSet{byMonth: byMonth}
}
