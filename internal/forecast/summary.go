package forecast

import (
	"github.com/jobcast/backend/internal/models"
	"github.com/shopspring/decimal"
)

// Tolerance absorbs floating point rounding from repeated division when
// amounts are reconciled against the effective totals.
var Tolerance = decimal.RequireFromString("0.01")

var oneHundred = decimal.NewFromInt(100)

// Status describes how far along a job's allocation is.
//
// swagger:enum Status
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusPartial    Status = "partial"
	StatusComplete   Status = "complete"
)

// Summary is the derived reconciliation state of a job's allocation set.
// It is recomputed on every mutation and never stored.
type Summary struct {
	EffectiveRevenue decimal.Decimal `json:"effectiveRevenue" example:"65625"`   // Probability weighted revenue
	EffectiveCost    decimal.Decimal `json:"effectiveCost" example:"42000"`      // Probability weighted cost
	EffectiveProfit  decimal.Decimal `json:"effectiveProfit" example:"23625"`    // EffectiveRevenue - EffectiveCost
	AllocatedRevenue decimal.Decimal `json:"allocatedRevenue" example:"32812.5"` // Revenue allocated across all known months
	AllocatedCost    decimal.Decimal `json:"allocatedCost" example:"21000"`      // Cost allocated across all known months
	ActualRevenue    decimal.Decimal `json:"actualRevenue" example:"10000"`      // Revenue recorded as actual
	ActualCost       decimal.Decimal `json:"actualCost" example:"7000"`          // Cost recorded as actual
	ProjectedRevenue decimal.Decimal `json:"projectedRevenue" example:"22812.5"` // Revenue recorded as projection
	ProjectedCost    decimal.Decimal `json:"projectedCost" example:"14000"`      // Cost recorded as projection
	RemainingRevenue decimal.Decimal `json:"remainingRevenue" example:"32812.5"` // EffectiveRevenue - AllocatedRevenue
	RemainingCost    decimal.Decimal `json:"remainingCost" example:"21000"`      // EffectiveCost - AllocatedCost
	RevenuePercent   decimal.Decimal `json:"revenuePercent" example:"50"`        // AllocatedRevenue / EffectiveRevenue * 100
	CostPercent      decimal.Decimal `json:"costPercent" example:"50"`           // AllocatedCost / EffectiveCost * 100
}

// Summarize computes the Summary for a job's allocation set. All records
// in the set count, not only the ones in the current view, so switching
// views never changes the reconciliation.
func Summarize(job models.Job, set AllocationSet) Summary {
	summary := Summary{
		EffectiveRevenue: job.EffectiveRevenue(),
		EffectiveCost:    job.EffectiveCost(),
		EffectiveProfit:  job.EffectiveProfit(),
	}

	for _, allocation := range set.Records() {
		summary.AllocatedRevenue = summary.AllocatedRevenue.Add(allocation.Revenue)
		summary.AllocatedCost = summary.AllocatedCost.Add(allocation.Cost)

		if allocation.Kind == models.AllocationKindActual {
			summary.ActualRevenue = summary.ActualRevenue.Add(allocation.Revenue)
			summary.ActualCost = summary.ActualCost.Add(allocation.Cost)
		} else {
			summary.ProjectedRevenue = summary.ProjectedRevenue.Add(allocation.Revenue)
			summary.ProjectedCost = summary.ProjectedCost.Add(allocation.Cost)
		}
	}

	summary.RemainingRevenue = summary.EffectiveRevenue.Sub(summary.AllocatedRevenue)
	summary.RemainingCost = summary.EffectiveCost.Sub(summary.AllocatedCost)
	summary.RevenuePercent = percent(summary.AllocatedRevenue, summary.EffectiveRevenue)
	summary.CostPercent = percent(summary.AllocatedCost, summary.EffectiveCost)

	return summary
}

// percent returns allocated/total*100, or 0 when the total is zero.
func percent(allocated, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}

	return allocated.Div(total).Mul(oneHundred)
}

// Status derives the completion status from the summary.
func (s Summary) Status() Status {
	if s.AllocatedRevenue.IsZero() && s.AllocatedCost.IsZero() {
		return StatusNotStarted
	}

	if s.RemainingRevenue.Abs().LessThanOrEqual(Tolerance) && s.RemainingCost.Abs().LessThanOrEqual(Tolerance) {
		return StatusComplete
	}

	return StatusPartial
}
