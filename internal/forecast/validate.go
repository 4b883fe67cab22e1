package forecast

import (
	"errors"

	"github.com/jobcast/backend/internal/models"
	"github.com/jobcast/backend/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

var (
	// ErrMonthNotInView is returned when an edit targets a month outside
	// the currently materialized window.
	ErrMonthNotInView = errors.New("the month is not part of the current view")

	// ErrNegativeAmount is returned when a supplied revenue or cost is negative.
	ErrNegativeAmount = errors.New("revenue and cost must not be negative")

	// ErrActualLocked is returned for any edit of a record already
	// classified as actual. There is no unlock path.
	ErrActualLocked = errors.New("the month is recorded as actual and can not be changed")

	// ErrOverAllocation is returned when the update would push the
	// allocated total past the effective total beyond the tolerance.
	ErrOverAllocation = errors.New("the update would allocate more than the job's effective total")
)

// CellUpdate is a single-cell edit of one month's allocation. Nil fields
// are left unchanged.
type CellUpdate struct {
	Month   types.Month
	Revenue *decimal.Decimal
	Cost    *decimal.Decimal
	Kind    *models.AllocationKind
	Note    *string
}

// Failures collects every validation rule an update violates. An empty
// list means the update may be committed.
type Failures []error

// Strings returns the failure messages for API responses.
func (f Failures) Strings() []string {
	messages := make([]string, 0, len(f))
	for _, err := range f {
		messages = append(messages, err.Error())
	}

	return messages
}

// Validate checks a single-cell update against the invariants. All
// violated rules are reported, not only the first one, and nothing is
// applied.
func Validate(job models.Job, set AllocationSet, window []types.Month, update CellUpdate) Failures {
	var failures Failures

	inView := slices.ContainsFunc(window, update.Month.Equal)
	if !inView {
		failures = append(failures, ErrMonthNotInView)
	}

	if (update.Revenue != nil && update.Revenue.IsNegative()) ||
		(update.Cost != nil && update.Cost.IsNegative()) {
		failures = append(failures, ErrNegativeAmount)
	}

	if existing, ok := set.Get(update.Month); ok && existing.Locked {
		failures = append(failures, ErrActualLocked)
	}

	// Conservation is checked against the simulated post-update summary
	if inView {
		simulated := Summarize(job, set.with(update.apply(job, set)))
		if simulated.RemainingRevenue.LessThan(Tolerance.Neg()) ||
			simulated.RemainingCost.LessThan(Tolerance.Neg()) {
			failures = append(failures, ErrOverAllocation)
		}
	}

	return failures
}

// ApplyCell validates the update and, when all rules hold, returns the
// new set with the edit applied. On failure the input set is returned
// unchanged together with the list of violations.
func ApplyCell(job models.Job, set AllocationSet, window []types.Month, update CellUpdate) (AllocationSet, Failures) {
	failures := Validate(job, set, window, update)
	if len(failures) > 0 {
		return set, failures
	}

	return set.with(update.apply(job, set)), nil
}

// apply returns the record as it would look after the update, without
// touching the set.
func (u CellUpdate) apply(job models.Job, set AllocationSet) models.MonthlyAllocation {
	allocation, ok := set.Get(u.Month)
	if !ok {
		allocation = models.MonthlyAllocation{
			JobID: job.ID,
			Month: u.Month,
			Kind:  models.AllocationKindProjection,
		}
	}

	if u.Revenue != nil {
		allocation.Revenue = *u.Revenue
	}

	if u.Cost != nil {
		allocation.Cost = *u.Cost
	}

	if u.Note != nil {
		allocation.Note = *u.Note
	}

	if u.Kind != nil {
		allocation.Kind = *u.Kind
	}

	// Marking a month actual locks it permanently
	allocation.Locked = allocation.Kind == models.AllocationKindActual

	return allocation
}
