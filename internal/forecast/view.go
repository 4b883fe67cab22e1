package forecast

import (
	"github.com/jobcast/backend/internal/fiscal"
	"github.com/jobcast/backend/internal/models"
	"github.com/jobcast/backend/internal/types"
)

// View is an allocation set projected onto a window of months, together
// with the recomputed summary and status for the whole set.
type View struct {
	Allocations []models.MonthlyAllocation `json:"allocations"`
	Summary     Summary                    `json:"summary"`
	Status      Status                     `json:"status"`
}

// FullWindow returns the window covering the job's entire duration.
func FullWindow(job models.Job) []types.Month {
	return fiscal.MonthsBetween(job.StartDate, job.EndDate)
}

// FiscalYearWindow returns the window of months where the job's duration
// overlaps the given fiscal year. The window is empty when the job does
// not run during that fiscal year.
func FiscalYearWindow(job models.Job, year int) []types.Month {
	fyStart, fyEnd := fiscal.YearRange(year)

	start, end, ok := fiscal.Overlap(job.StartDate, job.EndDate, fyStart, fyEnd)
	if !ok {
		return nil
	}

	return fiscal.MonthsBetween(start, end)
}

// Materialize adds a zero-valued, unlocked projection record for every
// window month the set does not know yet. Existing records are left
// untouched, including records for months outside the window, so
// switching between views is lossless.
func Materialize(job models.Job, set AllocationSet, window []types.Month) AllocationSet {
	byMonth := set.clone()

	for _, month := range window {
		if _, ok := byMonth[month]; ok {
			continue
		}

		byMonth[month] = models.MonthlyAllocation{
			JobID: job.ID,
			Month: month,
			Kind:  models.AllocationKindProjection,
		}
	}

	return AllocationSet{byMonth: byMonth}
}

// NewView materializes the window months and projects the resulting set
// onto the window.
func NewView(job models.Job, set AllocationSet, window []types.Month) (AllocationSet, View) {
	materialized := Materialize(job, set, window)
	summary := Summarize(job, materialized)

	return materialized, View{
		Allocations: materialized.Select(window),
		Summary:     summary,
		Status:      summary.Status(),
	}
}
