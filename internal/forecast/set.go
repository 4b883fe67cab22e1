// Package forecast implements the monthly allocation engine.
//
// All operations are pure: they take an allocation set and return a new
// one, so callers always hold an immutable snapshot. Nothing in this
// package reads the clock or touches the database.
package forecast

import (
	"github.com/jobcast/backend/internal/models"
	"github.com/jobcast/backend/internal/types"
	"golang.org/x/exp/slices"
)

// AllocationSet is the month-keyed collection of allocation records for
// one job. The zero value is not usable, use NewSet.
type AllocationSet struct {
	byMonth map[types.Month]models.MonthlyAllocation
}

// NewSet builds an AllocationSet from a slice of records. When the slice
// contains multiple records for the same month, the last one wins.
func NewSet(allocations []models.MonthlyAllocation) AllocationSet {
	byMonth := make(map[types.Month]models.MonthlyAllocation, len(allocations))
	for _, allocation := range allocations {
		byMonth[allocation.Month] = allocation
	}

	return AllocationSet{byMonth: byMonth}
}

// Get returns the record for a month.
func (s AllocationSet) Get(month types.Month) (models.MonthlyAllocation, bool) {
	allocation, ok := s.byMonth[month]
	return allocation, ok
}

// Len returns the number of records in the set.
func (s AllocationSet) Len() int {
	return len(s.byMonth)
}

// Months returns all months with a record, in chronological order.
func (s AllocationSet) Months() []types.Month {
	months := make([]types.Month, 0, len(s.byMonth))
	for month := range s.byMonth {
		months = append(months, month)
	}

	slices.SortFunc(months, func(a, b types.Month) int {
		if a.Before(b) {
			return -1
		} else if a.After(b) {
			return 1
		}
		return 0
	})

	return months
}

// Records returns all records in chronological order.
func (s AllocationSet) Records() []models.MonthlyAllocation {
	records := make([]models.MonthlyAllocation, 0, len(s.byMonth))
	for _, month := range s.Months() {
		records = append(records, s.byMonth[month])
	}

	return records
}

// Select returns the records for the given months, in window order.
// Months without a record are skipped.
func (s AllocationSet) Select(window []types.Month) []models.MonthlyAllocation {
	records := make([]models.MonthlyAllocation, 0, len(window))
	for _, month := range window {
		if allocation, ok := s.byMonth[month]; ok {
			records = append(records, allocation)
		}
	}

	return records
}

// with returns a copy of the set with one record replaced or added.
func (s AllocationSet) with(allocation models.MonthlyAllocation) AllocationSet {
	byMonth := make(map[types.Month]models.MonthlyAllocation, len(s.byMonth)+1)
	for month, existing := range s.byMonth {
		byMonth[month] = existing
	}
	byMonth[allocation.Month] = allocation

	return AllocationSet{byMonth: byMonth}
}

// clone returns a deep copy of the set's index for bulk operations.
func (s AllocationSet) clone() map[types.Month]models.MonthlyAllocation {
	byMonth := make(map[types.Month]models.MonthlyAllocation, len(s.byMonth))
	for month, allocation := range s.byMonth {
		byMonth[month] = allocation
	}

	return byMonth
}
