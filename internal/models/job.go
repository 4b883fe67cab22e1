package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// JobKind determines how a job's financial totals are weighted.
//
// swagger:enum JobKind
type JobKind string

const (
	// JobKindBacklog is committed work. It always carries 100% probability.
	JobKindBacklog JobKind = "backlog"

	// JobKindSpeculative is prospective (SWAG) work carrying a probability weight.
	JobKindSpeculative JobKind = "speculative"
)

var (
	ErrJobNameNotUnique      = errors.New("the job name must be unique")
	ErrJobKindInvalid        = errors.New("the job kind must be backlog or speculative")
	ErrJobProbabilityInvalid = errors.New("the job probability must be between 0 and 100")
	ErrJobDatesInvalid       = errors.New("the job end date must be after the start date")
	ErrJobTotalNegative      = errors.New("job totals must not be negative")
)

// Job is a construction job whose revenue and cost are forecast month by month.
type Job struct {
	DefaultModel
	Name         string  `gorm:"uniqueIndex"`
	Segment      string  // Market segment the job belongs to
	Kind         JobKind `gorm:"default:backlog"`
	Probability  uint    `gorm:"default:100"` // Win probability in percent. Always 100 for backlog jobs.
	StartDate    time.Time
	EndDate      time.Time
	TotalRevenue decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // Nominal contract revenue
	TotalCost    decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // Nominal estimated cost
	Note         string
	Archived     bool
}

func (j *Job) BeforeSave(_ *gorm.DB) error {
	j.Name = strings.TrimSpace(j.Name)
	j.Segment = strings.TrimSpace(j.Segment)
	j.Note = strings.TrimSpace(j.Note)

	if j.Kind == "" {
		j.Kind = JobKindBacklog
	}

	// Backlog is invariantly 100%
	if j.Kind == JobKindBacklog {
		j.Probability = 100
	}

	return nil
}

func (j *Job) AfterSave(_ *gorm.DB) error {
	if j.Kind != JobKindBacklog && j.Kind != JobKindSpeculative {
		return ErrJobKindInvalid
	}

	if j.Probability > 100 {
		return ErrJobProbabilityInvalid
	}

	if !j.EndDate.After(j.StartDate) {
		return ErrJobDatesInvalid
	}

	if j.TotalRevenue.IsNegative() || j.TotalCost.IsNegative() {
		return ErrJobTotalNegative
	}

	return nil
}

// BeforeDelete removes the allocations belonging to the job so that no
// orphaned monthly records survive a job deletion. This has to happen
// before the job row is deleted since the foreign key on
// monthly_allocations is enforced immediately.
func (j *Job) BeforeDelete(tx *gorm.DB) error {
	return tx.Where("job_id = ?", j.ID).Delete(&MonthlyAllocation{}).Error
}

// WeightedValue returns the probability weighted value of an amount.
// Backlog amounts are returned unchanged, speculative amounts are scaled
// by probability/100.
func WeightedValue(amount decimal.Decimal, kind JobKind, probability uint) decimal.Decimal {
	if kind == JobKindBacklog {
		return amount
	}

	return amount.Mul(decimal.NewFromInt(int64(probability))).Div(decimal.NewFromInt(100))
}

// EffectiveRevenue returns the probability weighted revenue of the job.
// All allocation reconciliation runs against effective values, never
// against the nominal totals.
func (j Job) EffectiveRevenue() decimal.Decimal {
	return WeightedValue(j.TotalRevenue, j.Kind, j.Probability)
}

// EffectiveCost returns the probability weighted cost of the job.
func (j Job) EffectiveCost() decimal.Decimal {
	return WeightedValue(j.TotalCost, j.Kind, j.Probability)
}

// EffectiveProfit returns the probability weighted profit of the job.
func (j Job) EffectiveProfit() decimal.Decimal {
	return j.EffectiveRevenue().Sub(j.EffectiveCost())
}
