package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jobcast/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AllocationKind distinguishes historical from forward looking amounts.
//
// swagger:enum AllocationKind
type AllocationKind string

const (
	// AllocationKindActual is a locked, historically recorded amount.
	AllocationKindActual AllocationKind = "actual"

	// AllocationKindProjection is an editable, forward looking estimate.
	AllocationKindProjection AllocationKind = "projection"
)

var (
	ErrAllocationKindInvalid    = errors.New("the allocation kind must be actual or projection")
	ErrAllocationAmountNegative = errors.New("allocated amounts must not be negative")
	ErrAllocationMonthNotUnique = errors.New("you can not create multiple allocations for the same job and month")
)

// MonthlyAllocation is the amount of a job's revenue and cost assigned to
// one calendar month. A job has at most one allocation per month.
type MonthlyAllocation struct {
	Timestamps
	JobID   uuid.UUID       `gorm:"primaryKey"` // ID of the job
	Job     Job             `json:"-"`
	Month   types.Month     `gorm:"primaryKey"`
	Revenue decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Cost    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Kind    AllocationKind  `gorm:"default:projection"`
	Locked  bool            // true iff Kind is actual
	Note    string
}

func (a *MonthlyAllocation) BeforeSave(_ *gorm.DB) error {
	a.Note = strings.TrimSpace(a.Note)

	if a.Kind == "" {
		a.Kind = AllocationKindProjection
	}

	// The locked flag is derived, never set by callers
	a.Locked = a.Kind == AllocationKindActual

	return nil
}

func (a *MonthlyAllocation) AfterSave(_ *gorm.DB) error {
	if a.Kind != AllocationKindActual && a.Kind != AllocationKindProjection {
		return ErrAllocationKindInvalid
	}

	if a.Revenue.IsNegative() || a.Cost.IsNegative() {
		return ErrAllocationAmountNegative
	}

	return nil
}

// Label returns the display label of the allocation's month.
func (a MonthlyAllocation) Label() string {
	return a.Month.Label()
}
