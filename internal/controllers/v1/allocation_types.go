package v1

import (
	"time"

	"github.com/jobcast/backend/internal/forecast"
	"github.com/jobcast/backend/internal/models"
	"github.com/jobcast/backend/internal/types"
	"github.com/shopspring/decimal"
)

// Allocation is the API representation of one month of a job's forecast.
type Allocation struct {
	Month     types.Month           `json:"month" example:"2025-11-01T00:00:00.000000Z"`    // The month, always 00:00 UTC on the first
	Label     string                `json:"label" example:"Nov 2025"`                       // Display label for the month
	Revenue   decimal.Decimal       `json:"revenue" example:"2500"`                         // Revenue allocated to the month
	Cost      decimal.Decimal       `json:"cost" example:"1500"`                            // Cost allocated to the month
	Kind      models.AllocationKind `json:"kind" example:"projection"`                      // actual or projection
	Locked    bool                  `json:"locked" example:"false"`                         // true iff kind is actual
	Note      string                `json:"note" example:"Change order expected" default:""` // Note about the month
	UpdatedAt time.Time             `json:"updatedAt" example:"2025-04-17T20:14:01.048145Z"` // Last time the record was updated
}

// newAllocation returns the API v1 representation of the resource
func newAllocation(model models.MonthlyAllocation) Allocation {
	return Allocation{
		Month:     model.Month,
		Label:     model.Label(),
		Revenue:   model.Revenue,
		Cost:      model.Cost,
		Kind:      model.Kind,
		Locked:    model.Locked,
		Note:      model.Note,
		UpdatedAt: model.UpdatedAt,
	}
}

// AllocationView is a job's allocation set materialized for a window,
// with the recomputed summary and completion status.
type AllocationView struct {
	Allocations []Allocation     `json:"allocations"`                 // The months of the window
	Summary     forecast.Summary `json:"summary"`                     // Derived reconciliation values
	Status      forecast.Status  `json:"status" example:"partial"`    // not_started, partial or complete
}

func newAllocationView(view forecast.View) AllocationView {
	allocations := make([]Allocation, 0, len(view.Allocations))
	for _, allocation := range view.Allocations {
		allocations = append(allocations, newAllocation(allocation))
	}

	return AllocationView{
		Allocations: allocations,
		Summary:     view.Summary,
		Status:      view.Status,
	}
}

type AllocationViewResponse struct {
	Data   *AllocationView `json:"data"`                                                       // The materialized view
	Error  *string         `json:"error" example:"there is no job matching your query"`        // The error, if any occurred
	Errors []string        `json:"errors,omitempty" example:"revenue and cost must not be negative"` // All violated validation rules, if any
}

// CellEditable is a single-cell update. Fields that are not set are left
// unchanged.
type CellEditable struct {
	Revenue *decimal.Decimal       `json:"revenue" example:"2500" minimum:"0"`  // New revenue for the month
	Cost    *decimal.Decimal       `json:"cost" example:"1500" minimum:"0"`     // New cost for the month
	Kind    *models.AllocationKind `json:"kind" example:"actual"`               // Setting this to actual locks the month permanently
	Note    *string                `json:"note" example:"Invoiced on the 15th"` // Note about the month
}

func (editable CellEditable) update(month types.Month) forecast.CellUpdate {
	return forecast.CellUpdate{
		Month:   month,
		Revenue: editable.Revenue,
		Cost:    editable.Cost,
		Kind:    editable.Kind,
		Note:    editable.Note,
	}
}

// BulkEditable selects a bulk distribution operation over a window.
type BulkEditable struct {
	Operation string `json:"operation" binding:"required" example:"straightLine"` // straightLine, distributeRemaining or clearProjections
	Window    string `json:"window" example:"fiscal" default:"full"`              // The window the operation runs over
	Year      int    `json:"year" example:"2025"`                                 // Fiscal year for window=fiscal
}

// AllocationEditable is one month of a committed working view.
type AllocationEditable struct {
	Month   types.Month           `json:"month" binding:"required" example:"2025-11-01T00:00:00.000000Z"` // The month the record belongs to
	Revenue decimal.Decimal       `json:"revenue" example:"2500" minimum:"0" default:"0"`                 // Revenue allocated to the month
	Cost    decimal.Decimal       `json:"cost" example:"1500" minimum:"0" default:"0"`                    // Cost allocated to the month
	Kind    models.AllocationKind `json:"kind" example:"projection" default:"projection"`                 // actual or projection
	Note    string                `json:"note" example:"" default:""`                                     // Note about the month
}

func (editable AllocationEditable) model(job models.Job) models.MonthlyAllocation {
	kind := editable.Kind
	if kind == "" {
		kind = models.AllocationKindProjection
	}

	return models.MonthlyAllocation{
		JobID:   job.ID,
		Month:   editable.Month,
		Revenue: editable.Revenue,
		Cost:    editable.Cost,
		Kind:    kind,
		Locked:  kind == models.AllocationKindActual,
		Note:    editable.Note,
	}
}
