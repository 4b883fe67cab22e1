package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jobcast/backend/internal/models"
	"github.com/shopspring/decimal"
)

type JobEditable struct {
	Name         string          `json:"name" example:"Riverside Medical Center" default:""`                                   // Name of the job, must be unique
	Segment      string          `json:"segment" example:"Healthcare" default:""`                                              // Market segment the job belongs to
	Kind         models.JobKind  `json:"kind" example:"speculative" default:"backlog"`                                         // backlog or speculative
	Probability  uint            `json:"probability" example:"75" minimum:"0" maximum:"100" default:"100"`                     // Win probability in percent, ignored (forced to 100) for backlog jobs
	StartDate    time.Time       `json:"startDate" example:"2025-02-10T00:00:00Z"`                                             // First day of the job
	EndDate      time.Time       `json:"endDate" example:"2026-04-30T00:00:00Z"`                                               // Last day of the job
	TotalRevenue decimal.Decimal `json:"totalRevenue" example:"87500" minimum:"0" multipleOf:"0.00000001" default:"0"`         // Nominal contract revenue
	TotalCost    decimal.Decimal `json:"totalCost" example:"61250" minimum:"0" multipleOf:"0.00000001" default:"0"`            // Nominal estimated cost
	Note         string          `json:"note" example:"Bid submitted in January, decision expected by March" default:""`       // Note about the job
	Archived     bool            `json:"archived" example:"true" default:"false"`                                              // If the job is no longer part of the forecast
}

// model returns the database resource for the API representation of the editable fields
func (editable JobEditable) model() models.Job {
	return models.Job{
		Name:         editable.Name,
		Segment:      editable.Segment,
		Kind:         editable.Kind,
		Probability:  editable.Probability,
		StartDate:    editable.StartDate,
		EndDate:      editable.EndDate,
		TotalRevenue: editable.TotalRevenue,
		TotalCost:    editable.TotalCost,
		Note:         editable.Note,
		Archived:     editable.Archived,
	}
}

type JobLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/jobs/438cc6c0-9baf-49fd-a75a-d76bd5cab19c"`              // The job itself
	Allocations string `json:"allocations" example:"https://example.com/api/v1/jobs/438cc6c0-9baf-49fd-a75a-d76bd5cab19c/allocations"` // The monthly allocations of the job
	Export      string `json:"export" example:"https://example.com/api/v1/jobs/438cc6c0-9baf-49fd-a75a-d76bd5cab19c/export"`     // Plain text forecast report for the job
}

type Job struct {
	models.DefaultModel
	JobEditable
	EffectiveRevenue decimal.Decimal `json:"effectiveRevenue" example:"65625"` // Probability weighted revenue
	EffectiveCost    decimal.Decimal `json:"effectiveCost" example:"45937.5"`  // Probability weighted cost
	EffectiveProfit  decimal.Decimal `json:"effectiveProfit" example:"19687.5"` // Probability weighted profit
	Links            JobLinks        `json:"links"`
}

// newJob returns the API v1 representation of the resource
func newJob(c *gin.Context, model models.Job) Job {
	url := c.GetString(string(models.DBContextURL))

	return Job{
		DefaultModel: model.DefaultModel,
		JobEditable: JobEditable{
			Name:         model.Name,
			Segment:      model.Segment,
			Kind:         model.Kind,
			Probability:  model.Probability,
			StartDate:    model.StartDate,
			EndDate:      model.EndDate,
			TotalRevenue: model.TotalRevenue,
			TotalCost:    model.TotalCost,
			Note:         model.Note,
			Archived:     model.Archived,
		},
		EffectiveRevenue: model.EffectiveRevenue(),
		EffectiveCost:    model.EffectiveCost(),
		EffectiveProfit:  model.EffectiveProfit(),
		Links: JobLinks{
			Self:        fmt.Sprintf("%s/v1/jobs/%s", url, model.ID),
			Allocations: fmt.Sprintf("%s/v1/jobs/%s/allocations", url, model.ID),
			Export:      fmt.Sprintf("%s/v1/jobs/%s/export", url, model.ID),
		},
	}
}

type JobResponse struct {
	Data  *Job    `json:"data"`                                                          // The job
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type JobListResponse struct {
	Data       []Job       `json:"data"`                                                          // List of jobs
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type JobCreateResponse struct {
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []JobResponse `json:"data"`                                                          // List of created jobs
}

func (t *JobCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, JobResponse{Error: &s})

	// The first error sets the status
	if currentStatus < 400 {
		return status(err)
	}

	return currentStatus
}

type JobQueryFilter struct {
	Name        string `form:"name" filterField:"false"`        // Filter by name
	Segment     string `form:"segment" filterField:"false"`     // Filter by segment, supports glob patterns
	Kind        string `form:"kind"`                            // Filter by kind
	Note        string `form:"note" filterField:"false"`        // Filter by note
	Search      string `form:"search" filterField:"false"`      // Search for this text in name and note
	Archived    bool   `form:"archived"`                        // Is the job archived?
	FiscalYear  int    `form:"fiscalYear" filterField:"false"`  // Only jobs overlapping this fiscal year
	Offset      uint   `form:"offset" filterField:"false"`      // The offset of the first job returned. Defaults to 0.
	Limit       int    `form:"limit" filterField:"false"`       // Maximum number of jobs to return. Defaults to 50.
}

func (f JobQueryFilter) model() (models.Job, error) {
	var kind models.JobKind
	if f.Kind != "" {
		kind = models.JobKind(f.Kind)
		if kind != models.JobKindBacklog && kind != models.JobKindSpeculative {
			return models.Job{}, models.ErrJobKindInvalid
		}
	}

	return models.Job{
		Kind:     kind,
		Archived: f.Archived,
	}, nil
}
