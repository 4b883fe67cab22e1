package models_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jobcast/backend/internal/models"
	"github.com/jobcast/backend/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestJobTrimWhitespace() {
	name := " Riverside Medical Center "
	segment := " Healthcare\t"
	note := " Bid submitted in January "

	job := suite.createTestJob(models.Job{
		Name:    name,
		Segment: segment,
		Note:    note,
	})

	assert.Equal(suite.T(), "Riverside Medical Center", job.Name)
	assert.Equal(suite.T(), "Healthcare", job.Segment)
	assert.Equal(suite.T(), "Bid submitted in January", job.Note)
}

func (suite *TestSuiteStandard) TestJobKindDefault() {
	job := suite.createTestJob(models.Job{})

	assert.Equal(suite.T(), models.JobKindBacklog, job.Kind)
	assert.Equal(suite.T(), uint(100), job.Probability)
}

func (suite *TestSuiteStandard) TestJobBacklogForces100() {
	job := suite.createTestJob(models.Job{
		Kind:        models.JobKindBacklog,
		Probability: 40,
	})

	assert.Equal(suite.T(), uint(100), job.Probability)
}

func (suite *TestSuiteStandard) TestJobNameNotUnique() {
	_ = suite.createTestJob(models.Job{Name: "Unique job name"})

	job := models.Job{
		Name:      "Unique job name",
		StartDate: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC),
	}
	err := models.DB.Create(&job).Error

	assert.ErrorIs(suite.T(), err, models.ErrJobNameNotUnique)
}

func (suite *TestSuiteStandard) TestJobValidation() {
	tests := []struct {
		name string
		job  models.Job
		err  error
	}{
		{
			"invalid kind",
			models.Job{
				Kind:      "guaranteed",
				StartDate: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC),
			},
			models.ErrJobKindInvalid,
		},
		{
			"probability above 100",
			models.Job{
				Kind:        models.JobKindSpeculative,
				Probability: 101,
				StartDate:   time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
				EndDate:     time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC),
			},
			models.ErrJobProbabilityInvalid,
		},
		{
			"end date before start date",
			models.Job{
				StartDate: time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
			},
			models.ErrJobDatesInvalid,
		},
		{
			"negative total",
			models.Job{
				StartDate:    time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
				EndDate:      time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC),
				TotalRevenue: decimal.NewFromInt(-1),
			},
			models.ErrJobTotalNegative,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			tt.job.Name = uuid.New().String()

			err := models.DB.Create(&tt.job).Error
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestWeightedValue() {
	tests := []struct {
		name        string
		amount      decimal.Decimal
		kind        models.JobKind
		probability uint
		expected    decimal.Decimal
	}{
		{"backlog unchanged", decimal.NewFromInt(87500), models.JobKindBacklog, 100, decimal.NewFromInt(87500)},
		{"speculative weighted", decimal.NewFromInt(87500), models.JobKindSpeculative, 75, decimal.NewFromInt(65625)},
		{"zero probability", decimal.NewFromInt(87500), models.JobKindSpeculative, 0, decimal.Zero},
		{"zero amount", decimal.Zero, models.JobKindSpeculative, 75, decimal.Zero},
	}

	for _, tt := range tests {
		got := models.WeightedValue(tt.amount, tt.kind, tt.probability)
		assert.True(suite.T(), got.Equal(tt.expected), "%s: expected %s, got %s", tt.name, tt.expected, got)
	}
}

func (suite *TestSuiteStandard) TestJobEffectiveValues() {
	job := models.Job{
		Kind:         models.JobKindSpeculative,
		Probability:  75,
		TotalRevenue: decimal.NewFromInt(87500),
		TotalCost:    decimal.NewFromInt(61250),
	}

	assert.True(suite.T(), job.EffectiveRevenue().Equal(decimal.NewFromInt(65625)))
	assert.True(suite.T(), job.EffectiveCost().Equal(decimal.RequireFromString("45937.5")))
	assert.True(suite.T(), job.EffectiveProfit().Equal(decimal.RequireFromString("19687.5")))
}

func (suite *TestSuiteStandard) TestJobDeleteCascades() {
	job := suite.createTestJob(models.Job{})

	_ = suite.createTestAllocation(models.MonthlyAllocation{
		JobID: job.ID,
		Month: types.NewMonth(2025, 3),
	})

	err := models.DB.Delete(&job).Error
	assert.Nil(suite.T(), err)

	var count int64
	err = models.DB.Model(&models.MonthlyAllocation{}).Where("job_id = ?", job.ID).Count(&count).Error
	assert.Nil(suite.T(), err)
	assert.Equal(suite.T(), int64(0), count)
}
