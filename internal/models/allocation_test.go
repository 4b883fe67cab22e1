package models_test

import (
	"github.com/jobcast/backend/internal/models"
	"github.com/jobcast/backend/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestAllocationKindDefault() {
	job := suite.createTestJob(models.Job{})

	allocation := suite.createTestAllocation(models.MonthlyAllocation{
		JobID: job.ID,
		Month: types.NewMonth(2025, 3),
	})

	assert.Equal(suite.T(), models.AllocationKindProjection, allocation.Kind)
	assert.False(suite.T(), allocation.Locked)
}

func (suite *TestSuiteStandard) TestAllocationLockedDerived() {
	job := suite.createTestJob(models.Job{})

	// The locked flag follows the kind, a caller supplied value is ignored
	allocation := suite.createTestAllocation(models.MonthlyAllocation{
		JobID:  job.ID,
		Month:  types.NewMonth(2025, 3),
		Kind:   models.AllocationKindActual,
		Locked: false,
	})
	assert.True(suite.T(), allocation.Locked)

	allocation = suite.createTestAllocation(models.MonthlyAllocation{
		JobID:  job.ID,
		Month:  types.NewMonth(2025, 4),
		Kind:   models.AllocationKindProjection,
		Locked: true,
	})
	assert.False(suite.T(), allocation.Locked)
}

func (suite *TestSuiteStandard) TestAllocationTrimWhitespace() {
	job := suite.createTestJob(models.Job{})

	allocation := suite.createTestAllocation(models.MonthlyAllocation{
		JobID: job.ID,
		Month: types.NewMonth(2025, 3),
		Note:  " Change order expected ",
	})

	assert.Equal(suite.T(), "Change order expected", allocation.Note)
}

func (suite *TestSuiteStandard) TestAllocationValidation() {
	job := suite.createTestJob(models.Job{})

	err := models.DB.Create(&models.MonthlyAllocation{
		JobID: job.ID,
		Month: types.NewMonth(2025, 3),
		Kind:  "estimate",
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrAllocationKindInvalid)

	err = models.DB.Create(&models.MonthlyAllocation{
		JobID:   job.ID,
		Month:   types.NewMonth(2025, 3),
		Revenue: decimal.NewFromInt(-1),
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrAllocationAmountNegative)
}

func (suite *TestSuiteStandard) TestAllocationMonthUnique() {
	job := suite.createTestJob(models.Job{})

	_ = suite.createTestAllocation(models.MonthlyAllocation{
		JobID: job.ID,
		Month: types.NewMonth(2025, 3),
	})

	err := models.DB.Create(&models.MonthlyAllocation{
		JobID: job.ID,
		Month: types.NewMonth(2025, 3),
	}).Error
	assert.ErrorIs(suite.T(), err, models.ErrAllocationMonthNotUnique)
}

func (suite *TestSuiteStandard) TestAllocationLabel() {
	allocation := models.MonthlyAllocation{Month: types.NewMonth(2025, 11)}

	assert.Equal(suite.T(), "Nov 2025", allocation.Label())
}
