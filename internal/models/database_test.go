package models_test

import (
	"github.com/google/uuid"
	"github.com/jobcast/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestNotFoundMessage() {
	err := models.DB.First(&models.Job{}, uuid.New()).Error

	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
	assert.Equal(suite.T(), "there is no job matching your query", err.Error())
}

func (suite *TestSuiteStandard) TestGeneralOnClosedDB() {
	suite.CloseDB()

	err := models.DB.First(&models.Job{}, uuid.New()).Error
	assert.ErrorIs(suite.T(), err, models.ErrGeneral)
}
