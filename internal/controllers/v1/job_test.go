package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	v1 "github.com/jobcast/backend/internal/controllers/v1"
	"github.com/jobcast/backend/internal/models"
	"github.com/jobcast/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func createTestJob(t *testing.T, c v1.JobEditable, expectedStatus ...int) v1.JobResponse {
	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	// Give every test job a valid duration unless the test overrides it
	if c.StartDate.IsZero() && c.EndDate.IsZero() {
		c.StartDate = date(2025, 2, 10)
		c.EndDate = date(2025, 5, 3)
	}

	if c.Name == "" {
		c.Name = uuid.NewString()
	}

	body := []v1.JobEditable{c}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/jobs", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var a v1.JobCreateResponse
	test.DecodeResponse(t, &r, &a)

	if r.Code == http.StatusCreated {
		return a.Data[0]
	}

	return v1.JobResponse{}
}

// TestJobOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestJobOptions() {
	tests := []struct {
		name   string
		id     string // path at the /v1/jobs endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No job with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Job exists", createTestJob(suite.T(), v1.JobEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/jobs", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

// TestJobsCreate verifies the validation rules for job creation.
func (suite *TestSuiteStandard) TestJobsCreate() {
	suite.T().Run("backlog job is forced to 100%", func(t *testing.T) {
		job := createTestJob(t, v1.JobEditable{
			Kind:         models.JobKindBacklog,
			Probability:  40,
			TotalRevenue: decimal.NewFromInt(87500),
			TotalCost:    decimal.NewFromInt(61250),
		})

		assert.Equal(t, uint(100), job.Data.Probability)
		assert.True(t, job.Data.EffectiveRevenue.Equal(decimal.NewFromInt(87500)), job.Data.EffectiveRevenue)
	})

	suite.T().Run("speculative job is probability weighted", func(t *testing.T) {
		job := createTestJob(t, v1.JobEditable{
			Kind:         models.JobKindSpeculative,
			Probability:  75,
			TotalRevenue: decimal.NewFromInt(87500),
			TotalCost:    decimal.NewFromInt(61250),
		})

		assert.True(t, job.Data.EffectiveRevenue.Equal(decimal.NewFromInt(65625)), job.Data.EffectiveRevenue)
		assert.True(t, job.Data.EffectiveCost.Equal(decimal.RequireFromString("45937.5")), job.Data.EffectiveCost)
		assert.True(t, job.Data.EffectiveProfit.Equal(decimal.RequireFromString("19687.5")), job.Data.EffectiveProfit)
	})

	suite.T().Run("duplicate name", func(t *testing.T) {
		_ = createTestJob(t, v1.JobEditable{Name: "Riverside Medical Center"})
		_ = createTestJob(t, v1.JobEditable{Name: "Riverside Medical Center"}, http.StatusBadRequest)
	})

	suite.T().Run("invalid kind", func(t *testing.T) {
		_ = createTestJob(t, v1.JobEditable{Kind: "guaranteed"}, http.StatusBadRequest)
	})

	suite.T().Run("probability above 100", func(t *testing.T) {
		_ = createTestJob(t, v1.JobEditable{Kind: models.JobKindSpeculative, Probability: 101}, http.StatusBadRequest)
	})

	suite.T().Run("end date before start date", func(t *testing.T) {
		_ = createTestJob(t, v1.JobEditable{
			StartDate: date(2025, 5, 3),
			EndDate:   date(2025, 2, 10),
		}, http.StatusBadRequest)
	})

	suite.T().Run("negative totals", func(t *testing.T) {
		_ = createTestJob(t, v1.JobEditable{
			TotalRevenue: decimal.NewFromInt(-1),
		}, http.StatusBadRequest)
	})

	suite.T().Run("broken body", func(t *testing.T) {
		r := test.Request(t, http.MethodPost, "http://example.com/v1/jobs", `{ "name": "Not an array" }`)
		test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
	})
}

// TestJobsGetSingle verifies that requests for the resource endpoints are
// handled correctly.
func (suite *TestSuiteStandard) TestJobsGetSingle() {
	job := createTestJob(suite.T(), v1.JobEditable{})

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing job", job.Data.ID.String(), http.StatusOK, http.MethodGet},
		{"GET No job with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID (negative number)", "-56", http.StatusBadRequest, http.MethodGet},
		{"GET Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodGet},
		{"PATCH Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodPatch},
		{"DELETE Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodDelete},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/jobs/%s", tt.id), "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

// TestJobsGetFiltered verifies that the query filters work.
func (suite *TestSuiteStandard) TestJobsGetFiltered() {
	_ = createTestJob(suite.T(), v1.JobEditable{
		Name:      "Riverside Medical Center",
		Segment:   "Healthcare",
		Kind:      models.JobKindBacklog,
		StartDate: date(2025, 2, 10),
		EndDate:   date(2026, 4, 30),
	})

	_ = createTestJob(suite.T(), v1.JobEditable{
		Name:        "Maple Street Parking Garage",
		Segment:     "Municipal",
		Kind:        models.JobKindSpeculative,
		Probability: 50,
		StartDate:   date(2026, 1, 1),
		EndDate:     date(2026, 6, 30),
		Note:        "Bid submitted in January",
	})

	_ = createTestJob(suite.T(), v1.JobEditable{
		Name:      "Harbor View Clinic",
		Segment:   "Healthcare",
		Kind:      models.JobKindBacklog,
		StartDate: date(2024, 3, 1),
		EndDate:   date(2024, 9, 30),
		Archived:  true,
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Name single", "name=Riverside Medical Center", 1},
		{"Name no match", "name=No such job", 0},
		{"Segment exact", "segment=Municipal", 1},
		{"Segment glob", "segment=Health*", 2},
		{"Kind backlog", "kind=backlog", 2},
		{"Kind speculative", "kind=speculative", 1},
		{"Search note", "search=bid", 1},
		{"Archived", "archived=true", 1},
		{"Fiscal year 2025", "fiscalYear=2025", 2},
		{"Fiscal year 2023", "fiscalYear=2023", 1},
		{"Fiscal year without jobs", "fiscalYear=2030", 0},
		{"Limit", "limit=2", 2},
		{"Offset", "offset=2", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/jobs?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.JobListResponse
			test.DecodeResponse(t, &r, &response)

			assert.Equal(t, tt.len, len(response.Data), "Query: %s, Response: %s", tt.query, r.Body.String())
		})
	}

	suite.T().Run("invalid kind filter", func(t *testing.T) {
		r := test.Request(t, http.MethodGet, "http://example.com/v1/jobs?kind=guaranteed", "")
		test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
	})
}

// TestJobsPagination verifies the pagination object of the list response.
func (suite *TestSuiteStandard) TestJobsPagination() {
	for i := 0; i < 3; i++ {
		_ = createTestJob(suite.T(), v1.JobEditable{})
	}

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/jobs?offset=1&limit=1", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.JobListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Equal(suite.T(), uint(1), response.Pagination.Offset)
	assert.Equal(suite.T(), 1, response.Pagination.Limit)
	assert.Equal(suite.T(), 1, response.Pagination.Count)
	assert.Equal(suite.T(), int64(3), response.Pagination.Total)
}

// TestJobsUpdate verifies partial updates of jobs.
func (suite *TestSuiteStandard) TestJobsUpdate() {
	job := createTestJob(suite.T(), v1.JobEditable{
		Kind:         models.JobKindSpeculative,
		Probability:  50,
		TotalRevenue: decimal.NewFromInt(10000),
	})

	suite.T().Run("update probability only", func(t *testing.T) {
		r := test.Request(t, http.MethodPatch, job.Data.Links.Self, map[string]any{
			"probability": 80,
		})
		test.AssertHTTPStatus(t, &r, http.StatusOK)

		var updated v1.JobResponse
		test.DecodeResponse(t, &r, &updated)

		assert.Equal(t, uint(80), updated.Data.Probability)
		assert.True(t, updated.Data.EffectiveRevenue.Equal(decimal.NewFromInt(8000)), updated.Data.EffectiveRevenue)
	})

	suite.T().Run("invalid kind is rejected", func(t *testing.T) {
		r := test.Request(t, http.MethodPatch, job.Data.Links.Self, map[string]any{
			"kind": "guaranteed",
		})
		test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
	})

	suite.T().Run("broken body", func(t *testing.T) {
		r := test.Request(t, http.MethodPatch, job.Data.Links.Self, `{ broken`)
		test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
	})
}

// TestJobsDelete verifies that jobs can be deleted, including jobs that
// already have allocation records.
func (suite *TestSuiteStandard) TestJobsDelete() {
	job := createTestJob(suite.T(), v1.JobEditable{})

	r := test.Request(suite.T(), http.MethodPatch, job.Data.Links.Allocations+"/2025-03", map[string]any{
		"revenue": 100,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	r = test.Request(suite.T(), http.MethodDelete, job.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, job.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

// TestJobsDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestJobsDBClosed() {
	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestJob(t, v1.JobEditable{}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				r := test.Request(t, http.MethodGet, "http://example.com/v1/jobs", "")
				test.AssertHTTPStatus(t, &r, http.StatusInternalServerError)
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.CloseDB()

			tt.test(t)
		})
	}
}
