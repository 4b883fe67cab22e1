package v1_test

import (
	"net/http"

	v1 "github.com/jobcast/backend/internal/controllers/v1"
	"github.com/jobcast/backend/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestGetV1() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.V1Response
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Equal(suite.T(), "http://example.com/v1/jobs", response.Links.Jobs)
}

func (suite *TestSuiteStandard) TestOptionsV1() {
	r := test.Request(suite.T(), http.MethodOptions, "http://example.com/v1", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
	assert.Equal(suite.T(), "OPTIONS, GET", r.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestGetRoot() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response struct {
		Links struct {
			Docs    string `json:"docs"`
			Healthz string `json:"healthz"`
			Metrics string `json:"metrics"`
			Version string `json:"version"`
			V1      string `json:"v1"`
		} `json:"links"`
	}
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Equal(suite.T(), "http://example.com/v1", response.Links.V1)
	assert.Equal(suite.T(), "http://example.com/healthz", response.Links.Healthz)
}

func (suite *TestSuiteStandard) TestGetVersion() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/version", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
}

func (suite *TestSuiteStandard) TestMethodNotAllowed() {
	r := test.Request(suite.T(), http.MethodDelete, "http://example.com/version", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusMethodNotAllowed)
}
