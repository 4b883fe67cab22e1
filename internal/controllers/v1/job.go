package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobcast/backend/internal/fiscal"
	"github.com/jobcast/backend/internal/httputil"
	"github.com/jobcast/backend/internal/models"
	"github.com/ryanuber/go-glob"
	"golang.org/x/exp/slices"
)

// RegisterJobRoutes registers the routes for jobs with
// the RouterGroup that is passed.
func RegisterJobRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsJobList)
		r.GET("", GetJobs)
		r.POST("", CreateJobs)
	}

	// Job with ID
	{
		r.OPTIONS("/:id", OptionsJobDetail)
		r.GET("/:id", GetJob)
		r.PATCH("/:id", UpdateJob)
		r.DELETE("/:id", DeleteJob)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Jobs
// @Success		204
// @Router			/v1/jobs [options]
func OptionsJobList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Jobs
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/jobs/{id} [options]
func OptionsJobDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Job{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create jobs
// @Description	Creates new jobs
// @Tags			Jobs
// @Accept			json
// @Produce		json
// @Success		201		{object}	JobCreateResponse
// @Failure		400		{object}	JobCreateResponse
// @Failure		500		{object}	JobCreateResponse
// @Param			jobs	body		[]JobEditable	true	"Jobs"
// @Router			/v1/jobs [post]
func CreateJobs(c *gin.Context) {
	var jobs []JobEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &jobs)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), JobCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := JobCreateResponse{}

	for _, create := range jobs {
		job := create.model()
		err = models.DB.Create(&job).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		// Transform for the API and append
		apiResource := newJob(c, job)
		r.Data = append(r.Data, JobResponse{Data: &apiResource})
	}

	c.JSON(status, r)
}

// @Summary		Get jobs
// @Description	Returns a list of jobs
// @Tags			Jobs
// @Produce		json
// @Success		200	{object}	JobListResponse
// @Failure		400	{object}	JobListResponse
// @Failure		500	{object}	JobListResponse
// @Router			/v1/jobs [get]
// @Param			name		query	string	false	"Filter by name"
// @Param			segment		query	string	false	"Filter by segment, supports glob patterns"
// @Param			kind		query	string	false	"Filter by kind"
// @Param			note		query	string	false	"Filter by note"
// @Param			search		query	string	false	"Search for this text in name and note"
// @Param			archived	query	bool	false	"Is the job archived?"
// @Param			fiscalYear	query	int		false	"Only jobs overlapping this fiscal year"
// @Param			offset		query	uint	false	"The offset of the first job returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of jobs to return. Defaults to 50."
func GetJobs(c *gin.Context) {
	var filter JobQueryFilter

	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, JobListResponse{
			Error: &s,
		})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	where, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), JobListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("date(jobs.start_date) ASC, jobs.name ASC").
		Where(&where, queryFields...)

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	if filter.FiscalYear != 0 {
		fyStart, fyEnd := fiscal.YearRange(filter.FiscalYear)
		q = q.Where("jobs.start_date <= date(?)", fyEnd).Where("jobs.end_date >= date(?)", fyStart)
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 jobs and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var jobs []models.Job
	err = q.Find(&jobs).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), JobListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), JobListResponse{
			Error: &e,
		})
		return
	}

	// Transform resources to their API representation. The segment glob
	// filter matches here since SQL has no glob semantics portable across
	// the supported databases.
	data := make([]Job, 0, len(jobs))
	for _, job := range jobs {
		if filter.Segment != "" && !glob.Glob(filter.Segment, job.Segment) {
			count--
			continue
		}

		data = append(data, newJob(c, job))
	}

	c.JSON(http.StatusOK, JobListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get job
// @Description	Returns a specific job
// @Tags			Jobs
// @Produce		json
// @Success		200	{object}	JobResponse
// @Failure		400	{object}	JobResponse
// @Failure		404	{object}	JobResponse
// @Failure		500	{object}	JobResponse
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/jobs/{id} [get]
func GetJob(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), JobResponse{
			Error: &s,
		})
		return
	}

	var job models.Job
	err = models.DB.First(&job, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), JobResponse{
			Error: &s,
		})
		return
	}

	apiResource := newJob(c, job)
	c.JSON(http.StatusOK, JobResponse{Data: &apiResource})
}

// @Summary		Update job
// @Description	Updates an existing job. Only values to be updated need to be specified.
// @Tags			Jobs
// @Accept			json
// @Produce		json
// @Success		200		{object}	JobResponse
// @Failure		400		{object}	JobResponse
// @Failure		404		{object}	JobResponse
// @Failure		500		{object}	JobResponse
// @Param			id		path		URIID		true	"ID formatted as string"
// @Param			job		body		JobEditable	true	"Job"
// @Router			/v1/jobs/{id} [patch]
func UpdateJob(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), JobResponse{
			Error: &s,
		})
		return
	}

	var job models.Job
	err = models.DB.First(&job, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), JobResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, JobEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), JobResponse{
			Error: &s,
		})
		return
	}

	var data JobEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), JobResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&job).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), JobResponse{
			Error: &s,
		})
		return
	}

	apiResource := newJob(c, job)
	c.JSON(http.StatusOK, JobResponse{Data: &apiResource})
}

// @Summary		Delete job
// @Description	Deletes a job and all of its monthly allocations
// @Tags			Jobs
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID formatted as string"
// @Router			/v1/jobs/{id} [delete]
func DeleteJob(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var job models.Job
	err = models.DB.First(&job, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&job).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
