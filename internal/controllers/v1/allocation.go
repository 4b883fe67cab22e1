package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jobcast/backend/internal/fiscal"
	"github.com/jobcast/backend/internal/forecast"
	"github.com/jobcast/backend/internal/httputil"
	"github.com/jobcast/backend/internal/models"
	"github.com/jobcast/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RegisterAllocationRoutes registers the routes for the monthly
// allocations of a job with the RouterGroup that is passed.
func RegisterAllocationRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsAllocationList)
		r.GET("", GetAllocationView)
		r.PUT("", CommitAllocations)
	}
	{
		r.OPTIONS("/bulk", OptionsAllocationBulk)
		r.POST("/bulk", ApplyBulkOperation)
	}
	{
		r.OPTIONS("/:month", OptionsAllocationMonth)
		r.PATCH("/:month", UpdateAllocationCell)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Router			/v1/jobs/{id}/allocations [options]
func OptionsAllocationList(c *gin.Context) {
	httputil.OptionsGetPut(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Router			/v1/jobs/{id}/allocations/bulk [options]
func OptionsAllocationBulk(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocations
// @Success		204
// @Router			/v1/jobs/{id}/allocations/{month} [options]
func OptionsAllocationMonth(c *gin.Context) {
	httputil.OptionsPatch(c)
}

// getJobWithAllocations loads the job and its current allocation set.
// On error, the response has already been written.
func getJobWithAllocations(c *gin.Context) (models.Job, forecast.AllocationSet, bool) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationViewResponse{Error: &s})
		return models.Job{}, forecast.AllocationSet{}, false
	}

	var job models.Job
	err = models.DB.First(&job, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationViewResponse{Error: &s})
		return models.Job{}, forecast.AllocationSet{}, false
	}

	var allocations []models.MonthlyAllocation
	err = models.DB.Where(&models.MonthlyAllocation{JobID: job.ID}).Find(&allocations).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationViewResponse{Error: &s})
		return models.Job{}, forecast.AllocationSet{}, false
	}

	return job, forecast.NewSet(allocations), true
}

// windowMonths resolves a window selection to the list of months it
// covers. The fiscal year defaults to the one the current date falls
// into; the engine itself never reads the clock.
func windowMonths(job models.Job, window string, year int) ([]types.Month, error) {
	switch window {
	case "", "full":
		return forecast.FullWindow(job), nil
	case "fiscal":
		if year == 0 {
			year = fiscal.YearOf(time.Now().UTC())
		}
		return forecast.FiscalYearWindow(job, year), nil
	default:
		return nil, errWindowInvalid
	}
}

// @Summary		Get allocation view
// @Description	Materializes the job's monthly allocations for a window and returns them with the summary and completion status. A fiscal year without overlap returns an empty, valid view.
// @Tags			Allocations
// @Produce		json
// @Success		200	{object}	AllocationViewResponse
// @Failure		400	{object}	AllocationViewResponse
// @Failure		404	{object}	AllocationViewResponse
// @Failure		500	{object}	AllocationViewResponse
// @Param			id		path	URIID	true	"ID formatted as string"
// @Param			window	query	string	false	"full (default) or fiscal"
// @Param			year	query	int		false	"Fiscal year for window=fiscal. Defaults to the current fiscal year."
// @Router			/v1/jobs/{id}/allocations [get]
func GetAllocationView(c *gin.Context) {
	var query WindowQuery
	if err := c.Bind(&query); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, AllocationViewResponse{Error: &s})
		return
	}

	job, set, ok := getJobWithAllocations(c)
	if !ok {
		return
	}

	window, err := windowMonths(job, query.Window, query.Year)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, AllocationViewResponse{Error: &s})
		return
	}

	_, view := forecast.NewView(job, set, window)

	data := newAllocationView(view)
	c.JSON(http.StatusOK, AllocationViewResponse{Data: &data})
}

// @Summary		Update allocation cell
// @Description	Updates one month of the job's allocations. All violated validation rules are returned and nothing is applied when any rule fails.
// @Tags			Allocations
// @Accept			json
// @Produce		json
// @Success		200		{object}	AllocationViewResponse
// @Failure		400		{object}	AllocationViewResponse
// @Failure		404		{object}	AllocationViewResponse
// @Failure		500		{object}	AllocationViewResponse
// @Param			id		path	URIMonth		true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			month	path	string			true	"The month in YYYY-MM format"
// @Param			cell	body	CellEditable	true	"Cell update"
// @Param			window	query	string			false	"full (default) or fiscal"
// @Param			year	query	int				false	"Fiscal year for window=fiscal"
// @Router			/v1/jobs/{id}/allocations/{month} [patch]
func UpdateAllocationCell(c *gin.Context) {
	var uri URIMonth
	if err := c.ShouldBindUri(&uri); err != nil {
		s := httputil.ErrInvalidMonth.Error()
		c.JSON(http.StatusBadRequest, AllocationViewResponse{Error: &s})
		return
	}

	var query WindowQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, AllocationViewResponse{Error: &s})
		return
	}

	var editable CellEditable
	if err := httputil.BindData(c, &editable); err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationViewResponse{Error: &s})
		return
	}

	job, set, ok := getJobWithAllocations(c)
	if !ok {
		return
	}

	window, err := windowMonths(job, query.Window, query.Year)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, AllocationViewResponse{Error: &s})
		return
	}

	month := types.MonthOf(uri.Month)
	set = forecast.Materialize(job, set, window)

	set, failures := forecast.ApplyCell(job, set, window, editable.update(month))
	if len(failures) > 0 {
		c.JSON(http.StatusBadRequest, AllocationViewResponse{Errors: failures.Strings()})
		return
	}

	// Persist the one record the update touched
	record, _ := set.Get(month)
	err = models.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&record).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationViewResponse{Error: &s})
		return
	}

	_, view := forecast.NewView(job, set, window)
	data := newAllocationView(view)
	c.JSON(http.StatusOK, AllocationViewResponse{Data: &data})
}

// @Summary		Apply bulk operation
// @Description	Runs a distribution operation over the window and persists the result. Months recorded as actual are never modified.
// @Tags			Allocations
// @Accept			json
// @Produce		json
// @Success		200		{object}	AllocationViewResponse
// @Failure		400		{object}	AllocationViewResponse
// @Failure		404		{object}	AllocationViewResponse
// @Failure		500		{object}	AllocationViewResponse
// @Param			id		path	URIID			true	"ID formatted as string"
// @Param			bulk	body	BulkEditable	true	"Bulk operation"
// @Router			/v1/jobs/{id}/allocations/bulk [post]
func ApplyBulkOperation(c *gin.Context) {
	var editable BulkEditable
	if err := httputil.BindData(c, &editable); err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationViewResponse{Error: &s})
		return
	}

	job, set, ok := getJobWithAllocations(c)
	if !ok {
		return
	}

	window, err := windowMonths(job, editable.Window, editable.Year)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, AllocationViewResponse{Error: &s})
		return
	}

	set = forecast.Materialize(job, set, window)

	switch editable.Operation {
	case "straightLine":
		set = forecast.StraightLine(job, set, window)
	case "distributeRemaining":
		set = forecast.DistributeRemaining(job, set, window)
	case "clearProjections":
		set = forecast.ClearProjections(set, window)
	default:
		s := errBulkOperationInvalid.Error()
		c.JSON(http.StatusBadRequest, AllocationViewResponse{Error: &s})
		return
	}

	// Persist the window's records in one transaction
	records := set.Select(window)
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		for i := range records {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&records[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationViewResponse{Error: &s})
		return
	}

	_, view := forecast.NewView(job, set, window)
	data := newAllocationView(view)
	c.JSON(http.StatusOK, AllocationViewResponse{Data: &data})
}

// @Summary		Commit allocations
// @Description	Replaces the job's persisted allocation set with the working view. The commit is all-or-nothing: months recorded as actual must be carried over unchanged and the view must respect the conservation invariants.
// @Tags			Allocations
// @Accept			json
// @Produce		json
// @Success		200			{object}	AllocationViewResponse
// @Failure		400			{object}	AllocationViewResponse
// @Failure		404			{object}	AllocationViewResponse
// @Failure		500			{object}	AllocationViewResponse
// @Param			id			path	URIID					true	"ID formatted as string"
// @Param			allocations	body	[]AllocationEditable	true	"The working view"
// @Router			/v1/jobs/{id}/allocations [put]
func CommitAllocations(c *gin.Context) {
	var editables []AllocationEditable
	if err := httputil.BindData(c, &editables); err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationViewResponse{Error: &s})
		return
	}

	job, current, ok := getJobWithAllocations(c)
	if !ok {
		return
	}

	records := make([]models.MonthlyAllocation, 0, len(editables))
	for _, editable := range editables {
		records = append(records, editable.model(job))
	}
	committed := forecast.NewSet(records)

	failures := validateCommit(job, current, committed)
	if len(failures) > 0 {
		c.JSON(http.StatusBadRequest, AllocationViewResponse{Errors: failures.Strings()})
		return
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", job.ID).Delete(&models.MonthlyAllocation{}).Error; err != nil {
			return err
		}

		for i := range records {
			if err := tx.Create(&records[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationViewResponse{Error: &s})
		return
	}

	_, view := forecast.NewView(job, committed, forecast.FullWindow(job))
	data := newAllocationView(view)
	c.JSON(http.StatusOK, AllocationViewResponse{Data: &data})
}

// validateCommit checks a committed working view against the invariants:
// months must lie within the job's duration, amounts must not be
// negative, existing actuals must be carried over unchanged, and the
// view must not over-allocate the effective totals.
func validateCommit(job models.Job, current, committed forecast.AllocationSet) forecast.Failures {
	var failures forecast.Failures

	window := forecast.FullWindow(job)
	inWindow := make(map[string]bool, len(window))
	for _, month := range window {
		inWindow[month.String()] = true
	}

	for _, record := range committed.Records() {
		if !inWindow[record.Month.String()] {
			failures = append(failures, forecast.ErrMonthNotInView)
			break
		}
	}

	for _, record := range committed.Records() {
		if record.Revenue.IsNegative() || record.Cost.IsNegative() {
			failures = append(failures, forecast.ErrNegativeAmount)
			break
		}
	}

	for _, record := range current.Records() {
		if !record.Locked {
			continue
		}

		got, ok := committed.Get(record.Month)
		if !ok || got.Kind != models.AllocationKindActual ||
			!got.Revenue.Equal(record.Revenue) || !got.Cost.Equal(record.Cost) {
			failures = append(failures, errCommitActualChanged)
			break
		}
	}

	summary := forecast.Summarize(job, committed)
	if summary.RemainingRevenue.LessThan(forecast.Tolerance.Neg()) ||
		summary.RemainingCost.LessThan(forecast.Tolerance.Neg()) {
		failures = append(failures, forecast.ErrOverAllocation)
	}

	return failures
}
