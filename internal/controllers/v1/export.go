package v1

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jobcast/backend/internal/forecast"
	"github.com/jobcast/backend/internal/httputil"
	"github.com/jobcast/backend/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RegisterExportRoutes registers the routes for exporting a job
// forecast with the RouterGroup that is passed.
func RegisterExportRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsExport)
		r.GET("", GetExport)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Jobs
// @Success		204
// @Router			/v1/jobs/{id}/export [options]
func OptionsExport(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Export job forecast
// @Description	Returns a plain text report of the job's full forecast with month by month allocations and the summary
// @Tags			Jobs
// @Produce		plain
// @Success		200	{string}	string
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path	string	true	"ID formatted as string"
// @Router			/v1/jobs/{id}/export [get]
func GetExport(c *gin.Context) {
	job, set, ok := getJobWithAllocations(c)
	if !ok {
		return
	}

	window := forecast.FullWindow(job)
	_, view := forecast.NewView(job, set, window)

	c.String(http.StatusOK, renderReport(job, view))
}

// renderReport builds the plain text forecast report for a job.
func renderReport(job models.Job, view forecast.View) string {
	p := message.NewPrinter(language.English)

	var b strings.Builder

	fmt.Fprintf(&b, "Forecast: %s\n", job.Name)
	if job.Segment != "" {
		fmt.Fprintf(&b, "Segment:  %s\n", job.Segment)
	}
	fmt.Fprintf(&b, "Kind:     %s (%d%%)\n", job.Kind, job.Probability)
	fmt.Fprintf(&b, "Duration: %s to %s\n\n", job.StartDate.Format("2006-01-02"), job.EndDate.Format("2006-01-02"))

	fmt.Fprintf(&b, "%-10s  %-10s  %14s  %14s\n", "Month", "Kind", "Revenue", "Cost")
	for _, record := range view.Allocations {
		fmt.Fprintf(&b, "%-10s  %-10s  %14s  %14s\n",
			record.Label(), record.Kind, amount(p, record.Revenue), amount(p, record.Cost))
	}

	s := view.Summary
	fmt.Fprintf(&b, "\n%-24s  %14s  %14s\n", "", "Revenue", "Cost")
	fmt.Fprintf(&b, "%-24s  %14s  %14s\n", "Effective total", amount(p, s.EffectiveRevenue), amount(p, s.EffectiveCost))
	fmt.Fprintf(&b, "%-24s  %14s  %14s\n", "Allocated", amount(p, s.AllocatedRevenue), amount(p, s.AllocatedCost))
	fmt.Fprintf(&b, "%-24s  %14s  %14s\n", "Remaining", amount(p, s.RemainingRevenue), amount(p, s.RemainingCost))
	fmt.Fprintf(&b, "%-24s  %13s%%  %13s%%\n", "Allocated share", s.RevenuePercent.Round(1), s.CostPercent.Round(1))
	fmt.Fprintf(&b, "\nStatus: %s\n", view.Status)

	return b.String()
}

// amount formats a decimal with thousands separators for the report.
func amount(p *message.Printer, d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return p.Sprintf("%.2f", f)
}
