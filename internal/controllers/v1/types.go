package v1

import (
	"time"

	jc_uuid "github.com/jobcast/backend/internal/uuid"
)

type URIID struct {
	ID jc_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type URIMonth struct {
	URIID
	Month time.Time `uri:"month" time_format:"2006-01" time_utc:"1" example:"2013-11" binding:"required"` // Year and month in YYYY-MM format
}

// WindowQuery selects the months materialized for an allocation view.
// The default is the job's full duration.
type WindowQuery struct {
	Window string `form:"window" example:"fiscal"` // "full" (default) or "fiscal"
	Year   int    `form:"year" example:"2025"`     // Fiscal year for window=fiscal. Defaults to the fiscal year of the current date.
}

// Pagination contains information about the pagination for collection endpoint responses.
type Pagination struct {
	Count  int   `json:"count" example:"25"`  // The amount of records returned in this response
	Offset uint  `json:"offset" example:"50"` // The offset for the first record returned
	Limit  int   `json:"limit" example:"25"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total" example:"827"` // The total number of resources matching the query
}
