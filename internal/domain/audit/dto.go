package audit

import (
	"strings"

	"github.com/satshine/satshine-backend/internal/pkg/validator"
)

type AuditFilter struct {
	Action          *string `json:"action,omitempty"`
	ActorID         *string `json:"actor_id,omitempty"`
	AttendanceID    *string `json:"attendance_id,omitempty"`
	TravelRequestID *string `json:"travel_request_id,omitempty"`
	EmployeeID      *string `json:"employee_id,omitempty"`
	StartDate       *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate         *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
	SortOrder string `json:"sort_order"`
}

func (f *AuditFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 200 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must not exceed 200"})
	}
	if f.Action != nil && *f.Action != "" && !Action(*f.Action).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "action", Message: "unknown audit action"})
	}
	if f.StartDate != nil && *f.StartDate != "" {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
		}
	}
	f.SortOrder = strings.ToLower(f.SortOrder)
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	}
	if f.SortOrder != "asc" && f.SortOrder != "desc" {
		errs = append(errs, validator.ValidationError{Field: "sort_order", Message: "sort_order must be either asc or desc"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AuditResponse struct {
	ID              string                 `json:"id"`
	Action          Action                 `json:"action"`
	ActorID         *string                `json:"actor_id,omitempty"`
	ActorName       *string                `json:"actor_name,omitempty"`
	AttendanceID    *string                `json:"attendance_id,omitempty"`
	TravelRequestID *string                `json:"travel_request_id,omitempty"`
	EmployeeID      *string                `json:"employee_id,omitempty"`
	Reason          *string                `json:"reason,omitempty"`
	Details         map[string]interface{} `json:"details,omitempty"`
	CreatedAt       string                 `json:"created_at"`
}

type ListAuditResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Entries    []AuditResponse `json:"entries"`
}
