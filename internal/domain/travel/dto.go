package travel

import (
	"strings"
	"time"

	"github.com/satshine/satshine-backend/internal/pkg/validator"
)

type CreateTravelRequest struct {
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date" validate:"required"`
	Destination string `json:"destination" validate:"required,max=255"`
	Purpose     string `json:"purpose" validate:"required,max=1000"`

	// Parsed by Validate
	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

func (r *CreateTravelRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Destination = strings.TrimSpace(r.Destination)
	r.Purpose = strings.TrimSpace(r.Purpose)

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart && !validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd && !validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if okStart && okEnd {
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: ErrInvalidDateRange.Error(),
			})
		}
		if end.Sub(start) > 90*24*time.Hour {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "travel requests may not span more than 90 days",
			})
		}
		r.Start, r.End = start, end
	}

	return validator.Merge(validator.Struct(r), nilIfEmpty(errs))
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

type DecideTravelRequest struct {
	ID       string   `json:"-"`
	Decision Decision `json:"decision" validate:"required,oneof=approve reject"`
	Remarks  *string  `json:"remarks,omitempty" validate:"omitempty,max=1000"`
}

func (r *DecideTravelRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}
	if r.Decision == DecisionReject && (r.Remarks == nil || validator.IsEmpty(*r.Remarks)) {
		errs = append(errs, validator.ValidationError{
			Field:   "remarks",
			Message: "remarks are required when rejecting a travel request",
		})
	}

	return validator.Merge(validator.Struct(r), nilIfEmpty(errs))
}

// TargetStatus maps the decision onto the terminal travel status.
func (d Decision) TargetStatus() Status {
	if d == DecisionApprove {
		return StatusApproved
	}
	return StatusRejected
}

type TravelRequestResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    *string `json:"employee_name,omitempty"`
	EmployeeCode    *string `json:"employee_code,omitempty"`
	ApproverID      string  `json:"approver_id"`
	ApproverName    *string `json:"approver_name,omitempty"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	Destination     string  `json:"destination"`
	Purpose         string  `json:"purpose"`
	Status          Status  `json:"status"`
	DecidedBy       *string `json:"decided_by,omitempty"`
	DecidedAt       *string `json:"decided_at,omitempty"`
	DecisionRemarks *string `json:"decision_remarks,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type TravelFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	ApproverID *string `json:"approver_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`    // start_date, created_at, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *TravelFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive number"})
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a positive number"})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must not exceed 100"})
	}

	if f.Status != nil && *f.Status != "" && !Status(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of: pending, approved, rejected"})
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

	if f.SortBy == "" {
		f.SortBy = "start_date"
	}
	if !validator.IsInSlice(f.SortBy, []string{"start_date", "created_at", "status"}) {
		errs = append(errs, validator.ValidationError{Field: "sort_by", Message: "sort_by must be one of: start_date, created_at, status"})
	}
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	}
	f.SortOrder = strings.ToLower(f.SortOrder)
	if f.SortOrder != "asc" && f.SortOrder != "desc" {
		errs = append(errs, validator.ValidationError{Field: "sort_order", Message: "sort_order must be either asc or desc"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListTravelResponse struct {
	TotalCount     int64                   `json:"total_count"`
	Page           int                     `json:"page"`
	Limit          int                     `json:"limit"`
	TotalPages     int                     `json:"total_pages"`
	Showing        string                  `json:"showing"`
	TravelRequests []TravelRequestResponse `json:"travel_requests"`
}

type OverlapConflictResponse struct {
	EmployeeID       string   `json:"employee_id"`
	EmployeeCode     string   `json:"employee_code"`
	Date             string   `json:"date"`
	TravelRequestIDs []string `json:"travel_request_ids"`
}

func nilIfEmpty(errs validator.ValidationErrors) error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}
