package attendance

import (
	"strings"
	"time"

	"github.com/satshine/satshine-backend/internal/pkg/validator"
)

// ========================================
// MARKING DTOs
// ========================================

type MarkAttendanceRequest struct {
	Status    Status   `json:"status" validate:"required,oneof=present half_day absent"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	Remarks   *string  `json:"remarks,omitempty" validate:"omitempty,max=500"`
}

func (r *MarkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status.OnDuty() {
		if r.Latitude == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "latitude",
				Message: "latitude is required when marking present or half day",
			})
		}
		if r.Longitude == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "longitude",
				Message: "longitude is required when marking present or half day",
			})
		}
	}

	return validator.Merge(validator.Struct(r), nilIfEmpty(errs))
}

type CheckOutRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

func (r *CheckOutRequest) Validate() error {
	return validator.Struct(r)
}

// ConfirmAbsentRequest lets a supervisor close out a day the employee never marked.
type ConfirmAbsentRequest struct {
	EmployeeID string  `json:"employee_id" validate:"required"`
	Date       string  `json:"date" validate:"required"` // YYYY-MM-DD
	Remarks    *string `json:"remarks,omitempty" validate:"omitempty,max=500"`

	// Parsed by Validate
	ParsedDate time.Time `json:"-"`
}

func (r *ConfirmAbsentRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsEmpty(r.EmployeeID) && !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}
	if !validator.IsEmpty(r.Date) {
		d, ok := validator.IsValidDate(r.Date)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
		r.ParsedDate = d
	}

	return validator.Merge(validator.Struct(r), nilIfEmpty(errs))
}

// ========================================
// APPROVAL DTOs
// ========================================

type BulkApproveRequest struct {
	AttendanceIDs []string `json:"attendance_ids" validate:"required,min=1,max=500,dive,required"`
}

func (r *BulkApproveRequest) Validate() error {
	var errs validator.ValidationErrors

	seen := make(map[string]struct{}, len(r.AttendanceIDs))
	for _, id := range r.AttendanceIDs {
		if id == "" {
			continue
		}
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{
				Field:   "attendance_ids",
				Message: "attendance_ids must contain valid UUIDs",
			})
			break
		}
		if _, dup := seen[id]; dup {
			errs = append(errs, validator.ValidationError{
				Field:   "attendance_ids",
				Message: "attendance_ids must not contain duplicates",
			})
			break
		}
		seen[id] = struct{}{}
	}

	return validator.Merge(validator.Struct(r), nilIfEmpty(errs))
}

type TransitionResponse struct {
	Attendance          AttendanceResponse `json:"attendance"`
	AlreadyTransitioned bool               `json:"already_transitioned"`
}

type BulkResult string

const (
	BulkResultApproved        BulkResult = "approved"
	BulkResultAlreadyApproved BulkResult = "already_approved"
	BulkResultBlocked         BulkResult = "blocked"
	BulkResultNotFound        BulkResult = "not_found"
)

type BulkApproveItem struct {
	AttendanceID     string     `json:"attendance_id"`
	Result           BulkResult `json:"result"`
	Reason           string     `json:"reason,omitempty"`
	TravelRequestIDs []string   `json:"travel_request_ids,omitempty"`
}

type BulkApproveResponse struct {
	Approved        int               `json:"approved"`
	AlreadyApproved int               `json:"already_approved"`
	Blocked         int               `json:"blocked"`
	NotFound        int               `json:"not_found"`
	Results         []BulkApproveItem `json:"results"`
}

// ========================================
// QUERY DTOs
// ========================================

type AttendanceResponse struct {
	ID                    string   `json:"id"`
	EmployeeID            string   `json:"employee_id"`
	EmployeeName          *string  `json:"employee_name,omitempty"`
	EmployeeCode          *string  `json:"employee_code,omitempty"`
	Designation           *string  `json:"designation,omitempty"`
	Date                  string   `json:"date"`
	Status                Status   `json:"status"`
	CheckIn               *string  `json:"check_in,omitempty"`
	CheckOut              *string  `json:"check_out,omitempty"`
	CheckInLatitude       *float64 `json:"check_in_latitude,omitempty"`
	CheckInLongitude      *float64 `json:"check_in_longitude,omitempty"`
	CheckOutLatitude      *float64 `json:"check_out_latitude,omitempty"`
	CheckOutLongitude     *float64 `json:"check_out_longitude,omitempty"`
	Distance              *string  `json:"distance,omitempty"`
	Remarks               *string  `json:"remarks,omitempty"`
	ConfirmedBySupervisor bool     `json:"confirmed_by_supervisor"`
	ConfirmedBy           *string  `json:"confirmed_by,omitempty"`
	ConfirmedAt           *string  `json:"confirmed_at,omitempty"`
	ApprovedByAdmin       bool     `json:"approved_by_admin"`
	ApprovedBy            *string  `json:"approved_by,omitempty"`
	ApprovedAt            *string  `json:"approved_at,omitempty"`
	CreatedAt             string   `json:"created_at"`
	UpdatedAt             string   `json:"updated_at"`
}

type AttendanceFilter struct {
	// Search & Filter
	EmployeeID   *string `json:"employee_id,omitempty"`
	SupervisorID *string `json:"supervisor_id,omitempty"`
	DCCB         *string `json:"dccb,omitempty"`
	Date         *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate    *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status       *string `json:"status,omitempty"`
	Confirmed    *bool   `json:"confirmed,omitempty"`
	Approved     *bool   `json:"approved,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, employee_name, status, created_at
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
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

	errs = append(errs, validateDates(f.Date, f.StartDate, f.EndDate)...)

	if f.Status != nil && *f.Status != "" && !Status(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: present, half_day, absent, unmarked",
		})
	}

	if f.SortBy == "" {
		f.SortBy = "date"
	}
	if !validator.IsInSlice(f.SortBy, []string{"date", "employee_name", "status", "created_at"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "sort_by",
			Message: "sort_by must be one of: date, employee_name, status, created_at",
		})
	}
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	}
	f.SortOrder = strings.ToLower(f.SortOrder)
	if f.SortOrder != "asc" && f.SortOrder != "desc" {
		errs = append(errs, validator.ValidationError{Field: "sort_order", Message: "sort_order must be either asc or desc"})
	}

	return nilIfEmpty(errs)
}

type MyAttendanceFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ToFilter narrows the general filter to a single employee, newest first.
func (f MyAttendanceFilter) ToFilter(employeeID string) AttendanceFilter {
	return AttendanceFilter{
		EmployeeID: &employeeID,
		StartDate:  f.StartDate,
		EndDate:    f.EndDate,
		Status:     f.Status,
		Page:       f.Page,
		Limit:      f.Limit,
		SortBy:     "date",
		SortOrder:  "desc",
	}
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// ========================================
// EXPORT DTOs
// ========================================

type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

type ExportRequest struct {
	StartDate  string       `json:"start_date" validate:"required"`
	EndDate    string       `json:"end_date" validate:"required"`
	DCCB       *string      `json:"dccb,omitempty"`
	EmployeeID *string      `json:"employee_id,omitempty"`
	Format     ExportFormat `json:"format" validate:"omitempty,oneof=csv xlsx"`
}

func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Format == "" {
		r.Format = ExportFormatCSV
	}

	start, okStart := validator.IsValidDate(r.StartDate)
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okStart && !validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
	}
	if !okEnd && !validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
	}
	if okStart && okEnd {
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must not be before start_date"})
		} else if end.Sub(start) > 366*24*time.Hour {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "export range must not exceed one year"})
		}
	}

	return validator.Merge(validator.Struct(r), nilIfEmpty(errs))
}

// ExportRow is a flattened attendance record for reports.
type ExportRow struct {
	Date                  time.Time
	EmployeeCode          string
	EmployeeName          string
	Designation           string
	DCCB                  string
	Status                Status
	CheckIn               *time.Time
	CheckOut              *time.Time
	DistanceMeters        *float64
	ConfirmedBySupervisor bool
	ApprovedByAdmin       bool
}

func validateDates(date, start, end *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	for field, value := range map[string]*string{"date": date, "start_date": start, "end_date": end} {
		if value == nil || *value == "" {
			continue
		}
		if _, ok := validator.IsValidDate(*value); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must be in YYYY-MM-DD format",
			})
		}
	}
	return errs
}

func nilIfEmpty(errs validator.ValidationErrors) error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}
