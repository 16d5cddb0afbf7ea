package employee

import (
	"strings"

	"github.com/satshine/satshine-backend/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	EmployeeCode      string      `json:"employee_code" validate:"required"`
	FullName          string      `json:"full_name" validate:"required,max=255"`
	Email             *string     `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber       *string     `json:"phone_number,omitempty"`
	Password          string      `json:"password" validate:"required,min=8,max=72"`
	Designation       Designation `json:"designation" validate:"required"`
	DCCB              string      `json:"dccb" validate:"required"`
	SupervisorID      *string     `json:"supervisor_id,omitempty"`
	BaseLatitude      *float64    `json:"base_latitude,omitempty" validate:"omitempty,latitude"`
	BaseLongitude     *float64    `json:"base_longitude,omitempty" validate:"omitempty,longitude"`
	PreferredLanguage string      `json:"preferred_language,omitempty" validate:"omitempty,oneof=en hi"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.EmployeeCode = strings.ToUpper(strings.TrimSpace(r.EmployeeCode))
	r.DCCB = strings.ToUpper(strings.TrimSpace(r.DCCB))
	r.FullName = strings.TrimSpace(r.FullName)

	if r.EmployeeCode != "" && !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_code",
			Message: ErrInvalidEmployeeCode.Error(),
		})
	}
	if r.Designation != "" && !r.Designation.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "designation",
			Message: "designation must be one of: MT, Support, DC, Associate, Admin",
		})
	}
	if r.DCCB != "" && !validator.IsValidDCCB(r.DCCB) {
		errs = append(errs, validator.ValidationError{
			Field:   "dccb",
			Message: "dccb must be an uppercase region code",
		})
	}
	if r.PhoneNumber != nil && *r.PhoneNumber != "" && !validator.IsValidPhoneNumber(*r.PhoneNumber) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone_number",
			Message: ErrInvalidPhoneNumber.Error(),
		})
	}
	if r.SupervisorID != nil && !validator.IsValidUUID(*r.SupervisorID) {
		errs = append(errs, validator.ValidationError{
			Field:   "supervisor_id",
			Message: "supervisor_id must be a valid UUID",
		})
	}
	if (r.BaseLatitude == nil) != (r.BaseLongitude == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "base_latitude",
			Message: "base_latitude and base_longitude must be provided together",
		})
	}
	if r.PreferredLanguage == "" {
		r.PreferredLanguage = "en"
	}

	return validator.Merge(validator.Struct(r), nilIfEmpty(errs))
}

type UpdateEmployeeRequest struct {
	ID                string       `json:"-"`
	FullName          *string      `json:"full_name,omitempty" validate:"omitempty,max=255"`
	Email             *string      `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber       *string      `json:"phone_number,omitempty"`
	Designation       *Designation `json:"designation,omitempty"`
	DCCB              *string      `json:"dccb,omitempty"`
	SupervisorID      *string      `json:"supervisor_id,omitempty"`
	BaseLatitude      *float64     `json:"base_latitude,omitempty" validate:"omitempty,latitude"`
	BaseLongitude     *float64     `json:"base_longitude,omitempty" validate:"omitempty,longitude"`
	PreferredLanguage *string      `json:"preferred_language,omitempty" validate:"omitempty,oneof=en hi"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	if r.Designation != nil && !r.Designation.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "designation",
			Message: "designation must be one of: MT, Support, DC, Associate, Admin",
		})
	}
	if r.DCCB != nil {
		upper := strings.ToUpper(strings.TrimSpace(*r.DCCB))
		r.DCCB = &upper
		if !validator.IsValidDCCB(upper) {
			errs = append(errs, validator.ValidationError{Field: "dccb", Message: "dccb must be an uppercase region code"})
		}
	}
	if r.PhoneNumber != nil && *r.PhoneNumber != "" && !validator.IsValidPhoneNumber(*r.PhoneNumber) {
		errs = append(errs, validator.ValidationError{Field: "phone_number", Message: ErrInvalidPhoneNumber.Error()})
	}
	if r.SupervisorID != nil && *r.SupervisorID != "" && !validator.IsValidUUID(*r.SupervisorID) {
		errs = append(errs, validator.ValidationError{Field: "supervisor_id", Message: "supervisor_id must be a valid UUID"})
	}
	if (r.BaseLatitude == nil) != (r.BaseLongitude == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "base_latitude",
			Message: "base_latitude and base_longitude must be provided together",
		})
	}

	return validator.Merge(validator.Struct(r), nilIfEmpty(errs))
}

type EmployeeFilter struct {
	Search       *string `json:"search,omitempty"`
	Designation  *string `json:"designation,omitempty"`
	DCCB         *string `json:"dccb,omitempty"`
	SupervisorID *string `json:"supervisor_id,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`    // employee_code, full_name, created_at
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must not exceed 100"})
	}
	if f.Designation != nil && *f.Designation != "" && !Designation(*f.Designation).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "designation", Message: "designation must be one of: MT, Support, DC, Associate, Admin"})
	}
	if f.SortBy == "" {
		f.SortBy = "employee_code"
	}
	if !validator.IsInSlice(f.SortBy, []string{"employee_code", "full_name", "created_at"}) {
		errs = append(errs, validator.ValidationError{Field: "sort_by", Message: "sort_by must be one of: employee_code, full_name, created_at"})
	}
	if f.SortOrder == "" {
		f.SortOrder = "asc"
	}
	f.SortOrder = strings.ToLower(f.SortOrder)
	if f.SortOrder != "asc" && f.SortOrder != "desc" {
		errs = append(errs, validator.ValidationError{Field: "sort_order", Message: "sort_order must be either asc or desc"})
	}

	return nilIfEmpty(errs)
}

type EmployeeResponse struct {
	ID                string      `json:"id"`
	EmployeeCode      string      `json:"employee_code"`
	FullName          string      `json:"full_name"`
	Email             *string     `json:"email,omitempty"`
	PhoneNumber       *string     `json:"phone_number,omitempty"`
	Designation       Designation `json:"designation"`
	Pipeline          string      `json:"approval_pipeline"`
	DCCB              string      `json:"dccb"`
	SupervisorID      *string     `json:"supervisor_id,omitempty"`
	SupervisorName    *string     `json:"supervisor_name,omitempty"`
	BaseLatitude      *float64    `json:"base_latitude,omitempty"`
	BaseLongitude     *float64    `json:"base_longitude,omitempty"`
	PreferredLanguage string      `json:"preferred_language"`
	IsActive          bool        `json:"is_active"`
	CreatedAt         string      `json:"created_at"`
	UpdatedAt         string      `json:"updated_at"`
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Showing    string             `json:"showing"`
	Employees  []EmployeeResponse `json:"employees"`
}

type UpsertApproverRegionRequest struct {
	DCCB       string `json:"dccb" validate:"required"`
	ApproverID string `json:"approver_id" validate:"required"`
}

func (r *UpsertApproverRegionRequest) Validate() error {
	var errs validator.ValidationErrors

	r.DCCB = strings.ToUpper(strings.TrimSpace(r.DCCB))
	if r.DCCB != "" && !validator.IsValidDCCB(r.DCCB) {
		errs = append(errs, validator.ValidationError{Field: "dccb", Message: "dccb must be an uppercase region code"})
	}
	if r.ApproverID != "" && !validator.IsValidUUID(r.ApproverID) {
		errs = append(errs, validator.ValidationError{Field: "approver_id", Message: "approver_id must be a valid UUID"})
	}

	return validator.Merge(validator.Struct(r), nilIfEmpty(errs))
}

type ApproverRegionResponse struct {
	DCCB         string  `json:"dccb"`
	ApproverID   string  `json:"approver_id"`
	ApproverName *string `json:"approver_name,omitempty"`
	UpdatedAt    string  `json:"updated_at"`
}

func nilIfEmpty(errs validator.ValidationErrors) error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}
