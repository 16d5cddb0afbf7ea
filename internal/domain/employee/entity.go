package employee

import (
	"time"
)

type Employee struct {
	ID                string
	EmployeeCode      string
	FullName          string
	Email             *string
	PhoneNumber       *string
	PasswordHash      *string
	Designation       Designation
	DCCB              string
	SupervisorID      *string
	BaseLatitude      *float64
	BaseLongitude     *float64
	PreferredLanguage string
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// DTO
	SupervisorName *string
}

// HasBaseLocation reports whether GPS distance checks apply to this employee.
func (e Employee) HasBaseLocation() bool {
	return e.BaseLatitude != nil && e.BaseLongitude != nil
}

type Designation string

const (
	DesignationMT        Designation = "MT"
	DesignationSupport   Designation = "Support"
	DesignationDC        Designation = "DC"
	DesignationAssociate Designation = "Associate"
	DesignationAdmin     Designation = "Admin"
)

func AllDesignations() []Designation {
	return []Designation{
		DesignationMT,
		DesignationSupport,
		DesignationDC,
		DesignationAssociate,
		DesignationAdmin,
	}
}

func (d Designation) IsValid() bool {
	for _, v := range AllDesignations() {
		if d == v {
			return true
		}
	}
	return false
}

func (d Designation) IsAdmin() bool {
	return d == DesignationAdmin
}

// ApproverRegion assigns the Associate who decides travel requests for a DCCB.
type ApproverRegion struct {
	DCCB       string
	ApproverID string
	UpdatedAt  time.Time

	// DTO
	ApproverName *string
}
