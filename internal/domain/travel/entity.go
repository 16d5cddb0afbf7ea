package travel

import (
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// IsDecided reports whether the assigned approver has acted, regardless of outcome.
func (s Status) IsDecided() bool {
	return s == StatusApproved || s == StatusRejected
}

type TravelRequest struct {
	ID              string
	EmployeeID      string
	ApproverID      string
	StartDate       time.Time
	EndDate         time.Time
	Destination     string
	Purpose         string
	Status          Status
	DecidedBy       *string
	DecidedAt       *time.Time
	DecisionRemarks *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO
	EmployeeName *string
	EmployeeCode *string
	ApproverName *string
}

// Covers reports whether date falls inside the inclusive [StartDate, EndDate] range.
// Only the calendar day of date is compared.
func (t TravelRequest) Covers(date time.Time) bool {
	d := dateOnly(date)
	return !d.Before(dateOnly(t.StartDate)) && !d.After(dateOnly(t.EndDate))
}

// Overlaps reports whether the two inclusive date ranges share at least one day.
func (t TravelRequest) Overlaps(start, end time.Time) bool {
	return !dateOnly(start).After(dateOnly(t.EndDate)) && !dateOnly(end).Before(dateOnly(t.StartDate))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// OverlapConflict is an employee/date covered by more than one travel request.
type OverlapConflict struct {
	EmployeeID       string
	EmployeeCode     string
	Date             time.Time
	TravelRequestIDs []string
}
