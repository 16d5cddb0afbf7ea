package approval

import "errors"

var (
	ErrTravelApprovalPending = errors.New("Travel Approval Pending")
	ErrTravelDataIntegrity   = errors.New("Data integrity issue: multiple travel requests overlap this date. Contact an administrator.")
	ErrAwaitingConfirmation  = errors.New("attendance must be confirmed by the supervisor before admin approval")
	ErrUnknownStage          = errors.New("unknown approval stage")
)

