package audit

import "errors"

var (
	ErrEntryNotFound = errors.New("audit entry not found")
	ErrImmutable     = errors.New("audit entries cannot be modified")
)
