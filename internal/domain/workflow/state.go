// Package workflow implements the approval state machine: a fixed adjacency
// map over the validation lifecycle, role gates evaluated per transition, and
// the deterministic equipment patches each successful transition produces.
package workflow

// Status is an approval workflow state. Older records carry legacy spellings;
// Normalize collapses them onto the canonical vocabulary once, at load time,
// so the state machine only ever reasons about one set of names.
type Status string

const (
	StatusWaitingManager  Status = "WAITING_MANAGER_APPROVAL"
	StatusWaitingIT       Status = "WAITING_IT_PROCESSING"
	StatusWaitingDotation Status = "WAITING_DOTATION_APPROVAL"
	StatusPendingDelivery Status = "PENDING_DELIVERY"
	StatusCompleted       Status = "Completed"
	StatusRejected        Status = "Rejected"
	StatusCancelled       Status = "Cancelled"
	StatusExpired         Status = "Expired"
)

// Legacy spellings from older records, mapped onto their canonical
// equivalents.
const (
	legacyWaitingManager Status = "WaitingManager"
	legacyPending        Status = "Pending"
	legacyProcessing     Status = "Processing"
	legacyWaitingUser    Status = "WaitingUser"
)

var legacyAliases = map[Status]Status{
	legacyWaitingManager: StatusWaitingManager,
	legacyPending:        StatusWaitingIT,
	legacyProcessing:     StatusWaitingIT,
	legacyWaitingUser:    StatusPendingDelivery,
}

var validStatuses = map[Status]bool{
	StatusWaitingManager:  true,
	StatusWaitingIT:       true,
	StatusWaitingDotation: true,
	StatusPendingDelivery: true,
	StatusCompleted:       true,
	StatusRejected:        true,
	StatusCancelled:       true,
	StatusExpired:         true,
}

var terminalStatuses = map[Status]bool{
	StatusCompleted: true,
	StatusRejected:  true,
	StatusCancelled: true,
	StatusExpired:   true,
}

// Normalize maps legacy status spellings onto the canonical vocabulary.
// Canonical statuses pass through unchanged.
func Normalize(s Status) Status {
	if canonical, ok := legacyAliases[s]; ok {
		return canonical
	}
	return s
}

// IsValid reports whether s is a known status, canonical or legacy.
func (s Status) IsValid() bool {
	return validStatuses[Normalize(s)]
}

// IsTerminal reports whether s permits no further transitions.
func (s Status) IsTerminal() bool {
	return terminalStatuses[Normalize(s)]
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}
