package cloudmodel

import "errors"

// Error kinds from §7. The scheduler and evaluator never propagate these —
// they convert domain violations into penalty contributions (§4.F.7); only
// ConfigurationError and DataUnavailable (defined in the scheduler/
// environment packages, which own those failure modes) are fatal at
// startup.
var (
	// ErrCapacityViolation: attempt to place exceeding a server's capacity.
	ErrCapacityViolation = errors.New("cloudmodel: capacity violation")

	// ErrMissingAllocation: action references a VM not allocated where the
	// action expects.
	ErrMissingAllocation = errors.New("cloudmodel: missing allocation")
)
