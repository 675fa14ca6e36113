package scheduler

import "errors"

// ErrConfiguration marks a scheduler Config that failed validation at
// startup (§7: ConfigurationError is fatal, never recoverable).
var ErrConfiguration = errors.New("scheduler: invalid configuration")
