// Package inputs decodes the startup CSV tables (§6 Inputs: per-location
// price/forecast/temperature series, the workload trace, and the
// infrastructure definition) into the types the rest of the module
// consumes. Every table is treated as an opaque time-indexed file; this
// package's only job is getting it off disk and into typed rows with
// csvutil rather than hand-indexed encoding/csv columns.
package inputs

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoRows is returned when a table file decodes successfully but contains
// no data rows — almost always a misconfigured path, since a genuinely
// empty input is never valid for any of these tables.
var ErrNoRows = errors.New("inputs: table has no rows")

// SeriesRow is one observation in a price, forecast, or temperature CSV.
// Column headers are matched against csvutil's csv tags exactly; no header
// normalization is configured.
type SeriesRow struct {
	Location string    `csv:"location"`
	Time     time.Time `csv:"time"`
	Value    float64   `csv:"value"`
}

// WorkloadRow is one boot/delete event in the workload trace CSV.
type WorkloadRow struct {
	Time   time.Time `csv:"time"`
	Kind   string    `csv:"kind"` // "boot" or "delete"
	VMID   string    `csv:"vm_id"`
	RAM    float64   `csv:"ram"`
	CPU    float64   `csv:"cpu"`
	EndsAt string    `csv:"ends_at,omitempty"` // optional ISO-8601 expected delete time, for SLA remaining-duration bookkeeping
}

// ServerRow is one line of the infrastructure definition CSV.
type ServerRow struct {
	ID       string  `csv:"id"`
	Location string  `csv:"location"`
	RAM      float64 `csv:"ram"`
	CPU      float64 `csv:"cpu"`
}

func wrapRowErr(table string, row int, err error) error {
	return fmt.Errorf("inputs: %s row %d: %w", table, row, err)
}
