package inputs

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jszwec/csvutil"

	"github.com/yourusername/geosched/internal/cloudmodel"
	"github.com/yourusername/geosched/internal/resource"
)

// ReadWorkloadFile decodes the workload trace CSV (columns
// time,kind,vm_id,ram,cpu,ends_at) into Requests ready for
// Environment.SetRequests. ends_at is optional; when present it's threaded
// through so callers can also populate Environment.SetEndTime for the SLA
// remaining-duration calculation.
func ReadWorkloadFile(path string) ([]cloudmodel.Request, map[string]time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	dec, err := csvutil.NewDecoder(csv.NewReader(f))
	if err != nil {
		return nil, nil, fmt.Errorf("inputs: %s: %w", path, err)
	}

	var requests []cloudmodel.Request
	endTimes := make(map[string]time.Time)

	row := 0
	for {
		var rec WorkloadRow
		if err := dec.Decode(&rec); err == io.EOF {
			break
		} else if err != nil {
			return nil, nil, wrapRowErr(path, row, err)
		}
		row++

		var kind cloudmodel.RequestKind
		switch rec.Kind {
		case "boot":
			kind = cloudmodel.RequestBoot
		case "delete":
			kind = cloudmodel.RequestDelete
		default:
			return nil, nil, wrapRowErr(path, row, fmt.Errorf("unknown request kind %q", rec.Kind))
		}

		vm := cloudmodel.VM{ID: rec.VMID, Demand: resource.NewVector(rec.RAM, rec.CPU)}
		if rec.EndsAt != "" {
			end, err := time.Parse(time.RFC3339, rec.EndsAt)
			if err != nil {
				return nil, nil, wrapRowErr(path, row, fmt.Errorf("ends_at: %w", err))
			}
			endTimes[rec.VMID] = end
		}

		requests = append(requests, cloudmodel.Request{Time: rec.Time, VM: vm, Kind: kind})
	}
	if row == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoRows, path)
	}
	return requests, endTimes, nil
}
