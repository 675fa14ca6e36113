package inputs

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/jszwec/csvutil"

	"github.com/yourusername/geosched/internal/cloudmodel"
	"github.com/yourusername/geosched/internal/resource"
)

// ReadInfrastructureFile decodes the infrastructure definition CSV (columns
// id,location,ram,cpu) into Servers ready for cloudmodel.NewCloud.
func ReadInfrastructureFile(path string) ([]cloudmodel.Server, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := csvutil.NewDecoder(csv.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("inputs: %s: %w", path, err)
	}

	var servers []cloudmodel.Server
	seen := make(map[string]bool)

	row := 0
	for {
		var rec ServerRow
		if err := dec.Decode(&rec); err == io.EOF {
			break
		} else if err != nil {
			return nil, wrapRowErr(path, row, err)
		}
		row++
		if seen[rec.ID] {
			return nil, wrapRowErr(path, row, fmt.Errorf("duplicate server id %q", rec.ID))
		}
		seen[rec.ID] = true
		servers = append(servers, cloudmodel.Server{
			ID:       rec.ID,
			Location: rec.Location,
			Capacity: resource.NewVector(rec.RAM, rec.CPU),
		})
	}
	if row == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRows, path)
	}
	return servers, nil
}
