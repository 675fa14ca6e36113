package inputs

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/jszwec/csvutil"

	"github.com/yourusername/geosched/internal/environment"
)

// ReadSeriesFile decodes a price/forecast/temperature CSV (columns
// location,time,value) into one Series per location. The result is a map,
// so it carries no location order; callers that need the file's first-seen
// order (the insertion-order tie-breaking the cost key relies on, §4.F.3)
// should use ReadSeriesFileOrdered instead.
func ReadSeriesFile(path string) (map[string]environment.Series, error) {
	points, _, err := readSeriesRows(path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]environment.Series, len(points))
	for loc, pts := range points {
		out[loc] = environment.NewSeries(pts)
	}
	return out, nil
}

// ReadSeriesFileOrdered behaves like ReadSeriesFile but also returns the
// locations in first-seen order, so a caller can install them into an
// Environment in the same order the file lists them.
func ReadSeriesFileOrdered(path string) (map[string]environment.Series, []string, error) {
	points, order, err := readSeriesRows(path)
	if err != nil {
		return nil, nil, err
	}
	out := make(map[string]environment.Series, len(points))
	for loc, pts := range points {
		out[loc] = environment.NewSeries(pts)
	}
	return out, order, nil
}

func readSeriesRows(path string) (map[string][]environment.Point, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	dec, err := csvutil.NewDecoder(csv.NewReader(f))
	if err != nil {
		return nil, nil, fmt.Errorf("inputs: %s: %w", path, err)
	}

	points := make(map[string][]environment.Point)
	var order []string
	seen := make(map[string]bool)

	row := 0
	for {
		var rec SeriesRow
		if err := dec.Decode(&rec); err == io.EOF {
			break
		} else if err != nil {
			return nil, nil, wrapRowErr(path, row, err)
		}
		row++
		if !seen[rec.Location] {
			seen[rec.Location] = true
			order = append(order, rec.Location)
		}
		points[rec.Location] = append(points[rec.Location], environment.Point{Time: rec.Time, Value: rec.Value})
	}
	if row == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoRows, path)
	}
	return points, order, nil
}
