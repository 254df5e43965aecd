package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/quantfold/walkforward/pkg/series"
)

const dateLayout = "2006-01-02"

// CSVProvider loads date-indexed value columns from tabular files. One
// column (named "date" unless DateColumn overrides it, case-insensitive)
// holds ISO dates; any other header names a value column.
type CSVProvider struct {
	DateColumn string
}

// NewCSVProvider returns a provider using the default "date" column.
func NewCSVProvider() *CSVProvider {
	return &CSVProvider{}
}

// LoadSeries reads one value column from path. A missing file, a missing
// column or an empty result is fatal at the point the source is requested.
func (p *CSVProvider) LoadSeries(path, column string) (series.Series, error) {
	file, err := os.Open(path)
	if err != nil {
		return series.Series{}, fmt.Errorf("data source %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return series.Series{}, fmt.Errorf("data source %s: reading header: %w", path, err)
	}

	dateCol, valueCol := -1, -1
	wantDate := p.DateColumn
	if wantDate == "" {
		wantDate = "date"
	}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if strings.EqualFold(name, wantDate) {
			dateCol = i
		}
		if name == column {
			valueCol = i
		}
	}
	if dateCol < 0 {
		return series.Series{}, fmt.Errorf("data source %s: missing date column %q", path, wantDate)
	}
	if valueCol < 0 {
		return series.Series{}, fmt.Errorf("data source %s: missing expected column %q", path, column)
	}

	var points []series.Point
	lineNum := 1
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return series.Series{}, fmt.Errorf("data source %s: line %d: %w", path, lineNum, err)
		}
		lineNum++

		if valueCol >= len(record) || dateCol >= len(record) {
			log.Printf("⚠️ short row at %s:%d, skipping", path, lineNum)
			continue
		}

		date, err := time.Parse(dateLayout, strings.TrimSpace(record[dateCol]))
		if err != nil {
			log.Printf("⚠️ invalid date %q at %s:%d, skipping", record[dateCol], path, lineNum)
			continue
		}

		raw := strings.TrimSpace(record[valueCol])
		if raw == "" {
			points = appendForwardFilled(points, date)
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			log.Printf("⚠️ invalid value %q at %s:%d, skipping", raw, path, lineNum)
			continue
		}

		points = append(points, series.Point{Date: date, Value: value})
	}

	if len(points) == 0 {
		return series.Series{}, fmt.Errorf("data source %s: column %q produced no rows", path, column)
	}

	s, err := series.New(dedupe(points))
	if err != nil {
		return series.Series{}, fmt.Errorf("data source %s: %w", path, err)
	}
	return s, nil
}

// appendForwardFilled carries the last seen value onto a blank row.
func appendForwardFilled(points []series.Point, date time.Time) []series.Point {
	if len(points) == 0 {
		return points
	}
	return append(points, series.Point{Date: date, Value: points[len(points)-1].Value})
}

// dedupe keeps the last record per date and drops out-of-order rows, which
// exports occasionally emit around file boundaries.
func dedupe(points []series.Point) []series.Point {
	out := points[:0]
	for _, p := range points {
		if len(out) > 0 && !p.Date.After(out[len(out)-1].Date) {
			if p.Date.Equal(out[len(out)-1].Date) {
				out[len(out)-1] = p
			}
			continue
		}
		out = append(out, p)
	}
	return out
}
