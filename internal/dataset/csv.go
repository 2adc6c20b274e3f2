package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"agrolens/internal/timeseries"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// CSVSource reads a two-column date,value file. An empty value cell records
// a missing observation rather than zero. Values are parsed exactly through
// decimal before entering the float math.
type CSVSource struct {
	path   string
	logger zerolog.Logger
}

// NewCSV builds a source for the given file path.
func NewCSV(path string, logger zerolog.Logger) *CSVSource {
	return &CSVSource{path: path, logger: logger.With().Str("component", "csv_source").Str("path", path).Logger()}
}

// Load parses the whole file. The first row is treated as a header when its
// second column does not parse as a number.
func (s *CSVSource) Load(ctx context.Context) (timeseries.Series, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open series file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var series timeseries.Series
	row := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s row %d: %w", s.path, row+1, err)
		}
		row++

		if len(record) < 2 {
			return nil, fmt.Errorf("read %s row %d: expected date,value columns", s.path, row)
		}

		point, err := parseRow(record[0], record[1])
		if err != nil {
			if row == 1 {
				// Header row.
				continue
			}
			return nil, fmt.Errorf("read %s row %d: %w", s.path, row, err)
		}
		series = append(series, point)
	}

	s.logger.Debug().Int("points", len(series)).Msg("series loaded")
	return series, nil
}

func parseRow(dateField, valueField string) (timeseries.Point, error) {
	date, err := parseDate(strings.TrimSpace(dateField))
	if err != nil {
		return timeseries.Point{}, err
	}

	valueField = strings.TrimSpace(valueField)
	if valueField == "" {
		return timeseries.Missing(date), nil
	}

	value, err := decimal.NewFromString(valueField)
	if err != nil {
		return timeseries.Point{}, fmt.Errorf("parse value %q: %w", valueField, err)
	}
	return timeseries.Obs(date, value.InexactFloat64()), nil
}

func parseDate(field string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, field); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q: unsupported format", field)
}

var _ Source = (*CSVSource)(nil)
