package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"shipment-compliance-service/internal/domain"

	"github.com/google/uuid"
	"github.com/jszwec/csvutil"
)

// loggerRow matches the column layout exported by Elpro-style environmental
// data loggers: one measurement per row, header on the first line.
type loggerRow struct {
	Timestamp   string  `csv:"timestamp"`
	Temperature float64 `csv:"temperature_c"`
	Humidity    float64 `csv:"humidity_rh"`
	Location    string  `csv:"location"`
}

// ParseLoggerCSV decodes a data-logger CSV export into readings ordered as
// they appear in the file. Timestamps must be RFC 3339; rows that fail to
// parse abort the import so a partial history is never loaded.
func ParseLoggerCSV(reader io.Reader) ([]domain.EnvironmentalReading, error) {
	decoder, err := csvutil.NewDecoder(csv.NewReader(reader))
	if err != nil {
		return nil, fmt.Errorf("parse logger csv: create decoder: %w", err)
	}

	var rows []loggerRow
	if err := decoder.Decode(&rows); err != nil {
		return nil, fmt.Errorf("parse logger csv: decode rows: %w", err)
	}

	readings := make([]domain.EnvironmentalReading, 0, len(rows))
	for i, row := range rows {
		ts, err := time.Parse(time.RFC3339, row.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("parse logger csv: row %d: bad timestamp %q: %w", i+1, row.Timestamp, err)
		}

		readings = append(readings, domain.EnvironmentalReading{
			ID:          uuid.NewString(),
			Temperature: row.Temperature,
			Humidity:    row.Humidity,
			Location:    row.Location,
			Timestamp:   ts,
		})
	}

	return readings, nil
}
