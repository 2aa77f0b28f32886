package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"agent-staffing/errors"
	"agent-staffing/metrics"
	"agent-staffing/models"
)

// Parse reads customer call windows from CSV and returns them as CallData.
//
// Rows are "name, duration, start, end, calls, priority" with an optional
// seventh column holding the customer's target probability of waiting. Times
// are "3PM" or "3:04PM" on today's date. Lines starting with '#' are comments;
// a comment whose third column is StartTime<zone> (PT, ET, CT, MT, UTC or an
// IANA name) sets the zone for the rows after it. The zone starts as Pacific.
func Parse(r io.Reader) ([]models.CallData, error) {
	start := time.Now()
	defer func() {
		metrics.ParserDurationSeconds.WithLabelValues(inputCustomers).Observe(time.Since(start).Seconds())
	}()

	data, err := parseCustomers(r)
	if err != nil {
		metrics.ParserErrorsTotal.WithLabelValues(errorType(err)).Inc()
		return nil, err
	}
	metrics.ParserRecordsTotal.WithLabelValues(inputCustomers).Add(float64(len(data)))
	return data, nil
}

const (
	customerFields     = 6
	customerFieldsMax  = 7
	defaultZone        = "America/Los_Angeles"
	zoneHeaderPrefix   = "StartTime"
	zoneHeaderPosition = 2
)

var zoneAbbreviations = map[string]string{
	"PT":  "America/Los_Angeles",
	"ET":  "America/New_York",
	"CT":  "America/Chicago",
	"MT":  "America/Denver",
	"UTC": "UTC",
}

var clockLayouts = []string{"3:04PM", "3PM"}

func parseCustomers(r io.Reader) ([]models.CallData, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	loc, err := time.LoadLocation(defaultZone)
	if err != nil {
		return nil, fmt.Errorf("error loading location: %w", err)
	}

	var data []models.CallData
	for lineNum := 1; ; lineNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV at line %d: %w", lineNum, err)
		}

		if len(record) > 0 && strings.HasPrefix(record[0], "#") {
			if zone, ok := zoneFromHeader(record); ok {
				loc = zone
			}
			continue
		}

		cd, err := customerRow(record, loc)
		if err != nil {
			return nil, &errors.ParseError{Line: lineNum, Record: record, Err: err}
		}
		data = append(data, cd)
	}

	return data, nil
}

func customerRow(record []string, loc *time.Location) (models.CallData, error) {
	if len(record) < customerFields || len(record) > customerFieldsMax {
		return models.CallData{}, fmt.Errorf("%w: got %d, want %d or %d",
			errors.ErrInvalidFieldCount, len(record), customerFields, customerFieldsMax)
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}

	cd := models.CallData{CustomerName: record[0], Location: loc}
	var err error

	if cd.AverageCallDurationSeconds, err = positiveInt(record[1]); err != nil {
		return cd, fmt.Errorf("%w: %v", errors.ErrInvalidDuration, err)
	}
	if cd.StartTime, err = clockToday(record[2], loc); err != nil {
		return cd, fmt.Errorf("%w: %v", errors.ErrInvalidStartTime, err)
	}
	if cd.EndTime, err = clockToday(record[3], loc); err != nil {
		return cd, fmt.Errorf("%w: %v", errors.ErrInvalidEndTime, err)
	}
	if cd.NumberOfCalls, err = strconv.Atoi(record[4]); err != nil || cd.NumberOfCalls < 0 {
		return cd, fmt.Errorf("%w: %q", errors.ErrInvalidNumberOfCalls, record[4])
	}
	if cd.Priority, err = strconv.Atoi(record[5]); err != nil {
		return cd, fmt.Errorf("%w: %v", errors.ErrInvalidPriority, err)
	}

	if len(record) == customerFieldsMax && record[6] != "" {
		target, err := strconv.ParseFloat(record[6], 64)
		if err != nil || !(target > 0 && target < 1) {
			return cd, fmt.Errorf("%w: %q", errors.ErrInvalidTargetProbability, record[6])
		}
		cd.TargetProbability = target
	}
	return cd, nil
}

func positiveInt(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("%d is not positive", n)
	}
	return n, nil
}

// clockToday places a wall-clock time on today's date in loc so DST offsets
// are the ones in force today.
func clockToday(value string, loc *time.Location) (time.Time, error) {
	var lastErr error
	for _, layout := range clockLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err != nil {
			lastErr = err
			continue
		}
		now := time.Now().In(loc)
		return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
	}
	return time.Time{}, lastErr
}

// zoneFromHeader reads the zone from a "StartTime<zone>" header column.
// Unknown zones fall back to Pacific time.
func zoneFromHeader(record []string) (*time.Location, bool) {
	if len(record) <= zoneHeaderPosition {
		return nil, false
	}
	column := strings.TrimSpace(record[zoneHeaderPosition])
	if !strings.HasPrefix(column, zoneHeaderPrefix) {
		return nil, false
	}
	code := strings.TrimSpace(strings.TrimPrefix(column, zoneHeaderPrefix))
	if name, ok := zoneAbbreviations[code]; ok {
		code = name
	}
	loc, err := time.LoadLocation(code)
	if err != nil || code == "" {
		if loc, err = time.LoadLocation(defaultZone); err != nil {
			return nil, false
		}
	}
	return loc, true
}
