package parser

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"agent-staffing/errors"
	"agent-staffing/metrics"
	"agent-staffing/models"
)

const (
	inputCustomers = "customers"
	inputCallLog   = "call_log"
)

// Columns a call log must provide. Any other columns are ignored.
var callLogColumns = []string{"date", "vru_entry", "vru_time", "q_time", "ser_time", "outcome", "server"}

// ParseCallLog reads a tab-separated call-center log. The first non-empty line
// is a header naming the columns; dates are "yymmdd" and entry times "H:MM:SS".
func ParseCallLog(r io.Reader) ([]models.CallRecord, error) {
	start := time.Now()
	defer func() {
		metrics.ParserDurationSeconds.WithLabelValues(inputCallLog).Observe(time.Since(start).Seconds())
	}()

	records, err := parseCallLog(r)
	if err != nil {
		metrics.ParserErrorsTotal.WithLabelValues(errorType(err)).Inc()
		return nil, err
	}
	metrics.ParserRecordsTotal.WithLabelValues(inputCallLog).Add(float64(len(records)))
	return records, nil
}

func parseCallLog(r io.Reader) ([]models.CallRecord, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var (
		index   map[string]int
		records []models.CallRecord
		lineNum int
	)

	for {
		record, err := reader.Read()
		lineNum++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading call log at line %d: %w", lineNum, err)
		}

		if index == nil {
			index, err = headerIndex(record)
			if err != nil {
				return nil, &errors.ParseError{Line: lineNum, Record: record, Err: err}
			}
			continue
		}

		field := func(name string) string {
			i := index[name]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		var rec models.CallRecord
		rec.Date, err = time.Parse("060102", field("date"))
		if err != nil {
			return nil, &errors.ParseError{
				Line:   lineNum,
				Record: record,
				Err:    fmt.Errorf("%w: %v", errors.ErrInvalidDate, err),
			}
		}

		rec.Entry, err = parseClock(field("vru_entry"))
		if err != nil {
			return nil, &errors.ParseError{
				Line:   lineNum,
				Record: record,
				Err:    fmt.Errorf("%w: %v", errors.ErrInvalidEntryTime, err),
			}
		}

		for _, d := range []struct {
			column string
			dst    *int
		}{
			{"vru_time", &rec.VRUTime},
			{"q_time", &rec.QueueTime},
			{"ser_time", &rec.SerTime},
		} {
			*d.dst, err = strconv.Atoi(field(d.column))
			if err != nil {
				return nil, &errors.ParseError{
					Line:   lineNum,
					Record: record,
					Err:    fmt.Errorf("%w: %s: %v", errors.ErrInvalidDuration, d.column, err),
				}
			}
		}

		rec.Outcome = field("outcome")
		rec.Server = field("server")
		records = append(records, rec)
	}

	if index == nil {
		return nil, fmt.Errorf("%w: call log has no header", errors.ErrEmptyRecord)
	}
	return records, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, name := range callLogColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", errors.ErrMissingColumn, strings.Join(missing, ", "))
	}
	return index, nil
}

// parseClock turns "H:MM:SS" into an offset from midnight.
func parseClock(value string) (time.Duration, error) {
	t, err := time.Parse("15:04:05", value)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second, nil
}

// errorType names the sentinel behind a parse failure for the error metric.
func errorType(err error) string {
	for _, known := range []struct {
		name string
		err  error
	}{
		{"invalid_field_count", errors.ErrInvalidFieldCount},
		{"invalid_duration", errors.ErrInvalidDuration},
		{"invalid_start_time", errors.ErrInvalidStartTime},
		{"invalid_end_time", errors.ErrInvalidEndTime},
		{"invalid_number_of_calls", errors.ErrInvalidNumberOfCalls},
		{"invalid_priority", errors.ErrInvalidPriority},
		{"invalid_target_probability", errors.ErrInvalidTargetProbability},
		{"missing_column", errors.ErrMissingColumn},
		{"invalid_date", errors.ErrInvalidDate},
		{"invalid_entry_time", errors.ErrInvalidEntryTime},
		{"empty_record", errors.ErrEmptyRecord},
	} {
		if stderrors.Is(err, known.err) {
			return known.name
		}
	}
	return "read"
}
