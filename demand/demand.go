// Package demand estimates hourly arrival rates and per-agent service rates
// from a call-center log.
package demand

import (
	"fmt"
	"sort"
	"strings"
	"time"

	customerrors "agent-staffing/errors"
	"agent-staffing/models"
)

const (
	// OutcomePhantom marks calls that never reached the system.
	OutcomePhantom = "PHANTOM"
	// NoServer marks calls that were not handled by an agent.
	NoServer = "NO_SERVER"

	// DefaultServiceRate is calls per hour one agent handles.
	DefaultServiceRate = 15.0
	// DefaultTargetProbability is the accepted chance of waiting in queue.
	DefaultTargetProbability = 0.5
	// DefaultWrapUp is the time an agent stays unavailable after a call.
	DefaultWrapUp = 60 * time.Second
)

// DefaultClosedHours are the hours the call center is closed.
var DefaultClosedHours = []int{0, 1, 2, 3, 4, 5}

// Clean drops phantom calls and records with a negative VRU time.
func Clean(records []models.CallRecord) []models.CallRecord {
	out := make([]models.CallRecord, 0, len(records))
	for _, rec := range records {
		if rec.Outcome == OutcomePhantom || rec.VRUTime < 0 {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Days returns the number of distinct dates falling on weekday that have at
// least one call in the log. A weekday with no calls at all is not counted;
// use CalendarDays when such days must lower the average.
func Days(records []models.CallRecord, weekday time.Weekday) int {
	seen := make(map[time.Time]struct{})
	for _, rec := range records {
		if rec.Date.Weekday() == weekday {
			seen[rec.Date] = struct{}{}
		}
	}
	return len(seen)
}

// CalendarDays returns how many times weekday occurs between the first and
// last dates of the log, inclusive, whether or not calls arrived on it.
func CalendarDays(records []models.CallRecord, weekday time.Weekday) int {
	if len(records) == 0 {
		return 0
	}
	first, last := records[0].Date, records[0].Date
	for _, rec := range records[1:] {
		if rec.Date.Before(first) {
			first = rec.Date
		}
		if rec.Date.After(last) {
			last = rec.Date
		}
	}

	days := 0
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == weekday {
			days++
		}
	}
	return days
}

// HourlyArrivalRates returns the average number of calls entering the system
// in each hour of the day, over the dates in the log that fall on weekday and
// carry calls (see Days).
func HourlyArrivalRates(records []models.CallRecord, weekday time.Weekday) []float64 {
	return HourlyArrivalRatesOver(records, weekday, Days(records, weekday))
}

// HourlyArrivalRatesOver is HourlyArrivalRates averaged over an explicit
// number of days. days <= 0 yields all-zero rates.
func HourlyArrivalRatesOver(records []models.CallRecord, weekday time.Weekday, days int) []float64 {
	rates := make([]float64, 24)
	if days <= 0 {
		return rates
	}
	for _, rec := range records {
		if rec.Date.Weekday() == weekday {
			rates[rec.EntryHour()]++
		}
	}
	for h := range rates {
		rates[h] /= float64(days)
	}
	return rates
}

// MeanWaitTime returns the mean seconds spent in the VRU and the queue by
// calls on weekday, or 0 when there are none.
func MeanWaitTime(records []models.CallRecord, weekday time.Weekday) float64 {
	total, n := 0, 0
	for _, rec := range records {
		if rec.Date.Weekday() == weekday {
			total += rec.WaitTime()
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}

// MeanServiceTimeByHour returns the mean service time in seconds for each hour
// that had at least one served call on weekday.
func MeanServiceTimeByHour(records []models.CallRecord, weekday time.Weekday) map[int]float64 {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, rec := range records {
		if rec.Date.Weekday() != weekday || rec.Server == NoServer {
			continue
		}
		h := rec.EntryHour()
		sums[h] += float64(rec.SerTime)
		counts[h]++
	}
	means := make(map[int]float64, len(sums))
	for h, sum := range sums {
		means[h] = sum / float64(counts[h])
	}
	return means
}

// ServiceRate returns calls per hour one agent handles on weekday:
// 3600 / (mean of hourly mean service times + wrapUp).
func ServiceRate(records []models.CallRecord, weekday time.Weekday, wrapUp time.Duration) (float64, error) {
	means := MeanServiceTimeByHour(records, weekday)
	if len(means) == 0 {
		return 0, fmt.Errorf("%w on %s", customerrors.ErrNoServedCalls, weekday)
	}

	// sum in hour order so the result does not depend on map iteration
	hours := make([]int, 0, len(means))
	for h := range means {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	total := 0.0
	for _, h := range hours {
		total += means[h]
	}
	mean := total / float64(len(hours))

	return 3600 / (mean + wrapUp.Seconds()), nil
}

// ParseWeekday accepts full or three-letter English day names.
func ParseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := d.String()
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}
