package ingest

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// callers drop rows with Resolved=false
type ResolvedDate struct {
	Day      time.Time
	Resolved bool
}

var (
	compactDate = regexp.MustCompile(`^\d{8}$`)
	dottedDate  = regexp.MustCompile(`^\d{4}\.\d{1,2}\.\d{1,2}$`)
	slashedDate = regexp.MustCompile(`^\d{4}/\d{1,2}/\d{1,2}$`)
	numericOnly = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// serial day 0; the 30th absorbs the phantom 1900-02-29
var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// largest serial that still lands in year 9999
const maxSerialDays = 2958465

type dateStage func(v string) (time.Time, bool)

// Order matters: a value is only offered to later stages while unresolved.
var dateCascade = []dateStage{
	layoutStage(compactDate, "20060102"),
	layoutStage(dottedDate, "2006.1.2"),
	layoutStage(slashedDate, "2006/1/2"),
	freeformStage,
	serialStage,
}

// ParseDates keeps the length and order of values.
func ParseDates(values []string) []ResolvedDate {
	out := make([]ResolvedDate, len(values))
	cleaned := make([]string, len(values))
	for i, v := range values {
		cleaned[i] = cleanDate(v)
	}
	for _, stage := range dateCascade {
		for i, v := range cleaned {
			if out[i].Resolved || v == "" {
				continue
			}
			if d, ok := stage(v); ok {
				out[i] = ResolvedDate{Day: d, Resolved: true}
			}
		}
	}
	return out
}

func ParseDate(v string) (time.Time, bool) {
	r := ParseDates([]string{v})[0]
	return r.Day, r.Resolved
}

// "45432.0" -> "45432"
func cleanDate(v string) string {
	v = strings.TrimSpace(v)
	return strings.TrimSuffix(v, ".0")
}

func layoutStage(pattern *regexp.Regexp, layout string) dateStage {
	return func(v string) (time.Time, bool) {
		if !pattern.MatchString(v) {
			return time.Time{}, false
		}
		t, err := time.Parse(layout, v)
		if err != nil {
			return time.Time{}, false
		}
		return day(t), true
	}
}

// bare numbers go to serialStage; dateparse reports a missing year as 0
func freeformStage(v string) (time.Time, bool) {
	if numericOnly.MatchString(v) {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(v, time.UTC)
	if err != nil || t.Year() < serialEpoch.Year() {
		return time.Time{}, false
	}
	return day(t), true
}

func serialStage(v string) (time.Time, bool) {
	if !numericOnly.MatchString(v) {
		return time.Time{}, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f > maxSerialDays {
		return time.Time{}, false
	}
	return serialEpoch.AddDate(0, 0, int(math.Floor(f))), true
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
