package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// dayFirstLayouts are tried in order. Slash and dash dates are day-first;
// ISO dates are unambiguous.
var dayFirstLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02-01-2006",
	"02.01.2006",
	"02/01/06 15:04",
	"02/01/06",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// Excel date serials run from 1900-01-01 to 9999-12-31. Parsed dates must also
// fall inside the year window to be usable as transaction timestamps.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
	minYear        = 1900
	maxYear        = 2100
)

// ParseDayFirst parses a timestamp cell. Ambiguous numeric dates are read as
// day/month/year. A bare number is treated as an Excel date serial.
func ParseDayFirst(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < minExcelSerial || serial > maxExcelSerial {
			return time.Time{}, fmt.Errorf("invalid date serial %q", s)
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date serial %q: %w", s, err)
		}
		return checkYear(t)
	}

	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return checkYear(t)
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date format %q", s)
}

func checkYear(t time.Time) (time.Time, error) {
	if y := t.Year(); y < minYear || y > maxYear {
		return time.Time{}, fmt.Errorf("date %s outside %d-%d", t.Format("2006-01-02"), minYear, maxYear)
	}
	return t, nil
}
