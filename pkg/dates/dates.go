// Package dates turns the lines of a dates file into calendar dates.
package dates

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	apperrors "marsphotos/pkg/errors"
)

// Layouts lists the accepted input formats, tried in order. ISO 8601 first.
var Layouts = []string{
	"2006-01-02",
	"01/02/06",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"Jan-02-2006",
	"Jan-2-2006",
}

// Date is a calendar date without time of day
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date from a time, discarding clock and zone
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// String renders the date as YYYY-MM-DD
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Time returns midnight UTC of the date
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// InvalidLine describes an input line that could not be parsed
type InvalidLine struct {
	Number int // 1-based line number
	Raw    string
	Err    error
}

// Result holds the dates parsed from an input, in input order
type Result struct {
	Dates   []Date
	Invalid []InvalidLine
}

// ParseLine parses a single line. Time's parser rejects out of range days
// such as April 31, so calendar validity comes for free.
func ParseLine(line string) (Date, error) {
	value := strings.TrimSpace(line)
	if value == "" {
		return Date{}, errors.New("empty line")
	}

	var firstErr error
	for _, layout := range Layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return NewDate(t), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return Date{}, firstErr
}

// Parse converts lines to dates. Blank lines are skipped silently, every
// other unparseable line is reported in Result.Invalid.
func Parse(lines []string) Result {
	var result Result
	for i, line := range lines {
		raw := strings.TrimSpace(line)
		if raw == "" {
			continue
		}
		d, err := ParseLine(raw)
		if err != nil {
			result.Invalid = append(result.Invalid, InvalidLine{
				Number: i + 1,
				Raw:    raw,
				Err:    apperrors.InvalidDateLine(i+1, raw, err),
			})
			continue
		}
		result.Dates = append(result.Dates, d)
	}
	return result
}

// LoadFile reads every line of the dates file at path
func LoadFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.ConfigurationMissing(fmt.Sprintf("dates file %s does not exist", path), err)
		}
		return nil, apperrors.Storage("failed to open dates file", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.Storage("failed to read dates file", err)
	}
	return lines, nil
}
