package builtin

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"energyetl/internal/quality"
	"energyetl/internal/schema"
	"energyetl/pkg/records"
)

// CoercionError reports a token that could not be converted to its column's
// declared type and is not a recognized null sentinel. Row-scoped: the
// offending row is rejected, the dataset continues.
type CoercionError struct {
	Column string
	Token  string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("column %q: token %q not coercible", e.Column, e.Token)
}

// RangeValidationError reports a year outside the accepted bounds.
type RangeValidationError struct {
	Column   string
	Value    int
	Min, Max int
}

func (e *RangeValidationError) Error() string {
	return fmt.Sprintf("column %q: year %d outside [%d, %d]", e.Column, e.Value, e.Min, e.Max)
}

// RequiredMissingError reports an identity or otherwise required column with
// no value.
type RequiredMissingError struct {
	Column string
}

func (e *RequiredMissingError) Error() string {
	return fmt.Sprintf("required column %q missing", e.Column)
}

// timestampLayouts are the accepted input formats for timestamp columns:
// ISO-8601 with an optional UTC offset, then progressively reduced forms.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Coerce converts raw string cells into the declared semantic types.
//
// Rows failing year-range or numeric/boolean coercion are rejected and
// counted. Timestamp parse failures degrade instead: the original token is
// retained and counted, and the dataset's quality flag turns "degraded".
// The upstream price export's format was never confirmed, so retention is
// favored over correctness there.
type Coerce struct {
	Dataset schema.Dataset
	MaxYear int // upper bound for year columns; 0 means current year + 1
	Quality *quality.Record
	Reject  func(rec records.Record, err error) // optional sink for rejected rows
}

func (Coerce) Name() string { return "coerce_types" }

// Apply coerces every record in place, filtering out rejected rows. No row
// is dropped or mutated without a quality counter moving.
func (c Coerce) Apply(in []records.Record) []records.Record {
	maxYear := c.MaxYear
	if maxYear == 0 {
		maxYear = schema.MaxYear(time.Now())
	}
	out := in[:0]
	for _, rec := range in {
		if err := c.coerceRecord(rec, maxYear); err != nil {
			c.Quality.RowsRejected++
			if c.Reject != nil {
				c.Reject(rec, err)
			}
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (c Coerce) coerceRecord(rec records.Record, maxYear int) error {
	for _, rule := range c.Dataset.Columns {
		v, ok := rec[rule.Canonical]
		if rule.Required && (!ok || v == nil || v == "") {
			c.Quality.RequiredMissing++
			return &RequiredMissingError{Column: rule.Canonical}
		}
		s, isStr := v.(string)
		if !ok || v == nil || !isStr {
			continue // already null or already typed
		}
		if s == "" {
			// The delimited null representation for optional columns.
			rec[rule.Canonical] = nil
			continue
		}
		if isSentinel(rule, s) {
			// Left as the original token; the post-coercion resolver maps
			// it to null by token identity.
			continue
		}

		switch rule.Type {
		case schema.TypeText, "":
			// already string

		case schema.TypeYear:
			y, err := strconv.Atoi(s)
			if err != nil {
				c.Quality.CoercionFailures++
				return &CoercionError{Column: rule.Canonical, Token: s}
			}
			if y < schema.MinYear || y > maxYear {
				c.Quality.CoercionFailures++
				c.Quality.RangeRejections++
				return &RangeValidationError{Column: rule.Canonical, Value: y, Min: schema.MinYear, Max: maxYear}
			}
			rec[rule.Canonical] = y

		case schema.TypeFloat:
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				c.Quality.CoercionFailures++
				return &CoercionError{Column: rule.Canonical, Token: s}
			}
			rec[rule.Canonical] = f

		case schema.TypeBool:
			switch strings.ToLower(s) {
			case "true", "1":
				rec[rule.Canonical] = true
			case "false", "0":
				rec[rule.Canonical] = false
			default:
				c.Quality.CoercionFailures++
				return &CoercionError{Column: rule.Canonical, Token: s}
			}

		case schema.TypeTimestamp:
			t, err := parseTimestamp(s)
			if err != nil {
				// Degraded retention: keep the raw token, flag the dataset.
				c.Quality.CoercionFailures++
				c.Quality.DegradedTimestamps++
				continue
			}
			rec[rule.Canonical] = t
		}
	}
	return nil
}

func parseTimestamp(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func isSentinel(rule schema.ColumnRule, token string) bool {
	if rule.Null != schema.SentinelToNull {
		return false
	}
	for _, s := range rule.Sentinels {
		if token == s {
			return true
		}
	}
	return false
}
