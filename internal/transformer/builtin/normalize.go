// Package builtin contains the reusable cleaning stages of the pipeline:
// header normalization, type coercion, null resolution, duplicate removal,
// derived columns, entity classification, and metadata enrichment.
package builtin

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"energyetl/internal/schema"
)

// UnmappedColumnError reports a raw header that matched no column rule and
// was not declared droppable. It is a structural mismatch, fatal for the
// dataset: continuing would produce a table with undefined columns.
type UnmappedColumnError struct {
	Dataset   string
	Raw       string
	Canonical string
}

func (e *UnmappedColumnError) Error() string {
	return fmt.Sprintf("dataset %q: raw column %q (canonical %q) matches no column rule", e.Dataset, e.Raw, e.Canonical)
}

// technicalSymbols maps Unicode glyphs used in source headers to their
// ASCII equivalents. Applied before accent folding, so "CO₂" -> "co2".
var technicalSymbols = strings.NewReplacer(
	"₀", "0", "₁", "1", "₂", "2", "₃", "3", "₄", "4",
	"₅", "5", "₆", "6", "₇", "7", "₈", "8", "₉", "9",
)

// foldAccents decomposes, strips combining marks, and recomposes, so
// accented letters reduce to ASCII.
var foldAccents = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// CanonicalName rewrites a raw header string into a canonical snake_case
// identifier: lower-case, technical symbols substituted, accents folded,
// whitespace and punctuation collapsed to single underscores, leading and
// trailing underscores trimmed.
func CanonicalName(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = technicalSymbols.Replace(s)
	ascii, _, _ := transform.String(foldAccents, s)

	var b strings.Builder
	prevSep := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevSep = false
		default:
			if !prevSep {
				b.WriteByte('_')
				prevSep = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}

// MappedColumn binds one raw header position to a column rule, or marks it
// dropped.
type MappedColumn struct {
	Index     int
	Canonical string
	Rule      schema.ColumnRule
	Drop      bool
}

// HeaderMapping is the result of normalizing one dataset's header row.
type HeaderMapping struct {
	Columns []MappedColumn
	Dropped []string // canonical names of discarded droppable columns
}

// MapHeader canonicalizes every raw header and binds it to the dataset's
// column rules, order-preserving. A canonical name with no rule fails with
// *UnmappedColumnError unless the dataset declares it droppable.
//
// Rules are matched by the canonical form of their declared raw name, so a
// registry stays readable (it declares the upstream spelling) while the
// match is insensitive to case, accents, and separator noise.
func MapHeader(ds schema.Dataset, header []string) (HeaderMapping, error) {
	byCanonical := make(map[string]schema.ColumnRule, len(ds.Columns))
	for _, rule := range ds.Columns {
		byCanonical[CanonicalName(rule.Raw)] = rule
	}
	droppable := make(map[string]struct{}, len(ds.Droppable))
	for _, d := range ds.Droppable {
		droppable[d] = struct{}{}
	}

	var m HeaderMapping
	for i, raw := range header {
		name := CanonicalName(raw)
		if rule, ok := byCanonical[name]; ok {
			m.Columns = append(m.Columns, MappedColumn{Index: i, Canonical: rule.Canonical, Rule: rule})
			continue
		}
		if _, ok := droppable[name]; ok {
			m.Columns = append(m.Columns, MappedColumn{Index: i, Canonical: name, Drop: true})
			m.Dropped = append(m.Dropped, name)
			continue
		}
		return HeaderMapping{}, &UnmappedColumnError{Dataset: ds.Name, Raw: raw, Canonical: name}
	}
	return m, nil
}
