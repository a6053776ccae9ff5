// Package schema declares the static column contracts for the five energy
// and emissions datasets handled by the pipeline.
//
// Every other stage depends on this registry: the normalizer maps raw
// headers onto rules declared here, the coercer applies the declared target
// types, the resolver applies the declared null policies, and the derived
// calculator evaluates the declared specs. The registry is pure
// configuration; it performs no computation beyond its one-time startup
// validation.
package schema

import (
	"fmt"
	"time"
)

// MinYear is the lower bound for year-typed columns. Observations before
// instrumental record keeping are treated as data errors.
const MinYear = 1750

// MaxYear returns the upper bound for year-typed columns: one year past the
// processing year, so provisional next-year figures survive cleaning.
func MaxYear(now time.Time) int { return now.Year() + 1 }

// Type is the semantic target type of a canonical column.
type Type string

const (
	TypeText      Type = "text"
	TypeYear      Type = "year" // integer with [MinYear, MaxYear] bounds
	TypeFloat     Type = "float"
	TypeBool      Type = "bool"
	TypeTimestamp Type = "timestamp"
)

// NullPolicy selects how missing-value sentinels are resolved for a column.
// Missing-ness is decided purely by the original token identity; a zero or
// false value is never treated as missing.
type NullPolicy string

const (
	// PassThrough leaves values untouched.
	PassThrough NullPolicy = "pass_through"
	// EmptyToNull maps the empty string to NULL before coercion.
	EmptyToNull NullPolicy = "empty_string_to_null"
	// SentinelToNull maps declared sentinel tokens (e.g. "NaN") to NULL.
	// It runs around coercion so that a sentinel spelling which overlaps a
	// valid value is only matched in its quoted string form.
	SentinelToNull NullPolicy = "named_sentinel_to_null"
)

// ColumnRule maps one raw CSV column onto its canonical form.
type ColumnRule struct {
	Raw       string     `json:"raw"`
	Canonical string     `json:"canonical"`
	Type      Type       `json:"type"`
	Null      NullPolicy `json:"null_policy,omitempty"`
	Sentinels []string   `json:"sentinels,omitempty"`
	Required  bool       `json:"required,omitempty"`
}

// DerivedOp enumerates the formula kinds a DerivedSpec may use.
type DerivedOp string

const (
	// OpSum sums Sources, treating NULL as zero; the result is NULL only
	// when every source is NULL.
	OpSum DerivedOp = "sum"
	// OpPctShare computes sum(Sources)/Total*100; NULL when Total is NULL
	// or zero.
	OpPctShare DerivedOp = "pct_share"
	// OpDifference computes Minuend-Subtrahend, propagating NULL.
	OpDifference DerivedOp = "difference"
	// OpFlagPositive emits Operand > 0; NULL operand yields NULL.
	OpFlagPositive DerivedOp = "flag_positive"
)

// DerivedSpec is a named formula over already-materialized columns of the
// same row. Specs are evaluated in declaration order, so later specs see
// earlier outputs (percentages read the total, flags read the difference).
type DerivedSpec struct {
	Name       string    `json:"name"`
	Op         DerivedOp `json:"op"`
	Sources    []string  `json:"sources,omitempty"`
	Total      string    `json:"total,omitempty"`
	Minuend    string    `json:"minuend,omitempty"`
	Subtrahend string    `json:"subtrahend,omitempty"`
	Operand    string    `json:"operand,omitempty"`
	Round      int       `json:"round,omitempty"` // decimal places; <0 disables rounding
}

// PctTriple names three percentage columns that partition one total and must
// sum to 100 within a one-point tolerance. Violations are counted by the
// quality scorer, never silently ignored.
type PctTriple struct {
	Columns []string `json:"columns"`
	Total   string   `json:"total"`
}

// Dataset describes one input table: its file names, column rules, identity
// key, and derived-column program. Immutable after registry construction.
type Dataset struct {
	Name      string        `json:"name"`
	File      string        `json:"file"`
	Sidecar   string        `json:"sidecar,omitempty"` // metadata JSON; optional
	Columns   []ColumnRule  `json:"columns"`
	Droppable []string      `json:"droppable,omitempty"` // canonical names allowed to be discarded
	Key       []string      `json:"key"`                 // identity-key columns, unique post-cleaning
	Derived   []DerivedSpec `json:"derived,omitempty"`
	Pct       *PctTriple    `json:"pct_triple,omitempty"`
	HasEntity bool          `json:"has_entity"` // false for the price series
}

// Rule returns the column rule for a canonical name.
func (d Dataset) Rule(canonical string) (ColumnRule, bool) {
	for _, c := range d.Columns {
		if c.Canonical == canonical {
			return c, true
		}
	}
	return ColumnRule{}, false
}

// CanonicalColumns returns the canonical column names in declaration order.
func (d Dataset) CanonicalColumns() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Canonical
	}
	return out
}

// SchemaDefinitionError reports a broken registry declaration. It is fatal
// to the whole run: a broken registry cannot produce trustworthy output.
type SchemaDefinitionError struct {
	Dataset string
	Detail  string
}

func (e *SchemaDefinitionError) Error() string {
	return fmt.Sprintf("schema definition for %q: %s", e.Dataset, e.Detail)
}

// UnknownDatasetError reports a lookup of an unregistered dataset. It is
// fatal for that dataset only.
type UnknownDatasetError struct {
	Name string
}

func (e *UnknownDatasetError) Error() string {
	return fmt.Sprintf("unknown dataset %q", e.Name)
}

// Registry holds the dataset declarations in registration order.
type Registry struct {
	order []string
	byID  map[string]Dataset
}

// NewRegistry builds and validates a registry. Any declaration defect
// surfaces as *SchemaDefinitionError.
func NewRegistry(datasets ...Dataset) (*Registry, error) {
	r := &Registry{byID: make(map[string]Dataset, len(datasets))}
	for _, d := range datasets {
		if _, dup := r.byID[d.Name]; dup {
			return nil, &SchemaDefinitionError{Dataset: d.Name, Detail: "dataset registered twice"}
		}
		if err := validateDataset(d); err != nil {
			return nil, err
		}
		r.byID[d.Name] = d
		r.order = append(r.order, d.Name)
	}
	return r, nil
}

// Lookup returns the declaration for a dataset identifier.
func (r *Registry) Lookup(name string) (Dataset, error) {
	d, ok := r.byID[name]
	if !ok {
		return Dataset{}, &UnknownDatasetError{Name: name}
	}
	return d, nil
}

// Names returns dataset identifiers in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func validateDataset(d Dataset) error {
	if d.Name == "" {
		return &SchemaDefinitionError{Dataset: d.Name, Detail: "dataset name must not be empty"}
	}
	if len(d.Columns) == 0 {
		return &SchemaDefinitionError{Dataset: d.Name, Detail: "no column rules declared"}
	}
	seen := make(map[string]struct{}, len(d.Columns))
	for _, c := range d.Columns {
		if c.Canonical == "" {
			return &SchemaDefinitionError{Dataset: d.Name, Detail: fmt.Sprintf("raw column %q has no canonical name", c.Raw)}
		}
		if _, dup := seen[c.Canonical]; dup {
			return &SchemaDefinitionError{Dataset: d.Name, Detail: fmt.Sprintf("duplicate canonical name %q", c.Canonical)}
		}
		seen[c.Canonical] = struct{}{}
		if c.Required && c.Type == "" {
			return &SchemaDefinitionError{Dataset: d.Name, Detail: fmt.Sprintf("required column %q has no declared type", c.Canonical)}
		}
		switch c.Type {
		case TypeText, TypeYear, TypeFloat, TypeBool, TypeTimestamp:
		case "":
			// optional untyped columns default to text at coercion time
		default:
			return &SchemaDefinitionError{Dataset: d.Name, Detail: fmt.Sprintf("column %q: unknown type %q", c.Canonical, c.Type)}
		}
		if c.Null == SentinelToNull && len(c.Sentinels) == 0 {
			return &SchemaDefinitionError{Dataset: d.Name, Detail: fmt.Sprintf("column %q: sentinel policy without sentinels", c.Canonical)}
		}
	}
	if len(d.Key) == 0 {
		return &SchemaDefinitionError{Dataset: d.Name, Detail: "no identity-key columns declared"}
	}
	for _, k := range d.Key {
		if _, ok := seen[k]; !ok {
			return &SchemaDefinitionError{Dataset: d.Name, Detail: fmt.Sprintf("identity-key column %q not declared", k)}
		}
	}
	derived := make(map[string]struct{}, len(d.Derived))
	for _, spec := range d.Derived {
		if spec.Name == "" {
			return &SchemaDefinitionError{Dataset: d.Name, Detail: "derived spec with empty name"}
		}
		if _, dup := seen[spec.Name]; dup {
			return &SchemaDefinitionError{Dataset: d.Name, Detail: fmt.Sprintf("derived column %q collides with a source column", spec.Name)}
		}
		if _, dup := derived[spec.Name]; dup {
			return &SchemaDefinitionError{Dataset: d.Name, Detail: fmt.Sprintf("derived column %q declared twice", spec.Name)}
		}
		// Formula inputs must exist by the time the spec runs: either a
		// source column or an earlier derived column.
		visible := func(col string) bool {
			if _, ok := seen[col]; ok {
				return true
			}
			_, ok := derived[col]
			return ok
		}
		for _, s := range spec.Sources {
			if !visible(s) {
				return &SchemaDefinitionError{Dataset: d.Name, Detail: fmt.Sprintf("derived %q reads undeclared column %q", spec.Name, s)}
			}
		}
		for _, s := range []string{spec.Total, spec.Minuend, spec.Subtrahend, spec.Operand} {
			if s != "" && !visible(s) {
				return &SchemaDefinitionError{Dataset: d.Name, Detail: fmt.Sprintf("derived %q reads undeclared column %q", spec.Name, s)}
			}
		}
		derived[spec.Name] = struct{}{}
	}
	return nil
}
