package builtin

import (
	"math"

	"energyetl/internal/schema"
	"energyetl/pkg/records"
)

// Derive evaluates a dataset's derived-column specs in declaration order,
// so later specs see earlier outputs (percentage shares read the total, the
// exporter flag reads the net difference).
type Derive struct {
	Specs []schema.DerivedSpec
}

func (Derive) Name() string { return "compute_derived" }

func (d Derive) Apply(in []records.Record) []records.Record {
	for _, rec := range in {
		for _, spec := range d.Specs {
			rec[spec.Name] = eval(spec, rec)
		}
	}
	return in
}

func eval(spec schema.DerivedSpec, rec records.Record) any {
	switch spec.Op {
	case schema.OpSum:
		// Null counts as zero, but a total of nothing stays null.
		sum, any := 0.0, false
		for _, col := range spec.Sources {
			if v, ok := rec.Float(col); ok {
				sum += v
				any = true
			}
		}
		if !any {
			return nil
		}
		return round(sum, spec.Round)

	case schema.OpPctShare:
		total, ok := rec.Float(spec.Total)
		if !ok || total == 0 {
			return nil // never divide by zero; null means "share undefined"
		}
		sum := 0.0
		for _, col := range spec.Sources {
			if v, ok := rec.Float(col); ok {
				sum += v
			}
		}
		return round(sum/total*100, spec.Round)

	case schema.OpDifference:
		a, okA := rec.Float(spec.Minuend)
		b, okB := rec.Float(spec.Subtrahend)
		if !okA || !okB {
			return nil
		}
		return round(a-b, spec.Round)

	case schema.OpFlagPositive:
		v, ok := rec.Float(spec.Operand)
		if !ok {
			return nil
		}
		return v > 0
	}
	return nil
}

func round(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
