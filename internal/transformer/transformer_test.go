package transformer

import (
	"reflect"
	"testing"

	"energyetl/pkg/records"
)

type upper struct{ field string }

func (upper) Name() string { return "upper" }
func (u upper) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		if s, ok := r[u.field].(string); ok {
			r[u.field] = s + "!"
		}
	}
	return in
}

type dropEmpty struct{ field string }

func (dropEmpty) Name() string { return "drop_empty" }
func (d dropEmpty) Apply(in []records.Record) []records.Record {
	out := in[:0]
	for _, r := range in {
		if r[d.field] != "" {
			out = append(out, r)
		}
	}
	return out
}

func TestChain_AppliesInOrder(t *testing.T) {
	c := Chain{dropEmpty{"a"}, upper{"a"}}
	out := c.Apply([]records.Record{{"a": "x"}, {"a": ""}, {"a": "y"}})
	want := []records.Record{{"a": "x!"}, {"a": "y!"}}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("out = %v, want %v", out, want)
	}
}
