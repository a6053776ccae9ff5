package postgres

import (
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestTableIdent(t *testing.T) {
	if got := tableIdent("public.co2_emissions"); !reflect.DeepEqual(got, pgx.Identifier{"public", "co2_emissions"}) {
		t.Fatalf("tableIdent = %v", got)
	}
	if got := tableIdent("co2_emissions"); !reflect.DeepEqual(got, pgx.Identifier{"co2_emissions"}) {
		t.Fatalf("tableIdent = %v", got)
	}
}

func TestPgFQN(t *testing.T) {
	if got := pgFQN("public.t"); got != `"public"."t"` {
		t.Fatalf("pgFQN = %s", got)
	}
}
