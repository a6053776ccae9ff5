package builtin

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"

	"energyetl/internal/quality"
	"energyetl/pkg/records"
)

// DeDup enforces the identity-key uniqueness invariant: within a cleaned
// dataset the key must be unique. The first occurrence wins and every
// removal increments the quality counter, so duplicates are reported
// rather than silently dropped.
//
// Keys are hashed with xxh3 over the concatenated key fields (nil encoded
// distinctly from the empty string) so large country-year tables dedupe
// without holding full key strings.
type DeDup struct {
	Keys    []string
	Quality *quality.Record
}

func (DeDup) Name() string { return "dedup_identity_key" }

func (d DeDup) Apply(in []records.Record) []records.Record {
	if len(in) == 0 || len(d.Keys) == 0 {
		return in
	}
	seen := make(map[uint64]struct{}, len(in))
	out := in[:0]
	var b strings.Builder
	for _, rec := range in {
		b.Reset()
		for i, k := range d.Keys {
			if i > 0 {
				b.WriteByte('\x1f')
			}
			switch t := rec[k].(type) {
			case nil:
				b.WriteByte('\x00')
			case string:
				b.WriteString(t)
			default:
				fmt.Fprint(&b, t)
			}
		}
		h := xxh3.HashString(b.String())
		if _, dup := seen[h]; dup {
			d.Quality.DuplicatesRemoved++
			continue
		}
		seen[h] = struct{}{}
		out = append(out, rec)
	}
	return out
}
