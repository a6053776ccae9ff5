package builtin

import (
	"strings"

	"energyetl/pkg/records"
)

// Entity classifications.
const (
	EntityCountry   = "country"
	EntityAggregate = "aggregate"
)

// Classifier decides whether an entity display name denotes an individual
// reporting entity or a regional/organizational aggregate. The keyword
// heuristic lives behind this interface so it can be replaced by a lookup
// table without touching the rest of the pipeline.
type Classifier interface {
	Classify(entity string) string
}

// AggregateKeywords is the fixed indicator list: continent names,
// multinational bloc acronyms, and "World". Any match classifies the entity
// as an aggregate. Known limitation, kept deliberately: the heuristic is
// deterministic but not authoritative (a country name containing a keyword
// would be misclassified).
func AggregateKeywords() []string {
	return []string{"World", "Africa", "Asia", "Europe", "OECD", "EU", "ASEAN"}
}

// KeywordClassifier matches entity names case-insensitively against a
// keyword list; any substring hit means "aggregate".
type KeywordClassifier struct {
	keywords []string
}

// NewKeywordClassifier lower-cases the keyword list once.
func NewKeywordClassifier(keywords []string) *KeywordClassifier {
	kc := &KeywordClassifier{keywords: make([]string, len(keywords))}
	for i, k := range keywords {
		kc.keywords[i] = strings.ToLower(k)
	}
	return kc
}

func (kc *KeywordClassifier) Classify(entity string) string {
	name := strings.ToLower(entity)
	for _, k := range kc.keywords {
		if strings.Contains(name, k) {
			return EntityAggregate
		}
	}
	return EntityCountry
}

// Classify tags each row's subject with its entity classification. It only
// writes the target column; no other column is mutated.
type Classify struct {
	Field      string // entity display-name column
	Target     string // output column, e.g. "entity_type"
	Classifier Classifier
}

func (Classify) Name() string { return "classify_entities" }

func (c Classify) Apply(in []records.Record) []records.Record {
	for _, rec := range in {
		rec[c.Target] = c.Classifier.Classify(rec.String(c.Field))
	}
	return in
}
