package schema

// Default returns the registry for the five energy & environmental source
// tables. Raw header spellings match the upstream exports (Our World in Data
// grapher CSVs and a TradingView price export); canonical names match the
// warehouse DDL.
func Default() (*Registry, error) {
	return NewRegistry(
		Dataset{
			Name:    "co2_emissions",
			File:    "annual-co2-emissions-per-country.csv",
			Sidecar: "annual-co2-emissions-per-country.metadata.json",
			Columns: []ColumnRule{
				{Raw: "Entity", Canonical: "entity", Type: TypeText, Required: true},
				{Raw: "Code", Canonical: "code", Type: TypeText, Null: EmptyToNull},
				{Raw: "Year", Canonical: "year", Type: TypeYear, Required: true},
				{Raw: "Annual CO₂ emissions", Canonical: "annual_co2_emissions", Type: TypeFloat, Null: SentinelToNull, Sentinels: nanSentinels},
			},
			Key:       []string{"entity", "year"},
			HasEntity: true,
		},
		Dataset{
			Name:    "electricity_production",
			File:    "electricity-prod-source-stacked.csv",
			Sidecar: "electricity-prod-source-stacked.metadata.json",
			Columns: []ColumnRule{
				{Raw: "Entity", Canonical: "entity", Type: TypeText, Required: true},
				{Raw: "Code", Canonical: "code", Type: TypeText, Null: EmptyToNull},
				{Raw: "Year", Canonical: "year", Type: TypeYear, Required: true},
				{Raw: "Coal - TWh", Canonical: "coal_twh", Type: TypeFloat, Null: SentinelToNull, Sentinels: nanSentinels},
				{Raw: "Gas - TWh", Canonical: "gas_twh", Type: TypeFloat, Null: SentinelToNull, Sentinels: nanSentinels},
				{Raw: "Oil - TWh", Canonical: "oil_twh", Type: TypeFloat, Null: SentinelToNull, Sentinels: nanSentinels},
				{Raw: "Nuclear - TWh", Canonical: "nuclear_twh", Type: TypeFloat, Null: SentinelToNull, Sentinels: nanSentinels},
				{Raw: "Hydro - TWh", Canonical: "hydro_twh", Type: TypeFloat, Null: SentinelToNull, Sentinels: nanSentinels},
				{Raw: "Wind - TWh", Canonical: "wind_twh", Type: TypeFloat, Null: SentinelToNull, Sentinels: nanSentinels},
				{Raw: "Solar - TWh", Canonical: "solar_twh", Type: TypeFloat, Null: SentinelToNull, Sentinels: nanSentinels},
				{Raw: "Bioenergy - TWh", Canonical: "bioenergy_twh", Type: TypeFloat, Null: SentinelToNull, Sentinels: nanSentinels},
				{Raw: "Other renewables - TWh", Canonical: "other_renewables_twh", Type: TypeFloat, Null: SentinelToNull, Sentinels: nanSentinels},
			},
			Key: []string{"entity", "year"},
			Derived: []DerivedSpec{
				{Name: "total_electricity_twh", Op: OpSum, Round: 2, Sources: []string{
					"coal_twh", "gas_twh", "oil_twh", "nuclear_twh", "hydro_twh",
					"wind_twh", "solar_twh", "bioenergy_twh", "other_renewables_twh",
				}},
				{Name: "pct_renewable", Op: OpPctShare, Round: 2, Total: "total_electricity_twh", Sources: []string{
					"solar_twh", "wind_twh", "hydro_twh", "bioenergy_twh", "other_renewables_twh",
				}},
				{Name: "pct_fossil", Op: OpPctShare, Round: 2, Total: "total_electricity_twh", Sources: []string{
					"coal_twh", "gas_twh", "oil_twh",
				}},
				{Name: "pct_nuclear", Op: OpPctShare, Round: 2, Total: "total_electricity_twh", Sources: []string{
					"nuclear_twh",
				}},
			},
			Pct: &PctTriple{
				Columns: []string{"pct_renewable", "pct_fossil", "pct_nuclear"},
				Total:   "total_electricity_twh",
			},
			HasEntity: true,
		},
		Dataset{
			Name:    "oil_production",
			File:    "oil-production-by-country.csv",
			Sidecar: "oil-production-by-country.metadata.json",
			Columns: []ColumnRule{
				{Raw: "Entity", Canonical: "entity", Type: TypeText, Required: true},
				{Raw: "Code", Canonical: "code", Type: TypeText, Null: EmptyToNull},
				{Raw: "Year", Canonical: "year", Type: TypeYear, Required: true},
				{Raw: "Oil production - TWh", Canonical: "oil_production_twh", Type: TypeFloat, Null: SentinelToNull, Sentinels: nanSentinels},
			},
			Key:       []string{"entity", "year"},
			HasEntity: true,
		},
		Dataset{
			Name:    "energy_prod_cons",
			File:    "production-vs-consumption-energy.csv",
			Sidecar: "production-vs-consumption-energy.metadata.json",
			Columns: []ColumnRule{
				{Raw: "Entity", Canonical: "entity", Type: TypeText, Required: true},
				{Raw: "Code", Canonical: "code", Type: TypeText, Null: EmptyToNull},
				{Raw: "Year", Canonical: "year", Type: TypeYear, Required: true},
				{Raw: "Production-based energy", Canonical: "production_based_energy", Type: TypeFloat, Null: SentinelToNull, Sentinels: nanSentinels},
				{Raw: "Consumption-based energy", Canonical: "consumption_based_energy", Type: TypeFloat, Null: SentinelToNull, Sentinels: nanSentinels},
			},
			Key: []string{"entity", "year"},
			Derived: []DerivedSpec{
				{Name: "net_energy_trade_twh", Op: OpDifference, Round: 2, Minuend: "production_based_energy", Subtrahend: "consumption_based_energy"},
				{Name: "is_net_exporter", Op: OpFlagPositive, Operand: "net_energy_trade_twh"},
			},
			HasEntity: true,
		},
		Dataset{
			// Daily TTF front-month settlement export. No entity dimension;
			// the timestamp string is the identity key.
			Name: "nymex_gas_prices",
			File: "NYMEX_DL_TTF1 1D.csv",
			Columns: []ColumnRule{
				{Raw: "time", Canonical: "time", Type: TypeTimestamp, Required: true},
				{Raw: "open", Canonical: "open", Type: TypeFloat},
				{Raw: "high", Canonical: "high", Type: TypeFloat},
				{Raw: "low", Canonical: "low", Type: TypeFloat},
				{Raw: "close", Canonical: "close", Type: TypeFloat},
				{Raw: "Volume", Canonical: "volume", Type: TypeFloat, Null: SentinelToNull, Sentinels: nanSentinels},
				{Raw: "Volume MA", Canonical: "volume_ma", Type: TypeFloat, Null: SentinelToNull, Sentinels: nanSentinels},
			},
			Droppable: []string{"plot"},
			Key:       []string{"time"},
			HasEntity: false,
		},
	)
}

// nanSentinels are the string tokens the source files use for missing
// numerics. Matching is on the exact original token, never on value.
var nanSentinels = []string{"NaN", "nan", "null", "NULL"}
