package analysis

// Config enumerates the independent, named feature flags that control
// which analyzers the harness inserts. Each flag, when true, inserts
// exactly one analyzer into its slot list; defaults are all true
// (spec.md §4.F, §6).
type Config struct {
	ImsiRequested               bool
	ConnectionRedirect2GDowngrade bool
	LteSib6And7Downgrade        bool
	NullCipher                  bool
	CellularNetwork             bool
}

// DefaultConfig returns the all-enabled configuration.
func DefaultConfig() Config {
	return Config{
		ImsiRequested:                 true,
		ConnectionRedirect2GDowngrade: true,
		LteSib6And7Downgrade:          true,
		NullCipher:                    true,
		CellularNetwork:               true,
	}
}
