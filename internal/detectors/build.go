// Package detectors implements the five example heuristics spec.md
// leaves opaque beyond their signal/event contract: imsi_requested,
// connection_redirect_2g_downgrade, lte_sib6_and_7_downgrade,
// null_cipher, and cellular_network.
package detectors

import "diagwatch/internal/analysis"

// Build constructs the raw-message and element analyzer slot lists for
// cfg. The harness reports element-analyzer slots before raw-message
// slots in its metadata; within each group, analyzers are in the
// flag-declaration order spec.md §4.F/§6 lists them in.
func Build(cfg analysis.Config) ([]analysis.RawAnalyzer, []analysis.ElementAnalyzer) {
	var raw []analysis.RawAnalyzer
	if cfg.CellularNetwork {
		raw = append(raw, newCellularNetwork())
	}

	var elems []analysis.ElementAnalyzer
	if cfg.ImsiRequested {
		elems = append(elems, newImsiRequested())
	}
	if cfg.ConnectionRedirect2GDowngrade {
		elems = append(elems, newConnectionRedirect2GDowngrade())
	}
	if cfg.LteSib6And7Downgrade {
		elems = append(elems, newLteSib6And7Downgrade())
	}
	if cfg.NullCipher {
		elems = append(elems, newNullCipher())
	}

	return raw, elems
}
