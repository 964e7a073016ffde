// Package files provides filesystem helpers for the batch analyzer.
//
// Discovery locates Advisor CSV exports on disk, optionally restricted to a
// glob pattern or a modification-time window, so the analyzer can fan out
// over a directory of exports.
//
// OutputManager owns the analyzer's output directory: it creates the
// directory tree on demand and writes report artifacts with paths resolved
// against a single base, keeping callers free of filepath plumbing.
//
// Example usage:
//
//	discovery := files.NewDiscovery("/data/exports")
//	exports, err := discovery.FindCSVExports(".")
//
//	out := files.NewOutputManager("/data/reports", logger)
//	err = out.WriteFile("summary.json", payload)
package files
