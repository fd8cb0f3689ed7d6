// Package trace persists per-run pipeline event history in SQLite so runs
// can be listed, summarized, and broken down per lane after the fact. A
// file lock on the trace directory keeps concurrent writers out.
package trace
