// Package report turns run results and trace queries into rows ready for
// tabular display.
package report
