// Package diag defines the diagnostic model shared by the classifier, the
// validator output parser and the output formatters: severities, stable
// codes, line/column ranges and the capped Bag collector.
package diag
