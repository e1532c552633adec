package shader

import "shaderlint/internal/stage"

// Record is the unit of work submitted to the validator and to the output
// parser. It is created per lint invocation and never shared across
// concurrent lints.
type Record struct {
	// CanonicalName must match the filename the validator echoes as a
	// section header in its output.
	CanonicalName string
	Stage         stage.Stage
	// Path is the original on-disk path, attached to diagnostics so they
	// point at the file the user edited. May be empty for virtual sources.
	Path   string
	Source string
}

// Record builds the submission record for classified tokens.
func (t Tokens) Record(source string) Record {
	return Record{
		CanonicalName: t.CanonicalName,
		Stage:         t.Stage,
		Path:          t.Path,
		Source:        source,
	}
}
