package diag

import "fmt"

// Position is a zero-based line/column location in a source file.
type Position struct {
	Line uint32
	Col  uint32
}

// Range is an inclusive start/end pair. Start == End marks a single point.
// Validator output carries line/column positions directly, so ranges are
// stored resolved rather than as byte offsets.
type Range struct {
	Start Position
	End   Position
}

// Point returns a zero-length range at the given position.
func Point(line, col uint32) Range {
	p := Position{Line: line, Col: col}
	return Range{Start: p, End: p}
}

func (r Range) String() string {
	if r.Start == r.End {
		return fmt.Sprintf("%d:%d", r.Start.Line, r.Start.Col)
	}
	return fmt.Sprintf("%d:%d-%d:%d", r.Start.Line, r.Start.Col, r.End.Line, r.End.Col)
}

// Diagnostic is one finding attributed to a shader file. Instances are
// immutable after creation.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	// File is the original shader path the finding belongs to. Empty when
	// the source was virtual.
	File  string
	Range Range
}

func New(sev Severity, code Code, file string, rng Range, msg string) *Diagnostic {
	return &Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		File:     file,
		Range:    rng,
	}
}

func NewError(code Code, file string, rng Range, msg string) *Diagnostic {
	return New(SevError, code, file, rng, msg)
}
