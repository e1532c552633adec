package glslang

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"shaderlint/internal/diag"
	"shaderlint/internal/shader"
)

// compilePattern matches per-line compile findings. The validator reports
// the column BEFORE the line: `ERROR: 3:5: ...` points at column 3, line 5.
var compilePattern = regexp.MustCompile(`^([\w \-]+): (\d+):(\d+): (.*)$`)

// linkPatternFor builds the link-stage pattern for one shader. Link findings
// name the stage (`ERROR: Linking fragment stage: ...`) instead of echoing a
// filename, so each record gets its own pattern.
func linkPatternFor(st string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`^([\w \-]+): Linking %s stage: (.*)$`, regexp.QuoteMeta(st)))
}

// ParseOutput extracts structured diagnostics from the validator's combined
// output. The output is scanned once per submitted record: the validator
// echoes each input filename as a section header before that file's compile
// findings, so a record only claims compile lines inside its own section.
// A line matching neither pattern ends the current section.
//
// When exactly one record was submitted there are no headers to rely on and
// every line is presumed relevant. This is intentionally loose: malformed
// output that a header check would exclude still produces diagnostics, and
// tightening it would change observable diagnostic counts.
//
// Link findings are matched independently on every line and attributed to
// the caller-supplied fallback range, since they carry no source position.
// ParseOutput never fails: unmatched lines and unknown severity words
// degrade to "no diagnostic" and "warning" respectively.
func ParseOutput(shaders []shader.Record, raw string, fallback diag.Range) []*diag.Diagnostic {
	if raw == "" || len(shaders) == 0 {
		return nil
	}

	lines := splitLines(raw)
	single := len(shaders) == 1
	out := make([]*diag.Diagnostic, 0, 4)

	for _, rec := range shaders {
		linkPattern := linkPatternFor(rec.Stage.Name)
		inSection := false

		for _, line := range lines {
			switch {
			case strings.HasSuffix(strings.TrimSpace(line), rec.CanonicalName):
				inSection = true
			case inSection || single:
				if m := compilePattern.FindStringSubmatch(line); m != nil {
					out = append(out, &diag.Diagnostic{
						Severity: diag.FromLabel(m[1]),
						Code:     diag.ValCompile,
						Message:  strings.TrimSpace(m[4]),
						File:     rec.Path,
						Range:    diag.Point(zeroBased(m[3]), zeroBased(m[2])),
					})
				} else if inSection {
					inSection = false
				}
			}

			if m := linkPattern.FindStringSubmatch(line); m != nil {
				out = append(out, &diag.Diagnostic{
					Severity: diag.FromLabel(m[1]),
					Code:     diag.ValLink,
					Message:  strings.TrimSpace(m[2]),
					File:     rec.Path,
					Range:    fallback,
				})
			}
		}
	}

	return out
}

// zeroBased converts a 1-based decimal position to zero-based, clamping
// anything below 1 to 0.
func zeroBased(s string) uint32 {
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0
	}
	u, err := safecast.Conv[uint32](v - 1)
	if err != nil {
		return 0
	}
	return u
}

func splitLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	return strings.Split(raw, "\n")
}
