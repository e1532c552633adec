package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"shaderlint/internal/diag"
	"shaderlint/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	markerColor  = color.New(color.FgHiMagenta)
)

// Pretty formats diagnostics for humans. Expects bag.Sort() to have been
// called. Each diagnostic prints as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// followed, when ShowSource is set and the file is present in the FileSet,
// by the offending source line with a ^~~~ marker under the range.
// Positions print 1-based.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writePrettyDiagnostic(w, d, fs, opts)
	}
}

func writePrettyDiagnostic(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	sev := d.Severity.String()
	if opts.Color {
		sev = severityColor(d.Severity).Sprint(sev)
	}

	line := d.Range.Start.Line + 1
	col := d.Range.Start.Col + 1
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", displayPath(d.File, fs, opts.PathMode), line, col, sev, d.Code.ID(), d.Message)

	if !opts.ShowSource || fs == nil || d.File == "" {
		return
	}
	file, ok := fs.GetByPath(d.File)
	if !ok {
		return
	}
	src := file.GetLine(line)
	if src == "" {
		return
	}

	fmt.Fprintf(w, "  %s\n", src)
	fmt.Fprintf(w, "  %s\n", caretMarker(src, d.Range, opts.Color))
}

// caretMarker renders a ^ under the start column and ~ through the end
// column for single-line ranges. Display width is computed per rune so tabs
// and wide characters keep the marker aligned.
func caretMarker(src string, rng diag.Range, colored bool) string {
	runes := []rune(src)
	startCol := int(rng.Start.Col)
	if startCol > len(runes) {
		startCol = len(runes)
	}

	pad := 0
	for _, r := range runes[:startCol] {
		if r == '\t' {
			pad += 4
			continue
		}
		pad += runewidth.RuneWidth(r)
	}

	width := 1
	if rng.End.Line == rng.Start.Line && rng.End.Col > rng.Start.Col {
		width = int(rng.End.Col-rng.Start.Col) + 1
	}

	marker := "^" + strings.Repeat("~", width-1)
	if colored {
		marker = markerColor.Sprint(marker)
	}
	return strings.Repeat(" ", pad) + marker
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

func displayPath(path string, fs *source.FileSet, mode PathMode) string {
	if path == "" {
		return "<virtual>"
	}
	if fs != nil {
		if file, ok := fs.GetByPath(path); ok {
			switch mode {
			case PathModeAbsolute:
				return file.FormatPath("absolute", "")
			case PathModeRelative:
				return file.FormatPath("relative", fs.BaseDir())
			case PathModeBasename:
				return file.FormatPath("basename", "")
			default:
				return file.FormatPath("auto", "")
			}
		}
	}
	return path
}
