package diag

import (
	"testing"
)

func TestFormatShortDiagnostics(t *testing.T) {
	diags := []*Diagnostic{
		New(SevWarning, ValCompile, "shaders/b.frag", Point(2, 0), "unused variable"),
		New(SevError, ValCompile, "shaders/a.vert", Point(4, 2), "undefined variable 'x'"),
		New(SevError, ValLink, "shaders/a.vert", Point(0, 0), "too many\nvaryings"),
	}

	got := FormatShortDiagnostics(diags)
	want := "error VAL2002 shaders/a.vert:1:1 too many varyings\n" +
		"error VAL2001 shaders/a.vert:5:3 undefined variable 'x'\n" +
		"warning VAL2001 shaders/b.frag:3:1 unused variable"
	if got != want {
		t.Errorf("short output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatShortDiagnosticsEmpty(t *testing.T) {
	if got := FormatShortDiagnostics(nil); got != "" {
		t.Errorf("empty input produced %q", got)
	}
}

func TestFormatShortDiagnosticsStable(t *testing.T) {
	diags := []*Diagnostic{
		New(SevError, ValCompile, "a.vert", Point(1, 1), "m"),
		New(SevWarning, ValCompile, "a.vert", Point(1, 1), "m"),
	}
	first := FormatShortDiagnostics(diags)
	second := FormatShortDiagnostics(diags)
	if first != second {
		t.Error("formatting is not idempotent")
	}
}
