package main

import "testing"

func TestResolveMaxDiagnostics(t *testing.T) {
	tests := []struct {
		name        string
		flagValue   int
		flagChanged bool
		cfgValue    int
		want        int
	}{
		{"default flag, no manifest", 100, false, 0, 100},
		{"default flag, manifest wins", 100, false, 25, 25},
		{"explicit flag beats manifest", 50, true, 25, 50},
		{"explicit flag restating the default beats manifest", 100, true, 25, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveMaxDiagnostics(tt.flagValue, tt.flagChanged, tt.cfgValue); got != tt.want {
				t.Errorf("resolveMaxDiagnostics(%d, %v, %d) = %d, want %d",
					tt.flagValue, tt.flagChanged, tt.cfgValue, got, tt.want)
			}
		})
	}
}
