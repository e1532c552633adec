package shader

import (
	"errors"
	"testing"

	"shaderlint/internal/stage"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantStage stage.Stage
		wantCanon string
		wantBase  string
	}{
		{
			name:      "canonical vert extension",
			path:      "shader.vert",
			wantStage: stage.Vertex,
			wantCanon: "shader.vert",
			wantBase:  "shader",
		},
		{
			name:      "two-letter glsl suffix",
			path:      "foo.fs.glsl",
			wantStage: stage.Fragment,
			wantCanon: "foo.frag",
			wantBase:  "foo",
		},
		{
			name:      "single-letter sh form",
			path:      "foo.vsh",
			wantStage: stage.Vertex,
			wantCanon: "foo.vert",
			wantBase:  "foo",
		},
		{
			name:      "single-letter glsl suffix",
			path:      "blur.g.glsl",
			wantStage: stage.Geometry,
			wantCanon: "blur.geom",
			wantBase:  "blur",
		},
		{
			name:      "bare two-letter extension",
			path:      "skin.tc",
			wantStage: stage.TessControl,
			wantCanon: "skin.tesc",
			wantBase:  "skin",
		},
		{
			name:      "tessellation evaluation extension",
			path:      "skin.tese",
			wantStage: stage.TessEval,
			wantCanon: "skin.tese",
			wantBase:  "skin",
		},
		{
			name:      "compute glsl suffix",
			path:      "particles.cs.glsl",
			wantStage: stage.Compute,
			wantCanon: "particles.comp",
			wantBase:  "particles",
		},
		{
			name:      "fragment sh form",
			path:      "post.fsh",
			wantStage: stage.Fragment,
			wantCanon: "post.frag",
			wantBase:  "post",
		},
		{
			name:      "path with directories",
			path:      "assets/shaders/water.gs.glsl",
			wantStage: stage.Geometry,
			wantCanon: "water.geom",
			wantBase:  "water",
		},
		{
			name:      "dotted base keeps inner dots",
			path:      "terrain.v2.fs.glsl",
			wantStage: stage.Fragment,
			wantCanon: "terrain.v2.frag",
			wantBase:  "terrain.v2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.path)
			if err != nil {
				t.Fatalf("Classify(%q) error: %v", tt.path, err)
			}
			if got.Stage != tt.wantStage {
				t.Errorf("stage = %s, want %s", got.Stage.Name, tt.wantStage.Name)
			}
			if got.CanonicalName != tt.wantCanon {
				t.Errorf("canonical name = %q, want %q", got.CanonicalName, tt.wantCanon)
			}
			if got.Base != tt.wantBase {
				t.Errorf("base = %q, want %q", got.Base, tt.wantBase)
			}
			if got.Path != tt.path {
				t.Errorf("path = %q, want %q", got.Path, tt.path)
			}
		})
	}
}

func TestClassifyRejects(t *testing.T) {
	for _, path := range []string{
		"readme.txt",
		"shader.glsl", // no stage marker before .glsl
		"foo.csh",     // c is not a one-letter code
		"foo.VERT",    // matching is case-sensitive
		"vert",        // no separator
	} {
		t.Run(path, func(t *testing.T) {
			_, err := Classify(path)
			if !errors.Is(err, ErrUnrecognizedExtension) {
				t.Fatalf("Classify(%q) error = %v, want ErrUnrecognizedExtension", path, err)
			}
		})
	}
}

func TestClassifyEmptyPath(t *testing.T) {
	_, err := Classify("")
	if !errors.Is(err, ErrMissingFilePath) {
		t.Fatalf("Classify(\"\") error = %v, want ErrMissingFilePath", err)
	}
}

// The conventions overlap: "water.fs.glsl" satisfies both the two-letter
// glsl form and, were the suffixes loosened, the bare two-letter form. The
// first listed convention must win so the canonical name stays stable.
func TestClassifyPriorityOrder(t *testing.T) {
	got, err := Classify("water.fs.glsl")
	if err != nil {
		t.Fatal(err)
	}
	if got.CanonicalName != "water.frag" {
		t.Errorf("canonical name = %q, want %q (glsl-suffixed form must win)", got.CanonicalName, "water.frag")
	}

	// "fog.f.glsl" also matches convention 2's shape if single letters were
	// allowed there; convention 1 resolves it via the letter table.
	got, err = Classify("fog.f.glsl")
	if err != nil {
		t.Fatal(err)
	}
	if got.Stage != stage.Fragment {
		t.Errorf("stage = %s, want fragment", got.Stage.Name)
	}
}

func TestTokensRecord(t *testing.T) {
	tokens, err := Classify("glow.frag")
	if err != nil {
		t.Fatal(err)
	}
	rec := tokens.Record("void main() {}")
	if rec.CanonicalName != "glow.frag" {
		t.Errorf("record canonical name = %q", rec.CanonicalName)
	}
	if rec.Stage != stage.Fragment {
		t.Errorf("record stage = %s", rec.Stage.Name)
	}
	if rec.Path != "glow.frag" {
		t.Errorf("record path = %q", rec.Path)
	}
	if rec.Source != "void main() {}" {
		t.Errorf("record source = %q", rec.Source)
	}
}
