package stage

// Stage describes one stage of the GPU pipeline as glslangValidator knows it.
// The set is closed: the six values below exist for the lifetime of the
// process and are never created at runtime.
type Stage struct {
	// Letter is the optional one-letter code used by the `.v.glsl` and
	// `.vsh` naming conventions. Empty for stages that have none.
	Letter string
	// Short is the two-letter code used by the `.vs.glsl` and bare `.vs`
	// conventions.
	Short string
	// Ext is the canonical extension the validator expects on input files.
	Ext string
	// Name is the human-readable stage name, exactly as it appears in the
	// validator's "Linking <name> stage:" output lines.
	Name string
}

var (
	Vertex      = Stage{Letter: "v", Short: "vs", Ext: "vert", Name: "vertex"}
	TessControl = Stage{Short: "tc", Ext: "tesc", Name: "tessellation control"}
	TessEval    = Stage{Short: "te", Ext: "tese", Name: "tessellation evaluation"}
	Geometry    = Stage{Letter: "g", Short: "gs", Ext: "geom", Name: "geometry"}
	Fragment    = Stage{Letter: "f", Short: "fs", Ext: "frag", Name: "fragment"}
	Compute     = Stage{Short: "cs", Ext: "comp", Name: "compute"}
)

// All lists the built-in stages in pipeline order.
var All = []Stage{Vertex, TessControl, TessEval, Geometry, Fragment, Compute}

var (
	byLetter = make(map[string]Stage, len(All))
	byShort  = make(map[string]Stage, len(All))
	byExt    = make(map[string]Stage, len(All))
)

func init() {
	for _, st := range All {
		if st.Letter != "" {
			byLetter[st.Letter] = st
		}
		byShort[st.Short] = st
		byExt[st.Ext] = st
	}
}

// ByLetter resolves a one-letter code (v, g, f).
func ByLetter(code string) (Stage, bool) {
	st, ok := byLetter[code]
	return st, ok
}

// ByShort resolves a two-letter code (vs, tc, te, gs, fs, cs).
func ByShort(code string) (Stage, bool) {
	st, ok := byShort[code]
	return st, ok
}

// ByExt resolves a canonical extension (vert, frag, geom, tesc, tese, comp).
func ByExt(code string) (Stage, bool) {
	st, ok := byExt[code]
	return st, ok
}
