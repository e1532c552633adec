package shader

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"shaderlint/internal/stage"
)

var (
	// ErrUnrecognizedExtension indicates that a filename matches none of the
	// supported naming conventions. The file must not be submitted to the
	// validator.
	ErrUnrecognizedExtension = errors.New("unrecognized shader extension")
	// ErrMissingFilePath indicates that the caller could not supply a path.
	ErrMissingFilePath = errors.New("missing shader file path")
)

// Tokens is the result of classifying a shader filename. It is consumed
// immediately to build a Record and is not kept around.
type Tokens struct {
	Base          string // filename stem before the stage marker
	Dir           string
	Stage         stage.Stage
	CanonicalName string // Base + "." + Stage.Ext, the name the validator sees
	Path          string // original path as given
}

type convention struct {
	pattern *regexp.Regexp
	resolve func(string) (stage.Stage, bool)
}

// The five naming conventions, tried in this fixed order until one matches.
// They are not mutually exclusive, so the order is a deliberate tie-break:
// the `.glsl`-suffixed forms win over the bare-extension forms.
var conventions = []convention{
	{regexp.MustCompile(`^(.*)\.([vgf])\.glsl$`), stage.ByLetter},
	{regexp.MustCompile(`^(.*)\.(vs|tc|te|gs|fs|cs)\.glsl$`), stage.ByShort},
	{regexp.MustCompile(`^(.*)\.([vgf])sh$`), stage.ByLetter},
	{regexp.MustCompile(`^(.*)\.(vs|tc|te|gs|fs|cs)$`), stage.ByShort},
	{regexp.MustCompile(`^(.*)\.(vert|frag|geom|tesc|tese|comp)$`), stage.ByExt},
}

// Classify determines the pipeline stage implied by a shader filename and
// derives the canonical single-file name the validator expects. Matching is
// case-sensitive and purely a function of the input string.
func Classify(path string) (Tokens, error) {
	if path == "" {
		return Tokens{}, ErrMissingFilePath
	}
	name := filepath.Base(path)
	for _, c := range conventions {
		m := c.pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		st, ok := c.resolve(m[2])
		if !ok {
			continue
		}
		// Exactly one dot separates the base from the canonical extension.
		base := strings.TrimRight(m[1], ".")
		return Tokens{
			Base:          base,
			Dir:           filepath.Dir(path),
			Stage:         st,
			CanonicalName: base + "." + st.Ext,
			Path:          path,
		}, nil
	}
	return Tokens{}, fmt.Errorf("%w: %q", ErrUnrecognizedExtension, name)
}
