package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"shaderlint/internal/diag"
	"shaderlint/internal/source"
)

// Increment when the cachePayload format changes.
const cacheSchemaVersion uint16 = 1

// DiskCache stores validator results keyed by content and validator
// identity, so unchanged shaders skip the validator entirely.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// cachedDiagnostic is one finding in flattened form. The file path is not
// cached: entries are content-addressed and the current path is reattached
// on load.
type cachedDiagnostic struct {
	Severity  uint8
	Code      uint16
	Message   string
	StartLine uint32
	StartCol  uint32
	EndLine   uint32
	EndCol    uint32
}

type cachePayload struct {
	Schema      uint16
	Diagnostics []cachedDiagnostic
}

// OpenDiskCache initializes and returns a disk cache at the standard
// location ($XDG_CACHE_HOME/shaderlint or ~/.cache/shaderlint).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt opens a cache rooted at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// cacheKey mixes the shader content hash with the validator identity, so a
// validator upgrade or different flags invalidate old entries.
func cacheKey(contentHash source.Digest, validatorPath string, args []string) source.Digest {
	h := sha256.New()
	h.Write(contentHash[:])
	_, _ = io.WriteString(h, validatorPath)
	for _, a := range args {
		_, _ = io.WriteString(h, "\x00"+a)
	}
	var key source.Digest
	copy(key[:], h.Sum(nil))
	return key
}

func (c *DiskCache) pathFor(key source.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "lint", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache via an atomic
// rename.
func (c *DiskCache) put(key source.Digest, payload *cachePayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// get reads a payload from the disk cache. A missing entry or schema
// mismatch is a miss, not an error.
func (c *DiskCache) get(key source.Digest) (*cachePayload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer func() {
		_ = f.Close()
	}()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != cacheSchemaVersion {
		return nil, false, nil
	}
	return &payload, true, nil
}

// DropAll invalidates the cache, useful after a validator upgrade.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// Store flattens the diagnostics of one lint and writes them under the
// given key. Cache write failures are swallowed: a broken cache must never
// fail a lint.
func (c *DiskCache) Store(key source.Digest, diagnostics []*diag.Diagnostic) {
	if c == nil {
		return
	}
	payload := &cachePayload{
		Schema:      cacheSchemaVersion,
		Diagnostics: make([]cachedDiagnostic, 0, len(diagnostics)),
	}
	for _, d := range diagnostics {
		payload.Diagnostics = append(payload.Diagnostics, cachedDiagnostic{
			Severity:  uint8(d.Severity),
			Code:      uint16(d.Code),
			Message:   d.Message,
			StartLine: d.Range.Start.Line,
			StartCol:  d.Range.Start.Col,
			EndLine:   d.Range.End.Line,
			EndCol:    d.Range.End.Col,
		})
	}
	_ = c.put(key, payload)
}

// Lookup returns the cached diagnostics for a key with the given file path
// reattached. Read failures degrade to a miss.
func (c *DiskCache) Lookup(key source.Digest, file string) ([]*diag.Diagnostic, bool) {
	payload, ok, err := c.get(key)
	if err != nil || !ok {
		return nil, false
	}
	out := make([]*diag.Diagnostic, 0, len(payload.Diagnostics))
	for _, cd := range payload.Diagnostics {
		out = append(out, &diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			File:     file,
			Range: diag.Range{
				Start: diag.Position{Line: cd.StartLine, Col: cd.StartCol},
				End:   diag.Position{Line: cd.EndLine, Col: cd.EndCol},
			},
		})
	}
	return out, true
}
