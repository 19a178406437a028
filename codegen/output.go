package codegen

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeebo/xxh3"
)

// pendingWrite is one buffered output file.
type pendingWrite struct {
	name    string
	content []byte
}

// OutputWriter buffers generated files in memory and flushes them to disk,
// skipping targets whose existing content hashes identically. Re-running
// the emitter over unchanged input therefore performs no writes, keeping
// incremental rebuilds stable.
type OutputWriter struct {
	pending []pendingWrite
	written int
	skipped int
}

// Add buffers content under the given file name.
func (w *OutputWriter) Add(name string, content []byte) {
	w.pending = append(w.pending, pendingWrite{name: name, content: content})
}

// Written returns how many files the last Flush actually wrote.
func (w *OutputWriter) Written() int { return w.written }

// Skipped returns how many files the last Flush left untouched.
func (w *OutputWriter) Skipped() int { return w.skipped }

// Flush writes all pending files into outDir. A file is skipped when one
// already exists with the same size and the same 128-bit content hash.
func (w *OutputWriter) Flush(outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	w.written = 0
	w.skipped = 0
	for _, p := range w.pending {
		path := filepath.Join(outDir, p.name)
		logcg.Trace("flush: %s", path)

		if existing, err := os.ReadFile(path); err == nil &&
			len(existing) == len(p.content) &&
			xxh3.Hash128(existing) == xxh3.Hash128(p.content) {
			w.skipped++
			continue
		}

		if err := os.WriteFile(path, p.content, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		logcg.Trace("wrote %d bytes to %s", len(p.content), path)
		w.written++
	}

	w.pending = w.pending[:0]
	return nil
}
