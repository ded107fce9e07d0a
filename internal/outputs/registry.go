// Package outputs tracks which posters were already generated so identical
// requests can skip all work and point at the existing file.
package outputs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Params are the request fields that affect the visual result. Nothing else
// may enter the key: casing and incidental whitespace are normalized away so
// "Rome"/"rome " resolve to the same poster.
type Params struct {
	City     string
	Country  string
	Theme    string
	Distance int
	Size     string
	DPI      int
	Format   string
}

// Record is one ledger entry. Records are written once per successful render
// and never mutated; a later identical request short-circuits before the
// write path.
type Record struct {
	Path        string `json:"path"`
	GeneratedAt string `json:"generated_at"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Theme       string `json:"theme"`
	DistanceM   int    `json:"distance_m"`
	Size        string `json:"size"`
	DPI         int    `json:"dpi"`
	Format      string `json:"format"`
}

// Registry persists the key → record mapping as one human-readable JSON
// file. Single writer assumed; concurrent runs race on the whole file.
type Registry struct {
	path string
	log  *zap.Logger
	now  func() time.Time
}

func NewRegistry(path string, log *zap.Logger) *Registry {
	return &Registry{path: path, log: log, now: time.Now}
}

// Key derives the deterministic output key for the normalized parameters.
func Key(p Params) string {
	keyStr := fmt.Sprintf("%s|%s|%s|%d|%s|%d|%s",
		norm(p.City), norm(p.Country), norm(p.Theme),
		p.Distance, norm(p.Size), p.DPI, norm(p.Format))
	sum := sha256.Sum256([]byte(keyStr))
	return hex.EncodeToString(sum[:])[:16]
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Lookup returns the record for these parameters, or ok=false. A missing or
// corrupt ledger reads as empty, never as an error.
func (r *Registry) Lookup(p Params) (Record, bool) {
	index := r.load()
	rec, ok := index[Key(p)]
	return rec, ok
}

// Record inserts (or overwrites) the entry for these parameters with a fresh
// timestamp and persists the whole ledger. Persist failures are logged and
// swallowed; the poster on disk is the thing that matters.
func (r *Registry) Record(p Params, path string) Record {
	index := r.load()

	rec := Record{
		Path:        path,
		GeneratedAt: r.now().Format(time.RFC3339),
		City:        p.City,
		Country:     p.Country,
		Theme:       p.Theme,
		DistanceM:   p.Distance,
		Size:        p.Size,
		DPI:         p.DPI,
		Format:      p.Format,
	}
	index[Key(p)] = rec

	if err := r.save(index); err != nil {
		r.log.Warn("failed to save output registry", zap.String("path", r.path), zap.Error(err))
	}
	return rec
}

func (r *Registry) load() map[string]Record {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.log.Warn("output registry unreadable, starting fresh", zap.String("path", r.path), zap.Error(err))
		}
		return map[string]Record{}
	}

	var index map[string]Record
	if err := json.Unmarshal(data, &index); err != nil {
		r.log.Warn("output registry corrupted, starting fresh", zap.String("path", r.path), zap.Error(err))
		return map[string]Record{}
	}
	if index == nil {
		return map[string]Record{}
	}
	return index
}

// save rewrites the ledger atomically: encode to a temp file in the same
// directory, then rename over the old one. A crash mid-write can lose the
// newest entry but never truncates the file.
func (r *Registry) save(index map[string]Record) error {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, "registry-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
