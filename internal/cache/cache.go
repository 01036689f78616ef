// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache persists fetched and ranked papers between runs as keyed
// JSON blobs, validated by a fingerprint of the fetch-affecting
// configuration and a 24-hour TTL. Cache anomalies (missing, stale, or
// corrupt files) are absorbed as misses, never surfaced as errors.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

// Kind identifies one of the independently stored cache blobs.
type Kind string

const (
	// KindPapers is the raw fetched candidate list, pre-scoring.
	KindPapers Kind = "papers"

	// KindReference is the reference corpus used to fit the similarity model.
	KindReference Kind = "reference_papers"

	// KindFiltered is the post-pipeline ranked list, with scores and match
	// reasons. It serves the render-only fast path; callers changing
	// filter/display settings must re-rank from KindPapers instead.
	KindFiltered Kind = "filtered_papers"
)

// Kinds lists all cache kinds.
var Kinds = []Kind{KindPapers, KindReference, KindFiltered}

// TTL is the maximum age of a valid cache entry.
const TTL = 24 * time.Hour

const metadataFile = "cache_metadata.json"

// Metadata records what the cached blobs were built from and when.
type Metadata struct {
	Fingerprint string         `json:"fingerprint"`
	CreatedAt   time.Time      `json:"created_at"`
	PaperCounts map[string]int `json:"paper_counts"`
}

// Store manages the on-disk cache directory. Single-process use is assumed;
// concurrent invocations racing on the same directory are undefended.
type Store struct {
	dir string

	// now is stubbed in tests to age entries past the TTL.
	now func() time.Time
}

// NewStore opens (creating if needed) the cache directory.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

func (s *Store) path(kind Kind) string {
	return filepath.Join(s.dir, string(kind)+".json")
}

// IsValid reports whether the cache was built from the same fetch-affecting
// configuration and is younger than the TTL.
func (s *Store) IsValid(cfg types.ScoringConfig) bool {
	meta, err := s.readMetadata()
	if err != nil || meta.Fingerprint == "" || meta.CreatedAt.IsZero() {
		return false
	}
	if meta.Fingerprint != Fingerprint(cfg) {
		return false
	}
	return s.now().Sub(meta.CreatedAt) <= TTL
}

// Load returns the papers stored under kind, or ok=false on a miss. A
// missing file, malformed content, or failed validity check are all misses.
func (s *Store) Load(kind Kind, cfg types.ScoringConfig) ([]types.Paper, bool) {
	if !s.IsValid(cfg) {
		return nil, false
	}
	data, err := os.ReadFile(s.path(kind))
	if err != nil {
		return nil, false
	}
	var papers []types.Paper
	if err := json.Unmarshal(data, &papers); err != nil {
		return nil, false
	}
	return papers, true
}

// Save writes the papers under kind and refreshes the metadata with the
// current fingerprint and timestamp. Writes go through a temp file and
// rename, so a partial write never leaves a readable-but-corrupt blob.
func (s *Store) Save(kind Kind, papers []types.Paper, cfg types.ScoringConfig) error {
	data, err := json.MarshalIndent(papers, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s cache: %w", kind, err)
	}
	if err := s.writeAtomic(s.path(kind), data); err != nil {
		return fmt.Errorf("writing %s cache: %w", kind, err)
	}

	meta, err := s.readMetadata()
	if err != nil || meta.PaperCounts == nil {
		meta = Metadata{PaperCounts: make(map[string]int)}
	}
	meta.Fingerprint = Fingerprint(cfg)
	meta.CreatedAt = s.now().UTC()
	meta.PaperCounts[string(kind)] = len(papers)

	metaData, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache metadata: %w", err)
	}
	if err := s.writeAtomic(filepath.Join(s.dir, metadataFile), metaData); err != nil {
		return fmt.Errorf("writing cache metadata: %w", err)
	}
	return nil
}

// Clear removes all cache blobs and the metadata unconditionally.
func (s *Store) Clear() error {
	names := []string{metadataFile}
	for _, kind := range Kinds {
		names = append(names, string(kind)+".json")
	}
	for _, name := range names {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", name, err)
		}
	}
	return nil
}

// Info describes the cache state for read-only inspection.
type Info struct {
	// Valid reports whether the metadata is present and inside the TTL.
	// It says nothing about fingerprint agreement with any configuration.
	Valid bool `json:"valid"`

	Metadata Metadata `json:"metadata"`

	// Sizes maps each present kind to its file size in bytes.
	Sizes map[Kind]int64 `json:"sizes"`
}

// Info reports the cache state without mutating anything.
func (s *Store) Info() Info {
	info := Info{Sizes: make(map[Kind]int64)}
	meta, err := s.readMetadata()
	if err == nil {
		info.Metadata = meta
		info.Valid = !meta.CreatedAt.IsZero() && s.now().Sub(meta.CreatedAt) <= TTL
	}
	for _, kind := range Kinds {
		if fi, err := os.Stat(s.path(kind)); err == nil {
			info.Sizes[kind] = fi.Size()
		}
	}
	return info
}

func (s *Store) readMetadata() (Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, metadataFile))
	if err != nil {
		return Metadata{}, err
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, err
	}
	return meta, nil
}

// writeAtomic writes data to path via a temp file in the same directory
// followed by a rename.
func (s *Store) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
