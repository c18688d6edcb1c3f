// Package vectorstore is a small on-disk embedding index with an ingest
// manifest. The index lives in index.json, the manifest in manifest.json next
// to it; the manifest lets re-runs skip files whose content has not changed.
package vectorstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cloudwego/eino/components/embedding"
)

const (
	indexFile    = "index.json"
	manifestFile = "manifest.json"
)

// Record is one embedded chunk.
type Record struct {
	Source  string    `json:"source"`
	Chunk   int       `json:"chunk"`
	Content string    `json:"content"`
	Vector  []float64 `json:"vector"`
}

// FileState is the manifest entry for one ingested source file.
type FileState struct {
	SHA256     string    `json:"sha256"`
	Size       int64     `json:"size"`
	ModTime    time.Time `json:"mod_time"`
	ChunkCount int       `json:"chunk_count"`
	IngestedAt time.Time `json:"ingested_at"`
}

// Hit is one search result.
type Hit struct {
	Record
	Score float64 `json:"score"`
}

// Store holds the full index in memory between Open and Save.
type Store struct {
	dir      string
	embedder embedding.Embedder
	records  []Record
	manifest map[string]FileState
}

// Open loads an existing store from dir or starts an empty one.
func Open(dir string, embedder embedding.Embedder) (*Store, error) {
	s := &Store{
		dir:      dir,
		embedder: embedder,
		manifest: make(map[string]FileState),
	}
	if err := loadJSON(filepath.Join(dir, indexFile), &s.records); err != nil {
		return nil, err
	}
	if err := loadJSON(filepath.Join(dir, manifestFile), &s.manifest); err != nil {
		return nil, err
	}
	return s, nil
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// HashFile returns the hex SHA-256 of the file's bytes.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// NeedsUpdate reports whether the file at path must be re-embedded, together
// with its current content hash.
func (s *Store) NeedsUpdate(path string) (bool, string, error) {
	hash, err := HashFile(path)
	if err != nil {
		return false, "", err
	}
	state, ok := s.manifest[filepath.Base(path)]
	if ok && state.SHA256 == hash {
		return false, hash, nil
	}
	return true, hash, nil
}

// Put embeds chunks for one source file and replaces any previous records for
// it. hash must be the value NeedsUpdate returned.
func (s *Store) Put(ctx context.Context, path string, hash string, chunks []string) error {
	if len(chunks) == 0 {
		return fmt.Errorf("put %s: no chunks", path)
	}
	vectors, err := s.embedder.EmbedStrings(ctx, chunks)
	if err != nil {
		return fmt.Errorf("embed %s: %w", path, err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embed %s: got %d vectors for %d chunks", path, len(vectors), len(chunks))
	}

	source := filepath.Base(path)
	s.dropSource(source)
	for i, chunk := range chunks {
		s.records = append(s.records, Record{
			Source:  source,
			Chunk:   i,
			Content: chunk,
			Vector:  vectors[i],
		})
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	s.manifest[source] = FileState{
		SHA256:     hash,
		Size:       info.Size(),
		ModTime:    info.ModTime(),
		ChunkCount: len(chunks),
		IngestedAt: time.Now(),
	}
	return nil
}

// Prune drops records and manifest entries whose source file is no longer
// present. alive holds base names of files seen this run. It returns the
// pruned source names.
func (s *Store) Prune(alive map[string]bool) []string {
	var removed []string
	for source := range s.manifest {
		if !alive[source] {
			s.dropSource(source)
			delete(s.manifest, source)
			removed = append(removed, source)
		}
	}
	sort.Strings(removed)
	return removed
}

func (s *Store) dropSource(source string) {
	kept := s.records[:0]
	for _, r := range s.records {
		if r.Source != source {
			kept = append(kept, r)
		}
	}
	s.records = kept
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	return len(s.records)
}

// Save writes index and manifest atomically via temp-file rename.
func (s *Store) Save() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	if err := saveJSON(filepath.Join(s.dir, indexFile), s.records); err != nil {
		return err
	}
	return saveJSON(filepath.Join(s.dir, manifestFile), s.manifest)
}

func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

// Search embeds the query and returns the topK records by cosine similarity.
func (s *Store) Search(ctx context.Context, query string, topK int) ([]Hit, error) {
	if topK <= 0 {
		topK = 5
	}
	vectors, err := s.embedder.EmbedStrings(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	qv := vectors[0]

	hits := make([]Hit, 0, len(s.records))
	for _, r := range s.records {
		hits = append(hits, Hit{Record: r, Score: cosine(qv, r.Vector)})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
