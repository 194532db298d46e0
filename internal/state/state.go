package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// FileState represents one file written by a sync run
type FileState struct {
	ArticleID string `json:"article_id"`
	Title     string `json:"title"`
	Hash      string `json:"hash"`
	Size      int    `json:"size"`
}

// Manifest records what the last sync run wrote
type Manifest struct {
	RunID      string                `json:"run_id"`
	StartedAt  time.Time             `json:"started_at"`
	FinishedAt time.Time             `json:"finished_at"`
	Source     string                `json:"source"`
	OutputDir  string                `json:"output_dir"`
	Files      map[string]*FileState `json:"files"` // filename -> state
}

// Changes summarizes how a run's output differs from the previous run
type Changes struct {
	Created   []string
	Updated   []string
	Unchanged []string
	Removed   []string
}

// NewManifest creates a new empty manifest
func NewManifest(runID string) *Manifest {
	return &Manifest{
		RunID: runID,
		Files: make(map[string]*FileState),
	}
}

// Load reads the manifest from path; a missing file yields an empty manifest
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewManifest(""), nil
		}
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if m.Files == nil {
		m.Files = make(map[string]*FileState)
	}

	return &m, nil
}

// Save writes the manifest to path
func (m *Manifest) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// ComputeHash computes the SHA256 hash of content
func ComputeHash(content []byte) string {
	return fmt.Sprintf("sha256:%x", sha256.Sum256(content))
}

// Record stores the state of a written file
func (m *Manifest) Record(filename, articleID, title string, content []byte) {
	m.Files[filename] = &FileState{
		ArticleID: articleID,
		Title:     title,
		Hash:      ComputeHash(content),
		Size:      len(content),
	}
}

// Has reports whether filename was recorded
func (m *Manifest) Has(filename string) bool {
	_, ok := m.Files[filename]
	return ok
}

// Filenames returns the recorded file names sorted
func (m *Manifest) Filenames() []string {
	names := make([]string, 0, len(m.Files))
	for name := range m.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compare reports the differences between prev and m
func (m *Manifest) Compare(prev *Manifest) Changes {
	var c Changes
	for _, name := range m.Filenames() {
		old, ok := prev.Files[name]
		switch {
		case !ok:
			c.Created = append(c.Created, name)
		case old.Hash != m.Files[name].Hash:
			c.Updated = append(c.Updated, name)
		default:
			c.Unchanged = append(c.Unchanged, name)
		}
	}
	for _, name := range prev.Filenames() {
		if !m.Has(name) {
			c.Removed = append(c.Removed, name)
		}
	}
	return c
}

// String returns a short summary of the changes
func (c Changes) String() string {
	return fmt.Sprintf("%d created, %d updated, %d unchanged, %d removed",
		len(c.Created), len(c.Updated), len(c.Unchanged), len(c.Removed))
}
