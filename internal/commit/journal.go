// Package commit records committed placements as grouped, reversible actions.
package commit

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/propscatter/internal/scatter"
)

// DefaultLabel names groups committed without an explicit label.
const DefaultLabel = "Spawn Props"

// ErrEmptyCommit is returned when a commit carries no placements.
var ErrEmptyCommit = errors.New("commit has no placements")

// Instance is one spawned object.
type Instance struct {
	ID          string     `yaml:"id"`
	PrefabID    string     `yaml:"prefab,omitempty"`
	Position    [3]float32 `yaml:"position"`
	Orientation [4]float32 `yaml:"orientation"` // x, y, z, w
}

// Group is the set of instances created by one commit. Reverting a group
// removes all of its instances together.
type Group struct {
	ID        string     `yaml:"id"`
	Label     string     `yaml:"label"`
	Time      time.Time  `yaml:"time"`
	Instances []Instance `yaml:"instances"`
}

// Journal is an in-memory commit log. It is safe for concurrent use.
type Journal struct {
	mu     sync.Mutex
	groups []Group
	now    func() time.Time
}

// NewJournal creates an empty journal.
func NewJournal() *Journal {
	return &Journal{now: time.Now}
}

// Commit records placements as one group under DefaultLabel.
func (j *Journal) Commit(placements []scatter.Placement) error {
	return j.commit(DefaultLabel, placements)
}

// Labeled returns a committer that records its groups under label.
func (j *Journal) Labeled(label string) scatter.Committer {
	return labeled{j: j, label: label}
}

type labeled struct {
	j     *Journal
	label string
}

func (l labeled) Commit(placements []scatter.Placement) error {
	return l.j.commit(l.label, placements)
}

func (j *Journal) commit(label string, placements []scatter.Placement) error {
	if len(placements) == 0 {
		return ErrEmptyCommit
	}

	g := Group{
		ID:        uuid.NewString(),
		Label:     label,
		Instances: make([]Instance, len(placements)),
	}
	for i, p := range placements {
		q := p.Orientation
		g.Instances[i] = Instance{
			ID:          uuid.NewString(),
			PrefabID:    p.Sample.PrefabID,
			Position:    p.Position.Array(),
			Orientation: [4]float32{q.X, q.Y, q.Z, q.W},
		}
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	g.Time = j.now()
	j.groups = append(j.groups, g)
	return nil
}

// Len returns the number of groups.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.groups)
}

// Instances returns the total number of recorded instances.
func (j *Journal) Instances() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	n := 0
	for _, g := range j.groups {
		n += len(g.Instances)
	}
	return n
}

// Groups returns a copy of the recorded groups in commit order.
func (j *Journal) Groups() []Group {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]Group(nil), j.groups...)
}

// Last returns the most recent group, the one a revert would remove.
func (j *Journal) Last() (Group, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.groups) == 0 {
		return Group{}, false
	}
	return j.groups[len(j.groups)-1], true
}

type document struct {
	Groups []Group `yaml:"groups"`
}

// WriteYAML writes the journal as YAML.
func (j *Journal) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document{Groups: j.Groups()}); err != nil {
		return err
	}
	return enc.Close()
}

// SaveTo writes the journal to path, creating parent directories. The file
// is replaced atomically so an interrupted save keeps the previous journal.
func (j *Journal) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".journal-*.yaml")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name()) // No-op after a successful rename

	if err := j.WriteYAML(f); err != nil {
		f.Close()
		return fmt.Errorf("writing journal %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// LoadJournal reads the journal saved at path so new commits append to it.
// A missing file gives an empty journal.
func LoadJournal(path string) (*Journal, error) {
	j := NewJournal()
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return j, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	groups, err := ReadGroups(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	j.groups = groups
	return j, nil
}

// ReadGroups decodes groups written by WriteYAML. Empty input has no groups.
func ReadGroups(r io.Reader) ([]Group, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return doc.Groups, nil
}
