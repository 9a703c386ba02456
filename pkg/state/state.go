package state

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/ctxmigrate/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// State records the outputs written by earlier migrations, so a later run can tell a
// migrated file from one edited by hand since
type State struct {
	LastUpdated time.Time `json:"last_updated"`

	// ConfigHash is the hash of the configuration the files were migrated with
	ConfigHash string `json:"config_hash"`

	// Files tracks every output written, sorted by output path
	Files []MigratedFile `json:"files"`

	path string
	mu   sync.Mutex
}

// MigratedFile is one output written by a migration
type MigratedFile struct {
	Input       string    `json:"input"`
	Output      string    `json:"output"`
	Profile     string    `json:"profile"`
	Rewrites    int       `json:"rewrites"`
	Checksum    string    `json:"checksum"` // of the written content
	LastUpdated time.Time `json:"last_updated"`
}

// Load reads the state file at path. A missing file, or one written with another config
// hash, gives an empty state that Save will write to path.
func Load(ctx context.Context, path, configHash string) (*State, error) {
	logger := zerolog.Ctx(ctx).With().Str("state", path).Logger()
	s := &State{ConfigHash: configHash, path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Debug().Msg("no state file, starting fresh")
		return s, nil
	}
	if err != nil {
		return nil, errors.Errorf("reading state file: %w", err)
	}

	var loaded State
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, errors.Errorf("parsing state file: %w", err)
	}
	if loaded.ConfigHash != configHash {
		logger.Debug().Str("recorded", loaded.ConfigHash).Msg("config changed, discarding recorded files")
		return s, nil
	}

	s.LastUpdated = loaded.LastUpdated
	s.Files = loaded.Files
	return s, nil
}

// Path returns where Save writes the state
func (s *State) Path() string {
	return s.path
}

// Record adds or replaces the entry for f.Output
func (s *State) Record(ctx context.Context, f MigratedFile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f.LastUpdated.IsZero() {
		f.LastUpdated = time.Now().UTC()
	}
	s.LastUpdated = f.LastUpdated

	for i := range s.Files {
		if s.Files[i].Output == f.Output {
			s.Files[i] = f
			return
		}
	}
	s.Files = append(s.Files, f)
	sort.Slice(s.Files, func(i, j int) bool { return s.Files[i].Output < s.Files[j].Output })

	zerolog.Ctx(ctx).Debug().Str("output", f.Output).Str("profile", f.Profile).Msg("recorded migration")
}

// Len returns the number of recorded outputs
func (s *State) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Files)
}

// Lookup returns the entry for an output path
func (s *State) Lookup(output string) (MigratedFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.Files {
		if f.Output == output {
			return f, true
		}
	}
	return MigratedFile{}, false
}

// Drifted returns the recorded outputs whose current content no longer matches what was
// written. Outputs that no longer exist count as drifted.
func (s *State) Drifted(ctx context.Context, files status.FileManager) ([]string, error) {
	s.mu.Lock()
	recorded := append([]MigratedFile(nil), s.Files...)
	s.mu.Unlock()

	var drifted []string
	for _, f := range recorded {
		exists, err := files.FileExists(ctx, f.Output)
		if err != nil {
			return nil, errors.Errorf("checking %s: %w", f.Output, err)
		}
		if !exists {
			drifted = append(drifted, f.Output)
			continue
		}
		content, err := files.ReadFile(ctx, f.Output)
		if err != nil {
			return nil, errors.Errorf("reading %s: %w", f.Output, err)
		}
		if status.Checksum(content) != f.Checksum {
			drifted = append(drifted, f.Output)
		}
	}
	return drifted, nil
}

// Save writes the state file as indented JSON
func (s *State) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s, "", "\t")
	if err != nil {
		return errors.Errorf("encoding state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Errorf("creating state directory: %w", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0644); err != nil {
		return errors.Errorf("writing state file: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("state", s.path).Int("files", len(s.Files)).Msg("saved state")
	return nil
}
