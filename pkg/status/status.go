// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus represents the outcome for one migrated file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusCreated              // Output file did not exist before
	StatusModified             // Output exists and content changed
	StatusUnchanged            // Output exists and content matches
	StatusFailed               // Migration or I/O failed
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 FileInfo contains metadata about a migrated file
type FileInfo struct {
	Path     string     // Input path
	Output   string     // Output path
	Status   FileStatus // Outcome
	Rewrites int        // Number of rewritten sites
	Checksum string     // Hash of the written content
	Error    error      // Any error associated with this file
}

// 💾 FileManager handles file system access for a run
type FileManager interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, content []byte) error
	FileExists(ctx context.Context, path string) (bool, error)
}

// 📈 StatusReporter tracks file outcomes and reports progress
type StatusReporter interface {
	TrackFile(ctx context.Context, info FileInfo)
	ListFiles(ctx context.Context) []FileInfo

	StartOperation(ctx context.Context, total int)
	UpdateProgress(ctx context.Context, processed int)
	FinishOperation(ctx context.Context)
}

// 🔧 Manager implements both FileManager and StatusReporter
type Manager struct {
	baseDir   string        // Base directory for relative paths
	formatter FileFormatter // Formatter for status messages

	mu    sync.RWMutex
	files map[string]FileInfo

	total     int
	processed int
}

var (
	_ FileManager    = (*Manager)(nil)
	_ StatusReporter = (*Manager)(nil)
)

// 🏭 New creates a new status manager. Relative paths resolve against baseDir.
func New(baseDir string, formatter FileFormatter) *Manager {
	if formatter == nil {
		formatter = NewDefaultFileFormatter()
	}
	return &Manager{
		baseDir:   filepath.Clean(baseDir),
		formatter: formatter,
		files:     make(map[string]FileInfo),
	}
}

// 🔒 getAbsPath resolves path against the base directory
func (m *Manager) getAbsPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.baseDir, path)
}

// 🔍 Checksum generates a SHA-256 hash of the content
func Checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// FileManager interface implementation

func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(m.getAbsPath(path))
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

// WriteFile writes content in place, creating parent directories. An existing file
// keeps its permissions.
func (m *Manager) WriteFile(ctx context.Context, path string, content []byte) error {
	absPath := m.getAbsPath(path)

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	mode := os.FileMode(0644)
	if fi, err := os.Stat(absPath); err == nil {
		mode = fi.Mode().Perm()
	}

	if err := os.WriteFile(absPath, content, mode); err != nil {
		return errors.Errorf("writing file: %w", err)
	}
	return nil
}

func (m *Manager) FileExists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(m.getAbsPath(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("checking file existence: %w", err)
}

// StatusReporter interface implementation

func (m *Manager) TrackFile(ctx context.Context, info FileInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[info.Path] = info
	msg := m.formatter.FormatFileOperation(info)
	if info.Error != nil {
		msg = m.formatter.FormatError(info.Error)
	}
	zerolog.Ctx(ctx).Debug().Str("path", info.Path).Stringer("status", info.Status).Msg(msg)
}

// ListFiles returns every tracked file sorted by path
func (m *Manager) ListFiles(ctx context.Context) []FileInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]FileInfo, 0, len(m.files))
	for _, info := range m.files {
		files = append(files, info)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	zerolog.Ctx(ctx).Debug().Int("total", total).Msg(m.formatter.FormatProgress(0, total))
}

func (m *Manager) UpdateProgress(ctx context.Context, processed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed = processed
	zerolog.Ctx(ctx).Debug().
		Int("processed", processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(processed, m.total))
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	zerolog.Ctx(ctx).Debug().
		Int("processed", m.processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(m.total, m.total))
}

// Progress returns the processed and total counts
func (m *Manager) Progress() (int, int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.processed, m.total
}
