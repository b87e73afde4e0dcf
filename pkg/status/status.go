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
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus represents what a run did to the target
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusUnchanged            // Content was rewritten byte-identical or left alone
	StatusModified             // At least one rule matched
	StatusPreview              // Dry run, nothing written
	StatusFailed               // The run aborted
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusModified:
		return "modified"
	case StatusPreview:
		return "preview"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 FileInfo contains metadata about the target
type FileInfo struct {
	Path         string      // Path as given
	Status       FileStatus  // Outcome of the run
	Size         int64       // Size in bytes
	Mode         fs.FileMode // Permissions, reused on write
	Checksum     string      // SHA-256 of the content
	Replacements int         // Number of replacements made
}

// 💾 FileManager handles whole-file reads and writes
type FileManager interface {
	ReadFile(ctx context.Context, path string) ([]byte, FileInfo, error)
	WriteFileAtomic(ctx context.Context, path string, content []byte, mode fs.FileMode) error
}

// 🔧 Manager implements FileManager on the local file system
type Manager struct{}

var _ FileManager = (*Manager)(nil)

// 🏭 New creates a new file manager
func New() *Manager {
	return &Manager{}
}

// 🔍 Checksum generates a SHA-256 hash of the content
func Checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// ReadFile reads the whole file. The handle is closed before returning.
func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, FileInfo, error) {
	info := FileInfo{Path: path}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, info, errors.Errorf("stat %s: %w", path, err)
	}
	if stat.IsDir() {
		return nil, info, errors.Errorf("%s: %w", path, errIsDir)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, info, errors.Errorf("reading file: %w", err)
	}

	info.Size = int64(len(content))
	info.Mode = stat.Mode().Perm()
	info.Checksum = Checksum(content)

	zerolog.Ctx(ctx).Debug().Str("path", path).Int64("size", info.Size).Str("checksum", info.Checksum).Msg("read file")
	return content, info, nil
}

// WriteFileAtomic replaces the file content in a single rename. A symlink is
// followed so the link stays in place and the file it points to gets the content.
func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte, mode fs.FileMode) error {
	realPath, err := resolvePath(path)
	if err != nil {
		return err
	}

	// The rename only needs a writable directory, so check the file itself
	if err := checkWritable(realPath); err != nil {
		return err
	}

	dir, base := filepath.Split(realPath)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	// Clean up the temp file on every failure path
	ok := false
	defer func() {
		if !ok {
			_ = tmp.Close()
			_ = os.Remove(tempPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return errors.Errorf("setting file mode: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return errors.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, realPath); err != nil {
		return errors.Errorf("renaming temp file: %w", err)
	}
	ok = true

	zerolog.Ctx(ctx).Debug().Str("path", path).Str("resolved", realPath).Int("size", len(content)).Msg("wrote file")
	return nil
}

// resolvePath follows symlinks. A path that does not exist yet is returned as is.
func resolvePath(path string) (string, error) {
	realPath, err := filepath.EvalSymlinks(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return path, nil
		}
		return "", errors.Errorf("resolving %s: %w", path, err)
	}
	return realPath, nil
}

// checkWritable opens the file for writing without truncating it
func checkWritable(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.Errorf("opening for write: %w", err)
	}
	return f.Close()
}

var errIsDir = errors.Base("is a directory")
