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

package fixer

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/emojifix/pkg/rules"
	"github.com/walteh/emojifix/pkg/status"
	"github.com/walteh/emojifix/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔧 MockFileManager is a mock implementation of status.FileManager
type MockFileManager struct {
	mock.Mock
}

func (m *MockFileManager) ReadFile(ctx context.Context, path string) ([]byte, status.FileInfo, error) {
	result := m.Called(ctx, path)
	return result.Get(0).([]byte), result.Get(1).(status.FileInfo), result.Error(2)
}

func (m *MockFileManager) WriteFileAtomic(ctx context.Context, path string, content []byte, mode fs.FileMode) error {
	result := m.Called(ctx, path, content, mode)
	return result.Error(0)
}

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

func writeTarget(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "AdminPanel.jsx")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "writing target")
	return path
}

func readTarget(t *testing.T, path string) string {
	t.Helper()
	got, err := os.ReadFile(path)
	require.NoError(t, err, "reading target")
	return string(got)
}

const corruptedPanel = "const ICON_KEYWORDS = {\r\n" +
	"    '\uFFFD': ['soap', 'shampoo'],\r\n" +
	"    '\uFFFD\U0001F9C2': ['salt'],\r\n" +
	"    '\uFFFD\uFE0F': ['pen', 'pencil'],\r\n" +
	"    '\uFFFD': ['battery'],\r\n" +
	"};\r\n"

const fixedPanel = "const ICON_KEYWORDS = {\r\n" +
	"    '\U0001F9FC': ['soap', 'shampoo'],\r\n" +
	"    '\U0001F9C2': ['salt'],\r\n" +
	"    '\U0001F58A\uFE0F': ['pen', 'pencil'],\r\n" +
	"    '\uFFFD': ['battery'],\r\n" +
	"};\r\n"

func TestRun(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		rules        []text.ReplacementRule
		want         string
		wantModified bool
		wantCount    int
		wantStatus   status.FileStatus
	}{
		{
			name:         "fixes_known_corruptions",
			content:      corruptedPanel,
			rules:        rules.Known(),
			want:         fixedPanel,
			wantModified: true,
			wantCount:    3,
			wantStatus:   status.StatusModified,
		},
		{
			name:       "already_fixed_is_noop",
			content:    fixedPanel,
			rules:      rules.Known(),
			want:       fixedPanel,
			wantStatus: status.StatusUnchanged,
		},
		{
			name:       "no_corruption_is_noop",
			content:    "export default function AdminPanel() {}\n",
			rules:      rules.Known(),
			want:       "export default function AdminPanel() {}\n",
			wantStatus: status.StatusUnchanged,
		},
		{
			name:       "empty_rules_is_noop",
			content:    corruptedPanel,
			rules:      nil,
			want:       corruptedPanel,
			wantStatus: status.StatusUnchanged,
		},
		{
			name:         "byte_order_mark_is_kept",
			content:      "\uFEFFcolor_map = {'\uFFFD': ['soap', 'bottle']}",
			rules:        rules.Known(),
			want:         "\uFEFFcolor_map = {'\U0001F9FC': ['soap', 'bottle']}",
			wantModified: true,
			wantCount:    1,
			wantStatus:   status.StatusModified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTarget(t, tt.content)

			res, err := Run(testContext(t), path, tt.rules)
			require.NoError(t, err)

			assert.Equal(t, tt.want, readTarget(t, path))
			assert.Equal(t, tt.want, string(res.Fixed))
			assert.Equal(t, tt.content, string(res.Original))
			assert.Equal(t, tt.wantModified, res.Modified)
			assert.Equal(t, tt.wantCount, res.Replacements)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.True(t, res.Written, "target should always be rewritten")
			assert.Len(t, res.Rules, len(tt.rules))
		})
	}
}

func TestRun_TwiceIsStable(t *testing.T) {
	ctx := testContext(t)
	path := writeTarget(t, corruptedPanel)

	_, err := Run(ctx, path, rules.Known())
	require.NoError(t, err)
	first := readTarget(t, path)

	res, err := Run(ctx, path, rules.Known())
	require.NoError(t, err)
	assert.Equal(t, first, readTarget(t, path))
	assert.False(t, res.Modified)
	assert.Empty(t, res.Diff())
}

func TestRun_KeepsFileMode(t *testing.T) {
	path := writeTarget(t, corruptedPanel)
	require.NoError(t, os.Chmod(path, 0600))

	_, err := Run(testContext(t), path, rules.Known())
	require.NoError(t, err)

	stat, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0600), stat.Mode().Perm())
}

func TestRun_FollowsSymlink(t *testing.T) {
	path := writeTarget(t, corruptedPanel)
	link := filepath.Join(filepath.Dir(path), "link.jsx")
	require.NoError(t, os.Symlink(path, link))

	res, err := Run(testContext(t), link, rules.Known())
	require.NoError(t, err)
	assert.True(t, res.Written)

	lstat, err := os.Lstat(link)
	require.NoError(t, err)
	assert.True(t, lstat.Mode()&fs.ModeSymlink != 0, "link should still be a symlink")
	assert.Equal(t, fixedPanel, readTarget(t, path), "linked file should be fixed")
	assert.Equal(t, fixedPanel, readTarget(t, link))
}

func TestRun_DryRun(t *testing.T) {
	path := writeTarget(t, corruptedPanel)

	res, err := Run(testContext(t), path, rules.Known(), WithDryRun())
	require.NoError(t, err)

	assert.Equal(t, corruptedPanel, readTarget(t, path), "dry run must not write")
	assert.False(t, res.Written)
	assert.Equal(t, status.StatusPreview, res.Status)
	assert.Equal(t, 3, res.Replacements)
	assert.Contains(t, res.Diff(), "+    '\U0001F9FC': ['soap', 'shampoo'],")
	assert.Contains(t, res.Diff(), "-    '\uFFFD': ['soap', 'shampoo'],")
}

func TestRun_SkipUnchanged(t *testing.T) {
	fm := &MockFileManager{}
	fm.On("ReadFile", mock.Anything, "panel.jsx").Return([]byte("clean"), status.FileInfo{Mode: 0644}, nil)

	res, err := Run(testContext(t), "panel.jsx", rules.Known(), WithFileManager(fm), WithSkipUnchanged())
	require.NoError(t, err)
	assert.False(t, res.Written)
	fm.AssertNotCalled(t, "WriteFileAtomic", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_Errors(t *testing.T) {
	t.Run("missing_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.jsx")

		_, err := Run(testContext(t), path, rules.Known())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrAccess))
		assert.True(t, errors.Is(err, fs.ErrNotExist))

		var aerr *AccessError
		require.True(t, errors.As(err, &aerr))
		assert.Equal(t, "read", aerr.Op)
		assert.Equal(t, path, aerr.Path)
		assert.Contains(t, err.Error(), "access error")
	})

	t.Run("invalid_utf8_leaves_file_alone", func(t *testing.T) {
		content := "ok '\uFFFD': ['soap', \xff\xfe"
		path := writeTarget(t, content)

		_, err := Run(testContext(t), path, rules.Known())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEncoding))

		var eerr *EncodingError
		require.True(t, errors.As(err, &eerr))
		assert.Equal(t, len("ok '\uFFFD': ['soap', "), eerr.Offset)
		assert.Equal(t, content, readTarget(t, path), "file must be untouched")
	})

	t.Run("bad_pattern_leaves_file_alone", func(t *testing.T) {
		path := writeTarget(t, corruptedPanel)
		bad := append(rules.Known(), text.ReplacementRule{Pattern: `'\x{FFFD}': \['soap'`, Replacement: "x"}, text.ReplacementRule{Pattern: "(", Replacement: "y"})

		_, err := Run(testContext(t), path, bad)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrPattern))

		var perr *PatternError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, 11, perr.Index)
		assert.Equal(t, corruptedPanel, readTarget(t, path), "file must be untouched")
	})

	t.Run("bad_pattern_checked_before_read", func(t *testing.T) {
		fm := &MockFileManager{}
		_, err := Run(testContext(t), "panel.jsx", []text.ReplacementRule{{Pattern: "[", Replacement: "x"}}, WithFileManager(fm))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrPattern))
		fm.AssertNotCalled(t, "ReadFile", mock.Anything, mock.Anything)
	})

	t.Run("unwritable_target", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("permission bits are not enforced for root")
		}

		tests := []struct {
			name  string
			setup func(t *testing.T, path string)
		}{
			{
				name: "read_only_file",
				setup: func(t *testing.T, path string) {
					require.NoError(t, os.Chmod(path, 0444))
				},
			},
			{
				name: "read_only_directory",
				setup: func(t *testing.T, path string) {
					dir := filepath.Dir(path)
					require.NoError(t, os.Chmod(dir, 0555))
					t.Cleanup(func() { _ = os.Chmod(dir, 0755) })
				},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				path := writeTarget(t, corruptedPanel)
				tt.setup(t, path)

				_, err := Run(testContext(t), path, rules.Known())
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrAccess))
				assert.True(t, errors.Is(err, fs.ErrPermission))

				var aerr *AccessError
				require.True(t, errors.As(err, &aerr))
				assert.Equal(t, "write", aerr.Op)
				assert.Equal(t, corruptedPanel, readTarget(t, path), "file must be untouched")
			})
		}
	})

	t.Run("write_failure", func(t *testing.T) {
		fm := &MockFileManager{}
		fm.On("ReadFile", mock.Anything, "panel.jsx").Return([]byte(corruptedPanel), status.FileInfo{Mode: 0644}, nil)
		fm.On("WriteFileAtomic", mock.Anything, "panel.jsx", []byte(fixedPanel), fs.FileMode(0644)).Return(errors.New("disk full"))

		_, err := Run(testContext(t), "panel.jsx", rules.Known(), WithFileManager(fm))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrAccess))

		var aerr *AccessError
		require.True(t, errors.As(err, &aerr))
		assert.Equal(t, "write", aerr.Op)
		assert.Contains(t, err.Error(), "disk full")
		fm.AssertExpectations(t)
	})
}

func TestInvalidUTF8Offset(t *testing.T) {
	assert.Equal(t, -1, invalidUTF8Offset([]byte("plain")))
	assert.Equal(t, -1, invalidUTF8Offset([]byte("'\uFFFD'")), "encoded replacement character is valid")
	assert.Equal(t, 0, invalidUTF8Offset([]byte{0x80}))
	assert.Equal(t, 3, invalidUTF8Offset([]byte("abc\xc3")))
}
