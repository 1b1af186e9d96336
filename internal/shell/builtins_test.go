package shell

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShell_handlePwd(t *testing.T) {
	s, _, _ := newTestShell(t)

	res := s.handlePwd(nil)
	assert.True(t, res.HasText)
	assert.Equal(t, "/work", res.Text)

	res = s.handlePwd([]string{"x"})
	assert.ErrorIs(t, res.Diagnostics[0], ErrTooManyArgs)
}

func TestShell_handleCd(t *testing.T) {
	tests := map[string]struct {
		args     []string
		expected string
		err      error
	}{
		"happy path - no args goes home": {
			args:     []string{},
			expected: "/home/user",
		},
		"happy path - tilde goes home": {
			args:     []string{"~"},
			expected: "/home/user",
		},
		"happy path - relative": {
			args:     []string{"a/b"},
			expected: "/work/a/b",
		},
		"happy path - absolute": {
			args:     []string{"/home"},
			expected: "/home",
		},
		"happy path - parent": {
			args:     []string{".."},
			expected: "/",
		},
		"happy path - dots are collapsed": {
			args:     []string{"a/./b/../b/"},
			expected: "/work/a/b",
		},
		"sad path - missing": {
			args:     []string{"nope"},
			expected: "/work",
			err:      ErrNoSuchDir,
		},
		"sad path - a file": {
			args:     []string{"f.txt"},
			expected: "/work",
			err:      ErrNoSuchDir,
		},
		"sad path - too many": {
			args:     []string{"a", "b"},
			expected: "/work",
			err:      ErrTooManyArgs,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s, fs, _ := newTestShell(t)
			require.NoError(t, fs.MkdirAll("/work/a/b", DirPermission))
			writeFile(t, fs, "/work/f.txt", "")

			res := s.handleCd(tc.args)

			assert.Equal(t, tc.expected, s.Cwd())
			if tc.err == nil {
				assert.Empty(t, res.Diagnostics)
				return
			}
			require.Len(t, res.Diagnostics, 1)
			assert.ErrorIs(t, res.Diagnostics[0], tc.err)
		})
	}
}

func TestShell_handleCd_ParentAtRootIsNoop(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := New(fs, "/", nil)

	res := s.handleCd([]string{".."})

	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, "/", s.Cwd())
}

func TestShell_handleLs(t *testing.T) {
	s, fs, _ := newTestShell(t)
	writeFile(t, fs, "/work/zeta", "")
	writeFile(t, fs, "/work/Alpha", "")
	require.NoError(t, fs.MkdirAll("/work/beta", DirPermission))

	res := s.handleLs(nil)
	assert.Equal(t, "Alpha\nbeta\nzeta", res.Text)

	res = s.handleLs([]string{"-l"})
	assert.ErrorIs(t, res.Diagnostics[0], ErrTooManyArgs)
}

func TestShell_handleLs_UnreadableDirectory(t *testing.T) {
	s, fs, _ := newTestShell(t)
	require.NoError(t, fs.MkdirAll("/work/gone", DirPermission))
	run(t, s, "cd gone")
	require.NoError(t, fs.RemoveAll("/work/gone"))

	res := s.handleLs(nil)

	assert.False(t, res.HasText)
	assert.ErrorIs(t, res.Diagnostics[0], ErrListDir)
}

func TestShell_handleMkdir(t *testing.T) {
	s, fs, _ := newTestShell(t)

	res := s.handleMkdir([]string{"d", "deep/er/still"})
	require.Empty(t, res.Diagnostics)
	for _, dir := range []string{"/work/d", "/work/deep/er/still"} {
		isDir, err := afero.IsDir(fs, dir)
		require.NoError(t, err)
		assert.True(t, isDir, dir)
	}

	writeFile(t, fs, "/work/d/keep.txt", "keep")
	res = s.handleMkdir([]string{"d", "other"})

	require.Len(t, res.Diagnostics, 1)
	assert.ErrorIs(t, res.Diagnostics[0], ErrExists)
	assert.Equal(t, "mkdir: d: already exists", res.Diagnostics[0].Error())
	assert.Equal(t, "keep", readFile(t, fs, "/work/d/keep.txt"))
	isDir, err := afero.IsDir(fs, "/work/other")
	require.NoError(t, err)
	assert.True(t, isDir, "a failing name does not stop the others")

	res = s.handleMkdir(nil)
	assert.ErrorIs(t, res.Diagnostics[0], ErrMissingOperand)
}

func TestShell_handleRmdir_Star(t *testing.T) {
	s, fs, _ := newTestShell(t)
	require.NoError(t, fs.MkdirAll("/work/e", DirPermission))
	require.NoError(t, fs.MkdirAll("/work/f", DirPermission))
	writeFile(t, fs, "/work/f/x", "x")
	writeFile(t, fs, "/work/plain", "")

	res := s.handleRmdir([]string{"*"})

	assert.Empty(t, res.Diagnostics)
	exists, err := afero.Exists(fs, "/work/e")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, "x", readFile(t, fs, "/work/f/x"))
	assert.Equal(t, "", readFile(t, fs, "/work/plain"))
}

func TestShell_handleRmdir(t *testing.T) {
	tests := map[string]struct {
		args []string
		err  error
	}{
		"happy path - empty directory": {args: []string{"empty"}},
		"sad path - missing":           {args: []string{"nope"}, err: ErrNoSuchDir},
		"sad path - a file":            {args: []string{"file"}, err: ErrNotDir},
		"sad path - not empty":         {args: []string{"full"}, err: ErrNotEmpty},
		"sad path - no operand":        {args: []string{}, err: ErrMissingOperand},
		"sad path - two operands":      {args: []string{"empty", "full"}, err: ErrTooManyArgs},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s, fs, _ := newTestShell(t)
			require.NoError(t, fs.MkdirAll("/work/empty", DirPermission))
			require.NoError(t, fs.MkdirAll("/work/full", DirPermission))
			writeFile(t, fs, "/work/full/x", "x")
			writeFile(t, fs, "/work/file", "")

			res := s.handleRmdir(tc.args)

			if tc.err != nil {
				require.Len(t, res.Diagnostics, 1)
				assert.ErrorIs(t, res.Diagnostics[0], tc.err)
				return
			}
			assert.Empty(t, res.Diagnostics)
			exists, err := afero.Exists(fs, "/work/empty")
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestShell_handleTouch(t *testing.T) {
	s, fs, _ := newTestShell(t)

	res := s.handleTouch([]string{"new.txt"})
	require.Empty(t, res.Diagnostics)
	assert.Equal(t, "", readFile(t, fs, "/work/new.txt"))

	res = s.handleTouch([]string{"missing/new.txt"})
	assert.ErrorIs(t, res.Diagnostics[0], ErrParentMissing)

	res = s.handleTouch([]string{"a", "b"})
	assert.ErrorIs(t, res.Diagnostics[0], ErrTooManyArgs)
}

func TestShell_handleTouch_ExistingFileKeepsContent(t *testing.T) {
	s, fs, _ := newTestShell(t)
	writeFile(t, fs, "/work/old.txt", "content")
	past := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, fs.Chtimes("/work/old.txt", past, past))

	res := s.handleTouch([]string{"old.txt"})

	require.Empty(t, res.Diagnostics)
	assert.Equal(t, "content", readFile(t, fs, "/work/old.txt"))
	info, err := fs.Stat("/work/old.txt")
	require.NoError(t, err)
	assert.True(t, info.ModTime().After(past))
}

func TestShell_handleRm(t *testing.T) {
	s, fs, _ := newTestShell(t)
	writeFile(t, fs, "/work/f.txt", "f")
	require.NoError(t, fs.MkdirAll("/work/tree/a", DirPermission))
	writeFile(t, fs, "/work/tree/a/b.txt", "b")

	res := s.handleRm([]string{"f.txt", "missing", "tree"})

	require.Len(t, res.Diagnostics, 1)
	assert.ErrorIs(t, res.Diagnostics[0], ErrNoSuchFileOrDir)
	assert.Equal(t, "rm: missing: no such file or directory", res.Diagnostics[0].Error())
	for _, p := range []string{"/work/f.txt", "/work/tree"} {
		exists, err := afero.Exists(fs, p)
		require.NoError(t, err)
		assert.False(t, exists, p)
	}

	res = s.handleRm([]string{"/"})
	assert.ErrorIs(t, res.Diagnostics[0], ErrRefuseRoot)

	res = s.handleRm(nil)
	assert.ErrorIs(t, res.Diagnostics[0], ErrMissingOperand)
}

func TestShell_handleCat(t *testing.T) {
	s, fs, _ := newTestShell(t)
	writeFile(t, fs, "/work/a.txt", "one\ntwo\n")
	writeFile(t, fs, "/work/b.txt", "three")
	require.NoError(t, fs.MkdirAll("/work/dir", DirPermission))

	res := s.handleCat([]string{"a.txt", "missing", "dir", "b.txt"})

	assert.True(t, res.HasText)
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, "one\ntwo\ncat: missing: no such file\ncat: dir: is a directory\nthree", res.Text)

	res = s.handleCat(nil)
	assert.ErrorIs(t, res.Diagnostics[0], ErrMissingOperand)
}

func TestShell_handleWc(t *testing.T) {
	tests := map[string]struct {
		content  string
		expected string
	}{
		"happy path - three lines without trailing newline": {
			content:  "a\nb\nc",
			expected: "2 3 5 f.txt",
		},
		"happy path - three lines with trailing newline": {
			content:  "a\nb\nc\n",
			expected: "3 3 6 f.txt",
		},
		"happy path - several words per line": {
			content:  "hello big  world\n\tfoo\n",
			expected: "2 4 22 f.txt",
		},
		"happy path - multibyte characters": {
			content:  "héllo\n",
			expected: "1 1 6 f.txt",
		},
		"edge case - empty file": {
			content:  "",
			expected: "0 0 0 f.txt",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s, fs, _ := newTestShell(t)
			writeFile(t, fs, "/work/f.txt", tc.content)

			res := s.handleWc([]string{"f.txt"})

			require.Empty(t, res.Diagnostics)
			assert.Equal(t, tc.expected, res.Text)
		})
	}
}

func TestShell_handleWc_Errors(t *testing.T) {
	s, fs, _ := newTestShell(t)
	require.NoError(t, fs.MkdirAll("/work/dir", DirPermission))

	assert.ErrorIs(t, s.handleWc([]string{"nope"}).Diagnostics[0], ErrNoSuchFileOrDir)
	assert.ErrorIs(t, s.handleWc([]string{"dir"}).Diagnostics[0], ErrIsDir)
	assert.ErrorIs(t, s.handleWc(nil).Diagnostics[0], ErrMissingOperand)
	assert.ErrorIs(t, s.handleWc([]string{"a", "b"}).Diagnostics[0], ErrTooManyArgs)
}
