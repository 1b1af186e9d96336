package shell

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// resolve makes p absolute against the current directory and collapses
// . and .. elements. Every handler goes through it before touching the
// filesystem.
func (s *Shell) resolve(p string) string {
	if !filepath.IsAbs(p) {
		p = filepath.Join(s.cwd, p)
	}
	return filepath.Clean(p)
}

// lstat does not follow a trailing symlink when the filesystem supports it.
func (s *Shell) lstat(p string) (os.FileInfo, error) {
	if l, ok := s.fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(p)
		return info, err
	}
	return s.fs.Stat(p)
}

// within reports whether p equals root or lies below it.
func within(root, p string) bool {
	if p == root {
		return true
	}
	return strings.HasPrefix(p, strings.TrimSuffix(root, string(filepath.Separator))+string(filepath.Separator))
}
