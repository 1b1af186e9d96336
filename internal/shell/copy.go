package shell

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
)

// handleCp implements "cp src dst" and "cp -r srcDir dstDir".
func (s *Shell) handleCp(args []string) Result {
	var recursive bool
	operands, err := parseFlags("cp", args, func(flags *pflag.FlagSet) {
		flags.BoolVarP(&recursive, "recursive", "r", false, "copy directories recursively")
	})
	if err != nil {
		return failed("cp", "", err)
	}
	switch {
	case len(operands) < 2:
		return failed("cp", "", ErrMissingOperand)
	case len(operands) > 2:
		return failed("cp", "", ErrTooManyArgs)
	}

	if recursive {
		return s.copyTree(operands[0], operands[1])
	}
	return s.copyOne(operands[0], operands[1])
}

func (s *Shell) copyOne(srcArg, dstArg string) Result {
	src := s.resolve(srcArg)
	info, err := s.fs.Stat(src)
	if os.IsNotExist(err) {
		return failed("cp", srcArg, ErrNoSuchFile)
	}
	if err != nil {
		return failed("cp", srcArg, reason(err))
	}
	if info.IsDir() {
		return failed("cp", srcArg, ErrIsDir)
	}

	dst := s.resolve(dstArg)
	if dstInfo, err := s.fs.Stat(dst); err == nil && dstInfo.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	}
	if dst == src {
		return failed("cp", srcArg, ErrSameFile)
	}
	// dst may be a link to src; truncating it would empty the source.
	if dstInfo, err := s.fs.Stat(dst); err == nil && os.SameFile(info, dstInfo) {
		return failed("cp", srcArg, ErrSameFile)
	}

	if err := s.copyFile(src, dst, info.Mode().Perm()); err != nil {
		return failed("cp", dstArg, reason(err))
	}
	return Result{}
}

// copyTree mirrors srcArg under dstArg. A failing item is reported and the
// walk goes on, so items already copied stay in place.
func (s *Shell) copyTree(srcArg, dstArg string) Result {
	src := s.resolve(srcArg)
	info, err := s.fs.Stat(src)
	if os.IsNotExist(err) {
		return failed("cp", srcArg, ErrNoSuchFile)
	}
	if err != nil {
		return failed("cp", srcArg, reason(err))
	}
	if !info.IsDir() {
		return failed("cp", srcArg, ErrNotSourceDir)
	}

	dst := s.resolve(dstArg)
	if within(src, dst) {
		return failed("cp", dstArg, ErrIntoItself)
	}
	if dstInfo, err := s.fs.Stat(dst); err == nil && !dstInfo.IsDir() {
		return failed("cp", dstArg, ErrNotDir)
	}
	if err := s.fs.MkdirAll(dst, DirPermission); err != nil {
		return failed("cp", dstArg, reason(err))
	}

	var res Result
	var dirs []pendingDir
	_ = afero.Walk(s.fs, src, func(path string, info os.FileInfo, err error) error {
		rel, relErr := filepath.Rel(src, path)
		if relErr != nil {
			rel = path
		}
		if err != nil {
			s.log.WithError(err).WithField("path", path).Debug("cp: walk failed")
			res.fail("cp", filepath.Join(srcArg, rel), reason(err))
			return nil
		}
		target := filepath.Join(dst, rel)
		if err := s.copyItem(path, target, info); err != nil {
			s.log.WithError(err).WithField("path", path).Debug("cp: item failed")
			res.fail("cp", filepath.Join(srcArg, rel), reason(err))
		} else if info.IsDir() {
			dirs = append(dirs, pendingDir{path: target, mode: info.Mode().Perm(), modTime: info.ModTime()})
		}
		return nil
	})

	// Directory attributes are applied last, deepest first: a read-only
	// directory must not block its children, and writing a child moves
	// its parent's modification time.
	for i := len(dirs) - 1; i >= 0; i-- {
		d := dirs[i]
		if err := s.fs.Chmod(d.path, d.mode); err != nil {
			res.fail("cp", d.path, reason(err))
			continue
		}
		if err := s.fs.Chtimes(d.path, d.modTime, d.modTime); err != nil {
			res.fail("cp", d.path, reason(err))
		}
	}
	return res
}

type pendingDir struct {
	path    string
	mode    os.FileMode
	modTime time.Time
}

// copyItem copies one walked entry, following a symlink to what it names.
// Directories are not descended into here; the walk does that.
func (s *Shell) copyItem(src, dst string, info os.FileInfo) error {
	if !info.IsDir() && !info.Mode().IsRegular() {
		followed, err := s.fs.Stat(src)
		if err != nil {
			return err
		}
		info = followed
	}

	switch {
	case info.IsDir():
		return s.fs.MkdirAll(dst, DirPermission)
	case info.Mode().IsRegular():
		if err := s.copyFile(src, dst, info.Mode().Perm()); err != nil {
			return err
		}
		if err := s.fs.Chmod(dst, info.Mode().Perm()); err != nil {
			return err
		}
		return s.fs.Chtimes(dst, info.ModTime(), info.ModTime())
	default:
		return ErrNotRegular
	}
}

// copyFile streams src over dst, truncating any existing content.
func (s *Shell) copyFile(src, dst string, perm os.FileMode) error {
	in, err := s.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := s.fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
