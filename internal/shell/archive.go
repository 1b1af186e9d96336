package shell

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/docker/go-units"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
)

// archiveWriter counts what went into one archive. Entries are written to
// tmp, which replaces self once the archive is complete.
type archiveWriter struct {
	zw      *zip.Writer
	self    string
	tmp     string
	entries int
}

// handleZip implements "zip [-r] archive file...". An existing archive is
// only replaced when at least one entry was added.
func (s *Shell) handleZip(args []string) Result {
	var recursive bool
	operands, err := parseFlags("zip", args, func(flags *pflag.FlagSet) {
		flags.BoolVarP(&recursive, "recursive", "r", false, "add directories recursively")
	})
	if err != nil {
		return failed("zip", "", err)
	}
	if len(operands) < 2 {
		return failed("zip", "", ErrMissingOperand)
	}

	archiveArg := operands[0]
	archive := s.resolve(archiveArg)
	f, err := afero.TempFile(s.fs, filepath.Dir(archive), "."+filepath.Base(archive)+"-*")
	if err != nil {
		return failed("zip", archiveArg, reason(err))
	}

	var res Result
	aw := &archiveWriter{zw: zip.NewWriter(f), self: archive, tmp: f.Name()}
	for _, arg := range operands[1:] {
		s.addSource(aw, arg, recursive, &res)
	}

	closeErr := aw.zw.Close()
	if err := f.Close(); closeErr == nil {
		closeErr = err
	}
	if closeErr != nil {
		_ = s.fs.Remove(aw.tmp)
		res.fail("zip", archiveArg, reason(closeErr))
		return res
	}

	if aw.entries == 0 {
		if err := s.fs.Remove(aw.tmp); err != nil {
			res.fail("zip", archiveArg, reason(err))
		}
		res.fail("zip", archiveArg, ErrNothingAdded)
		return res
	}

	if err := s.fs.Chmod(aw.tmp, FilePermission); err != nil {
		_ = s.fs.Remove(aw.tmp)
		res.fail("zip", archiveArg, reason(err))
		return res
	}
	if err := s.fs.Rename(aw.tmp, archive); err != nil {
		_ = s.fs.Remove(aw.tmp)
		res.fail("zip", archiveArg, reason(err))
		return res
	}

	size := int64(0)
	if info, err := s.fs.Stat(archive); err == nil {
		size = info.Size()
	}
	res.note("zip: added %d entries to %s (%s)", aw.entries, archiveArg, units.HumanSize(float64(size)))
	return res
}

func (s *Shell) addSource(aw *archiveWriter, arg string, recursive bool, res *Result) {
	p := s.resolve(arg)
	if p == aw.self {
		res.fail("zip", arg, ErrSelfArchive)
		return
	}
	info, err := s.fs.Stat(p)
	switch {
	case os.IsNotExist(err):
		res.fail("zip", arg, ErrNoSuchFile)
	case err != nil:
		res.fail("zip", arg, reason(err))
	case info.IsDir() && !recursive:
		res.fail("zip", arg, ErrIsDir)
	case info.IsDir() && p == filepath.Dir(p):
		res.fail("zip", arg, ErrArchiveRoot)
	case info.IsDir():
		s.addTree(aw, p, arg, res)
	default:
		if err := s.addEntry(aw, p, filepath.Base(p), info); err != nil {
			res.fail("zip", arg, reason(err))
		}
	}
}

// addTree adds root and everything below it under the name of root itself.
func (s *Shell) addTree(aw *archiveWriter, root, arg string, res *Result) {
	prefix := filepath.Base(root)
	_ = afero.Walk(s.fs, root, func(path string, info os.FileInfo, err error) error {
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		item := filepath.Join(arg, rel)
		if err != nil {
			s.log.WithError(err).WithField("path", path).Debug("zip: walk failed")
			res.fail("zip", item, reason(err))
			return nil
		}
		if path == aw.self || path == aw.tmp {
			return nil
		}
		if !info.IsDir() && !info.Mode().IsRegular() {
			res.fail("zip", item, ErrNotRegular)
			return nil
		}
		if err := s.addEntry(aw, path, filepath.Join(prefix, rel), info); err != nil {
			s.log.WithError(err).WithField("path", path).Debug("zip: entry failed")
			res.fail("zip", item, reason(err))
		}
		return nil
	})
}

// addEntry writes one file or directory entry. Entry names use forward
// slashes; directory names end with one.
func (s *Shell) addEntry(aw *archiveWriter, path, name string, info os.FileInfo) error {
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = filepath.ToSlash(name)

	if info.IsDir() {
		hdr.Name += "/"
		if _, err := aw.zw.CreateHeader(hdr); err != nil {
			return err
		}
		aw.entries++
		return nil
	}

	in, err := s.fs.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	hdr.Method = zip.Deflate
	w, err := aw.zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, in); err != nil {
		return err
	}
	aw.entries++
	return nil
}

// handleUnzip implements "unzip archive [-d dir]". Entries are extracted
// into the current directory unless -d names another one.
func (s *Shell) handleUnzip(args []string) Result {
	if len(args) > 0 && args[len(args)-1] == "-d" {
		return failed("unzip", "", ErrMissingDestination)
	}
	var destArg string
	operands, err := parseFlags("unzip", args, func(flags *pflag.FlagSet) {
		flags.StringVarP(&destArg, "dest", "d", "", "extract into this directory")
	})
	if err != nil {
		return failed("unzip", "", err)
	}
	switch {
	case len(operands) == 0:
		return failed("unzip", "", ErrMissingOperand)
	case len(operands) > 1:
		return failed("unzip", "", ErrTooManyArgs)
	}

	archiveArg := operands[0]
	archive := s.resolve(archiveArg)
	info, err := s.fs.Stat(archive)
	if err != nil || info.IsDir() {
		return failed("unzip", archiveArg, ErrArchiveNotFound)
	}

	f, err := s.fs.Open(archive)
	if err != nil {
		return failed("unzip", archiveArg, reason(err))
	}
	defer f.Close()

	// Insecure names are rejected per entry by extract.
	zr, err := zip.NewReader(f, info.Size())
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return failed("unzip", archiveArg, err)
	}
	if len(zr.File) == 0 {
		return failed("unzip", archiveArg, ErrNoEntries)
	}

	dest, destName := s.cwd, "."
	if destArg != "" {
		dest, destName = s.resolve(destArg), destArg
	}
	if err := s.fs.MkdirAll(dest, DirPermission); err != nil {
		return failed("unzip", destName, reason(err))
	}

	var res Result
	var extracted int
	var size uint64
	for _, zf := range zr.File {
		if err := s.extract(zf, dest); err != nil {
			s.log.WithError(err).WithField("entry", zf.Name).Debug("unzip: entry failed")
			res.fail("unzip", zf.Name, reason(err))
			continue
		}
		extracted++
		size += zf.UncompressedSize64
	}
	res.note("unzip: extracted %d entries to %s (%s)", extracted, destName, units.HumanSize(float64(size)))
	return res
}

func (s *Shell) extract(zf *zip.File, dest string) error {
	name := filepath.FromSlash(strings.TrimSuffix(zf.Name, "/"))
	if name == "" || !filepath.IsLocal(name) {
		return ErrIllegalEntry
	}
	target := filepath.Join(dest, name)

	if zf.FileInfo().IsDir() || strings.HasSuffix(zf.Name, "/") {
		return s.fs.MkdirAll(target, DirPermission)
	}
	if err := s.fs.MkdirAll(filepath.Dir(target), DirPermission); err != nil {
		return err
	}

	rc, err := zf.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	perm := zf.Mode().Perm()
	if perm == 0 {
		perm = FilePermission
	}
	out, err := s.fs.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
