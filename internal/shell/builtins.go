package shell

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// maxLineSize bounds a single line read by cat.
const maxLineSize = 1 << 20

func (s *Shell) handlePwd(args []string) Result {
	if len(args) > 0 {
		return failed("pwd", "", ErrTooManyArgs)
	}
	return text(s.cwd)
}

func (s *Shell) handleCd(args []string) Result {
	var target string
	switch {
	case len(args) > 1:
		return failed("cd", "", ErrTooManyArgs)
	case len(args) == 0 || args[0] == "~":
		target = s.home
	default:
		target = s.resolve(args[0])
	}

	info, err := s.fs.Stat(target)
	if err != nil || !info.IsDir() {
		item := target
		if len(args) == 1 {
			item = args[0]
		}
		return failed("cd", item, ErrNoSuchDir)
	}
	s.cwd = target
	return Result{}
}

func (s *Shell) handleLs(args []string) Result {
	if len(args) > 0 {
		return failed("ls", "", ErrTooManyArgs)
	}

	infos, err := afero.ReadDir(s.fs, s.cwd)
	if err != nil {
		return failed("ls", s.cwd, cause(ErrListDir, err))
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	sort.Strings(names)
	return text(strings.Join(names, "\n"))
}

func (s *Shell) handleMkdir(args []string) Result {
	if len(args) == 0 {
		return failed("mkdir", "", ErrMissingOperand)
	}

	var res Result
	for _, arg := range args {
		p := s.resolve(arg)
		if _, err := s.lstat(p); err == nil {
			res.fail("mkdir", arg, ErrExists)
			continue
		} else if !os.IsNotExist(err) {
			res.fail("mkdir", arg, reason(err))
			continue
		}
		if err := s.fs.MkdirAll(p, DirPermission); err != nil {
			res.fail("mkdir", arg, reason(err))
		}
	}
	return res
}

func (s *Shell) handleRmdir(args []string) Result {
	switch {
	case len(args) == 0:
		return failed("rmdir", "", ErrMissingOperand)
	case len(args) > 1:
		return failed("rmdir", "", ErrTooManyArgs)
	case args[0] == "*":
		return s.removeEmptySubdirs()
	}

	p := s.resolve(args[0])
	info, err := s.fs.Stat(p)
	if os.IsNotExist(err) {
		return failed("rmdir", args[0], ErrNoSuchDir)
	}
	if err != nil {
		return failed("rmdir", args[0], reason(err))
	}
	if !info.IsDir() {
		return failed("rmdir", args[0], ErrNotDir)
	}
	empty, err := afero.IsEmpty(s.fs, p)
	if err != nil {
		return failed("rmdir", args[0], reason(err))
	}
	if !empty {
		return failed("rmdir", args[0], ErrNotEmpty)
	}
	if err := s.fs.Remove(p); err != nil {
		return failed("rmdir", args[0], reason(err))
	}
	return Result{}
}

// removeEmptySubdirs is rmdir *: non-empty directories are skipped silently.
func (s *Shell) removeEmptySubdirs() Result {
	infos, err := afero.ReadDir(s.fs, s.cwd)
	if err != nil {
		return failed("rmdir", s.cwd, cause(ErrListDir, err))
	}

	var res Result
	for _, info := range infos {
		if !info.IsDir() {
			continue
		}
		p := filepath.Join(s.cwd, info.Name())
		empty, err := afero.IsEmpty(s.fs, p)
		if err != nil {
			res.fail("rmdir", info.Name(), reason(err))
			continue
		}
		if !empty {
			continue
		}
		if err := s.fs.Remove(p); err != nil {
			res.fail("rmdir", info.Name(), reason(err))
		}
	}
	return res
}

func (s *Shell) handleTouch(args []string) Result {
	switch {
	case len(args) == 0:
		return failed("touch", "", ErrMissingOperand)
	case len(args) > 1:
		return failed("touch", "", ErrTooManyArgs)
	}

	p := s.resolve(args[0])
	parent, err := s.fs.Stat(filepath.Dir(p))
	if err != nil || !parent.IsDir() {
		return failed("touch", args[0], ErrParentMissing)
	}

	if _, err := s.fs.Stat(p); err == nil {
		now := time.Now()
		if err := s.fs.Chtimes(p, now, now); err != nil {
			return failed("touch", args[0], reason(err))
		}
		return Result{}
	}

	f, err := s.fs.Create(p)
	if err != nil {
		return failed("touch", args[0], reason(err))
	}
	if err := f.Close(); err != nil {
		return failed("touch", args[0], reason(err))
	}
	return Result{}
}

func (s *Shell) handleRm(args []string) Result {
	if len(args) == 0 {
		return failed("rm", "", ErrMissingOperand)
	}

	var res Result
	for _, arg := range args {
		p := s.resolve(arg)
		if filepath.Dir(p) == p {
			res.fail("rm", arg, ErrRefuseRoot)
			continue
		}
		if _, err := s.lstat(p); os.IsNotExist(err) {
			res.fail("rm", arg, ErrNoSuchFileOrDir)
			continue
		} else if err != nil {
			res.fail("rm", arg, reason(err))
			continue
		}
		if err := s.fs.RemoveAll(p); err != nil {
			s.log.WithError(err).WithField("path", p).Debug("rm failed")
			res.fail("rm", arg, reason(err))
		}
	}
	return res
}

// handleCat concatenates files line by line. Failures become lines of the
// output instead of aborting the command.
func (s *Shell) handleCat(args []string) Result {
	if len(args) == 0 {
		return failed("cat", "", ErrMissingOperand)
	}

	var lines []string
	for _, arg := range args {
		read, err := s.readLines(s.resolve(arg))
		lines = append(lines, read...)
		if err != nil {
			lines = append(lines, (&Diagnostic{Command: "cat", Item: arg, Err: err}).Error())
		}
	}
	return text(strings.Join(lines, "\n"))
}

func (s *Shell) readLines(p string) ([]string, error) {
	info, err := s.fs.Stat(p)
	if os.IsNotExist(err) {
		return nil, ErrNoSuchFile
	}
	if err != nil {
		return nil, reason(err)
	}
	if info.IsDir() {
		return nil, ErrIsDir
	}

	f, err := s.fs.Open(p)
	if err != nil {
		return nil, reason(err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return lines, fmt.Errorf("read error: %w", reason(err))
	}
	return lines, nil
}

// handleWc prints "<lines> <words> <chars> <name>". Lines counts line
// terminators, so a last line without one adds no line and no character.
func (s *Shell) handleWc(args []string) Result {
	switch {
	case len(args) == 0:
		return failed("wc", "", ErrMissingOperand)
	case len(args) > 1:
		return failed("wc", "", ErrTooManyArgs)
	}

	p := s.resolve(args[0])
	info, err := s.fs.Stat(p)
	if os.IsNotExist(err) {
		return failed("wc", args[0], ErrNoSuchFileOrDir)
	}
	if err != nil {
		return failed("wc", args[0], reason(err))
	}
	if info.IsDir() {
		return failed("wc", args[0], ErrIsDir)
	}

	data, err := afero.ReadFile(s.fs, p)
	if err != nil {
		return failed("wc", args[0], reason(err))
	}
	lines, words, chars := count(data)
	return text(fmt.Sprintf("%d %d %d %s", lines, words, chars, args[0]))
}

func count(data []byte) (lines, words, chars int) {
	lines = bytes.Count(data, []byte{'\n'})
	words = len(bytes.Fields(data))
	chars = utf8.RuneCount(data)
	return lines, words, chars
}
