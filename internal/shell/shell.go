package shell

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ikristina/fsh/internal/parser"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// ErrExit is returned by Execute when the session should end.
var ErrExit = errors.New("exit")

type handler func(s *Shell, args []string) Result

// Builtin is one entry of the verb table. Output marks commands whose text
// may be redirected; the others report through diagnostics only.
type Builtin struct {
	run    handler
	Output bool
}

var builtinCommands = map[string]Builtin{
	"pwd":   {run: (*Shell).handlePwd, Output: true},
	"cd":    {run: (*Shell).handleCd},
	"ls":    {run: (*Shell).handleLs, Output: true},
	"mkdir": {run: (*Shell).handleMkdir},
	"rmdir": {run: (*Shell).handleRmdir},
	"touch": {run: (*Shell).handleTouch},
	"cp":    {run: (*Shell).handleCp},
	"rm":    {run: (*Shell).handleRm},
	"cat":   {run: (*Shell).handleCat, Output: true},
	"wc":    {run: (*Shell).handleWc, Output: true},
	"zip":   {run: (*Shell).handleZip},
	"unzip": {run: (*Shell).handleUnzip},
}

// Shell holds the session state: the filesystem, the current directory and
// where results are written.
type Shell struct {
	fs    afero.Fs
	cwd   string
	home  string
	out   io.Writer
	log   logrus.FieldLogger
	style func(string) string
}

// Option customizes a Shell.
type Option func(*Shell)

// WithHome sets the directory a bare cd changes to.
func WithHome(home string) Option {
	return func(s *Shell) { s.home = filepath.Clean(home) }
}

// WithLogger sets the debug logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Shell) { s.log = log }
}

// WithDiagnosticStyle sets a function applied to every console diagnostic.
func WithDiagnosticStyle(style func(string) string) Option {
	return func(s *Shell) { s.style = style }
}

// New creates a Shell over fs whose current directory is cwd, which must be
// absolute. Console output goes to out.
func New(fs afero.Fs, cwd string, out io.Writer, opts ...Option) *Shell {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Shell{
		fs:    fs,
		cwd:   filepath.Clean(cwd),
		home:  filepath.Clean(cwd),
		out:   out,
		log:   discard,
		style: func(msg string) string { return msg },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cwd returns the current directory.
func (s *Shell) Cwd() string { return s.cwd }

// Verbs returns the known command names, sorted.
func Verbs() []string {
	verbs := make([]string, 0, len(builtinCommands))
	for name := range builtinCommands {
		verbs = append(verbs, name)
	}
	sort.Strings(verbs)
	return verbs
}

// Entries lists the current directory, directories suffixed with a slash.
// Errors yield an empty list.
func (s *Shell) Entries() []string {
	infos, err := afero.ReadDir(s.fs, s.cwd)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		name := info.Name()
		if info.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	return names
}

// Execute parses and runs one input line. It returns ErrExit for "exit" in
// any letter case and nil otherwise; failures are reported on the console.
func (s *Shell) Execute(line string) error {
	if strings.EqualFold(strings.TrimSpace(line), "exit") {
		return ErrExit
	}

	cmd, err := parser.Parse(line)
	if errors.Is(err, parser.ErrEmptyInput) {
		return nil
	}
	if err != nil {
		fmt.Fprintln(s.out, s.style("Error: "+err.Error()))
		return nil
	}

	s.Dispatch(cmd)
	return nil
}

// Dispatch runs a parsed command and routes its result. The Result is
// returned for callers that want to inspect it.
func (s *Shell) Dispatch(cmd parser.Command) Result {
	builtin, ok := builtinCommands[cmd.Name]
	if !ok {
		res := failed(cmd.Name, "", ErrUnknownCommand)
		s.report(res)
		return res
	}

	for _, arg := range cmd.Args {
		if arg == "" {
			res := failed(cmd.Name, `""`, ErrEmptyName)
			s.report(res)
			return res
		}
	}

	s.log.WithFields(logrus.Fields{
		"command":  cmd.Name,
		"args":     cmd.Args,
		"redirect": cmd.RedirectFile,
	}).Debug("dispatching command")

	res := builtin.run(s, cmd.Args)
	s.report(res)

	if !builtin.Output || !res.HasText {
		return res
	}
	if !cmd.Redirected {
		fmt.Fprintln(s.out, res.Text)
		return res
	}

	target := s.resolve(cmd.RedirectFile)
	if err := s.writeToFile(target, []byte(res.Text+"\n"), cmd.AppendMode); err != nil {
		d := &Diagnostic{Command: cmd.Name, Item: cmd.RedirectFile, Err: cause(ErrRedirect, err)}
		res.Diagnostics = append(res.Diagnostics, d)
		fmt.Fprintln(s.out, s.style(d.Error()))
	}
	return res
}

func (s *Shell) report(res Result) {
	for _, note := range res.Notes {
		fmt.Fprintln(s.out, note)
	}
	for _, d := range res.Diagnostics {
		s.log.WithError(d).Debug("command diagnostic")
		fmt.Fprintln(s.out, s.style(d.Error()))
	}
}
