package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/ikristina/fsh/internal/config"
	"github.com/ikristina/fsh/internal/shell"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Shell is the interactive front end: it reads lines with readline and
// hands them to the command dispatcher.
type Shell struct {
	rl  *readline.Instance
	fsh *shell.Shell
	out io.Writer
}

// NewShell creates a Shell rooted at cfg.Root on the real filesystem.
func NewShell(cfg *config.Config, out, errOut io.Writer) (*Shell, error) {
	if info, err := os.Stat(cfg.Root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: root %q is not a directory", config.ErrConfig, cfg.Root)
	}

	log := logrus.New()
	log.SetOutput(errOut)
	log.SetLevel(cfg.Level())

	opts := []shell.Option{shell.WithHome(cfg.Home), shell.WithLogger(log)}
	if cfg.IsColor() {
		opts = append(opts, shell.WithDiagnosticStyle(styleDiagnostic))
	}

	s := &Shell{
		fsh: shell.New(afero.NewOsFs(), cfg.Root, out, opts...),
		out: out,
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cfg.Prompt,
		HistoryFile:     cfg.HistoryFile,
		AutoComplete:    s,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Listener:        &BellListener{},
	})
	if err != nil {
		return nil, err
	}
	s.rl = rl
	return s, nil
}

// Run starts the shell's REPL (Read-Eval-Print Loop). It returns when the
// user types exit or closes the input.
func (s *Shell) Run() error {
	defer s.rl.Close()

	fmt.Fprintln(s.out, styleBanner("--- Command Line Interpreter (CLI) Started ---"))
	fmt.Fprintln(s.out, "Enter commands. Type 'exit' to terminate.")

	for {
		line, err := s.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			break
		}
		if errors.Is(s.fsh.Execute(line), shell.ErrExit) {
			break
		}
	}

	fmt.Fprintln(s.out, styleBanner("CLI terminating. Goodbye!"))
	return nil
}

// Do implements readline.AutoCompleter. The first word completes against
// the verbs, later words against entries of the current directory.
func (s *Shell) Do(line []rune, pos int) ([][]rune, int) {
	head := string(line[:pos])
	word := head[strings.LastIndexAny(head, " \t")+1:]

	candidates := s.fsh.Entries()
	if strings.TrimLeft(head, " \t") == word {
		candidates = append(shell.Verbs(), "exit")
	}

	var matches [][]rune
	for _, candidate := range candidates {
		if !strings.HasPrefix(candidate, word) {
			continue
		}
		suffix := candidate[len(word):]
		if !strings.HasSuffix(candidate, "/") {
			suffix += " "
		}
		matches = append(matches, []rune(suffix))
	}
	return matches, len([]rune(word))
}
