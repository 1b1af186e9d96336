package shell

import (
	"errors"
	"fmt"
	"os"
)

var (
	ErrUnknownCommand     = errors.New("command not found")
	ErrMissingOperand     = errors.New("missing operand")
	ErrTooManyArgs        = errors.New("too many arguments")
	ErrUsage              = errors.New("invalid usage")
	ErrNoSuchFile         = errors.New("no such file")
	ErrNoSuchFileOrDir    = errors.New("no such file or directory")
	ErrNoSuchDir          = errors.New("no such directory")
	ErrNotDir             = errors.New("not a directory")
	ErrIsDir              = errors.New("is a directory")
	ErrNotEmpty           = errors.New("directory is not empty")
	ErrExists             = errors.New("already exists")
	ErrParentMissing      = errors.New("parent directory does not exist")
	ErrListDir            = errors.New("cannot list directory")
	ErrNotSourceDir       = errors.New("source is not a directory")
	ErrSameFile           = errors.New("source and destination are the same file")
	ErrIntoItself         = errors.New("cannot copy a directory into itself")
	ErrNotRegular         = errors.New("not a regular file")
	ErrRefuseRoot         = errors.New("refusing to remove the root directory")
	ErrArchiveRoot        = errors.New("refusing to archive the root directory")
	ErrArchiveNotFound    = errors.New("archive not found")
	ErrMissingDestination = errors.New("missing destination")
	ErrNoEntries          = errors.New("no entries found")
	ErrNothingAdded       = errors.New("nothing to archive")
	ErrSelfArchive        = errors.New("cannot add the archive to itself")
	ErrIllegalEntry       = errors.New("illegal entry path")
	ErrRedirect           = errors.New("cannot redirect output")
	ErrEmptyName          = errors.New("empty file name")
)

// Diagnostic is a failure scoped to one command and, for multi-item
// commands, one item.
type Diagnostic struct {
	Command string
	Item    string
	Err     error
}

func (d *Diagnostic) Error() string {
	if d.Item == "" {
		return fmt.Sprintf("%s: %v", d.Command, d.Err)
	}
	return fmt.Sprintf("%s: %s: %v", d.Command, d.Item, d.Err)
}

func (d *Diagnostic) Unwrap() error { return d.Err }

// Result is what a handler hands back to the dispatcher. Text is routed
// only when HasText is set and the command produces output; Diagnostics
// and Notes always go to the console.
type Result struct {
	Text        string
	HasText     bool
	Diagnostics []error
	Notes       []string
}

func (r *Result) fail(command, item string, err error) {
	r.Diagnostics = append(r.Diagnostics, &Diagnostic{Command: command, Item: item, Err: err})
}

func (r *Result) note(format string, a ...any) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, a...))
}

// Failed reports whether any diagnostic was recorded.
func (r Result) Failed() bool { return len(r.Diagnostics) > 0 }

func failed(command, item string, err error) Result {
	var r Result
	r.fail(command, item, err)
	return r
}

func text(s string) Result {
	return Result{Text: s, HasText: true}
}

// cause wraps sentinel with the operating system reason behind err,
// dropping the path already carried by the diagnostic.
func cause(sentinel, err error) error {
	return fmt.Errorf("%w: %v", sentinel, reason(err))
}

func reason(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	var le *os.LinkError
	if errors.As(err, &le) {
		return le.Err
	}
	return err
}
