// Package parser turns a raw input line into a Command: it splits the line
// into tokens, merges drive-rooted paths that contain spaces and detects the
// first output redirection operator.
package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	SingleQuote = '\''
	DoubleQuote = '"'
	Backslash   = '\\'

	// RedirectOverwrite truncates the target before writing.
	RedirectOverwrite = ">"
	// RedirectAppend appends to the target.
	RedirectAppend = ">>"
)

var (
	// ErrEmptyInput is returned for blank lines. Callers treat it as a no-op.
	ErrEmptyInput = errors.New("empty input")
	// ErrMissingRedirectTarget is returned when > or >> ends the line.
	ErrMissingRedirectTarget = errors.New("missing redirection file name")
)

// driveRooted matches "single letter, colon, backslash, anything".
var driveRooted = regexp.MustCompile(`^[A-Za-z]:\\`)

// Command is the result of parsing one input line. Redirected == false
// implies RedirectFile == "" and AppendMode == false.
type Command struct {
	Name         string
	Args         []string
	Redirected   bool
	AppendMode   bool
	RedirectFile string
}

type token struct {
	text   string
	quoted bool
}

// Parse splits input into a Command. Blank input or an empty command name
// yields ErrEmptyInput and a redirection operator without a target yields
// ErrMissingRedirectTarget; in both cases the returned Command is the zero
// value. A quoted empty argument is kept as "".
func Parse(input string) (Command, error) {
	tokens := mergeDrivePaths(tokenize(input))
	if len(tokens) == 0 || tokens[0].text == "" {
		return Command{}, ErrEmptyInput
	}

	cmd := Command{Name: tokens[0].text, Args: []string{}}
	for i := 1; i < len(tokens); i++ {
		tok := tokens[i]
		if !tok.isRedirect() {
			cmd.Args = append(cmd.Args, tok.text)
			continue
		}
		if i+1 >= len(tokens) {
			return Command{}, fmt.Errorf("%w after %s", ErrMissingRedirectTarget, tok.text)
		}
		cmd.Redirected = true
		cmd.AppendMode = tok.text == RedirectAppend
		cmd.RedirectFile = tokens[i+1].text
		break
	}
	return cmd, nil
}

// Tokenize returns the tokens of input after quote removal and drive path
// merging, without interpreting redirection.
func Tokenize(input string) []string {
	tokens := mergeDrivePaths(tokenize(input))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.text)
	}
	return out
}

// IsDriveRooted reports whether s starts like C:\.
func IsDriveRooted(s string) bool {
	return driveRooted.MatchString(s)
}

func (t token) isRedirect() bool {
	return !t.quoted && (t.text == RedirectOverwrite || t.text == RedirectAppend)
}

// tokenize splits on runs of whitespace outside quotes. Backslashes are kept
// literally except inside double quotes, where \" and \\ are escapes, so that
// C:\dir survives unquoted.
func tokenize(input string) []token {
	var tokens []token
	var current strings.Builder
	quoted := false
	quoteChar := rune(0)

	flush := func() {
		if current.Len() > 0 || quoted {
			tokens = append(tokens, token{text: current.String(), quoted: quoted})
		}
		current.Reset()
		quoted = false
	}

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case quoteChar == DoubleQuote && c == Backslash && i+1 < len(runes) &&
			(runes[i+1] == DoubleQuote || runes[i+1] == Backslash):
			current.WriteRune(runes[i+1])
			i++
		case quoteChar == 0 && (c == SingleQuote || c == DoubleQuote):
			quoteChar = c
			quoted = true
		case quoteChar != 0 && c == quoteChar:
			quoteChar = 0
		case quoteChar == 0 && unicode.IsSpace(c):
			flush()
		default:
			current.WriteRune(c)
		}
	}
	flush()
	return tokens
}

// mergeDrivePaths joins an unquoted drive-rooted token with the unquoted
// tokens after it, up to a redirection operator, another drive-rooted token
// or the end of input. Two drive-rooted arguments in a row therefore need a
// quote or an operator between them.
func mergeDrivePaths(tokens []token) []token {
	merged := make([]token, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.quoted || !IsDriveRooted(tok.text) {
			merged = append(merged, tok)
			continue
		}
		parts := []string{tok.text}
		for i+1 < len(tokens) && continuesPath(tokens[i+1]) {
			i++
			parts = append(parts, tokens[i].text)
		}
		merged = append(merged, token{text: strings.Join(parts, " ")})
	}
	return merged
}

func continuesPath(t token) bool {
	return !t.quoted && !t.isRedirect() && !IsDriveRooted(t.text)
}
