// Package shell implements the command dispatcher and the filesystem
// commands of fsh. A Shell owns the session's current directory and routes
// each command's text either to the console or to a redirection target.
//
// All filesystem access goes through an afero.Fs, so the same commands run
// against the real disk or an in-memory tree.
package shell
