// Package executor runs external tools such as ffmpeg and whisper.cpp.
package executor

import "context"

// Executor runs a command to completion and returns its stdout. A non-zero
// exit yields an error carrying the tail of stderr.
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
	// ExecuteInDir runs the command with dir as its working directory.
	ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error)
}
