package backend

import (
	"context"
	"errors"
)

var ErrToolNotFound = errors.New("p4 executable not found")

// Backend runs p4 commands.
//
// The default implementation shells out to the p4 executable, but the interface
// allows alternative implementations (e.g. recorded output in tests) without
// changing callers.
type Backend interface {
	// Invoke runs command with args in dir and returns stdout split into
	// lines. It blocks until the process exits.
	Invoke(ctx context.Context, dir, command string, args []string) ([]string, error)
}
