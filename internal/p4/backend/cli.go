package backend

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// maxLineSize bounds a single output line; p4 describe can print very long
// diff lines.
const maxLineSize = 4 * 1024 * 1024

type CLI struct {
	binary  string
	timeout time.Duration

	versionOnce sync.Once
	version     Version
	versionErr  error
}

// OpenCLI resolves binary on PATH and verifies it is recent enough. A zero
// timeout disables the per-invocation deadline.
func OpenCLI(binary string, timeout time.Duration) (*CLI, error) {
	if strings.TrimSpace(binary) == "" {
		binary = "p4"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", binary, ErrToolNotFound)
		}
		return nil, fmt.Errorf("look up %s: %w", binary, err)
	}
	c := &CLI{binary: path, timeout: timeout}
	if err := c.ensureMinVersion(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CLI) Binary() string {
	if c == nil {
		return ""
	}
	return c.binary
}

func (c *CLI) Invoke(ctx context.Context, dir, command string, args []string) ([]string, error) {
	if c == nil || c.binary == "" {
		return nil, fmt.Errorf("p4 executable not set")
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	cmdArgs := append([]string{command}, args...)
	cmd := exec.CommandContext(ctx, c.binary, cmdArgs...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	err := cmd.Run()
	slog.Debug("p4 invoke",
		slog.String("command", command),
		slog.Any("args", args),
		slog.String("dir", dir),
		slog.Duration("elapsed", time.Since(started)),
	)
	label := "p4 " + command
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", label, ErrToolNotFound)
		}
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%s: %v: %s", label, err, strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		// p4 reports warnings such as "file(s) not opened on this client." on
		// stderr with a zero exit status.
		slog.Warn(label, slog.String("stderr", msg))
	}
	lines, err := SplitLines(&stdout)
	if err != nil {
		return nil, fmt.Errorf("%s: read output: %w", label, err)
	}
	return lines, nil
}

// SplitLines splits r into lines, dropping the line terminators (including a
// trailing \r from CRLF output).
func SplitLines(r io.Reader) ([]string, error) {
	lines := []string{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	return lines, scanner.Err()
}
