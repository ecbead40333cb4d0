package p4

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/thiagokokada/p4x/internal/p4/backend"
)

var ErrNoSession = errors.New("no session")

type Service struct {
	backend backend.Backend
}

func NewService(b backend.Backend) *Service {
	return &Service{backend: b}
}

// Execute runs inv through p4. Commands with a rewrite rule get their
// arguments rewritten first; the returned result records the arguments that
// were actually passed to p4.
func (s *Service) Execute(ctx context.Context, inv CommandInvocation) (ExecutionResult, error) {
	args := slices.Clone(inv.Args)
	if args == nil {
		args = []string{}
	}
	switch ParseCommandKind(inv.Command) {
	case CommandChanges:
		if hasMyFlag(args) {
			info, err := s.LoadClientInfo(ctx, inv.Session)
			if err != nil {
				return ExecutionResult{}, fmt.Errorf("expand %s: %w", MyFlag, err)
			}
			args = expandMyFlag(args, info)
		}
	case CommandOpened:
		// Path translation needs the client stream and root.
		if inv.Session != nil && inv.Syntax != SyntaxDepot && inv.Syntax != SyntaxClient {
			if _, err := s.LoadClientInfo(ctx, inv.Session); err != nil {
				return ExecutionResult{}, err
			}
		}
	case CommandInfo, CommandFileLog, CommandOther:
	}

	dir := ""
	if inv.Session != nil {
		dir = inv.Session.Dir()
	}
	out, err := s.backend.Invoke(ctx, dir, inv.Command, args)
	if err != nil {
		return ExecutionResult{}, err
	}
	inv.Args = args
	slog.Debug("execute done",
		slog.String("invocation", inv.String()),
		slog.Int("lines", len(out)),
	)
	return ExecutionResult{Invocation: inv, Output: out}, nil
}

// LoadClientInfo returns the session's cached ClientInfo, running p4 info to
// populate the cache on first use.
func (s *Service) LoadClientInfo(ctx context.Context, sess *Session) (ClientInfo, error) {
	if sess == nil {
		return ClientInfo{}, ErrNoSession
	}
	if info, ok := sess.ClientInfo(ctx); ok {
		return info, nil
	}
	res, err := s.Execute(ctx, CommandInvocation{Command: "info", Session: sess})
	if err != nil {
		return ClientInfo{}, fmt.Errorf("load client info: %w", err)
	}
	info, ok := ParseStructured(ctx, res).(ClientInfo)
	if !ok {
		return ClientInfo{}, fmt.Errorf("load client info: unexpected info output")
	}
	return info, nil
}

// Reset clears the session cache and reloads it. It returns the ClientInfo
// cached before the reset (zero if none) and the fresh one.
func (s *Service) Reset(ctx context.Context, sess *Session) (before, after ClientInfo, err error) {
	if sess == nil {
		return ClientInfo{}, ClientInfo{}, ErrNoSession
	}
	before, _ = sess.ClientInfo(ctx)
	if err := sess.Reset(ctx); err != nil {
		return before, ClientInfo{}, fmt.Errorf("reset session %s: %w", sess.Key(), err)
	}
	after, err = s.LoadClientInfo(ctx, sess)
	return before, after, err
}
