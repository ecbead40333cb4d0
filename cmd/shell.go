package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/shlex"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/thiagokokada/p4x/internal/watch"
)

const shellPrompt = "p4x> "

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run p4 commands interactively sharing one cached p4 info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.shell(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func (a *app) shell(ctx context.Context, out, errOut io.Writer) error {
	key := a.flags.session
	owned := key == ""
	if owned {
		key = "shell:" + uuid.NewString()
	}
	svc, sess, err := a.newSession(key)
	if err != nil {
		return err
	}
	slog.Debug("shell started", "session", sess.Key(), "dir", sess.Dir())
	if owned {
		defer func() {
			if err := sess.Reset(context.WithoutCancel(ctx)); err != nil {
				slog.Warn("drop shell session", "session", sess.Key(), "error", err)
			}
		}()
	}

	if a.cfg.Watch {
		w, err := watch.Start(sess.Dir(), watch.DefaultDelay, func() {
			if err := sess.Reset(ctx); err != nil {
				slog.Warn("reset session after config change", "error", err)
				return
			}
			slog.Info("p4 configuration changed, cached info dropped", "session", sess.Key())
		})
		if err != nil {
			slog.Warn("watch p4 configuration", "error", err)
		} else {
			defer w.Close()
		}
	}

	interactive := isTerminal(a.env.stdin)
	scanner := bufio.NewScanner(a.env.stdin)
	for {
		if interactive {
			fmt.Fprint(out, shellPrompt)
		}
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		args, err := shlex.Split(scanner.Text())
		if err != nil {
			fmt.Fprintf(errOut, "p4x: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		switch strings.ToLower(args[0]) {
		case "exit", "quit":
			return nil
		}
		if err := a.runLine(ctx, out, svc, sess, args); err != nil {
			fmt.Fprintf(errOut, "p4x: %v\n", err)
		}
	}
	if interactive {
		fmt.Fprintln(out)
	}
	return scanner.Err()
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
