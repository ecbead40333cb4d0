package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thiagokokada/p4x/internal/config"
	"github.com/thiagokokada/p4x/internal/p4"
	"github.com/thiagokokada/p4x/internal/p4/backend"
	"github.com/thiagokokada/p4x/internal/render"
	"github.com/thiagokokada/p4x/internal/store"
)

func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRootCommand(defaultEnv()).ExecuteContext(ctx)
}

// env holds the process-level collaborators so tests can swap them.
type env struct {
	openBackend func(cfg *config.Config) (backend.Backend, error)
	getwd       func() (string, error)
	ppid        func() int
	stdin       io.Reader
}

func defaultEnv() env {
	return env{
		openBackend: func(cfg *config.Config) (backend.Backend, error) {
			return backend.OpenCLI(cfg.P4Binary, cfg.Timeout)
		},
		getwd: os.Getwd,
		ppid:  os.Getppid,
		stdin: os.Stdin,
	}
}

type globalFlags struct {
	configPath string
	format     string
	syntax     string
	session    string
	color      string
	theme      string
	stateDB    string
	verbose    bool
}

type app struct {
	env   env
	flags globalFlags

	cfg   *config.Config
	store *store.Store
}

func newRootCommand(e env) *cobra.Command {
	a := &app{env: e}
	root := &cobra.Command{
		Use:   "p4x [flags] [p4 command] [p4 args...]",
		Short: "Run p4 commands and print their output as structured records",
		Long: "p4x runs a p4 command and turns the output of info, changes, filelog and opened\n" +
			"into records (text tables, JSON or YAML). Other commands pass through unchanged.\n\n" +
			"Extra p4 arguments understood by p4x:\n" +
			"  -my            (changes) only changes of the current user and client\n" +
			"  -localsyntax   present file paths as local absolute paths\n" +
			"  -depotsyntax   present file paths in depot syntax",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"info"}
			}
			return a.oneShot(cmd, args)
		},
	}
	root.SilenceUsage = true
	root.SilenceErrors = true
	root.CompletionOptions.DisableDefaultCmd = true
	// Everything after the p4 command name belongs to p4.
	root.Flags().SetInterspersed(false)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.StringVarP(&a.flags.format, "format", "f", "", "output format: text, json or yaml")
	pf.StringVar(&a.flags.syntax, "syntax", "", "file path syntax: relative, local or depot")
	pf.StringVar(&a.flags.session, "session", "", "session key for the cached p4 info (default: parent process)")
	pf.StringVar(&a.flags.color, "color", "", "colorize diff output: auto, always or never")
	pf.StringVar(&a.flags.theme, "theme", "", "color theme: auto, light or dark")
	pf.StringVar(&a.flags.stateDB, "state-db", "", "path of the session cache database")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "enable verbose logging")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		setupLogging(a.flags.verbose)
		return a.loadConfig(cmd)
	}
	root.PersistentPostRunE = func(*cobra.Command, []string) error {
		return a.close()
	}

	root.AddCommand(
		newResetCmd(a),
		newShellCmd(a),
		newSessionsCmd(a),
		newVersionCmd(a),
	)
	return root
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func (a *app) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		return err
	}
	overrides := []struct {
		flag string
		dst  *string
		val  string
	}{
		{"format", &cfg.Format, a.flags.format},
		{"syntax", &cfg.Syntax, a.flags.syntax},
		{"color", &cfg.Color, a.flags.color},
		{"theme", &cfg.Theme, a.flags.theme},
		{"state-db", &cfg.StateDB, a.flags.stateDB},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			*o.dst = o.val
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *app) openStore() (*store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	path := a.cfg.StateDB
	if path == "" {
		var err error
		if path, err = store.DefaultPath(); err != nil {
			return nil, err
		}
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	a.store = st
	return st, nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// newSession builds the p4 service and a session keyed by key (or by the
// parent process when key is empty, so the cache lives as long as the
// calling shell).
func (a *app) newSession(key string) (*p4.Service, *p4.Session, error) {
	st, err := a.openStore()
	if err != nil {
		return nil, nil, err
	}
	be, err := a.env.openBackend(a.cfg)
	if err != nil {
		return nil, nil, err
	}
	dir, err := a.env.getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve working directory: %w", err)
	}
	if key == "" {
		key = a.flags.session
	}
	if key == "" {
		key = fmt.Sprintf("ppid:%d", a.env.ppid())
	}
	return p4.NewService(be), p4.NewSession(key, dir, st), nil
}

func (a *app) oneShot(cmd *cobra.Command, args []string) error {
	svc, sess, err := a.newSession("")
	if err != nil {
		return err
	}
	return a.runLine(cmd.Context(), cmd.OutOrStdout(), svc, sess, args)
}

// runLine runs one host command line: the reserved reset command or a p4
// command whose output is parsed and rendered to out.
func (a *app) runLine(ctx context.Context, out io.Writer, svc *p4.Service, sess *p4.Session, args []string) error {
	if len(args) == 0 {
		return nil
	}
	command := args[0]
	if strings.EqualFold(command, "reset") {
		return a.reset(ctx, out, svc, sess)
	}
	rest, syntax := p4.ExtractSyntaxFlags(args[1:], p4.FileSyntaxFromString(a.cfg.Syntax))
	res, err := svc.Execute(ctx, p4.CommandInvocation{
		Command: command,
		Args:    rest,
		Syntax:  syntax,
		Session: sess,
	})
	if err != nil {
		if errors.Is(err, backend.ErrToolNotFound) {
			return fmt.Errorf("%w (set p4_binary in %s or P4X_P4_BINARY)", err, config.DefaultPath())
		}
		return err
	}
	return render.Write(out, p4.ParseStructured(ctx, res), a.renderOptions(out, command))
}

func (a *app) renderOptions(out io.Writer, command string) render.Options {
	return render.Options{
		Format:  render.Format(a.cfg.Format),
		Command: command,
		Color:   render.ColorEnabled(a.cfg.Color, out),
		Theme:   render.ThemeFromString(a.cfg.Theme),
	}
}

func (a *app) reset(ctx context.Context, out io.Writer, svc *p4.Service, sess *p4.Session) error {
	before, after, err := svc.Reset(ctx, sess)
	if err != nil {
		return err
	}
	opts := a.renderOptions(out, "info")
	if err := render.Write(out, after, opts); err != nil {
		return err
	}
	if opts.Format != render.FormatText || before == (p4.ClientInfo{}) {
		return nil
	}
	diff, err := render.ClientInfoDiff(before, after)
	if err != nil {
		return err
	}
	if diff != "" {
		fmt.Fprintf(out, "\n%s", diff)
	}
	return nil
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget the cached p4 info of this session and load it again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, sess, err := a.newSession("")
			if err != nil {
				return err
			}
			return a.reset(cmd.Context(), cmd.OutOrStdout(), svc, sess)
		},
	}
}
