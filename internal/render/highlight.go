package render

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/mattn/go-isatty"
	darkmode "github.com/thiagokokada/dark-mode-go"
)

type Theme int

const (
	ThemeAuto Theme = iota
	ThemeLight
	ThemeDark
)

var detectDarkMode = darkmode.IsDarkMode

func (t Theme) String() string {
	switch t {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	default:
		return "auto"
	}
}

func ThemeFromString(raw string) Theme {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ThemeDark.String():
		return ThemeDark
	case ThemeLight.String():
		return ThemeLight
	default:
		return ThemeAuto
	}
}

// ColorEnabled resolves a color mode (auto, always, never) for w. Auto
// enables color only for terminals.
func ColorEnabled(mode string, w io.Writer) bool {
	switch strings.ToLower(mode) {
	case "always":
		return true
	case "never":
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// highlighted reports whether raw output of command is diff-shaped.
func highlighted(command string) bool {
	switch strings.ToLower(command) {
	case "describe", "diff", "diff2", "shelve", "unshelve":
		return true
	default:
		return false
	}
}

func styleForTheme(theme Theme) *chroma.Style {
	dark := theme == ThemeDark
	if theme == ThemeAuto && detectDarkMode != nil {
		if d, err := detectDarkMode(); err == nil {
			dark = d
		} else {
			slog.Debug("detect dark-mode", slog.Any("error", err))
		}
	}
	name := "github"
	if dark {
		name = "github-dark"
	}
	if st := styles.Get(name); st != nil {
		return st
	}
	return styles.Fallback
}

func highlight(w io.Writer, text string, theme Theme) error {
	lexer := lexers.Get("diff")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, text)
	if err != nil {
		_, werr := io.WriteString(w, text)
		return werr
	}
	return formatter.Format(w, styleForTheme(theme), iterator)
}
