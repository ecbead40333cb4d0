// Package render writes p4 records as text tables, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thiagokokada/p4x/internal/p4"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

type Options struct {
	Format Format
	// Command is the p4 command that produced the output; it selects the
	// highlighter for raw passthrough output.
	Command string
	Color   bool
	Theme   Theme
}

func Write(w io.Writer, out p4.Output, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		return writeText(w, out, opts)
	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
}

func writeText(w io.Writer, out p4.Output, opts Options) error {
	switch v := out.(type) {
	case p4.ClientInfo:
		return writeClientInfo(w, v)
	case p4.Changes:
		return writeChanges(w, v)
	case p4.FileLog:
		return writeFileLog(w, v)
	case p4.Opened:
		return writeOpened(w, v)
	case p4.RawLines:
		if opts.Color && highlighted(opts.Command) {
			return highlight(w, strings.Join(v, "\n")+"\n", opts.Theme)
		}
		for _, line := range v {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported output %T", out)
	}
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func clientInfoLines(info p4.ClientInfo) [][2]string {
	return [][2]string{
		{"User name", info.UserName},
		{"Client name", info.ClientName},
		{"Client host", info.ClientHost},
		{"Client root", info.ClientRoot},
		{"Client stream", info.ClientStream},
		{"Client address", info.ClientAddress},
		{"Server address", info.ServerAddress},
	}
}

func writeClientInfo(w io.Writer, info p4.ClientInfo) error {
	tw := newTable(w)
	for _, kv := range clientInfoLines(info) {
		fmt.Fprintf(tw, "%s:\t%s\n", kv[0], kv[1])
	}
	return tw.Flush()
}

func writeChanges(w io.Writer, changes p4.Changes) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "CHANGE\tDATE\tUSER\tCLIENT\tSTATUS\tDESCRIPTION")
	for _, c := range changes {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			c.ChangeList, formatDate(c.DateTime), c.UserName, c.ClientName, c.Status, summary(c.Description))
	}
	return tw.Flush()
}

func writeFileLog(w io.Writer, items p4.FileLog) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "FILE\tREV\tCHANGE\tACTION\tDATE\tUSER\tCLIENT\tDESCRIPTION")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t#%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			it.DepotFile, it.Revision, it.ChangeList, it.Action, formatDate(it.DateTime), it.UserName, it.ClientName, it.Description)
	}
	return tw.Flush()
}

func writeOpened(w io.Writer, files p4.Opened) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "FILE\tREV\tCHANGE\tACTION")
	for _, f := range files {
		change := "default"
		if f.ChangeList != p4.DefaultChangeList {
			change = strconv.Itoa(f.ChangeList)
		}
		fmt.Fprintf(tw, "%s\t#%d\t%s\t%s\n", f.FilePath, f.Revision, change, f.Action)
	}
	return tw.Flush()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006/01/02")
	}
	return t.Format("2006/01/02 15:04:05")
}

// summary returns the first non-blank line of a (possibly multi-line)
// description.
func summary(desc string) string {
	for line := range strings.Lines(desc) {
		if s := strings.TrimSpace(line); s != "" {
			return s
		}
	}
	return ""
}
