package p4

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	datePattern   = `(\d+/\d+/\d+(?:\s\d+:\d+:\d+)?)`
	userPattern   = `([0-9a-zA-Z\-._]+)`
	clientPattern = `([(0-9a-zA-Z\-._]+)`
)

var (
	changeHeaderRe = regexp.MustCompile(`(?i)^(\w+)\s(\d+)\son\s` + datePattern + `\sby\s` + userPattern + `@` + clientPattern + `(?:\s(\*pending\*))?`)
	changeLineRe   = regexp.MustCompile(`(?i)^(\w+)\s(\d+)\son\s` + datePattern + `\sby\s` + userPattern + `@` + clientPattern + `(?:\s(\*pending\*)?\s?(.*))?`)

	dateLayouts = []string{"2006/1/2 15:04:05", "2006/1/2"}
)

// isLongFormat reports whether args request p4's long output (-l/-L).
func isLongFormat(args []string) bool {
	for _, arg := range args {
		if strings.EqualFold(arg, "-l") {
			return true
		}
	}
	return false
}

// parseDate parses p4's YYYY/MM/DD[ HH:MM:SS] timestamps in local time. Other
// formats yield the zero time.
func parseDate(raw string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

func newChangeListItem(m []string) (ChangeListItem, bool) {
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return ChangeListItem{}, false
	}
	return ChangeListItem{
		ChangeList: n,
		DateTime:   parseDate(m[3]),
		UserName:   m[4],
		ClientName: m[5],
		Status:     m[6],
	}, true
}

// ParseChanges parses p4 changes output. args are the arguments the command
// ran with and select between the one-line and the -l block grammar.
func ParseChanges(lines []string, args []string) Changes {
	if isLongFormat(args) {
		return parseChangesLong(lines)
	}
	return parseChangesShort(lines)
}

func parseChangesShort(lines []string) Changes {
	changes := Changes{}
	for _, line := range lines {
		if line == "" {
			continue
		}
		m := changeLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		change, ok := newChangeListItem(m)
		if !ok {
			continue
		}
		change.Description = m[7]
		changes = append(changes, change)
	}
	return changes
}

// changeAccumulator folds -l output: a header line closes the open record
// and opens a new one, every other line is appended to the open record's
// description.
type changeAccumulator struct {
	finished Changes
	current  *ChangeListItem
	buf      strings.Builder
}

func (a *changeAccumulator) header(change ChangeListItem) {
	a.flush()
	a.current = &change
}

func (a *changeAccumulator) line(line string) {
	if a.current == nil {
		return
	}
	a.buf.WriteString(line)
	a.buf.WriteByte('\n')
}

func (a *changeAccumulator) flush() {
	if a.current == nil {
		return
	}
	a.current.Description = a.buf.String()
	a.finished = append(a.finished, *a.current)
	a.current = nil
	a.buf.Reset()
}

func parseChangesLong(lines []string) Changes {
	acc := changeAccumulator{finished: Changes{}}
	for _, line := range lines {
		if m := changeHeaderRe.FindStringSubmatch(line); m != nil {
			if change, ok := newChangeListItem(m); ok {
				acc.header(change)
				continue
			}
		}
		acc.line(line)
	}
	acc.flush()
	return acc.finished
}
