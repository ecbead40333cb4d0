package p4

import (
	"log/slog"
	"regexp"
	"strconv"
)

var openedRe = regexp.MustCompile(`(?i)(^//[0-9a-zA-Z/\-_.]*)#(\d+)\s-\s(edit|add|delete|branch|integrate|move/add|move/delete)\s*(default)?\schange(?:\s(\d+))?`)

// ParseOpened parses p4 opened output, presenting each depot path in the
// requested syntax. Paths outside info.ClientStream are kept in depot syntax.
func ParseOpened(lines []string, syntax FileSyntax, info ClientInfo) Opened {
	files := Opened{}
	for _, line := range lines {
		m := openedRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		rev, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		change := DefaultChangeList
		if m[4] == "" {
			if change, err = strconv.Atoi(m[5]); err != nil {
				continue
			}
		}
		path, err := TranslatePath(m[1], syntax, info)
		if err != nil {
			slog.Warn("keeping depot path",
				slog.String("path", m[1]),
				slog.String("syntax", syntax.String()),
				slog.Any("error", err),
			)
			path = m[1]
		}
		files = append(files, OpenedFile{
			FilePath:   path,
			Revision:   rev,
			ChangeList: change,
			Action:     m[3],
		})
	}
	return files
}
