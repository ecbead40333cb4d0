package p4

import (
	"regexp"
	"strconv"
)

var (
	fileLogRevisionRe = regexp.MustCompile(`(?i).*#(\d+)\schange\s(\d+)\s(\w+)\son\s` + datePattern + `\sby\s` + userPattern + `@` + userPattern + `\s\((\w[\w+]*)\)\s(.*)`)
	fileLogDepotRe    = regexp.MustCompile(`^(//[^#\s]+)\s*$`)
)

// ParseFileLog parses p4 filelog output. The -l form is not modeled and is
// returned as RawLines.
func ParseFileLog(lines []string, args []string) Output {
	if isLongFormat(args) {
		return RawLines(lines)
	}
	items := FileLog{}
	var depotFile string
	for _, line := range lines {
		if m := fileLogDepotRe.FindStringSubmatch(line); m != nil {
			depotFile = m[1]
			continue
		}
		m := fileLogRevisionRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		rev, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		change, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		items = append(items, FileLogItem{
			DepotFile:   depotFile,
			Revision:    rev,
			ChangeList:  change,
			Action:      m[3],
			DateTime:    parseDate(m[4]),
			UserName:    m[5],
			ClientName:  m[6],
			Description: m[8],
		})
	}
	return items
}
